// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed by client, agent and import batch for listing queries. The external
// order identifier is globally unique; NULL rows stay outside the index so
// orders without one never collide.
type OrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ClientID        uuid.UUID  `gorm:"type:uuid;index"`
	AgentID         *uuid.UUID `gorm:"type:uuid;index"`
	Status          int
	BWQuantity      int
	ColorQuantity   int
	PaperDimensions string
	PaperType       string
	Finishing       string
	Notes           string
	ExternalOrderID *string    `gorm:"uniqueIndex:idx_orders_external"`
	ImportID        *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var agentID *uuid.UUID
	if id := aggregate.Agent(); id != nil {
		raw := id.Bytes()
		agentID = &raw
	}

	attrs := aggregate.Attributes()

	var importID *uuid.UUID
	if attrs.ImportID != nil {
		raw := attrs.ImportID.Bytes()
		importID = &raw
	}

	var externalOrderID *string
	if attrs.ExternalOrderID != "" {
		value := attrs.ExternalOrderID
		externalOrderID = &value
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		ClientID:        aggregate.ClientID().Bytes(),
		AgentID:         agentID,
		Status:          int(aggregate.Status()),
		BWQuantity:      aggregate.BWQuantity(),
		ColorQuantity:   aggregate.ColorQuantity(),
		PaperDimensions: attrs.PaperDimensions,
		PaperType:       attrs.PaperType,
		Finishing:       attrs.Finishing,
		Notes:           attrs.Notes,
		ExternalOrderID: externalOrderID,
		ImportID:        importID,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including status and agent assignment
// using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}

	var agentID *kernel.UUID
	if dto.AgentID != nil {
		aID, agentErr := kernel.UUIDFromBytes((*dto.AgentID)[:])
		if agentErr != nil {
			return nil, agentErr
		}

		agentID = &aID
	}

	var importID *kernel.UUID
	if dto.ImportID != nil {
		iID, importErr := kernel.UUIDFromBytes((*dto.ImportID)[:])
		if importErr != nil {
			return nil, importErr
		}

		importID = &iID
	}

	var externalOrderID string
	if dto.ExternalOrderID != nil {
		externalOrderID = *dto.ExternalOrderID
	}

	return order.RestoreOrder(id, clientID, agentID, order.Status(dto.Status),
		dto.BWQuantity, dto.ColorQuantity, order.Attributes{
			PaperDimensions: dto.PaperDimensions,
			PaperType:       dto.PaperType,
			Finishing:       dto.Finishing,
			Notes:           dto.Notes,
			ExternalOrderID: externalOrderID,
			ImportID:        importID,
		})
}
