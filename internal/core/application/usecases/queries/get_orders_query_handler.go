package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/order"
)

// GetOrdersQueryHandler lists orders from the database with direct SQL.
// Results are sorted newest first for dashboard listings.
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersQueryHandler creates a handler for order listing queries.
func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

// Handle executes the query and returns the matching orders.
func (h GetOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersQuery,
) ([]GetOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT
			id,
			client_id,
			agent_id,
			status,
			bw_quantity,
			color_quantity,
			paper_dimensions,
			paper_type,
			finishing,
			external_order_id,
			created_at
		FROM orders
		WHERE 1=1
	`
	args := make([]any, 0, 3)

	if clientID := query.ClientID(); clientID != nil {
		sqlQuery += " AND client_id = ?"
		args = append(args, clientID.Bytes())
	}
	if agentID := query.AgentID(); agentID != nil {
		sqlQuery += " AND agent_id = ?"
		args = append(args, agentID.Bytes())
	}
	if status := query.Status(); status != nil {
		sqlQuery += " AND status = ?"
		args = append(args, int(*status))
	}
	sqlQuery += " ORDER BY created_at DESC"

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetOrdersQueryResponse, 0)

	for rows.Next() {
		var orderResp GetOrdersQueryResponse
		var id, clientID uuid.UUID
		var agentID *uuid.UUID
		var status int
		var externalOrderID sql.NullString
		var createdAt time.Time

		err = rows.Scan(
			&id,
			&clientID,
			&agentID,
			&status,
			&orderResp.BWQuantity,
			&orderResp.ColorQuantity,
			&orderResp.PaperDimensions,
			&orderResp.PaperType,
			&orderResp.Finishing,
			&externalOrderID,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID

		ownerID, idErr := kernel.UUIDFromBytes(clientID[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ClientID = ownerID

		if agentID != nil {
			assignee, agentErr := kernel.UUIDFromBytes((*agentID)[:])
			if agentErr != nil {
				return nil, agentErr
			}
			orderResp.AgentID = &assignee
		}

		orderResp.Status = order.Status(status).String()
		orderResp.ExternalOrderID = externalOrderID.String
		orderResp.CreatedAt = createdAt.UTC()
		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
