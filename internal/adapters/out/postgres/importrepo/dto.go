// Package importrepo persists CSV import batches and their per-row errors.
package importrepo

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"printflow/internal/core/domain/model/csvimport"
	"printflow/internal/core/domain/model/kernel"
)

// BatchDTO represents the database structure for import batches. Row errors
// travel as a JSONB array so a rejected batch keeps its full report.
type BatchDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	AdminID    uuid.UUID `gorm:"type:uuid;index"`
	Filename   string
	Status     int
	TotalRows  int
	ValidRows  int
	RowErrors  []byte `gorm:"type:jsonb"`
	UploadedAt time.Time
}

// TableName specifies the database table name for import batches.
func (BatchDTO) TableName() string {
	return "import_batches"
}

// rowErrorDTO mirrors csvimport.RowError for JSON storage.
type rowErrorDTO struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func fromDomain(batch *csvimport.Batch) (BatchDTO, error) {
	rowErrors := make([]rowErrorDTO, 0, len(batch.RowErrors()))
	for _, rowError := range batch.RowErrors() {
		rowErrors = append(rowErrors, rowErrorDTO{
			Line:    rowError.Line,
			Field:   rowError.Field,
			Message: rowError.Message,
		})
	}

	encoded, err := json.Marshal(rowErrors)
	if err != nil {
		return BatchDTO{}, err
	}

	return BatchDTO{
		ID:         batch.ID().Bytes(),
		AdminID:    batch.AdminID().Bytes(),
		Filename:   batch.Filename(),
		Status:     int(batch.Status()),
		TotalRows:  batch.TotalRows(),
		ValidRows:  batch.ValidRows(),
		RowErrors:  encoded,
		UploadedAt: batch.UploadedAt(),
	}, nil
}

func toDomain(dto BatchDTO) (*csvimport.Batch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	adminID, err := kernel.UUIDFromBytes(dto.AdminID[:])
	if err != nil {
		return nil, err
	}

	var encoded []rowErrorDTO
	if len(dto.RowErrors) > 0 {
		if err = json.Unmarshal(dto.RowErrors, &encoded); err != nil {
			return nil, err
		}
	}

	rowErrors := make([]csvimport.RowError, 0, len(encoded))
	for _, rowError := range encoded {
		rowErrors = append(rowErrors, csvimport.RowError{
			Line:    rowError.Line,
			Field:   rowError.Field,
			Message: rowError.Message,
		})
	}

	return csvimport.RestoreBatch(id, adminID, dto.Filename, csvimport.Status(dto.Status),
		dto.TotalRows, dto.ValidRows, rowErrors, dto.UploadedAt)
}
