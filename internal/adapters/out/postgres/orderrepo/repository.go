package orderrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/order"
	"printflow/internal/core/ports"
	"printflow/internal/pkg/errs"
)

const uniqueViolationCode = "23505"

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database. A unique violation on the
// external order identifier surfaces as ports.ErrDuplicateExternalOrderID,
// so idempotent admission races resolve at the database rather than
// first-read time.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.ErrDuplicateExternalOrderID
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).
		Select("AgentID", "Status", "PaperDimensions", "PaperType", "Finishing", "Notes").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Delete removes an order. Used only by the admission compensation path:
// an order whose quota deduction failed was never admitted.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Bytes()).Error
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByExternalOrderID retrieves the order carrying the given external
// identifier, whichever client submitted it.
func (r *GormOrderRepository) GetByExternalOrderID(ctx context.Context, externalOrderID string) (*order.Order, error) {
	if externalOrderID == "" {
		return nil, errs.NewValueIsRequiredError("externalOrderID")
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		First(&dto, "external_order_id = ?", externalOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", externalOrderID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// CountActiveByAgent counts the agent's orders that are not yet completed.
func (r *GormOrderRepository) CountActiveByAgent(ctx context.Context, agentID kernel.UUID) (int, error) {
	if err := agentID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("agent_id = ? AND status != ?", agentID.Bytes(), int(order.Completed)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// isUniqueViolation recognizes a unique-constraint error from either
// postgres driver in use (pgx under gorm, lib/pq under database/sql).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}

	return false
}
