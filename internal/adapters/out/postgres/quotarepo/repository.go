package quotarepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/quota"
	"printflow/internal/pkg/errs"
)

// GormQuotaRepository implements QuotaRepository using GORM.
type GormQuotaRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormQuotaRepository creates a new GORM quota repository.
func NewGormQuotaRepository(db *gorm.DB, tracker aggregateTracker) *GormQuotaRepository {
	return &GormQuotaRepository{
		db:      db,
		tracker: tracker,
	}
}

// GetOrCreate returns the client's quota record for the period, creating it
// with the given limits if absent. The insert ignores conflicts, so two
// concurrent first admissions for the same (client, period) both succeed and
// read the same row afterwards.
func (r *GormQuotaRepository) GetOrCreate(ctx context.Context, clientID kernel.UUID, period kernel.Period, bwLimit int, colorLimit int) (*quota.ClientQuota, error) {
	if err := clientID.Validate(); err != nil {
		return nil, err
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}

	record, err := r.Get(ctx, clientID, period)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	fresh, err := quota.NewClientQuota(clientID, period, bwLimit, colorLimit)
	if err != nil {
		return nil, err
	}

	dto := fromDomain(fresh)
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto).Error
	if err != nil {
		return nil, err
	}

	// Re-read: a concurrent creator may have won the insert.
	return r.Get(ctx, clientID, period)
}

// GetForUpdate retrieves the quota record under a row-level exclusive lock.
// Callers hold the lock until their transaction ends, which makes
// re-check-and-deduct atomic against concurrent admissions.
func (r *GormQuotaRepository) GetForUpdate(ctx context.Context, clientID kernel.UUID, period kernel.Period) (*quota.ClientQuota, error) {
	if err := clientID.Validate(); err != nil {
		return nil, err
	}

	var dto ClientQuotaDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "client_id = ? AND period = ?", clientID.Bytes(), period.Date()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("clientQuota", clientID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Get retrieves the quota record without locking.
func (r *GormQuotaRepository) Get(ctx context.Context, clientID kernel.UUID, period kernel.Period) (*quota.ClientQuota, error) {
	if err := clientID.Validate(); err != nil {
		return nil, err
	}

	var dto ClientQuotaDTO
	err := r.db.WithContext(ctx).
		First(&dto, "client_id = ? AND period = ?", clientID.Bytes(), period.Date()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("clientQuota", clientID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// Update saves the quota record's usage counters and alert latches.
func (r *GormQuotaRepository) Update(ctx context.Context, aggregate *quota.ClientQuota) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ClientQuotaDTO{}).
		Where("client_id = ? AND period = ?", dto.ClientID, dto.Period).
		Select("BWUsed", "ColorUsed", "BWAlertSent", "ColorAlertSent").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ClientID(), aggregate)
	return nil
}

// AddTopup saves a granted top-up. Top-ups are append-only.
func (r *GormQuotaRepository) AddTopup(ctx context.Context, grant *quota.Topup) error {
	if err := grant.Validate(); err != nil {
		return err
	}

	dto := topupFromDomain(grant)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetTopups retrieves the client's top-ups for the period, oldest first.
func (r *GormQuotaRepository) GetTopups(ctx context.Context, clientID kernel.UUID, period kernel.Period) ([]*quota.Topup, error) {
	if err := clientID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TopupDTO
	err := r.db.WithContext(ctx).
		Order("granted_at").
		Find(&dtos, "client_id = ? AND period = ?", clientID.Bytes(), period.Date()).Error
	if err != nil {
		return nil, err
	}

	topups := make([]*quota.Topup, 0, len(dtos))
	for _, dto := range dtos {
		grant, topupErr := topupToDomain(dto)
		if topupErr != nil {
			return nil, topupErr
		}
		topups = append(topups, grant)
	}

	return topups, nil
}
