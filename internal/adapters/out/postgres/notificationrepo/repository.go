package notificationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
	"printflow/internal/pkg/errs"
)

// GormNotificationRepository implements NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add saves a new notification to the database.
func (r *GormNotificationRepository) Add(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a notification by ID.
func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto NotificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetUnreadByRecipient retrieves the recipient's unread notifications,
// oldest first.
func (r *GormNotificationRepository) GetUnreadByRecipient(ctx context.Context, recipientID kernel.UUID) ([]*notification.Notification, error) {
	if err := recipientID.Validate(); err != nil {
		return nil, err
	}

	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&dtos, "recipient_id = ? AND is_read = false", recipientID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetUndispatched retrieves up to limit notifications not yet forwarded,
// oldest first, for the dispatch job.
func (r *GormNotificationRepository) GetUndispatched(ctx context.Context, limit int) ([]*notification.Notification, error) {
	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Order("created_at").
		Limit(limit).
		Find(&dtos, "is_dispatched = false").Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// Update saves a notification's read and dispatch flags.
func (r *GormNotificationRepository) Update(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("id = ?", dto.ID).
		Select("IsRead", "IsDispatched").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func toDomainSlice(dtos []NotificationDTO) ([]*notification.Notification, error) {
	notifications := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, aggregate)
	}
	return notifications, nil
}
