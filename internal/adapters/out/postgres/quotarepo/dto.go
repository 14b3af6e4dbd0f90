// Package quotarepo persists client quota records and their top-ups.
// The quota row is the single contended resource in the system: every
// deduction locks it, so the mapping keeps the row narrow.
package quotarepo

import (
	"time"

	"github.com/google/uuid"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/quota"
)

// ClientQuotaDTO represents the database structure for a client's monthly
// allowance. The period column holds the first day of the month, the
// canonical form produced by kernel.Period.
type ClientQuotaDTO struct {
	ClientID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Period         time.Time `gorm:"primaryKey"`
	BWLimit        int
	ColorLimit     int
	BWUsed         int
	ColorUsed      int
	BWAlertSent    bool
	ColorAlertSent bool
}

// TableName specifies the database table name for quota records.
func (ClientQuotaDTO) TableName() string {
	return "client_quotas"
}

// TopupDTO represents one granted top-up. Top-ups are immutable; limits are
// summed at read time and never rewritten into the quota row.
type TopupDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID   uuid.UUID `gorm:"type:uuid;index:idx_topups_client_period"`
	AdminID    uuid.UUID `gorm:"type:uuid"`
	Period     time.Time `gorm:"index:idx_topups_client_period"`
	BWAdded    int
	ColorAdded int
	Notes      string
	GrantedAt  time.Time
}

// TableName specifies the database table name for top-ups.
func (TopupDTO) TableName() string {
	return "topups"
}

func fromDomain(aggregate *quota.ClientQuota) ClientQuotaDTO {
	return ClientQuotaDTO{
		ClientID:       aggregate.ClientID().Bytes(),
		Period:         aggregate.Period().Date(),
		BWLimit:        aggregate.BWLimit(),
		ColorLimit:     aggregate.ColorLimit(),
		BWUsed:         aggregate.BWUsed(),
		ColorUsed:      aggregate.ColorUsed(),
		BWAlertSent:    aggregate.AlertSent(quota.ChannelBW),
		ColorAlertSent: aggregate.AlertSent(quota.ChannelColor),
	}
}

func toDomain(dto ClientQuotaDTO) (*quota.ClientQuota, error) {
	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}

	return quota.RestoreClientQuota(clientID, kernel.NewPeriod(dto.Period),
		dto.BWLimit, dto.ColorLimit, dto.BWUsed, dto.ColorUsed,
		dto.BWAlertSent, dto.ColorAlertSent)
}

func topupFromDomain(grant *quota.Topup) TopupDTO {
	return TopupDTO{
		ID:         grant.ID().Bytes(),
		ClientID:   grant.ClientID().Bytes(),
		AdminID:    grant.AdminID().Bytes(),
		Period:     grant.Period().Date(),
		BWAdded:    grant.BWAdded(),
		ColorAdded: grant.ColorAdded(),
		Notes:      grant.Notes(),
		GrantedAt:  grant.GrantedAt(),
	}
}

func topupToDomain(dto TopupDTO) (*quota.Topup, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}

	adminID, err := kernel.UUIDFromBytes(dto.AdminID[:])
	if err != nil {
		return nil, err
	}

	return quota.RestoreTopup(id, clientID, adminID, kernel.NewPeriod(dto.Period),
		dto.BWAdded, dto.ColorAdded, dto.Notes, dto.GrantedAt)
}
