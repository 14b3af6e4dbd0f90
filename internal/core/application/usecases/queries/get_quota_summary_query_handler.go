package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"printflow/internal/core/application/ledger"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/ports"
)

// GetQuotaSummaryQueryHandler assembles a client's allowance summary from
// the usage row and the period's top-ups. The ledger creates usage rows
// lazily, so a client who never ordered in the period gets a summary over
// the default limits with zero usage.
type GetQuotaSummaryQueryHandler struct {
	db       *gorm.DB
	clock    ports.Clock
	defaults ledger.Defaults
}

// NewGetQuotaSummaryQueryHandler creates a handler for quota summary queries.
func NewGetQuotaSummaryQueryHandler(db *gorm.DB, clock ports.Clock, defaults ledger.Defaults) GetQuotaSummaryQueryHandler {
	return GetQuotaSummaryQueryHandler{db: db, clock: clock, defaults: defaults}
}

// Handle executes the query and returns the summary read model.
func (h GetQuotaSummaryQueryHandler) Handle(
	ctx context.Context,
	query GetQuotaSummaryQuery,
) (GetQuotaSummaryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetQuotaSummaryQueryResponse{}, err
	}

	period := query.Period()
	if period.IsZero() {
		period = kernel.NewPeriod(h.clock.Now())
	}

	bwLimit := h.defaults.BWLimit
	colorLimit := h.defaults.ColorLimit
	var bwUsed, colorUsed int
	var bwAlertSent, colorAlertSent bool

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			bw_limit,
			color_limit,
			bw_used,
			color_used,
			bw_alert_sent,
			color_alert_sent
		FROM client_quotas
		WHERE client_id = ? AND period = ?
	`, query.ClientID().Bytes(), period.Date()).Row()

	err := row.Scan(&bwLimit, &colorLimit, &bwUsed, &colorUsed, &bwAlertSent, &colorAlertSent)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return GetQuotaSummaryQueryResponse{}, err
	}

	topups, bwAdded, colorAdded, err := h.loadTopups(ctx, query.ClientID(), period)
	if err != nil {
		return GetQuotaSummaryQueryResponse{}, err
	}

	return GetQuotaSummaryQueryResponse{
		ClientID: query.ClientID(),
		Period:   period.String(),
		BW:       summarizeChannel(bwLimit, bwAdded, bwUsed, bwAlertSent),
		Color:    summarizeChannel(colorLimit, colorAdded, colorUsed, colorAlertSent),
		Topups:   topups,
	}, nil
}

func (h GetQuotaSummaryQueryHandler) loadTopups(
	ctx context.Context,
	clientID kernel.UUID,
	period kernel.Period,
) ([]TopupSummaryResponse, int, int, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			admin_id,
			bw_added,
			color_added,
			notes,
			granted_at
		FROM topups
		WHERE client_id = ? AND period = ?
		ORDER BY granted_at
	`, clientID.Bytes(), period.Date()).Rows()
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	topups := make([]TopupSummaryResponse, 0)
	var bwAdded, colorAdded int

	for rows.Next() {
		var topup TopupSummaryResponse
		var id, adminID uuid.UUID
		var grantedAt time.Time

		if err = rows.Scan(&id, &adminID, &topup.BWAdded, &topup.ColorAdded, &topup.Notes, &grantedAt); err != nil {
			return nil, 0, 0, err
		}

		topupID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, 0, 0, idErr
		}
		topup.ID = topupID

		grantedBy, idErr := kernel.UUIDFromBytes(adminID[:])
		if idErr != nil {
			return nil, 0, 0, idErr
		}
		topup.AdminID = grantedBy
		topup.GrantedAt = grantedAt.UTC()

		bwAdded += topup.BWAdded
		colorAdded += topup.ColorAdded
		topups = append(topups, topup)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	return topups, bwAdded, colorAdded, nil
}

func summarizeChannel(baseLimit, topupAdded, used int, alertSent bool) ChannelSummaryResponse {
	effective := baseLimit + topupAdded
	available := effective - used
	if available < 0 {
		available = 0
	}

	percent := 100.0
	if effective > 0 {
		percent = float64(used) / float64(effective) * 100
	}

	return ChannelSummaryResponse{
		BaseLimit:      baseLimit,
		TopupAdded:     topupAdded,
		EffectiveLimit: effective,
		Used:           used,
		Available:      available,
		UsagePercent:   percent,
		AlertSent:      alertSent,
	}
}
