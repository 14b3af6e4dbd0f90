package quota

import (
	"errors"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/errs"
	"printflow/internal/pkg/guard"
)

// ErrClientQuotaIsNotConstructed indicates that the ClientQuota aggregate
// was created without a constructor.
var ErrClientQuotaIsNotConstructed = errors.New(
	"ClientQuota is not constructed. Use NewClientQuota or RestoreClientQuota",
)

// Totals is the summed top-up contribution per channel for one quota period.
// It is computed from the period's Topup records and passed into the
// availability math so the aggregate itself stays free of repository calls.
type Totals struct {
	BW    int
	Color int
}

// ClientQuota is the aggregate tracking one client's print allowance for a
// single monthly period. It owns the usage counters and the one-shot alert
// latches per channel.
//
// Availability is computed over the base limit plus the period's top-up
// totals. The aggregate re-checks availability inside ApplyDeduction, so a
// caller holding a row lock gets a consistent decision even when the counters
// were reloaded after the initial check.
type ClientQuota struct {
	clientID kernel.UUID
	period   kernel.Period

	bwLimit    int
	colorLimit int

	bwUsed    int
	colorUsed int

	bwAlertSent    bool
	colorAlertSent bool

	guard guard.ConstructorGuard
}

// NewClientQuota creates a fresh quota record for a client and period with
// zero usage and unlatched alerts.
func NewClientQuota(
	clientID kernel.UUID,
	period kernel.Period,
	bwLimit int,
	colorLimit int,
) (*ClientQuota, error) {
	q := &ClientQuota{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setClientID(clientID); err != nil {
		return nil, err
	}
	if err := q.setPeriod(period); err != nil {
		return nil, err
	}
	if err := q.setLimits(bwLimit, colorLimit); err != nil {
		return nil, err
	}

	return q, nil
}

// RestoreClientQuota reconstitutes a quota record from storage.
func RestoreClientQuota(
	clientID kernel.UUID,
	period kernel.Period,
	bwLimit int,
	colorLimit int,
	bwUsed int,
	colorUsed int,
	bwAlertSent bool,
	colorAlertSent bool,
) (*ClientQuota, error) {
	q, err := NewClientQuota(clientID, period, bwLimit, colorLimit)
	if err != nil {
		return nil, err
	}

	if bwUsed < 0 {
		return nil, errs.NewValueIsInvalidError("bwUsed")
	}
	if colorUsed < 0 {
		return nil, errs.NewValueIsInvalidError("colorUsed")
	}

	q.bwUsed = bwUsed
	q.colorUsed = colorUsed
	q.bwAlertSent = bwAlertSent
	q.colorAlertSent = colorAlertSent

	return q, nil
}

// ClientID returns the owning client's identifier.
func (q *ClientQuota) ClientID() kernel.UUID {
	return q.clientID
}

// Period returns the monthly period this record covers.
func (q *ClientQuota) Period() kernel.Period {
	return q.period
}

// BWLimit returns the base black & white limit, excluding top-ups.
func (q *ClientQuota) BWLimit() int {
	return q.bwLimit
}

// ColorLimit returns the base color limit, excluding top-ups.
func (q *ClientQuota) ColorLimit() int {
	return q.colorLimit
}

// BWUsed returns the consumed black & white amount.
func (q *ClientQuota) BWUsed() int {
	return q.bwUsed
}

// ColorUsed returns the consumed color amount.
func (q *ClientQuota) ColorUsed() int {
	return q.colorUsed
}

// AlertSent reports whether the threshold alert for the channel has already
// been latched this period.
func (q *ClientQuota) AlertSent(ch Channel) bool {
	if ch == ChannelColor {
		return q.colorAlertSent
	}
	return q.bwAlertSent
}

// EffectiveLimit returns the channel's base limit plus the period's top-ups.
func (q *ClientQuota) EffectiveLimit(ch Channel, topups Totals) int {
	if ch == ChannelColor {
		return q.colorLimit + topups.Color
	}
	return q.bwLimit + topups.BW
}

// Available returns the remaining amount for the channel, never negative.
func (q *ClientQuota) Available(ch Channel, topups Totals) int {
	used := q.bwUsed
	if ch == ChannelColor {
		used = q.colorUsed
	}

	available := q.EffectiveLimit(ch, topups) - used
	if available < 0 {
		return 0
	}
	return available
}

// UsageFraction returns the consumed share of the channel's effective limit.
// A zero effective limit reports full usage so threshold checks still fire.
func (q *ClientQuota) UsageFraction(ch Channel, topups Totals) float64 {
	limit := q.EffectiveLimit(ch, topups)
	if limit <= 0 {
		return 1
	}

	used := q.bwUsed
	if ch == ChannelColor {
		used = q.colorUsed
	}
	return float64(used) / float64(limit)
}

// CanFulfill reports whether the requested quantities fit into the remaining
// allowance of both channels. On shortfall it returns a QuotaExceededError
// for the first violated channel, black & white checked first.
func (q *ClientQuota) CanFulfill(bwQuantity int, colorQuantity int, topups Totals) error {
	if err := q.guard.Validate(ErrClientQuotaIsNotConstructed); err != nil {
		return err
	}

	if available := q.Available(ChannelBW, topups); bwQuantity > available {
		return &QuotaExceededError{
			Channel:   ChannelBW,
			Available: available,
			Requested: bwQuantity,
		}
	}
	if available := q.Available(ChannelColor, topups); colorQuantity > available {
		return &QuotaExceededError{
			Channel:   ChannelColor,
			Available: available,
			Requested: colorQuantity,
		}
	}
	return nil
}

// ApplyDeduction consumes the requested quantities after re-checking
// availability against the current counters. The caller is expected to hold
// the row lock for this record so the re-check is authoritative.
func (q *ClientQuota) ApplyDeduction(bwQuantity int, colorQuantity int, topups Totals) error {
	if bwQuantity < 0 {
		return errs.NewValueIsInvalidError("bwQuantity")
	}
	if colorQuantity < 0 {
		return errs.NewValueIsInvalidError("colorQuantity")
	}

	if err := q.CanFulfill(bwQuantity, colorQuantity, topups); err != nil {
		return err
	}

	q.bwUsed += bwQuantity
	q.colorUsed += colorQuantity
	return nil
}

// ApplyRefund returns previously consumed quantities to the pool. Usage
// counters never go below zero, so refunding more than was consumed clamps
// at zero instead of failing.
func (q *ClientQuota) ApplyRefund(bwQuantity int, colorQuantity int) error {
	if err := q.guard.Validate(ErrClientQuotaIsNotConstructed); err != nil {
		return err
	}
	if bwQuantity < 0 {
		return errs.NewValueIsInvalidError("bwQuantity")
	}
	if colorQuantity < 0 {
		return errs.NewValueIsInvalidError("colorQuantity")
	}

	q.bwUsed -= bwQuantity
	if q.bwUsed < 0 {
		q.bwUsed = 0
	}
	q.colorUsed -= colorQuantity
	if q.colorUsed < 0 {
		q.colorUsed = 0
	}
	return nil
}

// ThresholdCrossings returns the channels whose usage fraction has reached
// the threshold and whose alert has not been latched yet. It does not latch;
// callers latch via LatchAlert once the notification is recorded.
func (q *ClientQuota) ThresholdCrossings(threshold float64, topups Totals) []Channel {
	var crossed []Channel
	if !q.bwAlertSent && q.UsageFraction(ChannelBW, topups) >= threshold {
		crossed = append(crossed, ChannelBW)
	}
	if !q.colorAlertSent && q.UsageFraction(ChannelColor, topups) >= threshold {
		crossed = append(crossed, ChannelColor)
	}
	return crossed
}

// LatchAlert marks the channel's threshold alert as sent for this period.
func (q *ClientQuota) LatchAlert(ch Channel) {
	if ch == ChannelColor {
		q.colorAlertSent = true
		return
	}
	q.bwAlertSent = true
}

// Validate checks that the aggregate was created through a constructor.
func (q *ClientQuota) Validate() error {
	return q.guard.Validate(ErrClientQuotaIsNotConstructed)
}

func (q *ClientQuota) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("clientID", err)
	}
	q.clientID = clientID
	return nil
}

func (q *ClientQuota) setPeriod(period kernel.Period) error {
	if err := period.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("period", err)
	}
	q.period = period
	return nil
}

func (q *ClientQuota) setLimits(bwLimit int, colorLimit int) error {
	if bwLimit < 0 {
		return errs.NewValueIsInvalidError("bwLimit")
	}
	if colorLimit < 0 {
		return errs.NewValueIsInvalidError("colorLimit")
	}
	q.bwLimit = bwLimit
	q.colorLimit = colorLimit
	return nil
}
