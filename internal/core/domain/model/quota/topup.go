package quota

import (
	"errors"
	"time"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/errs"
	"printflow/internal/pkg/guard"
)

var (
	// ErrTopupIsNotConstructed indicates that the Topup entity was created
	// without a constructor.
	ErrTopupIsNotConstructed = errors.New(
		"Topup is not constructed. Use NewTopup or RestoreTopup",
	)

	// ErrTopupIsEmpty is returned when both top-up amounts are zero.
	ErrTopupIsEmpty = errors.New("top-up must add prints to at least one channel")
)

// Topup is an immutable grant of additional prints to a client for a single
// monthly period. Top-ups only ever add allowance; corrections are modeled
// as new grants, never as mutation of an existing one.
type Topup struct {
	id       kernel.UUID
	clientID kernel.UUID
	adminID  kernel.UUID
	period   kernel.Period

	bwAdded    int
	colorAdded int

	notes     string
	grantedAt time.Time

	guard guard.ConstructorGuard
}

// NewTopup creates a grant of additional prints. Each nonzero amount must be
// at least minAmount; a zero amount leaves that channel untouched. Granting
// zero on both channels is rejected.
func NewTopup(
	id kernel.UUID,
	clientID kernel.UUID,
	adminID kernel.UUID,
	period kernel.Period,
	bwAdded int,
	colorAdded int,
	notes string,
	grantedAt time.Time,
	minAmount int,
) (*Topup, error) {
	t := &Topup{
		guard: guard.NewConstructorGuard(),
	}

	if err := t.setID(id); err != nil {
		return nil, err
	}
	if err := t.setClientID(clientID); err != nil {
		return nil, err
	}
	if err := t.setAdminID(adminID); err != nil {
		return nil, err
	}
	if err := t.setPeriod(period); err != nil {
		return nil, err
	}
	if err := t.setAmounts(bwAdded, colorAdded, minAmount); err != nil {
		return nil, err
	}

	t.notes = notes
	t.grantedAt = grantedAt.UTC()

	return t, nil
}

// RestoreTopup reconstitutes a grant from storage without re-applying the
// minimum amount rule, which may have changed since the grant was made.
func RestoreTopup(
	id kernel.UUID,
	clientID kernel.UUID,
	adminID kernel.UUID,
	period kernel.Period,
	bwAdded int,
	colorAdded int,
	notes string,
	grantedAt time.Time,
) (*Topup, error) {
	return NewTopup(id, clientID, adminID, period, bwAdded, colorAdded, notes, grantedAt, 0)
}

// ID returns the grant's identifier.
func (t *Topup) ID() kernel.UUID {
	return t.id
}

// ClientID returns the receiving client's identifier.
func (t *Topup) ClientID() kernel.UUID {
	return t.clientID
}

// AdminID returns the identifier of the administrator who made the grant.
func (t *Topup) AdminID() kernel.UUID {
	return t.adminID
}

// Period returns the monthly period the grant applies to.
func (t *Topup) Period() kernel.Period {
	return t.period
}

// BWAdded returns the granted black & white amount.
func (t *Topup) BWAdded() int {
	return t.bwAdded
}

// ColorAdded returns the granted color amount.
func (t *Topup) ColorAdded() int {
	return t.colorAdded
}

// Notes returns the administrator's free-form note for the grant.
func (t *Topup) Notes() string {
	return t.notes
}

// GrantedAt returns when the grant was made, in UTC.
func (t *Topup) GrantedAt() time.Time {
	return t.grantedAt
}

// Validate checks that the entity was created through a constructor.
func (t *Topup) Validate() error {
	return t.guard.Validate(ErrTopupIsNotConstructed)
}

// SumTopups folds a period's grants into per-channel totals for the
// availability math on ClientQuota.
func SumTopups(topups []*Topup) Totals {
	var totals Totals
	for _, t := range topups {
		totals.BW += t.BWAdded()
		totals.Color += t.ColorAdded()
	}
	return totals
}

func (t *Topup) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	t.id = id
	return nil
}

func (t *Topup) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("clientID", err)
	}
	t.clientID = clientID
	return nil
}

func (t *Topup) setAdminID(adminID kernel.UUID) error {
	if err := adminID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("adminID", err)
	}
	t.adminID = adminID
	return nil
}

func (t *Topup) setPeriod(period kernel.Period) error {
	if err := period.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("period", err)
	}
	t.period = period
	return nil
}

func (t *Topup) setAmounts(bwAdded int, colorAdded int, minAmount int) error {
	if bwAdded < 0 {
		return errs.NewValueIsInvalidError("bwAdded")
	}
	if colorAdded < 0 {
		return errs.NewValueIsInvalidError("colorAdded")
	}
	if bwAdded == 0 && colorAdded == 0 {
		return ErrTopupIsEmpty
	}
	if bwAdded > 0 && bwAdded < minAmount {
		return &TopupBelowMinimumError{Channel: ChannelBW, Amount: bwAdded, Minimum: minAmount}
	}
	if colorAdded > 0 && colorAdded < minAmount {
		return &TopupBelowMinimumError{Channel: ChannelColor, Amount: colorAdded, Minimum: minAmount}
	}
	t.bwAdded = bwAdded
	t.colorAdded = colorAdded
	return nil
}
