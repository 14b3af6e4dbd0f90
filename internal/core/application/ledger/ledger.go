// Package ledger implements the quota ledger: the single place where client
// print allowances are created, checked, consumed and returned.
//
// Every deduction locks the (client, period) usage row, re-checks
// availability under the lock and applies the consumption in one
// transaction, so concurrent admissions can never overspend an allowance.
// Threshold alerts are latched in the same transaction; their delivery is a
// separate best-effort concern.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
	"printflow/internal/core/domain/model/quota"
	"printflow/internal/core/ports"
	"printflow/internal/pkg/errs"
)

// Unit of Work interfaces consumed by the ledger. The full ports.UnitOfWork
// satisfies them structurally.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// QuotaUoW manages transactions over quota records, the notifications
	// their threshold alerts produce and the audit trail of refunds.
	QuotaUoW interface {
		TxManager
		QuotaRepository() ports.QuotaRepository
		NotificationRepository() ports.NotificationRepository
		AuditRepository() ports.AuditRepository
	}

	// QuotaUoWFactory creates new quota unit of work instances.
	QuotaUoWFactory interface {
		Create() QuotaUoW
	}
)

// Defaults are the limits applied when a client's quota record for a period
// is created lazily, and the warning threshold as a fraction of the
// effective limit.
type Defaults struct {
	BWLimit          int
	ColorLimit       int
	WarningThreshold float64
}

// Ledger owns quota bookkeeping for all clients.
type Ledger struct {
	uowFactory QuotaUoWFactory
	clock      ports.Clock
	defaults   Defaults
}

// NewLedger creates a quota ledger.
func NewLedger(uowFactory QuotaUoWFactory, clock ports.Clock, defaults Defaults) (*Ledger, error) {
	if uowFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if clock == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}
	if defaults.BWLimit < 0 || defaults.ColorLimit < 0 {
		return nil, errs.NewValueIsInvalidError("defaults")
	}
	if defaults.WarningThreshold <= 0 || defaults.WarningThreshold > 1 {
		return nil, errs.NewValueIsInvalidError("defaults.WarningThreshold")
	}

	return &Ledger{
		uowFactory: uowFactory,
		clock:      clock,
		defaults:   defaults,
	}, nil
}

// CurrentPeriod returns the quota period the clock currently falls into.
func (l *Ledger) CurrentPeriod() kernel.Period {
	return kernel.NewPeriod(l.clock.Now())
}

// CheckAvailable reports whether the client's remaining allowance for the
// period covers the requested quantities. The check is advisory: admission
// re-checks under a row lock in Deduct before consuming anything.
func (l *Ledger) CheckAvailable(ctx context.Context, clientID kernel.UUID, period kernel.Period, bwQuantity int, colorQuantity int) error {
	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	quotaRepo := uow.QuotaRepository()
	record, err := quotaRepo.GetOrCreate(ctx, clientID, period, l.defaults.BWLimit, l.defaults.ColorLimit)
	if err != nil {
		return err
	}

	topups, err := quotaRepo.GetTopups(ctx, clientID, period)
	if err != nil {
		return err
	}

	if err = record.CanFulfill(bwQuantity, colorQuantity, quota.SumTopups(topups)); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// Deduct consumes the requested quantities from the client's allowance for
// the period. The usage row is locked for the duration of the transaction
// and availability is re-checked under the lock, so a concurrent admission
// cannot spend the same remainder twice. Threshold alerts crossed by this
// deduction are latched and their notifications stored in the same
// transaction.
//
// A shortfall surfaces as quota.QuotaExceededError and leaves the ledger
// untouched.
func (l *Ledger) Deduct(ctx context.Context, clientID kernel.UUID, period kernel.Period, bwQuantity int, colorQuantity int) error {
	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	quotaRepo := uow.QuotaRepository()
	if _, err := quotaRepo.GetOrCreate(ctx, clientID, period, l.defaults.BWLimit, l.defaults.ColorLimit); err != nil {
		return err
	}

	record, err := quotaRepo.GetForUpdate(ctx, clientID, period)
	if err != nil {
		return err
	}

	topups, err := quotaRepo.GetTopups(ctx, clientID, period)
	if err != nil {
		return err
	}
	totals := quota.SumTopups(topups)

	if err = record.ApplyDeduction(bwQuantity, colorQuantity, totals); err != nil {
		return err
	}

	if err = l.latchAlerts(ctx, uow, record, totals); err != nil {
		return err
	}

	if err = quotaRepo.Update(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// Refund returns previously consumed quantities to the client's allowance
// for the period and records the return in the audit trail. The usage
// counters never go below zero. Refunding a client without a usage row for
// the period is a no-op: there is nothing to return anything to.
func (l *Ledger) Refund(ctx context.Context, clientID kernel.UUID, period kernel.Period, bwQuantity int, colorQuantity int) error {
	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	quotaRepo := uow.QuotaRepository()
	record, err := quotaRepo.GetForUpdate(ctx, clientID, period)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}

	if err = record.ApplyRefund(bwQuantity, colorQuantity); err != nil {
		return err
	}

	if err = quotaRepo.Update(ctx, record); err != nil {
		return err
	}

	// Refunds run on behalf of the system, not a user.
	entry, err := auditlog.NewEntry(kernel.NewUUID(), nil, auditlog.ActionQuotaRefund,
		"quota", clientID, map[string]any{
			"period":         period.String(),
			"bw_quantity":    bwQuantity,
			"color_quantity": colorQuantity,
		}, l.clock.Now())
	if err != nil {
		return err
	}
	if err = uow.AuditRepository().Add(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// latchAlerts records a quota alert notification for every channel that
// crossed the warning threshold with this deduction and latches the flag so
// the alert fires once per channel per period.
func (l *Ledger) latchAlerts(ctx context.Context, uow QuotaUoW, record *quota.ClientQuota, totals quota.Totals) error {
	crossed := record.ThresholdCrossings(l.defaults.WarningThreshold, totals)
	if len(crossed) == 0 {
		return nil
	}

	notificationRepo := uow.NotificationRepository()
	for _, channel := range crossed {
		message := fmt.Sprintf("%s quota for %s has reached %d%% of the limit",
			channel, record.Period(), int(l.defaults.WarningThreshold*100))

		alert, err := notification.NewNotification(
			kernel.NewUUID(),
			record.ClientID(),
			notification.KindQuotaAlert,
			message,
			l.clock.Now(),
		)
		if err != nil {
			return err
		}

		if err = notificationRepo.Add(ctx, alert); err != nil {
			return err
		}
		record.LatchAlert(channel)
	}
	return nil
}
