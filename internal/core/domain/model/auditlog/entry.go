package auditlog

import (
	"errors"
	"time"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/errs"
	"printflow/internal/pkg/guard"
)

// ErrEntryIsNotConstructed indicates that the Entry entity was created
// without a constructor.
var ErrEntryIsNotConstructed = errors.New(
	"Entry is not constructed. Use NewEntry or RestoreEntry",
)

// Action names the audited operation. The values are the stable storage
// representation; renaming one invalidates historical records.
type Action string

const (
	ActionOrderCreated      Action = "ORDER_CREATED"
	ActionOrderStatusChange Action = "ORDER_STATUS_CHANGE"
	ActionOrderAssigned     Action = "ORDER_ASSIGNED"
	ActionOrderReassigned   Action = "ORDER_REASSIGNED"
	ActionOrderUnassigned   Action = "ORDER_UNASSIGNED"
	ActionQuotaTopup        Action = "QUOTA_TOPUP"
	ActionQuotaRefund       Action = "QUOTA_REFUND"
	ActionCSVValidated      Action = "CSV_VALIDATED"
	ActionCSVRejected       Action = "CSV_REJECTED"
)

func getValidActions() map[Action]struct{} {
	return map[Action]struct{}{
		ActionOrderCreated:      {},
		ActionOrderStatusChange: {},
		ActionOrderAssigned:     {},
		ActionOrderReassigned:   {},
		ActionOrderUnassigned:   {},
		ActionQuotaTopup:        {},
		ActionQuotaRefund:       {},
		ActionCSVValidated:      {},
		ActionCSVRejected:       {},
	}
}

// Validate checks that the action is one of the defined values.
func (a Action) Validate() error {
	if _, ok := getValidActions()[a]; !ok {
		return errs.NewValueIsInvalidError("action")
	}
	return nil
}

// String returns the storage representation of the action.
func (a Action) String() string {
	return string(a)
}

// Entry is one immutable audit record: who did what to which object, with
// free-form details for the operation's specifics. Entries are appended in
// the same transaction as the change they describe and never updated.
type Entry struct {
	id         kernel.UUID
	actorID    *kernel.UUID
	action     Action
	entityType string
	entityID   kernel.UUID
	details    map[string]any
	recordedAt time.Time

	guard guard.ConstructorGuard
}

// NewEntry creates an audit record. A nil actorID marks a system-initiated
// operation, such as an automatic compensation.
func NewEntry(
	id kernel.UUID,
	actorID *kernel.UUID,
	action Action,
	entityType string,
	entityID kernel.UUID,
	details map[string]any,
	recordedAt time.Time,
) (*Entry, error) {
	e := &Entry{
		guard: guard.NewConstructorGuard(),
	}

	if err := e.setID(id); err != nil {
		return nil, err
	}
	if err := e.setActorID(actorID); err != nil {
		return nil, err
	}
	if err := e.setAction(action); err != nil {
		return nil, err
	}
	if err := e.setEntity(entityType, entityID); err != nil {
		return nil, err
	}
	e.details = details
	e.recordedAt = recordedAt.UTC()

	return e, nil
}

// RestoreEntry reconstitutes an audit record from storage.
func RestoreEntry(
	id kernel.UUID,
	actorID *kernel.UUID,
	action Action,
	entityType string,
	entityID kernel.UUID,
	details map[string]any,
	recordedAt time.Time,
) (*Entry, error) {
	return NewEntry(id, actorID, action, entityType, entityID, details, recordedAt)
}

// ID returns the record's identifier.
func (e *Entry) ID() kernel.UUID {
	return e.id
}

// ActorID returns the initiating user's identifier, or nil for system
// operations.
func (e *Entry) ActorID() *kernel.UUID {
	return e.actorID
}

// Action returns the audited operation's name.
func (e *Entry) Action() Action {
	return e.action
}

// EntityType returns the kind of object the operation touched.
func (e *Entry) EntityType() string {
	return e.entityType
}

// EntityID returns the touched object's identifier.
func (e *Entry) EntityID() kernel.UUID {
	return e.entityID
}

// Details returns the operation-specific payload.
func (e *Entry) Details() map[string]any {
	return e.details
}

// RecordedAt returns when the record was made, in UTC.
func (e *Entry) RecordedAt() time.Time {
	return e.recordedAt
}

// Validate checks that the entity was created through a constructor.
func (e *Entry) Validate() error {
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

func (e *Entry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	e.id = id
	return nil
}

func (e *Entry) setActorID(actorID *kernel.UUID) error {
	if actorID == nil {
		return nil
	}
	if err := actorID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("actorID", err)
	}
	e.actorID = actorID
	return nil
}

func (e *Entry) setAction(action Action) error {
	if err := action.Validate(); err != nil {
		return err
	}
	e.action = action
	return nil
}

func (e *Entry) setEntity(entityType string, entityID kernel.UUID) error {
	if entityType == "" {
		return errs.NewValueIsRequiredError("entityType")
	}
	if err := entityID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("entityID", err)
	}
	e.entityType = entityType
	e.entityID = entityID
	return nil
}
