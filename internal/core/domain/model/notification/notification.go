package notification

import (
	"errors"
	"strings"
	"time"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/pkg/errs"
	"printflow/internal/pkg/guard"
)

// ErrNotificationIsNotConstructed indicates that the Notification entity
// was created without a constructor.
var ErrNotificationIsNotConstructed = errors.New(
	"Notification is not constructed. Use NewNotification or RestoreNotification",
)

// Kind classifies what a notification is about.
type Kind int

const (
	// KindUnknown is the zero value, not a valid kind.
	KindUnknown Kind = iota
	// KindQuotaAlert warns a client that a channel reached the usage threshold.
	KindQuotaAlert
	// KindStatusChange tells a client their order moved to a new status.
	KindStatusChange
	// KindAssignment tells an agent an order was assigned to them.
	KindAssignment
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown:      "unknown",
		KindQuotaAlert:   "quota_alert",
		KindStatusChange: "status_change",
		KindAssignment:   "assignment",
	}
}

// KindFromString parses the storage representation of a notification kind.
func KindFromString(value string) (Kind, error) {
	for kind, str := range getKindStrings() {
		if str == value && kind != KindUnknown {
			return kind, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidError("kind")
}

// Validate checks that the kind holds one of the defined values.
func (k Kind) Validate() error {
	if _, ok := getKindStrings()[k]; !ok || k == KindUnknown {
		return errs.NewValueIsInvalidError("kind")
	}
	return nil
}

// String returns the storage representation of the kind.
func (k Kind) String() string {
	value, ok := getKindStrings()[k]
	if !ok {
		return getKindStrings()[KindUnknown]
	}
	return value
}

// Notification is a message for a user, stored durably and marked read once
// the user has seen it. Delivery over outer channels (email) is a separate
// best-effort concern and never blocks the operation that produced it; the
// dispatch flag tracks whether the delivery job has forwarded the message.
type Notification struct {
	id           kernel.UUID
	recipientID  kernel.UUID
	kind         Kind
	message      string
	isRead       bool
	isDispatched bool
	createdAt    time.Time

	guard guard.ConstructorGuard
}

// NewNotification creates an unread notification.
func NewNotification(
	id kernel.UUID,
	recipientID kernel.UUID,
	kind Kind,
	message string,
	createdAt time.Time,
) (*Notification, error) {
	n := &Notification{
		guard: guard.NewConstructorGuard(),
	}

	if err := n.setID(id); err != nil {
		return nil, err
	}
	if err := n.setRecipientID(recipientID); err != nil {
		return nil, err
	}
	if err := n.setKind(kind); err != nil {
		return nil, err
	}
	if err := n.setMessage(message); err != nil {
		return nil, err
	}
	n.createdAt = createdAt.UTC()

	return n, nil
}

// RestoreNotification reconstitutes a notification from storage.
func RestoreNotification(
	id kernel.UUID,
	recipientID kernel.UUID,
	kind Kind,
	message string,
	isRead bool,
	isDispatched bool,
	createdAt time.Time,
) (*Notification, error) {
	n, err := NewNotification(id, recipientID, kind, message, createdAt)
	if err != nil {
		return nil, err
	}
	n.isRead = isRead
	n.isDispatched = isDispatched
	return n, nil
}

// ID returns the notification's identifier.
func (n *Notification) ID() kernel.UUID {
	return n.id
}

// RecipientID returns the addressed user's identifier.
func (n *Notification) RecipientID() kernel.UUID {
	return n.recipientID
}

// Kind returns what the notification is about.
func (n *Notification) Kind() Kind {
	return n.kind
}

// Message returns the user-facing text.
func (n *Notification) Message() string {
	return n.message
}

// IsRead reports whether the recipient has seen the notification.
func (n *Notification) IsRead() bool {
	return n.isRead
}

// CreatedAt returns when the notification was produced, in UTC.
func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

// IsDispatched reports whether the delivery job has already forwarded the
// notification to its outer channel.
func (n *Notification) IsDispatched() bool {
	return n.isDispatched
}

// MarkRead flags the notification as seen. Marking twice is a no-op.
func (n *Notification) MarkRead() error {
	if err := n.guard.Validate(ErrNotificationIsNotConstructed); err != nil {
		return err
	}
	n.isRead = true
	return nil
}

// MarkDispatched flags the notification as forwarded. Marking twice is a
// no-op.
func (n *Notification) MarkDispatched() error {
	if err := n.guard.Validate(ErrNotificationIsNotConstructed); err != nil {
		return err
	}
	n.isDispatched = true
	return nil
}

// Validate checks that the entity was created through a constructor.
func (n *Notification) Validate() error {
	return n.guard.Validate(ErrNotificationIsNotConstructed)
}

func (n *Notification) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	n.id = id
	return nil
}

func (n *Notification) setRecipientID(recipientID kernel.UUID) error {
	if err := recipientID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("recipientID", err)
	}
	n.recipientID = recipientID
	return nil
}

func (n *Notification) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	n.kind = kind
	return nil
}

func (n *Notification) setMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return errs.NewValueIsRequiredError("message")
	}
	n.message = message
	return nil
}
