// Package notify contains outbound delivery channels for notifications.
package notify

import (
	"context"
	"log/slog"

	"printflow/internal/core/domain/model/notification"
	"printflow/internal/pkg/errs"
)

// LogNotifier writes notifications to the structured log. It stands in for
// an outer channel such as an email gateway: the dispatch pipeline treats it
// like any other delivery target, so swapping in a real gateway changes no
// caller.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that delivers to the given logger.
func NewLogNotifier(logger *slog.Logger) (*LogNotifier, error) {
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &LogNotifier{
		logger: logger.With("component", "log_notifier"),
	}, nil
}

// Deliver hands the notification off to the log.
func (n *LogNotifier) Deliver(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "Notification delivered",
		"notification_id", aggregate.ID().String(),
		"recipient_id", aggregate.RecipientID().String(),
		"kind", aggregate.Kind().String(),
		"message", aggregate.Message(),
	)
	return nil
}
