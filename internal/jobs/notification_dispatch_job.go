package jobs

import (
	"context"
	"log/slog"

	"printflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// NotificationDispatchJob forwards queued notifications to their outer
// delivery channel. Runs every ten seconds; notifications whose delivery
// fails stay queued and are retried on the next run.
type NotificationDispatchJob struct {
	handler commands.DispatchNotificationsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewNotificationDispatchJob creates the scheduled dispatch job.
func NewNotificationDispatchJob(handler commands.DispatchNotificationsCommandHandler, logger *slog.Logger) *NotificationDispatchJob {
	return &NotificationDispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "notification_dispatch_job"),
	}
}

// Start begins the dispatch job.
func (j *NotificationDispatchJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewDispatchNotificationsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Notification dispatch run failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification dispatch job started (running every ten seconds)")
	return nil
}

// Stop stops the dispatch job.
func (j *NotificationDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification dispatch job stopped")
}
