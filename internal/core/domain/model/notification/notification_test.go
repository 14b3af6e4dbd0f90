package notification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
)

func Test_NewNotification(t *testing.T) {
	// Given
	id := kernel.NewUUID()
	recipientID := kernel.NewUUID()
	createdAt := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

	// When
	n, err := notification.NewNotification(id, recipientID, notification.KindQuotaAlert,
		"B&W quota at 80% for 2026-08", createdAt)

	// Then
	require.NoError(t, err)
	assert.Equal(t, id, n.ID())
	assert.Equal(t, recipientID, n.RecipientID())
	assert.Equal(t, notification.KindQuotaAlert, n.Kind())
	assert.Equal(t, "B&W quota at 80% for 2026-08", n.Message())
	assert.False(t, n.IsRead())
	assert.Equal(t, createdAt, n.CreatedAt())
}

func Test_NewNotification_ValidatesParams(t *testing.T) {
	tests := map[string]struct {
		id          kernel.UUID
		recipientID kernel.UUID
		kind        notification.Kind
		message     string
	}{
		"empty id":           {kernel.UUID{}, kernel.NewUUID(), notification.KindQuotaAlert, "msg"},
		"empty recipient id": {kernel.NewUUID(), kernel.UUID{}, notification.KindQuotaAlert, "msg"},
		"unknown kind":       {kernel.NewUUID(), kernel.NewUUID(), notification.KindUnknown, "msg"},
		"blank message":      {kernel.NewUUID(), kernel.NewUUID(), notification.KindQuotaAlert, " "},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			n, err := notification.NewNotification(test.id, test.recipientID, test.kind,
				test.message, time.Now())
			assert.Nil(t, n)
			assert.Error(t, err)
		})
	}
}

func Test_Notification_MarkRead(t *testing.T) {
	// Given
	n, err := notification.NewNotification(kernel.NewUUID(), kernel.NewUUID(),
		notification.KindStatusChange, "order moved to processing", time.Now())
	require.NoError(t, err)

	// When
	require.NoError(t, n.MarkRead())

	// Then, and marking again stays read
	assert.True(t, n.IsRead())
	require.NoError(t, n.MarkRead())
	assert.True(t, n.IsRead())
}

func Test_KindFromString(t *testing.T) {
	tests := map[string]struct {
		input string
		want  notification.Kind
		ok    bool
	}{
		"quota alert":   {"quota_alert", notification.KindQuotaAlert, true},
		"status change": {"status_change", notification.KindStatusChange, true},
		"assignment":    {"assignment", notification.KindAssignment, true},
		"unknown":       {"unknown", notification.KindUnknown, false},
		"empty":         {"", notification.KindUnknown, false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			kind, err := notification.KindFromString(test.input)
			assert.Equal(t, test.want, kind)
			if test.ok {
				assert.NoError(t, err)
				assert.Equal(t, test.input, kind.String())
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func Test_Notification_MarkDispatched(t *testing.T) {
	// Given
	n, err := notification.NewNotification(kernel.NewUUID(), kernel.NewUUID(),
		notification.KindAssignment, "order assigned", time.Now())
	require.NoError(t, err)
	require.False(t, n.IsDispatched())

	// When
	require.NoError(t, n.MarkDispatched())

	// Then, and marking again stays dispatched
	assert.True(t, n.IsDispatched())
	require.NoError(t, n.MarkDispatched())
	assert.True(t, n.IsDispatched())
}

func Test_RestoreNotification(t *testing.T) {
	n, err := notification.RestoreNotification(kernel.NewUUID(), kernel.NewUUID(),
		notification.KindAssignment, "order assigned", true, true, time.Now())

	require.NoError(t, err)
	assert.True(t, n.IsRead())
	assert.True(t, n.IsDispatched())
}

func Test_Notification_NotConstructed(t *testing.T) {
	var n notification.Notification

	assert.ErrorIs(t, n.Validate(), notification.ErrNotificationIsNotConstructed)
	assert.ErrorIs(t, n.MarkRead(), notification.ErrNotificationIsNotConstructed)
}
