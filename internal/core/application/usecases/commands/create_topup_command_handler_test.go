package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"printflow/internal/core/application/usecases/commands"
	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
	"printflow/internal/core/domain/model/quota"
)

const testMinTopup = 1000

func newTopupHandler(t *testing.T, uow *MockUoW) commands.CreateTopupCommandHandler {
	t.Helper()
	h, err := commands.NewCreateTopupCommandHandler(topupUoWFactory{uow: uow},
		testAdmission(t), fixedClock{now: testNow}, testDefaults(), testMinTopup)
	require.NoError(t, err)
	return h
}

func TestCreateTopupCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	topupID := kernel.NewUUID()
	clientID := kernel.NewUUID()
	adminID := kernel.NewUUID()
	period := kernel.NewPeriod(testNow)

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testAdmin(t, adminID), nil).Once()
	uow.users.On("Get", ctx, clientID).Return(testClient(t, clientID), nil).Once()
	uow.quotas.On("GetOrCreate", ctx, clientID, period, 3000, 2000).
		Return(freshQuota(t, clientID, period), nil).Once()
	uow.quotas.On("AddTopup", ctx, mock.AnythingOfType("*quota.Topup")).Return(nil).Once()
	uow.audits.On("Add", ctx, mock.AnythingOfType("*auditlog.Entry")).Return(nil).Once()
	uow.notifications.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()

	h := newTopupHandler(t, uow)
	cmd, err := commands.NewCreateTopupCommand(topupID, clientID, adminID, 2000, 0, "rush season")
	require.NoError(t, err)

	require.NoError(t, h.Handle(ctx, cmd))

	grant := uow.quotas.Calls[1].Arguments.Get(1).(*quota.Topup)
	assert.Equal(t, topupID, grant.ID())
	assert.Equal(t, 2000, grant.BWAdded())
	assert.True(t, period.IsEqual(grant.Period()))

	entry := uow.audits.Calls[0].Arguments.Get(1).(*auditlog.Entry)
	assert.Equal(t, auditlog.ActionQuotaTopup, entry.Action())

	sent := uow.notifications.Calls[0].Arguments.Get(1).(*notification.Notification)
	assert.Equal(t, clientID, sent.RecipientID())
	assert.Equal(t, notification.KindQuotaAlert, sent.Kind())

	uow.assertExpectations(t)
}

func TestCreateTopupCommandHandler_Handle_BelowMinimum(t *testing.T) {
	ctx := context.Background()
	clientID := kernel.NewUUID()
	adminID := kernel.NewUUID()
	period := kernel.NewPeriod(testNow)

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testAdmin(t, adminID), nil).Once()
	uow.users.On("Get", ctx, clientID).Return(testClient(t, clientID), nil).Once()
	uow.quotas.On("GetOrCreate", ctx, clientID, period, 3000, 2000).
		Return(freshQuota(t, clientID, period), nil).Once()

	h := newTopupHandler(t, uow)
	cmd, err := commands.NewCreateTopupCommand(kernel.NewUUID(), clientID, adminID, 500, 0, "")
	require.NoError(t, err)

	err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, quota.ErrTopupBelowMinimum)
	uow.assertExpectations(t)
}

func TestCreateTopupCommandHandler_Handle_NonAdminRefused(t *testing.T) {
	ctx := context.Background()
	clientID := kernel.NewUUID()
	adminID := kernel.NewUUID()

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testAgent(t, adminID), nil).Once()

	h := newTopupHandler(t, uow)
	cmd, err := commands.NewCreateTopupCommand(kernel.NewUUID(), clientID, adminID, 2000, 0, "")
	require.NoError(t, err)

	assert.Error(t, h.Handle(ctx, cmd))
	uow.assertExpectations(t)
}
