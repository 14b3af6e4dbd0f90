package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"printflow/internal/core/application/usecases/commands"
	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/csvimport"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/quota"
	"printflow/internal/pkg/errs"
)

func newImportHandler(t *testing.T, uow *MockUoW) commands.ImportOrdersCommandHandler {
	t.Helper()
	createOrder := newCreateOrderHandler(t, uow, commands.IdempotencyReject)
	h, err := commands.NewImportOrdersCommandHandler(importUoWFactory{uow: uow},
		&createOrder, testAdmission(t), fixedClock{now: testNow})
	require.NoError(t, err)
	return h
}

func auditActions(uow *MockUoW) []auditlog.Action {
	var actions []auditlog.Action
	for _, call := range uow.audits.Calls {
		actions = append(actions, call.Arguments.Get(1).(*auditlog.Entry).Action())
	}
	return actions
}

func TestImportOrdersCommandHandler_Handle_MixedRows(t *testing.T) {
	// Given a file where the first row is admittable and the second has a
	// malformed quantity.
	ctx := context.Background()
	batchID := kernel.NewUUID()
	adminID := kernel.NewUUID()
	clientID := kernel.NewUUID()
	period := kernel.NewPeriod(testNow)
	record := freshQuota(t, clientID, period)

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testAdmin(t, adminID), nil).Once()
	uow.users.On("Get", ctx, clientID).Return(testClient(t, clientID), nil).Once()
	uow.imports.On("Add", ctx, mock.AnythingOfType("*csvimport.Batch")).Return(nil).Once()
	uow.imports.On("Update", ctx, mock.AnythingOfType("*csvimport.Batch")).Return(nil).Once()
	uow.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.quotas.On("GetOrCreate", ctx, clientID, period, 3000, 2000).Return(record, nil).Twice()
	uow.quotas.On("GetForUpdate", ctx, clientID, period).Return(record, nil).Once()
	uow.quotas.On("GetTopups", ctx, clientID, period).Return([]*quota.Topup{}, nil).Twice()
	uow.quotas.On("Update", ctx, record).Return(nil).Once()
	uow.notifications.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()
	uow.audits.On("Add", ctx, mock.AnythingOfType("*auditlog.Entry")).Return(nil)

	rows := []commands.OrderRow{
		{Line: 2, ClientRef: clientID.String(), BWQuantity: "400"},
		{Line: 3, ClientRef: clientID.String(), BWQuantity: "lots"},
	}

	h := newImportHandler(t, uow)
	cmd, err := commands.NewImportOrdersCommand(batchID, adminID, "orders.csv", rows, nil)
	require.NoError(t, err)

	// When
	result, err := h.Handle(ctx, cmd)

	// Then the good row is admitted, the bad one is reported against its
	// line, and the batch settles as validated.
	require.NoError(t, err)
	assert.Equal(t, batchID, result.BatchID)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 3, result.RowErrors[0].Line)
	assert.Equal(t, "bw_quantity", result.RowErrors[0].Field)
	require.Len(t, result.CreatedOrderIDs, 1)

	assert.Equal(t, 400, record.BWUsed())

	settled := uow.imports.Calls[1].Arguments.Get(1).(*csvimport.Batch)
	assert.Equal(t, csvimport.StatusValidated, settled.Status())
	assert.Equal(t, 1, settled.ValidRows())

	assert.Contains(t, auditActions(uow), auditlog.ActionOrderCreated)
	assert.Contains(t, auditActions(uow), auditlog.ActionCSVValidated)

	uow.assertExpectations(t)
}

func TestImportOrdersCommandHandler_Handle_ResolvesClientByEmail(t *testing.T) {
	ctx := context.Background()
	batchID := kernel.NewUUID()
	adminID := kernel.NewUUID()
	clientID := kernel.NewUUID()
	period := kernel.NewPeriod(testNow)
	record := freshQuota(t, clientID, period)

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testAdmin(t, adminID), nil).Once()
	uow.users.On("GetByEmail", ctx, "client@example.com").Return(testClient(t, clientID), nil).Once()
	uow.users.On("Get", ctx, clientID).Return(testClient(t, clientID), nil).Once()
	uow.imports.On("Add", ctx, mock.AnythingOfType("*csvimport.Batch")).Return(nil).Once()
	uow.imports.On("Update", ctx, mock.AnythingOfType("*csvimport.Batch")).Return(nil).Once()
	uow.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.quotas.On("GetOrCreate", ctx, clientID, period, 3000, 2000).Return(record, nil).Twice()
	uow.quotas.On("GetForUpdate", ctx, clientID, period).Return(record, nil).Once()
	uow.quotas.On("GetTopups", ctx, clientID, period).Return([]*quota.Topup{}, nil).Twice()
	uow.quotas.On("Update", ctx, record).Return(nil).Once()
	uow.notifications.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()
	uow.audits.On("Add", ctx, mock.AnythingOfType("*auditlog.Entry")).Return(nil)

	rows := []commands.OrderRow{
		{Line: 2, ClientRef: "client@example.com", ColorQuantity: "50"},
	}

	h := newImportHandler(t, uow)
	cmd, err := commands.NewImportOrdersCommand(batchID, adminID, "orders.csv", rows, nil)
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 50, record.ColorUsed())
	uow.assertExpectations(t)
}

func TestImportOrdersCommandHandler_Handle_DuplicateExternalIDWithinFile(t *testing.T) {
	// Given two rows carrying the same external identifier. The first wins;
	// the second is rejected before it ever reaches admission.
	ctx := context.Background()
	batchID := kernel.NewUUID()
	adminID := kernel.NewUUID()
	clientID := kernel.NewUUID()
	period := kernel.NewPeriod(testNow)
	record := freshQuota(t, clientID, period)

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testAdmin(t, adminID), nil).Once()
	uow.users.On("Get", ctx, clientID).Return(testClient(t, clientID), nil).Once()
	uow.imports.On("Add", ctx, mock.AnythingOfType("*csvimport.Batch")).Return(nil).Once()
	uow.imports.On("Update", ctx, mock.AnythingOfType("*csvimport.Batch")).Return(nil).Once()
	uow.orders.On("GetByExternalOrderID", ctx, "EXT-7").
		Return(nil, errs.NewObjectNotFoundError("externalOrderID", "EXT-7")).Once()
	uow.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.quotas.On("GetOrCreate", ctx, clientID, period, 3000, 2000).Return(record, nil).Twice()
	uow.quotas.On("GetForUpdate", ctx, clientID, period).Return(record, nil).Once()
	uow.quotas.On("GetTopups", ctx, clientID, period).Return([]*quota.Topup{}, nil).Twice()
	uow.quotas.On("Update", ctx, record).Return(nil).Once()
	uow.notifications.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()
	uow.audits.On("Add", ctx, mock.AnythingOfType("*auditlog.Entry")).Return(nil)

	rows := []commands.OrderRow{
		{Line: 2, ClientRef: clientID.String(), BWQuantity: "100", ExternalOrderID: "EXT-7"},
		{Line: 3, ClientRef: clientID.String(), BWQuantity: "200", ExternalOrderID: "EXT-7"},
	}

	h := newImportHandler(t, uow)
	cmd, err := commands.NewImportOrdersCommand(batchID, adminID, "orders.csv", rows, nil)
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.RowErrors, 1)
	assert.Equal(t, 3, result.RowErrors[0].Line)
	assert.Equal(t, "external_order_id", result.RowErrors[0].Field)
	assert.Equal(t, 100, record.BWUsed())
	uow.assertExpectations(t)
}

func TestImportOrdersCommandHandler_Handle_CorrectionsOverrideRow(t *testing.T) {
	ctx := context.Background()
	batchID := kernel.NewUUID()
	adminID := kernel.NewUUID()
	clientID := kernel.NewUUID()
	period := kernel.NewPeriod(testNow)
	record := freshQuota(t, clientID, period)

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testAdmin(t, adminID), nil).Once()
	uow.users.On("Get", ctx, clientID).Return(testClient(t, clientID), nil).Once()
	uow.imports.On("Add", ctx, mock.AnythingOfType("*csvimport.Batch")).Return(nil).Once()
	uow.imports.On("Update", ctx, mock.AnythingOfType("*csvimport.Batch")).Return(nil).Once()
	uow.orders.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()
	uow.quotas.On("GetOrCreate", ctx, clientID, period, 3000, 2000).Return(record, nil).Twice()
	uow.quotas.On("GetForUpdate", ctx, clientID, period).Return(record, nil).Once()
	uow.quotas.On("GetTopups", ctx, clientID, period).Return([]*quota.Topup{}, nil).Twice()
	uow.quotas.On("Update", ctx, record).Return(nil).Once()
	uow.notifications.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()
	uow.audits.On("Add", ctx, mock.AnythingOfType("*auditlog.Entry")).Return(nil)

	// The uploaded row is malformed; the correction replaces it wholesale.
	rows := []commands.OrderRow{
		{Line: 2, ClientRef: clientID.String(), BWQuantity: "unreadable"},
	}
	corrections := map[int]commands.OrderRow{
		2: {ClientRef: clientID.String(), BWQuantity: "250"},
	}

	h := newImportHandler(t, uow)
	cmd, err := commands.NewImportOrdersCommand(batchID, adminID, "orders.csv", rows, corrections)
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Zero(t, result.ErrorCount)
	assert.Equal(t, 250, record.BWUsed())
	uow.assertExpectations(t)
}

func TestImportOrdersCommandHandler_Handle_NoValidRows(t *testing.T) {
	// Given a file where every row is broken: the batch settles as rejected
	// and the handler reports the failure.
	ctx := context.Background()
	batchID := kernel.NewUUID()
	adminID := kernel.NewUUID()

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testAdmin(t, adminID), nil).Once()
	uow.imports.On("Add", ctx, mock.AnythingOfType("*csvimport.Batch")).Return(nil).Once()
	uow.imports.On("Update", ctx, mock.AnythingOfType("*csvimport.Batch")).Return(nil).Once()
	uow.audits.On("Add", ctx, mock.AnythingOfType("*auditlog.Entry")).Return(nil).Once()

	rows := []commands.OrderRow{
		{Line: 2, ClientRef: "not-an-identifier", BWQuantity: "100"},
		{Line: 3, ClientRef: kernel.NewUUID().String()},
	}

	h := newImportHandler(t, uow)
	cmd, err := commands.NewImportOrdersCommand(batchID, adminID, "orders.csv", rows, nil)
	require.NoError(t, err)

	result, err := h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, csvimport.ErrNoValidRows)
	assert.Zero(t, result.SuccessCount)
	assert.Equal(t, 2, result.ErrorCount)

	settled := uow.imports.Calls[1].Arguments.Get(1).(*csvimport.Batch)
	assert.Equal(t, csvimport.StatusRejected, settled.Status())
	assert.Equal(t, []auditlog.Action{auditlog.ActionCSVRejected}, auditActions(uow))

	uow.assertExpectations(t)
}

func TestImportOrdersCommandHandler_Handle_NonAdminRefused(t *testing.T) {
	ctx := context.Background()
	batchID := kernel.NewUUID()
	adminID := kernel.NewUUID()

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testAgent(t, adminID), nil).Once()

	h := newImportHandler(t, uow)
	cmd, err := commands.NewImportOrdersCommand(batchID, adminID, "orders.csv",
		[]commands.OrderRow{{Line: 2}}, nil)
	require.NoError(t, err)

	_, err = h.Handle(ctx, cmd)

	assert.Error(t, err)
	uow.assertExpectations(t)
}
