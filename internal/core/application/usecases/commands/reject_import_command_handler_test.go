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
	"printflow/internal/core/domain/model/notification"
)

func newRejectImportHandler(t *testing.T, uow *MockUoW) commands.RejectImportCommandHandler {
	t.Helper()
	h, err := commands.NewRejectImportCommandHandler(importUoWFactory{uow: uow},
		testAdmission(t), fixedClock{now: testNow})
	require.NoError(t, err)
	return h
}

func uploadedBatch(t *testing.T, batchID, uploaderID kernel.UUID) *csvimport.Batch {
	t.Helper()
	batch, err := csvimport.NewBatch(batchID, uploaderID, "orders.csv", testNow)
	require.NoError(t, err)
	return batch
}

func TestRejectImportCommandHandler_Handle_Success(t *testing.T) {
	// Given an uploaded batch and a different administrator rejecting it.
	ctx := context.Background()
	batchID := kernel.NewUUID()
	uploaderID := kernel.NewUUID()
	adminID := kernel.NewUUID()
	batch := uploadedBatch(t, batchID, uploaderID)

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testAdmin(t, adminID), nil).Once()
	uow.imports.On("Get", ctx, batchID).Return(batch, nil).Once()
	uow.imports.On("Update", ctx, batch).Return(nil).Once()
	uow.audits.On("Add", ctx, mock.AnythingOfType("*auditlog.Entry")).Return(nil).Once()
	uow.notifications.On("Add", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil).Once()

	h := newRejectImportHandler(t, uow)
	cmd, err := commands.NewRejectImportCommand(batchID, adminID, "wrong file")
	require.NoError(t, err)

	// When
	require.NoError(t, h.Handle(ctx, cmd))

	// Then the batch is settled and the uploader is told why.
	assert.Equal(t, csvimport.StatusRejected, batch.Status())

	entry := uow.audits.Calls[0].Arguments.Get(1).(*auditlog.Entry)
	assert.Equal(t, auditlog.ActionCSVRejected, entry.Action())
	assert.Equal(t, batchID, entry.EntityID())

	sent := uow.notifications.Calls[0].Arguments.Get(1).(*notification.Notification)
	assert.Equal(t, uploaderID, sent.RecipientID())
	assert.Equal(t, notification.KindStatusChange, sent.Kind())
	assert.Contains(t, sent.Message(), "wrong file")

	uow.assertExpectations(t)
}

func TestRejectImportCommandHandler_Handle_AlreadySettled(t *testing.T) {
	ctx := context.Background()
	batchID := kernel.NewUUID()
	adminID := kernel.NewUUID()
	batch := uploadedBatch(t, batchID, adminID)
	require.NoError(t, batch.MarkValidated())

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testAdmin(t, adminID), nil).Once()
	uow.imports.On("Get", ctx, batchID).Return(batch, nil).Once()

	h := newRejectImportHandler(t, uow)
	cmd, err := commands.NewRejectImportCommand(batchID, adminID, "late rejection")
	require.NoError(t, err)

	err = h.Handle(ctx, cmd)

	assert.ErrorIs(t, err, csvimport.ErrBatchAlreadySettled)
	uow.assertExpectations(t)
}

func TestRejectImportCommandHandler_Handle_NonAdminRefused(t *testing.T) {
	ctx := context.Background()
	batchID := kernel.NewUUID()
	adminID := kernel.NewUUID()

	uow := newMockUoW()
	uow.users.On("Get", ctx, adminID).Return(testClient(t, adminID), nil).Once()

	h := newRejectImportHandler(t, uow)
	cmd, err := commands.NewRejectImportCommand(batchID, adminID, "not allowed")
	require.NoError(t, err)

	assert.Error(t, h.Handle(ctx, cmd))
	uow.assertExpectations(t)
}
