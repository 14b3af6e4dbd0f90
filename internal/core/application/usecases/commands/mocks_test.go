package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"printflow/internal/core/application/ledger"
	"printflow/internal/core/application/usecases/commands"
	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/csvimport"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
	"printflow/internal/core/domain/model/order"
	"printflow/internal/core/domain/model/quota"
	"printflow/internal/core/domain/model/user"
	"printflow/internal/core/domain/services"
	"printflow/internal/core/ports"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByExternalOrderID(ctx context.Context, externalOrderID string) (*order.Order, error) {
	args := m.Called(ctx, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountActiveByAgent(ctx context.Context, agentID kernel.UUID) (int, error) {
	args := m.Called(ctx, agentID)
	return args.Int(0), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, aggregate *user.User) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockQuotaRepository struct{ mock.Mock }

func (m *MockQuotaRepository) GetOrCreate(ctx context.Context, clientID kernel.UUID, period kernel.Period, bwLimit, colorLimit int) (*quota.ClientQuota, error) {
	args := m.Called(ctx, clientID, period, bwLimit, colorLimit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quota.ClientQuota), args.Error(1)
}

func (m *MockQuotaRepository) GetForUpdate(ctx context.Context, clientID kernel.UUID, period kernel.Period) (*quota.ClientQuota, error) {
	args := m.Called(ctx, clientID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quota.ClientQuota), args.Error(1)
}

func (m *MockQuotaRepository) Get(ctx context.Context, clientID kernel.UUID, period kernel.Period) (*quota.ClientQuota, error) {
	args := m.Called(ctx, clientID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quota.ClientQuota), args.Error(1)
}

func (m *MockQuotaRepository) Update(ctx context.Context, aggregate *quota.ClientQuota) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockQuotaRepository) AddTopup(ctx context.Context, topup *quota.Topup) error {
	args := m.Called(ctx, topup)
	return args.Error(0)
}

func (m *MockQuotaRepository) GetTopups(ctx context.Context, clientID kernel.UUID, period kernel.Period) ([]*quota.Topup, error) {
	args := m.Called(ctx, clientID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*quota.Topup), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, aggregate *notification.Notification) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) GetUnreadByRecipient(_ context.Context, _ kernel.UUID) ([]*notification.Notification, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockNotificationRepository) GetUndispatched(ctx context.Context, limit int) ([]*notification.Notification, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Update(ctx context.Context, aggregate *notification.Notification) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Add(ctx context.Context, entry *auditlog.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) GetByEntity(_ context.Context, _ string, _ kernel.UUID) ([]*auditlog.Entry, error) {
	return nil, errors.New("not implemented in mock")
}

type MockImportRepository struct{ mock.Mock }

func (m *MockImportRepository) Add(ctx context.Context, aggregate *csvimport.Batch) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockImportRepository) Update(ctx context.Context, aggregate *csvimport.Batch) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockImportRepository) Get(ctx context.Context, id kernel.UUID) (*csvimport.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*csvimport.Batch), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Deliver(ctx context.Context, aggregate *notification.Notification) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

// MockUoW satisfies every unit of work composition in this package plus the
// ledger's, so one instance can back a whole admission flow in tests.
type MockUoW struct {
	orders        *MockOrderRepository
	quotas        *MockQuotaRepository
	users         *MockUserRepository
	notifications *MockNotificationRepository
	audits        *MockAuditRepository
	imports       *MockImportRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:        new(MockOrderRepository),
		quotas:        new(MockQuotaRepository),
		users:         new(MockUserRepository),
		notifications: new(MockNotificationRepository),
		audits:        new(MockAuditRepository),
		imports:       new(MockImportRepository),
	}
}

func (m *MockUoW) Begin(context.Context) error    { return nil }
func (m *MockUoW) Commit(context.Context) error   { return nil }
func (m *MockUoW) Rollback(context.Context) error { return nil }

func (m *MockUoW) OrderRepository() ports.OrderRepository { return m.orders }
func (m *MockUoW) QuotaRepository() ports.QuotaRepository { return m.quotas }
func (m *MockUoW) UserRepository() ports.UserRepository   { return m.users }
func (m *MockUoW) NotificationRepository() ports.NotificationRepository {
	return m.notifications
}
func (m *MockUoW) AuditRepository() ports.AuditRepository   { return m.audits }
func (m *MockUoW) ImportRepository() ports.ImportRepository { return m.imports }

func (m *MockUoW) assertExpectations(t *testing.T) {
	t.Helper()
	m.orders.AssertExpectations(t)
	m.quotas.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
	m.audits.AssertExpectations(t)
	m.imports.AssertExpectations(t)
}

type orderUoWFactory struct{ uow *MockUoW }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.uow }

type topupUoWFactory struct{ uow *MockUoW }

func (f topupUoWFactory) Create() commands.TopupUoW { return f.uow }

type importUoWFactory struct{ uow *MockUoW }

func (f importUoWFactory) Create() commands.ImportUoW { return f.uow }

type notificationUoWFactory struct{ uow *MockUoW }

func (f notificationUoWFactory) Create() commands.NotificationUoW { return f.uow }

type ledgerUoWFactory struct{ uow *MockUoW }

func (f ledgerUoWFactory) Create() ledger.QuotaUoW { return f.uow }

func testDefaults() ledger.Defaults {
	return ledger.Defaults{BWLimit: 3000, ColorLimit: 2000, WarningThreshold: 0.8}
}

func testLedger(t *testing.T, uow *MockUoW) *ledger.Ledger {
	t.Helper()
	l, err := ledger.NewLedger(ledgerUoWFactory{uow: uow}, fixedClock{now: testNow}, testDefaults())
	require.NoError(t, err)
	return l
}

func testAdmission(t *testing.T) services.AdmissionPolicy {
	t.Helper()
	policy, err := services.NewAdmissionPolicy(10)
	require.NoError(t, err)
	return policy
}

func testClient(t *testing.T, id kernel.UUID) *user.User {
	t.Helper()
	account, err := user.NewUser(id, "Client", "client@example.com", user.RoleClient)
	require.NoError(t, err)
	return account
}

func testAgent(t *testing.T, id kernel.UUID) *user.User {
	t.Helper()
	account, err := user.NewUser(id, "Agent", "agent@example.com", user.RoleAgent)
	require.NoError(t, err)
	return account
}

func testAdmin(t *testing.T, id kernel.UUID) *user.User {
	t.Helper()
	account, err := user.NewUser(id, "Admin", "admin@example.com", user.RoleAdministrator)
	require.NoError(t, err)
	return account
}

func freshQuota(t *testing.T, clientID kernel.UUID, period kernel.Period) *quota.ClientQuota {
	t.Helper()
	record, err := quota.RestoreClientQuota(clientID, period, 3000, 2000, 0, 0, false, false)
	require.NoError(t, err)
	return record
}
