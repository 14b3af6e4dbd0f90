package postgres_test

import (
	"context"
	"testing"
	"time"

	postgresadapter "printflow/internal/adapters/out/postgres"
	"printflow/internal/adapters/out/postgres/auditrepo"
	"printflow/internal/adapters/out/postgres/importrepo"
	"printflow/internal/adapters/out/postgres/notificationrepo"
	"printflow/internal/adapters/out/postgres/orderrepo"
	"printflow/internal/adapters/out/postgres/quotarepo"
	"printflow/internal/adapters/out/postgres/userrepo"
	"printflow/internal/core/domain/model/auditlog"
	"printflow/internal/core/domain/model/csvimport"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/notification"
	"printflow/internal/core/domain/model/order"
	"printflow/internal/core/domain/model/quota"
	"printflow/internal/core/domain/model/user"
	"printflow/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
// The multi-repository tests mirror the admission flow: the order row, the
// quota counters and the audit entry must commit or vanish together.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes the PostgreSQL container and database connection,
// then migrates the full schema.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&quotarepo.ClientQuotaDTO{},
		&quotarepo.TopupDTO{},
		&userrepo.UserDTO{},
		&notificationrepo.NotificationDTO{},
		&auditrepo.EntryDTO{},
		&importrepo.BatchDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(
		"TRUNCATE TABLE orders, client_quotas, topups, users, notifications, audit_entries, import_batches").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up the PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies the factory creates isolated unit of
// work instances that each expose the full repository set.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.QuotaRepository())
	suite.NotNil(uow1.UserRepository())
	suite.NotNil(uow1.NotificationRepository())
	suite.NotNil(uow1.AuditRepository())
	suite.NotNil(uow1.ImportRepository())
	suite.NotNil(uow2.OrderRepository())
	suite.NotNil(uow2.QuotaRepository())
}

// TestUnitOfWork_TransactionLifecycle verifies begin, commit and rollback.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for commit and
// rollback without an active transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_SingleRepositoryTransaction verifies repository operations
// within a single transaction boundary work correctly.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SingleRepositoryTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	// Visible within the transaction
	retrieved, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Visible to a fresh unit of work after commit
	newUow := suite.factory.Create()
	retrieved, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
}

// TestUnitOfWork_AdmissionTransaction runs the admission write set through
// one transaction: persist the order, deduct the quota, append the audit
// record and queue the client notification.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AdmissionTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	clientID := kernel.NewUUID()
	period := kernel.NewPeriod(time.Now())
	testOrder, err := order.NewOrder(kernel.NewUUID(), clientID, 400, 100, order.Attributes{})
	suite.Require().NoError(err)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	record, err := uow.QuotaRepository().GetOrCreate(ctx, clientID, period, 3000, 2000)
	suite.Require().NoError(err)
	suite.Require().NoError(record.ApplyDeduction(400, 100, quota.Totals{}))
	suite.Require().NoError(uow.QuotaRepository().Update(ctx, record))

	entry, err := auditlog.NewEntry(kernel.NewUUID(), &clientID, auditlog.ActionOrderCreated,
		"order", testOrder.ID(), map[string]any{"bw_quantity": 400}, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.AuditRepository().Add(ctx, entry))

	note, err := notification.NewNotification(kernel.NewUUID(), clientID,
		notification.KindStatusChange, "Order admitted", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.NotificationRepository().Add(ctx, note))

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// All four writes are visible after commit
	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	persisted, err := newUow.QuotaRepository().Get(ctx, clientID, period)
	suite.Require().NoError(err)
	suite.Equal(400, persisted.BWUsed())
	suite.Equal(100, persisted.ColorUsed())

	entries, err := newUow.AuditRepository().GetByEntity(ctx, "order", testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	suite.Equal(auditlog.ActionOrderCreated, entries[0].Action())

	unread, err := newUow.NotificationRepository().GetUnreadByRecipient(ctx, clientID)
	suite.Require().NoError(err)
	suite.Require().Len(unread, 1)
	suite.Equal("Order admitted", unread[0].Message())
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction across multiple repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	clientID := kernel.NewUUID()
	period := kernel.NewPeriod(time.Now())
	testOrder := suite.createTestOrder()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	_, err = uow.QuotaRepository().GetOrCreate(ctx, clientID, period, 3000, 2000)
	suite.Require().NoError(err)

	// Visible inside the transaction
	_, err = uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	// Gone after rollback
	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")

	_, err = newUow.QuotaRepository().Get(ctx, clientID, period)
	suite.Require().Error(err, "Quota record should not exist after rollback")
}

// TestUnitOfWork_UserAndImportRepositories verifies the remaining
// repositories round-trip their aggregates through the unit of work.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_UserAndImportRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()

	admin, err := user.NewUser(kernel.NewUUID(), "Dana Admin", "dana@example.com", user.RoleAdministrator)
	suite.Require().NoError(err)

	batch, err := csvimport.NewBatch(kernel.NewUUID(), admin.ID(), "orders.csv", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(batch.RecordOutcome(3, 2, []csvimport.RowError{
		{Line: 4, Field: "bw_quantity", Message: "not a number"},
	}))

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	suite.Require().NoError(uow.UserRepository().Add(ctx, admin))
	suite.Require().NoError(uow.ImportRepository().Add(ctx, batch))

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()

	retrievedUser, err := newUow.UserRepository().GetByEmail(ctx, "dana@example.com")
	suite.Require().NoError(err)
	suite.Equal(admin.ID(), retrievedUser.ID())
	suite.Equal(user.RoleAdministrator, retrievedUser.Role())

	retrievedBatch, err := newUow.ImportRepository().Get(ctx, batch.ID())
	suite.Require().NoError(err)
	suite.Equal(3, retrievedBatch.TotalRows())
	suite.Equal(2, retrievedBatch.ValidRows())
	suite.Require().Len(retrievedBatch.RowErrors(), 1)
	suite.Equal("bw_quantity", retrievedBatch.RowErrors()[0].Field)
}

// createTestOrder builds a valid unassigned order for integration tests.
func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), 100, 50, order.Attributes{})
	suite.Require().NoError(err)
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
