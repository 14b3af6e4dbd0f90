package queries_test

import (
	"context"
	"testing"
	"time"

	"printflow/internal/adapters/out/postgres/quotarepo"
	"printflow/internal/core/application/ledger"
	"printflow/internal/core/application/usecases/queries"
	"printflow/internal/core/domain/model/kernel"
	"printflow/internal/core/domain/model/quota"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// stubClock pins the handler's notion of the current period.
type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

type GetQuotaSummaryQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetQuotaSummaryQueryHandler
	quotaRepo *quotarepo.GormQuotaRepository
	period    kernel.Period
}

func (suite *GetQuotaSummaryQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&quotarepo.ClientQuotaDTO{}, &quotarepo.TopupDTO{})
	suite.Require().NoError(err)

	now := time.Date(2026, time.July, 15, 9, 0, 0, 0, time.UTC)
	suite.period = kernel.NewPeriod(now)
	suite.handler = queries.NewGetQuotaSummaryQueryHandler(db, stubClock{now: now}, ledger.Defaults{
		BWLimit:          3000,
		ColorLimit:       2000,
		WarningThreshold: 0.8,
	})
	suite.quotaRepo = quotarepo.NewGormQuotaRepository(db, &mockAggregateTracker{})
}

func (suite *GetQuotaSummaryQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetQuotaSummaryQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE client_quotas, topups").Error
	suite.Require().NoError(err)
}

func (suite *GetQuotaSummaryQueryHandlerTestSuite) TestHandle_NoUsageRow_ReturnsDefaults() {
	ctx := context.Background()
	clientID := kernel.NewUUID()

	query, err := queries.NewGetQuotaSummaryQuery(clientID, kernel.Period{})
	suite.Require().NoError(err)

	summary, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal(clientID, summary.ClientID)
	suite.Equal(suite.period.String(), summary.Period)
	suite.Equal(3000, summary.BW.BaseLimit)
	suite.Equal(3000, summary.BW.EffectiveLimit)
	suite.Equal(0, summary.BW.Used)
	suite.Equal(3000, summary.BW.Available)
	suite.InDelta(0.0, summary.BW.UsagePercent, 0.001)
	suite.Equal(2000, summary.Color.BaseLimit)
	suite.Empty(summary.Topups)
}

func (suite *GetQuotaSummaryQueryHandlerTestSuite) TestHandle_WithUsage_ReportsHeadroom() {
	ctx := context.Background()
	clientID := kernel.NewUUID()
	suite.seedQuota(clientID, 1500, 500, false)

	query, err := queries.NewGetQuotaSummaryQuery(clientID, kernel.Period{})
	suite.Require().NoError(err)

	summary, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal(1500, summary.BW.Used)
	suite.Equal(1500, summary.BW.Available)
	suite.InDelta(50.0, summary.BW.UsagePercent, 0.001)
	suite.Equal(500, summary.Color.Used)
	suite.InDelta(25.0, summary.Color.UsagePercent, 0.001)
}

func (suite *GetQuotaSummaryQueryHandlerTestSuite) TestHandle_TopupsRaiseEffectiveLimit() {
	ctx := context.Background()
	clientID := kernel.NewUUID()
	adminID := kernel.NewUUID()
	suite.seedQuota(clientID, 2800, 0, false)

	grant, err := quota.NewTopup(kernel.NewUUID(), clientID, adminID, suite.period,
		1000, 0, "deadline crunch", time.Date(2026, time.July, 16, 10, 0, 0, 0, time.UTC), 1000)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.quotaRepo.AddTopup(ctx, grant))

	query, err := queries.NewGetQuotaSummaryQuery(clientID, kernel.Period{})
	suite.Require().NoError(err)

	summary, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.Equal(3000, summary.BW.BaseLimit)
	suite.Equal(1000, summary.BW.TopupAdded)
	suite.Equal(4000, summary.BW.EffectiveLimit)
	suite.Equal(1200, summary.BW.Available)
	suite.InDelta(70.0, summary.BW.UsagePercent, 0.001)

	suite.Require().Len(summary.Topups, 1)
	suite.Equal(grant.ID(), summary.Topups[0].ID)
	suite.Equal(adminID, summary.Topups[0].AdminID)
	suite.Equal("deadline crunch", summary.Topups[0].Notes)
}

func (suite *GetQuotaSummaryQueryHandlerTestSuite) TestHandle_AlertFlagSurfaces() {
	ctx := context.Background()
	clientID := kernel.NewUUID()
	suite.seedQuota(clientID, 2500, 0, true)

	query, err := queries.NewGetQuotaSummaryQuery(clientID, kernel.Period{})
	suite.Require().NoError(err)

	summary, err := suite.handler.Handle(ctx, query)

	suite.Require().NoError(err)
	suite.True(summary.BW.AlertSent)
	suite.False(summary.Color.AlertSent)
}

func (suite *GetQuotaSummaryQueryHandlerTestSuite) TestHandle_ExplicitPeriod_IgnoresOtherMonths() {
	ctx := context.Background()
	clientID := kernel.NewUUID()
	suite.seedQuota(clientID, 2000, 0, false)

	march, err := kernel.PeriodOf(2026, time.March)
	suite.Require().NoError(err)
	query, err := queries.NewGetQuotaSummaryQuery(clientID, march)
	suite.Require().NoError(err)

	summary, err := suite.handler.Handle(ctx, query)

	// July's usage must not leak into the March summary
	suite.Require().NoError(err)
	suite.Equal(march.String(), summary.Period)
	suite.Equal(0, summary.BW.Used)
}

// seedQuota persists a quota row for the suite's period with the given usage.
func (suite *GetQuotaSummaryQueryHandlerTestSuite) seedQuota(clientID kernel.UUID, bwUsed, colorUsed int, bwAlert bool) {
	created, err := suite.quotaRepo.GetOrCreate(context.Background(), clientID, suite.period, 3000, 2000)
	suite.Require().NoError(err)
	suite.Require().NoError(created.ApplyDeduction(bwUsed, colorUsed, quota.Totals{}))
	if bwAlert {
		created.LatchAlert(quota.ChannelBW)
	}
	suite.Require().NoError(suite.quotaRepo.Update(context.Background(), created))
}

func TestGetQuotaSummaryQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetQuotaSummaryQueryHandlerTestSuite))
}
