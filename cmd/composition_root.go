package cmd

import (
	"log/slog"

	"printflow/internal/adapters/out/notify"
	"printflow/internal/adapters/out/postgres"
	"printflow/internal/core/application/ledger"
	"printflow/internal/core/application/usecases/commands"
	"printflow/internal/core/application/usecases/queries"
	"printflow/internal/core/domain/services"
	"printflow/internal/core/ports"
	"printflow/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB          *gorm.DB
	uowFactory      postgres.GormUnitOfWorkFactory
	clock           ports.Clock
	admission       services.AdmissionPolicy
	quotaLedger     *ledger.Ledger
	quotaDefaults   ledger.Defaults
	idempotencyMode commands.IdempotencyMode
	minTopupAmount  int
	logger          *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)
	clock := ports.SystemClock{}

	admission, err := services.NewAdmissionPolicy(config.MaxActiveOrders)
	if err != nil {
		return CompositionRoot{}, err
	}

	defaults := ledger.Defaults{
		BWLimit:          config.DefaultBWLimit,
		ColorLimit:       config.DefaultColorLimit,
		WarningThreshold: config.QuotaWarningThreshold,
	}

	var quotaUoWFactory ledger.QuotaUoWFactory = FuncQuotaUoWFactory(func() ledger.QuotaUoW {
		return uowFactory.Create()
	})
	quotaLedger, err := ledger.NewLedger(quotaUoWFactory, clock, defaults)
	if err != nil {
		return CompositionRoot{}, err
	}

	idempotencyMode, err := commands.IdempotencyModeFromString(config.CSVIdempotencyMode)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:          gormDB,
		uowFactory:      *uowFactory,
		clock:           clock,
		admission:       admission,
		quotaLedger:     quotaLedger,
		quotaDefaults:   defaults,
		idempotencyMode: idempotencyMode,
		minTopupAmount:  config.MinTopupAmount,
		logger:          logger,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() (commands.CreateOrderCommandHandler, error) {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.quotaLedger, c.admission, c.idempotencyMode, c.clock)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() (commands.ChangeOrderStatusCommandHandler, error) {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() (commands.AssignOrderCommandHandler, error) {
	return commands.NewAssignOrderCommandHandler(c.orderUoWFactory(), c.admission, c.clock)
}

func (c *CompositionRoot) CreateCreateTopupCommandHandler() (commands.CreateTopupCommandHandler, error) {
	var f commands.TopupUoWFactory = FuncTopupUoWFactory(func() commands.TopupUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateTopupCommandHandler(f, c.admission, c.clock, c.quotaDefaults, c.minTopupAmount)
}

func (c *CompositionRoot) CreateImportOrdersCommandHandler() (commands.ImportOrdersCommandHandler, error) {
	createOrder, err := c.CreateCreateOrderCommandHandler()
	if err != nil {
		return commands.ImportOrdersCommandHandler{}, err
	}
	var f commands.ImportUoWFactory = FuncImportUoWFactory(func() commands.ImportUoW {
		return c.uowFactory.Create()
	})
	return commands.NewImportOrdersCommandHandler(f, &createOrder, c.admission, c.clock)
}

func (c *CompositionRoot) CreateRejectImportCommandHandler() (commands.RejectImportCommandHandler, error) {
	var f commands.ImportUoWFactory = FuncImportUoWFactory(func() commands.ImportUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRejectImportCommandHandler(f, c.admission, c.clock)
}

func (c *CompositionRoot) notificationUoWFactory() commands.NotificationUoWFactory {
	return FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() (commands.MarkNotificationReadCommandHandler, error) {
	return commands.NewMarkNotificationReadCommandHandler(c.notificationUoWFactory())
}

func (c *CompositionRoot) CreateDispatchNotificationsCommandHandler() (commands.DispatchNotificationsCommandHandler, error) {
	notifier, err := notify.NewLogNotifier(c.logger)
	if err != nil {
		return commands.DispatchNotificationsCommandHandler{}, err
	}
	return commands.NewDispatchNotificationsCommandHandler(c.notificationUoWFactory(), notifier)
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	dispatchHandler, err := c.CreateDispatchNotificationsCommandHandler()
	if err != nil {
		return nil, err
	}
	return jobs.NewJobManager(dispatchHandler, c.logger), nil
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetQuotaSummaryQueryHandler() queries.GetQuotaSummaryQueryHandler {
	return queries.NewGetQuotaSummaryQueryHandler(c.gormDB, c.clock, c.quotaDefaults)
}

func (c *CompositionRoot) CreateGetUnreadNotificationsQueryHandler() queries.GetUnreadNotificationsQueryHandler {
	return queries.NewGetUnreadNotificationsQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncTopupUoWFactory func() commands.TopupUoW

func (f FuncTopupUoWFactory) Create() commands.TopupUoW {
	return f()
}

type FuncImportUoWFactory func() commands.ImportUoW

func (f FuncImportUoWFactory) Create() commands.ImportUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

type FuncQuotaUoWFactory func() ledger.QuotaUoW

func (f FuncQuotaUoWFactory) Create() ledger.QuotaUoW {
	return f()
}
