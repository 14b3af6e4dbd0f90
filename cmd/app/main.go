package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"printflow/cmd"
	httpadapter "printflow/internal/adapters/in/http"
	"printflow/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := connectDatabase(configs)
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building composition root: %v", err)
	}

	jobManager, err := app.CreateJobManager()
	if err != nil {
		log.Fatalf("Error building job manager: %v", err)
	}
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:              goDotEnvVariable("HTTP_PORT"),
		DBHost:                goDotEnvVariable("DB_HOST"),
		DBPort:                goDotEnvVariable("DB_PORT"),
		DBUser:                goDotEnvVariable("DB_USER"),
		DBPassword:            goDotEnvVariable("DB_PASSWORD"),
		DBName:                goDotEnvVariable("DB_NAME"),
		DBSslMode:             goDotEnvVariable("DB_SSLMODE"),
		DefaultBWLimit:        goDotEnvIntVariable("DEFAULT_BW_LIMIT"),
		DefaultColorLimit:     goDotEnvIntVariable("DEFAULT_COLOR_LIMIT"),
		QuotaWarningThreshold: goDotEnvFloatVariable("QUOTA_WARNING_THRESHOLD"),
		MinTopupAmount:        goDotEnvIntVariable("MIN_TOPUP_AMOUNT"),
		MaxActiveOrders:       goDotEnvIntVariable("MAX_ACTIVE_ORDERS"),
		CSVIdempotencyMode:    goDotEnvVariable("CSV_IDEMPOTENCY_MODE"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func goDotEnvIntVariable(key string) int {
	value, err := strconv.Atoi(goDotEnvVariable(key))
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func goDotEnvFloatVariable(key string) float64 {
	value, err := strconv.ParseFloat(goDotEnvVariable(key), 64)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func connectDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	createOrderHandler, err := app.CreateCreateOrderCommandHandler()
	if err != nil {
		log.Fatalf("Error building create order handler: %v", err)
	}
	changeOrderStatusHandler, err := app.CreateChangeOrderStatusCommandHandler()
	if err != nil {
		log.Fatalf("Error building change order status handler: %v", err)
	}
	assignOrderHandler, err := app.CreateAssignOrderCommandHandler()
	if err != nil {
		log.Fatalf("Error building assign order handler: %v", err)
	}
	createTopupHandler, err := app.CreateCreateTopupCommandHandler()
	if err != nil {
		log.Fatalf("Error building create topup handler: %v", err)
	}
	importOrdersHandler, err := app.CreateImportOrdersCommandHandler()
	if err != nil {
		log.Fatalf("Error building import orders handler: %v", err)
	}
	rejectImportHandler, err := app.CreateRejectImportCommandHandler()
	if err != nil {
		log.Fatalf("Error building reject import handler: %v", err)
	}
	markNotificationReadHandler, err := app.CreateMarkNotificationReadCommandHandler()
	if err != nil {
		log.Fatalf("Error building mark notification read handler: %v", err)
	}

	server := httpadapter.NewServer(
		createOrderHandler,
		changeOrderStatusHandler,
		assignOrderHandler,
		createTopupHandler,
		importOrdersHandler,
		rejectImportHandler,
		markNotificationReadHandler,
		app.CreateGetOrdersQueryHandler(),
		app.CreateGetQuotaSummaryQueryHandler(),
		app.CreateGetUnreadNotificationsQueryHandler(),
	)

	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
