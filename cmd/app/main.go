package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"groupbuy/cmd"
	httpin "groupbuy/internal/adapters/in/http"
	"groupbuy/internal/adapters/out/postgres/cooprepo"
	"groupbuy/internal/adapters/out/postgres/orderrepo"
	"groupbuy/internal/adapters/out/postgres/participantrepo"
	"groupbuy/internal/adapters/out/postgres/paymentrepo"
)

func main() {
	configs := getConfigs()

	gormDB := mustConnectDB(configs)
	mustMigrate(gormDB)

	app, err := cmd.NewCompositionRoot(configs, gormDB)
	if err != nil {
		log.Fatalf("Error building composition root: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:        goDotEnvVariable("HTTP_PORT"),
		DBHost:          goDotEnvVariable("DB_HOST"),
		DBPort:          goDotEnvVariable("DB_PORT"),
		DBUser:          goDotEnvVariable("DB_USER"),
		DBPassword:      goDotEnvVariable("DB_PASSWORD"),
		DBName:          goDotEnvVariable("DB_NAME"),
		DBSslMode:       goDotEnvVariable("DB_SSLMODE"),
		BillingBaseURL:  goDotEnvVariable("BILLING_BASE_URL"),
		CatalogBaseURL:  goDotEnvVariable("CATALOG_BASE_URL"),
		IdentityBaseURL: goDotEnvVariable("IDENTITY_BASE_URL"),
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

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	// TranslateError maps the unique-index violation on the payment
	// idempotency key to gorm.ErrDuplicatedKey.
	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func mustMigrate(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.PickupSlotDTO{},
		&participantrepo.ParticipantDTO{},
		&participantrepo.OrderItemDTO{},
		&paymentrepo.PaymentDTO{},
		&cooprepo.EntryDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateUpdateOrderSettingsCommandHandler(),
		app.CreateAddPickupSlotCommandHandler(),
		app.CreateAdvanceOrderCommandHandler(),
		app.CreateLockOrderCommandHandler(),
		app.CreateDistributeOrderCommandHandler(),
		app.CreateJoinOrderCommandHandler(),
		app.CreateReviewParticipationCommandHandler(),
		app.CreateSelectPickupSlotCommandHandler(),
		app.CreateReviewPickupSlotCommandHandler(),
		app.CreatePurchaseCommandHandler(),
		app.CreateSettleSharerDeficitCommandHandler(),
		app.CreateGetOrderQueryHandler(),
	)
	server.RegisterRoutes(e)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if err := e.Close(); err != nil {
		e.Logger.Error(err)
	}
}
