package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"tripledger/cmd"
	httpin "tripledger/internal/adapters/in/http"
	"tripledger/internal/adapters/out/postgres/executionrepo"
	"tripledger/internal/adapters/out/postgres/locationrepo"
	"tripledger/internal/adapters/out/postgres/stoprepo"
	"tripledger/internal/adapters/out/postgres/triprepo"
	"tripledger/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustConnectDatabase(configs)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
	})

	app, err := cmd.NewCompositionRoot(configs, gormDB, redisClient)
	if err != nil {
		log.Fatalf("Failed to assemble application: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	executeHandler := app.CreateExecuteTripCommandHandler()
	jobManager := jobs.NewJobManager(app.TripQueue(), &executeHandler, app.CreateProgressTracker(), logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),

		RedisAddr:     goDotEnvVariable("REDIS_ADDR"),
		RedisPassword: goDotEnvVariable("REDIS_PASSWORD"),

		LedgerAPIURL:           goDotEnvVariable("LEDGER_API_URL"),
		LedgerUsername:         goDotEnvVariable("LEDGER_USERNAME"),
		LedgerPassword:         goDotEnvVariable("LEDGER_PASSWORD"),
		LedgerLicenseNumber:    goDotEnvVariable("LEDGER_LICENSE_NUMBER"),
		LedgerManifestLocation: goDotEnvVariable("LEDGER_MANIFEST_LOCATION"),
		LedgerTraining:         goDotEnvVariable("LEDGER_TRAINING"),

		CatalogAPIURL: goDotEnvVariable("CATALOG_API_URL"),
		CatalogAPIKey: goDotEnvVariable("CATALOG_API_KEY"),

		RouteAPIURL:      goDotEnvVariable("ROUTE_API_URL"),
		RouteAPIKey:      goDotEnvVariable("ROUTE_API_KEY"),
		WarehouseAddress: goDotEnvVariable("WAREHOUSE_ADDRESS"),
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

func mustConnectDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	gormDB, err := gorm.Open(gorm_postgres.New(gorm_postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect gorm: %v", err)
	}

	err = gormDB.AutoMigrate(
		&triprepo.TripDTO{},
		&stoprepo.StopDTO{},
		&executionrepo.ExecutionDTO{},
		&locationrepo.LocationMappingDTO{},
		&locationrepo.DriverDTO{},
		&locationrepo.VehicleDTO{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return gormDB
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpin.NewServer(
		app.CreateValidateTripCommandHandler(),
		app.CreateEnqueueTripExecutionCommandHandler(),
		app.CreateGetExecutionStatusQueryHandler(),
		app.CreateGetTripStopsQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
