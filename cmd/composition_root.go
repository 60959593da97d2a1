package cmd

import (
	"tripledger/internal/adapters/out/catalogapi"
	"tripledger/internal/adapters/out/ledgerapi"
	"tripledger/internal/adapters/out/postgres"
	"tripledger/internal/adapters/out/redisqueue"
	"tripledger/internal/adapters/out/routeapi"
	"tripledger/internal/core/application/usecases/commands"
	"tripledger/internal/core/application/usecases/queries"
	"tripledger/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	ledgerClient  ports.LedgerClient
	catalogClient ports.OrderCatalogClient
	routeService  ports.RouteService
	tripQueue     ports.TripQueue
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *redis.Client) (CompositionRoot, error) {
	ledgerClient, err := ledgerapi.NewClient(
		config.LedgerAPIURL,
		config.LedgerUsername,
		config.LedgerPassword,
		config.LedgerLicenseNumber,
		config.LedgerManifestLocation,
		config.LedgerTraining == "1",
	)
	if err != nil {
		return CompositionRoot{}, err
	}

	catalogClient, err := catalogapi.NewClient(config.CatalogAPIURL, config.CatalogAPIKey)
	if err != nil {
		return CompositionRoot{}, err
	}

	routeService, err := routeapi.NewClient(config.RouteAPIURL, config.RouteAPIKey, config.WarehouseAddress)
	if err != nil {
		return CompositionRoot{}, err
	}

	tripQueue, err := redisqueue.NewTripQueue(redisClient)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:        gormDB,
		uowFactory:    *postgres.NewGormUnitOfWorkFactory(gormDB),
		ledgerClient:  ledgerClient,
		catalogClient: catalogClient,
		routeService:  routeService,
		tripQueue:     tripQueue,
	}, nil
}

func (c *CompositionRoot) TripQueue() ports.TripQueue {
	return c.tripQueue
}

func (c *CompositionRoot) CreateValidateTripCommandHandler() commands.ValidateTripCommandHandler {
	var f commands.ExecutionUoWFactory = FuncExecutionUoWFactory(func() commands.ExecutionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewValidateTripCommandHandler(f, c.ledgerClient, c.catalogClient)
}

func (c *CompositionRoot) CreateEnqueueTripExecutionCommandHandler() commands.EnqueueTripExecutionCommandHandler {
	var f commands.TripUoWFactory = FuncTripUoWFactory(func() commands.TripUoW {
		return c.uowFactory.Create()
	})
	return commands.NewEnqueueTripExecutionCommandHandler(f, c.tripQueue, c.CreateProgressTracker())
}

func (c *CompositionRoot) CreateExecuteTripCommandHandler() commands.ExecuteTripCommandHandler {
	var executionFactory commands.ExecutionUoWFactory = FuncExecutionUoWFactory(func() commands.ExecutionUoW {
		return c.uowFactory.Create()
	})
	var tripFactory commands.TripUoWFactory = FuncTripUoWFactory(func() commands.TripUoW {
		return c.uowFactory.Create()
	})
	var stopFactory commands.StopUoWFactory = FuncStopUoWFactory(func() commands.StopUoW {
		return c.uowFactory.Create()
	})

	return commands.NewExecuteTripCommandHandler(
		executionFactory,
		c.ledgerClient,
		c.catalogClient,
		commands.NewRouteCache(tripFactory, c.routeService),
		commands.NewStopProcessor(stopFactory, c.ledgerClient),
		c.CreateProgressTracker(),
	)
}

func (c *CompositionRoot) CreateProgressTracker() commands.ProgressTracker {
	var f commands.ProgressUoWFactory = FuncProgressUoWFactory(func() commands.ProgressUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProgressTracker(f)
}

func (c *CompositionRoot) CreateGetExecutionStatusQueryHandler() queries.GetExecutionStatusQueryHandler {
	return queries.NewGetExecutionStatusQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetTripStopsQueryHandler() queries.GetTripStopsQueryHandler {
	return queries.NewGetTripStopsQueryHandler(c.gormDB)
}

type FuncTripUoWFactory func() commands.TripUoW

func (f FuncTripUoWFactory) Create() commands.TripUoW {
	return f()
}

type FuncStopUoWFactory func() commands.StopUoW

func (f FuncStopUoWFactory) Create() commands.StopUoW {
	return f()
}

type FuncProgressUoWFactory func() commands.ProgressUoW

func (f FuncProgressUoWFactory) Create() commands.ProgressUoW {
	return f()
}

type FuncExecutionUoWFactory func() commands.ExecutionUoW

func (f FuncExecutionUoWFactory) Create() commands.ExecutionUoW {
	return f()
}
