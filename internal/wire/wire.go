// Package wire provides dependency injection for the horas application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"log/slog"
	"os"
	"sync"

	"github.com/jmoiron/sqlx"

	cliadapter "github.com/example/horas/internal/adapters/cli"
	"github.com/example/horas/internal/adapters/httpapi"
	"github.com/example/horas/internal/adapters/sqlite"
	"github.com/example/horas/internal/app"
	appconfig "github.com/example/horas/internal/config"
	"github.com/example/horas/internal/core/timeunit"
	"github.com/example/horas/internal/db"
	"github.com/example/horas/internal/ports/primary"
)

var (
	configPath string

	cfg                 *appconfig.Config
	logger              *slog.Logger
	database            *sqlx.DB
	entryService        primary.EntryService
	delegationService   primary.DelegationService
	catalogService      primary.CatalogService
	collaboratorService primary.CollaboratorService
	reportService       primary.ReportService

	cfgOnce sync.Once
	once    sync.Once
)

// Configure sets the config file path. It must be called before any
// other accessor to take effect.
func Configure(path string) {
	configPath = path
}

// Config returns the loaded configuration.
func Config() *appconfig.Config {
	cfgOnce.Do(loadConfig)
	return cfg
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	cfgOnce.Do(loadConfig)
	return logger
}

// DB returns the shared connection, with the schema brought up to date.
func DB() *sqlx.DB {
	once.Do(initServices)
	return database
}

// EntryService returns the singleton EntryService instance.
func EntryService() primary.EntryService {
	once.Do(initServices)
	return entryService
}

// DelegationService returns the singleton DelegationService instance.
func DelegationService() primary.DelegationService {
	once.Do(initServices)
	return delegationService
}

// CatalogService returns the singleton CatalogService instance.
func CatalogService() primary.CatalogService {
	once.Do(initServices)
	return catalogService
}

// CollaboratorService returns the singleton CollaboratorService instance.
func CollaboratorService() primary.CollaboratorService {
	once.Do(initServices)
	return collaboratorService
}

// ReportService returns the singleton ReportService instance.
func ReportService() primary.ReportService {
	once.Do(initServices)
	return reportService
}

// HTTPServices bundles the services for the API router.
func HTTPServices() httpapi.Services {
	once.Do(initServices)
	return httpapi.Services{
		Entries:       entryService,
		Delegations:   delegationService,
		Catalog:       catalogService,
		Collaborators: collaboratorService,
		Reports:       reportService,
	}
}

func loadConfig() {
	path := configPath
	if path == "" {
		p, err := appconfig.DefaultPath()
		if err != nil {
			log.Fatalf("failed to resolve config path: %v", err)
		}
		path = p
	}

	c, err := appconfig.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg = c
	logger = mustMakeLogger(c.SlogLevel())
}

func mustMakeLogger(level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c, appLog := Config(), Logger()

	conn, err := db.Open(c.Database.Driver, c.Database.DSN)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	if err := db.InitSchema(conn, appLog); err != nil {
		log.Fatalf("failed to initialize schema: %v", err)
	}
	database = conn

	policy, err := c.Policy()
	if err != nil {
		log.Fatalf("invalid record codes: %v", err)
	}
	normalizer := timeunit.NewNormalizer(c.Year)

	// Create repository adapters (secondary ports) sharing one transactional store
	store := sqlite.NewStore(conn, appLog)
	entryRepo := sqlite.NewEntryRepository(store)
	delegationRepo := sqlite.NewDelegationRepository(store)
	collaboratorRepo := sqlite.NewCollaboratorRepository(store)
	planItemRepo := sqlite.NewPlanItemRepository(store)
	workOrderRepo := sqlite.NewWorkOrderRepository(store)
	derivedRepo := sqlite.NewDerivedRecordRepository(store)

	generator := app.NewDerivedGenerator(policy, entryRepo, collaboratorRepo, workOrderRepo, derivedRepo)

	// Create services (primary ports implementation)
	entryService = app.NewEntryService(store, entryRepo, delegationRepo, generator, normalizer, appLog)
	delegationService = app.NewDelegationService(store, delegationRepo, entryRepo, collaboratorRepo, normalizer, appLog)
	catalogService = app.NewCatalogService(store, planItemRepo, workOrderRepo, entryRepo, delegationRepo, derivedRepo, appLog)
	collaboratorService = app.NewCollaboratorService(store, collaboratorRepo, entryRepo, delegationRepo, derivedRepo, appLog)
	reportService = app.NewReportService(sqlite.NewReportRepository(store))
}

// EntryAdapter returns a new EntryAdapter writing to stdout.
func EntryAdapter() *cliadapter.EntryAdapter {
	return EntryAdapterWithOutput(os.Stdout)
}

// EntryAdapterWithOutput returns a new EntryAdapter writing to the given output.
func EntryAdapterWithOutput(out io.Writer) *cliadapter.EntryAdapter {
	return cliadapter.NewEntryAdapter(EntryService(), out)
}

// DelegationAdapter returns a new DelegationAdapter writing to stdout.
func DelegationAdapter() *cliadapter.DelegationAdapter {
	return cliadapter.NewDelegationAdapter(DelegationService(), os.Stdout)
}

// CatalogAdapter returns a new CatalogAdapter writing to stdout.
func CatalogAdapter() *cliadapter.CatalogAdapter {
	return cliadapter.NewCatalogAdapter(CatalogService(), os.Stdout)
}

// CollaboratorAdapter returns a new CollaboratorAdapter writing to stdout.
func CollaboratorAdapter() *cliadapter.CollaboratorAdapter {
	return cliadapter.NewCollaboratorAdapter(CollaboratorService(), os.Stdout)
}

// ReportAdapter returns a new ReportAdapter writing to stdout.
func ReportAdapter() *cliadapter.ReportAdapter {
	return cliadapter.NewReportAdapter(ReportService(), os.Stdout)
}
