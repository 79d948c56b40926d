package app

import (
	"context"

	"oshalog/config"
	"oshalog/internal/blob"
	"oshalog/internal/database"
	"oshalog/internal/logger"
	"oshalog/internal/metrics"
	"oshalog/internal/repositories"
	"oshalog/internal/services"

	attachmentController "oshalog/internal/controllers/attachment"
	correctiveActionController "oshalog/internal/controllers/correctiveAction"
	dashboardController "oshalog/internal/controllers/dashboard"
	establishmentController "oshalog/internal/controllers/establishment"
	importerController "oshalog/internal/controllers/importer"
	incidentController "oshalog/internal/controllers/incident"
	locationController "oshalog/internal/controllers/location"
	oshaController "oshalog/internal/controllers/osha"
	rcaController "oshalog/internal/controllers/rca"

	"github.com/prometheus/client_golang/prometheus"
)

type App struct {
	Database database.DB
	Config   config.Config
	Blobs    blob.Store
	Registry *prometheus.Registry
	Metrics  *metrics.Recorder

	// Services
	TransactionService *services.TransactionService
	CacheInvalidation  *services.CacheInvalidationService

	// Repositories
	EstablishmentRepo    repositories.EstablishmentRepository
	LocationRepo         repositories.LocationRepository
	IncidentRepo         repositories.IncidentRepository
	AttachmentRepo       repositories.AttachmentRepository
	AnnualStatsRepo      repositories.AnnualStatsRepository
	CorrectiveActionRepo repositories.CorrectiveActionRepository
	RcaSessionRepo       repositories.RcaSessionRepository
	FiveWhysRepo         repositories.FiveWhysRepository
	FishboneRepo         repositories.FishboneRepository
	ReportRepo           repositories.ReportRepository

	// Controllers
	EstablishmentController    *establishmentController.EstablishmentController
	LocationController         *locationController.LocationController
	IncidentController         *incidentController.IncidentController
	AttachmentController       *attachmentController.AttachmentController
	CorrectiveActionController *correctiveActionController.CorrectiveActionController
	RcaController              *rcaController.RcaController
	OshaController             *oshaController.OshaController
	DashboardController        *dashboardController.DashboardController
	ImporterController         *importerController.ImporterController
}

// New loads the configuration from the environment and builds the app.
func New(ctx context.Context) (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return NewWithConfig(ctx, config)
}

func NewWithConfig(ctx context.Context, config config.Config) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	if err := logger.Configure(config.LogLevel, config.IsProduction()); err != nil {
		return &App{}, log.Err("failed to configure logger", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	blobs, err := blob.Open(ctx, config)
	if err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to open blob store", err)
	}

	registry := prometheus.NewRegistry()
	recorder, err := metrics.New(registry)
	if err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to register metrics", err)
	}

	// Initialize services
	transactionService := services.NewTransactionService(db, recorder)
	cacheInvalidation := services.NewCacheInvalidationService(db)

	// Initialize repositories
	establishmentRepo := repositories.NewEstablishment(db)
	locationRepo := repositories.NewLocation(db)
	incidentRepo := repositories.NewIncident(db)
	attachmentRepo := repositories.NewAttachment(db)
	annualStatsRepo := repositories.NewAnnualStats(db)
	correctiveActionRepo := repositories.NewCorrectiveAction(db)
	rcaSessionRepo := repositories.NewRcaSession(db)
	fiveWhysRepo := repositories.NewFiveWhys(db)
	fishboneRepo := repositories.NewFishbone(db)
	reportRepo := repositories.NewReport(db)

	// Initialize controllers with repositories and services
	incidents := incidentController.New(
		establishmentRepo, locationRepo, incidentRepo, attachmentRepo, blobs,
		transactionService, cacheInvalidation,
	)

	app := &App{
		Database:             db,
		Config:               config,
		Blobs:                blobs,
		Registry:             registry,
		Metrics:              recorder,
		TransactionService:   transactionService,
		CacheInvalidation:    cacheInvalidation,
		EstablishmentRepo:    establishmentRepo,
		LocationRepo:         locationRepo,
		IncidentRepo:         incidentRepo,
		AttachmentRepo:       attachmentRepo,
		AnnualStatsRepo:      annualStatsRepo,
		CorrectiveActionRepo: correctiveActionRepo,
		RcaSessionRepo:       rcaSessionRepo,
		FiveWhysRepo:         fiveWhysRepo,
		FishboneRepo:         fishboneRepo,
		ReportRepo:           reportRepo,

		EstablishmentController: establishmentController.New(
			establishmentRepo, transactionService, cacheInvalidation,
		),
		LocationController: locationController.New(establishmentRepo, locationRepo, transactionService),
		IncidentController: incidents,
		AttachmentController: attachmentController.New(
			incidentRepo, attachmentRepo, blobs, transactionService,
		),
		CorrectiveActionController: correctiveActionController.New(
			incidentRepo, rcaSessionRepo, correctiveActionRepo, transactionService,
		),
		RcaController: rcaController.New(
			incidentRepo, rcaSessionRepo, fiveWhysRepo, fishboneRepo, transactionService,
		),
		OshaController: oshaController.New(
			establishmentRepo, incidentRepo, annualStatsRepo, reportRepo, transactionService, cacheInvalidation,
		),
		DashboardController: dashboardController.New(
			establishmentRepo, annualStatsRepo, reportRepo, transactionService,
		),
		ImporterController: importerController.New(
			establishmentRepo, locationRepo, incidents, transactionService, recorder,
		),
	}

	if err := app.validate(); err != nil {
		_ = app.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Blobs,
		a.Metrics,
		a.TransactionService,
		a.CacheInvalidation,
		a.EstablishmentController,
		a.LocationController,
		a.IncidentController,
		a.AttachmentController,
		a.CorrectiveActionController,
		a.RcaController,
		a.OshaController,
		a.DashboardController,
		a.ImporterController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() error {
	err := a.Database.Close()
	logger.Sync()
	return err
}
