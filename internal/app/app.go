package app

import (
	"context"
	"time"

	"peoplefinder/config"
	"peoplefinder/internal/database"
	"peoplefinder/internal/events"
	"peoplefinder/internal/handlers/middleware"
	"peoplefinder/internal/logger"
	"peoplefinder/internal/repositories"
	"peoplefinder/internal/services"
	"peoplefinder/internal/upstream"
	"peoplefinder/internal/websockets"

	authController "peoplefinder/internal/controllers/auth"
	searchController "peoplefinder/internal/controllers/search"
)

const restoreTimeout = 10 * time.Second

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	// Services
	TransactionService       *services.TransactionService
	CacheInvalidationService *services.CacheInvalidationService

	// Repositories
	SessionRepo repositories.SessionRepository

	// Upstream client and controllers
	Upstream         *upstream.Client
	AuthController   *authController.AuthController
	SearchController *searchController.SearchController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	if _, err := db.Migrate(); err != nil {
		return &App{}, log.Err("failed to migrate database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	// Initialize services
	transactionService := services.NewTransactionService(db)
	cacheInvalidationService := services.NewCacheInvalidationService(db, eventBus)

	// Initialize repositories
	sessionRepo := repositories.NewSessionRepository(db, transactionService)

	// Initialize upstream client and controllers
	upstreamClient := upstream.New(config)
	authController := authController.New(eventBus, sessionRepo, upstreamClient, config)
	searchController := searchController.New(eventBus, upstreamClient, db.Cache.Search)

	middleware := middleware.New(config, sessionRepo)

	websocket, err := websockets.New(db, eventBus, config)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:                 db,
		Config:                   config,
		Middleware:               middleware,
		TransactionService:       transactionService,
		CacheInvalidationService: cacheInvalidationService,
		SessionRepo:              sessionRepo,
		Upstream:                 upstreamClient,
		AuthController:           authController,
		SearchController:         searchController,
		Websocket:                websocket,
		EventBus:                 eventBus,
	}

	if err := app.validate(); err != nil {
		return &App{}, err
	}

	app.restoreSession()

	return app, nil
}

// restoreSession runs the one startup read of the persisted session store,
// purging any corrupt pair it finds. Guarded routes report loading until it
// finishes.
func (a *App) restoreSession() {
	log := logger.New("app").Function("restoreSession")

	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	defer cancel()

	session, err := a.SessionRepo.Restore(ctx)
	switch {
	case err != nil:
		log.Er("session restore failed, continuing logged out", err)
	case session == nil:
		log.Info("No persisted session, starting logged out")
	default:
		if user, userErr := session.User(); userErr == nil {
			log.Info("Restored persisted session", "username", user.Username, "role", user.Role)
		}
	}

	a.Middleware.SetReady()
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
		a.Websocket,
		a.EventBus,
		a.TransactionService,
		a.CacheInvalidationService,
		a.Upstream,
		a.AuthController,
		a.SearchController,
		a.SessionRepo,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Websocket != nil {
		a.Websocket.Close()
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
