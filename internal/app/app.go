package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Les2015/auto-repair-shop/internal/config"
	"github.com/Les2015/auto-repair-shop/internal/controller"
	"github.com/Les2015/auto-repair-shop/internal/customer"
	"github.com/Les2015/auto-repair-shop/internal/db"
	"github.com/Les2015/auto-repair-shop/internal/logger"
	"github.com/Les2015/auto-repair-shop/internal/mechanics"
	"github.com/Les2015/auto-repair-shop/internal/vehicle"
	"github.com/Les2015/auto-repair-shop/internal/workorder"
)

type App struct {
	config *config.Config
	router chi.Router
	server *http.Server
	logger *slog.Logger
}

func New() *App {
	slogLogger := logger.NewWithServiceContext("auto-repair-shop", "1.0.0")

	// Set as default logger so slog.Info() uses the same format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	database := db.New(cfg.Database)

	ctx := context.Background()
	if err := db.RunMigrations(ctx, database,
		(*customer.Row)(nil), (*vehicle.Row)(nil), (*workorder.Row)(nil)); err != nil {
		log.Fatal("failed to run migrations:", err)
	}

	roster, err := mechanics.Load(cfg.Shop.MechanicsFile)
	if err != nil {
		slogLogger.Warn("failed to load mechanic roster", "file", cfg.Shop.MechanicsFile, "error", err)
	}
	slogLogger.Info("mechanic roster loaded", "mechanics", len(roster))

	customers := customer.NewService(customer.NewRepository(database), slogLogger)
	vehicles := vehicle.NewService(vehicle.NewRepository(database), customers, slogLogger)
	workorders := workorder.NewService(workorder.NewRepository(database), vehicles, slogLogger)

	ctrl := controller.New(customers, vehicles, workorders, roster, slogLogger)
	ctrl.Routes(app.router)
	app.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	return a.server.Shutdown(ctx)
}
