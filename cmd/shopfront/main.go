package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/RangaDM/shopfront/api"
	"github.com/RangaDM/shopfront/auth"
	"github.com/RangaDM/shopfront/bootstrap"
	"github.com/RangaDM/shopfront/component"
	"github.com/RangaDM/shopfront/config"
	"github.com/RangaDM/shopfront/health"
	"github.com/RangaDM/shopfront/observability"
	"github.com/RangaDM/shopfront/orchestrator"
	"github.com/RangaDM/shopfront/readmodel"
	"github.com/RangaDM/shopfront/registry"
	"github.com/RangaDM/shopfront/ringlog"
	"github.com/RangaDM/shopfront/server"
	"github.com/RangaDM/shopfront/server/middleware"
	"github.com/RangaDM/shopfront/util"
	"github.com/RangaDM/shopfront/version"
)

const serviceName = "shopfront"

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ---------------------------------------------------------------
	// Configuration
	// ---------------------------------------------------------------
	var cfg config.AppConfig
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		return err
	}
	if cfg.Version == "" {
		cfg.Version = version.GetVersionInfo().Version
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	log := app.Logger

	// ---------------------------------------------------------------
	// Telemetry (optional; nil provider is a no-op)
	// ---------------------------------------------------------------
	provider, err := observability.Init(ctx, cfg.Observability, serviceName, cfg.Version, cfg.Environment)
	if err != nil {
		return fmt.Errorf("observability init: %w", err)
	}
	var metrics *observability.Metrics
	if provider != nil {
		metrics = provider.Metrics()
		app.OnStop(provider.Shutdown)
	}

	// ---------------------------------------------------------------
	// Interaction log, shared by every component
	// ---------------------------------------------------------------
	ring := ringlog.New(cfg.InteractionLog)

	// ---------------------------------------------------------------
	// Service registry
	// ---------------------------------------------------------------
	reg, err := registry.New(cfg.Registry, ring, log)
	if err != nil {
		return err
	}

	// ---------------------------------------------------------------
	// Health monitor
	// ---------------------------------------------------------------
	monitor, err := health.New(cfg.Health, reg, ring, log)
	if err != nil {
		return err
	}

	// ---------------------------------------------------------------
	// Read models
	// ---------------------------------------------------------------
	products, err := readmodel.NewProducts(cfg.ReadModels, reg, ring, log)
	if err != nil {
		return err
	}
	notifications, err := readmodel.NewNotifications(cfg.ReadModels, reg, ring, log)
	if err != nil {
		return err
	}

	// ---------------------------------------------------------------
	// Order orchestrator
	// ---------------------------------------------------------------
	orders, err := orchestrator.New(cfg.Orchestrator, reg, monitor, products, ring, log, metrics)
	if err != nil {
		return err
	}

	// ---------------------------------------------------------------
	// HTTP server and API
	// ---------------------------------------------------------------
	authSvc, err := auth.New(cfg.Auth)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	srv.RegisterSystemEndpoints(serviceName, app.Ready, func(ctx context.Context) []component.Health {
		return app.Components.HealthAll(ctx)
	})

	handler, err := api.NewHandler(api.Deps{
		Registry:      reg,
		Health:        monitor,
		Products:      products,
		Notifications: notifications,
		Orders:        orders,
		Ring:          ring,
		Log:           log,
		Metrics:       metrics,
		ProxyTimeout:  cfg.Orchestrator.RequestTimeout,
	})
	if err != nil {
		return err
	}

	var adminAuth gin.HandlerFunc
	if validate := authSvc.ValidatorFunc(); validate != nil {
		adminAuth = middleware.Auth(middleware.AuthConfig{TokenValidator: validate})
	}
	handler.RegisterRoutes(srv.GinEngine(), adminAuth)

	// ---------------------------------------------------------------
	// Component registration. Order matters: the registry starts first
	// so addresses are resolvable before anything probes or prefetches,
	// and the server starts last so no request arrives early.
	// ---------------------------------------------------------------
	for _, c := range []component.Component{
		registry.NewComponent(reg),
		health.NewComponent(monitor),
		readmodel.NewProductsComponent(products),
		readmodel.NewNotificationsComponent(notifications, cfg.ReadModels),
		server.NewComponent(srv),
	} {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}

	addSummaryNotes(app, &cfg)

	return app.Run(ctx)
}

func addSummaryNotes(app *bootstrap.App, cfg *config.AppConfig) {
	app.Summary.AddNote(fmt.Sprintf("registry source: %s", registry.NormalizeSource(cfg.Registry.Source)))
	switch cfg.Auth.Mode {
	case auth.ModeJWT:
		app.Summary.AddNote(fmt.Sprintf("admin auth: jwt (secret %s)", util.MaskSecret(cfg.Auth.Secret, 4)))
	case auth.ModeToken:
		app.Summary.AddNote("admin auth: static token")
	default:
		app.Summary.AddNote("admin auth: disabled")
	}
	if cfg.Observability.Enabled {
		app.Summary.AddNote(fmt.Sprintf("telemetry: otlp -> %s", cfg.Observability.Endpoint))
	}
}
