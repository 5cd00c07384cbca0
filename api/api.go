// Package api implements the gateway's HTTP handlers.
//
// Handlers are thin: they bind and validate input, call the owning component
// (registry client, read models, orchestrator), and translate results into
// the shared response envelopes. All domain behavior lives in the components;
// nothing here keeps state of its own.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RangaDM/shopfront/health"
	"github.com/RangaDM/shopfront/httpclient"
	"github.com/RangaDM/shopfront/logger"
	"github.com/RangaDM/shopfront/observability"
	"github.com/RangaDM/shopfront/orchestrator"
	"github.com/RangaDM/shopfront/readmodel"
	"github.com/RangaDM/shopfront/registry"
	"github.com/RangaDM/shopfront/ringlog"
)

// RegistryClient is the slice of the registry client the handlers use.
type RegistryClient interface {
	Current() *registry.Snapshot
	Resolve(name string) (string, error)
	Refresh(ctx context.Context) error
}

// StatusSource supplies per-service health statuses.
type StatusSource interface {
	Statuses() map[string]health.Status
}

// ProductView is the cached catalog the handlers serve.
type ProductView interface {
	Get() []readmodel.Product
	RefreshedAt() time.Time
	Refresh(ctx context.Context) error
}

// NotificationView is the cached notification feed the handlers serve.
type NotificationView interface {
	Get() []readmodel.Notification
	RefreshedAt() time.Time
}

// OrderPlacer runs the order placement saga.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, draft orchestrator.OrderDraft) (*orchestrator.OrderResult, error)
}

// Deps wires the handlers to the gateway's components.
type Deps struct {
	Registry      RegistryClient
	Health        StatusSource
	Products      ProductView
	Notifications NotificationView
	Orders        OrderPlacer
	Ring          *ringlog.Log
	Log           *logger.Logger

	// Metrics is optional; nil skips operation recording.
	Metrics *observability.Metrics

	// ProxyTimeout bounds pass-through calls to backend services
	// (default 10s).
	ProxyTimeout time.Duration
}

// Handler serves the gateway API.
type Handler struct {
	registry      RegistryClient
	health        StatusSource
	products      ProductView
	notifications NotificationView
	orders        OrderPlacer
	ring          *ringlog.Log
	httpc         *httpclient.Client
	log           *logger.Logger
	metrics       *observability.Metrics
}

// NewHandler creates the API handler set.
func NewHandler(deps Deps) (*Handler, error) {
	switch {
	case deps.Registry == nil:
		return nil, errors.New("api: registry client is required")
	case deps.Health == nil:
		return nil, errors.New("api: health source is required")
	case deps.Products == nil || deps.Notifications == nil:
		return nil, errors.New("api: read models are required")
	case deps.Orders == nil:
		return nil, errors.New("api: order placer is required")
	case deps.Ring == nil:
		return nil, errors.New("api: ring log is required")
	case deps.Log == nil:
		return nil, errors.New("api: logger is required")
	}

	if deps.ProxyTimeout == 0 {
		deps.ProxyTimeout = 10 * time.Second
	}
	httpc, err := httpclient.New(httpclient.Config{Timeout: deps.ProxyTimeout})
	if err != nil {
		return nil, err
	}

	return &Handler{
		registry:      deps.Registry,
		health:        deps.Health,
		products:      deps.Products,
		notifications: deps.Notifications,
		orders:        deps.Orders,
		ring:          deps.Ring,
		httpc:         httpc,
		log:           deps.Log.WithComponent("api"),
		metrics:       deps.Metrics,
	}, nil
}

// RegisterRoutes mounts the gateway API on the engine. adminAuth gates the
// clearing and forced-refresh endpoints; nil leaves them open.
func (h *Handler) RegisterRoutes(engine *gin.Engine, adminAuth gin.HandlerFunc) {
	api := engine.Group("/api")
	api.GET("/products", h.ListProducts)
	api.POST("/products/refresh", h.RefreshProducts)
	api.GET("/orders", h.ListOrders)
	api.POST("/orders", h.PlaceOrder)
	api.GET("/notifications", h.ListNotifications)
	api.GET("/services", h.ListServices)
	api.GET("/log", h.GetLog)
	api.GET("/log/export", h.ExportLog)

	admin := engine.Group("/api")
	if adminAuth != nil {
		admin.Use(adminAuth)
	}
	admin.DELETE("/log", h.ClearLog)
	admin.POST("/registry/refresh", h.RefreshRegistry)
}

// recordOperation reports an operation outcome to the metrics pipeline.
func (h *Handler) recordOperation(ctx context.Context, service, operation string, start time.Time, err error) {
	if h.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.metrics.RecordOperation(ctx, service, operation, status, time.Since(start))
}
