package readmodel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RangaDM/shopfront/component"
)

// Compile-time interface checks.
var (
	_ component.Component = (*ProductsComponent)(nil)
	_ component.Component = (*NotificationsComponent)(nil)
)

// ProductsComponent loads the catalog view once at startup. The view has no
// timer; later refreshes happen on demand.
type ProductsComponent struct {
	view *Products
}

// NewProductsComponent wraps the products view in a lifecycle component.
func NewProductsComponent(view *Products) *ProductsComponent {
	return &ProductsComponent{view: view}
}

// Name implements component.Component.
func (c *ProductsComponent) Name() string {
	return "products-readmodel"
}

// View returns the underlying products view.
func (c *ProductsComponent) View() *Products {
	return c.view
}

// Start attempts the initial catalog load. A failed load does not abort
// startup; the view starts empty and fills on a later refresh.
func (c *ProductsComponent) Start(ctx context.Context) error {
	_ = c.view.Refresh(ctx)
	return nil
}

// Stop implements component.Component.
func (c *ProductsComponent) Stop(ctx context.Context) error {
	return nil
}

// Health reports degraded until the first successful load.
func (c *ProductsComponent) Health(ctx context.Context) component.Health {
	if c.view.RefreshedAt().IsZero() {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: "catalog never loaded",
		}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d products cached", len(c.view.Get())),
	}
}

// Describe implements component.Describable.
func (c *ProductsComponent) Describe() component.Description {
	return component.Description{
		Name:    "Products View",
		Type:    "readmodel",
		Details: "inventory catalog, refreshed on demand",
	}
}

// NotificationsComponent keeps the notification feed fresh on its own timer.
type NotificationsComponent struct {
	view     *Notifications
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewNotificationsComponent wraps the notifications view in a lifecycle
// component polling on the configured interval.
func NewNotificationsComponent(view *Notifications, cfg Config) *NotificationsComponent {
	cfg.ApplyDefaults()
	return &NotificationsComponent{view: view, interval: cfg.NotificationsInterval}
}

// Name implements component.Component.
func (c *NotificationsComponent) Name() string {
	return "notifications-readmodel"
}

// View returns the underlying notifications view.
func (c *NotificationsComponent) View() *Notifications {
	return c.view
}

// Start attempts the initial load and launches the refresh loop. A failed
// load does not abort startup.
func (c *NotificationsComponent) Start(ctx context.Context) error {
	_ = c.view.Refresh(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	done := make(chan struct{})
	c.done = done
	go c.run(runCtx, done)
	return nil
}

func (c *NotificationsComponent) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.view.Refresh(ctx)
		}
	}
}

// Stop halts the refresh loop.
func (c *NotificationsComponent) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Health reports degraded until the first successful load.
func (c *NotificationsComponent) Health(ctx context.Context) component.Health {
	if c.view.RefreshedAt().IsZero() {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: "feed never loaded",
		}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d notifications cached", len(c.view.Get())),
	}
}

// Describe implements component.Describable.
func (c *NotificationsComponent) Describe() component.Description {
	return component.Description{
		Name:    "Notifications View",
		Type:    "readmodel",
		Details: fmt.Sprintf("notification feed, refreshed every %s", c.interval),
	}
}
