package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RangaDM/shopfront/component"
)

// Compile-time interface checks.
var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component runs the registry client on its refresh timer. Start performs
// one blocking refresh so that components registered after it can resolve
// addresses immediately.
type Component struct {
	client *Client

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewComponent wraps a registry client in a lifecycle component.
func NewComponent(client *Client) *Component {
	return &Component{client: client}
}

// Name implements component.Component.
func (c *Component) Name() string {
	return "registry"
}

// Client returns the underlying registry client.
func (c *Component) Client() *Client {
	return c.client
}

// Start performs the initial refresh and launches the periodic refresh loop.
// It fails only when neither the remote document nor a fallback table can
// produce a snapshot.
func (c *Component) Start(ctx context.Context) error {
	if err := c.client.Refresh(ctx); err != nil {
		return fmt.Errorf("initial registry refresh: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	done := make(chan struct{})
	c.done = done
	go c.run(runCtx, done)
	return nil
}

// run refreshes on the configured interval until the context is canceled.
// A failed tick keeps the previous snapshot; the next tick tries again.
func (c *Component) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.client.config.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = c.client.Refresh(ctx)
		}
	}
}

// Stop halts the refresh loop.
func (c *Component) Stop(ctx context.Context) error {
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

// Health reports degraded while serving fallback addresses and unhealthy
// when no snapshot exists.
func (c *Component) Health(ctx context.Context) component.Health {
	snap := c.client.Current()
	if snap == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "no registry snapshot",
		}
	}
	if snap.Source == SourceFallback {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusDegraded,
			Message: fmt.Sprintf("serving %d fallback addresses", snap.Len()),
		}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d services from remote", snap.Len()),
	}
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Service Registry",
		Type:    "registry",
		Details: fmt.Sprintf("source %s, refresh every %s", c.client.config.Source, c.client.config.RefreshInterval),
	}
}
