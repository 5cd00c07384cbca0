package health

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

// Component runs the health monitor on its probe timer. Start performs one
// blocking sweep so statuses are populated before the API starts serving.
type Component struct {
	monitor *Monitor

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewComponent wraps a monitor in a lifecycle component.
func NewComponent(monitor *Monitor) *Component {
	return &Component{monitor: monitor}
}

// Name implements component.Component.
func (c *Component) Name() string {
	return "health-monitor"
}

// Monitor returns the underlying monitor.
func (c *Component) Monitor() *Monitor {
	return c.monitor
}

// Start runs the first sweep and launches the periodic probe loop.
func (c *Component) Start(ctx context.Context) error {
	c.monitor.CheckAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	done := make(chan struct{})
	c.done = done
	go c.run(runCtx, done)
	return nil
}

func (c *Component) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.monitor.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.monitor.CheckAll(ctx)
		}
	}
}

// Stop halts the probe loop.
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

// Health summarizes the backend statuses. The monitor itself is healthy as
// long as it runs; offline backends show up in the message, not the status.
func (c *Component) Health(ctx context.Context) component.Health {
	var online, offline int
	for _, s := range c.monitor.Statuses() {
		switch s.State {
		case StateOnline:
			online++
		case StateOffline:
			offline++
		}
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d online, %d offline", online, offline),
	}
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Health Monitor",
		Type:    "monitor",
		Details: fmt.Sprintf("probe %s every %s", c.monitor.config.Path, c.monitor.config.Interval),
	}
}
