// Package health tracks the reachability of backend services.
//
// The monitor probes each service in the current registry snapshot with a
// GET on its health endpoint. A service starts as unknown, turns online on
// its first 2xx response or offline on its first failure, and then flips
// between online and offline as later probes succeed or fail. It never
// returns to unknown while the monitor runs.
//
// Probes in one sweep run concurrently and are isolated: a hung or failing
// probe affects only its own service's state. Every probe attempt is
// recorded in the interaction log, first as a request entry, then as a
// response or error entry naming any state transition.
package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/RangaDM/shopfront/httpclient"
	"github.com/RangaDM/shopfront/logger"
	"github.com/RangaDM/shopfront/registry"
	"github.com/RangaDM/shopfront/ringlog"
)

// State is the reachability state of a service.
type State string

const (
	// StateUnknown means the service has never been probed.
	StateUnknown State = "unknown"
	// StateOnline means the last probe succeeded.
	StateOnline State = "online"
	// StateOffline means the last probe failed.
	StateOffline State = "offline"
)

// Status is a point-in-time view of one service's reachability.
type Status struct {
	// State is the current reachability state.
	State State `json:"state"`
	// CheckedAt is when the service was last probed.
	CheckedAt time.Time `json:"checked_at"`
	// Err describes the last probe failure, empty when online.
	Err string `json:"error,omitempty"`
}

// SnapshotSource supplies the registry snapshot to probe against.
type SnapshotSource interface {
	Current() *registry.Snapshot
}

// Monitor probes backend services and tracks their reachability.
type Monitor struct {
	config Config
	source SnapshotSource
	httpc  *httpclient.Client
	ring   *ringlog.Log
	log    *logger.Logger

	mu       sync.RWMutex
	statuses map[string]Status
}

// New creates a health monitor reading addresses from source.
func New(cfg Config, source SnapshotSource, ring *ringlog.Log, log *logger.Logger) (*Monitor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpc, err := httpclient.New(httpclient.Config{Timeout: cfg.ProbeTimeout})
	if err != nil {
		return nil, err
	}

	return &Monitor{
		config:   cfg,
		source:   source,
		httpc:    httpc,
		ring:     ring,
		log:      log.WithComponent("health"),
		statuses: make(map[string]Status),
	}, nil
}

// CheckAll probes every service in the current snapshot concurrently and
// records the outcomes. It never fails; probe failures turn into offline
// statuses, not errors.
func (m *Monitor) CheckAll(ctx context.Context) {
	snap := m.source.Current()
	if snap == nil {
		m.log.Warn("health sweep skipped, no registry snapshot")
		return
	}

	services := snap.Services()
	var wg sync.WaitGroup
	for name, addr := range services {
		wg.Add(1)
		go func(name, addr string) {
			defer wg.Done()
			m.probe(ctx, name, addr)
		}(name, addr)
	}
	wg.Wait()
}

// probe performs one health check and updates the service's status.
func (m *Monitor) probe(ctx context.Context, name, addr string) {
	m.ring.Record(ringlog.DirectionRequest, name,
		fmt.Sprintf("health probe GET %s%s", addr, m.config.Path))

	probeCtx, cancel := context.WithTimeout(ctx, m.config.ProbeTimeout)
	defer cancel()

	_, err := m.httpc.Do(probeCtx, httpclient.Request{
		Method: http.MethodGet,
		Path:   addr + m.config.Path,
	})

	newState := StateOnline
	errText := ""
	if err != nil {
		newState = StateOffline
		errText = err.Error()
	}

	m.mu.Lock()
	old, seen := m.statuses[name]
	m.statuses[name] = Status{State: newState, CheckedAt: time.Now(), Err: errText}
	m.mu.Unlock()

	oldState := StateUnknown
	if seen {
		oldState = old.State
	}

	if err != nil {
		m.ring.Record(ringlog.DirectionError, name,
			fmt.Sprintf("health probe failed: %v (%s)", err, describeTransition(oldState, newState)))
		m.log.Warn("health probe failed", logger.Fields(
			logger.FieldService, name,
			logger.FieldState, string(newState),
			logger.FieldError, errText,
		))
		return
	}

	m.ring.Record(ringlog.DirectionResponse, name,
		fmt.Sprintf("health probe succeeded (%s)", describeTransition(oldState, newState)))
	m.log.Debug("health probe succeeded", logger.Fields(
		logger.FieldService, name,
		logger.FieldState, string(newState),
	))
}

// describeTransition renders a state change for the interaction log.
func describeTransition(old, cur State) string {
	if old == cur {
		return string(cur)
	}
	return fmt.Sprintf("%s -> %s", old, cur)
}

// Status returns the status of one service. The second return is false if
// the service has never been probed; the status then reports unknown.
func (m *Monitor) Status(name string) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.statuses[name]
	if !ok {
		return Status{State: StateUnknown}, false
	}
	return s, true
}

// Statuses returns a copy of the status table.
func (m *Monitor) Statuses() map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Status, len(m.statuses))
	for k, v := range m.statuses {
		out[k] = v
	}
	return out
}

// Online reports whether a service may be called. Only a known offline
// service returns false; an unprobed service is given the benefit of the
// doubt.
func (m *Monitor) Online(name string) bool {
	s, ok := m.Status(name)
	return !ok || s.State != StateOffline
}
