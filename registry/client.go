// Package registry resolves logical service names to addresses.
//
// Addresses come from an authoritative JSON document fetched over HTTP: a
// flat object mapping service keys to addresses. Each successful fetch
// produces an immutable Snapshot that is swapped in atomically; a failed
// fetch never disturbs the snapshot already in place. If no snapshot has
// ever been established, the statically configured fallback addresses are
// installed instead, so a dead config endpoint does not take the gateway
// down with it.
//
// Resolution is a pure map lookup against the current snapshot and never
// triggers I/O. Callers that need a consistent view across several lookups
// capture the snapshot once with Current and resolve against it.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/RangaDM/shopfront/errors"
	"github.com/RangaDM/shopfront/httpclient"
	"github.com/RangaDM/shopfront/logger"
	"github.com/RangaDM/shopfront/ringlog"
)

// Participant is the name registry operations are logged under in the
// interaction log.
const Participant = "registry"

// Client fetches the authoritative service document and serves snapshots.
type Client struct {
	config   Config
	httpc    *httpclient.Client
	ring     *ringlog.Log
	log      *logger.Logger
	snapshot atomic.Pointer[Snapshot]
}

// New creates a registry client. The ring log receives one entry per refresh
// outcome; the source URL is normalized before use.
func New(cfg Config, ring *ringlog.Log, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Source = NormalizeSource(cfg.Source)

	httpc, err := httpclient.New(httpclient.Config{Timeout: cfg.FetchTimeout})
	if err != nil {
		return nil, err
	}

	return &Client{
		config: cfg,
		httpc:  httpc,
		ring:   ring,
		log:    log.WithComponent("registry"),
	}, nil
}

// Config returns the client's configuration after normalization.
func (c *Client) Config() Config {
	return c.config
}

// Current returns the current snapshot, or nil if none has been established.
func (c *Client) Current() *Snapshot {
	return c.snapshot.Load()
}

// Resolve returns the base URL for a logical service name from the current
// snapshot. It never triggers I/O.
func (c *Client) Resolve(name string) (string, error) {
	snap := c.snapshot.Load()
	if snap == nil {
		return "", errors.DiscoveryUnavailable(nil)
	}
	return snap.Resolve(name)
}

// Refresh fetches the authoritative document and swaps in a new snapshot.
//
// On failure the existing snapshot is left untouched. If no snapshot exists
// yet, the configured fallback addresses are installed instead. Refresh only
// returns an error when it cannot leave any snapshot in place.
func (c *Client) Refresh(ctx context.Context) error {
	services, err := c.fetch(ctx)
	if err == nil {
		snap := NewSnapshot(services, SourceRemote)
		c.snapshot.Store(snap)
		c.ring.Record(ringlog.DirectionSync, Participant,
			fmt.Sprintf("service registry refreshed from remote (%d services)", snap.Len()))
		c.log.Info("registry refreshed", logger.Fields(
			logger.FieldSource, string(SourceRemote),
			"services", snap.Len(),
		))
		return nil
	}

	if c.snapshot.Load() != nil {
		c.ring.Record(ringlog.DirectionError, Participant,
			fmt.Sprintf("registry refresh failed: %v; keeping current snapshot", err))
		c.log.Warn("registry refresh failed, keeping current snapshot", logger.ErrorFields("refresh", err))
		return nil
	}

	fallback := c.fallbackServices()
	if len(fallback) > 0 {
		snap := NewSnapshot(fallback, SourceFallback)
		c.snapshot.Store(snap)
		c.ring.Record(ringlog.DirectionError, Participant,
			fmt.Sprintf("registry refresh failed: %v; using fallback addresses (%d services)", err, snap.Len()))
		c.log.Warn("registry refresh failed, using fallback addresses", logger.ErrorFields("refresh", err))
		return nil
	}

	c.ring.Record(ringlog.DirectionError, Participant,
		fmt.Sprintf("registry refresh failed: %v; no fallback configured", err))
	c.log.Error("registry refresh failed and no fallback is configured", logger.ErrorFields("refresh", err))
	return errors.DiscoveryUnavailable(err)
}

// fetch retrieves and decodes the document, returning normalized addresses
// keyed by logical name.
func (c *Client) fetch(ctx context.Context) (map[string]string, error) {
	resp, err := c.httpc.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   c.config.Source,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching service document: %w", err)
	}

	var doc map[string]string
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return nil, fmt.Errorf("parsing service document: %w", err)
	}

	services := make(map[string]string, len(c.config.Services))
	for name, entry := range c.config.Services {
		value, ok := doc[c.config.remoteKey(name)]
		if !ok {
			continue
		}
		services[name] = NormalizeAddress(value, entry.Port)
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("service document contains none of the configured services")
	}
	return services, nil
}

// fallbackServices builds the static address table from configuration.
func (c *Client) fallbackServices() map[string]string {
	out := make(map[string]string)
	for name, entry := range c.config.Services {
		if entry.Fallback == "" {
			continue
		}
		out[name] = NormalizeAddress(entry.Fallback, entry.Port)
	}
	return out
}
