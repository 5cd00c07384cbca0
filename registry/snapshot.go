package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/RangaDM/shopfront/errors"
)

// Source identifies where a snapshot's addresses came from.
type Source string

const (
	// SourceRemote marks a snapshot built from the authoritative document.
	SourceRemote Source = "remote"
	// SourceFallback marks a snapshot built from static configuration.
	SourceFallback Source = "fallback"
)

// Snapshot is an immutable view of resolved service addresses. Snapshots are
// swapped atomically as whole values and never mutated in place; readers may
// hold one across several operations to see a consistent address set.
type Snapshot struct {
	// FetchedAt is when this snapshot was built.
	FetchedAt time.Time
	// Source tags how the addresses were obtained.
	Source Source

	services map[string]string
}

// NewSnapshot builds a snapshot from a name→address map. The map is copied.
func NewSnapshot(services map[string]string, source Source) *Snapshot {
	copied := make(map[string]string, len(services))
	for k, v := range services {
		copied[k] = v
	}
	return &Snapshot{
		FetchedAt: time.Now(),
		Source:    source,
		services:  copied,
	}
}

// Resolve returns the base URL for a logical service name.
func (s *Snapshot) Resolve(name string) (string, error) {
	addr, ok := s.services[name]
	if !ok {
		return "", errors.UnknownService(name)
	}
	return addr, nil
}

// Services returns a copy of the name→address map.
func (s *Snapshot) Services() map[string]string {
	out := make(map[string]string, len(s.services))
	for k, v := range s.services {
		out[k] = v
	}
	return out
}

// Len returns the number of services in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.services)
}

// NormalizeAddress turns a document value into a base URL. Values may be a
// full URL (used as-is), a host:port (given an http scheme), or a bare host
// (given an http scheme and the service's default port).
func NormalizeAddress(value string, defaultPort int) string {
	value = strings.TrimSpace(value)
	value = strings.TrimRight(value, "/")
	if strings.Contains(value, "://") {
		return value
	}
	if strings.Contains(value, ":") {
		return "http://" + value
	}
	if defaultPort > 0 {
		return fmt.Sprintf("http://%s:%d", value, defaultPort)
	}
	return "http://" + value
}
