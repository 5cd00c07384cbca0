package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/RangaDM/shopfront/errors"
	"github.com/RangaDM/shopfront/logger"
	"github.com/RangaDM/shopfront/ringlog"
)

func newTestClient(t *testing.T, cfg Config) (*Client, *ringlog.Log) {
	t.Helper()
	ring := ringlog.New(ringlog.Config{Capacity: 50})
	c, err := New(cfg, ring, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c, ring
}

func TestClient_Refresh_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"order-service": "10.0.0.5",
			"inventory": "10.0.0.6:9002",
			"notification": "https://notify.example.com"
		}`))
	}))
	defer srv.Close()

	c, ring := newTestClient(t, Config{
		Source: srv.URL,
		Services: map[string]ServiceEntry{
			"order":        {RemoteKey: "order-service", Port: 8001},
			"inventory":    {Port: 8002},
			"notification": {Port: 8003},
		},
	})

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := c.Current()
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if snap.Source != SourceRemote {
		t.Errorf("expected remote source, got %s", snap.Source)
	}

	tests := []struct {
		name string
		want string
	}{
		{"order", "http://10.0.0.5:8001"},
		{"inventory", "http://10.0.0.6:9002"},
		{"notification", "https://notify.example.com"},
	}
	for _, tt := range tests {
		addr, err := c.Resolve(tt.name)
		if err != nil {
			t.Errorf("Resolve(%q): unexpected error: %v", tt.name, err)
			continue
		}
		if addr != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.name, addr, tt.want)
		}
	}

	entries := ring.Snapshot()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Direction != ringlog.DirectionSync {
		t.Errorf("expected sync entry, got %s", entries[0].Direction)
	}
	if entries[0].Participant != Participant {
		t.Errorf("expected participant %q, got %q", Participant, entries[0].Participant)
	}
}

func TestClient_Refresh_FallbackOnFirstFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer srv.Close()

	c, ring := newTestClient(t, Config{
		Source: srv.URL,
		Services: map[string]ServiceEntry{
			"order": {Port: 8001, Fallback: "localhost"},
		},
	})

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := c.Current()
	if snap == nil {
		t.Fatal("expected fallback snapshot")
	}
	if snap.Source != SourceFallback {
		t.Errorf("expected fallback source, got %s", snap.Source)
	}

	addr, err := c.Resolve("order")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr != "http://localhost:8001" {
		t.Errorf("expected http://localhost:8001, got %q", addr)
	}

	entries := ring.Snapshot()
	if len(entries) != 1 || entries[0].Direction != ringlog.DirectionError {
		t.Errorf("expected a single error entry, got %+v", entries)
	}
}

func TestClient_Refresh_KeepsSnapshotOnLaterFailure(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(500)
			return
		}
		w.Write([]byte(`{"order": "10.0.0.5"}`))
	}))
	defer srv.Close()

	c, ring := newTestClient(t, Config{
		Source: srv.URL,
		Services: map[string]ServiceEntry{
			"order": {Port: 8001, Fallback: "localhost"},
		},
	})

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := c.Current()

	fail.Store(true)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := c.Current()
	if second != first {
		t.Error("expected the previous snapshot to be kept on failure")
	}
	if second.Source != SourceRemote {
		t.Errorf("expected remote source preserved, got %s", second.Source)
	}

	entries := ring.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Direction != ringlog.DirectionError {
		t.Errorf("expected newest entry to be error, got %s", entries[0].Direction)
	}
}

func TestClient_Refresh_NoFallbackFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, Config{
		Source: srv.URL,
		Services: map[string]ServiceEntry{
			"order": {Port: 8001},
		},
	})

	err := c.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.ErrCodeDiscoveryUnavailable) {
		t.Errorf("expected DISCOVERY_UNAVAILABLE, got %v", err)
	}
	if c.Current() != nil {
		t.Error("expected no snapshot")
	}
}

func TestClient_Refresh_MalformedDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, Config{
		Source: srv.URL,
		Services: map[string]ServiceEntry{
			"order": {Port: 8001, Fallback: "localhost"},
		},
	})

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Current().Source; got != SourceFallback {
		t.Errorf("expected fallback source, got %s", got)
	}
}

func TestClient_Refresh_DocumentMissingAllServices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"payments": "10.0.0.9"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, Config{
		Source: srv.URL,
		Services: map[string]ServiceEntry{
			"order": {Port: 8001, Fallback: "localhost"},
		},
	})

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Current().Source; got != SourceFallback {
		t.Errorf("expected fallback source, got %s", got)
	}
}

func TestClient_Refresh_RecoversToRemote(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(503)
			return
		}
		w.Write([]byte(`{"order": "10.0.0.5"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, Config{
		Source: srv.URL,
		Services: map[string]ServiceEntry{
			"order": {Port: 8001, Fallback: "localhost"},
		},
	})

	c.Refresh(context.Background())
	if got := c.Current().Source; got != SourceFallback {
		t.Fatalf("expected fallback source, got %s", got)
	}

	fail.Store(false)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Current().Source; got != SourceRemote {
		t.Errorf("expected remote source after recovery, got %s", got)
	}
}

func TestClient_Refresh_NewSnapshotSupersedes(t *testing.T) {
	var second atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if second.Load() {
			w.Write([]byte(`{"order": "10.0.0.5"}`))
			return
		}
		w.Write([]byte(`{"order": "10.0.0.5", "inventory": "10.0.0.6"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, Config{
		Source: srv.URL,
		Services: map[string]ServiceEntry{
			"order":     {Port: 8001},
			"inventory": {Port: 8002},
		},
	})

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Resolve("inventory"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The next document drops inventory; snapshots replace, never merge.
	second.Store(true)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Resolve("order"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	_, err := c.Resolve("inventory")
	if !errors.HasCode(err, errors.ErrCodeUnknownService) {
		t.Errorf("expected UNKNOWN_SERVICE for dropped service, got %v", err)
	}
}

func TestClient_Resolve_NoSnapshot(t *testing.T) {
	c, _ := newTestClient(t, Config{
		Source: "http://unused",
		Services: map[string]ServiceEntry{
			"order": {Port: 8001},
		},
	})

	_, err := c.Resolve("order")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.ErrCodeDiscoveryUnavailable) {
		t.Errorf("expected DISCOVERY_UNAVAILABLE, got %v", err)
	}
}

func TestClient_Resolve_UnknownService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order": "10.0.0.5"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, Config{
		Source: srv.URL,
		Services: map[string]ServiceEntry{
			"order": {Port: 8001},
		},
	})
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := c.Resolve("payments")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.ErrCodeUnknownService) {
		t.Errorf("expected UNKNOWN_SERVICE, got %v", err)
	}
}

func TestNew_NormalizesSource(t *testing.T) {
	c, _ := newTestClient(t, Config{
		Source: "https://github.com/RangaDM/Cloud-Native-project",
		Services: map[string]ServiceEntry{
			"order": {Port: 8001},
		},
	})
	want := "https://raw.githubusercontent.com/RangaDM/Cloud-Native-project/main/service_config.json"
	if got := c.Config().Source; got != want {
		t.Errorf("expected normalized source %q, got %q", want, got)
	}
}
