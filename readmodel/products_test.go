package readmodel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/RangaDM/shopfront/component"
	"github.com/RangaDM/shopfront/errors"
	"github.com/RangaDM/shopfront/logger"
	"github.com/RangaDM/shopfront/ringlog"
)

type stubResolver struct {
	addrs map[string]string
	err   error
}

func (r *stubResolver) Resolve(name string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	addr, ok := r.addrs[name]
	if !ok {
		return "", errors.UnknownService(name)
	}
	return addr, nil
}

const catalogPayload = `{
	"products": [
		{"product_id": "prod001", "name": "Laptop", "price": 999.99, "stock": 50, "category": "Electronics"},
		{"product_id": "prod002", "name": "Mouse", "price": 29.99, "stock": 100, "category": "Electronics"},
		{"product_id": "prod004", "name": "NoteBook", "price": 15, "stock": 1, "category": "Books"}
	]
}`

func newProductsView(t *testing.T, resolver AddressResolver) (*Products, *ringlog.Log) {
	t.Helper()
	ring := ringlog.New(ringlog.Config{Capacity: 50})
	p, err := NewProducts(Config{}, resolver, ring, logger.NewDefault("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p, ring
}

func TestProducts_Refresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("expected /products, got %s", r.URL.Path)
		}
		w.Write([]byte(catalogPayload))
	}))
	defer srv.Close()

	p, ring := newProductsView(t, &stubResolver{addrs: map[string]string{"inventory": srv.URL}})

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list := p.Get()
	if len(list) != 3 {
		t.Fatalf("expected 3 products, got %d", len(list))
	}
	if list[0].ID != "prod001" || list[0].Name != "Laptop" || list[0].Price != 999.99 || list[0].Stock != 50 {
		t.Errorf("unexpected first product: %+v", list[0])
	}
	if p.RefreshedAt().IsZero() {
		t.Error("expected RefreshedAt to be set")
	}

	entries := ring.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[1].Direction != ringlog.DirectionRequest || entries[0].Direction != ringlog.DirectionResponse {
		t.Errorf("expected request then response, got %s then %s", entries[1].Direction, entries[0].Direction)
	}
	if entries[0].Participant != "inventory" {
		t.Errorf("expected participant inventory, got %q", entries[0].Participant)
	}
}

func TestProducts_RefreshFailureKeepsStaleView(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(500)
			return
		}
		w.Write([]byte(catalogPayload))
	}))
	defer srv.Close()

	p, ring := newProductsView(t, &stubResolver{addrs: map[string]string{"inventory": srv.URL}})

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loadedAt := p.RefreshedAt()

	fail.Store(true)
	err := p.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.ErrCodeServiceUnavailable) {
		t.Errorf("expected SERVICE_UNAVAILABLE, got %v", err)
	}

	if len(p.Get()) != 3 {
		t.Errorf("expected stale view preserved, got %d products", len(p.Get()))
	}
	if !p.RefreshedAt().Equal(loadedAt) {
		t.Error("expected RefreshedAt unchanged after failed refresh")
	}

	newest := ring.Snapshot()[0]
	if newest.Direction != ringlog.DirectionError {
		t.Errorf("expected error entry, got %s", newest.Direction)
	}
}

func TestProducts_ResolveFailure(t *testing.T) {
	p, ring := newProductsView(t, &stubResolver{err: errors.DiscoveryUnavailable(nil)})

	if err := p.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	entries := ring.Snapshot()
	if len(entries) != 1 || entries[0].Direction != ringlog.DirectionError {
		t.Errorf("expected a single error entry, got %+v", entries)
	}
}

func TestProducts_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	p, _ := newProductsView(t, &stubResolver{addrs: map[string]string{"inventory": srv.URL}})

	if err := p.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(p.Get()) != 0 {
		t.Errorf("expected empty view, got %d products", len(p.Get()))
	}
}

func TestProducts_GetIsCopy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(catalogPayload))
	}))
	defer srv.Close()

	p, _ := newProductsView(t, &stubResolver{addrs: map[string]string{"inventory": srv.URL}})
	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list := p.Get()
	list[0].Name = "mutated"

	if p.Get()[0].Name != "Laptop" {
		t.Error("mutation of Get() result leaked into the view")
	}
}

func TestProductsComponent_StartLoadsCatalog(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(catalogPayload))
	}))
	defer srv.Close()

	p, _ := newProductsView(t, &stubResolver{addrs: map[string]string{"inventory": srv.URL}})
	comp := NewProductsComponent(p)

	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer comp.Stop(context.Background())

	if got := requests.Load(); got != 1 {
		t.Errorf("expected 1 fetch during start, got %d", got)
	}
	if h := comp.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after load, got %s", h.Status)
	}
}

func TestProductsComponent_StartToleratesFailure(t *testing.T) {
	p, _ := newProductsView(t, &stubResolver{err: errors.DiscoveryUnavailable(nil)})
	comp := NewProductsComponent(p)

	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("start must not fail on a failed initial load: %v", err)
	}
	if h := comp.Health(context.Background()); h.Status != component.StatusDegraded {
		t.Errorf("expected degraded before first successful load, got %s", h.Status)
	}
}
