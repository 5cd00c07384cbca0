package readmodel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/RangaDM/shopfront/errors"
	"github.com/RangaDM/shopfront/httpclient"
	"github.com/RangaDM/shopfront/logger"
	"github.com/RangaDM/shopfront/ringlog"
)

// inventoryService is the logical name the products view resolves.
const inventoryService = "inventory"

// Product is the gateway's view of one catalog row.
type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// productRow matches the inventory service's wire format.
type productRow struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Stock     int     `json:"stock"`
}

type productsDoc struct {
	Products []productRow `json:"products"`
}

// AddressResolver resolves a logical service name to a base URL.
type AddressResolver interface {
	Resolve(name string) (string, error)
}

// Products is the cached catalog view.
type Products struct {
	resolver AddressResolver
	httpc    *httpclient.Client
	ring     *ringlog.Log
	log      *logger.Logger

	mu          sync.RWMutex
	list        []Product
	refreshedAt time.Time
}

// NewProducts creates the products view.
func NewProducts(cfg Config, resolver AddressResolver, ring *ringlog.Log, log *logger.Logger) (*Products, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpc, err := httpclient.New(httpclient.Config{Timeout: cfg.FetchTimeout})
	if err != nil {
		return nil, err
	}

	return &Products{
		resolver: resolver,
		httpc:    httpc,
		ring:     ring,
		log:      log.WithComponent("products"),
	}, nil
}

// Refresh fetches the catalog from the inventory service and replaces the
// cached view. On failure the previous view keeps serving.
func (p *Products) Refresh(ctx context.Context) error {
	addr, err := p.resolver.Resolve(inventoryService)
	if err != nil {
		p.ring.Record(ringlog.DirectionError, inventoryService,
			fmt.Sprintf("products refresh failed: %v", err))
		p.log.Warn("products refresh failed", logger.ErrorFields("resolve", err))
		return err
	}

	p.ring.Record(ringlog.DirectionRequest, inventoryService,
		fmt.Sprintf("GET %s/products", addr))

	resp, err := p.httpc.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   addr + "/products",
	})
	if err != nil {
		appErr := mapFetchError("refresh products", "inventory service", err)
		p.ring.Record(ringlog.DirectionError, inventoryService,
			fmt.Sprintf("products refresh failed: %v", appErr))
		p.log.Warn("products refresh failed", logger.ErrorFields("fetch", appErr))
		return appErr
	}

	var doc productsDoc
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		appErr := apperrors.ServiceUnavailable("inventory service").
			WithCause(fmt.Errorf("parsing products payload: %w", err))
		p.ring.Record(ringlog.DirectionError, inventoryService,
			fmt.Sprintf("products refresh failed: %v", appErr))
		p.log.Warn("products refresh failed", logger.ErrorFields("decode", appErr))
		return appErr
	}

	list := make([]Product, 0, len(doc.Products))
	for _, row := range doc.Products {
		list = append(list, Product{
			ID:    row.ProductID,
			Name:  row.Name,
			Price: row.Price,
			Stock: row.Stock,
		})
	}

	p.mu.Lock()
	p.list = list
	p.refreshedAt = time.Now()
	p.mu.Unlock()

	p.ring.Record(ringlog.DirectionResponse, inventoryService,
		fmt.Sprintf("fetched %d products", len(list)))
	p.log.Debug("products view refreshed", logger.Fields("products", len(list)))
	return nil
}

// Get returns a copy of the cached catalog.
func (p *Products) Get() []Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Product, len(p.list))
	copy(out, p.list)
	return out
}

// RefreshedAt returns when the view last refreshed successfully, zero if
// never.
func (p *Products) RefreshedAt() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.refreshedAt
}

// mapFetchError translates a transport failure into a taxonomy error so raw
// httpclient errors never cross the package boundary.
func mapFetchError(operation, service string, err error) *apperrors.AppError {
	switch {
	case httpclient.IsTimeout(err):
		return apperrors.Timeout(operation).WithCause(err)
	case httpclient.IsConnection(err):
		return apperrors.ConnectionFailed(service).WithCause(err)
	default:
		return apperrors.ServiceUnavailable(service).WithCause(err)
	}
}
