// Package orchestrator drives the order placement saga.
//
// PlaceOrder runs a strict sequence: validate the draft locally, resolve the
// order service against one captured registry snapshot, POST the order
// exactly once, then hand off the side effects. The synchronous chain ends
// with the backend's answer; the inventory view refresh and the notification
// hand-off run in the background and can never fail the order.
//
// Every failure maps to exactly one error class: invalid input, discovery
// unavailable, unknown service, a backend rejection carrying the backend's
// detail string verbatim, a connection failure, or a timeout. There are no
// inline retries; the caller decides whether to try again.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/RangaDM/shopfront/errors"
	"github.com/RangaDM/shopfront/httpclient"
	"github.com/RangaDM/shopfront/logger"
	"github.com/RangaDM/shopfront/observability"
	"github.com/RangaDM/shopfront/registry"
	"github.com/RangaDM/shopfront/ringlog"
	"github.com/RangaDM/shopfront/validation"
)

// orderService is the logical name of the order backend.
const orderService = "order"

// OrderDraft is an order as submitted by the UI.
type OrderDraft struct {
	UserID string      `json:"userId" validate:"required"`
	Items  []OrderItem `json:"items" validate:"required,min=1,dive"`
}

// OrderItem is one line of an order draft.
type OrderItem struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// OrderResult is the outcome of a successfully placed order.
type OrderResult struct {
	OrderID string `json:"orderId"`
}

// orderResponse matches the order service's success payload.
type orderResponse struct {
	OrderID string `json:"orderId"`
}

// backendDetail matches the order service's rejection payload.
type backendDetail struct {
	Detail string `json:"detail"`
}

// SnapshotSource supplies the registry snapshot orders resolve against.
type SnapshotSource interface {
	Current() *registry.Snapshot
}

// HealthGate answers whether a service may be called. Used only when the
// preflight check is enabled.
type HealthGate interface {
	Online(name string) bool
}

// StockRefresher refreshes the inventory view after a successful order.
type StockRefresher interface {
	Refresh(ctx context.Context) error
}

// Orchestrator places orders against the resolved order service.
type Orchestrator struct {
	config  Config
	source  SnapshotSource
	gate    HealthGate
	stock   StockRefresher
	httpc   *httpclient.Client
	ring    *ringlog.Log
	log     *logger.Logger
	metrics *observability.Metrics
}

// New creates an orchestrator. gate may be nil when the preflight check is
// disabled; metrics may be nil to skip metric recording.
func New(cfg Config, source SnapshotSource, gate HealthGate, stock StockRefresher,
	ring *ringlog.Log, log *logger.Logger, metrics *observability.Metrics) (*Orchestrator, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpc, err := httpclient.New(httpclient.Config{Timeout: cfg.RequestTimeout})
	if err != nil {
		return nil, err
	}

	return &Orchestrator{
		config:  cfg,
		source:  source,
		gate:    gate,
		stock:   stock,
		httpc:   httpc,
		ring:    ring,
		log:     log.WithComponent("orchestrator"),
		metrics: metrics,
	}, nil
}

// PlaceOrder runs the order placement saga. On success it returns the
// backend's order ID; on failure it returns exactly one taxonomy error.
// PlaceOrder is not idempotent: identical drafts create distinct orders.
func (o *Orchestrator) PlaceOrder(ctx context.Context, draft OrderDraft) (*OrderResult, error) {
	// Local validation happens before any logging or network I/O. An
	// invalid draft leaves no trace in the interaction log.
	if err := validation.Validate(draft); err != nil {
		return nil, err
	}

	correlationID := uuid.NewString()
	oc := observability.NewOperationContext("shopfront", "place_order", correlationID, draft.UserID, o.metrics)
	ctx = observability.WithOperationContext(ctx, oc)
	ctx, span := oc.StartSpanForOperation(ctx, observability.SpanPlaceOrder)

	result, err := o.placeOrder(ctx, draft, correlationID)
	if err != nil {
		oc.EndOperation(ctx, span, "error", err)
		return nil, err
	}

	observability.SetSpanAttribute(ctx, observability.AttrOrderID, result.OrderID)
	oc.EndOperation(ctx, span, "ok", nil)
	return result, nil
}

func (o *Orchestrator) placeOrder(ctx context.Context, draft OrderDraft, correlationID string) (*OrderResult, error) {
	// One snapshot for the whole saga; a registry refresh mid-flight never
	// redirects this order.
	snap := o.source.Current()
	if snap == nil {
		return nil, o.abort(ctx, draft, errors.DiscoveryUnavailable(nil))
	}
	addr, err := snap.Resolve(orderService)
	if err != nil {
		return nil, o.abort(ctx, draft, err)
	}

	if o.config.Preflight && o.gate != nil && !o.gate.Online(orderService) {
		err := errors.ConnectionFailed("order service").WithDetail("preflight", "service marked offline")
		return nil, o.abort(ctx, draft, err)
	}

	o.ring.Record(ringlog.DirectionRequest, orderService,
		fmt.Sprintf("POST %s/orders for user %s (%d items)", addr, draft.UserID, len(draft.Items)))
	o.log.Info("placing order", logger.Fields(
		logger.FieldUserID, draft.UserID,
		logger.FieldCorrelationID, correlationID,
		"items", len(draft.Items),
	))

	callCtx, cancel := context.WithTimeout(ctx, o.config.RequestTimeout)
	defer cancel()

	resp, err := o.httpc.Do(callCtx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    addr + "/orders",
		Headers: map[string]string{"X-Correlation-ID": correlationID},
		Body:    draft,
	})
	if err != nil {
		return nil, o.fail(ctx, draft, mapCallError(err, resp))
	}

	var parsed orderResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil || parsed.OrderID == "" {
		if err == nil {
			err = fmt.Errorf("order response missing orderId")
		}
		appErr := errors.ConnectionFailed("order service").WithCause(fmt.Errorf("parsing order response: %w", err))
		return nil, o.fail(ctx, draft, appErr)
	}

	o.ring.Record(ringlog.DirectionResponse, orderService,
		fmt.Sprintf("order %s accepted for user %s", parsed.OrderID, draft.UserID))
	o.log.Info("order placed", logger.Fields(
		logger.FieldOrderID, parsed.OrderID,
		logger.FieldUserID, draft.UserID,
		logger.FieldCorrelationID, correlationID,
	))

	o.triggerSideEffects(parsed.OrderID)

	return &OrderResult{OrderID: parsed.OrderID}, nil
}

// abort records a saga failure that happened before the order call.
func (o *Orchestrator) abort(ctx context.Context, draft OrderDraft, err error) error {
	o.ring.Record(ringlog.DirectionError, orderService,
		fmt.Sprintf("order placement aborted: %v", err))
	o.log.Warn("order placement aborted", logger.Fields(
		logger.FieldUserID, draft.UserID,
		logger.FieldError, err.Error(),
	))
	o.recordError(ctx, err)
	return err
}

// fail records a saga failure during or after the order call.
func (o *Orchestrator) fail(ctx context.Context, draft OrderDraft, err error) error {
	o.ring.Record(ringlog.DirectionError, orderService,
		fmt.Sprintf("order placement failed: %v", err))
	o.log.Warn("order placement failed", logger.Fields(
		logger.FieldUserID, draft.UserID,
		logger.FieldError, err.Error(),
	))
	o.recordError(ctx, err)
	return err
}

func (o *Orchestrator) recordError(ctx context.Context, err error) {
	if o.metrics == nil {
		return
	}
	code := "unknown"
	if appErr, ok := errors.AsAppError(err); ok {
		code = string(appErr.Code)
	}
	o.metrics.RecordError(ctx, code, "orchestrator")
}

// triggerSideEffects hands off the post-order work without awaiting it. The
// backend pipeline already owns notification delivery; the gateway only
// refreshes its own stock view and notes the hand-off.
func (o *Orchestrator) triggerSideEffects(orderID string) {
	o.ring.Record(ringlog.DirectionAsync, "notification",
		fmt.Sprintf("confirmation and stock alerts for order %s handed to backend pipeline", orderID))

	if o.stock == nil {
		return
	}
	o.ring.Record(ringlog.DirectionAsync, "inventory",
		fmt.Sprintf("stock view refresh scheduled after order %s", orderID))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), o.config.RequestTimeout)
		defer cancel()
		// A failed refresh keeps the stale view; it never affects the
		// already-completed order.
		_ = o.stock.Refresh(ctx)
	}()
}

// mapCallError converts a transport or status error into a taxonomy error.
func mapCallError(err error, resp *httpclient.Response) *errors.AppError {
	switch {
	case httpclient.IsTimeout(err):
		return errors.Timeout("place order").WithCause(err)
	case httpclient.IsConnection(err):
		return errors.ConnectionFailed("order service").WithCause(err)
	}

	// A classified status error carries the backend's response; surface its
	// detail string verbatim.
	if resp != nil {
		return errors.BackendRejection(orderService, extractDetail(resp), resp.StatusCode)
	}
	return errors.Internal(err)
}

// extractDetail pulls the backend's detail message out of a rejection body.
func extractDetail(resp *httpclient.Response) string {
	var body backendDetail
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Detail != "" {
		return body.Detail
	}
	if text := strings.TrimSpace(string(resp.Body)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
