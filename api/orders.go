package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/RangaDM/shopfront/errors"
	"github.com/RangaDM/shopfront/httpclient"
	"github.com/RangaDM/shopfront/orchestrator"
	"github.com/RangaDM/shopfront/server"
)

// ordersDoc matches the order service's listing payload. Orders are passed
// through untouched; the backend owns their schema.
type ordersDoc struct {
	Orders []json.RawMessage `json:"orders"`
}

// PlaceOrder runs the order placement saga for a submitted draft.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var draft orchestrator.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		server.RespondWithError(c, apperrors.Validation("request body must be valid JSON").WithCause(err))
		return
	}

	result, err := h.orders.PlaceOrder(c.Request.Context(), draft)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondCreated(c, result)
}

// ListOrders proxies the order service's order listing.
func (h *Handler) ListOrders(c *gin.Context) {
	addr, err := h.registry.Resolve("order")
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	resp, err := h.httpc.Do(c.Request.Context(), httpclient.Request{
		Method: http.MethodGet,
		Path:   addr + "/orders",
	})
	if err != nil {
		server.RespondWithError(c, mapProxyError("list orders", "order service", err))
		return
	}

	var doc ordersDoc
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		server.RespondWithError(c, apperrors.ServiceUnavailable("order service").WithCause(err))
		return
	}

	orders := doc.Orders
	if orders == nil {
		orders = []json.RawMessage{}
	}
	server.RespondOKWithMeta(c, orders, &server.Meta{Count: len(orders)})
}

// mapProxyError translates a pass-through transport failure into a taxonomy
// error.
func mapProxyError(operation, service string, err error) *apperrors.AppError {
	switch {
	case httpclient.IsTimeout(err):
		return apperrors.Timeout(operation).WithCause(err)
	case httpclient.IsConnection(err):
		return apperrors.ConnectionFailed(service).WithCause(err)
	default:
		return apperrors.ServiceUnavailable(service).WithCause(err)
	}
}
