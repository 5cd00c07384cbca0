package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RangaDM/shopfront/server"
)

// ListProducts serves the cached catalog view.
func (h *Handler) ListProducts(c *gin.Context) {
	list := h.products.Get()
	meta := &server.Meta{Count: len(list)}
	if at := h.products.RefreshedAt(); !at.IsZero() {
		meta.RefreshedAt = at.UTC().Format(time.RFC3339)
	}
	server.RespondOKWithMeta(c, list, meta)
}

// RefreshProducts refreshes the catalog view from the inventory service and
// serves the result.
func (h *Handler) RefreshProducts(c *gin.Context) {
	start := time.Now()
	err := h.products.Refresh(c.Request.Context())
	h.recordOperation(c.Request.Context(), "inventory", "refresh_products", start, err)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	list := h.products.Get()
	server.RespondOKWithMeta(c, list, &server.Meta{
		Count:       len(list),
		RefreshedAt: h.products.RefreshedAt().UTC().Format(time.RFC3339),
	})
}
