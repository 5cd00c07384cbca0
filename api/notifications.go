package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RangaDM/shopfront/server"
)

// ListNotifications serves the cached notification feed.
func (h *Handler) ListNotifications(c *gin.Context) {
	list := h.notifications.Get()
	meta := &server.Meta{Count: len(list)}
	if at := h.notifications.RefreshedAt(); !at.IsZero() {
		meta.RefreshedAt = at.UTC().Format(time.RFC3339)
	}
	server.RespondOKWithMeta(c, list, meta)
}
