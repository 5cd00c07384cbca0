package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RangaDM/shopfront/logger"
	"github.com/RangaDM/shopfront/server"
	"github.com/RangaDM/shopfront/validation"
)

// GetLog serves the interaction log, newest entries first. An optional
// limit query parameter caps the number of entries returned.
func (h *Handler) GetLog(c *gin.Context) {
	entries := h.ring.Snapshot()

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		v := validation.New()
		if err != nil {
			v.AddError("limit", "must be an integer")
		} else {
			v.Min("limit", limit, 1)
		}
		if appErr := v.Validate(); appErr != nil {
			server.RespondWithError(c, appErr)
			return
		}
		if limit < len(entries) {
			entries = entries[:limit]
		}
	}

	server.RespondOKWithMeta(c, entries, &server.Meta{Count: len(entries)})
}

// ExportLog streams the interaction log as plain text in insertion order.
func (h *Handler) ExportLog(c *gin.Context) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="interaction-log.txt"`)
	c.Status(http.StatusOK)

	if err := h.ring.Export(c.Writer); err != nil {
		h.log.Warn("interaction log export interrupted", logger.ErrorFields("export_log", err))
	}
}

// ClearLog empties the interaction log.
func (h *Handler) ClearLog(c *gin.Context) {
	h.ring.Clear()
	h.log.Info("interaction log cleared")
	server.RespondNoContent(c)
}
