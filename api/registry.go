package api

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/RangaDM/shopfront/errors"
	"github.com/RangaDM/shopfront/server"
)

// RefreshRegistry forces a registry refresh outside the timer schedule and
// reports the snapshot that resulted.
func (h *Handler) RefreshRegistry(c *gin.Context) {
	start := time.Now()
	err := h.registry.Refresh(c.Request.Context())
	h.recordOperation(c.Request.Context(), "registry", "refresh_registry", start, err)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	snap := h.registry.Current()
	if snap == nil {
		server.RespondWithError(c, apperrors.DiscoveryUnavailable(nil))
		return
	}

	server.RespondOK(c, gin.H{
		"source":    string(snap.Source),
		"services":  snap.Len(),
		"fetchedAt": snap.FetchedAt.UTC().Format(time.RFC3339),
	})
}
