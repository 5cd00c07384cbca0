package api

import (
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/RangaDM/shopfront/errors"
	"github.com/RangaDM/shopfront/health"
	"github.com/RangaDM/shopfront/server"
)

// ServiceView joins one registry entry with its health status.
type ServiceView struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Source    string `json:"source"`
	FetchedAt string `json:"fetchedAt"`
	State     string `json:"state"`
	CheckedAt string `json:"checkedAt,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ListServices serves the per-service view: resolved address, snapshot
// source, and last known health state.
func (h *Handler) ListServices(c *gin.Context) {
	snap := h.registry.Current()
	if snap == nil {
		server.RespondWithError(c, apperrors.DiscoveryUnavailable(nil))
		return
	}

	statuses := h.health.Statuses()
	fetchedAt := snap.FetchedAt.UTC().Format(time.RFC3339)

	services := snap.Services()
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]ServiceView, 0, len(names))
	for _, name := range names {
		sv := ServiceView{
			Name:      name,
			Address:   services[name],
			Source:    string(snap.Source),
			FetchedAt: fetchedAt,
			State:     string(health.StateUnknown),
		}
		if st, ok := statuses[name]; ok {
			sv.State = string(st.State)
			if !st.CheckedAt.IsZero() {
				sv.CheckedAt = st.CheckedAt.UTC().Format(time.RFC3339)
			}
			sv.Error = st.Err
		}
		out = append(out, sv)
	}

	server.RespondOKWithMeta(c, out, &server.Meta{
		Count:  len(out),
		Source: string(snap.Source),
	})
}
