package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/benchmatrix/internal/ingest"
)

// ReloadHandler triggers a fresh ingestion pass.
type ReloadHandler struct {
	deps Reloader
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Reloader) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

type reloadResponse struct {
	PassID     string                `json:"pass_id"`
	Status     string                `json:"status"`
	Succeeded  int                   `json:"succeeded"`
	DurationMS int64                 `json:"duration_ms"`
	Sources    []ingest.SourceReport `json:"sources"`
}

// HandleReload handles POST /reload requests. The pass is detached from the
// request so a client disconnect cannot abort it. A pass in which every
// source failed still returns its report, with status 502; a cancelled pass
// returns it with status 503.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Reload(context.WithoutCancel(r.Context()))
	if err != nil && report.PassID == "" {
		writeDomainError(w, Wrap("api.reload", err))
		return
	}
	status := http.StatusOK
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	case err != nil:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, reloadResponse{
		PassID:     report.PassID,
		Status:     report.Status(),
		Succeeded:  report.Succeeded(),
		DurationMS: report.Duration().Milliseconds(),
		Sources:    report.Sources,
	})
}
