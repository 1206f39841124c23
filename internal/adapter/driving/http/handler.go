// Package httphandler serves the JSON API and the shared HTTP middleware.
package httphandler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ericfisherdev/reviewdeck/internal/application"
)

// ViewCounter reports how many views are mounted.
type ViewCounter interface {
	Len() int
}

// Probe checks a backing dependency for the health endpoint.
type Probe func(ctx context.Context) error

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	prSvc  *application.PRService
	views  ViewCounter
	probe  Probe
	logger zerolog.Logger
}

// NewHandler creates a Handler. probe may be nil.
func NewHandler(prSvc *application.PRService, views ViewCounter, probe Probe, logger zerolog.Logger) *Handler {
	return &Handler{
		prSvc:  prSvc,
		views:  views,
		probe:  probe,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// RegisterAPIRoutes registers the /api/v1 routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/prs", h.ListPRs)
	mux.HandleFunc("GET /api/v1/prs/{id}", h.GetPR)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// ListPRs returns every PR, or those fuzzily matching ?q=.
func (h *Handler) ListPRs(w http.ResponseWriter, r *http.Request) {
	prs, err := h.prSvc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list PRs")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]PRResponse, 0, len(prs))
	for _, pr := range prs {
		resp = append(resp, toPRResponse(pr))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPR returns a PR with its groups and diffs. Unknown IDs return the
// placeholder PR with empty collections.
func (h *Handler) GetPR(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	detail, err := h.prSvc.Detail(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("pr", id).Msg("failed to get PR")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toPRDetailResponse(detail))
}

// Health reports liveness, the store probe result and the mounted view count.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:       "ok",
		Time:         time.Now().UTC().Format(time.RFC3339),
		MountedViews: h.views.Len(),
	}

	status := http.StatusOK
	if h.probe != nil {
		if err := h.probe(r.Context()); err != nil {
			h.logger.Warn().Err(err).Msg("health probe failed")
			resp.Status = "degraded"
			resp.Error = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, resp)
}
