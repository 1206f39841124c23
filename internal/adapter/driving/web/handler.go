// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog"

	"github.com/ericfisherdev/reviewdeck/internal/adapter/driving/web/components"
	"github.com/ericfisherdev/reviewdeck/internal/application"
	"github.com/ericfisherdev/reviewdeck/internal/domain/model"
)

const (
	appTitle = "Review Deck"

	// maxEventBytes bounds an event request body.
	maxEventBytes = 64 << 10

	headerNavigate = "X-Navigate"
	headerScroll   = "X-Scroll"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	prSvc    *application.PRService
	views    *application.ViewRegistry
	basePath string
	logger   zerolog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	prSvc *application.PRService,
	views *application.ViewRegistry,
	basePath string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		prSvc:    prSvc,
		views:    views,
		basePath: basePath,
		logger:   logger.With().Str("component", "web").Logger(),
	}
}

// PRList renders the PR list page, filtered by the optional ?q= query.
func (h *Handler) PRList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	prs, err := h.prSvc.Search(r.Context(), query)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list PRs")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	csrfToken(w, r, h.basePath)
	page := components.PRList(toPRListViewModel(prs, h.basePath, query))
	h.render(w, r, components.Layout(appTitle, h.basePath, page))
}

// PRDetail mounts a fresh view for the PR and renders the full page.
func (h *Handler) PRDetail(w http.ResponseWriter, r *http.Request) {
	v, err := h.views.Mount(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error().Err(err).Str("pr", r.PathValue("id")).Msg("failed to mount view")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	s := v.Snapshot()
	csrfToken(w, r, h.basePath)
	page := components.PRDetail(toPRDetailViewModel(s))
	h.render(w, r, components.Layout(s.Detail.PR.DisplayName()+" · "+appTitle, h.basePath, page))
}

// ViewFragment re-renders a mounted view.
func (h *Handler) ViewFragment(w http.ResponseWriter, r *http.Request) {
	v, err := h.views.Get(r.PathValue("viewID"))
	if err != nil {
		writeGone(w)
		return
	}
	h.renderView(w, r, v, http.StatusOK)
}

// ViewEvent applies one UI event to a mounted view and returns the
// re-rendered fragment.
func (h *Handler) ViewEvent(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	v, err := h.views.Get(r.PathValue("viewID"))
	if err != nil {
		writeGone(w)
		return
	}

	var req eventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "malformed event", http.StatusBadRequest)
		return
	}
	ev := req.toEvent()

	out, err := v.Apply(r.Context(), ev)
	switch {
	case err == nil:
	case errors.Is(err, application.ErrUnmounted):
		writeGone(w)
		return
	case errors.Is(err, application.ErrEmptyComment),
		errors.Is(err, application.ErrEmptyReview),
		errors.Is(err, application.ErrComposerClosed):
		h.renderView(w, r, v, http.StatusUnprocessableEntity)
		return
	case isBadEvent(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	default:
		h.logger.Error().Err(err).Str("view", v.ID).Str("event", string(ev.Kind)).Msg("event failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if out.Navigate != "" {
		w.Header().Set(headerNavigate, out.Navigate)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if silentEvent(ev.Kind) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if out.Scroll != "" {
		w.Header().Set(headerScroll, out.Scroll)
	}
	h.renderView(w, r, v, http.StatusOK)
}

// UnmountView drops a view. Sent by the browser when the page unloads.
func (h *Handler) UnmountView(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}
	if err := h.views.Unmount(r.PathValue("viewID")); err != nil {
		writeGone(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) renderView(w http.ResponseWriter, r *http.Request, v *application.View, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := components.PRDetail(toPRDetailViewModel(v.Snapshot())).Render(r.Context(), w); err != nil {
		h.logger.Error().Err(err).Str("view", v.ID).Msg("failed to render view")
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeGone(w http.ResponseWriter) {
	http.Error(w, "this page has expired, reload the page", http.StatusGone)
}

// silentEvent reports whether an event only records textarea content and
// needs no re-render.
func silentEvent(kind application.EventKind) bool {
	return kind == application.EventDraft || kind == application.EventReviewBody
}

func isBadEvent(err error) bool {
	for _, target := range []error{
		application.ErrUnknownEvent,
		application.ErrUnknownGroup,
		application.ErrUnknownFile,
		application.ErrUnknownLine,
		application.ErrUnknownPR,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// eventRequest is the JSON body of POST /views/{viewID}/events.
type eventRequest struct {
	Kind       string   `json:"kind"`
	Group      string   `json:"group,omitempty"`
	File       int      `json:"file,omitempty"`
	Line       string   `json:"line,omitempty"`
	Text       *string  `json:"text,omitempty"`
	Key        string   `json:"key,omitempty"`
	Ctrl       bool     `json:"ctrl,omitempty"`
	Meta       bool     `json:"meta,omitempty"`
	Scopes     []string `json:"scopes,omitempty"`
	ReviewType string   `json:"review_type,omitempty"`
	Tab        string   `json:"tab,omitempty"`
	PR         string   `json:"pr,omitempty"`
}

func (req eventRequest) toEvent() application.Event {
	ev := application.Event{
		Kind:       application.EventKind(req.Kind),
		Group:      req.Group,
		File:       req.File,
		Line:       req.Line,
		Key:        req.Key,
		Ctrl:       req.Ctrl,
		Meta:       req.Meta,
		ReviewType: model.ReviewType(req.ReviewType),
		Tab:        application.NoteTab(req.Tab),
		PR:         req.PR,
	}
	if req.Text != nil {
		ev.Text = *req.Text
		ev.HasText = true
	}
	for _, s := range req.Scopes {
		ev.Scopes = append(ev.Scopes, application.Scope(s))
	}
	return ev
}
