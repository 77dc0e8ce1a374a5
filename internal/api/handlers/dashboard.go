package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/wonny/oiwatch/internal/board"
	"github.com/wonny/oiwatch/internal/dashboard"
	"github.com/wonny/oiwatch/internal/ranking"
	"github.com/wonny/oiwatch/internal/session"
	"github.com/wonny/oiwatch/pkg/logger"
)

// DashboardHandler serves the HTML dashboard and its form actions
// ⭐ SSOT: 세션 쿠키와 ViewState 처리는 이 핸들러에서만
type DashboardHandler struct {
	board      *board.Service
	renderer   *dashboard.Renderer
	sessions   session.Store
	cookieName string
	ttl        time.Duration
	logger     *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	svc *board.Service,
	renderer *dashboard.Renderer,
	sessions session.Store,
	cookieName string,
	ttl time.Duration,
	log *logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		board:      svc,
		renderer:   renderer,
		sessions:   sessions,
		cookieName: cookieName,
		ttl:        ttl,
		logger:     log.WithComponent("dashboard"),
	}
}

// Show renders the current page of the requested profile
// GET /?profile=&page=
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := h.session(w, r)

	page, given, ok := parsePage(r.URL.Query().Get("page"))
	if !ok {
		http.Error(w, "page must be an integer", http.StatusBadRequest)
		return
	}

	state := h.loadState(ctx, sid)
	if given {
		state.Page = page
	}

	view, next := h.board.Build(ctx, r.URL.Query().Get("profile"), state)
	if err := h.sessions.Save(ctx, sid, next); err != nil {
		h.logger.WithError(err).Warn("Failed to save view state")
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, view, h.board.Profiles()); err != nil {
		h.logger.WithError(err).Error("Failed to render dashboard")
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Refresh forgets the session's page so the next render starts over on a fresh snapshot
// POST /refresh
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	sid := h.session(w, r)

	if err := h.sessions.Delete(r.Context(), sid); err != nil {
		h.logger.WithError(err).Warn("Failed to reset view state")
	}

	http.Redirect(w, r, dashboardURL(r.FormValue("profile")), http.StatusSeeOther)
}

// Page stores the requested page. The upper bound is applied on the next render,
// when the page count of the fresh snapshot is known.
// POST /page
func (h *DashboardHandler) Page(w http.ResponseWriter, r *http.Request) {
	sid := h.session(w, r)

	page, given, ok := parsePage(r.FormValue("page"))
	if !ok || !given {
		http.Error(w, "page must be an integer", http.StatusBadRequest)
		return
	}

	if page < 1 {
		page = 1
	}

	state := ranking.ViewState{Page: page}
	if err := h.sessions.Save(r.Context(), sid, state); err != nil {
		h.logger.WithError(err).Warn("Failed to save view state")
	}

	http.Redirect(w, r, dashboardURL(r.FormValue("profile")), http.StatusSeeOther)
}

// session returns the caller's session id, issuing a new cookie when missing or malformed
func (h *DashboardHandler) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(h.cookieName); err == nil && session.ValidID(c.Value) {
		return c.Value
	}

	sid := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(h.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid
}

func (h *DashboardHandler) loadState(ctx context.Context, sid string) ranking.ViewState {
	state, found, err := h.sessions.Load(ctx, sid)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load view state, starting at page 1")
	}
	if err != nil || !found {
		return ranking.ViewState{Page: 1}
	}
	return state
}

func dashboardURL(profile string) string {
	if profile == "" {
		return "/"
	}
	return "/?profile=" + url.QueryEscape(profile)
}
