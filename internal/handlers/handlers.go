// Package handlers serves the dashboard: HTML pages rendered server-side,
// plus the JSON endpoints the connection popup and websocket client talk to.
package handlers

import (
	"log"
	"net/http"

	"github.com/vibekrana/frontend-main/internal/config"
	"github.com/vibekrana/frontend-main/internal/oauth"
	"github.com/vibekrana/frontend-main/internal/session"
	"github.com/vibekrana/frontend-main/internal/upstream"
)

type Handler struct {
	cfg      *config.Config
	sessions *session.Manager
	api      *upstream.Client
	states   *oauth.StateStore
	attempts *oauth.Registry
	rt       *realtimeHub
	logger   *log.Logger
}

func New(cfg *config.Config, sessions *session.Manager, api *upstream.Client, states *oauth.StateStore, attempts *oauth.Registry, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		cfg:      cfg,
		sessions: sessions,
		api:      api,
		states:   states,
		attempts: attempts,
		rt:       newRealtimeHub(),
		logger:   logger,
	}
}

// endSession purges a session whose bearer token the API no longer accepts.
// Every protected view funnels upstream 401s through here so a revoked token
// cannot outlive its session row.
func (h *Handler) endSession(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if err := h.sessions.Delete(r.Context(), s.ID); err != nil {
		h.logger.Printf("[Session][End] delete error user=%s err=%v", s.Username, err)
	}
	session.ExpireCookie(w)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Attempts exposes the registry for the background sweeper.
func (h *Handler) Attempts() *oauth.Registry {
	return h.attempts
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
