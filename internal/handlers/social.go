package handlers

import (
	"errors"
	"net/http"

	"github.com/vibekrana/frontend-main/internal/oauth"
	"github.com/vibekrana/frontend-main/internal/session"
	"github.com/vibekrana/frontend-main/internal/upstream"
)

// SocialConnectStart begins a popup connection attempt. The popup JS opens
// the returned authorize URL; the attempt id is what the opener polls while
// it waits for the callback message.
func (h *Handler) SocialConnectStart(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	platform := pathVar(r, "platform")
	if !oauth.Connectable(platform) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "platform does not support connection"})
		return
	}
	s := session.FromContext(r.Context())

	attemptID := h.attempts.Begin(platform, s.Username)
	state, err := h.states.Issue(r.Context(), platform, s.Username, attemptID)
	if err != nil {
		h.logger.Printf("[Social][Connect] state error user=%s platform=%s err=%v", s.Username, platform, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not start connection"})
		return
	}
	app := h.cfg.OAuthApp(platform)
	authorizeURL, err := oauth.AuthorizeURL(platform, oauth.App{ClientID: app.ClientID, Scopes: app.Scopes}, h.cfg.RedirectURI(platform), state)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.logger.Printf("[Social][Connect] start user=%s platform=%s attempt=%s", s.Username, platform, attemptID)
	writeJSON(w, http.StatusOK, map[string]string{
		"authorize_url": authorizeURL,
		"attempt_id":    attemptID,
	})
}

type bridgePage struct {
	Platform  string
	EventType string
	Success   bool
	Message   string
}

// SocialCallback is the provider redirect target. It burns the state, performs
// the code exchange, resolves the attempt, and renders a small page that
// messages the opener window and closes itself.
func (h *Handler) SocialCallback(w http.ResponseWriter, r *http.Request) {
	platform := pathVar(r, "platform")
	state := formValue(r, "state")
	code := formValue(r, "code")
	providerErr := formValue(r, "error")

	username, attemptID, err := h.states.Consume(r.Context(), platform, state)
	if err != nil {
		// Invalid, expired, and replayed states all land here. No attempt is
		// resolved because the state cannot be trusted to name one.
		h.logger.Printf("[Social][Callback] bad state platform=%s", platform)
		h.renderBridge(w, http.StatusBadRequest, bridgePage{
			Platform:  platform,
			EventType: platform + "_callback",
			Message:   "This connection link is no longer valid. Please try again.",
		})
		return
	}

	outcome := oauth.Outcome{Platform: platform}
	status := http.StatusOK
	switch {
	case providerErr != "":
		outcome.Message = "Connection was cancelled"
		h.logger.Printf("[Social][Callback] denied user=%s platform=%s err=%s", username, platform, truncate(providerErr, 80))
	case code == "":
		outcome.Message = "The provider did not return an authorization code"
	default:
		if err := h.api.ExchangeCode(r.Context(), platform, code, username); err != nil {
			outcome.Message = "Connection failed. Please try again."
			h.logger.Printf("[Social][Callback] exchange error user=%s platform=%s err=%v", username, platform, err)
		} else {
			outcome.Success = true
			outcome.Message = "Connected"
			h.logger.Printf("[Social][Callback] ok user=%s platform=%s attempt=%s", username, platform, attemptID)
		}
	}
	if !outcome.Success {
		status = http.StatusBadGateway
	}

	h.attempts.Resolve(attemptID, outcome)
	h.emitSocialUpdate(username, platform, outcome.Success)
	h.renderBridge(w, status, bridgePage{
		Platform:  platform,
		EventType: platform + "_callback",
		Success:   outcome.Success,
		Message:   outcome.Message,
	})
}

func (h *Handler) renderBridge(w http.ResponseWriter, status int, data bridgePage) {
	p := &page{Title: "Connecting", Dark: true, Data: data}
	h.render(w, status, "oauth_bridge", p)
}

// AttemptStatus is the polling arm of the handshake. The outcome is delivered
// to the first poll that sees it; later polls get gone, so both completion
// arms can never each trigger a refresh.
func (h *Handler) AttemptStatus(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	id := pathVar(r, "id")
	if owner, ok := h.attempts.Owner(id); ok && owner != s.Username {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "gone"})
		return
	}
	out, st := h.attempts.Take(id)
	switch st {
	case oauth.StatusPending:
		writeJSON(w, http.StatusOK, map[string]string{"status": "pending"})
	case oauth.StatusReady:
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "complete",
			"success":  out.Success,
			"platform": out.Platform,
			"message":  out.Message,
		})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "gone"})
	}
}

// SocialStatusJSON returns the live per-platform connection map for the
// session user.
func (h *Handler) SocialStatusJSON(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	status, err := h.api.SocialStatus(r.Context(), s.Token, s.Username)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			h.logger.Printf("[Social][Status] token rejected user=%s", s.Username)
			h.endSession(w, r, s)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired"})
			return
		}
		h.logger.Printf("[Social][Status] error user=%s err=%v", s.Username, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "status unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) SocialDisconnect(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	platform := pathVar(r, "platform")
	s := session.FromContext(r.Context())
	if err := h.api.Disconnect(r.Context(), s.Token, platform, s.Username); err != nil {
		if ae, ok := upstream.AsAPIError(err); ok && errors.Is(err, upstream.ErrUnauthorized) {
			// Expired credentials end the session; the client must sign in
			// again before touching connections.
			h.endSession(w, r, s)
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error":         "session expired",
				"token_expired": ae.TokenExpired,
			})
			return
		}
		h.logger.Printf("[Social][Disconnect] error user=%s platform=%s err=%v", s.Username, platform, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "disconnect failed"})
		return
	}
	h.logger.Printf("[Social][Disconnect] ok user=%s platform=%s", s.Username, platform)
	h.emitSocialUpdate(s.Username, platform, false)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
