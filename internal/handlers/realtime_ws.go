package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/vibekrana/frontend-main/internal/session"
)

type realtimeHub struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]struct{}
}

func newRealtimeHub() *realtimeHub {
	return &realtimeHub{
		conns: make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (h *realtimeHub) add(username string, c *websocket.Conn) {
	if h == nil || c == nil || strings.TrimSpace(username) == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.conns[username]
	if m == nil {
		m = make(map[*websocket.Conn]struct{})
		h.conns[username] = m
	}
	m[c] = struct{}{}
}

func (h *realtimeHub) remove(username string, c *websocket.Conn) {
	if h == nil || c == nil || strings.TrimSpace(username) == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	m := h.conns[username]
	if m == nil {
		return
	}
	delete(m, c)
	if len(m) == 0 {
		delete(h.conns, username)
	}
}

func (h *realtimeHub) broadcast(username string, msg []byte) {
	if h == nil || strings.TrimSpace(username) == "" || len(msg) == 0 {
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, 8)
	for c := range h.conns[username] {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := websocket.Message.Send(c, string(msg)); err != nil {
			_ = c.Close()
			h.remove(username, c)
		}
	}
}

func (h *realtimeHub) count(username string) int {
	if h == nil || strings.TrimSpace(username) == "" {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[username])
}

type realtimeEvent struct {
	Type     string `json:"type"`
	User     string `json:"user"`
	Platform string `json:"platform,omitempty"`
	Status   string `json:"status,omitempty"`
	At       string `json:"at"`
}

// EventsWebSocket streams connection-status changes to the browser so the
// accounts page can refresh without polling.
//
// URL: /events/ws
// Auth: the session cookie; the stream is scoped to the session's user.
func (h *Handler) EventsWebSocket(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	if !s.Authenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	username := s.Username

	// golang.org/x/net/websocket's default origin check can return 403 when
	// the Origin header doesn't match Host. The session cookie is the auth
	// here, so any origin is accepted.
	wsServer := websocket.Server{
		Handshake: func(cfg *websocket.Config, req *http.Request) error {
			return nil
		},
		Handler: func(c *websocket.Conn) {
			h.logger.Printf("[RealtimeWS] connect user=%s remote=%s ua=%q", username, r.RemoteAddr, truncate(r.UserAgent(), 120))
			h.rt.add(username, c)
			defer h.rt.remove(username, c)
			defer h.logger.Printf("[RealtimeWS] disconnect user=%s remote=%s", username, r.RemoteAddr)

			// Send a hello so clients can confirm the channel.
			hello := realtimeEvent{
				Type: "hello",
				User: username,
				At:   time.Now().UTC().Format(time.RFC3339),
			}
			if b, err := json.Marshal(hello); err == nil {
				_ = websocket.Message.Send(c, string(b))
			}

			// Read loop to keep the connection open and detect disconnects.
			for {
				var ignored string
				if err := websocket.Message.Receive(c, &ignored); err != nil {
					break
				}
			}
		},
	}

	wsServer.ServeHTTP(w, r)
}

// emitSocialUpdate notifies every open socket of username that a platform's
// connection state changed.
func (h *Handler) emitSocialUpdate(username, platform string, connected bool) {
	if h == nil || h.rt == nil || strings.TrimSpace(username) == "" {
		return
	}
	status := "disconnected"
	if connected {
		status = "connected"
	}
	ev := realtimeEvent{
		Type:     "social.updated",
		User:     username,
		Platform: platform,
		Status:   status,
		At:       time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(ev)
	if err != nil {
		h.logger.Printf("[Realtime] marshal_failed user=%s err=%v", username, err)
		return
	}
	h.logger.Printf("[Realtime] emit user=%s type=%s platform=%s status=%s subs=%d",
		username, ev.Type, platform, status, h.rt.count(username))
	h.rt.broadcast(username, b)
}
