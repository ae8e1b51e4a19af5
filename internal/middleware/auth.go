package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/vibekrana/frontend-main/internal/session"
)

// Guard resolves the session cookie and protects routes that need a login.
type Guard struct {
	Sessions *session.Manager
	Logger   *log.Logger
}

func NewGuard(sessions *session.Manager, logger *log.Logger) *Guard {
	if logger == nil {
		logger = log.Default()
	}
	return &Guard{Sessions: sessions, Logger: logger}
}

// Attach resolves the session, if any, and stores it in the request context.
// It never blocks the request; use Require for protected routes.
func (g *Guard) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := g.Sessions.FromRequest(r)
		if err != nil {
			g.Logger.Printf("[Auth][Attach] error path=%s err=%v", r.URL.Path, err)
		}
		if s != nil {
			r = r.WithContext(session.IntoContext(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}

// Require rejects unauthenticated requests. Page loads are redirected to the
// login form with the original path preserved in next; JSON and socket
// endpoints get a plain 401 instead.
func (g *Guard) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.FromContext(r.Context())
		if s.Authenticated() {
			next.ServeHTTP(w, r)
			return
		}
		if wantsJSON(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
			return
		}
		target := "/login"
		if r.Method == http.MethodGet && r.URL.Path != "/" {
			target += "?next=" + url.QueryEscape(r.URL.RequestURI())
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	})
}

func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/social/") || strings.HasPrefix(r.URL.Path, "/events/") {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// SafeNext validates a post-login redirect target. Only same-site relative
// paths survive; anything absolute or protocol-relative falls back to /connect.
func SafeNext(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/connect"
	}
	if u, err := url.Parse(raw); err != nil || u.Host != "" || u.Scheme != "" {
		return "/connect"
	}
	return raw
}
