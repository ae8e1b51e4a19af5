package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vibekrana/frontend-main/internal/middleware"
)

// Router wires every dashboard route. The guard attaches the session to all
// requests; routes past the auth pages additionally require one.
func (h *Handler) Router(guard *middleware.Guard) *mux.Router {
	r := mux.NewRouter()
	r.Use(guard.Attach)

	r.HandleFunc("/health", h.Health).Methods("GET")

	// Public auth surface.
	r.HandleFunc("/", h.LoginForm).Methods("GET")
	r.HandleFunc("/login", h.LoginForm).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/register", h.RegisterForm).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")

	// Provider redirect target. The state token is the auth here; the popup
	// has no session cookie guarantee on a cross-site redirect.
	r.HandleFunc("/social/{platform}/callback", h.SocialCallback).Methods("GET")

	// Public avatar images.
	r.HandleFunc("/avatar/{username}", h.Avatar).Methods("GET")

	// Everything else needs a session.
	p := r.NewRoute().Subrouter()
	p.Use(guard.Require)
	p.HandleFunc("/survey", h.SurveyForm).Methods("GET")
	p.HandleFunc("/survey", h.SurveySubmit).Methods("POST")
	p.HandleFunc("/connect", h.Connect).Methods("GET")
	p.HandleFunc("/content", h.ContentForm).Methods("GET")
	p.HandleFunc("/content", h.ContentSubmit).Methods("POST")
	p.HandleFunc("/profile", h.Profile).Methods("GET")
	p.HandleFunc("/profile", h.ProfileUpdate).Methods("POST")
	p.HandleFunc("/theme", h.Theme).Methods("POST")
	p.HandleFunc("/logout", h.Logout).Methods("POST")

	p.HandleFunc("/social/{platform}/connect", h.SocialConnectStart).Methods("POST")
	p.HandleFunc("/social/{platform}/disconnect", h.SocialDisconnect).Methods("POST")
	p.HandleFunc("/social/attempts/{id}", h.AttemptStatus).Methods("GET")
	p.HandleFunc("/social/status", h.SocialStatusJSON).Methods("GET")
	p.HandleFunc("/events/ws", h.EventsWebSocket).Methods("GET")

	p.HandleFunc("/schedule", h.Placeholder("Schedule")).Methods("GET")
	p.HandleFunc("/analytics", h.Placeholder("Analytics")).Methods("GET")
	p.HandleFunc("/my-posts", h.Placeholder("My Posts")).Methods("GET")
	p.HandleFunc("/settings", h.Placeholder("Settings")).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/login", http.StatusSeeOther)
	})
	return r
}
