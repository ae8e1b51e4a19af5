package handlers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/vibekrana/frontend-main/internal/middleware"
	"github.com/vibekrana/frontend-main/internal/session"
	"github.com/vibekrana/frontend-main/internal/upstream"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,}$`)
)

// loginFailedMessage is intentionally generic. The form never reveals whether
// the username or the password was wrong.
const loginFailedMessage = "Invalid username or password"

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).Authenticated() {
		http.Redirect(w, r, "/connect", http.StatusSeeOther)
		return
	}
	p := h.newPage(r, "Sign In", "login")
	p.Form["next"] = formValue(r, "next")
	h.render(w, http.StatusOK, "login", p)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	username := formValue(r, "username")
	password := r.FormValue("password")
	next := formValue(r, "next")

	p := h.newPage(r, "Sign In", "login")
	p.Form["username"] = username
	p.Form["next"] = next
	if username == "" {
		p.Errors.add("username", "Username is required")
	}
	if password == "" {
		p.Errors.add("password", "Password is required")
	}
	if !p.Errors.ok() {
		h.render(w, http.StatusUnprocessableEntity, "login", p)
		return
	}

	res, err := h.api.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, upstream.ErrUnauthorized) {
			h.logger.Printf("[Auth][Login] rejected user=%s", username)
			p.Flash = loginFailedMessage
			h.render(w, http.StatusUnauthorized, "login", p)
			return
		}
		h.logger.Printf("[Auth][Login] error user=%s err=%v", username, err)
		p.Flash = "Sign in is unavailable right now. Please try again."
		h.render(w, http.StatusBadGateway, "login", p)
		return
	}

	s, err := h.sessions.Issue(r.Context(), username, res.Token)
	if err != nil {
		h.logger.Printf("[Auth][Login] session error user=%s err=%v", username, err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	if res.RegisteredUserID != "" {
		_ = h.sessions.SetRegisteredUser(r.Context(), s.ID, res.RegisteredUserID)
	}
	session.WriteCookie(w, s)
	h.logger.Printf("[Auth][Login] ok user=%s", username)
	http.Redirect(w, r, middleware.SafeNext(next), http.StatusSeeOther)
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()).Authenticated() {
		http.Redirect(w, r, "/connect", http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, "register", h.newPage(r, "Create Account", "register"))
}

// validateRegistration runs every rule independently so the form reports all
// failing fields in one pass.
func validateRegistration(name, email, username, password, confirm string) fieldErrors {
	errs := fieldErrors{}
	if len(name) < 2 {
		errs.add("name", "Name must be at least 2 characters")
	}
	if !emailRe.MatchString(email) {
		errs.add("email", "Enter a valid email address")
	}
	if !usernameRe.MatchString(username) {
		errs.add("username", "Username must be at least 3 characters, letters, numbers and underscores only")
	}
	if len(password) < 6 {
		errs.add("password", "Password must be at least 6 characters")
	}
	if confirm != password {
		errs.add("confirmPassword", "Passwords do not match")
	}
	return errs
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	name := formValue(r, "name")
	email := formValue(r, "email")
	username := formValue(r, "username")
	password := r.FormValue("password")
	confirm := r.FormValue("confirmPassword")

	p := h.newPage(r, "Create Account", "register")
	p.Form["name"] = name
	p.Form["email"] = email
	p.Form["username"] = username
	p.Errors = validateRegistration(name, email, username, password, confirm)
	if !p.Errors.ok() {
		h.render(w, http.StatusUnprocessableEntity, "register", p)
		return
	}

	res, err := h.api.Register(r.Context(), upstream.RegisterRequest{
		Name:            name,
		Email:           email,
		Username:        username,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		if ae, ok := upstream.AsAPIError(err); ok && ae.Field != "" {
			h.logger.Printf("[Auth][Register] rejected user=%s kind=%s", username, ae.Kind)
			p.Errors.add(ae.Field, registrationMessage(ae.Kind))
			h.render(w, http.StatusUnprocessableEntity, "register", p)
			return
		}
		h.logger.Printf("[Auth][Register] error user=%s err=%v", username, err)
		p.Flash = "Registration is unavailable right now. Please try again."
		h.render(w, http.StatusBadGateway, "register", p)
		return
	}

	// Sign the new account in so the survey step has a session to work with.
	login, err := h.api.Login(r.Context(), username, password)
	if err != nil {
		h.logger.Printf("[Auth][Register] post-register login failed user=%s err=%v", username, err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	s, err := h.sessions.Issue(r.Context(), username, login.Token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	userID := res.UserID
	if userID == "" {
		userID = login.RegisteredUserID
	}
	if userID != "" {
		_ = h.sessions.SetRegisteredUser(r.Context(), s.ID, userID)
	}
	session.WriteCookie(w, s)
	h.logger.Printf("[Auth][Register] ok user=%s", username)
	http.Redirect(w, r, "/survey", http.StatusSeeOther)
}

func registrationMessage(kind upstream.Kind) string {
	switch kind {
	case upstream.KindUsernameTaken, upstream.KindUserExists:
		return "This username is already taken"
	case upstream.KindEmailRegistered:
		return "This email is already registered"
	case upstream.KindPasswordMismatch:
		return "Passwords do not match"
	case upstream.KindInvalidEmail:
		return "Enter a valid email address"
	case upstream.KindInvalidUsername:
		return "This username is not allowed"
	}
	return "Registration failed"
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if s := session.FromContext(r.Context()); s != nil {
		if err := h.sessions.Delete(r.Context(), s.ID); err != nil {
			h.logger.Printf("[Auth][Logout] error user=%s err=%v", s.Username, err)
		} else {
			h.logger.Printf("[Auth][Logout] ok user=%s", s.Username)
		}
	}
	session.ExpireCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Theme persists the light/dark preference on the session.
func (h *Handler) Theme(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	s := session.FromContext(r.Context())
	if s == nil {
		writeError(w, http.StatusUnauthorized, "no session")
		return
	}
	theme := formValue(r, "theme")
	if err := h.sessions.SetTheme(r.Context(), s.ID, theme); err != nil {
		h.logger.Printf("[Theme][Set] error user=%s err=%v", s.Username, err)
		writeError(w, http.StatusInternalServerError, "theme update failed")
		return
	}
	if ref := r.Header.Get("Referer"); ref != "" {
		http.Redirect(w, r, ref, http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
