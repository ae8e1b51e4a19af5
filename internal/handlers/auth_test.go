package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/vibekrana/frontend-main/internal/session"
)

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestLoginSuccessSetsSessionAndRedirects(t *testing.T) {
	e := newTestEnv(t)
	e.api.set(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/login" {
			t.Errorf("unexpected api call: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1", "registered_user_id": "u-9"})
	})

	resp := e.postForm("/login", url.Values{"username": {"grace"}, "password": {"hunter22"}})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/connect" {
		t.Fatalf("location = %q", loc)
	}
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("session cookie not set")
	}
	s, err := e.sessions.Get(context.Background(), cookie.Value)
	if err != nil || s == nil {
		t.Fatalf("session lookup: %v %v", s, err)
	}
	if s.Token != "tok-1" || s.RegisteredUser != "u-9" {
		t.Fatalf("session = %+v", s)
	}
}

func TestLoginHonorsNextParameter(t *testing.T) {
	e := newTestEnv(t)
	e.api.set(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})
	resp := e.postForm("/login", url.Values{
		"username": {"grace"}, "password": {"hunter22"}, "next": {"/profile"},
	})
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != "/profile" {
		t.Fatalf("location = %q", loc)
	}

	// Absolute URLs are never followed.
	resp = e.postForm("/login", url.Values{
		"username": {"grace"}, "password": {"hunter22"}, "next": {"https://evil.example/"},
	})
	resp.Body.Close()
	if loc := resp.Header.Get("Location"); loc != "/connect" {
		t.Fatalf("unsafe next followed: %q", loc)
	}
}

func TestLoginFailureIsGeneric(t *testing.T) {
	e := newTestEnv(t)
	e.api.set(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "user grace has no such password"})
	})
	resp := e.postForm("/login", url.Values{"username": {"grace"}, "password": {"nope"}})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Invalid username or password") {
		t.Fatal("generic failure message missing")
	}
	if strings.Contains(body, "no such password") {
		t.Fatal("upstream prose leaked into the page")
	}
}

func TestLoginUnavailableBackend(t *testing.T) {
	e := newTestEnv(t)
	e.api.set(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	resp := e.postForm("/login", url.Values{"username": {"grace"}, "password": {"pw"}})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(readBody(t, resp), "unavailable") {
		t.Fatal("unavailability message missing")
	}
}

func TestRegisterValidationReportsAllFields(t *testing.T) {
	e := newTestEnv(t)
	e.api.set(func(w http.ResponseWriter, r *http.Request) {
		t.Error("api should not be called for an invalid form")
	})
	resp := e.postForm("/register", url.Values{
		"name":            {"J"},
		"email":           {"not-an-email"},
		"username":        {"a!"},
		"password":        {"123"},
		"confirmPassword": {"456"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	for _, msg := range []string{
		"Name must be at least 2 characters",
		"Enter a valid email address",
		"Username must be at least 3 characters",
		"Password must be at least 6 characters",
		"Passwords do not match",
	} {
		if !strings.Contains(body, msg) {
			t.Errorf("missing validation message %q", msg)
		}
	}
}

func TestRegisterConflictMapsToField(t *testing.T) {
	e := newTestEnv(t)
	e.api.set(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Username already exists"})
	})
	resp := e.postForm("/register", url.Values{
		"name":            {"Grace Hopper"},
		"email":           {"grace@example.com"},
		"username":        {"grace"},
		"password":        {"hunter22"},
		"confirmPassword": {"hunter22"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(readBody(t, resp), "This username is already taken") {
		t.Fatal("conflict message missing")
	}
}

func TestRegisterSuccessSignsInAndStartsSurvey(t *testing.T) {
	e := newTestEnv(t)
	e.api.set(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/register":
			json.NewEncoder(w).Encode(map[string]string{"user_id": "u-1"})
		case "/user/login":
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
		default:
			t.Errorf("unexpected api call: %s", r.URL.Path)
		}
	})
	resp := e.postForm("/register", url.Values{
		"name":            {"Grace Hopper"},
		"email":           {"grace@example.com"},
		"username":        {"grace"},
		"password":        {"hunter22"},
		"confirmPassword": {"hunter22"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/survey" {
		t.Fatalf("location = %q", loc)
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	e := newTestEnv(t)
	s := e.signIn("grace", "tok-1")

	resp := e.postForm("/logout", url.Values{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got, err := e.sessions.Get(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("session should be deleted after logout")
	}
}

func TestThemeTogglePersists(t *testing.T) {
	e := newTestEnv(t)
	s := e.signIn("grace", "tok-1")

	resp := e.postForm("/theme", url.Values{"theme": {"light"}})
	resp.Body.Close()
	got, err := e.sessions.Get(context.Background(), s.ID)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.Theme != "light" {
		t.Fatalf("theme = %q", got.Theme)
	}
}
