package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vibekrana/frontend-main/internal/config"
	"github.com/vibekrana/frontend-main/internal/middleware"
	"github.com/vibekrana/frontend-main/internal/oauth"
	"github.com/vibekrana/frontend-main/internal/session"
	"github.com/vibekrana/frontend-main/internal/upstream"
)

// fakeAPI is a swappable stand-in for the remote marketing API.
type fakeAPI struct {
	mu      sync.Mutex
	handler http.HandlerFunc
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	h(w, r)
}

func (f *fakeAPI) set(h http.HandlerFunc) {
	f.mu.Lock()
	f.handler = h
	f.mu.Unlock()
}

type testEnv struct {
	t        *testing.T
	db       *sql.DB
	api      *fakeAPI
	sessions *session.Manager
	states   *oauth.StateStore
	attempts *oauth.Registry
	handler  *Handler
	server   *httptest.Server
	client   *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "dashboard.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	schema := []string{
		`CREATE TABLE sessions (
			id TEXT PRIMARY KEY, token TEXT NOT NULL, username TEXT NOT NULL,
			theme TEXT NOT NULL DEFAULT 'dark', registered_user TEXT NOT NULL DEFAULT '',
			last_content_payload TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL, expires_at TEXT NOT NULL)`,
		`CREATE TABLE oauth_states (
			state TEXT PRIMARY KEY, platform TEXT NOT NULL, username TEXT NOT NULL,
			attempt_id TEXT NOT NULL, used INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL, expires_at TEXT NOT NULL)`,
	}
	for _, q := range schema {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("schema: %v", err)
		}
	}

	api := &fakeAPI{}
	apiSrv := httptest.NewServer(api)
	t.Cleanup(apiSrv.Close)

	cfg := &config.Config{
		PublicBaseURL:     "http://localhost",
		APIBaseURL:        apiSrv.URL,
		SessionTTL:        time.Hour,
		OAuthStateTTL:     time.Minute,
		APIRateLimitRPS:   1000,
		APIRateLimitBurst: 1000,
		LinkedIn:          config.OAuthApp{ClientID: "li-client", Scopes: "w_member_social"},
		Instagram:         config.OAuthApp{ClientID: "ig-client", Scopes: "instagram_business_basic"},
	}
	sessions := session.NewManager(db, cfg.SessionTTL, log.Default())
	states := oauth.NewStateStore(db, cfg.OAuthStateTTL)
	attempts := oauth.NewRegistry(cfg.OAuthStateTTL)
	apiClient := upstream.New(upstream.Options{BaseURL: cfg.APIBaseURL, RPS: 1000, Burst: 1000})
	h := New(cfg, sessions, apiClient, states, attempts, log.Default())

	guard := middleware.NewGuard(sessions, log.Default())
	srv := httptest.NewServer(h.Router(guard))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testEnv{
		t: t, db: db, api: api, sessions: sessions, states: states,
		attempts: attempts, handler: h, server: srv, client: client,
	}
}

// signIn issues a session directly and installs its cookie in the client jar.
func (e *testEnv) signIn(username, token string) *session.Session {
	e.t.Helper()
	s, err := e.sessions.Issue(context.Background(), username, token)
	if err != nil {
		e.t.Fatalf("issue session: %v", err)
	}
	u, _ := url.Parse(e.server.URL)
	e.client.Jar.SetCookies(u, []*http.Cookie{{Name: session.CookieName, Value: s.ID}})
	return s
}

func (e *testEnv) get(path string) *http.Response {
	e.t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	if err != nil {
		e.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func (e *testEnv) postForm(path string, form url.Values) *http.Response {
	e.t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	if err != nil {
		e.t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	resp := e.get("/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]bool
	decodeBody(t, resp, &body)
	if !body["ok"] {
		t.Fatalf("body = %v", body)
	}
}

func TestUnknownRouteRedirectsToLogin(t *testing.T) {
	e := newTestEnv(t)
	resp := e.get("/no-such-page")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("location = %q", loc)
	}
}

func TestGuardedRoutesRedirectAnonymous(t *testing.T) {
	e := newTestEnv(t)
	for _, path := range []string{"/connect", "/content", "/profile", "/survey", "/schedule"} {
		resp := e.get(path)
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("%s: status = %d", path, resp.StatusCode)
		}
		loc := resp.Header.Get("Location")
		if loc != "/login?next="+url.QueryEscape(path) {
			t.Fatalf("%s: location = %q", path, loc)
		}
	}
}

func TestAvatarIsPublic(t *testing.T) {
	e := newTestEnv(t)
	resp := e.get("/avatar/grace.png?size=64")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
}
