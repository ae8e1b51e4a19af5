// Package session provides server-side login sessions backed by SQLite. The
// browser only ever holds an opaque cookie; the API token, theme, and other
// per-user state live in the sessions table.
package session

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const CookieName = "dashboard_session"

// Session is one authenticated browser session. Zero value is not valid;
// sessions come from Manager.
type Session struct {
	ID             string
	Token          string
	Username       string
	Theme          string
	RegisteredUser string
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// Authenticated reports whether the session carries a usable identity.
// Stringified null values slip in when the remote API echoes empty fields, so
// they are rejected here rather than at every call site.
func (s *Session) Authenticated() bool {
	if s == nil {
		return false
	}
	for _, v := range []string{s.Token, s.Username} {
		switch strings.TrimSpace(v) {
		case "", "null", "undefined":
			return false
		}
	}
	return true
}

// Dark reports whether the session's theme preference is dark. Dark is the
// default.
func (s *Session) Dark() bool {
	return s == nil || s.Theme != "light"
}

type Manager struct {
	db     *sql.DB
	ttl    time.Duration
	logger *log.Logger
}

func NewManager(db *sql.DB, ttl time.Duration, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Manager{db: db, ttl: ttl, logger: logger}
}

// Issue creates a session for username holding the remote API token. Session
// lifetime is the configured TTL, shortened to the token's own exp claim when
// the token is a JWT that expires sooner.
func (m *Manager) Issue(ctx context.Context, username, token string) (*Session, error) {
	now := time.Now().UTC()
	expires := now.Add(m.ttl)
	if exp, ok := tokenExpiry(token); ok && exp.Before(expires) {
		expires = exp
	}
	s := &Session{
		ID:        uuid.NewString(),
		Token:     token,
		Username:  username,
		Theme:     "dark",
		CreatedAt: now,
		ExpiresAt: expires,
	}
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token, username, theme, registered_user, last_content_payload, created_at, expires_at)
		 VALUES (?, ?, ?, ?, '', '', ?, ?)`,
		s.ID, s.Token, s.Username, s.Theme,
		s.CreatedAt.Format(time.RFC3339Nano), s.ExpiresAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	m.logger.Printf("[Session][Issue] ok user=%s expires=%s", username, s.ExpiresAt.Format(time.RFC3339))
	return s, nil
}

// tokenExpiry peeks at a JWT's exp claim without verifying the signature.
// Verification belongs to the remote API; here the claim only bounds how long
// the session may outlive its token.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time.UTC(), true
}

// Get returns the live session for id, or (nil, nil) when it does not exist
// or has expired.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	row := m.db.QueryRowContext(ctx,
		`SELECT id, token, username, theme, registered_user, created_at, expires_at
		 FROM sessions WHERE id = ?`, id)
	var s Session
	var created, expires string
	err := row.Scan(&s.ID, &s.Token, &s.Username, &s.Theme, &s.RegisteredUser, &created, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, err
	}
	if s.ExpiresAt, err = time.Parse(time.RFC3339Nano, expires); err != nil {
		return nil, err
	}
	if time.Now().UTC().After(s.ExpiresAt) {
		_, _ = m.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		return nil, nil
	}
	return &s, nil
}

// FromRequest resolves the session cookie on r, if any.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}
	return m.Get(r.Context(), c.Value)
}

func (m *Manager) SetTheme(ctx context.Context, id, theme string) error {
	if theme != "light" {
		theme = "dark"
	}
	return m.update(ctx, id, `UPDATE sessions SET theme = ? WHERE id = ?`, theme, id)
}

// SetToken replaces the API token after a refresh login.
func (m *Manager) SetToken(ctx context.Context, id, token string) error {
	return m.update(ctx, id, `UPDATE sessions SET token = ? WHERE id = ?`, token, id)
}

// SetRegisteredUser records the user id the remote API assigned during
// registration, read back by the survey step.
func (m *Manager) SetRegisteredUser(ctx context.Context, id, userID string) error {
	return m.update(ctx, id, `UPDATE sessions SET registered_user = ? WHERE id = ?`, userID, id)
}

// SetLastContent freezes the generation payload so a retry resubmits exactly
// what was sent, not the current form values.
func (m *Manager) SetLastContent(ctx context.Context, id string, payload []byte) error {
	return m.update(ctx, id, `UPDATE sessions SET last_content_payload = ? WHERE id = ?`, string(payload), id)
}

func (m *Manager) LastContent(ctx context.Context, id string) ([]byte, error) {
	var payload string
	err := m.db.QueryRowContext(ctx, `SELECT last_content_payload FROM sessions WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, nil
	}
	return []byte(payload), nil
}

func (m *Manager) ClearLastContent(ctx context.Context, id string) error {
	return m.update(ctx, id, `UPDATE sessions SET last_content_payload = '' WHERE id = ?`, id)
}

func (m *Manager) update(ctx context.Context, id, query string, args ...any) error {
	res, err := m.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// PruneExpired removes expired rows. Run periodically from a background
// worker.
func (m *Manager) PruneExpired(ctx context.Context) (int64, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// WriteCookie sets the session cookie on w.
func WriteCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ExpireCookie clears the session cookie on w.
func ExpireCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type ctxKey struct{}

// IntoContext returns a child context carrying s.
func IntoContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by the auth middleware, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
