// Package oauth implements the popup connection handshake: server-issued
// single-use state tokens, provider authorize URLs, and the in-memory attempt
// registry that arbitrates the two completion signals.
package oauth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// ErrStateInvalid covers unknown, expired, and already-consumed states alike.
// Callers must not distinguish them; a replayed state looks identical to a
// forged one.
var ErrStateInvalid = errors.New("oauth: invalid state")

// StateStore persists pending handshake states. Each state binds the platform,
// the session's username, and the attempt it belongs to.
type StateStore struct {
	db  *sql.DB
	ttl time.Duration
}

func NewStateStore(db *sql.DB, ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateStore{db: db, ttl: ttl}
}

// Issue mints a crypto-random state bound to the given identity. The caller
// never supplies any part of the token.
func (s *StateStore) Issue(ctx context.Context, platform, username, attemptID string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("oauth: state entropy: %w", err)
	}
	state := hex.EncodeToString(buf)
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO oauth_states (state, platform, username, attempt_id, used, created_at, expires_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?)`,
		state, platform, username, attemptID,
		now.Format(time.RFC3339Nano), now.Add(s.ttl).Format(time.RFC3339Nano))
	if err != nil {
		return "", err
	}
	return state, nil
}

// Consume validates and burns a state in one guarded update, so concurrent
// callbacks with the same state cannot both succeed. It returns the bound
// username and attempt id.
func (s *StateStore) Consume(ctx context.Context, platform, state string) (username, attemptID string, err error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`UPDATE oauth_states SET used = 1
		 WHERE state = ? AND platform = ? AND used = 0 AND expires_at > ?`,
		state, platform, now)
	if err != nil {
		return "", "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", "", err
	}
	if n == 0 {
		return "", "", ErrStateInvalid
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT username, attempt_id FROM oauth_states WHERE state = ?`, state).
		Scan(&username, &attemptID)
	if err != nil {
		return "", "", err
	}
	return username, attemptID, nil
}

// PruneExpired deletes stale states, consumed or not.
func (s *StateStore) PruneExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM oauth_states WHERE expires_at < ?`,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
