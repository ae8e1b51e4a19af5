package oauth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status of a poll against an attempt.
type Status int

const (
	// StatusPending means the popup has not finished yet.
	StatusPending Status = iota
	// StatusReady delivers the outcome. It is returned exactly once per
	// attempt; the first poll to see it consumes it.
	StatusReady
	// StatusGone means the attempt is unknown, already consumed, or swept.
	StatusGone
)

// Outcome is the terminal result of a connection attempt.
type Outcome struct {
	Success  bool
	Platform string
	Message  string
}

type attempt struct {
	platform   string
	username   string
	startedAt  time.Time
	resolved   bool
	consumed   bool
	resolvedAt time.Time
	outcome    Outcome
}

// Registry tracks in-flight connection attempts. An attempt is resolved by
// whichever completion arm gets there first (callback message or status
// poll); the second resolution is a no-op, and the outcome is handed out at
// most once.
type Registry struct {
	mu       sync.Mutex
	attempts map[string]*attempt
	ttl      time.Duration
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Registry{attempts: make(map[string]*attempt), ttl: ttl}
}

// Begin registers a new attempt and returns its id.
func (r *Registry) Begin(platform, username string) string {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[id] = &attempt{
		platform:  platform,
		username:  username,
		startedAt: time.Now(),
	}
	return id
}

// Resolve records the outcome for id. The first call wins and returns true;
// later calls leave the stored outcome untouched and return false. Resolving
// an unknown id returns false.
func (r *Registry) Resolve(id string, out Outcome) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok || a.resolved {
		return false
	}
	a.resolved = true
	a.resolvedAt = time.Now()
	a.outcome = out
	return true
}

// Take polls the attempt. A resolved outcome is delivered once; subsequent
// calls see StatusGone.
func (r *Registry) Take(id string) (Outcome, Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok || a.consumed {
		return Outcome{}, StatusGone
	}
	if !a.resolved {
		return Outcome{}, StatusPending
	}
	a.consumed = true
	return a.outcome, StatusReady
}

// Owner returns the username an attempt belongs to, for authorization checks
// on the poll endpoint.
func (r *Registry) Owner(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.attempts[id]
	if !ok {
		return "", false
	}
	return a.username, true
}

// Sweep drops attempts older than the TTL and returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := time.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, a := range r.attempts {
		if a.startedAt.Before(cutoff) || (a.consumed && a.resolvedAt.Before(cutoff)) {
			delete(r.attempts, id)
			n++
		}
	}
	return n
}
