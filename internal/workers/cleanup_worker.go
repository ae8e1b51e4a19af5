package workers

import (
	"context"
	"log"
	"time"

	"github.com/vibekrana/frontend-main/internal/oauth"
	"github.com/vibekrana/frontend-main/internal/session"
)

// CleanupWorker prunes expired sessions, stale OAuth states, and abandoned
// connection attempts on an interval.
type CleanupWorker struct {
	Sessions *session.Manager
	States   *oauth.StateStore
	Attempts *oauth.Registry
	Interval time.Duration
	Logger   *log.Logger
}

// Start begins the cleanup loop and blocks until ctx is cancelled.
func (w *CleanupWorker) Start(ctx context.Context) {
	if w.Interval <= 0 {
		w.Interval = 10 * time.Minute
	}
	if w.Logger == nil {
		w.Logger = log.Default()
	}

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.Logger.Printf("[CleanupWorker] started (interval=%s)", w.Interval)

	for {
		select {
		case <-ctx.Done():
			w.Logger.Printf("[CleanupWorker] stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *CleanupWorker) sweep(ctx context.Context) {
	if w.Sessions != nil {
		if n, err := w.Sessions.PruneExpired(ctx); err != nil {
			w.Logger.Printf("[CleanupWorker] sessions error: %v", err)
		} else if n > 0 {
			w.Logger.Printf("[CleanupWorker] pruned %d expired sessions", n)
		}
	}
	if w.States != nil {
		if n, err := w.States.PruneExpired(ctx); err != nil {
			w.Logger.Printf("[CleanupWorker] states error: %v", err)
		} else if n > 0 {
			w.Logger.Printf("[CleanupWorker] pruned %d stale oauth states", n)
		}
	}
	if w.Attempts != nil {
		if n := w.Attempts.Sweep(); n > 0 {
			w.Logger.Printf("[CleanupWorker] swept %d abandoned attempts", n)
		}
	}
}
