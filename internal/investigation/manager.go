package investigation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Manager hands out investigation sessions keyed by the ID stored in the
// browser session cookie. Sessions live in memory only; evidence never hits
// the disk.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{ //nolint:exhaustruct // mutex needs no initialization
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for the ID, creating it on first use.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		session = NewSession()
		m.sessions[id] = session
	}
	return session
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Prune drops sessions that have been idle for longer than maxIdle. Sessions
// mid-analysis are touched by Submit and thus never idle long enough.
func (m *Manager) Prune(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	pruned := 0
	cutoff := time.Now().Add(-maxIdle)
	for id, session := range m.sessions {
		if session.lastTouched().Before(cutoff) {
			delete(m.sessions, id)
			pruned++
		}
	}
	return pruned
}

// StartSweeping prunes idle sessions on the given interval until the context
// is cancelled.
func (m *Manager) StartSweeping(ctx context.Context, interval, maxIdle time.Duration, logger *slog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if pruned := m.Prune(maxIdle); pruned > 0 {
					logger.LogAttrs(ctx, slog.LevelDebug, "pruned idle investigations",
						slog.Int("count", pruned))
				}
			}
		}
	}()
}
