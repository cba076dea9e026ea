package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/interfaces"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/domain/types"
)

// DefaultSessionTTL is how long an untouched session is kept
const DefaultSessionTTL = time.Hour

type sessionEntry struct {
	binding    *Binding
	lastAccess time.Time
}

// Sessions keeps one Binding per dashboard session in memory
type Sessions struct {
	mu        sync.RWMutex
	dashboard *Dashboard
	entries   map[types.SessionID]*sessionEntry
	ttl       time.Duration
	now       func() time.Time
}

var _ interfaces.SessionStore = (*Sessions)(nil)

// SessionsOption configures Sessions
type SessionsOption func(*Sessions)

// WithSessionTTL sets how long an untouched session is kept. Zero or
// negative disables expiry.
func WithSessionTTL(ttl time.Duration) SessionsOption {
	return func(s *Sessions) {
		s.ttl = ttl
	}
}

// WithClock replaces the time source used for expiry
func WithClock(now func() time.Time) SessionsOption {
	return func(s *Sessions) {
		s.now = now
	}
}

// NewSessions creates an empty session registry
func NewSessions(dashboard *Dashboard, opts ...SessionsOption) *Sessions {
	s := &Sessions{
		dashboard: dashboard,
		entries:   make(map[types.SessionID]*sessionEntry),
		ttl:       DefaultSessionTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a session at the dashboard's default selection
func (s *Sessions) Create(ctx context.Context) (types.SessionID, interfaces.SelectionBinding, error) {
	binding, err := NewBinding(ctx, s.dashboard, s.dashboard.DefaultSelection())
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to create binding")
	}

	id := types.NewSessionID()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(ctx)
	s.entries[id] = &sessionEntry{binding: binding, lastAccess: s.now()}

	ctxlog.From(ctx).Info("Dashboard session created",
		"session_id", id,
		"sessions", len(s.entries),
	)
	return id, binding, nil
}

// Get returns the binding of a session and refreshes its expiry
func (s *Sessions) Get(ctx context.Context, id types.SessionID) (interfaces.SelectionBinding, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "invalid session ID", goerr.V("id", id))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if ok && s.expiredLocked(entry) {
		s.removeLocked(ctx, id, entry)
		ok = false
	}
	if !ok {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "session not found", goerr.V("id", id))
	}
	entry.lastAccess = s.now()
	return entry.binding, nil
}

// Delete removes a session
func (s *Sessions) Delete(ctx context.Context, id types.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return goerr.Wrap(model.ErrSessionNotFound, "session not found", goerr.V("id", id))
	}
	delete(s.entries, id)
	entry.binding.Close()

	ctxlog.From(ctx).Info("Dashboard session deleted", "session_id", id)
	return nil
}

// Len returns the number of live sessions
func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Sessions) expiredLocked(entry *sessionEntry) bool {
	return s.ttl > 0 && s.now().Sub(entry.lastAccess) > s.ttl
}

func (s *Sessions) removeLocked(ctx context.Context, id types.SessionID, entry *sessionEntry) {
	delete(s.entries, id)
	entry.binding.Close()
	ctxlog.From(ctx).Debug("Dashboard session expired", "session_id", id)
}

func (s *Sessions) pruneLocked(ctx context.Context) int {
	n := 0
	for id, entry := range s.entries {
		if s.expiredLocked(entry) {
			s.removeLocked(ctx, id, entry)
			n++
		}
	}
	return n
}

// Prune removes every expired session and returns how many were removed
func (s *Sessions) Prune(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked(ctx)
}

// RunPruner removes expired sessions every interval until ctx is cancelled
func (s *Sessions) RunPruner(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Prune(ctx); n > 0 {
				ctxlog.From(ctx).Info("Expired dashboard sessions removed", "count", n)
			}
		}
	}
}
