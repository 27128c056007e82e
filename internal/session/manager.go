package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"basegraph.app/storyforge/core/config"
)

// Manager maps session IDs to sessions. Sessions idle for longer than the
// TTL are evicted lazily on the next Resolve.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	opts     []Option
	now      func() time.Time
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

func NewManager(cfg config.SessionConfig, opts ...Option) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		ttl:      cfg.IdleTTL,
		opts:     append([]Option{WithMaxDocuments(cfg.MaxDocuments)}, opts...),
		now:      time.Now,
	}
}

// Resolve returns the session for sessionID, creating one when the ID is
// unknown. IDs that are not UUIDs are replaced by a fresh one; callers
// echo back the returned session's ID.
func (m *Manager) Resolve(sessionID string) (s *Session, created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.evictLocked(now)

	if parsed, err := uuid.Parse(sessionID); err == nil {
		sessionID = parsed.String()
		if e, ok := m.sessions[sessionID]; ok {
			e.lastSeen = now
			return e.session, false
		}
	} else {
		sessionID = uuid.NewString()
	}

	s = New(sessionID, m.opts...)
	m.sessions[sessionID] = &entry{session: s, lastSeen: now}
	slog.Debug("session created", "session_id", sessionID)
	return s, true
}

// Get returns an existing session without creating one.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.session, true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) evictLocked(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for sid, e := range m.sessions {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.sessions, sid)
			slog.Debug("session evicted", "session_id", sid, "idle", now.Sub(e.lastSeen).String())
		}
	}
}
