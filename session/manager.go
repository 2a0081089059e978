package session

import (
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"

	"github.com/kochabx/ciphertrace/core/trace"
	"github.com/kochabx/ciphertrace/errors"
	"github.com/kochabx/ciphertrace/log"
)

const (
	defaultPoolSize      = 256
	defaultTTL           = 30 * time.Minute
	defaultSweepSchedule = "@every 1m"
)

// Manager is the in-memory session registry. Observer callbacks are
// dispatched on a shared worker pool; an idle sweeper expires sessions
// that have seen no control call within the TTL.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	pool     *ants.Pool
	cron     *cron.Cron
	ttl      time.Duration
	interval time.Duration
	schedule string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTTL sets the idle lifetime of a session.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithPoolSize sets the size of the fan-out worker pool.
func WithPoolSize(size int) ManagerOption {
	return func(m *Manager) {
		if size > 0 {
			m.resizePool(size)
		}
	}
}

// WithDefaultInterval sets the animator tick period new sessions start
// with.
func WithDefaultInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithSweepSchedule sets the cron spec of the idle sweeper.
func WithSweepSchedule(spec string) ManagerOption {
	return func(m *Manager) {
		if spec != "" {
			m.schedule = spec
		}
	}
}

// NewManager creates a registry and starts its idle sweeper.
func NewManager(opts ...ManagerOption) (*Manager, error) {
	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		sessions: make(map[string]*Session),
		pool:     pool,
		cron:     cron.New(),
		ttl:      defaultTTL,
		interval: time.Second,
		schedule: defaultSweepSchedule,
	}

	for _, opt := range opts {
		opt(m)
	}

	if _, err := m.cron.AddFunc(m.schedule, m.sweep); err != nil {
		pool.Release()
		return nil, err
	}
	m.cron.Start()

	return m, nil
}

func (m *Manager) resizePool(size int) {
	m.pool.Tune(size)
}

// Create registers a new session around seq and returns it.
func (m *Manager) Create(algo trace.Algorithm, seq *trace.Sequence) *Session {
	s := newSession(algo, seq, m.interval, m.dispatch)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	log.Debug().Str("session", s.ID).Str("algorithm", string(algo)).Int("steps", seq.Len()).Msg("session created")
	return s
}

// Get looks a session up by id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.New(404, "session %s not found", id)
	}
	s.touch()
	return s, nil
}

// Remove closes and deletes a session. Removing an unknown id is a
// no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.close()
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the sweeper, the worker pool and every session.
func (m *Manager) Close() {
	m.cron.Stop()

	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}

	m.pool.Release()
}

// dispatch hands a callback to the worker pool, falling back to inline
// execution when the pool is saturated or released.
func (m *Manager) dispatch(fn func()) {
	if err := m.pool.Submit(fn); err != nil {
		fn()
	}
}

// sweep expires sessions idle past the TTL.
func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
		log.Debug().Str("session", s.ID).Msg("idle session expired")
	}
}
