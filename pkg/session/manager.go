package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"partnerlab-agent-be/internal/pkg/logger"
	"partnerlab-agent-be/pkg/labform"
)

const DefaultExpiry = 24 * time.Hour

// lockEntry is a per-session mutex with a reference count so idle entries
// can be dropped from the map.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager is the only component that creates, mutates or destroys sessions.
type Manager struct {
	repo   Repository
	engine *labform.Engine

	// sweepMu is held shared by single-session operations and exclusively
	// by SweepExpired.
	sweepMu sync.RWMutex
	mu      sync.Mutex
	locks   map[string]*lockEntry

	expiry  time.Duration
	now     func() time.Time
	logger  logger.ILogger
	metrics Recorder
}

type Option func(*Manager)

// ResolveExpiry returns the window a Manager built WithExpiry(d) uses:
// d when positive, DefaultExpiry otherwise.
func ResolveExpiry(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return DefaultExpiry
}

// WithExpiry sets the inactivity window after which a session is gone.
func WithExpiry(d time.Duration) Option {
	return func(m *Manager) {
		m.expiry = ResolveExpiry(d)
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithLogger(l logger.ILogger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

func WithMetrics(r Recorder) Option {
	return func(m *Manager) {
		m.metrics = r
	}
}

func NewManager(repo Repository, engine *labform.Engine, opts ...Option) *Manager {
	m := &Manager{
		repo:    repo,
		engine:  engine,
		locks:   make(map[string]*lockEntry),
		expiry:  DefaultExpiry,
		now:     time.Now,
		logger:  logger.NewNopLogger(),
		metrics: nopRecorder{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Expiry() time.Duration {
	return m.expiry
}

func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.locks[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// withLock runs fn while holding the session's lock.
func (m *Manager) withLock(id string, fn func() error) error {
	m.sweepMu.RLock()
	defer m.sweepMu.RUnlock()

	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()
	return fn()
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return now.Sub(s.LastAccessedAt) > m.expiry
}

// load fetches a live session and refreshes its last access. Expired
// sessions are purged on the way. Must run under the session lock.
func (m *Manager) load(ctx context.Context, id string) (*Session, error) {
	s, err := m.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := m.now()
	if !s.IsActive {
		return nil, ErrSessionNotFound
	}
	if m.expired(s, now) {
		if err := m.repo.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("purge expired session: %w", err)
		}
		m.metrics.SessionClosed(ReasonExpired)
		m.logger.Info("SESSION", "Purged expired session", map[string]interface{}{
			"session_id":       id,
			"last_accessed_at": s.LastAccessedAt,
		})
		return nil, ErrSessionNotFound
	}
	s.LastAccessedAt = now
	return s, nil
}

// Create starts a session with an empty form for the given user.
func (m *Manager) Create(ctx context.Context, userEmail string) (*Session, error) {
	now := m.now()
	s := &Session{
		ID:             uuid.NewString(),
		UserEmail:      userEmail,
		Form:           labform.NewFormState(),
		CreatedAt:      now,
		LastAccessedAt: now,
		IsActive:       true,
	}

	err := m.withLock(s.ID, func() error {
		return m.repo.Save(ctx, s)
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.metrics.SessionStarted()
	m.logger.Info("SESSION", "Created session", map[string]interface{}{
		"session_id": s.ID,
		"user_email": userEmail,
	})
	return s.Clone(), nil
}

// Get returns a snapshot of the session and refreshes its last access.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	var out *Session
	err := m.withLock(id, func() error {
		s, err := m.load(ctx, id)
		if err != nil {
			return err
		}
		if err := m.repo.Save(ctx, s); err != nil {
			return err
		}
		out = s.Clone()
		return nil
	})
	return out, err
}

// FormData returns a copy of the session's form.
func (m *Manager) FormData(ctx context.Context, id string) (labform.FormState, error) {
	s, err := m.Get(ctx, id)
	if err != nil {
		return labform.FormState{}, err
	}
	return s.Form, nil
}

// UpdateField writes a validated value into the session's form. Writing the
// same value twice leaves the form unchanged.
func (m *Manager) UpdateField(ctx context.Context, id string, v labform.Validated) error {
	if v.IsZero() {
		return labform.ErrUnvalidated
	}
	err := m.withLock(id, func() error {
		s, err := m.load(ctx, id)
		if err != nil {
			return err
		}
		if err := s.Form.Apply(v); err != nil {
			return err
		}
		return m.repo.Save(ctx, s)
	})
	if err != nil {
		return err
	}

	m.metrics.FieldWritten(v.Field().String())
	m.logger.Debug("SESSION", "Updated field", map[string]interface{}{
		"session_id": id,
		"field":      v.Field().String(),
	})
	return nil
}

// ClearField removes a field from the form. It reports whether the field was set.
func (m *Manager) ClearField(ctx context.Context, id string, field labform.Field) (bool, error) {
	var removed bool
	err := m.withLock(id, func() error {
		s, err := m.load(ctx, id)
		if err != nil {
			return err
		}
		removed = s.Form.Delete(field)
		return m.repo.Save(ctx, s)
	})
	return removed, err
}

// CheckCompleteness validates the whole form as it stands now.
func (m *Manager) CheckCompleteness(ctx context.Context, id string) (labform.Report, error) {
	form, err := m.FormData(ctx, id)
	if err != nil {
		return labform.Report{}, err
	}
	return m.engine.ValidateForm(form), nil
}

// Summary renders the session's form with its completeness verdict.
func (m *Manager) Summary(ctx context.Context, id string) (string, error) {
	form, err := m.FormData(ctx, id)
	if err != nil {
		return "", err
	}
	return labform.Summary(form, m.engine.ValidateForm(form)), nil
}

// Delete destroys the session. Unknown or expired ids give ErrSessionNotFound.
func (m *Manager) Delete(ctx context.Context, id string) error {
	err := m.withLock(id, func() error {
		if _, err := m.load(ctx, id); err != nil {
			return err
		}
		return m.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	m.metrics.SessionClosed(ReasonDeleted)
	m.logger.Info("SESSION", "Deleted session", map[string]interface{}{"session_id": id})
	return nil
}

// SweepExpired removes every session idle for longer than the expiry window
// and returns how many were removed.
func (m *Manager) SweepExpired(ctx context.Context) (int, error) {
	m.sweepMu.Lock()
	defer m.sweepMu.Unlock()

	ids, err := m.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	now := m.now()
	removed := 0
	for _, id := range ids {
		s, err := m.repo.Get(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("load session %s: %w", id, err)
		}
		if s.IsActive && !m.expired(s, now) {
			continue
		}
		if err := m.repo.Delete(ctx, id); err != nil {
			return removed, fmt.Errorf("delete session %s: %w", id, err)
		}
		removed++
		m.metrics.SessionClosed(ReasonExpired)
	}

	if removed > 0 {
		m.logger.Info("SESSION", "Swept expired sessions", map[string]interface{}{"removed": removed})
	}
	return removed, nil
}

// Count returns the number of stored sessions, expired ones included until swept.
func (m *Manager) Count(ctx context.Context) (int, error) {
	ids, err := m.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// StartJanitor sweeps on every tick until ctx is cancelled.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := m.SweepExpired(ctx); err != nil {
					m.logger.Warn("SESSION", "Sweep failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}
	}()
}
