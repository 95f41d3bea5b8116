// Package session serializes access to playback sessions. Navigation is a
// read-modify-write over the stored session, so concurrent Next/Previous
// calls for the same session must not interleave.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tourforge/tourforge/internal/logging"
	"github.com/tourforge/tourforge/pkg/domain"
	"github.com/tourforge/tourforge/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager wraps a SessionStore with per-session locks. It uses reference
// counting to garbage collect locks for idle sessions.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a session manager over the given store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must Lock entry.mu and call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and drops the entry at zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()
	return fn(ctx)
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, id string) (*domain.TourSession, error) {
	var sess *domain.TourSession
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, id)
		return err
	})
	return sess, err
}

// Save persists the session state.
func (m *Manager) Save(ctx context.Context, sess *domain.TourSession) error {
	return m.WithLock(ctx, sess.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, sess)
	})
}

// Update loads the session, applies fn to it, and saves the result, all
// under the session lock. This is the path navigation handlers use.
func (m *Manager) Update(ctx context.Context, id string, fn func(*domain.TourSession) error) (*domain.TourSession, error) {
	var sess *domain.TourSession
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		sess, err = m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(sess); err != nil {
			return err
		}
		if err := m.store.Save(ctx, sess); err != nil {
			return fmt.Errorf("failed to save session %s: %w", id, err)
		}
		return nil
	})
	return sess, err
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// ListByUser delegates to the store; listing does not touch session locks.
func (m *Manager) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.TourSession, error) {
	return m.store.ListByUser(ctx, userID, limit)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}
