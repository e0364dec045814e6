package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session is the server-side state behind an admin cookie.
type Session struct {
	ID                 string    `json:"id"`
	AdminAuthenticated bool      `json:"admin_authenticated"`
	LoginTime          time.Time `json:"login_time"`
	ExpiresAt          time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Get returns ErrNotFound for unknown ids.
type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

// Manager issues, resolves and ends admin sessions.
type Manager struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

func NewManager(store Store, ttl time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, ttl: ttl, now: time.Now, logger: logger}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Ping checks that the backing store is reachable.
func (m *Manager) Ping(ctx context.Context) error { return m.store.Ping(ctx) }

// Login starts a new authenticated session.
func (m *Manager) Login(ctx context.Context) (Session, error) {
	now := m.now()
	s := Session{
		ID:                 uuid.NewString(),
		AdminAuthenticated: true,
		LoginTime:          now.UTC().Truncate(time.Second),
		ExpiresAt:          now.Add(m.ttl).UTC().Truncate(time.Second),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Lookup returns a live session. Expired sessions are deleted and reported as
// ErrNotFound.
func (m *Manager) Lookup(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrNotFound
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if s.Expired(m.now()) {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Warn("failed to delete expired session", "error", err)
		}
		return Session{}, ErrNotFound
	}
	return s, nil
}

// Logout ends a session. Unknown ids are not an error.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return m.store.Delete(ctx, id)
}

func (m *Manager) PurgeExpired(ctx context.Context) (int, error) {
	return m.store.PurgeExpired(ctx, m.now())
}

// RunPurger removes expired sessions every interval until ctx is done.
func (m *Manager) RunPurger(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := m.PurgeExpired(ctx)
			if err != nil {
				m.logger.Error("session purge failed", "error", err)
				continue
			}
			if removed > 0 {
				m.logger.Info("purged expired sessions", "count", removed)
			}
		}
	}
}
