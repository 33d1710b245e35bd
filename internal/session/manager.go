package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smartcopro-dashboard/internal/upstream"
)

// Authenticator is the slice of the upstream client login needs.
type Authenticator interface {
	ObtainToken(ctx context.Context, creds upstream.Credentials) (string, error)
}

// Manager owns the session lifecycle: login against the upstream token
// endpoint, lookup on every request, logout and expiry.
type Manager struct {
	auth   Authenticator
	store  Store
	ttl    time.Duration
	logger *zap.Logger
	clock  func() time.Time
}

// NewManager constructs a session manager.
func NewManager(auth Authenticator, store Store, ttl time.Duration, logger *zap.Logger) (*Manager, error) {
	if auth == nil {
		return nil, errors.New("session: nil authenticator")
	}
	if store == nil {
		return nil, errors.New("session: nil store")
	}
	if ttl <= 0 {
		return nil, errors.New("session: ttl must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{auth: auth, store: store, ttl: ttl, logger: logger, clock: func() time.Time { return time.Now().UTC() }}, nil
}

// WithClock overrides time for tests.
func (m *Manager) WithClock(clock func() time.Time) *Manager {
	if clock != nil {
		m.clock = clock
	}
	return m
}

// Login exchanges credentials for a token and stores a new session. The
// upstream endpoint returns no profile, so the user record is fabricated:
// role derived from the username, email mirroring it, placeholder display
// names until the profile screen loads the real ones.
func (m *Manager) Login(ctx context.Context, creds upstream.Credentials) (Session, error) {
	token, err := m.auth.ObtainToken(ctx, creds)
	if err != nil {
		return Session{}, err
	}

	now := m.clock()
	role := DeriveRole(creds.Username)
	sess := Session{
		ID:    uuid.NewString(),
		Token: token,
		Role:  role,
		User: User{
			ID:        1,
			Username:  creds.Username,
			Email:     creds.Username,
			FirstName: "Utilisateur",
			LastName:  "PFA",
			Role:      role,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	m.logger.Info("session opened",
		zap.String("session_id", sess.ID),
		zap.String("username", creds.Username),
		zap.String("role", string(role)),
	)
	return sess, nil
}

// Find loads a live session. Expired sessions are removed and reported as
// missing.
func (m *Manager) Find(ctx context.Context, id string) (Session, error) {
	if id == "" {
		return Session{}, ErrNotFound
	}
	sess, err := m.store.Find(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Expired(m.clock()) {
		_ = m.store.Delete(ctx, id)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Logout removes a session. Missing sessions are not an error: logout is
// idempotent from the user's perspective.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	err := m.store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err == nil {
		m.logger.Info("session closed", zap.String("session_id", id))
	}
	return err
}

// SweepExpired purges sessions past their TTL. Wired to a cron schedule in
// main.
func (m *Manager) SweepExpired(ctx context.Context) {
	removed, err := m.store.DeleteExpired(ctx, m.clock())
	if err != nil {
		m.logger.Warn("session sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		m.logger.Info("session sweep", zap.Int("removed", removed))
	}
}

// ActiveCount reports live sessions for the metrics gauge.
func (m *Manager) ActiveCount(ctx context.Context) (int, error) {
	return m.store.ActiveCount(ctx, m.clock())
}
