package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"smartcopro-dashboard/internal/session"
)

// Store persists sessions in Postgres so the gateway survives restarts and
// can run with multiple instances.
type Store struct {
	db *sql.DB
}

// NewStore constructs a Postgres session store.
func NewStore(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, errors.New("session store: nil db")
	}
	return &Store{db: db}, nil
}

// EnsureSchema creates the sessions table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	token      TEXT NOT NULL,
	role       TEXT NOT NULL,
	user_data  JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`)
	return err
}

// Save inserts or replaces a session row.
func (s *Store) Save(ctx context.Context, sess session.Session) error {
	if sess.ID == "" {
		return errors.New("session store: empty id")
	}
	userData, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO sessions (id, token, role, user_data, created_at, expires_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
	token = EXCLUDED.token,
	role = EXCLUDED.role,
	user_data = EXCLUDED.user_data,
	expires_at = EXCLUDED.expires_at`,
		sess.ID, sess.Token, string(sess.Role), userData, sess.CreatedAt, sess.ExpiresAt)
	return err
}

// Find loads a session row by id.
func (s *Store) Find(ctx context.Context, id string) (session.Session, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, token, role, user_data, created_at, expires_at
FROM sessions WHERE id = $1`, id)

	var (
		sess     session.Session
		role     string
		userData []byte
	)
	err := row.Scan(&sess.ID, &sess.Token, &role, &userData, &sess.CreatedAt, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, err
	}
	sess.Role = session.Role(role)
	if err := json.Unmarshal(userData, &sess.User); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

// Delete removes a session row.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return session.ErrNotFound
	}
	return nil
}

// DeleteExpired purges rows past their expiry.
func (s *Store) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// ActiveCount counts live sessions.
func (s *Store) ActiveCount(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE expires_at > $1`, now).Scan(&count)
	return count, err
}
