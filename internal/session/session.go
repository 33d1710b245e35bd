package session

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Role is the dashboard-side role a session operates under.
type Role string

const (
	RoleManager    Role = "MANAGER"
	RoleResident   Role = "RESIDENT"
	RoleCouncil    Role = "COUNCIL"
	RoleTechnician Role = "TECHNICIAN"
)

// NormalizeRole validates and normalizes a role string.
func NormalizeRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleManager, RoleResident, RoleCouncil, RoleTechnician:
		return Role(value), true
	default:
		return "", false
	}
}

// DeriveRole maps a username onto a role by case-insensitive substring
// match: the token endpoint returns no role, so "syndic" wins over "tech"
// wins over "conseil", everything else is a resident. A username like
// "technically" therefore lands on TECHNICIAN; this is a placeholder with
// no security value and the derivation is kept in one place so a
// backend-provided role can replace it.
func DeriveRole(username string) Role {
	lower := strings.ToLower(username)
	switch {
	case strings.Contains(lower, "syndic"):
		return RoleManager
	case strings.Contains(lower, "tech"):
		return RoleTechnician
	case strings.Contains(lower, "conseil"):
		return RoleCouncil
	default:
		return RoleResident
	}
}

// User is the profile record held alongside the token.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// Session is the client-held proof of login: token, role and profile.
// Lifetime runs from login until logout, expiry or an upstream 401.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Role      Role      `json:"role"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its TTL.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// ErrNotFound reports a missing or already-removed session.
var ErrNotFound = errors.New("session: not found")

// Store persists sessions. Implementations live under infrastructure/.
type Store interface {
	Save(ctx context.Context, sess Session) error
	Find(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	ActiveCount(ctx context.Context, now time.Time) (int, error)
}
