package gate

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"smartcopro-dashboard/internal/session"
)

// Paths every redirect in the gateway points at.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// SessionFinder is the slice of the session manager the gate needs.
type SessionFinder interface {
	Find(ctx context.Context, id string) (session.Session, error)
}

// Middleware gates protected routes: no live session redirects to the
// login screen, a role outside the route's required set redirects to the
// default dashboard. Only presence is checked here; actual token
// invalidation is reactive, through the upstream 401 policy.
type Middleware struct {
	cookies  *CookieCodec
	sessions SessionFinder
	policy   Policy
	logger   *zap.Logger
}

// NewMiddleware constructs the gate middleware.
func NewMiddleware(cookies *CookieCodec, sessions SessionFinder, policy Policy, logger *zap.Logger) (*Middleware, error) {
	if cookies == nil {
		return nil, errNilCookieCodec
	}
	if sessions == nil {
		return nil, errNilSessionFinder
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{cookies: cookies, sessions: sessions, policy: policy, logger: logger}, nil
}

// Wrap applies the gate to a handler.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.policy.IsExempt(r) {
			next.ServeHTTP(w, r)
			return
		}

		sessionID, err := m.cookies.SessionID(r)
		if err != nil {
			redirect(w, r, LoginPath)
			return
		}
		sess, err := m.sessions.Find(r.Context(), sessionID)
		if err != nil {
			m.cookies.Clear(w)
			redirect(w, r, LoginPath)
			return
		}

		if !roleAllowed(sess.Role, m.policy.RequiredRoles(r)) {
			m.logger.Debug("role rejected",
				zap.String("path", r.URL.Path),
				zap.String("role", string(sess.Role)),
			)
			redirect(w, r, DashboardPath)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
