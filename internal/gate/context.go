package gate

import (
	"context"

	"smartcopro-dashboard/internal/session"
)

type contextKey string

const contextKeySession contextKey = "gate.session"

// WithSession stores the authenticated session in context.
func WithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, contextKeySession, sess)
}

// SessionFrom extracts the authenticated session from context.
func SessionFrom(ctx context.Context) (session.Session, bool) {
	if ctx == nil {
		return session.Session{}, false
	}
	sess, ok := ctx.Value(contextKeySession).(session.Session)
	return sess, ok
}

// TokenFrom yields the upstream token for the current request, or "" when
// unauthenticated. Wired as the upstream client's TokenSource.
func TokenFrom(ctx context.Context) string {
	sess, ok := SessionFrom(ctx)
	if !ok {
		return ""
	}
	return sess.Token
}
