package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry records one user action passing through the gateway: logins,
// logouts and every mutation forwarded upstream.
type Entry struct {
	ID         string
	Actor      string
	Role       string
	Action     string
	Resource   string
	ResourceID string
	Outcome    string
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}

// Outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeError  = "error"
	OutcomeDenied = "denied"
)

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewID generates a random audit id.
func NewID() string {
	return "audit-" + uuid.NewString()
}

// Nop discards entries. Used when the gateway runs without a database.
type Nop struct{}

// Log implements Logger.
func (Nop) Log(context.Context, Entry) error { return nil }
