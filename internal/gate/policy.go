package gate

import (
	"net/http"
	"strings"

	"smartcopro-dashboard/internal/session"
)

// Policy resolves which roles a route requires. Screens live under a
// per-role root: manager screens under /syndic/, resident screens under
// /resident/, technician screens under /technicien/; /dashboard and
// /profile are shared by every signed-in role.
type Policy struct {
	ExemptPaths    map[string]struct{}
	ExemptPrefixes []string
}

// NewDefaultPolicy builds the default policy with exemptions.
func NewDefaultPolicy(exemptPaths []string, exemptPrefixes []string) Policy {
	set := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		set[path] = struct{}{}
	}
	return Policy{ExemptPaths: set, ExemptPrefixes: exemptPrefixes}
}

// IsExempt returns true when a request skips the gate entirely.
func (p Policy) IsExempt(r *http.Request) bool {
	if r == nil {
		return true
	}
	if _, ok := p.ExemptPaths[r.URL.Path]; ok {
		return true
	}
	for _, prefix := range p.ExemptPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// RequiredRoles resolves the role set for a request. The empty set means
// any authenticated session may pass.
func (p Policy) RequiredRoles(r *http.Request) []session.Role {
	if r == nil {
		return nil
	}
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/syndic/"):
		return []session.Role{session.RoleManager}
	case strings.HasPrefix(path, "/resident/"):
		return []session.Role{session.RoleResident}
	case strings.HasPrefix(path, "/technicien/"):
		return []session.Role{session.RoleTechnician}
	}
	return nil
}

// roleAllowed reports membership in a required set; the empty set allows
// every role.
func roleAllowed(role session.Role, required []session.Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, candidate := range required {
		if role == candidate {
			return true
		}
	}
	return false
}
