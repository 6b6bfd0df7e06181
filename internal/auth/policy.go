package auth

import (
	"strings"

	"rentora/internal/domain"
)

// Action is the outcome of evaluating a request path against the policy.
type Action int

const (
	// ActionAllow lets the request through untouched.
	ActionAllow Action = iota
	// ActionRedirect sends the client to Verdict.Location.
	ActionRedirect
)

// Verdict is a policy decision for a single request.
type Verdict struct {
	Action   Action
	Location string
}

// Rule maps a path prefix to the role required to enter it. An empty Role
// admits any authenticated session.
type Rule struct {
	Prefix string
	Role   domain.Role
}

// Policy is the declarative route-access table consulted by the guard
// middleware. It performs no I/O; decisions depend only on the request path
// and the session claims.
type Policy struct {
	Rules      []Rule
	SignInPath string
	HomePath   string
	DeniedPath string
}

// DefaultPolicy mirrors the platform's route layout: owner and tenant areas
// are role-gated, the dashboard only requires a session.
func DefaultPolicy() *Policy {
	return &Policy{
		Rules: []Rule{
			{Prefix: "/owner", Role: domain.RoleOwner},
			{Prefix: "/tenant", Role: domain.RoleTenant},
			{Prefix: "/dashboard"},
		},
		SignInPath: "/auth/sign-in",
		HomePath:   "/",
		DeniedPath: "/unauthorized",
	}
}

// Evaluate decides what to do with a request. claims is nil when no valid
// session token accompanied the request.
func (p *Policy) Evaluate(path string, claims *Claims) Verdict {
	// Reverse gate: an authenticated user has no business on the sign-in page.
	if matchPrefix(path, p.SignInPath) {
		if claims != nil {
			return Verdict{Action: ActionRedirect, Location: p.HomePath}
		}
		return Verdict{Action: ActionAllow}
	}

	for _, rule := range p.Rules {
		if !matchPrefix(path, rule.Prefix) {
			continue
		}
		if claims == nil {
			return Verdict{Action: ActionRedirect, Location: p.SignInPath}
		}
		if rule.Role != "" && claims.Role != rule.Role {
			return Verdict{Action: ActionRedirect, Location: p.DeniedPath}
		}
		return Verdict{Action: ActionAllow}
	}

	return Verdict{Action: ActionAllow}
}

// matchPrefix implements case-sensitive segment-prefix matching: "/owner"
// matches "/owner" and "/owner/123" but not "/owners".
func matchPrefix(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
