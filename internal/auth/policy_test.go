package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rentora/internal/domain"
)

func TestPolicyEvaluate(t *testing.T) {
	policy := DefaultPolicy()

	owner := &Claims{UserID: "u1", Role: domain.RoleOwner}
	tenant := &Claims{UserID: "u2", Role: domain.RoleTenant}

	tests := []struct {
		name   string
		path   string
		claims *Claims
		want   Verdict
	}{
		{"unmatched path without session passes", "/about", nil, Verdict{Action: ActionAllow}},
		{"guarded path without session redirects to sign-in", "/dashboard", nil, Verdict{Action: ActionRedirect, Location: "/auth/sign-in"}},
		{"guarded subpath without session redirects to sign-in", "/owner/123", nil, Verdict{Action: ActionRedirect, Location: "/auth/sign-in"}},
		{"dashboard admits any session", "/dashboard/stats", tenant, Verdict{Action: ActionAllow}},
		{"owner area admits owner", "/owner/123", owner, Verdict{Action: ActionAllow}},
		{"owner area rejects tenant", "/owner/123", tenant, Verdict{Action: ActionRedirect, Location: "/unauthorized"}},
		{"tenant area admits tenant", "/tenant/listings", tenant, Verdict{Action: ActionAllow}},
		{"tenant area rejects owner", "/tenant/listings", owner, Verdict{Action: ActionRedirect, Location: "/unauthorized"}},
		{"prefix match is segment based", "/owners", tenant, Verdict{Action: ActionAllow}},
		{"exact prefix matches", "/owner", tenant, Verdict{Action: ActionRedirect, Location: "/unauthorized"}},
		{"sign-in page without session passes", "/auth/sign-in", nil, Verdict{Action: ActionAllow}},
		{"sign-in page with session redirects home", "/auth/sign-in", tenant, Verdict{Action: ActionRedirect, Location: "/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Evaluate(tt.path, tt.claims))
		})
	}
}

func TestMatchPrefix(t *testing.T) {
	assert.True(t, matchPrefix("/owner", "/owner"))
	assert.True(t, matchPrefix("/owner/123", "/owner"))
	assert.False(t, matchPrefix("/owners", "/owner"))
	assert.False(t, matchPrefix("/Owner/123", "/owner"))
	assert.False(t, matchPrefix("/owner", ""))
}
