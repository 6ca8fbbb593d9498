// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/platform/sec"
)

// newTestResolver builds a resolver over a reduced role catalogue so the
// expected sets are small enough to assert exactly.
func newTestResolver() *authz.Resolver {
	roleGrants := map[sec.UserRole][]string{
		sec.RoleCSAgent: {authz.PermViewItineraries},
	}
	registry := authz.NewRegistry(newFakeStore(), authz.DefaultCatalogue(), roleGrants, nil)
	return authz.NewResolver(registry)
}

/*
TestResolver_EffectivePermissions_Union verifies the defining property:
effective = role defaults ∪ explicit grants, exactly.
*/
func TestResolver_EffectivePermissions_Union(t *testing.T) {
	resolver := newTestResolver()

	subject := authz.Subject{
		UserID: "agent-1",
		Role:   sec.RoleCSAgent,
		Grants: []string{authz.PermViewAnalyticsRevenue},
	}

	effective := resolver.EffectivePermissions(subject)
	assert.Equal(t,
		[]string{authz.PermViewAnalyticsRevenue, authz.PermViewItineraries},
		effective.Names(),
	)
}

/*
TestResolver_EffectivePermissions_GrantOverlapsDefault verifies a grant that
duplicates a role default does not double-count.
*/
func TestResolver_EffectivePermissions_GrantOverlapsDefault(t *testing.T) {
	resolver := newTestResolver()

	subject := authz.Subject{
		Role:   sec.RoleCSAgent,
		Grants: []string{authz.PermViewItineraries},
	}

	effective := resolver.EffectivePermissions(subject)
	assert.Equal(t, []string{authz.PermViewItineraries}, effective.Names())
}

/*
TestResolver_EffectivePermissions_UnknownRole verifies unknown roles fall
back to only their explicit grants.
*/
func TestResolver_EffectivePermissions_UnknownRole(t *testing.T) {
	resolver := newTestResolver()

	subject := authz.Subject{
		Role:   sec.UserRole("night_auditor"),
		Grants: []string{authz.PermViewDestinations},
	}

	effective := resolver.EffectivePermissions(subject)
	assert.Equal(t, []string{authz.PermViewDestinations}, effective.Names())
}

/*
TestResolver_HasPermission covers membership and absence.
*/
func TestResolver_HasPermission(t *testing.T) {
	resolver := newTestResolver()

	subject := authz.Subject{Role: sec.RoleCSAgent}

	assert.True(t, resolver.HasPermission(subject, authz.PermViewItineraries))
	assert.False(t, resolver.HasPermission(subject, authz.PermDeleteItineraries))
}

/*
TestResolver_RequirePermission verifies the enforcement point returns a
Forbidden AppError on failure and nil on success.
*/
func TestResolver_RequirePermission(t *testing.T) {
	resolver := newTestResolver()
	subject := authz.Subject{Role: sec.RoleCSAgent}

	assert.NoError(t, resolver.RequirePermission(subject, authz.PermViewItineraries))

	err := resolver.RequirePermission(subject, authz.PermManagePermissions)
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "FORBIDDEN", appError.Code)
}

/*
TestResolver_Allowed exercises the middleware-facing adapter.
*/
func TestResolver_Allowed(t *testing.T) {
	resolver := newTestResolver()

	assert.True(t, resolver.Allowed("cs_agent", nil, authz.PermViewItineraries))
	assert.True(t, resolver.Allowed("cs_agent", []string{authz.PermEditItineraries}, authz.PermEditItineraries))
	assert.False(t, resolver.Allowed("cs_agent", nil, authz.PermEditItineraries))
}
