// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package authz_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/platform/sec"
)

// fakeStore is an in-memory [authz.Repository] for registry and grant tests.
type fakeStore struct {
	permissions map[string]authz.Permission
	grants      map[string][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		permissions: make(map[string]authz.Permission),
		grants:      make(map[string][]string),
	}
}

func (store *fakeStore) EnsurePermission(_ context.Context, permission authz.Permission) (bool, error) {
	if _, exists := store.permissions[permission.Name]; exists {
		return false, nil
	}
	store.permissions[permission.Name] = permission
	return true, nil
}

func (store *fakeStore) ListGrants(_ context.Context, userID string) ([]string, error) {
	return store.grants[userID], nil
}

func (store *fakeStore) Grant(_ context.Context, userID, permissionName, _ string) error {
	for _, existing := range store.grants[userID] {
		if existing == permissionName {
			return nil
		}
	}
	store.grants[userID] = append(store.grants[userID], permissionName)
	return nil
}

func newTestRegistry(store authz.Repository) *authz.Registry {
	return authz.NewRegistry(store, authz.DefaultCatalogue(), authz.DefaultRoleGrants(), slog.Default())
}

/*
TestRegistry_Seed_Idempotent verifies the second seeding pass creates nothing
and never duplicates catalogue rows.
*/
func TestRegistry_Seed_Idempotent(t *testing.T) {
	store := newFakeStore()
	registry := newTestRegistry(store)
	ctx := context.Background()

	created, err := registry.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(authz.DefaultCatalogue()), created)

	// Second pass: warm database, zero newly-created entries.
	created, err = registry.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Len(t, store.permissions, len(authz.DefaultCatalogue()))
}

/*
TestRegistry_Seed_NeverOverwrites verifies an existing description survives
re-seeding with a changed catalogue entry.
*/
func TestRegistry_Seed_NeverOverwrites(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	original := authz.Permission{Name: "view_itineraries", Category: "itineraries", Description: "Original wording"}
	_, err := store.EnsurePermission(ctx, original)
	require.NoError(t, err)

	registry := newTestRegistry(store)
	_, err = registry.Seed(ctx)
	require.NoError(t, err)

	assert.Equal(t, "Original wording", store.permissions["view_itineraries"].Description)
}

/*
TestRegistry_DefaultsForRole covers known roles, unknown roles, and the
immutability of the returned set.
*/
func TestRegistry_DefaultsForRole(t *testing.T) {
	registry := newTestRegistry(newFakeStore())

	t.Run("known_role", func(t *testing.T) {
		defaults := registry.DefaultsForRole(sec.RoleCSAgent)
		assert.True(t, defaults.Has(authz.PermViewItineraries))
		assert.False(t, defaults.Has(authz.PermManagePermissions))
	})

	t.Run("unknown_role_yields_empty_set", func(t *testing.T) {
		defaults := registry.DefaultsForRole(sec.UserRole("night_auditor"))
		assert.Empty(t, defaults)
	})

	t.Run("returned_set_is_a_copy", func(t *testing.T) {
		first := registry.DefaultsForRole(sec.RoleCSAgent)
		delete(first, authz.PermViewItineraries)

		second := registry.DefaultsForRole(sec.RoleCSAgent)
		assert.True(t, second.Has(authz.PermViewItineraries))
	})
}

/*
TestRegistry_ListByCategory verifies grouping and category ordering.
*/
func TestRegistry_ListByCategory(t *testing.T) {
	registry := newTestRegistry(newFakeStore())

	groups := registry.ListByCategory()
	require.NotEmpty(t, groups)

	// Categories sorted alphabetically.
	for i := 1; i < len(groups); i++ {
		assert.Less(t, groups[i-1].Category, groups[i].Category)
	}

	total := 0
	for _, group := range groups {
		for _, permission := range group.Permissions {
			assert.Equal(t, group.Category, permission.Category)
		}
		total += len(group.Permissions)
	}
	assert.Equal(t, len(authz.DefaultCatalogue()), total)
}

/*
TestFakeStore_Grant_Idempotent mirrors the ON CONFLICT DO NOTHING semantics
of the real store: granting twice leaves a single entry.
*/
func TestFakeStore_Grant_Idempotent(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	require.NoError(t, store.Grant(ctx, "user-1", authz.PermViewAnalyticsRevenue, "admin-1"))
	require.NoError(t, store.Grant(ctx, "user-1", authz.PermViewAnalyticsRevenue, "admin-1"))

	grants, err := store.ListGrants(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{authz.PermViewAnalyticsRevenue}, grants)
}
