// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package authz

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/voyara/voyara/internal/platform/sec"
)

// # Permission Registry

// Registry is the canonical catalogue of permissions and role defaults.
//
// # Concurrency
//
// The catalogue and role mapping are fixed at construction and never
// mutated afterwards, so a Registry is safe for concurrent use.
type Registry struct {
	store        Repository
	catalogue    []Permission
	roleDefaults map[sec.UserRole]PermissionSet
	logger       *slog.Logger
}

// NewRegistry constructs a Registry over the given catalogue and the
// role → default-permission-name mapping.
//
// The mapping is injected rather than read from a package-level table so
// tests can substitute reduced role catalogues.
func NewRegistry(store Repository, catalogue []Permission, roleGrants map[sec.UserRole][]string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	defaults := make(map[sec.UserRole]PermissionSet, len(roleGrants))
	for role, names := range roleGrants {
		defaults[role] = NewPermissionSet(names...)
	}

	return &Registry{
		store:        store,
		catalogue:    catalogue,
		roleDefaults: defaults,
		logger:       logger,
	}
}

/*
Seed ensures every catalogue permission exists in storage.

Description: Idempotent. Existing rows keep their descriptions untouched;
re-running on an already-seeded database creates nothing.

Parameters:
  - context: context.Context

Returns:
  - int: Count of newly created permissions (0 on a warm database)
  - error: Storage failures
*/
func (registry *Registry) Seed(context context.Context) (int, error) {
	created := 0

	for _, permission := range registry.catalogue {
		wasCreated, err := registry.store.EnsurePermission(context, permission)
		if err != nil {
			return created, fmt.Errorf("authz: failed to seed permission %q: %w", permission.Name, err)
		}
		if wasCreated {
			created++
		}
	}

	registry.logger.Info("permission_catalogue_seeded",
		slog.Int("total", len(registry.catalogue)),
		slog.Int("created", created),
	)

	return created, nil
}

// CategoryGroup is a category together with its permissions, for UI consumption.
type CategoryGroup struct {
	Category    string       `json:"category"`
	Permissions []Permission `json:"permissions"`
}

// ListByCategory returns the catalogue grouped by category.
//
// Categories are sorted alphabetically; permissions keep catalogue order
// within their category.
func (registry *Registry) ListByCategory() []CategoryGroup {
	byCategory := make(map[string][]Permission)
	for _, permission := range registry.catalogue {
		byCategory[permission.Category] = append(byCategory[permission.Category], permission)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	groups := make([]CategoryGroup, 0, len(categories))
	for _, category := range categories {
		groups = append(groups, CategoryGroup{
			Category:    category,
			Permissions: byCategory[category],
		})
	}

	return groups
}

// DefaultsForRole returns the immutable default permission set for a role.
//
// Unknown roles yield the empty set, not an error: new roles may be added
// to the enumeration before this table learns about them.
func (registry *Registry) DefaultsForRole(role sec.UserRole) PermissionSet {
	defaults, ok := registry.roleDefaults[role]
	if !ok {
		return PermissionSet{}
	}

	// Copy so callers can never mutate the canonical table.
	copied := make(PermissionSet, len(defaults))
	for name := range defaults {
		copied[name] = struct{}{}
	}
	return copied
}

// Exists reports whether a permission name is part of the catalogue.
func (registry *Registry) Exists(name string) bool {
	for _, permission := range registry.catalogue {
		if permission.Name == name {
			return true
		}
	}
	return false
}
