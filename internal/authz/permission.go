// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

/*
Package authz implements permission-based authorization for the back office.

It defines the canonical permission catalogue, the role → default-permission
mapping, and a pure resolver that computes a user's effective permission set.

# Architecture

  - Registry: Single source of truth for permission names; seeds the
    database catalogue idempotently at startup.
  - Resolver: Read-side set computation (role defaults ∪ explicit grants).
    Performs no I/O, safe to call on every request.
  - Repository: Postgres persistence for the catalogue and per-user grants.

Grants are strictly additive: an explicit grant can extend a role's
defaults but nothing can subtract from them.
*/
package authz

import (
	"sort"

	"github.com/voyara/voyara/internal/platform/sec"
)

// # Domain Entities

// Permission is a named capability in the back office.
//
// The name is the stable identity; category and description exist for
// grouping and UI display only and are never updated after seeding.
type Permission struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// # Permission Categories

const (
	CategoryItineraries    = "itineraries"
	CategoryCatalogue      = "catalogue"
	CategoryAnalytics      = "analytics"
	CategoryAdministration = "administration"
)

// # Permission Names

const (
	PermViewItineraries    = "view_itineraries"
	PermCreateItineraries  = "create_itineraries"
	PermEditItineraries    = "edit_itineraries"
	PermDeleteItineraries  = "delete_itineraries"
	PermPublishItineraries = "publish_itineraries"

	PermViewDestinations   = "view_destinations"
	PermManageDestinations = "manage_destinations"
	PermManageTours        = "manage_tours"

	PermViewAnalyticsRevenue  = "view_analytics_revenue"
	PermViewAnalyticsBookings = "view_analytics_bookings"

	PermManageUsers       = "manage_users"
	PermManagePermissions = "manage_permissions"
)

// DefaultCatalogue is the static permission catalogue seeded into storage.
//
// Adding a permission here is the only supported way to introduce one;
// seeding never overwrites existing rows, so renames require a migration.
func DefaultCatalogue() []Permission {
	return []Permission{
		{PermViewItineraries, CategoryItineraries, "View customer itineraries"},
		{PermCreateItineraries, CategoryItineraries, "Create itineraries in any mode"},
		{PermEditItineraries, CategoryItineraries, "Edit existing itineraries"},
		{PermDeleteItineraries, CategoryItineraries, "Delete itineraries"},
		{PermPublishItineraries, CategoryItineraries, "Publish or archive itineraries"},

		{PermViewDestinations, CategoryCatalogue, "View the destination catalogue"},
		{PermManageDestinations, CategoryCatalogue, "Create and edit destinations"},
		{PermManageTours, CategoryCatalogue, "Create and edit base tour templates"},

		{PermViewAnalyticsRevenue, CategoryAnalytics, "View revenue analytics"},
		{PermViewAnalyticsBookings, CategoryAnalytics, "View booking analytics"},

		{PermManageUsers, CategoryAdministration, "Manage user accounts"},
		{PermManagePermissions, CategoryAdministration, "Grant permissions to users"},
	}
}

// DefaultRoleGrants maps each role to its default permission names.
//
// The mapping is returned fresh on every call so callers cannot mutate the
// canonical table; tests substitute their own mapping via [NewRegistry].
func DefaultRoleGrants() map[sec.UserRole][]string {
	return map[sec.UserRole][]string{
		sec.RoleAdmin: {
			PermViewItineraries, PermCreateItineraries, PermEditItineraries,
			PermDeleteItineraries, PermPublishItineraries,
			PermViewDestinations, PermManageDestinations, PermManageTours,
			PermViewAnalyticsRevenue, PermViewAnalyticsBookings,
			PermManageUsers, PermManagePermissions,
		},
		sec.RoleOpsManager: {
			PermViewItineraries, PermCreateItineraries, PermEditItineraries,
			PermPublishItineraries,
			PermViewDestinations, PermManageTours,
			PermViewAnalyticsRevenue, PermViewAnalyticsBookings,
		},
		sec.RoleCSAgent: {
			PermViewItineraries, PermCreateItineraries, PermEditItineraries,
			PermViewDestinations,
		},
		sec.RoleContentEditor: {
			PermViewDestinations, PermManageDestinations, PermManageTours,
		},
	}
}

// # Permission Sets

// PermissionSet is an unordered set of permission names.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from the given names.
func NewPermissionSet(names ...string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the given permission name.
func (s PermissionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union returns a new set containing every member of s and other.
func (s PermissionSet) Union(other PermissionSet) PermissionSet {
	result := make(PermissionSet, len(s)+len(other))
	for name := range s {
		result[name] = struct{}{}
	}
	for name := range other {
		result[name] = struct{}{}
	}
	return result
}

// Names returns the set members in sorted order for stable JSON output.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
