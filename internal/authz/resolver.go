// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package authz

import (
	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/platform/sec"
)

// # Authorization Resolver

// Subject is the authenticated identity a permission check runs against.
//
// It carries everything the resolver needs, already loaded by the caller
// (typically decoded from JWT claims), so resolution never touches storage.
type Subject struct {
	UserID string
	Role   sec.UserRole
	Grants []string
}

// SubjectFromClaims adapts verified JWT claims into a resolver Subject.
func SubjectFromClaims(claims *sec.AuthClaims) Subject {
	return Subject{
		UserID: claims.UserID,
		Role:   sec.UserRole(claims.Role),
		Grants: claims.Grants,
	}
}

// Resolver computes effective permissions from role defaults and grants.
//
// # Concurrency
//
// Resolver is stateless beyond the immutable Registry and performs no I/O;
// it is safe to call on every protected request without synchronization.
type Resolver struct {
	registry *Registry
}

// NewResolver constructs a Resolver over the given Registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// EffectivePermissions returns defaultsForRole(subject.Role) ∪ subject.Grants.
//
// Grants are purely additive; there is no subtraction path. A grant that
// duplicates a role default is harmless.
func (resolver *Resolver) EffectivePermissions(subject Subject) PermissionSet {
	defaults := resolver.registry.DefaultsForRole(subject.Role)
	return defaults.Union(NewPermissionSet(subject.Grants...))
}

// HasPermission is a pure set-membership test over the effective set.
func (resolver *Resolver) HasPermission(subject Subject, permission string) bool {
	return resolver.EffectivePermissions(subject).Has(permission)
}

// RequirePermission fails with a Forbidden error when the subject lacks
// the permission.
//
// This is the single enforcement point: every protected operation calls it
// before mutating state.
func (resolver *Resolver) RequirePermission(subject Subject, permission string) error {
	if resolver.HasPermission(subject, permission) {
		return nil
	}
	return apperr.Forbidden("Missing required permission: " + permission)
}

// Allowed implements the permission check consumed by the HTTP middleware
// without the middleware importing this package's types.
func (resolver *Resolver) Allowed(role string, grants []string, permission string) bool {
	return resolver.HasPermission(Subject{Role: sec.UserRole(role), Grants: grants}, permission)
}
