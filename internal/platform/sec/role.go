// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package sec

// # User Roles

// UserRole represents the back-office role granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Oversees agency operations, tour templates and revenue analytics
	RoleOpsManager UserRole = "ops_manager"

	// Builds and edits customer itineraries, handles traveler requests
	RoleCSAgent UserRole = "cs_agent"

	// Maintains the destination catalogue and media content
	RoleContentEditor UserRole = "content_editor"
)

// IsValid reports whether the role is one of the known staff roles.
func (r UserRole) IsValid() bool {
	return r.level() > 0
}

// level maps a role to a numeric hierarchy level.
//
// Fine-grained access is decided by the permission resolver in internal/authz;
// the level only backs role validity and potential ordering in listings.
func (r UserRole) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleOpsManager:
		return 30
	case RoleCSAgent:
		return 20
	case RoleContentEditor:
		return 10
	default:
		return 0
	}
}
