// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package authz

import "context"

// # Permission Data Access

// Repository defines the data access contract for the permission catalogue
// and per-user grants.
type Repository interface {

	/*
		EnsurePermission inserts a catalogue permission if it is absent.

		Existing rows are left untouched (descriptions are never overwritten).

		Parameters:
		  - context: context.Context
		  - permission: Permission

		Returns:
		  - bool: true when a new row was created
		  - error: Storage failures
	*/
	EnsurePermission(context context.Context, permission Permission) (bool, error)

	/*
		ListGrants returns the permission names explicitly granted to a user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []string: Granted permission names (possibly empty)
		  - error: Storage failures
	*/
	ListGrants(context context.Context, userID string) ([]string, error)

	/*
		Grant records an explicit permission grant for a user.

		Granting an already-granted permission is a no-op.

		Parameters:
		  - context: context.Context
		  - userID: string (Grantee)
		  - permissionName: string
		  - grantedBy: string (Acting admin's user ID)

		Returns:
		  - error: Storage failures, including FK violations for unknown users
	*/
	Grant(context context.Context, userID, permissionName, grantedBy string) error
}
