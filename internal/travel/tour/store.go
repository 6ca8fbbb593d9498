// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package tour

import "context"

// Repository defines the data access contract for tour templates.
type Repository interface {

	/*
		FindByID returns a template with its full day structure hydrated.

		Returns:
		  - *Tour: Header plus ordered days and destination associations
		  - error: apperr.NotFound when absent or inactive
	*/
	FindByID(context context.Context, id string) (*Tour, error)

	// List returns a page of active templates (headers only, days omitted).
	List(context context.Context, limit, offset int) ([]*Tour, int, error)

	// Create persists a template and its days in one transaction.
	Create(context context.Context, tour *Tour) error
}
