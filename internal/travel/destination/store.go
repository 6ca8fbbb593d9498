// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package destination

import "context"

// Repository defines the data access contract for the destination catalogue.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Destination, int, error)
	FindByID(context context.Context, id string) (*Destination, error)
	FindBySlug(context context.Context, slug string) (*Destination, error)

	// Exists reports whether an active destination with the given id exists.
	// Used by the itinerary builder to reject dangling references cheaply.
	Exists(context context.Context, id string) (bool, error)

	Create(context context.Context, destination *Destination) error
	Update(context context.Context, destination *Destination) error
	SoftDelete(context context.Context, id string) error
}
