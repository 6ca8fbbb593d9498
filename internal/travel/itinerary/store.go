// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package itinerary

import (
	"context"
	"errors"
)

// ErrCodeCollision reports that an insert hit the unique constraint on the
// share code. The service treats it as a retryable signal and regenerates;
// it never reaches callers outside this package.
var ErrCodeCollision = errors.New("itinerary: share code already taken")

// Filter narrows itinerary listings.
type Filter struct {
	Status         Status
	CreationMethod CreationMethod
	CreatedBy      string
	Search         string
}

// Repository defines the data access contract for itinerary aggregates.
type Repository interface {

	/*
		Insert persists the aggregate — header, days, and destination
		associations — in a single transaction. Either everything becomes
		visible or nothing does.

		Returns:
		  - error: ErrCodeCollision when the share code is already taken,
		    otherwise a wrapped storage error.
	*/
	Insert(context context.Context, itinerary *Itinerary) error

	// FindByCode returns a fully hydrated aggregate by its share code.
	FindByCode(context context.Context, code string) (*Itinerary, error)

	// FindByID returns a fully hydrated aggregate by its surrogate id.
	FindByID(context context.Context, id string) (*Itinerary, error)

	// List returns a page of itinerary headers (days omitted) plus the
	// unfiltered total for the given filter.
	List(context context.Context, filter Filter, limit, offset int) ([]*Itinerary, int, error)

	// UpdateStatus moves the lifecycle state of one itinerary.
	UpdateStatus(context context.Context, id string, status Status) error

	// SoftDelete hides an itinerary from all reads without destroying rows.
	SoftDelete(context context.Context, id string) error
}
