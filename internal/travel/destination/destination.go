// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

/*
Package destination manages the catalogue of places an itinerary can visit.

Destinations are reference data: itinerary days associate to them without
owning them, and the itinerary builder never creates one implicitly.
*/
package destination

import "time"

// Destination represents a bookable place in the agency catalogue.
type Destination struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Country     string    `json:"country"`
	Region      string    `json:"region,omitempty"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

// Filter narrows destination listings.
type Filter struct {
	// Countries filters by ISO country name, empty for all.
	Countries []string
	// Search matches against name, empty for all.
	Search string
}
