// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

/*
Package tour manages base-tour templates.

A template is a reusable trip skeleton: an ordered day list with destination
associations and meal plans. The itinerary builder's choose_existing mode
copies a template verbatim before overlaying traveler-specific fields.
*/
package tour

import "time"

// Tour is a reusable trip template maintained by the operations team.
type Tour struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary,omitempty"`
	DurationDays int       `json:"duration_days"`
	IsActive     bool      `json:"is_active"`
	Days         []Day     `json:"days"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"-"`
}

// Day is one template day; numbering follows the same contiguous 1-based
// rule as itinerary days.
type Day struct {
	ID             string   `json:"id"`
	TourID         string   `json:"-"`
	DayNumber      int      `json:"day_number"`
	MealsIncluded  string   `json:"meals_included"`
	DestinationIDs []string `json:"destination_ids"`
}
