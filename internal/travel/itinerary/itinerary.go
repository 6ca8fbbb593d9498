// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

/*
Package itinerary implements the itinerary aggregate and its three-mode
creation workflow.

An itinerary is a consistency unit: the header row plus its owned, ordered
days and their destination associations are always written and read
together. Mutation happens exclusively through builder operations so the
duration/day-count invariant can never be violated by a stray field patch.

# Creation Modes

  - choose_existing: copy a base tour template verbatim, overlay traveler fields.
  - edit_existing:   clone an existing itinerary, apply a day patch, renumber.
  - custom:          build the full day list from scratch.

All three end in the same place: a fresh unique share code, duration set to
the day count, and a single-transaction insert.
*/
package itinerary

import (
	"time"
)

// # Creation Methods

// CreationMethod identifies which construction path produced an itinerary.
// It is fixed at build time; there are no transitions between modes.
type CreationMethod string

const (
	MethodChooseExisting CreationMethod = "choose_existing"
	MethodEditExisting   CreationMethod = "edit_existing"
	MethodCustom         CreationMethod = "custom"
)

// IsValid reports whether the method is one of the three known modes.
func (m CreationMethod) IsValid() bool {
	switch m {
	case MethodChooseExisting, MethodEditExisting, MethodCustom:
		return true
	}
	return false
}

// # Lifecycle Enumerations

// Status is the publication state of an itinerary.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// IsValid reports whether the status is a known lifecycle state.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// PaymentStatus tracks traveler payment progress.
type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "unpaid"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentPaid        PaymentStatus = "paid"
	PaymentRefunded    PaymentStatus = "refunded"
)

// DeliveryStatus tracks whether the itinerary document reached the traveler.
type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
)

// # Meals Sentinel

// MealsNotSpecified marks a day whose meal plan has not been filled in yet.
//
// It is deliberately distinct from the empty string: "" means the agent
// confirmed no meals are included, while this sentinel means the question
// is still open. UI layers render the two differently.
const MealsNotSpecified = "none_specified"

// # Aggregate Entities

// Itinerary is the aggregate root for a traveler's trip plan.
//
// Identity is twofold: the internal UUID surrogate and the human-shareable
// Code used for external lookup.
type Itinerary struct {
	ID             string         `json:"id"`
	Code           string         `json:"code"`
	Title          string         `json:"title"`
	CreationMethod CreationMethod `json:"creation_method"`
	Status         Status         `json:"status"`
	PaymentStatus  PaymentStatus  `json:"payment_status"`
	DeliveryStatus DeliveryStatus `json:"delivery_status"`
	TravelerName   string         `json:"traveler_name"`
	PartySize      int            `json:"party_size"`
	StartDate      *time.Time     `json:"start_date,omitempty"`

	// DurationDays always equals len(Days); both are maintained exclusively
	// by the builder.
	DurationDays int `json:"duration_days"`

	// BaseTourID records the template a choose_existing itinerary was copied
	// from. Nil for the other two modes.
	BaseTourID *string `json:"base_tour_id,omitempty"`

	CreatedBy string    `json:"created_by"`
	Days      []Day     `json:"days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Day is one day of an itinerary, owned exclusively by its parent.
//
// Day numbers are 1-based, unique within the parent, and contiguous.
type Day struct {
	ID          string `json:"id"`
	ItineraryID string `json:"-"`
	DayNumber   int    `json:"day_number"`

	// MealsIncluded is free text ("breakfast, dinner"), the empty string
	// for confirmed-no-meals, or [MealsNotSpecified].
	MealsIncluded string `json:"meals_included"`

	// DestinationIDs reference catalogue destinations in visit order.
	// The association carries no ownership; destinations must pre-exist.
	DestinationIDs []string `json:"destination_ids"`
}

// # Field Identifiers

const (
	FieldMethod       = "method"
	FieldTitle        = "title"
	FieldTravelerName = "traveler_name"
	FieldPartySize    = "party_size"
	FieldDays         = "days"
	FieldBaseTourID   = "base_tour_id"
	FieldSource       = "source"
	FieldStatus       = "status"
)
