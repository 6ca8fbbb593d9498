// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package itinerary

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/travel/tour"
	"github.com/voyara/voyara/pkg/pointer"
)

// # Build Inputs
//
// The three creation modes form a tagged union dispatched through a single
// [Service.Build] entry point. Each variant carries exactly the fields its
// mode needs, so per-mode validation stays exhaustive.

// BuildInput is the sealed set of creation-mode payloads.
type BuildInput interface {
	// Method identifies the construction path this input selects.
	Method() CreationMethod
}

// TravelerDetails are the traveler-specific fields overlaid onto the day
// structure regardless of how that structure was produced.
type TravelerDetails struct {
	Title        string     `json:"title"`
	TravelerName string     `json:"traveler_name"`
	PartySize    int        `json:"party_size"`
	StartDate    *time.Time `json:"start_date,omitempty"`
}

// DayInput is one requested day. MealsIncluded distinguishes three states:
// nil (not filled in, stored as [MealsNotSpecified]), pointer to "" (confirmed
// no meals), and pointer to text.
type DayInput struct {
	DayNumber      int      `json:"day_number"`
	MealsIncluded  *string  `json:"meals_included"`
	DestinationIDs []string `json:"destination_ids"`
}

// ChooseExistingInput copies a base-tour template verbatim.
type ChooseExistingInput struct {
	BaseTourID string          `json:"base_tour_id"`
	Traveler   TravelerDetails `json:"traveler"`
}

// Method implements [BuildInput].
func (ChooseExistingInput) Method() CreationMethod { return MethodChooseExisting }

// EditExistingInput clones a source itinerary and applies a patch. The source
// is addressed by internal id or by share code; exactly one must be set.
type EditExistingInput struct {
	SourceID   string    `json:"source_id"`
	SourceCode string    `json:"source_code"`
	Patch      EditPatch `json:"patch"`
}

// Method implements [BuildInput].
func (EditExistingInput) Method() CreationMethod { return MethodEditExisting }

// CustomInput supplies the full day list from scratch.
type CustomInput struct {
	Traveler TravelerDetails `json:"traveler"`
	Days     []DayInput      `json:"days"`
}

// Method implements [BuildInput].
func (CustomInput) Method() CreationMethod { return MethodCustom }

// EditPatch is the partial mutation applied by edit_existing. All fields are
// optional; zero values mean "leave alone".
type EditPatch struct {
	Title        *string    `json:"title"`
	TravelerName *string    `json:"traveler_name"`
	PartySize    *int       `json:"party_size"`
	StartDate    *time.Time `json:"start_date"`

	// RemoveDays lists source day numbers to drop before upserting.
	RemoveDays []int `json:"remove_days"`

	// Days upserts by day number: an existing number replaces that day's
	// meals/destinations, a new number appends a day.
	Days []DayInput `json:"days"`

	// Order, when present, is a permutation of the surviving day numbers
	// giving their new sequence. Days are renumbered 1..N afterwards either
	// way.
	Order []int `json:"order"`
}

// # Assembly
//
// The functions below are pure: they validate and shape the day list without
// touching storage. Identifier assignment, code generation, and destination
// existence checks belong to the service.

/*
assembleCustom validates a from-scratch day list and returns it normalized.

The input numbering must be a permutation of 1..N in any order; the result is
sorted ascending. A nil meals pointer becomes the [MealsNotSpecified]
sentinel.

Parameters:
  - inputs: the requested days; must be non-empty.

Returns:
  - []Day: the normalized, ascending day list.
  - error: [apperr.ValidationError] on an empty list, duplicate numbers, or
    numbering that is not contiguous from 1.
*/
func assembleCustom(inputs []DayInput) ([]Day, error) {
	if len(inputs) == 0 {
		return nil, apperr.ValidationError("An itinerary requires at least one day",
			apperr.FieldError{Field: FieldDays, Message: "must contain at least one day"})
	}

	days := make([]Day, 0, len(inputs))
	seen := make(map[int]bool, len(inputs))
	for _, input := range inputs {
		if seen[input.DayNumber] {
			return nil, apperr.ValidationError("Day numbers must be unique",
				apperr.FieldError{Field: FieldDays, Message: "duplicate day number " + strconv.Itoa(input.DayNumber)})
		}
		seen[input.DayNumber] = true
		days = append(days, Day{
			DayNumber:      input.DayNumber,
			MealsIncluded:  mealsOrSentinel(input.MealsIncluded),
			DestinationIDs: append([]string(nil), input.DestinationIDs...),
		})
	}

	// Uniqueness plus full 1..N coverage makes the set a permutation.
	for number := 1; number <= len(inputs); number++ {
		if !seen[number] {
			return nil, apperr.ValidationError("Day numbers must run contiguously from 1",
				apperr.FieldError{Field: FieldDays, Message: "missing day number " + strconv.Itoa(number)})
		}
	}

	sort.Slice(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
	return days, nil
}

/*
fromTemplate copies a base tour's day structure verbatim and overlays the
traveler fields. The copy shares nothing with the template: day and
association slices are cloned so later edits cannot reach back into it.

Parameters:
  - template: the base tour to copy; assumed already fetched and valid.
  - traveler: traveler-specific fields for the new itinerary header.

Returns:
  - Itinerary: an unsaved aggregate with no identifiers or code assigned.
*/
func fromTemplate(template tour.Tour, traveler TravelerDetails) Itinerary {
	days := make([]Day, 0, len(template.Days))
	for _, templateDay := range template.Days {
		days = append(days, Day{
			DayNumber:      templateDay.DayNumber,
			MealsIncluded:  templateDay.MealsIncluded,
			DestinationIDs: append([]string(nil), templateDay.DestinationIDs...),
		})
	}

	title := traveler.Title
	if title == "" {
		title = template.Title
	}

	baseTourID := template.ID
	return Itinerary{
		Title:          title,
		CreationMethod: MethodChooseExisting,
		TravelerName:   traveler.TravelerName,
		PartySize:      traveler.PartySize,
		StartDate:      traveler.StartDate,
		DurationDays:   len(days),
		BaseTourID:     &baseTourID,
		Days:           days,
	}
}

/*
applyPatch clones a source aggregate, applies an edit patch, and renumbers the
surviving days contiguously from 1 in their final sequence.

Removal happens first, then upserts by day number, then the optional explicit
reorder. Removing an interior day therefore shifts later days down: days
[1,2,3] minus day 2 become [1,2] with the old day 3 as the new day 2.

Parameters:
  - source: the itinerary being cloned; never mutated.
  - patch: the partial change set.

Returns:
  - Itinerary: an unsaved clone carrying the patched state, with creation
    method set to edit_existing and no identifiers or code assigned.
  - error: [apperr.ValidationError] when the patch removes or reorders day
    numbers that do not exist, duplicates an order entry, or empties the
    day list entirely.
*/
func applyPatch(source Itinerary, patch EditPatch) (Itinerary, error) {
	byNumber := make(map[int]Day, len(source.Days))
	sequence := make([]int, 0, len(source.Days))
	for _, day := range source.Days {
		copied := day
		copied.ID = ""
		copied.ItineraryID = ""
		copied.DestinationIDs = append([]string(nil), day.DestinationIDs...)
		byNumber[day.DayNumber] = copied
		sequence = append(sequence, day.DayNumber)
	}

	for _, number := range patch.RemoveDays {
		if _, ok := byNumber[number]; !ok {
			return Itinerary{}, apperr.ValidationError("Cannot remove a day that does not exist",
				apperr.FieldError{Field: FieldDays, Message: "no day numbered " + strconv.Itoa(number)})
		}
		delete(byNumber, number)
		sequence = removeNumber(sequence, number)
	}

	for _, input := range patch.Days {
		day := Day{
			DayNumber:      input.DayNumber,
			MealsIncluded:  mealsOrSentinel(input.MealsIncluded),
			DestinationIDs: append([]string(nil), input.DestinationIDs...),
		}
		if _, exists := byNumber[input.DayNumber]; !exists {
			sequence = append(sequence, input.DayNumber)
		}
		byNumber[input.DayNumber] = day
	}

	if len(sequence) == 0 {
		return Itinerary{}, apperr.ValidationError("An itinerary requires at least one day",
			apperr.FieldError{Field: FieldDays, Message: "patch removes every day"})
	}

	if len(patch.Order) > 0 {
		reordered, err := reorderSequence(sequence, patch.Order)
		if err != nil {
			return Itinerary{}, err
		}
		sequence = reordered
	}

	days := make([]Day, 0, len(sequence))
	for position, number := range sequence {
		day := byNumber[number]
		day.DayNumber = position + 1
		days = append(days, day)
	}

	result := source
	result.ID = ""
	result.Code = ""
	result.CreationMethod = MethodEditExisting
	result.Days = days
	result.DurationDays = len(days)

	if patch.Title != nil {
		result.Title = *patch.Title
	}
	if patch.TravelerName != nil {
		result.TravelerName = *patch.TravelerName
	}
	if patch.PartySize != nil {
		result.PartySize = *patch.PartySize
	}
	if patch.StartDate != nil {
		startDate := *patch.StartDate
		result.StartDate = &startDate
	}

	return result, nil
}

// reorderSequence applies an explicit ordering, which must be a permutation
// of the surviving day numbers.
func reorderSequence(sequence []int, order []int) ([]int, error) {
	if len(order) != len(sequence) {
		return nil, apperr.ValidationError("Reorder must list every remaining day exactly once",
			apperr.FieldError{Field: FieldDays, Message: fmt.Sprintf("order lists %d days, itinerary has %d", len(order), len(sequence))})
	}

	remaining := make(map[int]bool, len(sequence))
	for _, number := range sequence {
		remaining[number] = true
	}

	reordered := make([]int, 0, len(order))
	for _, number := range order {
		if !remaining[number] {
			return nil, apperr.ValidationError("Reorder references an unknown or repeated day",
				apperr.FieldError{Field: FieldDays, Message: "day number " + strconv.Itoa(number)})
		}
		remaining[number] = false
		reordered = append(reordered, number)
	}

	return reordered, nil
}

func removeNumber(sequence []int, number int) []int {
	filtered := sequence[:0]
	for _, candidate := range sequence {
		if candidate != number {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}

// mealsOrSentinel maps an absent meals field to the explicit sentinel while
// preserving a deliberate empty string.
func mealsOrSentinel(meals *string) string {
	return pointer.Fallback(meals, MealsNotSpecified)
}
