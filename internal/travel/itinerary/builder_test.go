// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package itinerary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/travel/tour"
	"github.com/voyara/voyara/pkg/pointer"
)


// # Custom Assembly

/*
TestAssembleCustom_OutOfOrderInput verifies days supplied in any order come
back sorted ascending with contiguous numbering preserved.
*/
func TestAssembleCustom_OutOfOrderInput(t *testing.T) {
	days, err := assembleCustom([]DayInput{
		{DayNumber: 3, DestinationIDs: []string{"dest-c"}},
		{DayNumber: 1, DestinationIDs: []string{"dest-a"}},
		{DayNumber: 2, DestinationIDs: []string{"dest-b"}},
	})
	require.NoError(t, err)

	require.Len(t, days, 3)
	for index, day := range days {
		assert.Equal(t, index+1, day.DayNumber)
	}
	assert.Equal(t, []string{"dest-a"}, days[0].DestinationIDs)
	assert.Equal(t, []string{"dest-c"}, days[2].DestinationIDs)
}

/*
TestAssembleCustom_MealsSentinel verifies the three meal states survive
normalization: absent becomes the sentinel, empty stays empty, text stays
text.
*/
func TestAssembleCustom_MealsSentinel(t *testing.T) {
	days, err := assembleCustom([]DayInput{
		{DayNumber: 1, MealsIncluded: nil},
		{DayNumber: 2, MealsIncluded: pointer.To("")},
		{DayNumber: 3, MealsIncluded: pointer.To("breakfast, dinner")},
	})
	require.NoError(t, err)

	assert.Equal(t, MealsNotSpecified, days[0].MealsIncluded)
	assert.Equal(t, "", days[1].MealsIncluded)
	assert.Equal(t, "breakfast, dinner", days[2].MealsIncluded)
}

func TestAssembleCustom_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		inputs []DayInput
	}{
		{name: "empty day list", inputs: nil},
		{name: "duplicate day number", inputs: []DayInput{{DayNumber: 1}, {DayNumber: 1}}},
		{name: "gap in numbering", inputs: []DayInput{{DayNumber: 1}, {DayNumber: 3}}},
		{name: "numbering starts at zero", inputs: []DayInput{{DayNumber: 0}, {DayNumber: 1}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := assembleCustom(test.inputs)
			require.Error(t, err)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

// # Template Copy

func newTestTemplate() tour.Tour {
	return tour.Tour{
		ID:           "tour-1",
		Title:        "Kyoto Classics",
		DurationDays: 2,
		Days: []tour.Day{
			{ID: "td-1", DayNumber: 1, MealsIncluded: "breakfast", DestinationIDs: []string{"dest-a"}},
			{ID: "td-2", DayNumber: 2, MealsIncluded: "", DestinationIDs: []string{"dest-b"}},
		},
	}
}

/*
TestFromTemplate_VerbatimCopy verifies the day structure matches the
template exactly while traveler fields come from the overlay.
*/
func TestFromTemplate_VerbatimCopy(t *testing.T) {
	template := newTestTemplate()
	startDate := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	entity := fromTemplate(template, TravelerDetails{
		TravelerName: "Amelia Ostrowski",
		PartySize:    2,
		StartDate:    &startDate,
	})

	assert.Equal(t, MethodChooseExisting, entity.CreationMethod)
	assert.Equal(t, 2, entity.DurationDays)
	require.NotNil(t, entity.BaseTourID)
	assert.Equal(t, "tour-1", *entity.BaseTourID)
	assert.Equal(t, "Amelia Ostrowski", entity.TravelerName)

	require.Len(t, entity.Days, 2)
	assert.Equal(t, []string{"dest-a"}, entity.Days[0].DestinationIDs)
	assert.Equal(t, "breakfast", entity.Days[0].MealsIncluded)
	assert.Equal(t, []string{"dest-b"}, entity.Days[1].DestinationIDs)

	// Title falls back to the template's when the overlay leaves it empty.
	assert.Equal(t, "Kyoto Classics", entity.Title)
}

/*
TestFromTemplate_CopyIsDetached verifies mutating the copy cannot reach back
into the template's slices.
*/
func TestFromTemplate_CopyIsDetached(t *testing.T) {
	template := newTestTemplate()

	entity := fromTemplate(template, TravelerDetails{})
	entity.Days[0].DestinationIDs[0] = "mutated"

	assert.Equal(t, "dest-a", template.Days[0].DestinationIDs[0])
}

// # Edit Patches

func newSourceItinerary() Itinerary {
	return Itinerary{
		ID:             "it-1",
		Code:           "K7Q2XM94RT3H",
		Title:          "Honeymoon",
		CreationMethod: MethodCustom,
		TravelerName:   "Dana Whitfield",
		PartySize:      2,
		DurationDays:   3,
		Days: []Day{
			{ID: "d-1", ItineraryID: "it-1", DayNumber: 1, MealsIncluded: "breakfast", DestinationIDs: []string{"dest-a"}},
			{ID: "d-2", ItineraryID: "it-1", DayNumber: 2, MealsIncluded: MealsNotSpecified, DestinationIDs: []string{"dest-b"}},
			{ID: "d-3", ItineraryID: "it-1", DayNumber: 3, MealsIncluded: "dinner", DestinationIDs: []string{"dest-c"}},
		},
	}
}

/*
TestApplyPatch_RemoveInteriorDay verifies removing day 2 of [1,2,3] yields
days renumbered [1,2] with the old day 3 as the new day 2.
*/
func TestApplyPatch_RemoveInteriorDay(t *testing.T) {
	source := newSourceItinerary()

	entity, err := applyPatch(source, EditPatch{RemoveDays: []int{2}})
	require.NoError(t, err)

	assert.Equal(t, MethodEditExisting, entity.CreationMethod)
	assert.Equal(t, 2, entity.DurationDays)
	require.Len(t, entity.Days, 2)
	assert.Equal(t, 1, entity.Days[0].DayNumber)
	assert.Equal(t, []string{"dest-a"}, entity.Days[0].DestinationIDs)
	assert.Equal(t, 2, entity.Days[1].DayNumber)
	assert.Equal(t, []string{"dest-c"}, entity.Days[1].DestinationIDs)

	// The clone carries no identifiers; the store assigns fresh ones.
	assert.Empty(t, entity.ID)
	assert.Empty(t, entity.Code)
	assert.Empty(t, entity.Days[0].ID)
}

func TestApplyPatch_SourceNotMutated(t *testing.T) {
	source := newSourceItinerary()

	entity, err := applyPatch(source, EditPatch{
		RemoveDays: []int{1},
		Days:       []DayInput{{DayNumber: 2, DestinationIDs: []string{"dest-x"}}},
	})
	require.NoError(t, err)
	require.Len(t, entity.Days, 2)

	assert.Equal(t, "K7Q2XM94RT3H", source.Code)
	require.Len(t, source.Days, 3)
	assert.Equal(t, 1, source.Days[0].DayNumber)
	assert.Equal(t, []string{"dest-b"}, source.Days[1].DestinationIDs)
}

/*
TestApplyPatch_UpsertDay verifies patch days replace existing numbers and
append new ones.
*/
func TestApplyPatch_UpsertDay(t *testing.T) {
	source := newSourceItinerary()

	entity, err := applyPatch(source, EditPatch{
		Days: []DayInput{
			{DayNumber: 2, MealsIncluded: pointer.To("lunch"), DestinationIDs: []string{"dest-z"}},
			{DayNumber: 4, DestinationIDs: []string{"dest-d"}},
		},
	})
	require.NoError(t, err)

	require.Len(t, entity.Days, 4)
	assert.Equal(t, "lunch", entity.Days[1].MealsIncluded)
	assert.Equal(t, []string{"dest-z"}, entity.Days[1].DestinationIDs)
	assert.Equal(t, 4, entity.Days[3].DayNumber)
	assert.Equal(t, []string{"dest-d"}, entity.Days[3].DestinationIDs)
	assert.Equal(t, 4, entity.DurationDays)
}

/*
TestApplyPatch_Reorder verifies an explicit order permutes the days and the
result is renumbered 1..N in the new sequence.
*/
func TestApplyPatch_Reorder(t *testing.T) {
	source := newSourceItinerary()

	entity, err := applyPatch(source, EditPatch{Order: []int{3, 1, 2}})
	require.NoError(t, err)

	require.Len(t, entity.Days, 3)
	assert.Equal(t, []string{"dest-c"}, entity.Days[0].DestinationIDs)
	assert.Equal(t, []string{"dest-a"}, entity.Days[1].DestinationIDs)
	assert.Equal(t, []string{"dest-b"}, entity.Days[2].DestinationIDs)
	for index, day := range entity.Days {
		assert.Equal(t, index+1, day.DayNumber)
	}
}

func TestApplyPatch_TravelerOverlay(t *testing.T) {
	source := newSourceItinerary()
	partySize := 4

	entity, err := applyPatch(source, EditPatch{
		Title:     pointer.To("Anniversary"),
		PartySize: &partySize,
	})
	require.NoError(t, err)

	assert.Equal(t, "Anniversary", entity.Title)
	assert.Equal(t, 4, entity.PartySize)
	// Untouched fields carry over from the source.
	assert.Equal(t, "Dana Whitfield", entity.TravelerName)
}

func TestApplyPatch_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		patch EditPatch
	}{
		{name: "remove unknown day", patch: EditPatch{RemoveDays: []int{9}}},
		{name: "remove every day", patch: EditPatch{RemoveDays: []int{1, 2, 3}}},
		{name: "order wrong length", patch: EditPatch{Order: []int{1, 2}}},
		{name: "order unknown day", patch: EditPatch{Order: []int{1, 2, 9}}},
		{name: "order repeats a day", patch: EditPatch{Order: []int{1, 2, 2}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := applyPatch(newSourceItinerary(), test.patch)
			require.Error(t, err)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}
