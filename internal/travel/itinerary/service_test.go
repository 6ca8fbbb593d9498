// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package itinerary

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/notify"
	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/platform/constants"
	"github.com/voyara/voyara/internal/platform/sec"
	"github.com/voyara/voyara/internal/travel/destination"
	"github.com/voyara/voyara/internal/travel/tour"
	"github.com/voyara/voyara/pkg/refcode"
)

// # Fakes

// fakeRepository records inserts in memory. Setting collisions makes the
// next N inserts fail with ErrCodeCollision, simulating the store's unique
// constraint firing.
type fakeRepository struct {
	inserted    []*Itinerary
	collisions  int
	insertCodes []string
}

func (repository *fakeRepository) Insert(_ context.Context, entity *Itinerary) error {
	repository.insertCodes = append(repository.insertCodes, entity.Code)
	if repository.collisions > 0 {
		repository.collisions--
		return ErrCodeCollision
	}
	stored := *entity
	repository.inserted = append(repository.inserted, &stored)
	return nil
}

func (repository *fakeRepository) FindByCode(_ context.Context, code string) (*Itinerary, error) {
	for _, entity := range repository.inserted {
		if entity.Code == code {
			return entity, nil
		}
	}
	return nil, apperr.NotFound("Itinerary")
}

func (repository *fakeRepository) FindByID(_ context.Context, id string) (*Itinerary, error) {
	for _, entity := range repository.inserted {
		if entity.ID == id {
			return entity, nil
		}
	}
	return nil, apperr.NotFound("Itinerary")
}

func (repository *fakeRepository) List(context.Context, Filter, int, int) ([]*Itinerary, int, error) {
	return repository.inserted, len(repository.inserted), nil
}

func (repository *fakeRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	for _, entity := range repository.inserted {
		if entity.ID == id {
			entity.Status = status
			return nil
		}
	}
	return apperr.NotFound("Itinerary")
}

func (repository *fakeRepository) SoftDelete(_ context.Context, id string) error {
	for index, entity := range repository.inserted {
		if entity.ID == id {
			repository.inserted = append(repository.inserted[:index], repository.inserted[index+1:]...)
			return nil
		}
	}
	return apperr.NotFound("Itinerary")
}

type fakeTourRepository struct {
	tours map[string]*tour.Tour
}

func (repository *fakeTourRepository) FindByID(_ context.Context, id string) (*tour.Tour, error) {
	if entity, ok := repository.tours[id]; ok {
		return entity, nil
	}
	return nil, apperr.NotFound("Base tour")
}

func (repository *fakeTourRepository) List(context.Context, int, int) ([]*tour.Tour, int, error) {
	return nil, 0, nil
}

func (repository *fakeTourRepository) Create(context.Context, *tour.Tour) error { return nil }

// fakeDestinationRepository answers existence probes from a fixed id set.
type fakeDestinationRepository struct {
	known map[string]bool
}

func (repository *fakeDestinationRepository) Exists(_ context.Context, id string) (bool, error) {
	return repository.known[id], nil
}

func (repository *fakeDestinationRepository) List(context.Context, destination.Filter, int, int) ([]*destination.Destination, int, error) {
	return nil, 0, nil
}

func (repository *fakeDestinationRepository) FindByID(context.Context, string) (*destination.Destination, error) {
	return nil, apperr.NotFound("Destination")
}

func (repository *fakeDestinationRepository) FindBySlug(context.Context, string) (*destination.Destination, error) {
	return nil, apperr.NotFound("Destination")
}

func (repository *fakeDestinationRepository) Create(context.Context, *destination.Destination) error {
	return nil
}

func (repository *fakeDestinationRepository) Update(context.Context, *destination.Destination) error {
	return nil
}

func (repository *fakeDestinationRepository) SoftDelete(context.Context, string) error { return nil }

// recordingNotifier captures published events and optionally fails.
type recordingNotifier struct {
	events []notify.ItineraryCreatedEvent
	fail   bool
}

func (notifier *recordingNotifier) ItineraryCreated(_ context.Context, event notify.ItineraryCreatedEvent) error {
	notifier.events = append(notifier.events, event)
	if notifier.fail {
		return io.ErrClosedPipe
	}
	return nil
}

// # Harness

type serviceHarness struct {
	service      *Service
	repo         *fakeRepository
	tours        *fakeTourRepository
	destinations *fakeDestinationRepository
	notifier     *recordingNotifier
}

func newServiceHarness() *serviceHarness {
	repo := &fakeRepository{}
	tours := &fakeTourRepository{tours: map[string]*tour.Tour{
		"tour-1": {
			ID:           "tour-1",
			Title:        "Kyoto Classics",
			DurationDays: 2,
			IsActive:     true,
			Days: []tour.Day{
				{ID: "td-1", DayNumber: 1, MealsIncluded: "breakfast", DestinationIDs: []string{"dest-a"}},
				{ID: "td-2", DayNumber: 2, MealsIncluded: "", DestinationIDs: []string{"dest-b"}},
			},
		},
	}}
	destinations := &fakeDestinationRepository{known: map[string]bool{
		"dest-a": true,
		"dest-b": true,
		"dest-c": true,
	}}
	notifier := &recordingNotifier{}

	registry := authz.NewRegistry(nil, authz.DefaultCatalogue(), authz.DefaultRoleGrants(), nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &serviceHarness{
		service:      NewService(repo, tours, destinations, authz.NewResolver(registry), notifier, logger),
		repo:         repo,
		tours:        tours,
		destinations: destinations,
		notifier:     notifier,
	}
}

func agentActor() authz.Subject {
	return authz.Subject{UserID: "user-1", Role: sec.RoleCSAgent}
}

// # Custom Mode

/*
TestBuild_Custom verifies the full happy path: validated days, defaults,
fresh share code, persisted aggregate, and a published event.
*/
func TestBuild_Custom(t *testing.T) {
	harness := newServiceHarness()

	entity, err := harness.service.Build(context.Background(), agentActor(), CustomInput{
		Traveler: TravelerDetails{Title: "Golden Route", TravelerName: "Dana Whitfield", PartySize: 2},
		Days: []DayInput{
			{DayNumber: 2, DestinationIDs: []string{"dest-b"}},
			{DayNumber: 1, DestinationIDs: []string{"dest-a"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, MethodCustom, entity.CreationMethod)
	assert.Equal(t, StatusDraft, entity.Status)
	assert.Equal(t, PaymentUnpaid, entity.PaymentStatus)
	assert.Equal(t, DeliveryPending, entity.DeliveryStatus)
	assert.Equal(t, "user-1", entity.CreatedBy)
	assert.Equal(t, 2, entity.DurationDays)
	assert.True(t, refcode.IsValid(entity.Code, constants.ShareCodeLength))

	require.Len(t, entity.Days, 2)
	assert.Equal(t, 1, entity.Days[0].DayNumber)
	assert.NotEmpty(t, entity.Days[0].ID)
	assert.Equal(t, entity.ID, entity.Days[0].ItineraryID)

	require.Len(t, harness.repo.inserted, 1)
	assert.Equal(t, entity.Code, harness.repo.inserted[0].Code)

	require.Len(t, harness.notifier.events, 1)
	assert.Equal(t, entity.Code, harness.notifier.events[0].Code)
	assert.Equal(t, string(MethodCustom), harness.notifier.events[0].CreationMethod)
}

/*
TestBuild_Custom_EmptyDays verifies an empty day list fails validation and
nothing becomes observable in the store.
*/
func TestBuild_Custom_EmptyDays(t *testing.T) {
	harness := newServiceHarness()

	_, err := harness.service.Build(context.Background(), agentActor(), CustomInput{Days: nil})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	assert.Empty(t, harness.repo.inserted)
	assert.Empty(t, harness.repo.insertCodes)
	assert.Empty(t, harness.notifier.events)
}

func TestBuild_Custom_DanglingDestination(t *testing.T) {
	harness := newServiceHarness()

	_, err := harness.service.Build(context.Background(), agentActor(), CustomInput{
		Days: []DayInput{{DayNumber: 1, DestinationIDs: []string{"dest-missing"}}},
	})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Empty(t, harness.repo.inserted)
}

// # Choose Existing Mode

/*
TestBuild_ChooseExisting verifies the template copy: days and destinations
match the base tour exactly and the new code differs from every existing
itinerary code.
*/
func TestBuild_ChooseExisting(t *testing.T) {
	harness := newServiceHarness()

	first, err := harness.service.Build(context.Background(), agentActor(), CustomInput{
		Days: []DayInput{{DayNumber: 1, DestinationIDs: []string{"dest-c"}}},
	})
	require.NoError(t, err)

	entity, err := harness.service.Build(context.Background(), agentActor(), ChooseExistingInput{
		BaseTourID: "tour-1",
		Traveler:   TravelerDetails{TravelerName: "Amelia Ostrowski", PartySize: 4},
	})
	require.NoError(t, err)

	assert.Equal(t, MethodChooseExisting, entity.CreationMethod)
	require.NotNil(t, entity.BaseTourID)
	assert.Equal(t, "tour-1", *entity.BaseTourID)
	assert.Equal(t, "Kyoto Classics", entity.Title)
	assert.Equal(t, "Amelia Ostrowski", entity.TravelerName)

	require.Len(t, entity.Days, 2)
	assert.Equal(t, []string{"dest-a"}, entity.Days[0].DestinationIDs)
	assert.Equal(t, []string{"dest-b"}, entity.Days[1].DestinationIDs)
	assert.Equal(t, "breakfast", entity.Days[0].MealsIncluded)

	assert.NotEqual(t, first.Code, entity.Code)
}

func TestBuild_ChooseExisting_MissingTour(t *testing.T) {
	harness := newServiceHarness()

	_, err := harness.service.Build(context.Background(), agentActor(), ChooseExistingInput{BaseTourID: "tour-unknown"})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

// # Edit Existing Mode

/*
TestBuild_EditExisting verifies the clone-and-patch path addressed by share
code: the result is a new aggregate with a new code, never a mutation of
the source.
*/
func TestBuild_EditExisting(t *testing.T) {
	harness := newServiceHarness()

	source, err := harness.service.Build(context.Background(), agentActor(), CustomInput{
		Traveler: TravelerDetails{TravelerName: "Dana Whitfield"},
		Days: []DayInput{
			{DayNumber: 1, DestinationIDs: []string{"dest-a"}},
			{DayNumber: 2, DestinationIDs: []string{"dest-b"}},
			{DayNumber: 3, DestinationIDs: []string{"dest-c"}},
		},
	})
	require.NoError(t, err)

	entity, err := harness.service.Build(context.Background(), agentActor(), EditExistingInput{
		SourceCode: source.Code,
		Patch:      EditPatch{RemoveDays: []int{2}},
	})
	require.NoError(t, err)

	assert.Equal(t, MethodEditExisting, entity.CreationMethod)
	assert.NotEqual(t, source.ID, entity.ID)
	assert.NotEqual(t, source.Code, entity.Code)

	require.Len(t, entity.Days, 2)
	assert.Equal(t, []string{"dest-a"}, entity.Days[0].DestinationIDs)
	assert.Equal(t, []string{"dest-c"}, entity.Days[1].DestinationIDs)
	assert.Equal(t, 2, entity.Days[1].DayNumber)

	// The source aggregate is untouched.
	persisted, err := harness.repo.FindByID(context.Background(), source.ID)
	require.NoError(t, err)
	assert.Len(t, persisted.Days, 3)
}

func TestBuild_EditExisting_MissingSource(t *testing.T) {
	harness := newServiceHarness()

	_, err := harness.service.Build(context.Background(), agentActor(), EditExistingInput{SourceCode: "ZZZZZZZZZZZZ"})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

// # Share Codes

/*
TestBuild_CodeCollisionRetries verifies a colliding code is regenerated
rather than persisted: the insert is retried with a different code.
*/
func TestBuild_CodeCollisionRetries(t *testing.T) {
	harness := newServiceHarness()
	harness.repo.collisions = 1

	entity, err := harness.service.Build(context.Background(), agentActor(), CustomInput{
		Days: []DayInput{{DayNumber: 1}},
	})
	require.NoError(t, err)

	require.Len(t, harness.repo.insertCodes, 2)
	assert.NotEqual(t, harness.repo.insertCodes[0], harness.repo.insertCodes[1])
	assert.Equal(t, harness.repo.insertCodes[1], entity.Code)
	require.Len(t, harness.repo.inserted, 1)
}

func TestBuild_CodeCollisionExhausted(t *testing.T) {
	harness := newServiceHarness()
	harness.repo.collisions = constants.ShareCodeMaxAttempts

	_, err := harness.service.Build(context.Background(), agentActor(), CustomInput{
		Days: []DayInput{{DayNumber: 1}},
	})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Len(t, harness.repo.insertCodes, constants.ShareCodeMaxAttempts)
	assert.Empty(t, harness.repo.inserted)
}

// # Authorization and Notification

func TestBuild_RequiresPermission(t *testing.T) {
	harness := newServiceHarness()

	// Content editors maintain the catalogue; they cannot build itineraries.
	actor := authz.Subject{UserID: "user-2", Role: sec.RoleContentEditor}

	_, err := harness.service.Build(context.Background(), actor, CustomInput{
		Days: []DayInput{{DayNumber: 1}},
	})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
	assert.Empty(t, harness.repo.insertCodes)
}

/*
TestBuild_NotifierFailureDoesNotRollBack verifies a failing notification
leaves the committed itinerary intact and surfaces no error.
*/
func TestBuild_NotifierFailureDoesNotRollBack(t *testing.T) {
	harness := newServiceHarness()
	harness.notifier.fail = true

	entity, err := harness.service.Build(context.Background(), agentActor(), CustomInput{
		Days: []DayInput{{DayNumber: 1}},
	})
	require.NoError(t, err)

	require.Len(t, harness.repo.inserted, 1)
	assert.Equal(t, entity.Code, harness.repo.inserted[0].Code)
}

// # Lifecycle

func TestSetStatus_PublishGatedSeparately(t *testing.T) {
	harness := newServiceHarness()

	entity, err := harness.service.Build(context.Background(), agentActor(), CustomInput{
		Days: []DayInput{{DayNumber: 1}},
	})
	require.NoError(t, err)

	// CS agents can edit but not publish.
	err = harness.service.SetStatus(context.Background(), agentActor(), entity.ID, StatusPublished)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	manager := authz.Subject{UserID: "user-3", Role: sec.RoleOpsManager}
	require.NoError(t, harness.service.SetStatus(context.Background(), manager, entity.ID, StatusPublished))

	persisted, err := harness.repo.FindByID(context.Background(), entity.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, persisted.Status)
}

func TestSetStatus_UnknownStatus(t *testing.T) {
	harness := newServiceHarness()

	err := harness.service.SetStatus(context.Background(), agentActor(), "it-1", Status("cancelled"))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestDelete_RequiresPermission(t *testing.T) {
	harness := newServiceHarness()

	err := harness.service.Delete(context.Background(), agentActor(), "it-1")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	admin := authz.Subject{UserID: "admin-1", Role: sec.RoleAdmin}
	err = harness.service.Delete(context.Background(), admin, "it-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
