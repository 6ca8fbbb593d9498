// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package tour

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/platform/sec"
	"github.com/voyara/voyara/internal/travel/destination"
)

// # Fakes

type fakeRepository struct {
	created []*Tour
}

func (repository *fakeRepository) FindByID(_ context.Context, id string) (*Tour, error) {
	for _, entity := range repository.created {
		if entity.ID == id {
			return entity, nil
		}
	}
	return nil, apperr.NotFound("Tour")
}

func (repository *fakeRepository) List(context.Context, int, int) ([]*Tour, int, error) {
	return repository.created, len(repository.created), nil
}

func (repository *fakeRepository) Create(_ context.Context, entity *Tour) error {
	repository.created = append(repository.created, entity)
	return nil
}

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

// # Harness

type serviceHarness struct {
	service *Service
	repo    *fakeRepository
}

func newServiceHarness() *serviceHarness {
	repo := &fakeRepository{}
	destinations := &fakeDestinationRepository{known: map[string]bool{
		"dest-a": true,
		"dest-b": true,
	}}

	registry := authz.NewRegistry(nil, authz.DefaultCatalogue(), authz.DefaultRoleGrants(), nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &serviceHarness{
		service: NewService(repo, destinations, authz.NewResolver(registry), logger),
		repo:    repo,
	}
}

func managerActor() authz.Subject {
	return authz.Subject{UserID: "manager-1", Role: sec.RoleOpsManager}
}

// # Template Creation

func TestCreate_PersistsOrderedDays(t *testing.T) {
	harness := newServiceHarness()

	entity, err := harness.service.Create(context.Background(), managerActor(), CreateInput{
		Title: "Kyoto Classics",
		Days: []DayInput{
			{DayNumber: 2, DestinationIDs: []string{"dest-b"}},
			{DayNumber: 1, MealsIncluded: "breakfast", DestinationIDs: []string{"dest-a"}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, entity.DurationDays)
	assert.True(t, entity.IsActive)
	require.Len(t, entity.Days, 2)
	assert.Equal(t, 1, entity.Days[0].DayNumber)
	assert.Equal(t, 2, entity.Days[1].DayNumber)
	assert.Len(t, harness.repo.created, 1)
}

func TestCreate_DanglingDestination(t *testing.T) {
	harness := newServiceHarness()

	_, err := harness.service.Create(context.Background(), managerActor(), CreateInput{
		Title: "Ghost Tour",
		Days: []DayInput{
			{DayNumber: 1, DestinationIDs: []string{"dest-a", "dest-missing"}},
		},
	})

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	// Rejected before the insert, not surfaced as a foreign-key failure.
	assert.Empty(t, harness.repo.created)
}

func TestCreate_InvalidDayNumbering(t *testing.T) {
	harness := newServiceHarness()

	cases := []struct {
		name string
		days []DayInput
	}{
		{name: "no days", days: nil},
		{name: "duplicate number", days: []DayInput{{DayNumber: 1}, {DayNumber: 1}}},
		{name: "gap in numbering", days: []DayInput{{DayNumber: 1}, {DayNumber: 3}}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := harness.service.Create(context.Background(), managerActor(), CreateInput{
				Title: "Broken",
				Days:  testCase.days,
			})

			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

func TestCreate_RequiresManageTours(t *testing.T) {
	harness := newServiceHarness()

	actor := authz.Subject{UserID: "agent-1", Role: sec.RoleCSAgent}
	_, err := harness.service.Create(context.Background(), actor, CreateInput{
		Title: "Unauthorized",
		Days:  []DayInput{{DayNumber: 1}},
	})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}
