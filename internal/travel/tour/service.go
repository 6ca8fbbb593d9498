// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package tour

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/travel/destination"
	"github.com/voyara/voyara/pkg/uuid"
)

// Service implements template use cases.
type Service struct {
	repo         Repository
	destinations destination.Repository
	resolver     *authz.Resolver
	logger       *slog.Logger
}

// NewService constructs a tour Service.
func NewService(repo Repository, destinations destination.Repository, resolver *authz.Resolver, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		destinations: destinations,
		resolver:     resolver,
		logger:       logger,
	}
}

// Get returns a fully hydrated template.
func (service *Service) Get(context context.Context, id string) (*Tour, error) {
	return service.repo.FindByID(context, id)
}

// List returns a page of active template headers.
func (service *Service) List(context context.Context, limit, offset int) ([]*Tour, int, error) {
	return service.repo.List(context, limit, offset)
}

// DayInput describes one template day on creation.
type DayInput struct {
	DayNumber      int
	MealsIncluded  string
	DestinationIDs []string
}

// CreateInput holds the fields needed to register a template.
type CreateInput struct {
	Title   string
	Summary string
	Days    []DayInput
}

// Create validates the day structure and persists a new template.
//
// Template days obey the same numbering invariant as itinerary days:
// at least one day, numbers forming a contiguous 1..N set in any order.
func (service *Service) Create(context context.Context, actor authz.Subject, input CreateInput) (*Tour, error) {
	if err := service.resolver.RequirePermission(actor, authz.PermManageTours); err != nil {
		return nil, err
	}

	if len(input.Days) == 0 {
		return nil, apperr.ValidationError("A tour template requires at least one day")
	}

	seen := make(map[int]bool, len(input.Days))
	for _, day := range input.Days {
		if day.DayNumber < 1 || day.DayNumber > len(input.Days) {
			return nil, apperr.ValidationError(fmt.Sprintf("Day number %d is outside 1..%d", day.DayNumber, len(input.Days)))
		}
		if seen[day.DayNumber] {
			return nil, apperr.ValidationError(fmt.Sprintf("Duplicate day number %d", day.DayNumber))
		}
		seen[day.DayNumber] = true
	}

	if err := service.checkDestinations(context, input.Days); err != nil {
		return nil, err
	}

	entity := &Tour{
		ID:           uuid.New(),
		Title:        input.Title,
		Summary:      input.Summary,
		DurationDays: len(input.Days),
		IsActive:     true,
	}

	for _, day := range input.Days {
		entity.Days = append(entity.Days, Day{
			ID:             uuid.New(),
			TourID:         entity.ID,
			DayNumber:      day.DayNumber,
			MealsIncluded:  day.MealsIncluded,
			DestinationIDs: day.DestinationIDs,
		})
	}
	sort.Slice(entity.Days, func(i, j int) bool {
		return entity.Days[i].DayNumber < entity.Days[j].DayNumber
	})

	if err := service.repo.Create(context, entity); err != nil {
		return nil, err
	}

	service.logger.Info("tour_template_created",
		slog.String("tour_id", entity.ID),
		slog.Int("duration_days", entity.DurationDays),
	)

	return entity, nil
}

// checkDestinations verifies every referenced destination exists in the
// catalogue, so a dangling id fails as a validation error rather than as
// a foreign-key violation inside the insert transaction.
func (service *Service) checkDestinations(context context.Context, days []DayInput) error {
	checked := make(map[string]bool)
	for _, day := range days {
		for _, destinationID := range day.DestinationIDs {
			if checked[destinationID] {
				continue
			}
			checked[destinationID] = true

			exists, err := service.destinations.Exists(context, destinationID)
			if err != nil {
				return err
			}
			if !exists {
				return apperr.ValidationError("Referenced destination does not exist",
					apperr.FieldError{Field: "days", Message: "unknown destination " + destinationID})
			}
		}
	}
	return nil
}
