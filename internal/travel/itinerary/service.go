// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/notify"
	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/platform/constants"
	"github.com/voyara/voyara/internal/travel/destination"
	"github.com/voyara/voyara/internal/travel/tour"
	"github.com/voyara/voyara/pkg/refcode"
	"github.com/voyara/voyara/pkg/uuid"
)

// Service orchestrates the three-mode creation workflow and the read side.
//
// Collaborators are narrow: the tour repository supplies templates, the
// destination repository answers existence probes, and the notifier is
// strictly fire-and-forget.
type Service struct {
	repo         Repository
	tours        tour.Repository
	destinations destination.Repository
	resolver     *authz.Resolver
	notifier     notify.Notifier
	logger       *slog.Logger
}

// NewService constructs an itinerary Service.
func NewService(
	repo Repository,
	tours tour.Repository,
	destinations destination.Repository,
	resolver *authz.Resolver,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Service {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &Service{
		repo:         repo,
		tours:        tours,
		destinations: destinations,
		resolver:     resolver,
		notifier:     notifier,
		logger:       logger,
	}
}

// # Build

/*
Build runs one creation-mode construction path end to end: permission check,
mode-specific assembly and validation, identifier and share-code assignment,
and a single-transaction insert.

Share-code collisions are resolved by regeneration: the store's unique
constraint is the arbiter, and the insert is retried with a fresh code up to
[constants.ShareCodeMaxAttempts] times before giving up with a Conflict.

Parameters:
  - actor: the authenticated caller; needs create_itineraries, and
    additionally edit_itineraries for the edit_existing mode.
  - input: one of [ChooseExistingInput], [EditExistingInput], [CustomInput].

Returns:
  - *Itinerary: the persisted aggregate with its fresh share code.
  - error: apperr taxonomy — NotFound, Validation, Conflict, Forbidden — or
    a wrapped storage error.
*/
func (service *Service) Build(context context.Context, actor authz.Subject, input BuildInput) (*Itinerary, error) {
	if err := service.resolver.RequirePermission(actor, authz.PermCreateItineraries); err != nil {
		return nil, err
	}

	var (
		entity Itinerary
		err    error
	)
	switch payload := input.(type) {
	case ChooseExistingInput:
		entity, err = service.buildFromTemplate(context, payload)
	case EditExistingInput:
		if err := service.resolver.RequirePermission(actor, authz.PermEditItineraries); err != nil {
			return nil, err
		}
		entity, err = service.buildFromSource(context, payload)
	case CustomInput:
		entity, err = service.buildCustom(context, payload)
	default:
		err = apperr.ValidationError("Unknown creation method",
			apperr.FieldError{Field: FieldMethod, Message: "must be choose_existing, edit_existing or custom"})
	}
	if err != nil {
		return nil, err
	}

	entity.ID = uuid.New()
	entity.Status = StatusDraft
	entity.PaymentStatus = PaymentUnpaid
	entity.DeliveryStatus = DeliveryPending
	entity.CreatedBy = actor.UserID
	for index := range entity.Days {
		entity.Days[index].ID = uuid.New()
		entity.Days[index].ItineraryID = entity.ID
	}

	if err := service.insertWithFreshCode(context, &entity); err != nil {
		return nil, err
	}

	service.logger.Info("itinerary_created",
		slog.String("itinerary_id", entity.ID),
		slog.String("code", entity.Code),
		slog.String("method", string(entity.CreationMethod)),
		slog.Int("duration_days", entity.DurationDays),
	)

	event := notify.ItineraryCreatedEvent{
		ItineraryID:    entity.ID,
		Code:           entity.Code,
		CreationMethod: string(entity.CreationMethod),
		TravelerName:   entity.TravelerName,
		DurationDays:   entity.DurationDays,
		CreatedBy:      entity.CreatedBy,
		OccurredAt:     time.Now().UTC(),
	}
	if err := service.notifier.ItineraryCreated(context, event); err != nil {
		// Delivery is best-effort; the write already committed.
		service.logger.Warn("itinerary_notification_failed",
			slog.String("code", entity.Code),
			slog.String("error", err.Error()),
		)
	}

	return &entity, nil
}

func (service *Service) buildFromTemplate(context context.Context, input ChooseExistingInput) (Itinerary, error) {
	if input.BaseTourID == "" {
		return Itinerary{}, apperr.ValidationError("A base tour is required",
			apperr.FieldError{Field: FieldBaseTourID, Message: "must not be empty"})
	}

	template, err := service.tours.FindByID(context, input.BaseTourID)
	if err != nil {
		return Itinerary{}, err
	}

	return fromTemplate(*template, input.Traveler), nil
}

func (service *Service) buildFromSource(context context.Context, input EditExistingInput) (Itinerary, error) {
	source, err := service.fetchSource(context, input)
	if err != nil {
		return Itinerary{}, err
	}

	entity, err := applyPatch(*source, input.Patch)
	if err != nil {
		return Itinerary{}, err
	}

	// Only patch-supplied days can introduce new references; the cloned
	// days were validated when the source was built.
	if err := service.checkDestinations(context, input.Patch.Days); err != nil {
		return Itinerary{}, err
	}

	return entity, nil
}

func (service *Service) buildCustom(context context.Context, input CustomInput) (Itinerary, error) {
	days, err := assembleCustom(input.Days)
	if err != nil {
		return Itinerary{}, err
	}

	if err := service.checkDestinations(context, input.Days); err != nil {
		return Itinerary{}, err
	}

	return Itinerary{
		Title:          input.Traveler.Title,
		CreationMethod: MethodCustom,
		TravelerName:   input.Traveler.TravelerName,
		PartySize:      input.Traveler.PartySize,
		StartDate:      input.Traveler.StartDate,
		DurationDays:   len(days),
		Days:           days,
	}, nil
}

// fetchSource resolves the edit_existing source by id or share code.
func (service *Service) fetchSource(context context.Context, input EditExistingInput) (*Itinerary, error) {
	switch {
	case input.SourceID != "" && input.SourceCode != "":
		return nil, apperr.ValidationError("Provide a source id or a source code, not both",
			apperr.FieldError{Field: FieldSource, Message: "source_id and source_code are mutually exclusive"})
	case input.SourceID != "":
		return service.repo.FindByID(context, input.SourceID)
	case input.SourceCode != "":
		return service.repo.FindByCode(context, input.SourceCode)
	default:
		return nil, apperr.ValidationError("A source itinerary is required",
			apperr.FieldError{Field: FieldSource, Message: "provide source_id or source_code"})
	}
}

// checkDestinations verifies every referenced destination exists in the
// catalogue. Dangling references are a validation failure: the builder
// never creates destinations implicitly.
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
					apperr.FieldError{Field: FieldDays, Message: "unknown destination " + destinationID})
			}
		}
	}
	return nil
}

// insertWithFreshCode generates a share code and inserts, regenerating on
// collision. Concurrent builders racing to the same code are resolved by
// the store's unique constraint, never by application locking.
func (service *Service) insertWithFreshCode(context context.Context, entity *Itinerary) error {
	for attempt := 1; attempt <= constants.ShareCodeMaxAttempts; attempt++ {
		code, err := refcode.New(constants.ShareCodeLength)
		if err != nil {
			return apperr.Internal(err)
		}

		entity.Code = code
		err = service.repo.Insert(context, entity)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrCodeCollision) {
			return err
		}

		service.logger.Warn("share_code_collision",
			slog.String("code", code),
			slog.Int("attempt", attempt),
		)
	}

	return apperr.Conflict("Could not allocate a unique share code")
}

// # Read Side

// GetByCode returns a fully hydrated itinerary by its share code.
func (service *Service) GetByCode(context context.Context, actor authz.Subject, code string) (*Itinerary, error) {
	if err := service.resolver.RequirePermission(actor, authz.PermViewItineraries); err != nil {
		return nil, err
	}
	return service.repo.FindByCode(context, code)
}

// List returns a page of itinerary headers.
func (service *Service) List(context context.Context, actor authz.Subject, filter Filter, limit, offset int) ([]*Itinerary, int, error) {
	if err := service.resolver.RequirePermission(actor, authz.PermViewItineraries); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, filter, limit, offset)
}

// SetStatus moves an itinerary through its lifecycle. Publishing is gated
// separately from plain edits.
func (service *Service) SetStatus(context context.Context, actor authz.Subject, id string, status Status) error {
	if !status.IsValid() {
		return apperr.ValidationError("Unknown itinerary status",
			apperr.FieldError{Field: FieldStatus, Message: "must be draft, published or archived"})
	}

	required := authz.PermEditItineraries
	if status == StatusPublished {
		required = authz.PermPublishItineraries
	}
	if err := service.resolver.RequirePermission(actor, required); err != nil {
		return err
	}

	if err := service.repo.UpdateStatus(context, id, status); err != nil {
		return err
	}

	service.logger.Info("itinerary_status_changed",
		slog.String("itinerary_id", id),
		slog.String("status", string(status)),
	)
	return nil
}

// Delete soft-deletes an itinerary.
func (service *Service) Delete(context context.Context, actor authz.Subject, id string) error {
	if err := service.resolver.RequirePermission(actor, authz.PermDeleteItineraries); err != nil {
		return err
	}
	return service.repo.SoftDelete(context, id)
}
