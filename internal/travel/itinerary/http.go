// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package itinerary

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/platform/middleware"
	requestutil "github.com/voyara/voyara/internal/platform/request"
	"github.com/voyara/voyara/internal/platform/respond"
	"github.com/voyara/voyara/internal/platform/validate"
	"github.com/voyara/voyara/pkg/pagination"
	"github.com/voyara/voyara/pkg/slice"
)

// # Handler Implementation

// Handler implements the HTTP layer for itineraries.
type Handler struct {
	service *Service
}

// NewHandler constructs a new itinerary [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with itinerary endpoints mounted.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Post("/", handler.Build)
		authed.Get("/", handler.List)
		authed.Get("/{code}", handler.GetByCode)
		authed.Patch("/{id}/status", handler.SetStatus)
		authed.Delete("/{id}", handler.Delete)
	})

	return router
}

// # Request Payloads

type travelerRequest struct {
	Title        string     `json:"title"`
	TravelerName string     `json:"traveler_name"`
	PartySize    int        `json:"party_size"`
	StartDate    *time.Time `json:"start_date"`
}

type dayRequest struct {
	DayNumber      int      `json:"day_number"`
	MealsIncluded  *string  `json:"meals_included"`
	DestinationIDs []string `json:"destination_ids"`
}

type editPatchRequest struct {
	Title        *string      `json:"title"`
	TravelerName *string      `json:"traveler_name"`
	PartySize    *int         `json:"party_size"`
	StartDate    *time.Time   `json:"start_date"`
	RemoveDays   []int        `json:"remove_days"`
	Days         []dayRequest `json:"days"`
	Order        []int        `json:"order"`
}

// buildItineraryRequest is the inbound JSON schema for all three creation
// modes; the method field selects which of the mode sections is read.
type buildItineraryRequest struct {
	Method   string          `json:"method"`
	Traveler travelerRequest `json:"traveler"`

	// choose_existing
	BaseTourID string `json:"base_tour_id"`

	// edit_existing
	SourceID   string            `json:"source_id"`
	SourceCode string            `json:"source_code"`
	Patch      *editPatchRequest `json:"patch"`

	// custom
	Days []dayRequest `json:"days"`
}

func toDayInputs(days []dayRequest) []DayInput {
	return slice.Map(days, func(day dayRequest) DayInput {
		return DayInput{
			DayNumber:      day.DayNumber,
			MealsIncluded:  day.MealsIncluded,
			DestinationIDs: day.DestinationIDs,
		}
	})
}

func (payload buildItineraryRequest) toInput() BuildInput {
	traveler := TravelerDetails{
		Title:        payload.Traveler.Title,
		TravelerName: payload.Traveler.TravelerName,
		PartySize:    payload.Traveler.PartySize,
		StartDate:    payload.Traveler.StartDate,
	}

	switch CreationMethod(payload.Method) {
	case MethodChooseExisting:
		return ChooseExistingInput{BaseTourID: payload.BaseTourID, Traveler: traveler}
	case MethodEditExisting:
		input := EditExistingInput{SourceID: payload.SourceID, SourceCode: payload.SourceCode}
		if payload.Patch != nil {
			input.Patch = EditPatch{
				Title:        payload.Patch.Title,
				TravelerName: payload.Patch.TravelerName,
				PartySize:    payload.Patch.PartySize,
				StartDate:    payload.Patch.StartDate,
				RemoveDays:   payload.Patch.RemoveDays,
				Days:         toDayInputs(payload.Patch.Days),
				Order:        payload.Patch.Order,
			}
		}
		return input
	default:
		return CustomInput{Traveler: traveler, Days: toDayInputs(payload.Days)}
	}
}

// # Endpoints

/*
POST /api/v1/itineraries.

Description: Builds an itinerary through one of the three creation modes.

Request:
  - method: "choose_existing" | "edit_existing" | "custom"
  - traveler: traveler overlay fields
  - base_tour_id (choose_existing), source_id/source_code + patch
    (edit_existing), days (custom)

Response:
  - 201: Itinerary with its fresh share code
  - 400: Validation failure (day numbering, dangling destination, bad method)
  - 404: Referenced base tour or source itinerary missing
  - 409: Share-code generation exhausted
*/
func (handler *Handler) Build(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload buildItineraryRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldMethod, payload.Method)
	v.OneOf(FieldMethod, payload.Method,
		string(MethodChooseExisting), string(MethodEditExisting), string(MethodCustom))
	v.MaxLen(FieldTitle, payload.Traveler.Title, 200)
	v.MaxLen(FieldTravelerName, payload.Traveler.TravelerName, 200)
	v.Custom(FieldPartySize, payload.Traveler.PartySize < 0, "must not be negative")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Build(request.Context(), authz.SubjectFromClaims(claims), payload.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
GET /api/v1/itineraries.

Description: Paginated itinerary headers with optional status, creation
method, and free-text filters.
*/
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	query := request.URL.Query()
	filter := Filter{
		Status:         Status(query.Get("status")),
		CreationMethod: CreationMethod(query.Get("method")),
		CreatedBy:      query.Get("created_by"),
		Search:         query.Get("q"),
	}

	itineraries, total, err := handler.service.List(request.Context(), authz.SubjectFromClaims(claims), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, itineraries, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/itineraries/{code}.

Description: Fetches a full aggregate by its human-shareable code.
*/
func (handler *Handler) GetByCode(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.GetByCode(request.Context(), authz.SubjectFromClaims(claims), requestutil.ID(request, "code"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

type statusRequest struct {
	Status string `json:"status"`
}

/*
PATCH /api/v1/itineraries/{id}/status.

Description: Moves an itinerary through draft/published/archived.
Publishing requires publish_itineraries; other transitions require
edit_itineraries.
*/
func (handler *Handler) SetStatus(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload statusRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.UUID("id", requestutil.ID(request, "id"))
	v.Required(FieldStatus, payload.Status)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SetStatus(request.Context(), authz.SubjectFromClaims(claims), requestutil.ID(request, "id"), Status(payload.Status)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /api/v1/itineraries/{id}.

Description: Soft-deletes an itinerary. Requires delete_itineraries.
*/
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), authz.SubjectFromClaims(claims), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
