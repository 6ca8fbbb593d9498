// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package tour

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/platform/middleware"
	requestutil "github.com/voyara/voyara/internal/platform/request"
	"github.com/voyara/voyara/internal/platform/respond"
	"github.com/voyara/voyara/internal/platform/validate"
	"github.com/voyara/voyara/pkg/pagination"
	"github.com/voyara/voyara/pkg/slice"
)

// Handler implements the HTTP layer for tour templates.
type Handler struct {
	service *Service
}

// NewHandler constructs a new tour [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with template endpoints mounted.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Get("/", handler.List)
		authed.Get("/{id}", handler.Get)
		authed.Post("/", handler.Create)
	})

	return router
}

/*
GET /api/v1/tours.

Description: Paginated listing of active tour templates (headers only).
*/
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	tours, total, err := handler.service.List(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tours, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/tours/{id}.

Description: Full template aggregate including days and destinations.
*/
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// tourDayRequest mirrors one template day in the create payload.
type tourDayRequest struct {
	DayNumber      int      `json:"day_number"`
	MealsIncluded  string   `json:"meals_included"`
	DestinationIDs []string `json:"destination_ids"`
}

// createTourRequest defines the inbound JSON schema for template creation.
type createTourRequest struct {
	Title   string           `json:"title"`
	Summary string           `json:"summary"`
	Days    []tourDayRequest `json:"days"`
}

/*
POST /api/v1/tours.

Description: Registers a reusable template. Requires manage_tours.

Response:
  - 201: Tour
  - 400: Validation failure (empty day list, bad numbering)
  - 403: Missing permission
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createTourRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("title", input.Title)
	v.MaxLen("title", input.Title, 200)
	v.Custom("days", len(input.Days) == 0, "At least one day is required")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	createInput := CreateInput{
		Title:   input.Title,
		Summary: input.Summary,
		Days: slice.Map(input.Days, func(day tourDayRequest) DayInput {
			return DayInput{
				DayNumber:      day.DayNumber,
				MealsIncluded:  day.MealsIncluded,
				DestinationIDs: day.DestinationIDs,
			}
		}),
	}

	entity, err := handler.service.Create(request.Context(), authz.SubjectFromClaims(claims), createInput)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}
