// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package destination

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/platform/middleware"
	requestutil "github.com/voyara/voyara/internal/platform/request"
	"github.com/voyara/voyara/internal/platform/respond"
	"github.com/voyara/voyara/internal/platform/validate"
	"github.com/voyara/voyara/pkg/pagination"
	"github.com/voyara/voyara/pkg/query"
)

// # Handler Implementation

// Handler implements the HTTP layer for the destination catalogue.
type Handler struct {
	service *Service
}

// NewHandler constructs a new destination [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with catalogue endpoints mounted.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Get("/", handler.List)
		authed.Get("/{id}", handler.Get)
		authed.Post("/", handler.Create)
		authed.Put("/{id}", handler.Update)
		authed.Delete("/{id}", handler.Delete)
	})

	return router
}

/*
GET /api/v1/destinations.

Description: Paginated catalogue listing with optional country and
free-text name filters.

Request:
  - country: string (comma-separated, exact match)
  - q: string (name search)
  - limit, page: int

Response:
  - 200: []Destination with pagination meta
*/
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter := Filter{
		Countries: query.StringSlice(request.URL.Query().Get("country")),
		Search:    request.URL.Query().Get("q"),
	}

	destinations, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, destinations, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/destinations/{id}.

Description: Fetches a single destination by UUID, or by slug when the
value is not a UUID.
*/
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	value := requestutil.ID(request, "id")

	v := &validate.Validator{}
	v.UUID("id", value)

	var entity *Destination
	var err error
	if v.HasErrors() {
		// Not a UUID: treat the path segment as a slug.
		entity, err = handler.service.GetBySlug(request.Context(), value)
	} else {
		entity, err = handler.service.Get(request.Context(), value)
	}

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// destinationRequest defines the inbound JSON schema for create/update.
type destinationRequest struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	Region      string  `json:"region"`
	Description *string `json:"description"`
}

/*
POST /api/v1/destinations.

Description: Adds a catalogue entry. Requires manage_destinations.

Response:
  - 201: Destination
  - 400: Validation failure
  - 403: Missing permission
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input destinationRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("name", input.Name)
	v.MaxLen("name", input.Name, 200)
	v.Required("country", input.Country)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Create(request.Context(), authz.SubjectFromClaims(claims), CreateInput{
		Name:        input.Name,
		Country:     input.Country,
		Region:      input.Region,
		Description: input.Description,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
PUT /api/v1/destinations/{id}.

Description: Replaces the mutable fields of a destination.
*/
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input destinationRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("name", input.Name)
	v.Required("country", input.Country)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity := &Destination{
		ID:          requestutil.ID(request, "id"),
		Name:        input.Name,
		Country:     input.Country,
		Region:      input.Region,
		Description: input.Description,
	}

	if err := handler.service.Update(request.Context(), authz.SubjectFromClaims(claims), entity); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/destinations/{id}.

Description: Soft-deletes a catalogue entry.
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
