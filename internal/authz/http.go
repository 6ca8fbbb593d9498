// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

/*
Package authz also provides the HTTP surface for permission inspection and
administration.

# Routing Strategy

  - Authenticated (v1): Catalogue listing and effective-permission inspection.
  - Restricted (v1): Granting permissions requires the manage_permissions
    permission, rejected at the route group by
    [middleware.RequirePermission] and re-checked in the handler through
    [Resolver.RequirePermission].
*/
package authz

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyara/voyara/internal/platform/middleware"
	requestutil "github.com/voyara/voyara/internal/platform/request"
	"github.com/voyara/voyara/internal/platform/respond"
	"github.com/voyara/voyara/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for permission management.
type Handler struct {
	registry *Registry
	resolver *Resolver
	store    Repository
}

// NewHandler constructs a new authz [Handler].
func NewHandler(registry *Registry, resolver *Resolver, store Repository) *Handler {
	return &Handler{registry: registry, resolver: resolver, store: store}
}

// Routes returns a [chi.Router] with permission endpoints mounted.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Get("/", handler.ListCatalogue)
		authed.Get("/effective", handler.EffectivePermissions)
	})

	router.Group(func(restricted chi.Router) {
		restricted.Use(middleware.RequirePermission(handler.resolver, PermManagePermissions))
		restricted.Post("/grants", handler.GrantPermission)
	})

	return router
}

// # Catalogue Inspection

/*
GET /api/v1/permissions.

Description: Returns the full permission catalogue grouped by category,
for rendering permission-management UIs.

Response:
  - 200: []CategoryGroup
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) ListCatalogue(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.registry.ListByCategory())
}

/*
GET /api/v1/permissions/effective.

Description: Returns the caller's effective permission set — role defaults
united with explicit grants. Computed purely from the verified token; no
database round-trip.

Response:
  - 200: {role, permissions: []string}
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) EffectivePermissions(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	subject := SubjectFromClaims(claims)
	effective := handler.resolver.EffectivePermissions(subject)

	respond.OK(writer, map[string]any{
		"role":        claims.Role,
		"permissions": effective.Names(),
	})
}

// # Grant Administration

// grantRequest defines the inbound JSON schema for permission grants.
type grantRequest struct {
	UserID     string `json:"user_id"`
	Permission string `json:"permission"`
}

/*
POST /api/v1/permissions/grants.

Description: Grants a catalogue permission to a user. Grants are additive
only; re-granting is a no-op.

Request:
  - body: grantRequest

Response:
  - 204: Grant recorded
  - 400: ErrInvalidJSON/Validation: Unknown permission or malformed payload
  - 403: ErrForbidden: Caller lacks manage_permissions
*/
func (handler *Handler) GrantPermission(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.resolver.RequirePermission(SubjectFromClaims(claims), PermManagePermissions); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input grantRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("user_id", input.UserID)
	v.UUID("user_id", input.UserID)
	v.Required("permission", input.Permission)
	v.Custom("permission", input.Permission != "" && !handler.registry.Exists(input.Permission), "Unknown permission name")

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.store.Grant(request.Context(), input.UserID, input.Permission, claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
