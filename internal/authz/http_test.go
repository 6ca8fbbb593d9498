// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package authz_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/platform/ctxutil"
	"github.com/voyara/voyara/internal/platform/sec"
)

// # Route Guards

func newRouterHarness() (http.Handler, *fakeStore) {
	store := newFakeStore()
	registry := authz.NewRegistry(store, authz.DefaultCatalogue(), authz.DefaultRoleGrants(), nil)
	resolver := authz.NewResolver(registry)
	return authz.NewHandler(registry, resolver, store).Routes(), store
}

func grantRequestAs(role sec.UserRole, hasClaims bool) *http.Request {
	body := strings.NewReader(`{
		"user_id": "3f1c9d4e-8a2b-4c5d-9e6f-1a2b3c4d5e6f",
		"permission": "publish_itineraries"
	}`)

	request := httptest.NewRequest(http.MethodPost, "/grants", body)
	if hasClaims {
		claims := &sec.AuthClaims{UserID: "admin-1", Role: string(role)}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	return request
}

func TestRoutes_GrantRejectsAnonymous(t *testing.T) {
	router, store := newRouterHarness()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, grantRequestAs("", false))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Empty(t, store.grants)
}

func TestRoutes_GrantRequiresManagePermissions(t *testing.T) {
	router, store := newRouterHarness()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, grantRequestAs(sec.RoleCSAgent, true))

	// Blocked by the route-group guard before the handler runs.
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Empty(t, store.grants)
}

func TestRoutes_GrantAdmittedForAdmin(t *testing.T) {
	router, store := newRouterHarness()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, grantRequestAs(sec.RoleAdmin, true))

	require.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t,
		[]string{authz.PermPublishItineraries},
		store.grants["3f1c9d4e-8a2b-4c5d-9e6f-1a2b3c4d5e6f"],
	)
}
