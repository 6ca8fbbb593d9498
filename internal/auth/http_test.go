// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/platform/ctxutil"
	"github.com/voyara/voyara/internal/platform/sec"
)

// # Administrative Route Guard

func newUserRouter(t *testing.T) http.Handler {
	t.Helper()

	harness := newServiceHarness(t)
	registry := authz.NewRegistry(nil, authz.DefaultCatalogue(), authz.DefaultRoleGrants(), nil)
	return NewHandler(harness.service, authz.NewResolver(registry)).UserRoutes()
}

func listUsersRequestAs(role sec.UserRole, hasClaims bool) *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if hasClaims {
		claims := &sec.AuthClaims{UserID: "caller-1", Role: string(role)}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	return request
}

func TestUserRoutes_RejectsAnonymous(t *testing.T) {
	router := newUserRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, listUsersRequestAs("", false))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestUserRoutes_RequiresManageUsers(t *testing.T) {
	router := newUserRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, listUsersRequestAs(sec.RoleCSAgent, true))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestUserRoutes_AdmitsAdmin(t *testing.T) {
	router := newUserRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, listUsersRequestAs(sec.RoleAdmin, true))

	assert.Equal(t, http.StatusOK, recorder.Code)
}
