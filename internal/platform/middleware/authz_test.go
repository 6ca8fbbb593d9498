// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voyara/voyara/internal/platform/ctxutil"
	"github.com/voyara/voyara/internal/platform/middleware"
	"github.com/voyara/voyara/internal/platform/sec"
)

// grantChecker allows exactly the permissions listed in the grants slice,
// ignoring the role. It stands in for the resolver wired at startup.
type grantChecker struct{}

func (grantChecker) Allowed(_ string, grants []string, permission string) bool {
	for _, grant := range grants {
		if grant == permission {
			return true
		}
	}
	return false
}

func permissionProtected(t *testing.T, permission string) (http.Handler, *bool) {
	t.Helper()

	reached := false
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reached = true
		writer.WriteHeader(http.StatusOK)
	})

	return middleware.RequirePermission(grantChecker{}, permission)(next), &reached
}

func TestRequirePermission_AnonymousRejected(t *testing.T) {
	protected, reached := permissionProtected(t, "manage_users")

	recorder := httptest.NewRecorder()
	protected.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, *reached)
}

func TestRequirePermission_MissingPermissionRejected(t *testing.T) {
	protected, reached := permissionProtected(t, "manage_users")

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := &sec.AuthClaims{UserID: "user-1", Role: string(sec.RoleCSAgent)}
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))

	recorder := httptest.NewRecorder()
	protected.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.False(t, *reached)
}

func TestRequirePermission_GrantAdmitted(t *testing.T) {
	protected, reached := permissionProtected(t, "manage_users")

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	claims := &sec.AuthClaims{
		UserID: "user-1",
		Role:   string(sec.RoleCSAgent),
		Grants: []string{"manage_users"},
	}
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))

	recorder := httptest.NewRecorder()
	protected.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, *reached)
}
