// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/platform/sec"
)

// # Fakes

type fakeUserRepository struct {
	users map[string]*User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*User{}}
}

func (repository *fakeUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := repository.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range repository.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *fakeUserRepository) List(_ context.Context, limit, offset int) ([]*User, int, error) {
	var all []*User
	for _, user := range repository.users {
		all = append(all, user)
	}
	return all, len(all), nil
}

func (repository *fakeUserRepository) Create(_ context.Context, user *User) error {
	repository.users[user.ID] = user
	return nil
}

func (repository *fakeUserRepository) Update(_ context.Context, user *User) error {
	repository.users[user.ID] = user
	return nil
}

func (repository *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	return nil
}

func (repository *fakeUserRepository) SetActive(_ context.Context, userID string, active bool) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.IsActive = active
	return nil
}

func (repository *fakeUserRepository) RecordLogin(_ context.Context, userID string, at time.Time) error {
	user, ok := repository.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.LastLoginAt = &at
	return nil
}

func (repository *fakeUserRepository) SoftDelete(_ context.Context, id string) error {
	delete(repository.users, id)
	return nil
}

type fakeSessionRepository struct {
	sessions map[string]*Session
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: map[string]*Session{}}
}

func (repository *fakeSessionRepository) Create(_ context.Context, session *Session) error {
	repository.sessions[session.ID] = session
	return nil
}

func (repository *fakeSessionRepository) FindByTokenHash(_ context.Context, tokenHash string) (*Session, error) {
	for _, session := range repository.sessions {
		if session.TokenHash == tokenHash && !session.IsRevoked && session.ExpiresAt.After(time.Now()) {
			return session, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repository *fakeSessionRepository) Revoke(_ context.Context, sessionID string) error {
	session, ok := repository.sessions[sessionID]
	if !ok {
		return apperr.NotFound("Session")
	}
	session.IsRevoked = true
	return nil
}

func (repository *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	for _, session := range repository.sessions {
		if session.UserID == userID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repository *fakeSessionRepository) RevokeOthers(_ context.Context, userID, currentSessionID string) error {
	for _, session := range repository.sessions {
		if session.UserID == userID && session.ID != currentSessionID {
			session.IsRevoked = true
		}
	}
	return nil
}

func (repository *fakeSessionRepository) DeleteExpired(_ context.Context) error { return nil }

func (repository *fakeSessionRepository) activeCount(userID string) int {
	count := 0
	for _, session := range repository.sessions {
		if session.UserID == userID && !session.IsRevoked {
			count++
		}
	}
	return count
}

type fakeResetTokenRepository struct {
	tokens map[string]string
}

func newFakeResetTokenRepository() *fakeResetTokenRepository {
	return &fakeResetTokenRepository{tokens: map[string]string{}}
}

func (repository *fakeResetTokenRepository) Set(_ context.Context, token, userID string, _ time.Duration) error {
	repository.tokens[token] = userID
	return nil
}

func (repository *fakeResetTokenRepository) Get(_ context.Context, token string) (string, error) {
	if userID, ok := repository.tokens[token]; ok {
		return userID, nil
	}
	return "", apperr.NotFound("Reset token")
}

func (repository *fakeResetTokenRepository) Delete(_ context.Context, token string) error {
	delete(repository.tokens, token)
	return nil
}

type fakeGrantsReader struct {
	grants map[string][]string
}

func (reader *fakeGrantsReader) ListGrants(_ context.Context, userID string) ([]string, error) {
	return reader.grants[userID], nil
}

// fakeTokenProvider records what was embedded into the last issued token.
type fakeTokenProvider struct {
	issued     int
	lastRole   string
	lastGrants []string
}

func (provider *fakeTokenProvider) GenerateAccessToken(userID, email, role string, grants []string, _ time.Duration) (string, error) {
	provider.issued++
	provider.lastRole = role
	provider.lastGrants = grants
	return "access-token-" + userID, nil
}

// # Harness

type serviceHarness struct {
	service  *Service
	users    *fakeUserRepository
	sessions *fakeSessionRepository
	resets   *fakeResetTokenRepository
	grants   *fakeGrantsReader
	tokens   *fakeTokenProvider
}

func newServiceHarness(t *testing.T) *serviceHarness {
	t.Helper()

	users := newFakeUserRepository()
	sessions := newFakeSessionRepository()
	resets := newFakeResetTokenRepository()
	grants := &fakeGrantsReader{grants: map[string][]string{}}
	tokens := &fakeTokenProvider{}

	registry := authz.NewRegistry(nil, authz.DefaultCatalogue(), authz.DefaultRoleGrants(), nil)
	resolver := authz.NewResolver(registry)

	return &serviceHarness{
		service:  NewService(users, sessions, resets, grants, tokens, resolver),
		users:    users,
		sessions: sessions,
		resets:   resets,
		grants:   grants,
		tokens:   tokens,
	}
}

// seedUser provisions an account directly into the fake store with a real
// bcrypt hash so login paths exercise the production comparison.
func (harness *serviceHarness) seedUser(t *testing.T, id, email, password string, role sec.UserRole) *User {
	t.Helper()

	hash, err := sec.HashPassword(password)
	require.NoError(t, err)

	user := &User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Test User",
		Role:         role,
		IsActive:     true,
	}
	harness.users.users[id] = user
	return user
}

func adminActor() authz.Subject {
	return authz.Subject{UserID: "admin-1", Role: sec.RoleAdmin}
}

// # Provisioning

func TestCreateUser_ProvisionsActiveAccount(t *testing.T) {
	harness := newServiceHarness(t)

	user, err := harness.service.CreateUser(context.Background(), adminActor(), CreateUserInput{
		Email:       "agent@voyara.travel",
		Password:    "swordfish-9",
		DisplayName: "New Agent",
		Role:        sec.RoleCSAgent,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "swordfish-9", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("swordfish-9", user.PasswordHash))
}

func TestCreateUser_RequiresManageUsers(t *testing.T) {
	harness := newServiceHarness(t)

	actor := authz.Subject{UserID: "agent-1", Role: sec.RoleCSAgent}
	_, err := harness.service.CreateUser(context.Background(), actor, CreateUserInput{
		Email:    "x@voyara.travel",
		Password: "irrelevant",
		Role:     sec.RoleCSAgent,
	})

	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	harness := newServiceHarness(t)
	harness.seedUser(t, "user-1", "taken@voyara.travel", "secret-123", sec.RoleCSAgent)

	_, err := harness.service.CreateUser(context.Background(), adminActor(), CreateUserInput{
		Email:    "taken@voyara.travel",
		Password: "secret-456",
		Role:     sec.RoleCSAgent,
	})

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestCreateUser_UnknownRole(t *testing.T) {
	harness := newServiceHarness(t)

	_, err := harness.service.CreateUser(context.Background(), adminActor(), CreateUserInput{
		Email:    "new@voyara.travel",
		Password: "secret-123",
		Role:     sec.UserRole("superuser"),
	})

	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

// # Login

func TestLogin_EmbedsGrantsInAccessToken(t *testing.T) {
	harness := newServiceHarness(t)
	harness.seedUser(t, "user-1", "agent@voyara.travel", "secret-123", sec.RoleCSAgent)
	harness.grants.grants["user-1"] = []string{authz.PermPublishItineraries}

	session, err := harness.service.Login(context.Background(), LoginInput{
		Email:    "agent@voyara.travel",
		Password: "secret-123",
	})
	require.NoError(t, err)

	assert.Equal(t, "access-token-user-1", session.AccessToken)
	assert.Equal(t, string(sec.RoleCSAgent), harness.tokens.lastRole)
	assert.Equal(t, []string{authz.PermPublishItineraries}, harness.tokens.lastGrants)

	// The refresh token is stored hashed, never in the clear.
	stored, err := harness.sessions.FindByTokenHash(context.Background(), sec.HashToken(session.RefreshToken))
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, stored.TokenHash)

	assert.NotNil(t, session.User.LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	harness := newServiceHarness(t)
	harness.seedUser(t, "user-1", "agent@voyara.travel", "secret-123", sec.RoleCSAgent)

	_, err := harness.service.Login(context.Background(), LoginInput{
		Email:    "agent@voyara.travel",
		Password: "wrong",
	})

	require.Error(t, err)
	appErr := apperr.As(err)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	// Same message as the unknown-email path so accounts cannot be enumerated.
	assert.Equal(t, "Invalid login credentials", appErr.Message)
}

func TestLogin_UnknownEmail(t *testing.T) {
	harness := newServiceHarness(t)

	_, err := harness.service.Login(context.Background(), LoginInput{
		Email:    "ghost@voyara.travel",
		Password: "anything",
	})

	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", apperr.As(err).Message)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	harness := newServiceHarness(t)
	user := harness.seedUser(t, "user-1", "agent@voyara.travel", "secret-123", sec.RoleCSAgent)
	user.IsActive = false

	_, err := harness.service.Login(context.Background(), LoginInput{
		Email:    "agent@voyara.travel",
		Password: "secret-123",
	})

	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

// # Session Rotation

func TestRefreshSession_RotatesRefreshToken(t *testing.T) {
	harness := newServiceHarness(t)
	harness.seedUser(t, "user-1", "agent@voyara.travel", "secret-123", sec.RoleCSAgent)

	first, err := harness.service.Login(context.Background(), LoginInput{
		Email:    "agent@voyara.travel",
		Password: "secret-123",
	})
	require.NoError(t, err)

	second, err := harness.service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The consumed token must be rejected on replay.
	_, err = harness.service.RefreshSession(context.Background(), first.RefreshToken, "", "")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestRefreshSession_DeactivatedUser(t *testing.T) {
	harness := newServiceHarness(t)
	user := harness.seedUser(t, "user-1", "agent@voyara.travel", "secret-123", sec.RoleCSAgent)

	session, err := harness.service.Login(context.Background(), LoginInput{
		Email:    "agent@voyara.travel",
		Password: "secret-123",
	})
	require.NoError(t, err)

	user.IsActive = false

	_, err = harness.service.RefreshSession(context.Background(), session.RefreshToken, "", "")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestSetUserActive_DeactivationRevokesSessions(t *testing.T) {
	harness := newServiceHarness(t)
	harness.seedUser(t, "user-1", "agent@voyara.travel", "secret-123", sec.RoleCSAgent)

	_, err := harness.service.Login(context.Background(), LoginInput{
		Email:    "agent@voyara.travel",
		Password: "secret-123",
	})
	require.NoError(t, err)
	require.Equal(t, 1, harness.sessions.activeCount("user-1"))

	require.NoError(t, harness.service.SetUserActive(context.Background(), adminActor(), "user-1", false))

	assert.Equal(t, 0, harness.sessions.activeCount("user-1"))
	assert.False(t, harness.users.users["user-1"].IsActive)
}

// # Password Recovery

func TestResetPassword_FullFlow(t *testing.T) {
	harness := newServiceHarness(t)
	harness.seedUser(t, "user-1", "agent@voyara.travel", "old-secret", sec.RoleCSAgent)

	_, err := harness.service.Login(context.Background(), LoginInput{
		Email:    "agent@voyara.travel",
		Password: "old-secret",
	})
	require.NoError(t, err)

	token, err := harness.service.RequestPasswordReset(context.Background(), "agent@voyara.travel")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, harness.service.ResetPassword(context.Background(), token, "new-secret"))

	assert.True(t, sec.CheckPasswordHash("new-secret", harness.users.users["user-1"].PasswordHash))
	assert.Equal(t, 0, harness.sessions.activeCount("user-1"))

	// The token is single-use.
	err = harness.service.ResetPassword(context.Background(), token, "another-secret")
	require.Error(t, err)
}

func TestRequestPasswordReset_SilentOnUnknownEmail(t *testing.T) {
	harness := newServiceHarness(t)

	token, err := harness.service.RequestPasswordReset(context.Background(), "ghost@voyara.travel")

	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	harness := newServiceHarness(t)
	harness.seedUser(t, "user-1", "agent@voyara.travel", "secret-123", sec.RoleCSAgent)

	err := harness.service.ChangePassword(context.Background(), "user-1", "wrong", "new-secret", "")

	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}
