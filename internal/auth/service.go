// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/platform/sec"
	"github.com/voyara/voyara/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - role: The role of the account.
	//   - grants: Explicit permission grants embedded in the token so
	//     permission resolution never needs a database round-trip.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID, email, role string, grants []string, timeToLive time.Duration) (string, error)
}

// GrantsReader supplies a user's explicit permission grants at token
// issuance time.
type GrantsReader interface {
	ListGrants(context context.Context, userID string) ([]string, error)
}

// Service implements staff authentication and account administration.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, provisioning,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository       UserRepository
	sessionRepository    SessionRepository
	resetTokenRepository ResetTokenRepository
	grantsReader         GrantsReader
	tokenProvider        TokenProvider
	resolver             *authz.Resolver
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	resetRepo ResetTokenRepository,
	grantsReader GrantsReader,
	tokenProv TokenProvider,
	resolver *authz.Resolver,
) *Service {
	return &Service{
		userRepository:       userRepo,
		sessionRepository:    sessionRepo,
		resetTokenRepository: resetRepo,
		grantsReader:         grantsReader,
		tokenProvider:        tokenProv,
		resolver:             resolver,
	}
}

// # Account Provisioning

// CreateUserInput holds the data required to provision a staff account.
type CreateUserInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        sec.UserRole
}

/*
CreateUser provisions a new staff account.

Description: Accounts are created by administrators only; there is no
self-service registration path for a back-office system.

Parameters:
  - context: context.Context
  - actor: authz.Subject (must hold manage_users)
  - input: CreateUserInput

Returns:
  - *User: Created entity
  - err: Forbidden, Conflict (if email exists) or storage errors
*/
func (service *Service) CreateUser(context context.Context, actor authz.Subject, input CreateUserInput) (*User, error) {
	if err := service.resolver.RequirePermission(actor, authz.PermManageUsers); err != nil {
		return nil, err
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	if !input.Role.IsValid() {
		return nil, apperr.ValidationError("Unknown role",
			apperr.FieldError{Field: FieldRole, Message: "must be one of the staff roles"})
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         input.Role,
		IsActive:     true,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_create_user_failed: %w", err)
	}

	return user, nil
}

/*
ListUsers returns a page of staff accounts for the administration screen.

Parameters:
  - context: context.Context
  - actor: authz.Subject (must hold manage_users)
  - limit, offset: int

Returns:
  - []*User, int: Page plus total
  - err: Forbidden or storage errors
*/
func (service *Service) ListUsers(context context.Context, actor authz.Subject, limit, offset int) ([]*User, int, error) {
	if err := service.resolver.RequirePermission(actor, authz.PermManageUsers); err != nil {
		return nil, 0, err
	}
	return service.userRepository.List(context, limit, offset)
}

/*
SetUserActive enables or disables an account.

Description: Disabling revokes every active session so the account is locked
out immediately, not at next token expiry.

Parameters:
  - context: context.Context
  - actor: authz.Subject (must hold manage_users)
  - userID: string
  - active: bool

Returns:
  - err: Forbidden or storage errors
*/
func (service *Service) SetUserActive(context context.Context, actor authz.Subject, userID string, active bool) error {
	if err := service.resolver.RequirePermission(actor, authz.PermManageUsers); err != nil {
		return err
	}

	if err := service.userRepository.SetActive(context, userID, active); err != nil {
		return err
	}

	if !active {
		_ = service.sessionRepository.RevokeAll(context, userID)
	}
	return nil
}

// GetProfile returns the caller's own account.
func (service *Service) GetProfile(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
loads the account's explicit permission grants into the access token, and
initializes a new session with rotated security tokens.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.userRepository.FindByEmail(context, input.Email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using bcrypt's constant-time comparison to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Deactivated accounts keep their credentials but cannot sign in.
	if !user.IsActive {
		return nil, apperr.Unauthorized("Account is deactivated")
	}

	session, err := service.establishSession(context, user, input.UserAgent, input.IPAddress)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := service.userRepository.RecordLogin(context, user.ID, now); err == nil {
		user.LastLoginAt = &now
	}

	return session, nil
}

// establishSession issues an access/refresh token pair and persists the
// tracking session. Shared by Login and RefreshSession.
func (service *Service) establishSession(context context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {

	// Grants ride inside the JWT so every later permission check is pure
	// set arithmetic over the claims.
	grants, err := service.grantsReader.ListGrants(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_load_grants_failed: %w", err)
	}

	// Generate short-lived Access Token
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, string(user.Role), grants, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	// Generate long-lived Refresh Token
	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	// Create and persist the tracking session
	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
		IsRevoked: false,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

/*
Logout permanently revokes the user's active session.

Description: Ensures that a tracked refresh token can never be used again.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	// Hash the refresh token
	tokenHash := sec.HashToken(refreshToken)

	// Find the session by token hash
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) session is already gone or invalid, we consider logout successful (idempotent operation).
	if err != nil {
		return nil
	}

	// If (err == nil) Revoke the session
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Management

/*
RefreshSession implements the Refresh Token Rotation mechanism.

Description: Verifies the existing refresh token, revokes it to prevent reuse
(replay attack mitigation), and issues a fresh pair of rotated tokens. Grants
are re-read on every rotation so a newly granted permission reaches the token
within one refresh cycle.

Parameters:
  - context: context.Context
  - refreshToken: string
  - userAgent: string
  - ipAddress: string

Returns:
  - *LoginSession: New session credentials
  - err: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {

	// Hash the incoming refresh token to look it up
	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is either expired, already revoked, or completely invalid.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Rotation: Revoke the old session to prevent replay attacks
	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	// Fetch the user associated with this session
	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil || !user.IsActive {
		return nil, apperr.Unauthorized("User not found or deactivated")
	}

	return service.establishSession(context, user, userAgent, ipAddress)
}

// # Password Recovery

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates a secure token and saves it to Redis.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Discovery token
  - err: Generation errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	// Look up user.
	// NOTE: We don't return NOT_FOUND if the email doesn't exist to prevent user enumeration.
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	// Generate reset token
	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	// Save to Redis
	if err := service.resetTokenRepository.Set(context, token, user.ID, ResetTokenTTL); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Verifies the token, hashes the new password, updates the DB,
and revokes all active sessions for security cleanup.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: Validation or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {

	// Retrieve the userID associated with the reset token from Redis
	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the user's password in persistent storage
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	// Security Cleanup: Revoke EVERY active session for this user
	_ = service.sessionRepository.RevokeAll(context, userID)

	// Delete the used token from Redis
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password and then rotates all OTHER refresh sessions
to ensure high security across devices.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string
  - currentRefreshToken: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword, currentRefreshToken string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	// Security Side Effect: Revoke all other sessions to force re-login on other devices
	tokenHash := sec.HashToken(currentRefreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)
	if err == nil {
		_ = service.sessionRepository.RevokeOthers(context, userID, session.ID)
	}

	return nil
}
