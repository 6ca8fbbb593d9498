// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

/*
Package auth implements the back-office identity and session layer.

Accounts are provisioned by administrators (there is no self-service
sign-up); identity is the unique email address. Sessions follow the
refresh-token-rotation model: a short-lived RSA-signed JWT carries the
role and explicit permission grants, and a long-lived refresh token is
tracked server-side so it can be revoked.
*/
package auth

import (
	"time"

	"github.com/voyara/voyara/internal/platform/sec"
)

// # Domain Entities

// User represents a back-office staff account.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string       `json:"display_name"`
	Role         sec.UserRole `json:"role"`
	IsActive     bool         `json:"is_active"`
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Session represents an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldRole            = "role"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
	FieldIsActive        = "is_active"
)
