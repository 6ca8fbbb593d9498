// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package authz

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyara/voyara/internal/platform/database/schema"
	"github.com/voyara/voyara/internal/platform/dberr"
)

// # PostgreSQL Repository

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the permission Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
EnsurePermission inserts a catalogue permission if absent.

Description: Uses 'ON CONFLICT DO NOTHING' on the name primary key so
seeding is idempotent and never touches existing descriptions.

Parameters:
  - context: context.Context
  - permission: Permission

Returns:
  - bool: true when the row was newly created
  - error: Storage failures
*/
func (repository *PostgresRepository) EnsurePermission(context context.Context, permission Permission) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (%s) DO NOTHING
	`,
		schema.AuthzPermission.Table,
		schema.AuthzPermission.Name,
		schema.AuthzPermission.Category,
		schema.AuthzPermission.Description,
		schema.AuthzPermission.CreatedAt,
		schema.AuthzPermission.Name,
	)

	result, err := repository.pool.Exec(context, query,
		permission.Name,
		permission.Category,
		permission.Description,
	)
	if err != nil {
		return false, fmt.Errorf("postgres: failed to ensure permission: %w", err)
	}

	// RowsAffected is 0 when the conflict clause suppressed the insert.
	return result.RowsAffected() == 1, nil
}

/*
ListGrants returns the explicit permission grants for a user.
*/
func (repository *PostgresRepository) ListGrants(context context.Context, userID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE %s = $1 ORDER BY %s
	`,
		schema.AuthzUserGrant.PermissionName,
		schema.AuthzUserGrant.Table,
		schema.AuthzUserGrant.UserID,
		schema.AuthzUserGrant.PermissionName,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list grants: %w", err)
	}
	defer rows.Close()

	var grants []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan grant: %w", err)
		}
		grants = append(grants, name)
	}

	return grants, rows.Err()
}

/*
Grant records an explicit permission grant.

Description: Idempotent via 'ON CONFLICT DO NOTHING' on the composite
(userid, permissionname) key. Granting twice leaves a single row.
*/
func (repository *PostgresRepository) Grant(context context.Context, userID, permissionName, grantedBy string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT DO NOTHING
	`,
		schema.AuthzUserGrant.Table,
		schema.AuthzUserGrant.UserID,
		schema.AuthzUserGrant.PermissionName,
		schema.AuthzUserGrant.GrantedBy,
		schema.AuthzUserGrant.GrantedAt,
	)

	if _, err := repository.pool.Exec(context, query, userID, permissionName, grantedBy); err != nil {
		return dberr.Wrap(err, "Permission grant")
	}

	return nil
}
