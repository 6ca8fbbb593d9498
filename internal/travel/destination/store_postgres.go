// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

/*
Package destination: PostgreSQL implementation of the catalogue repository.

Uses window-function counting (COUNT(*) OVER()) to avoid a second query on
paginated listings, matching the platform convention.
*/
package destination

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/platform/database/schema"
	"github.com/voyara/voyara/internal/platform/dberr"
)

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed destination store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

/*
List retrieves a filtered, paginated slice of the catalogue.

Parameters:
  - context: context.Context
  - filter: Filter (country and free-text search)
  - limit, offset: Page bounds

Returns:
  - []*Destination: Matching rows
  - int: Total matching count (before pagination)
*/
func (repository *postgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Destination, int, error) {

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s IS NULL
	`,
		schema.TravelDestination.ID,
		schema.TravelDestination.Name,
		schema.TravelDestination.Slug,
		schema.TravelDestination.Country,
		schema.TravelDestination.Region,
		schema.TravelDestination.Description,
		schema.TravelDestination.CreatedAt,
		schema.TravelDestination.Table,
		schema.TravelDestination.DeletedAt,
	))

	if len(filter.Countries) > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = ANY($%d)", schema.TravelDestination.Country, argID))
		args = append(args, filter.Countries)
		argID++
	}

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE $%d", schema.TravelDestination.Name, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC", schema.TravelDestination.Name))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list destinations: %w", err)
	}
	defer rows.Close()

	var destinations []*Destination
	var totalCount int

	for rows.Next() {
		var entity Destination
		err := rows.Scan(
			&entity.ID,
			&entity.Name,
			&entity.Slug,
			&entity.Country,
			&entity.Region,
			&entity.Description,
			&entity.CreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan destination: %w", err)
		}
		destinations = append(destinations, &entity)
	}

	return destinations, totalCount, rows.Err()
}

/*
FindByID returns a single active destination by id.
*/
func (repository *postgresRepository) FindByID(context context.Context, id string) (*Destination, error) {
	return repository.findByColumn(context, schema.TravelDestination.ID, id)
}

/*
FindBySlug returns a single active destination by slug.
*/
func (repository *postgresRepository) FindBySlug(context context.Context, slugValue string) (*Destination, error) {
	return repository.findByColumn(context, schema.TravelDestination.Slug, slugValue)
}

// findByColumn shares the single-row lookup between id and slug access paths.
func (repository *postgresRepository) findByColumn(context context.Context, column, value string) (*Destination, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.TravelDestination.ID,
		schema.TravelDestination.Name,
		schema.TravelDestination.Slug,
		schema.TravelDestination.Country,
		schema.TravelDestination.Region,
		schema.TravelDestination.Description,
		schema.TravelDestination.CreatedAt,
		schema.TravelDestination.Table,
		column,
		schema.TravelDestination.DeletedAt,
	)

	var entity Destination
	err := repository.pool.QueryRow(context, query, value).Scan(
		&entity.ID,
		&entity.Name,
		&entity.Slug,
		&entity.Country,
		&entity.Region,
		&entity.Description,
		&entity.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Destination")
		}
		return nil, fmt.Errorf("postgres: failed to find destination: %w", err)
	}

	return &entity, nil
}

/*
Exists reports whether an active destination row exists.

Description: SELECT 1 probe; cheaper than hydrating the full entity when
the builder only needs referential validity.
*/
func (repository *postgresRepository) Exists(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1 AND %s IS NULL)`,
		schema.TravelDestination.Table,
		schema.TravelDestination.ID,
		schema.TravelDestination.DeletedAt,
	)

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres: failed to check destination existence: %w", err)
	}

	return exists, nil
}

/*
Create inserts a new destination row.
*/
func (repository *postgresRepository) Create(context context.Context, entity *Destination) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		schema.TravelDestination.Table,
		schema.TravelDestination.ID,
		schema.TravelDestination.Name,
		schema.TravelDestination.Slug,
		schema.TravelDestination.Country,
		schema.TravelDestination.Region,
		schema.TravelDestination.Description,
		schema.TravelDestination.CreatedAt,
		schema.TravelDestination.UpdatedAt,
	)

	now := time.Now()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		entity.ID,
		entity.Name,
		entity.Slug,
		entity.Country,
		entity.Region,
		entity.Description,
		entity.CreatedAt,
		entity.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Destination")
	}

	return nil
}

/*
Update overwrites the mutable fields of an existing destination.
*/
func (repository *postgresRepository) Update(context context.Context, entity *Destination) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $6 AND %s IS NULL
	`,
		schema.TravelDestination.Table,
		schema.TravelDestination.Name,
		schema.TravelDestination.Slug,
		schema.TravelDestination.Country,
		schema.TravelDestination.Region,
		schema.TravelDestination.Description,
		schema.TravelDestination.UpdatedAt,
		schema.TravelDestination.ID,
		schema.TravelDestination.DeletedAt,
	)

	result, err := repository.pool.Exec(context, query,
		entity.Name,
		entity.Slug,
		entity.Country,
		entity.Region,
		entity.Description,
		entity.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "Destination")
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Destination")
	}

	return nil
}

/*
SoftDelete hides a destination from the catalogue.
*/
func (repository *postgresRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.TravelDestination.Table,
		schema.TravelDestination.DeletedAt,
		schema.TravelDestination.ID,
		schema.TravelDestination.DeletedAt,
	)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete destination: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound("Destination")
	}

	return nil
}
