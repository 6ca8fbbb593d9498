// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package tour

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyara/voyara/internal/platform/apperr"
	"github.com/voyara/voyara/internal/platform/database/schema"
)

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed tour template store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

/*
FindByID hydrates a full template aggregate.

Description: Three round-trips — header, days, destination links — kept
separate for plan simplicity; templates are small and read rarely
(only during choose_existing builds and admin edits).
*/
func (repository *postgresRepository) FindByID(context context.Context, id string) (*Tour, error) {
	headerQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.TravelBaseTour.ID,
		schema.TravelBaseTour.Title,
		schema.TravelBaseTour.Summary,
		schema.TravelBaseTour.DurationDays,
		schema.TravelBaseTour.IsActive,
		schema.TravelBaseTour.CreatedAt,
		schema.TravelBaseTour.UpdatedAt,
		schema.TravelBaseTour.Table,
		schema.TravelBaseTour.ID,
		schema.TravelBaseTour.DeletedAt,
	)

	var entity Tour
	err := repository.pool.QueryRow(context, headerQuery, id).Scan(
		&entity.ID,
		&entity.Title,
		&entity.Summary,
		&entity.DurationDays,
		&entity.IsActive,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Base tour")
		}
		return nil, fmt.Errorf("postgres: failed to find tour: %w", err)
	}

	days, err := repository.loadDays(context, entity.ID)
	if err != nil {
		return nil, err
	}
	entity.Days = days

	return &entity, nil
}

// loadDays fetches ordered days and their destination links for one template.
func (repository *postgresRepository) loadDays(context context.Context, tourID string) ([]Day, error) {
	daysQuery := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.TravelBaseTourDay.ID,
		schema.TravelBaseTourDay.DayNumber,
		schema.TravelBaseTourDay.MealsIncluded,
		schema.TravelBaseTourDay.Table,
		schema.TravelBaseTourDay.TourID,
		schema.TravelBaseTourDay.DayNumber,
	)

	rows, err := repository.pool.Query(context, daysQuery, tourID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list tour days: %w", err)
	}
	defer rows.Close()

	var days []Day
	dayIndex := make(map[string]int)
	for rows.Next() {
		var day Day
		day.TourID = tourID
		if err := rows.Scan(&day.ID, &day.DayNumber, &day.MealsIncluded); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan tour day: %w", err)
		}
		dayIndex[day.ID] = len(days)
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(days) == 0 {
		return days, nil
	}

	linksQuery := fmt.Sprintf(`
		SELECT l.%s, l.%s
		FROM %s l
		JOIN %s d ON l.%s = d.%s
		WHERE d.%s = $1
		ORDER BY l.%s ASC
	`,
		schema.TravelBaseTourDayDestination.TourDayID,
		schema.TravelBaseTourDayDestination.DestinationID,
		schema.TravelBaseTourDayDestination.Table,
		schema.TravelBaseTourDay.Table,
		schema.TravelBaseTourDayDestination.TourDayID,
		schema.TravelBaseTourDay.ID,
		schema.TravelBaseTourDay.TourID,
		schema.TravelBaseTourDayDestination.SortOrder,
	)

	linkRows, err := repository.pool.Query(context, linksQuery, tourID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list tour day destinations: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var dayID, destinationID string
		if err := linkRows.Scan(&dayID, &destinationID); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan tour day destination: %w", err)
		}
		if index, ok := dayIndex[dayID]; ok {
			days[index].DestinationIDs = append(days[index].DestinationIDs, destinationID)
		}
	}

	return days, linkRows.Err()
}

/*
List returns active template headers with window-function counting.
*/
func (repository *postgresRepository) List(context context.Context, limit, offset int) ([]*Tour, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s IS NULL AND %s = TRUE
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`,
		schema.TravelBaseTour.ID,
		schema.TravelBaseTour.Title,
		schema.TravelBaseTour.Summary,
		schema.TravelBaseTour.DurationDays,
		schema.TravelBaseTour.IsActive,
		schema.TravelBaseTour.CreatedAt,
		schema.TravelBaseTour.Table,
		schema.TravelBaseTour.DeletedAt,
		schema.TravelBaseTour.IsActive,
		schema.TravelBaseTour.Title,
	)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list tours: %w", err)
	}
	defer rows.Close()

	var tours []*Tour
	var totalCount int
	for rows.Next() {
		var entity Tour
		err := rows.Scan(
			&entity.ID,
			&entity.Title,
			&entity.Summary,
			&entity.DurationDays,
			&entity.IsActive,
			&entity.CreatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan tour: %w", err)
		}
		tours = append(tours, &entity)
	}

	return tours, totalCount, rows.Err()
}

/*
Create persists a template header, days, and destination links atomically.

Description: Wraps the writes in one transaction and uses pgx batching for
the day and link inserts to limit round-trips.
*/
func (repository *postgresRepository) Create(context context.Context, entity *Tour) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin tour transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context) }()

	now := time.Now()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	headerQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		schema.TravelBaseTour.Table,
		schema.TravelBaseTour.ID,
		schema.TravelBaseTour.Title,
		schema.TravelBaseTour.Summary,
		schema.TravelBaseTour.DurationDays,
		schema.TravelBaseTour.IsActive,
		schema.TravelBaseTour.CreatedAt,
		schema.TravelBaseTour.UpdatedAt,
	)

	_, err = tx.Exec(context, headerQuery,
		entity.ID,
		entity.Title,
		entity.Summary,
		entity.DurationDays,
		entity.IsActive,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to insert tour: %w", err)
	}

	batch := &pgx.Batch{}
	dayQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
	`,
		schema.TravelBaseTourDay.Table,
		schema.TravelBaseTourDay.ID,
		schema.TravelBaseTourDay.TourID,
		schema.TravelBaseTourDay.DayNumber,
		schema.TravelBaseTourDay.MealsIncluded,
	)
	linkQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
	`,
		schema.TravelBaseTourDayDestination.Table,
		schema.TravelBaseTourDayDestination.TourDayID,
		schema.TravelBaseTourDayDestination.DestinationID,
		schema.TravelBaseTourDayDestination.SortOrder,
	)

	queued := 0
	for _, day := range entity.Days {
		batch.Queue(dayQuery, day.ID, entity.ID, day.DayNumber, day.MealsIncluded)
		queued++
		for order, destinationID := range day.DestinationIDs {
			batch.Queue(linkQuery, day.ID, destinationID, order)
			queued++
		}
	}

	results := tx.SendBatch(context, batch)
	for i := 0; i < queued; i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("postgres: failed to batch insert tour day %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("postgres: failed to close tour batch: %w", err)
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit tour transaction: %w", err)
	}

	return nil
}
