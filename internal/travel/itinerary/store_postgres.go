// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package itinerary

import (
	"context"
	"errors"
	"fmt"
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

// NewRepository constructs a PostgreSQL backed itinerary store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

/*
Insert writes the aggregate in one transaction: header row, day rows, and
destination association rows. Nothing is visible until commit.

The share code carries the table's only application-facing unique
constraint, so a unique violation on the header insert is by construction a
code collision and is surfaced as [ErrCodeCollision] for the service's
regenerate-and-retry loop.
*/
func (repository *postgresRepository) Insert(context context.Context, entity *Itinerary) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(context)

	headerQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		schema.TravelItinerary.Table,
		schema.TravelItinerary.ID,
		schema.TravelItinerary.Code,
		schema.TravelItinerary.Title,
		schema.TravelItinerary.CreationMethod,
		schema.TravelItinerary.Status,
		schema.TravelItinerary.PaymentStatus,
		schema.TravelItinerary.DeliveryStatus,
		schema.TravelItinerary.TravelerName,
		schema.TravelItinerary.PartySize,
		schema.TravelItinerary.StartDate,
		schema.TravelItinerary.DurationDays,
		schema.TravelItinerary.BaseTourID,
		schema.TravelItinerary.CreatedBy,
		schema.TravelItinerary.CreatedAt,
		schema.TravelItinerary.UpdatedAt,
	)

	now := time.Now().UTC()
	entity.CreatedAt = now
	entity.UpdatedAt = now

	_, err = tx.Exec(context, headerQuery,
		entity.ID,
		entity.Code,
		entity.Title,
		entity.CreationMethod,
		entity.Status,
		entity.PaymentStatus,
		entity.DeliveryStatus,
		entity.TravelerName,
		entity.PartySize,
		entity.StartDate,
		entity.DurationDays,
		entity.BaseTourID,
		entity.CreatedBy,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrCodeCollision
		}
		return fmt.Errorf("postgres: failed to insert itinerary: %w", err)
	}

	dayQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
	`,
		schema.TravelItineraryDay.Table,
		schema.TravelItineraryDay.ID,
		schema.TravelItineraryDay.ItineraryID,
		schema.TravelItineraryDay.DayNumber,
		schema.TravelItineraryDay.MealsIncluded,
	)
	linkQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
	`,
		schema.TravelItineraryDayDestination.Table,
		schema.TravelItineraryDayDestination.DayID,
		schema.TravelItineraryDayDestination.DestinationID,
		schema.TravelItineraryDayDestination.SortOrder,
	)

	batch := &pgx.Batch{}
	for _, day := range entity.Days {
		batch.Queue(dayQuery, day.ID, entity.ID, day.DayNumber, day.MealsIncluded)
		for sortOrder, destinationID := range day.DestinationIDs {
			batch.Queue(linkQuery, day.ID, destinationID, sortOrder)
		}
	}

	results := tx.SendBatch(context, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("postgres: failed to insert itinerary day rows: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("postgres: failed to close batch: %w", err)
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit itinerary: %w", err)
	}
	return nil
}

// FindByCode returns a hydrated aggregate by share code.
func (repository *postgresRepository) FindByCode(context context.Context, code string) (*Itinerary, error) {
	return repository.findByColumn(context, schema.TravelItinerary.Code, code)
}

// FindByID returns a hydrated aggregate by surrogate id.
func (repository *postgresRepository) FindByID(context context.Context, id string) (*Itinerary, error) {
	return repository.findByColumn(context, schema.TravelItinerary.ID, id)
}

func (repository *postgresRepository) findByColumn(context context.Context, column, value string) (*Itinerary, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL
	`,
		schema.TravelItinerary.ID,
		schema.TravelItinerary.Code,
		schema.TravelItinerary.Title,
		schema.TravelItinerary.CreationMethod,
		schema.TravelItinerary.Status,
		schema.TravelItinerary.PaymentStatus,
		schema.TravelItinerary.DeliveryStatus,
		schema.TravelItinerary.TravelerName,
		schema.TravelItinerary.PartySize,
		schema.TravelItinerary.StartDate,
		schema.TravelItinerary.DurationDays,
		schema.TravelItinerary.BaseTourID,
		schema.TravelItinerary.CreatedBy,
		schema.TravelItinerary.CreatedAt,
		schema.TravelItinerary.UpdatedAt,
		schema.TravelItinerary.Table,
		column,
		schema.TravelItinerary.DeletedAt,
	)

	var entity Itinerary
	err := repository.pool.QueryRow(context, query, value).Scan(
		&entity.ID,
		&entity.Code,
		&entity.Title,
		&entity.CreationMethod,
		&entity.Status,
		&entity.PaymentStatus,
		&entity.DeliveryStatus,
		&entity.TravelerName,
		&entity.PartySize,
		&entity.StartDate,
		&entity.DurationDays,
		&entity.BaseTourID,
		&entity.CreatedBy,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Itinerary")
		}
		return nil, fmt.Errorf("postgres: failed to find itinerary: %w", err)
	}

	days, err := repository.loadDays(context, entity.ID)
	if err != nil {
		return nil, err
	}
	entity.Days = days

	return &entity, nil
}

// loadDays fetches ordered days and their destination links for one itinerary.
func (repository *postgresRepository) loadDays(context context.Context, itineraryID string) ([]Day, error) {
	daysQuery := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.TravelItineraryDay.ID,
		schema.TravelItineraryDay.DayNumber,
		schema.TravelItineraryDay.MealsIncluded,
		schema.TravelItineraryDay.Table,
		schema.TravelItineraryDay.ItineraryID,
		schema.TravelItineraryDay.DayNumber,
	)

	rows, err := repository.pool.Query(context, daysQuery, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list itinerary days: %w", err)
	}
	defer rows.Close()

	var days []Day
	dayIndex := make(map[string]int)
	for rows.Next() {
		var day Day
		day.ItineraryID = itineraryID
		if err := rows.Scan(&day.ID, &day.DayNumber, &day.MealsIncluded); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan itinerary day: %w", err)
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
		schema.TravelItineraryDayDestination.DayID,
		schema.TravelItineraryDayDestination.DestinationID,
		schema.TravelItineraryDayDestination.Table,
		schema.TravelItineraryDay.Table,
		schema.TravelItineraryDayDestination.DayID,
		schema.TravelItineraryDay.ID,
		schema.TravelItineraryDay.ItineraryID,
		schema.TravelItineraryDayDestination.SortOrder,
	)

	linkRows, err := repository.pool.Query(context, linksQuery, itineraryID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list day destinations: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var dayID, destinationID string
		if err := linkRows.Scan(&dayID, &destinationID); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan day destination: %w", err)
		}
		if index, ok := dayIndex[dayID]; ok {
			days[index].DestinationIDs = append(days[index].DestinationIDs, destinationID)
		}
	}

	return days, linkRows.Err()
}

/*
List returns itinerary headers with window-function counting so one query
serves both the page and the total.
*/
func (repository *postgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Itinerary, int, error) {
	where := fmt.Sprintf("%s IS NULL", schema.TravelItinerary.DeletedAt)
	arguments := []any{}

	appendCondition := func(condition string, value any) {
		arguments = append(arguments, value)
		where += fmt.Sprintf(" AND %s $%d", condition, len(arguments))
	}

	if filter.Status != "" {
		appendCondition(schema.TravelItinerary.Status+" =", filter.Status)
	}
	if filter.CreationMethod != "" {
		appendCondition(schema.TravelItinerary.CreationMethod+" =", filter.CreationMethod)
	}
	if filter.CreatedBy != "" {
		appendCondition(schema.TravelItinerary.CreatedBy+" =", filter.CreatedBy)
	}
	if filter.Search != "" {
		arguments = append(arguments, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (%s ILIKE $%d OR %s ILIKE $%d)",
			schema.TravelItinerary.Title, len(arguments),
			schema.TravelItinerary.TravelerName, len(arguments),
		)
	}

	arguments = append(arguments, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s,
		       COUNT(*) OVER() AS total
		FROM %s
		WHERE %s
		ORDER BY %s DESC
		LIMIT $%d OFFSET $%d
	`,
		schema.TravelItinerary.ID,
		schema.TravelItinerary.Code,
		schema.TravelItinerary.Title,
		schema.TravelItinerary.CreationMethod,
		schema.TravelItinerary.Status,
		schema.TravelItinerary.PaymentStatus,
		schema.TravelItinerary.DeliveryStatus,
		schema.TravelItinerary.TravelerName,
		schema.TravelItinerary.PartySize,
		schema.TravelItinerary.DurationDays,
		schema.TravelItinerary.CreatedBy,
		schema.TravelItinerary.CreatedAt,
		schema.TravelItinerary.Table,
		where,
		schema.TravelItinerary.CreatedAt,
		len(arguments)-1,
		len(arguments),
	)

	rows, err := repository.pool.Query(context, query, arguments...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list itineraries: %w", err)
	}
	defer rows.Close()

	var (
		itineraries []*Itinerary
		total       int
	)
	for rows.Next() {
		var entity Itinerary
		if err := rows.Scan(
			&entity.ID,
			&entity.Code,
			&entity.Title,
			&entity.CreationMethod,
			&entity.Status,
			&entity.PaymentStatus,
			&entity.DeliveryStatus,
			&entity.TravelerName,
			&entity.PartySize,
			&entity.DurationDays,
			&entity.CreatedBy,
			&entity.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan itinerary: %w", err)
		}
		itineraries = append(itineraries, &entity)
	}

	return itineraries, total, rows.Err()
}

// UpdateStatus moves one itinerary's lifecycle state.
func (repository *postgresRepository) UpdateStatus(context context.Context, id string, status Status) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2
		WHERE %s = $3 AND %s IS NULL
	`,
		schema.TravelItinerary.Table,
		schema.TravelItinerary.Status,
		schema.TravelItinerary.UpdatedAt,
		schema.TravelItinerary.ID,
		schema.TravelItinerary.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, status, time.Now().UTC(), id)
	if err != nil {
		return dberr.Wrap(err, "Itinerary")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Itinerary")
	}
	return nil
}

// SoftDelete hides an itinerary from all reads.
func (repository *postgresRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1
		WHERE %s = $2 AND %s IS NULL
	`,
		schema.TravelItinerary.Table,
		schema.TravelItinerary.DeletedAt,
		schema.TravelItinerary.ID,
		schema.TravelItinerary.DeletedAt,
	)

	tag, err := repository.pool.Exec(context, query, time.Now().UTC(), id)
	if err != nil {
		return dberr.Wrap(err, "Itinerary")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Itinerary")
	}
	return nil
}
