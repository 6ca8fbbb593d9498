// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

/*
Package notify delivers fire-and-forget domain events to downstream consumers.

Successful itinerary builds publish an event that mailers and the customer
portal subscribe to. Delivery is best-effort: a publish failure is logged
and dropped, never propagated into the transaction that created the data.
*/
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voyara/voyara/internal/platform/constants"
)

// ItineraryCreatedEvent is the payload published after a successful build.
type ItineraryCreatedEvent struct {
	ItineraryID    string    `json:"itinerary_id"`
	Code           string    `json:"code"`
	CreationMethod string    `json:"creation_method"`
	TravelerName   string    `json:"traveler_name"`
	DurationDays   int       `json:"duration_days"`
	CreatedBy      string    `json:"created_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Notifier is the outbound event contract consumed by the itinerary service.
type Notifier interface {
	// ItineraryCreated signals a successful build. Implementations must be
	// fire-and-forget: errors are for the caller to log, never to act on.
	ItineraryCreated(context context.Context, event ItineraryCreatedEvent) error
}

// # Redis Publisher

// RedisNotifier publishes events on a Redis pub/sub channel.
type RedisNotifier struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisNotifier constructs a Redis-backed Notifier.
func NewRedisNotifier(client *redis.Client, logger *slog.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, logger: logger}
}

// ItineraryCreated publishes the event as JSON on the creation channel.
func (notifier *RedisNotifier) ItineraryCreated(context context.Context, event ItineraryCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("notify: failed to marshal event: %w", err)
	}

	if err := notifier.client.Publish(context, constants.RedisChannelItineraryCreated, payload).Err(); err != nil {
		return fmt.Errorf("notify: failed to publish itinerary event: %w", err)
	}

	notifier.logger.Debug("itinerary_event_published",
		slog.String("code", event.Code),
		slog.String("channel", constants.RedisChannelItineraryCreated),
	)

	return nil
}

// # No-op Implementation

// NopNotifier discards all events. Used in tests and local tooling.
type NopNotifier struct{}

// ItineraryCreated implements [Notifier] by doing nothing.
func (NopNotifier) ItineraryCreated(context.Context, ItineraryCreatedEvent) error {
	return nil
}
