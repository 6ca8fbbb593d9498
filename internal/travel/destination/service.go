// Copyright (c) 2026 Voyara. All rights reserved.
// Author: platform@voyara.travel

package destination

import (
	"context"
	"log/slog"

	"github.com/voyara/voyara/internal/authz"
	"github.com/voyara/voyara/pkg/slug"
	"github.com/voyara/voyara/pkg/uuid"
)

// Service implements catalogue use cases on top of the repository.
type Service struct {
	repo     Repository
	resolver *authz.Resolver
	logger   *slog.Logger
}

// NewService constructs a destination Service.
func NewService(repo Repository, resolver *authz.Resolver, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
	}
}

// List returns a page of destinations matching the filter.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Destination, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

// Get returns a destination by id.
func (service *Service) Get(context context.Context, id string) (*Destination, error) {
	return service.repo.FindByID(context, id)
}

// GetBySlug returns a destination by its URL slug.
func (service *Service) GetBySlug(context context.Context, value string) (*Destination, error) {
	return service.repo.FindBySlug(context, value)
}

// CreateInput holds the fields needed to add a catalogue entry.
type CreateInput struct {
	Name        string
	Country     string
	Region      string
	Description *string
}

// Create validates and persists a new destination.
//
// The slug is derived from the name; uniqueness is enforced by the store.
func (service *Service) Create(context context.Context, actor authz.Subject, input CreateInput) (*Destination, error) {
	if err := service.resolver.RequirePermission(actor, authz.PermManageDestinations); err != nil {
		return nil, err
	}

	entity := &Destination{
		ID:          uuid.New(),
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Country:     input.Country,
		Region:      input.Region,
		Description: input.Description,
	}

	if err := service.repo.Create(context, entity); err != nil {
		return nil, err
	}

	service.logger.Info("destination_created",
		slog.String("destination_id", entity.ID),
		slog.String("slug", entity.Slug),
	)

	return entity, nil
}

// Update validates and persists changes to an existing destination.
func (service *Service) Update(context context.Context, actor authz.Subject, entity *Destination) error {
	if err := service.resolver.RequirePermission(actor, authz.PermManageDestinations); err != nil {
		return err
	}

	// The slug follows the name; renames change the public URL.
	entity.Slug = slug.From(entity.Name)

	return service.repo.Update(context, entity)
}

// Delete soft-deletes a destination from the catalogue.
//
// Existing itinerary associations keep pointing at the row; only new
// references are prevented.
func (service *Service) Delete(context context.Context, actor authz.Subject, id string) error {
	if err := service.resolver.RequirePermission(actor, authz.PermManageDestinations); err != nil {
		return err
	}
	return service.repo.SoftDelete(context, id)
}
