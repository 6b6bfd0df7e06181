package repository

import (
	"context"

	"rentora/internal/domain"
)

// PropertyRepository exposes persistence operations for rental listings.
type PropertyRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, property *domain.Property) error
	Update(ctx context.Context, property *domain.Property) error
	Get(ctx context.Context, id string) (*domain.Property, error)
	List(ctx context.Context) ([]domain.Property, error)
	ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	ListIDsByTenant(ctx context.Context, tenantID string) ([]string, error)
}
