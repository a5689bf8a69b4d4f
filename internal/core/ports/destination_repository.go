package ports

import (
	"context"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
)

// ListDestinationsFilter carries the catalog query parameters.
type ListDestinationsFilter struct {
	Category string // empty = all categories
	Search   string // optional: case-insensitive partial match on place name
	Page     int    // 1-based
	Limit    int
}

// DestinationRepository defines persistence operations for catalog entries.
type DestinationRepository interface {
	Create(ctx context.Context, d *domain.Destination) error
	Update(ctx context.Context, d *domain.Destination) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Destination, error)
	// List returns a page of destinations matching filter and the total count.
	List(ctx context.Context, filter ListDestinationsFilter) ([]*domain.Destination, int64, error)
}
