package ports

import (
	"context"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
)

// HighlightInput describes one secondary attraction.
type HighlightInput struct {
	Place       string
	ImageURL    string
	Description string
}

// DestinationInput is what the admin panel submits when creating or editing.
type DestinationInput struct {
	Country     string
	Name        string
	Description string
	ImageURL    string
	Category    string
	Link        string
	Highlights  []HighlightInput
}

// ListDestinationsInput carries the public catalog query.
type ListDestinationsInput struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ListDestinationsResult is one page of the catalog.
type ListDestinationsResult struct {
	Items      []*domain.Destination
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CatalogService exposes the destination catalog to visitors and admins.
type CatalogService interface {
	List(ctx context.Context, input ListDestinationsInput) (*ListDestinationsResult, error)
	Featured(ctx context.Context, n int) ([]*domain.Destination, error)
	Get(ctx context.Context, id string) (*domain.Destination, error)

	Create(ctx context.Context, input DestinationInput) (*domain.Destination, error)
	Update(ctx context.Context, id string, input DestinationInput) (*domain.Destination, error)
	Delete(ctx context.Context, id string) error
}
