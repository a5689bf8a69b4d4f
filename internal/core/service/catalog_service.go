package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jelajah-asia/travel-site/internal/core/domain"
	"github.com/jelajah-asia/travel-site/internal/core/ports"
)

const (
	defaultPageSize = 6
	maxPageSize     = 50
	maxPage         = 10000
	maxHighlights   = 2
)

type CatalogService struct {
	repo     ports.DestinationRepository
	pageSize int
	logger   zerolog.Logger
}

func NewCatalogService(repo ports.DestinationRepository, pageSize int, logger zerolog.Logger) *CatalogService {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &CatalogService{repo: repo, pageSize: pageSize, logger: logger}
}

// List returns one page of the catalog. The "Semua" category and an empty
// category both mean every region.
func (s *CatalogService) List(ctx context.Context, input ports.ListDestinationsInput) (*ports.ListDestinationsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	limit := input.Limit
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	category := strings.TrimSpace(input.Category)
	if category == domain.CategoryAll {
		category = ""
	}

	items, total, err := s.repo.List(ctx, ports.ListDestinationsFilter{
		Category: category,
		Search:   strings.TrimSpace(input.Search),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ports.ListDestinationsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Featured returns the first n destinations for the home page.
func (s *CatalogService) Featured(ctx context.Context, n int) ([]*domain.Destination, error) {
	if n <= 0 {
		n = defaultPageSize
	}
	items, _, err := s.repo.List(ctx, ports.ListDestinationsFilter{Page: 1, Limit: n})
	if err != nil {
		return nil, fmt.Errorf("featured destinations: %w", err)
	}
	return items, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Destination, error) {
	if id == "" {
		return nil, domain.ErrDestinationNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// Create validates and stores a new destination.
func (s *CatalogService) Create(ctx context.Context, input ports.DestinationInput) (*domain.Destination, error) {
	d, err := toDestination(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error().Err(err).Msg("failed to create destination")
		return nil, err
	}
	s.logger.Info().Str("destination_id", d.ID).Str("country", d.Country).Msg("destination created")
	return d, nil
}

// Update replaces every field of an existing destination.
func (s *CatalogService) Update(ctx context.Context, id string, input ports.DestinationInput) (*domain.Destination, error) {
	if id == "" {
		return nil, domain.ErrDestinationNotFound
	}
	d, err := toDestination(input)
	if err != nil {
		return nil, err
	}
	d.ID = id
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info().Str("destination_id", id).Msg("destination updated")
	return d, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrDestinationNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("destination_id", id).Msg("destination deleted")
	return nil
}

// toDestination enforces the admin panel's required fields.
func toDestination(in ports.DestinationInput) (*domain.Destination, error) {
	required := map[string]string{
		"country":     in.Country,
		"name":        in.Name,
		"description": in.Description,
		"image_url":   in.ImageURL,
		"category":    in.Category,
	}
	var missing []string
	for _, field := range []string{"country", "name", "description", "image_url", "category"} {
		if strings.TrimSpace(required[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", domain.ErrInvalidDestination, strings.Join(missing, ", "))
	}
	if !domain.IsCategory(in.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidDestination, in.Category)
	}
	if len(in.Highlights) > maxHighlights {
		return nil, fmt.Errorf("%w: at most %d highlights", domain.ErrInvalidDestination, maxHighlights)
	}

	d := &domain.Destination{
		Country:     strings.TrimSpace(in.Country),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Category:    in.Category,
		Link:        strings.TrimSpace(in.Link),
	}
	for _, h := range in.Highlights {
		if h.Place == "" && h.ImageURL == "" && h.Description == "" {
			continue
		}
		d.Highlights = append(d.Highlights, domain.Highlight{
			Place:       h.Place,
			ImageURL:    h.ImageURL,
			Description: h.Description,
		})
	}
	return d, nil
}
