package services

import (
	"context"
	"strings"

	"github.com/asiatranscargo/cargo-api/internal/countries"
	"github.com/asiatranscargo/cargo-api/internal/models"
	"github.com/asiatranscargo/cargo-api/internal/repository"
	apperrors "github.com/asiatranscargo/cargo-api/pkg/errors"
	"github.com/asiatranscargo/cargo-api/pkg/slug"
)

// DeliveryService lists delivery options for an origin country
type DeliveryService struct {
	source  repository.DeliveryOptionsSource
	catalog *countries.Catalog
}

func NewDeliveryService(source repository.DeliveryOptionsSource, catalog *countries.Catalog) *DeliveryService {
	if catalog == nil {
		catalog = countries.Default()
	}
	return &DeliveryService{source: source, catalog: catalog}
}

// ListDeliveryOptions accepts a catalog code, slug or CRM id. Slugs the catalog
// does not know are passed through so the database decides; they usually yield
// an empty list.
func (s *DeliveryService) ListDeliveryOptions(ctx context.Context, country string) ([]models.DeliveryOption, error) {
	countrySlug, err := s.resolveSlug(country)
	if err != nil {
		return nil, err
	}

	rows, err := s.source.ListDeliveryOptions(ctx, countrySlug)
	if err != nil {
		return nil, err
	}

	options := make([]models.DeliveryOption, 0, len(rows))
	for _, o := range rows {
		options = append(options, *o)
	}
	return options, nil
}

func (s *DeliveryService) resolveSlug(country string) (string, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return "", apperrors.InvalidInputError("country", "required")
	}
	if c, ok := s.catalog.Lookup(country); ok {
		return c.Slug, nil
	}
	if !slug.Valid(country) {
		return "", apperrors.InvalidInputError("country", "malformed")
	}
	return strings.ToLower(country), nil
}
