package repository

import (
	"context"

	"github.com/asiatranscargo/cargo-api/internal/models"
)

// ContentDataSource defines the read-only access to published content.
// Implementations exist for PostgreSQL and for the content API.
type ContentDataSource interface {
	// ListPublishedArticles returns at most limit published articles, newest first
	ListPublishedArticles(ctx context.Context, limit int) ([]*models.Article, error)

	// GetPublishedArticleBySlug returns a published article or errors.ErrNotFound
	GetPublishedArticleBySlug(ctx context.Context, slug string) (*models.Article, error)

	// ListPublishedCaseStudies returns at most limit published case studies, newest first
	ListPublishedCaseStudies(ctx context.Context, limit int) ([]*models.CaseStudy, error)

	// GetPublishedCaseStudyBySlug returns a published case study or errors.ErrNotFound
	GetPublishedCaseStudyBySlug(ctx context.Context, slug string) (*models.CaseStudy, error)

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error

	// Name identifies the source in logs and health output
	Name() string
}

// DeliveryOptionsSource lists the delivery options configured per origin country.
// Only PostgreSQL carries this data.
type DeliveryOptionsSource interface {
	ListDeliveryOptions(ctx context.Context, countrySlug string) ([]*models.DeliveryOption, error)
}
