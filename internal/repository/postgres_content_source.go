package repository

import (
	"context"

	"github.com/asiatranscargo/cargo-api/internal/database/postgres"
	"github.com/asiatranscargo/cargo-api/internal/models"
)

// PostgresContentSource implements ContentDataSource using PostgreSQL
type PostgresContentSource struct {
	client *postgres.Client
}

// NewPostgresContentSource creates a new PostgreSQL content source
func NewPostgresContentSource(client *postgres.Client) *PostgresContentSource {
	return &PostgresContentSource{
		client: client,
	}
}

// ListPublishedArticles fetches published articles from PostgreSQL
func (ds *PostgresContentSource) ListPublishedArticles(ctx context.Context, limit int) ([]*models.Article, error) {
	return ds.client.ListPublishedArticles(ctx, limit)
}

// GetPublishedArticleBySlug fetches a single published article by slug
func (ds *PostgresContentSource) GetPublishedArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return ds.client.GetPublishedArticleBySlug(ctx, slug)
}

// ListPublishedCaseStudies fetches published case studies from PostgreSQL
func (ds *PostgresContentSource) ListPublishedCaseStudies(ctx context.Context, limit int) ([]*models.CaseStudy, error) {
	return ds.client.ListPublishedCaseStudies(ctx, limit)
}

// GetPublishedCaseStudyBySlug fetches a single published case study by slug
func (ds *PostgresContentSource) GetPublishedCaseStudyBySlug(ctx context.Context, slug string) (*models.CaseStudy, error) {
	return ds.client.GetPublishedCaseStudyBySlug(ctx, slug)
}

// ListDeliveryOptions fetches the delivery options for a country slug
func (ds *PostgresContentSource) ListDeliveryOptions(ctx context.Context, countrySlug string) ([]*models.DeliveryOption, error) {
	return ds.client.ListDeliveryOptions(ctx, countrySlug)
}

func (ds *PostgresContentSource) Ping(ctx context.Context) error {
	return ds.client.Ping(ctx)
}

func (ds *PostgresContentSource) Name() string {
	return "postgres"
}

var (
	_ ContentDataSource     = (*PostgresContentSource)(nil)
	_ DeliveryOptionsSource = (*PostgresContentSource)(nil)
)
