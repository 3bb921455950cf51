package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asiatranscargo/cargo-api/internal/models"
	apperrors "github.com/asiatranscargo/cargo-api/pkg/errors"
	"github.com/asiatranscargo/cargo-api/pkg/logger"
	"github.com/asiatranscargo/cargo-api/pkg/metrics"
	"github.com/asiatranscargo/cargo-api/pkg/tracing"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const articleColumns = `
	id::text, slug, title, content, category, image_url, seo_title, seo_description,
	status, published_at, created_at, updated_at`

const caseStudyColumns = `
	id::text, slug, title, content, client_name, country_id, cargo_type, delivery_time,
	images, status, created_at, updated_at`

// ListPublishedArticles returns published articles, newest first
func (c *Client) ListPublishedArticles(ctx context.Context, limit int) ([]*models.Article, error) {
	query := `SELECT` + articleColumns + `
		FROM articles
		WHERE status = 'published'
		ORDER BY created_at DESC
		LIMIT $1`

	return listRows(ctx, c, "listPublishedArticles", query, attribute.Int("db.limit", limit), scanArticle, limit)
}

// GetPublishedArticleBySlug returns a published article or ErrNotFound
func (c *Client) GetPublishedArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := `SELECT` + articleColumns + `
		FROM articles
		WHERE slug = $1 AND status = 'published'
		LIMIT 1`

	return getRow(ctx, c, "getPublishedArticleBySlug", "article", query, slug, scanArticle)
}

// ListPublishedCaseStudies returns published case studies, newest first
func (c *Client) ListPublishedCaseStudies(ctx context.Context, limit int) ([]*models.CaseStudy, error) {
	query := `SELECT` + caseStudyColumns + `
		FROM case_studies
		WHERE status = 'published'
		ORDER BY created_at DESC
		LIMIT $1`

	return listRows(ctx, c, "listPublishedCaseStudies", query, attribute.Int("db.limit", limit), scanCaseStudy, limit)
}

// GetPublishedCaseStudyBySlug returns a published case study or ErrNotFound
func (c *Client) GetPublishedCaseStudyBySlug(ctx context.Context, slug string) (*models.CaseStudy, error) {
	query := `SELECT` + caseStudyColumns + `
		FROM case_studies
		WHERE slug = $1 AND status = 'published'
		LIMIT 1`

	return getRow(ctx, c, "getPublishedCaseStudyBySlug", "case study", query, slug, scanCaseStudy)
}

func scanArticle(row pgx.Row) (*models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Content, &a.Category, &a.ImageURL, &a.SEOTitle,
		&a.SEODescription, &a.Status, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanCaseStudy(row pgx.Row) (*models.CaseStudy, error) {
	var cs models.CaseStudy
	err := row.Scan(
		&cs.ID, &cs.Slug, &cs.Title, &cs.Content, &cs.ClientName, &cs.CountryID, &cs.CargoType,
		&cs.DeliveryTime, &cs.Images, &cs.Status, &cs.CreatedAt, &cs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cs.Images == nil {
		cs.Images = []string{}
	}
	return &cs, nil
}

func listRows[T any](ctx context.Context, c *Client, operation, query string, attr attribute.KeyValue, scan func(pgx.Row) (*T, error), args ...any) ([]*T, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "postgres."+operation, attr)
	defer span.End()

	fail := func(err error, msg string) ([]*T, error) {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return fail(err, "failed to query "+operation)
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return fail(err, "failed to scan row")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return fail(err, "error iterating rows")
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(items)))

	return items, nil
}

func getRow[T any](ctx context.Context, c *Client, operation, resource, query, slug string, scan func(pgx.Row) (*T, error)) (*T, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "postgres."+operation, attribute.String("content.slug", slug))
	defer span.End()

	item, err := scan(c.db.QueryRow(ctx, query, slug))
	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		logger.LogAPICall("postgres", operation, "not_found", duration, zap.String("slug", slug))
		return nil, apperrors.NotFoundError(resource)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err), zap.String("slug", slug))
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to get %s: %w", resource, err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.String("slug", slug))
	return item, nil
}
