package services

import (
	"context"

	"github.com/asiatranscargo/cargo-api/internal/models"
	"github.com/asiatranscargo/cargo-api/internal/repository"
	apperrors "github.com/asiatranscargo/cargo-api/pkg/errors"
	"github.com/asiatranscargo/cargo-api/pkg/slug"
)

// ContentService serves published news and case studies
type ContentService struct {
	source       repository.ContentDataSource
	defaultLimit int
	maxLimit     int
}

// NewContentService creates a new content service instance
func NewContentService(source repository.ContentDataSource, defaultLimit, maxLimit int) *ContentService {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &ContentService{
		source:       source,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// ResolveLimit applies the default to an absent limit and rejects values outside 1..max
func (s *ContentService) ResolveLimit(opts models.ListOptions) (int, error) {
	if opts.Limit == 0 {
		return s.defaultLimit, nil
	}
	if opts.Limit < 0 || opts.Limit > s.maxLimit {
		return 0, apperrors.InvalidInputError("limit", "out of range")
	}
	return opts.Limit, nil
}

// ListNews returns list projections of published articles, newest first
func (s *ContentService) ListNews(ctx context.Context, opts models.ListOptions) ([]models.NewsSummary, error) {
	limit, err := s.ResolveLimit(opts)
	if err != nil {
		return nil, err
	}

	articles, err := s.source.ListPublishedArticles(ctx, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.NewsSummary, 0, len(articles))
	for _, a := range articles {
		summaries = append(summaries, a.Summary())
	}
	return summaries, nil
}

// GetNews returns a published article by slug
func (s *ContentService) GetNews(ctx context.Context, rawSlug string) (*models.Article, error) {
	key := slug.Normalize(rawSlug)
	if !slug.Valid(key) {
		return nil, apperrors.NotFoundError("article")
	}
	return s.source.GetPublishedArticleBySlug(ctx, key)
}

// ListCases returns list projections of published case studies, newest first
func (s *ContentService) ListCases(ctx context.Context, opts models.ListOptions) ([]models.CaseSummary, error) {
	limit, err := s.ResolveLimit(opts)
	if err != nil {
		return nil, err
	}

	cases, err := s.source.ListPublishedCaseStudies(ctx, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.CaseSummary, 0, len(cases))
	for _, c := range cases {
		summaries = append(summaries, c.Summary())
	}
	return summaries, nil
}

// GetCase returns a published case study by slug
func (s *ContentService) GetCase(ctx context.Context, rawSlug string) (*models.CaseStudy, error) {
	key := slug.Normalize(rawSlug)
	if !slug.Valid(key) {
		return nil, apperrors.NotFoundError("case study")
	}
	return s.source.GetPublishedCaseStudyBySlug(ctx, key)
}

// Ready reports whether the content store answers
func (s *ContentService) Ready(ctx context.Context) error {
	return s.source.Ping(ctx)
}

// SourceName identifies the configured content store
func (s *ContentService) SourceName() string {
	return s.source.Name()
}
