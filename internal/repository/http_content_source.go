package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/asiatranscargo/cargo-api/internal/models"
	apperrors "github.com/asiatranscargo/cargo-api/pkg/errors"
	"github.com/asiatranscargo/cargo-api/pkg/httpclient"
	"github.com/asiatranscargo/cargo-api/pkg/logger"
	"github.com/asiatranscargo/cargo-api/pkg/metrics"
	"github.com/asiatranscargo/cargo-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	articlesPath    = "/v1/articles/"
	caseStudiesPath = "/v1/case-studies/"
	maxResponseSize = 4 << 20
)

// paginated is the list envelope returned by the content API
type paginated[T any] struct {
	Items  []*T `json:"items"`
	Total  int  `json:"total"`
	Limit  int  `json:"limit"`
	Offset int  `json:"offset"`
}

// HTTPContentSource implements ContentDataSource on top of the content API
type HTTPContentSource struct {
	baseURL    string
	httpClient httpclient.Client
}

// NewHTTPContentSource creates a content source reading from baseURL
func NewHTTPContentSource(baseURL string, httpClient httpclient.Client) *HTTPContentSource {
	if httpClient == nil {
		httpClient = httpclient.NewStandardClient()
	}
	return &HTTPContentSource{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (s *HTTPContentSource) ListPublishedArticles(ctx context.Context, limit int) ([]*models.Article, error) {
	var page paginated[models.Article]
	if err := s.get(ctx, "listPublishedArticles", s.listURL(articlesPath, limit), &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		return []*models.Article{}, nil
	}
	return page.Items, nil
}

func (s *HTTPContentSource) GetPublishedArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	if err := s.get(ctx, "getPublishedArticleBySlug", s.itemURL(articlesPath, slug), &article); err != nil {
		return nil, err
	}
	// The API serves drafts by slug too
	if article.Status != models.StatusPublished {
		return nil, apperrors.NotFoundError("article")
	}
	return &article, nil
}

func (s *HTTPContentSource) ListPublishedCaseStudies(ctx context.Context, limit int) ([]*models.CaseStudy, error) {
	var page paginated[models.CaseStudy]
	if err := s.get(ctx, "listPublishedCaseStudies", s.listURL(caseStudiesPath, limit), &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		return []*models.CaseStudy{}, nil
	}
	return page.Items, nil
}

func (s *HTTPContentSource) GetPublishedCaseStudyBySlug(ctx context.Context, slug string) (*models.CaseStudy, error) {
	var cs models.CaseStudy
	if err := s.get(ctx, "getPublishedCaseStudyBySlug", s.itemURL(caseStudiesPath, slug), &cs); err != nil {
		return nil, err
	}
	if cs.Status != models.StatusPublished {
		return nil, apperrors.NotFoundError("case study")
	}
	return &cs, nil
}

// Ping lists a single article to check the API answers
func (s *HTTPContentSource) Ping(ctx context.Context) error {
	var page paginated[models.Article]
	return s.get(ctx, "ping", s.listURL(articlesPath, 1), &page)
}

func (s *HTTPContentSource) Name() string {
	return "content_api"
}

func (s *HTTPContentSource) listURL(path string, limit int) string {
	q := url.Values{}
	q.Set("status_filter", models.StatusPublished)
	q.Set("limit", strconv.Itoa(limit))
	return s.baseURL + path + "?" + q.Encode()
}

func (s *HTTPContentSource) itemURL(path, slug string) string {
	return s.baseURL + path + url.PathEscape(slug)
}

func (s *HTTPContentSource) get(ctx context.Context, operation, target string, out any) error {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "content_api."+operation, attribute.String("http.url", target))
	defer span.End()

	status, err := s.fetch(ctx, target, out)
	duration := metrics.MeasureDuration(start)
	recordHTTPMetrics(operation, status, duration)
	logger.LogAPICall("content_api", operation, status, duration, zap.String("url", target))

	if err != nil && status != "not_found" {
		tracing.RecordError(span, err)
	}
	return err
}

func (s *HTTPContentSource) fetch(ctx context.Context, target string, out any) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "error", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "error", apperrors.UpstreamError("content API", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "error", apperrors.UpstreamError("content API", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "not_found", apperrors.NotFoundError("content")
	case resp.StatusCode != http.StatusOK:
		return "error", apperrors.UpstreamError("content API", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return "error", apperrors.UpstreamError("content API", fmt.Errorf("failed to decode response: %w", err))
	}
	return "success", nil
}

func recordHTTPMetrics(operation, status string, duration float64) {
	metrics.ContentQueryDuration.WithLabelValues("content_api", operation, status).Observe(duration)
	metrics.ContentQueryTotal.WithLabelValues("content_api", operation, status).Inc()
}

// Ensure HTTPContentSource implements ContentDataSource
var _ ContentDataSource = (*HTTPContentSource)(nil)
