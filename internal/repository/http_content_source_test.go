package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/asiatranscargo/cargo-api/pkg/errors"
	"github.com/asiatranscargo/cargo-api/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentAPI(t *testing.T, handler http.HandlerFunc) *HTTPContentSource {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPContentSource(server.URL, httpclient.NewClientWithTimeout(2*time.Second))
}

func TestHTTPContentSource_ListPublishedArticles(t *testing.T) {
	var gotPath, gotStatus, gotLimit string
	source := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStatus = r.URL.Query().Get("status_filter")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":"7f1c","slug":"china-news","title":"Новости","content":"<b>Текст</b>","status":"published",
			 "created_at":"2024-05-01T10:00:00+00:00","updated_at":"2024-05-01T10:00:00+00:00"}
		],"total":1,"limit":3,"offset":0}`))
	})

	articles, err := source.ListPublishedArticles(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, articles, 1)

	assert.Equal(t, "/v1/articles/", gotPath)
	assert.Equal(t, "published", gotStatus)
	assert.Equal(t, "3", gotLimit)
	assert.Equal(t, "china-news", articles[0].Slug)
	assert.Equal(t, 2024, articles[0].CreatedAt.Year())
	assert.Nil(t, articles[0].Category)
}

func TestHTTPContentSource_ListEmptyItems(t *testing.T) {
	source := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":null,"total":0,"limit":50,"offset":0}`))
	})

	cases, err := source.ListPublishedCaseStudies(context.Background(), 50)
	require.NoError(t, err)
	assert.NotNil(t, cases)
	assert.Empty(t, cases)
}

func TestHTTPContentSource_GetPublishedCaseStudyBySlug(t *testing.T) {
	var gotPath string
	source := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id":"c1","slug":"electronics","title":"Электроника","content":"x",
			"client_name":"ООО Ромашка","delivery_time":21,"images":["https://cdn/1.jpg"],"status":"published",
			"created_at":"2024-03-01T00:00:00Z","updated_at":"2024-03-01T00:00:00Z"}`))
	})

	cs, err := source.GetPublishedCaseStudyBySlug(context.Background(), "electronics")
	require.NoError(t, err)
	assert.Equal(t, "/v1/case-studies/electronics", gotPath)
	require.NotNil(t, cs.DeliveryTime)
	assert.Equal(t, 21, *cs.DeliveryTime)
	assert.Equal(t, []string{"https://cdn/1.jpg"}, cs.Images)
}

func TestHTTPContentSource_DraftIsNotFound(t *testing.T) {
	source := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"a1","slug":"draft","title":"Черновик","content":"x","status":"draft",
			"created_at":"2024-03-01T00:00:00Z","updated_at":"2024-03-01T00:00:00Z"}`))
	})

	article, err := source.GetPublishedArticleBySlug(context.Background(), "draft")
	assert.Nil(t, article)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestHTTPContentSource_NotFound(t *testing.T) {
	source := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found"}`))
	})

	_, err := source.GetPublishedArticleBySlug(context.Background(), "missing")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestHTTPContentSource_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"detail":"boom"}`},
		{name: "invalid json", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newContentAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			articles, err := source.ListPublishedArticles(context.Background(), 10)
			assert.Nil(t, articles)
			assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))
			assert.False(t, apperrors.Is(err, apperrors.ErrNotFound))
		})
	}
}

func TestHTTPContentSource_Unreachable(t *testing.T) {
	source := NewHTTPContentSource("http://127.0.0.1:1", httpclient.NewClientWithTimeout(time.Second))

	err := source.Ping(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))
	assert.Equal(t, "content_api", source.Name())
}

func TestHTTPContentSource_ItemURLEscapesSlug(t *testing.T) {
	source := NewHTTPContentSource("https://content.example", nil)

	assert.Equal(t, "https://content.example/v1/articles/a%2Fb", source.itemURL(articlesPath, "a/b"))
	assert.Equal(t, "https://content.example/v1/case-studies/?limit=5&status_filter=published",
		source.listURL(caseStudiesPath, 5))
}
