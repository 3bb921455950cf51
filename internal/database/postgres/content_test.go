package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/asiatranscargo/cargo-api/pkg/errors"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var articleCols = []string{
	"id", "slug", "title", "content", "category", "image_url", "seo_title", "seo_description",
	"status", "published_at", "created_at", "updated_at",
}

var caseCols = []string{
	"id", "slug", "title", "content", "client_name", "country_id", "cargo_type", "delivery_time",
	"images", "status", "created_at", "updated_at",
}

func ptr[T any](v T) *T { return &v }

func newMockClient(t *testing.T) (*Client, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewClient(mock), mock
}

func TestListPublishedArticles(t *testing.T) {
	client, mock := newMockClient(t)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(articleCols).
		AddRow("a1", "china-shipping", "Доставка из Китая", "<p>Текст</p>", ptr("Новости"), nil,
			ptr("SEO"), ptr("desc"), "published", ptr(created), created, created).
		AddRow("a2", "turkey-rail", "ЖД из Турции", "Текст", nil, ptr("https://cdn/img.png"),
			nil, nil, "published", nil, created.Add(-time.Hour), created)

	mock.ExpectQuery(`SELECT .+ FROM articles\s+WHERE status = 'published'\s+ORDER BY created_at DESC\s+LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(rows)

	articles, err := client.ListPublishedArticles(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "a1", articles[0].ID)
	assert.Equal(t, "china-shipping", articles[0].Slug)
	require.NotNil(t, articles[0].Category)
	assert.Equal(t, "Новости", *articles[0].Category)
	assert.Nil(t, articles[0].ImageURL)
	require.NotNil(t, articles[0].PublishedAt)

	assert.Nil(t, articles[1].Category)
	require.NotNil(t, articles[1].ImageURL)
	assert.Nil(t, articles[1].PublishedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPublishedArticles_Empty(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(`SELECT .+ FROM articles`).
		WithArgs(50).
		WillReturnRows(pgxmock.NewRows(articleCols))

	articles, err := client.ListPublishedArticles(context.Background(), 50)
	require.NoError(t, err)
	assert.NotNil(t, articles)
	assert.Empty(t, articles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPublishedArticles_QueryError(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(`SELECT .+ FROM articles`).
		WithArgs(5).
		WillReturnError(errors.New("connection reset"))

	articles, err := client.ListPublishedArticles(context.Background(), 5)
	assert.Error(t, err)
	assert.Nil(t, articles)
	assert.Contains(t, err.Error(), "connection reset")
	assert.False(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPublishedArticleBySlug(t *testing.T) {
	client, mock := newMockClient(t)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM articles\s+WHERE slug = \$1 AND status = 'published'`).
		WithArgs("china-shipping").
		WillReturnRows(pgxmock.NewRows(articleCols).
			AddRow("a1", "china-shipping", "Доставка из Китая", "Текст", nil, nil,
				nil, nil, "published", nil, created, created))

	article, err := client.GetPublishedArticleBySlug(context.Background(), "china-shipping")
	require.NoError(t, err)
	assert.Equal(t, "Доставка из Китая", article.Title)
	assert.Equal(t, created, article.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPublishedArticleBySlug_NotFound(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(`SELECT .+ FROM articles`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	article, err := client.GetPublishedArticleBySlug(context.Background(), "missing")
	assert.Nil(t, article)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPublishedCaseStudies(t *testing.T) {
	client, mock := newMockClient(t)
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(caseCols).
		AddRow("c1", "electronics-china", "Электроника из Китая", "Текст", ptr("ООО Ромашка"),
			ptr("china"), ptr("Электроника"), ptr(25), []string{"https://cdn/1.jpg"}, "published", created, created).
		AddRow("c2", "furniture", "Мебель", "Текст", nil, nil, nil, nil, nil, "published", created, created)

	mock.ExpectQuery(`SELECT .+ FROM case_studies\s+WHERE status = 'published'\s+ORDER BY created_at DESC`).
		WithArgs(20).
		WillReturnRows(rows)

	cases, err := client.ListPublishedCaseStudies(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	require.NotNil(t, cases[0].DeliveryTime)
	assert.Equal(t, 25, *cases[0].DeliveryTime)
	assert.Equal(t, []string{"https://cdn/1.jpg"}, cases[0].Images)

	assert.Nil(t, cases[1].ClientName)
	assert.Nil(t, cases[1].DeliveryTime)
	assert.NotNil(t, cases[1].Images)
	assert.Empty(t, cases[1].Images)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPublishedCaseStudyBySlug_NotFound(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(`SELECT .+ FROM case_studies`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	cs, err := client.GetPublishedCaseStudyBySlug(context.Background(), "nope")
	assert.Nil(t, cs)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPublishedCaseStudyBySlug_DatabaseError(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(`SELECT .+ FROM case_studies`).
		WithArgs("electronics-china").
		WillReturnError(errors.New("timeout"))

	cs, err := client.GetPublishedCaseStudyBySlug(context.Background(), "electronics-china")
	assert.Nil(t, cs)
	require.Error(t, err)
	assert.False(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	client, mock := newMockClient(t)
	mock.ExpectPing()

	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
