package postgres

import (
	"context"

	"github.com/asiatranscargo/cargo-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool used by the client, satisfied by pgxmock in tests
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// Client runs content queries with observability
type Client struct {
	db Querier
}

// NewClient wraps a connection pool
func NewClient(db Querier) *Client {
	return &Client{db: db}
}

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.db.Ping(ctx)
}

// recordMetrics records database operation metrics
func recordMetrics(operation, status string, duration float64) {
	metrics.ContentQueryDuration.WithLabelValues("postgres", operation, status).Observe(duration)
	metrics.ContentQueryTotal.WithLabelValues("postgres", operation, status).Inc()
}
