package postgres

import (
	"context"

	"github.com/asiatranscargo/cargo-api/internal/models"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

// ListDeliveryOptions returns the delivery options offered for a country slug.
// An unknown slug yields an empty list.
func (c *Client) ListDeliveryOptions(ctx context.Context, countrySlug string) ([]*models.DeliveryOption, error) {
	query := `SELECT dt.slug, dt.name, dc.days_min, dc.days_max, dc.cost_per_kg::float8, dc.details
		FROM delivery_content dc
		JOIN delivery_types dt ON dc.delivery_type_id = dt.id
		JOIN countries c ON dc.country_id = c.id
		WHERE c.slug = $1
		ORDER BY dt.id`

	return listRows(ctx, c, "listDeliveryOptions", query, attribute.String("country.slug", countrySlug), scanDeliveryOption, countrySlug)
}

func scanDeliveryOption(row pgx.Row) (*models.DeliveryOption, error) {
	var o models.DeliveryOption
	if err := row.Scan(&o.Slug, &o.Name, &o.DaysMin, &o.DaysMax, &o.CostPerKg, &o.Details); err != nil {
		return nil, err
	}
	return &o, nil
}
