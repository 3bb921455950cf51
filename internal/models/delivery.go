package models

// DeliveryOption is one way to ship goods from an origin country
type DeliveryOption struct {
	Slug      string   `json:"slug"`
	Name      string   `json:"name"`
	DaysMin   *int     `json:"days_min"`
	DaysMax   *int     `json:"days_max"`
	CostPerKg *float64 `json:"cost_per_kg"`
	Details   *string  `json:"details"`
}

