package leadform

import (
	"context"
)

// Conversion goal reported after a lead is accepted
const (
	GoalFormSubmit     = "form_submit"
	CategoryConversion = "conversion"
)

// Analytics labels of the forms hosting a controller
const (
	LabelContactForm    = "Contact Form"
	LabelCalculatorForm = "Calculator Form"
)

// TelemetryEvent is one analytics goal
type TelemetryEvent struct {
	Goal     string
	Category string
	Label    string
}

// TelemetrySink receives analytics goals. Errors are logged and otherwise ignored.
type TelemetrySink interface {
	Track(ctx context.Context, event TelemetryEvent) error
}

// NopTelemetry discards every event
type NopTelemetry struct{}

func (NopTelemetry) Track(context.Context, TelemetryEvent) error {
	return nil
}
