// Package leadform drives one lead capture form: it keeps the draft,
// validates it in a fixed order and submits it to the lead endpoint.
//
// It is the client half of POST /api/lead. The site's form host (the contact
// modal and the calculator forms) binds its inputs to a Controller and posts
// through HTTPSubmitter. The server side of the same contract is
// handlers.LeadHandler; lead_form_test.go in internal/handlers runs one against
// the other.
package leadform

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/asiatranscargo/cargo-api/internal/countries"
	"github.com/asiatranscargo/cargo-api/pkg/logger"
	"github.com/asiatranscargo/cargo-api/pkg/normalize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultCloseDelay  = 3 * time.Second
	DefaultBannerDelay = 4 * time.Second
	telemetryTimeout   = 5 * time.Second
)

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d
type AfterFunc func(d time.Duration, f func()) Timer

func defaultAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FormConfig describes which inputs a form renders and how it reports conversions
type FormConfig struct {
	Label       string
	WithEmail   bool
	WithCargo   bool
	CloseDelay  time.Duration
	BannerDelay time.Duration
}

// ContactFormConfig is the modal contact form with every field
func ContactFormConfig() FormConfig {
	return FormConfig{Label: LabelContactForm, WithEmail: true, WithCargo: true}
}

// CalculatorFormConfig is the form under the calculators. Cargo is filled with the calculation.
func CalculatorFormConfig() FormConfig {
	return FormConfig{Label: LabelCalculatorForm, WithCargo: true}
}

// Option customizes a Controller
type Option func(*Controller)

func WithTelemetry(sink TelemetrySink) Option {
	return func(c *Controller) {
		if sink != nil {
			c.telemetry = sink
		}
	}
}

func WithCatalog(catalog *countries.Catalog) Option {
	return func(c *Controller) {
		if catalog != nil {
			c.catalog = catalog
		}
	}
}

func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.afterFunc = fn
		}
	}
}

// WithOnClose registers the callback that collapses the hosting dialog
func WithOnClose(fn func()) Option {
	return func(c *Controller) {
		c.onClose = fn
	}
}

func WithKeyGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newKey = fn
		}
	}
}

// Controller owns the draft of one rendered form. It is safe for concurrent use.
type Controller struct {
	cfg       FormConfig
	submitter Submitter
	telemetry TelemetrySink
	catalog   *countries.Catalog
	afterFunc AfterFunc
	onClose   func()
	newKey    func() string

	mu          sync.Mutex
	draft       Draft
	state       State
	feedback    Feedback
	fieldErrors map[Field]string
	key         string
	attempt     uint64
	bannerSeq   uint64
	bannerTimer Timer
	closeTimer  Timer
}

// NewController creates a controller for a form described by cfg
func NewController(cfg FormConfig, submitter Submitter, opts ...Option) *Controller {
	if cfg.CloseDelay <= 0 {
		cfg.CloseDelay = DefaultCloseDelay
	}
	if cfg.BannerDelay <= 0 {
		cfg.BannerDelay = DefaultBannerDelay
	}

	c := &Controller{
		cfg:         cfg,
		submitter:   submitter,
		telemetry:   NopTelemetry{},
		catalog:     countries.Default(),
		afterFunc:   defaultAfterFunc,
		newKey:      uuid.NewString,
		fieldErrors: make(map[Field]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.key = c.newKey()
	return c
}

func (c *Controller) hasField(f Field) bool {
	switch f {
	case FieldName, FieldPhone, FieldCountry:
		return true
	case FieldEmail:
		return c.cfg.WithEmail
	case FieldCargo:
		return c.cfg.WithCargo
	default:
		return false
	}
}

// SetField updates one input. Phone input is stored in display format.
// A shown error for the field is cleared once the new value validates.
func (c *Controller) SetField(field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasField(field) {
		return ErrUnknownField
	}
	if c.state == StateSucceeded {
		return ErrAlreadySubmitted
	}

	switch field {
	case FieldName:
		c.draft.Name = value
	case FieldPhone:
		if strings.TrimSpace(value) == "" {
			c.draft.Phone = ""
		} else {
			c.draft.Phone = normalize.FormatPhone(value)
		}
		if normalize.IsValidPhone(c.draft.Phone) {
			c.clearFieldError(FieldPhone)
		}
	case FieldEmail:
		c.draft.Email = value
		if normalize.IsValidEmail(strings.TrimSpace(value)) {
			c.clearFieldError(FieldEmail)
		}
	case FieldCountry:
		c.draft.Country = value
	case FieldCargo:
		c.draft.Cargo = value
	}
	return nil
}

// SetConsent records the personal data processing opt-in
func (c *Controller) SetConsent(given bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateSucceeded {
		return
	}
	c.draft.ConsentGiven = given
	if given && c.feedback.Kind == FeedbackWarning {
		c.feedback = Feedback{}
	}
}

// Blur checks a single input when it loses focus
func (c *Controller) Blur(field Field) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldPhone:
		if !normalize.IsValidPhone(c.draft.Phone) {
			c.fieldErrors[FieldPhone] = MsgInvalidPhone
		}
	case FieldEmail:
		if c.cfg.WithEmail && !normalize.IsValidEmail(strings.TrimSpace(c.draft.Email)) {
			c.fieldErrors[FieldEmail] = MsgInvalidEmail
		}
	}
}

// validate returns the first failing check in the fixed order:
// required fields, phone, email, consent
func (c *Controller) validate() (Feedback, bool) {
	d := c.draft
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Phone) == "" || strings.TrimSpace(d.Country) == "" {
		return Feedback{Kind: FeedbackError, Message: MsgRequiredFields}, false
	}
	if !normalize.IsValidPhone(d.Phone) {
		return Feedback{Kind: FeedbackError, Message: MsgInvalidPhone, Field: FieldPhone}, false
	}
	if c.cfg.WithEmail && !normalize.IsValidEmail(strings.TrimSpace(d.Email)) {
		return Feedback{Kind: FeedbackError, Message: MsgInvalidEmail, Field: FieldEmail}, false
	}
	if !d.ConsentGiven {
		return Feedback{Kind: FeedbackWarning, Message: MsgConsent}, false
	}
	return Feedback{}, true
}

func (c *Controller) payload() Payload {
	p := Payload{
		Name:           strings.TrimSpace(c.draft.Name),
		Phone:          normalize.DigitsOnly(c.draft.Phone),
		IdempotencyKey: c.key,
	}
	if c.cfg.WithEmail {
		p.Email = strings.TrimSpace(c.draft.Email)
	}
	if c.cfg.WithCargo {
		p.Cargo = strings.TrimSpace(c.draft.Cargo)
	}
	if id, ok := c.catalog.ResolveID(c.draft.Country); ok {
		p.Country = &id
	}
	return p
}

// ValidateAndSubmit validates the draft and, when it is complete, submits it.
// It blocks for the duration of the request and returns the resulting state.
// Validation problems and submission failures are reported through Snapshot,
// the returned error only signals a submit that was not attempted.
func (c *Controller) ValidateAndSubmit(ctx context.Context) (State, error) {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return StateSubmitting, ErrSubmissionInFlight
	case StateSucceeded:
		c.mu.Unlock()
		return StateSucceeded, ErrAlreadySubmitted
	case StateFailed:
		c.state = StateIdle
	}

	if fb, ok := c.validate(); !ok {
		c.showBanner(fb)
		c.mu.Unlock()
		return StateIdle, nil
	}

	c.state = StateSubmitting
	c.attempt++
	attempt := c.attempt
	c.stopBanner()
	c.feedback = Feedback{}
	payload := c.payload()
	c.mu.Unlock()

	resp, err := c.submitter.Submit(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attempt != attempt {
		// dismissed while the request was in flight
		return c.state, nil
	}

	if err != nil || resp == nil || !resp.Success {
		message := MsgGenericFailure
		if err == nil && resp != nil && strings.TrimSpace(resp.Error) != "" {
			message = resp.Error
		}
		if err != nil {
			logger.Warn("Lead form submission failed", zap.String("form", c.cfg.Label), zap.Error(err))
		}
		c.state = StateFailed
		c.showBanner(Feedback{Kind: FeedbackError, Message: message})
		return StateFailed, nil
	}

	c.state = StateSucceeded
	c.feedback = Feedback{Kind: FeedbackSuccess, Message: MsgSuccess}
	c.draft = Draft{}
	c.fieldErrors = make(map[Field]string)
	c.track()
	c.closeTimer = c.afterFunc(c.cfg.CloseDelay, c.closeAfterSuccess)
	return StateSucceeded, nil
}

// Dismiss closes the form and discards the draft
func (c *Controller) Dismiss() {
	c.mu.Lock()
	c.reset()
	onClose := c.onClose
	c.mu.Unlock()

	if onClose != nil {
		onClose()
	}
}

// Snapshot returns a copy of the current form state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make(map[Field]string, len(c.fieldErrors))
	for k, v := range c.fieldErrors {
		errs[k] = v
	}
	return Snapshot{
		Draft:          c.draft,
		State:          c.state,
		Feedback:       c.feedback,
		FieldErrors:    errs,
		IdempotencyKey: c.key,
	}
}

func (c *Controller) closeAfterSuccess() {
	c.mu.Lock()
	if c.state != StateSucceeded {
		c.mu.Unlock()
		return
	}
	c.reset()
	onClose := c.onClose
	c.mu.Unlock()

	if onClose != nil {
		onClose()
	}
}

// reset returns the controller to a fresh draft with a new idempotency key. Callers hold mu.
func (c *Controller) reset() {
	c.stopBanner()
	if c.closeTimer != nil {
		c.closeTimer.Stop()
		c.closeTimer = nil
	}
	c.attempt++
	c.draft = Draft{}
	c.state = StateIdle
	c.feedback = Feedback{}
	c.fieldErrors = make(map[Field]string)
	c.key = c.newKey()
}

// showBanner displays fb and schedules its removal. Callers hold mu.
func (c *Controller) showBanner(fb Feedback) {
	c.stopBanner()
	c.feedback = fb
	if fb.Field != "" {
		c.fieldErrors[fb.Field] = fb.Message
	}

	c.bannerSeq++
	seq := c.bannerSeq
	c.bannerTimer = c.afterFunc(c.cfg.BannerDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.bannerSeq != seq {
			return
		}
		if c.feedback == fb {
			c.feedback = Feedback{}
		}
		if fb.Field != "" && c.fieldErrors[fb.Field] == fb.Message {
			delete(c.fieldErrors, fb.Field)
		}
		c.bannerTimer = nil
	})
}

func (c *Controller) stopBanner() {
	c.bannerSeq++
	if c.bannerTimer != nil {
		c.bannerTimer.Stop()
		c.bannerTimer = nil
	}
}

func (c *Controller) clearFieldError(f Field) {
	delete(c.fieldErrors, f)
	if c.feedback.Field == f {
		c.feedback = Feedback{}
	}
}

// track reports the conversion without waiting for the sink
func (c *Controller) track() {
	sink := c.telemetry
	event := TelemetryEvent{Goal: GoalFormSubmit, Category: CategoryConversion, Label: c.cfg.Label}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("Telemetry sink panicked", zap.Any("panic", r), zap.String("goal", event.Goal))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), telemetryTimeout)
		defer cancel()
		if err := sink.Track(ctx, event); err != nil {
			logger.Warn("Telemetry event failed", zap.Error(err), zap.String("goal", event.Goal))
		}
	}()
}
