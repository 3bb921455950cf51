// Package bitrix talks to a Bitrix24 inbound webhook.
package bitrix

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/asiatranscargo/cargo-api/pkg/circuitbreaker"
	"github.com/asiatranscargo/cargo-api/pkg/httpclient"
	"github.com/asiatranscargo/cargo-api/pkg/logger"
	"github.com/asiatranscargo/cargo-api/pkg/metrics"
	"github.com/asiatranscargo/cargo-api/pkg/tracing"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	methodLeadAdd   = "crm.lead.add.json"
	operationAdd    = "crm.lead.add"
	maxResponseSize = 1 << 20
)

var (
	// ErrTimeout is returned when the webhook does not answer within the configured timeout
	ErrTimeout = errors.New("bitrix: request timed out")

	// ErrUnavailable is returned while the circuit breaker is open
	ErrUnavailable = errors.New("bitrix: temporarily unavailable")

	// ErrNoLeadID is returned when a response carries neither a lead id nor an error description
	ErrNoLeadID = errors.New("bitrix: response has no lead id")
)

// APIError is a rejection reported by Bitrix24 itself
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bitrix: %s: %s (status %d)", e.Code, e.Description, e.StatusCode)
}

// Config describes the webhook and the custom lead fields of the portal
type Config struct {
	WebhookURL   string
	Timeout      time.Duration
	CountryField string
	SourceField  string
	SourceValue  int
}

// Lead is the data the site sends for one lead
type Lead struct {
	Name      string
	Phone     string
	Email     string
	CountryID int64
	Cargo     string
}

// Client creates leads through the webhook
type Client struct {
	cfg        Config
	endpoint   string
	httpClient httpclient.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a webhook client. Each AddLead performs at most one HTTP request.
func NewClient(cfg Config, httpClient httpclient.Client) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = httpclient.NewClientWithTimeout(cfg.Timeout)
	}

	breakerCfg := circuitbreaker.DefaultConfig("bitrix")
	// A rejected lead means the CRM is up
	breakerCfg.IsSuccessful = func(err error) bool {
		var apiErr *APIError
		return err == nil || (errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError)
	}

	return &Client{
		cfg:        cfg,
		endpoint:   methodURL(cfg.WebhookURL, methodLeadAdd),
		httpClient: httpClient,
		breaker:    circuitbreaker.NewCircuitBreaker(breakerCfg),
	}
}

// methodURL accepts either the webhook base URL or a full method URL
func methodURL(webhook, method string) string {
	if strings.HasSuffix(webhook, ".json") {
		return webhook
	}
	return strings.TrimRight(webhook, "/") + "/" + method
}

// AddLead creates a lead and returns its id
func (c *Client) AddLead(ctx context.Context, lead Lead) (int64, error) {
	start := time.Now()

	ctx, span := tracing.StartSpan(ctx, "bitrix.crm.lead.add",
		attribute.Int64("crm.country_id", lead.CountryID))
	defer span.End()

	leadID, err := circuitbreaker.Execute(c.breaker, func() (int64, error) {
		return c.send(ctx, BuildLeadPayload(c.cfg, lead))
	})

	duration := metrics.MeasureDuration(start)
	if err != nil {
		if circuitbreaker.IsRejected(err) {
			err = fmt.Errorf("%w: %w", ErrUnavailable, circuitbreaker.FormatError(c.breaker.Name(), err))
		}
		status := errorStatus(err)
		recordMetrics(operationAdd, status, duration)
		logger.LogAPICall("bitrix", operationAdd, status, duration, zap.Error(err))
		tracing.RecordError(span, err)
		return 0, err
	}

	recordMetrics(operationAdd, "success", duration)
	logger.LogAPICall("bitrix", operationAdd, "success", duration, zap.Int64("lead_id", leadID))
	span.SetAttributes(attribute.Int64("crm.lead_id", leadID))
	return leadID, nil
}

func (c *Client) send(ctx context.Context, payload LeadPayload) (int64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("bitrix: failed to encode lead: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("bitrix: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return 0, fmt.Errorf("%w after %s", ErrTimeout, c.cfg.Timeout)
		}
		return 0, fmt.Errorf("bitrix: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if isTimeout(err) {
			return 0, fmt.Errorf("%w after %s", ErrTimeout, c.cfg.Timeout)
		}
		return 0, fmt.Errorf("bitrix: failed to read response: %w", err)
	}

	return parseResponse(resp.StatusCode, raw)
}

type addResponse struct {
	Result           json.RawMessage `json:"result"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

// parseResponse succeeds only when result is a positive integer
func parseResponse(statusCode int, raw []byte) (int64, error) {
	var out addResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if statusCode >= http.StatusInternalServerError {
			return 0, &APIError{StatusCode: statusCode, Code: "HTTP_ERROR", Description: http.StatusText(statusCode)}
		}
		return 0, fmt.Errorf("bitrix: malformed response (status %d): %w", statusCode, err)
	}

	var leadID int64
	if len(out.Result) > 0 {
		if err := json.Unmarshal(out.Result, &leadID); err != nil {
			leadID = 0
		}
	}
	if leadID > 0 {
		return leadID, nil
	}

	if out.ErrorDescription != "" || out.Error != "" {
		return 0, &APIError{StatusCode: statusCode, Code: out.Error, Description: out.ErrorDescription}
	}
	if statusCode >= http.StatusInternalServerError {
		return 0, &APIError{StatusCode: statusCode, Code: "HTTP_ERROR", Description: http.StatusText(statusCode)}
	}
	return 0, ErrNoLeadID
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func errorStatus(err error) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnavailable):
		return "circuit_open"
	case errors.As(err, &apiErr):
		return "rejected"
	default:
		return "error"
	}
}

// recordMetrics records CRM operation metrics
func recordMetrics(operation, status string, duration float64) {
	metrics.CRMRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.CRMRequestTotal.WithLabelValues(operation, status).Inc()
}
