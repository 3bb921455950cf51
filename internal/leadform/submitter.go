package leadform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/asiatranscargo/cargo-api/internal/models"
	"github.com/asiatranscargo/cargo-api/pkg/httpclient"
)

const maxResponseSize = 64 << 10

// Payload is the body posted to the lead endpoint
type Payload struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Country        *int64 `json:"country,omitempty"`
	Cargo          string `json:"cargo"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// Submitter delivers a payload to the lead endpoint
type Submitter interface {
	Submit(ctx context.Context, payload Payload) (*models.SubmitLeadResponse, error)
}

// HTTPSubmitter posts payloads to POST /api/lead
type HTTPSubmitter struct {
	endpoint   string
	httpClient httpclient.Client
}

// NewHTTPSubmitter creates a submitter for the endpoint URL, e.g. https://asiacargo.su/api/lead
func NewHTTPSubmitter(endpoint string, httpClient httpclient.Client) *HTTPSubmitter {
	if httpClient == nil {
		httpClient = httpclient.NewStandardClient()
	}
	return &HTTPSubmitter{endpoint: endpoint, httpClient: httpClient}
}

// Submit sends one request. The endpoint answers {success, leadId, error} for
// every status, so the body is decoded regardless of the status code.
func (s *HTTPSubmitter) Submit(ctx context.Context, payload Payload) (*models.SubmitLeadResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send lead: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var out models.SubmitLeadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	return &out, nil
}

var _ Submitter = (*HTTPSubmitter)(nil)
