package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asiatranscargo/cargo-api/internal/countries"
	"github.com/asiatranscargo/cargo-api/internal/idempotency"
	"github.com/asiatranscargo/cargo-api/internal/models"
	"github.com/asiatranscargo/cargo-api/pkg/bitrix"
	apperrors "github.com/asiatranscargo/cargo-api/pkg/errors"
	"github.com/asiatranscargo/cargo-api/pkg/logger"
	"github.com/asiatranscargo/cargo-api/pkg/metrics"
	"github.com/asiatranscargo/cargo-api/pkg/normalize"
	"github.com/asiatranscargo/cargo-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// idempotencyOpTimeout bounds bookkeeping calls issued after the request context may be gone
const idempotencyOpTimeout = 3 * time.Second

// CRMClient creates leads in the CRM
type CRMClient interface {
	AddLead(ctx context.Context, lead bitrix.Lead) (int64, error)
}

// LeadService validates lead submissions and forwards them to the CRM
type LeadService struct {
	crm       CRMClient
	catalog   *countries.Catalog
	idemStore idempotency.Store
}

// NewLeadService creates a new lead service. idemStore may be nil, in which
// case idempotency keys are ignored.
func NewLeadService(crm CRMClient, catalog *countries.Catalog, idemStore idempotency.Store) *LeadService {
	if catalog == nil {
		catalog = countries.Default()
	}
	return &LeadService{
		crm:       crm,
		catalog:   catalog,
		idemStore: idemStore,
	}
}

// SubmitLead validates req and forwards it to the CRM.
//
// The response is always non-nil. A non-nil error classifies the failure:
// errors.ErrInvalidInput, errors.ErrConflict or errors.ErrUpstream.
func (s *LeadService) SubmitLead(ctx context.Context, req *models.SubmitLeadRequest) (*models.SubmitLeadResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "lead.submit")
	defer span.End()

	record, msg, err := s.validate(req)
	if err != nil {
		metrics.LeadSubmissions.WithLabelValues("invalid").Inc()
		logger.Warn("Lead rejected by validation", zap.Error(err))
		return failure(msg), err
	}
	span.SetAttributes(attribute.Int64("lead.country_id", record.CountryID))

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" && s.idemStore != nil {
		prior, err := s.idemStore.Reserve(ctx, key)
		switch {
		case err != nil:
			// Store outages must not block lead intake
			logger.Error("Idempotency store unavailable, forwarding without key",
				zap.String("store", s.idemStore.Name()), zap.Error(err))
			key = ""
		case prior != nil && prior.Pending:
			metrics.IdempotencyReplays.WithLabelValues("pending").Inc()
			metrics.LeadSubmissions.WithLabelValues("duplicate").Inc()
			return failure(models.MsgDuplicate), apperrors.ConflictError("submission already in progress")
		case prior != nil:
			metrics.IdempotencyReplays.WithLabelValues("replayed").Inc()
			metrics.LeadSubmissions.WithLabelValues("replayed").Inc()
			logger.Info("Lead submission replayed", zap.Int64("lead_id", prior.LeadID))
			return &models.SubmitLeadResponse{Success: true, LeadID: prior.LeadID}, nil
		}
	} else {
		key = ""
	}

	leadID, err := s.crm.AddLead(ctx, bitrix.Lead{
		Name:      record.Name,
		Phone:     record.Phone,
		Email:     record.Email,
		CountryID: record.CountryID,
		Cargo:     record.Cargo,
	})
	if err != nil {
		s.release(key)
		tracing.RecordError(span, err)
		status, message := classifyCRMError(err)
		metrics.LeadSubmissions.WithLabelValues(status).Inc()
		logger.Error("Failed to create lead",
			zap.Error(err),
			zap.String("phone", logger.MaskPhone(record.Phone)),
			zap.Int64("country_id", record.CountryID))
		return failure(message), apperrors.UpstreamError("bitrix", err)
	}

	s.complete(key, leadID)
	metrics.LeadSubmissions.WithLabelValues("success").Inc()
	logger.Info("Lead created",
		zap.Int64("lead_id", leadID),
		zap.Int64("country_id", record.CountryID),
		zap.String("phone", logger.MaskPhone(record.Phone)))

	return &models.SubmitLeadResponse{Success: true, LeadID: leadID}, nil
}

// validate trims the request and builds the record forwarded to the CRM
func (s *LeadService) validate(req *models.SubmitLeadRequest) (*models.LeadRecord, string, error) {
	if req == nil {
		return nil, models.MsgRequiredFields, apperrors.InvalidInputError("body", "missing")
	}

	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	country := strings.TrimSpace(string(req.Country))
	if name == "" || phone == "" || country == "" {
		return nil, models.MsgRequiredFields, apperrors.InvalidInputError("name, phone, country", "required")
	}

	digits := normalize.DigitsOnly(phone)
	if digits == "" {
		return nil, models.MsgInvalidPhone, apperrors.InvalidInputError("phone", "no digits")
	}

	email := strings.TrimSpace(req.Email)
	if !normalize.IsValidEmail(email) {
		return nil, models.MsgInvalidEmail, apperrors.InvalidInputError("email", "malformed")
	}

	countryID, ok := s.catalog.ResolveID(country)
	if !ok {
		return nil, models.MsgInvalidCountry, apperrors.InvalidInputError("country", fmt.Sprintf("cannot resolve %q", country))
	}

	return &models.LeadRecord{
		Name:      name,
		Phone:     digits,
		Email:     email,
		CountryID: countryID,
		Cargo:     strings.TrimSpace(req.Cargo),
	}, "", nil
}

func (s *LeadService) complete(key string, leadID int64) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), idempotencyOpTimeout)
	defer cancel()
	if err := s.idemStore.Complete(ctx, key, leadID); err != nil {
		logger.Error("Failed to record idempotency key", zap.Error(err), zap.Int64("lead_id", leadID))
	}
}

func (s *LeadService) release(key string) {
	if key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), idempotencyOpTimeout)
	defer cancel()
	if err := s.idemStore.Release(ctx, key); err != nil {
		logger.Error("Failed to release idempotency key", zap.Error(err))
	}
}

// classifyCRMError maps a CRM failure to a metrics status and the message shown to the visitor
func classifyCRMError(err error) (string, string) {
	var apiErr *bitrix.APIError
	switch {
	case errors.As(err, &apiErr):
		if apiErr.Description != "" {
			return "crm_rejected", apiErr.Description
		}
		return "crm_rejected", models.MsgCRMRejected
	case errors.Is(err, bitrix.ErrNoLeadID):
		return "crm_rejected", models.MsgCRMRejected
	case errors.Is(err, bitrix.ErrTimeout):
		return "timeout", models.MsgServerError
	case errors.Is(err, bitrix.ErrUnavailable):
		return "crm_unavailable", models.MsgServerError
	default:
		return "error", models.MsgServerError
	}
}

func failure(message string) *models.SubmitLeadResponse {
	return &models.SubmitLeadResponse{Success: false, Error: message}
}
