package services

import (
	"context"

	"github.com/asiatranscargo/cargo-api/internal/models"
)

// LeadServiceInterface defines the interface for lead submission
type LeadServiceInterface interface {
	SubmitLead(ctx context.Context, req *models.SubmitLeadRequest) (*models.SubmitLeadResponse, error)
}

// ContentServiceInterface defines the interface for content reads
type ContentServiceInterface interface {
	ListNews(ctx context.Context, opts models.ListOptions) ([]models.NewsSummary, error)
	GetNews(ctx context.Context, slug string) (*models.Article, error)
	ListCases(ctx context.Context, opts models.ListOptions) ([]models.CaseSummary, error)
	GetCase(ctx context.Context, slug string) (*models.CaseStudy, error)
	Ready(ctx context.Context) error
	SourceName() string
}

// DeliveryServiceInterface defines the interface for delivery option reads
type DeliveryServiceInterface interface {
	ListDeliveryOptions(ctx context.Context, country string) ([]models.DeliveryOption, error)
}

// Ensure services implement their interfaces
var _ LeadServiceInterface = (*LeadService)(nil)
var _ ContentServiceInterface = (*ContentService)(nil)
var _ DeliveryServiceInterface = (*DeliveryService)(nil)
