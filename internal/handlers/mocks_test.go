package handlers

import (
	"context"

	"github.com/asiatranscargo/cargo-api/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) SubmitLead(ctx context.Context, req *models.SubmitLeadRequest) (*models.SubmitLeadResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitLeadResponse), args.Error(1)
}

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) ListNews(ctx context.Context, opts models.ListOptions) ([]models.NewsSummary, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NewsSummary), args.Error(1)
}

func (m *MockContentService) GetNews(ctx context.Context, slug string) (*models.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockContentService) ListCases(ctx context.Context, opts models.ListOptions) ([]models.CaseSummary, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CaseSummary), args.Error(1)
}

func (m *MockContentService) GetCase(ctx context.Context, slug string) (*models.CaseStudy, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CaseStudy), args.Error(1)
}

func (m *MockContentService) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockContentService) SourceName() string {
	return "postgres"
}

type MockDeliveryService struct {
	mock.Mock
}

func (m *MockDeliveryService) ListDeliveryOptions(ctx context.Context, country string) ([]models.DeliveryOption, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeliveryOption), args.Error(1)
}
