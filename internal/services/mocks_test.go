package services_test

import (
	"context"

	"github.com/asiatranscargo/cargo-api/internal/models"
	"github.com/asiatranscargo/cargo-api/pkg/bitrix"
	"github.com/stretchr/testify/mock"
)

// MockCRMClient is a mock implementation of services.CRMClient
type MockCRMClient struct {
	mock.Mock
}

func (m *MockCRMClient) AddLead(ctx context.Context, lead bitrix.Lead) (int64, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(int64), args.Error(1)
}

// MockContentDataSource is a mock implementation of repository.ContentDataSource
type MockContentDataSource struct {
	mock.Mock
}

func (m *MockContentDataSource) ListPublishedArticles(ctx context.Context, limit int) ([]*models.Article, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *MockContentDataSource) GetPublishedArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockContentDataSource) ListPublishedCaseStudies(ctx context.Context, limit int) ([]*models.CaseStudy, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CaseStudy), args.Error(1)
}

func (m *MockContentDataSource) GetPublishedCaseStudyBySlug(ctx context.Context, slug string) (*models.CaseStudy, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CaseStudy), args.Error(1)
}

func (m *MockContentDataSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockContentDataSource) Name() string {
	return "mock"
}

// MockDeliveryOptionsSource is a mock implementation of repository.DeliveryOptionsSource
type MockDeliveryOptionsSource struct {
	mock.Mock
}

func (m *MockDeliveryOptionsSource) ListDeliveryOptions(ctx context.Context, countrySlug string) ([]*models.DeliveryOption, error) {
	args := m.Called(ctx, countrySlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DeliveryOption), args.Error(1)
}
