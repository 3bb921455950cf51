package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/asiatranscargo/cargo-api/internal/idempotency"
	"github.com/asiatranscargo/cargo-api/internal/models"
	"github.com/asiatranscargo/cargo-api/internal/services"
	"github.com/asiatranscargo/cargo-api/pkg/bitrix"
	apperrors "github.com/asiatranscargo/cargo-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validLeadRequest() *models.SubmitLeadRequest {
	return &models.SubmitLeadRequest{
		Name:    "Иван Петров",
		Phone:   "+7 (912) 345-67-89",
		Email:   "ivan@example.com",
		Country: "1456",
		Cargo:   "Электроника, 200 кг",
	}
}

func TestLeadService_SubmitLead_Success(t *testing.T) {
	crm := new(MockCRMClient)
	service := services.NewLeadService(crm, nil, nil)

	crm.On("AddLead", mock.Anything, bitrix.Lead{
		Name:      "Иван Петров",
		Phone:     "79123456789",
		Email:     "ivan@example.com",
		CountryID: 1456,
		Cargo:     "Электроника, 200 кг",
	}).Return(int64(321), nil).Once()

	resp, err := service.SubmitLead(context.Background(), validLeadRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(321), resp.LeadID)
	assert.Empty(t, resp.Error)

	crm.AssertExpectations(t)
}

func TestLeadService_SubmitLead_CountryForms(t *testing.T) {
	tests := []struct {
		name    string
		country models.CountrySelection
		want    int64
	}{
		{name: "numeric string", country: "1456", want: 1456},
		{name: "iso code", country: "cn", want: 1456},
		{name: "slug", country: "turkey", want: 686},
		{name: "uncatalogued id", country: "99999", want: 99999},
		{name: "padded", country: " 518 ", want: 518},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crm := new(MockCRMClient)
			service := services.NewLeadService(crm, nil, nil)

			crm.On("AddLead", mock.Anything, mock.MatchedBy(func(l bitrix.Lead) bool {
				return l.CountryID == tt.want
			})).Return(int64(1), nil).Once()

			req := validLeadRequest()
			req.Country = tt.country
			resp, err := service.SubmitLead(context.Background(), req)
			require.NoError(t, err)
			assert.True(t, resp.Success)
			crm.AssertExpectations(t)
		})
	}
}

func TestLeadService_SubmitLead_ValidationMakesNoCalls(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.SubmitLeadRequest)
		message string
	}{
		{name: "empty name", mutate: func(r *models.SubmitLeadRequest) { r.Name = "   " }, message: models.MsgRequiredFields},
		{name: "empty phone", mutate: func(r *models.SubmitLeadRequest) { r.Phone = "" }, message: models.MsgRequiredFields},
		{name: "empty country", mutate: func(r *models.SubmitLeadRequest) { r.Country = "" }, message: models.MsgRequiredFields},
		{name: "phone without digits", mutate: func(r *models.SubmitLeadRequest) { r.Phone = "+() -" }, message: models.MsgInvalidPhone},
		{name: "bad email", mutate: func(r *models.SubmitLeadRequest) { r.Email = "ivan@" }, message: models.MsgInvalidEmail},
		{name: "unknown country", mutate: func(r *models.SubmitLeadRequest) { r.Country = "atlantis" }, message: models.MsgInvalidCountry},
		{name: "zero country", mutate: func(r *models.SubmitLeadRequest) { r.Country = "0" }, message: models.MsgInvalidCountry},
		{name: "negative country", mutate: func(r *models.SubmitLeadRequest) { r.Country = "-5" }, message: models.MsgInvalidCountry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crm := new(MockCRMClient)
			service := services.NewLeadService(crm, nil, nil)

			req := validLeadRequest()
			tt.mutate(req)
			resp, err := service.SubmitLead(context.Background(), req)

			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Error)
			crm.AssertNotCalled(t, "AddLead", mock.Anything, mock.Anything)
		})
	}
}

func TestLeadService_SubmitLead_NilRequest(t *testing.T) {
	crm := new(MockCRMClient)
	service := services.NewLeadService(crm, nil, nil)

	resp, err := service.SubmitLead(context.Background(), nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, models.MsgRequiredFields, resp.Error)
	crm.AssertNotCalled(t, "AddLead", mock.Anything, mock.Anything)
}

func TestLeadService_SubmitLead_OptionalFieldsOmitted(t *testing.T) {
	crm := new(MockCRMClient)
	service := services.NewLeadService(crm, nil, nil)

	crm.On("AddLead", mock.Anything, bitrix.Lead{
		Name:      "Анна",
		Phone:     "79001112233",
		CountryID: 686,
	}).Return(int64(5), nil).Once()

	resp, err := service.SubmitLead(context.Background(), &models.SubmitLeadRequest{
		Name:    " Анна ",
		Phone:   "8 900 111 22 33",
		Country: "TR",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	crm.AssertExpectations(t)
}

func TestLeadService_SubmitLead_CRMFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "rejection with description",
			err:     &bitrix.APIError{StatusCode: 400, Code: "ERROR_CORE", Description: "Неверный телефон"},
			message: "Неверный телефон",
		},
		{
			name:    "rejection without description",
			err:     &bitrix.APIError{StatusCode: 502, Code: "HTTP_ERROR"},
			message: models.MsgCRMRejected,
		},
		{name: "no lead id", err: bitrix.ErrNoLeadID, message: models.MsgCRMRejected},
		{name: "timeout", err: bitrix.ErrTimeout, message: models.MsgServerError},
		{name: "breaker open", err: fmt.Errorf("%w: open", bitrix.ErrUnavailable), message: models.MsgServerError},
		{name: "transport", err: errors.New("connection refused"), message: models.MsgServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crm := new(MockCRMClient)
			service := services.NewLeadService(crm, nil, nil)
			crm.On("AddLead", mock.Anything, mock.Anything).Return(int64(0), tt.err).Once()

			resp, err := service.SubmitLead(context.Background(), validLeadRequest())

			assert.True(t, apperrors.Is(err, apperrors.ErrUpstream))
			assert.ErrorIs(t, err, tt.err)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.message, resp.Error)
			crm.AssertNumberOfCalls(t, "AddLead", 1)
		})
	}
}

func TestLeadService_SubmitLead_Idempotency(t *testing.T) {
	crm := new(MockCRMClient)
	store := idempotency.NewMemoryStore(time.Minute)
	service := services.NewLeadService(crm, nil, store)

	crm.On("AddLead", mock.Anything, mock.Anything).Return(int64(77), nil).Once()

	req := validLeadRequest()
	req.IdempotencyKey = "draft-1"

	first, err := service.SubmitLead(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(77), first.LeadID)

	second, err := service.SubmitLead(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, int64(77), second.LeadID)

	crm.AssertNumberOfCalls(t, "AddLead", 1)
}

func TestLeadService_SubmitLead_PendingKeyConflicts(t *testing.T) {
	crm := new(MockCRMClient)
	store := idempotency.NewMemoryStore(time.Minute)
	service := services.NewLeadService(crm, nil, store)

	prior, err := store.Reserve(context.Background(), "draft-2")
	require.NoError(t, err)
	require.Nil(t, prior)

	req := validLeadRequest()
	req.IdempotencyKey = "draft-2"
	resp, err := service.SubmitLead(context.Background(), req)

	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, models.MsgDuplicate, resp.Error)
	crm.AssertNotCalled(t, "AddLead", mock.Anything, mock.Anything)
}

func TestLeadService_SubmitLead_FailureReleasesKey(t *testing.T) {
	crm := new(MockCRMClient)
	store := idempotency.NewMemoryStore(time.Minute)
	service := services.NewLeadService(crm, nil, store)

	crm.On("AddLead", mock.Anything, mock.Anything).Return(int64(0), bitrix.ErrTimeout).Once()
	crm.On("AddLead", mock.Anything, mock.Anything).Return(int64(90), nil).Once()

	req := validLeadRequest()
	req.IdempotencyKey = "draft-3"

	_, err := service.SubmitLead(context.Background(), req)
	require.Error(t, err)

	resp, err := service.SubmitLead(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(90), resp.LeadID)
	crm.AssertNumberOfCalls(t, "AddLead", 2)
}

func TestLeadService_SubmitLead_WithoutKeyAllowsDuplicates(t *testing.T) {
	crm := new(MockCRMClient)
	service := services.NewLeadService(crm, nil, idempotency.NewMemoryStore(time.Minute))

	crm.On("AddLead", mock.Anything, mock.Anything).Return(int64(1), nil).Twice()

	for i := 0; i < 2; i++ {
		resp, err := service.SubmitLead(context.Background(), validLeadRequest())
		require.NoError(t, err)
		assert.True(t, resp.Success)
	}
	crm.AssertNumberOfCalls(t, "AddLead", 2)
}

// failingStore simulates an unreachable idempotency backend
type failingStore struct{}

func (failingStore) Reserve(context.Context, string) (*idempotency.Prior, error) {
	return nil, errors.New("redis down")
}

func (failingStore) Complete(context.Context, string, int64) error {
	return errors.New("redis down")
}

func (failingStore) Release(context.Context, string) error {
	return errors.New("redis down")
}

func (failingStore) Name() string {
	return "failing"
}

func TestLeadService_SubmitLead_StoreOutageStillForwards(t *testing.T) {
	crm := new(MockCRMClient)
	service := services.NewLeadService(crm, nil, failingStore{})

	crm.On("AddLead", mock.Anything, mock.Anything).Return(int64(12), nil).Once()

	req := validLeadRequest()
	req.IdempotencyKey = "draft-4"
	resp, err := service.SubmitLead(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.LeadID)
	crm.AssertExpectations(t)
}
