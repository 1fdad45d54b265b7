package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks-io/ledger-api/internal/domain"
	"github.com/finbooks-io/ledger-api/internal/service"
)

type mockChartService struct {
	account *domain.Account
	err     error

	createdParams service.CreateAccountParams
	deletedID     uuid.UUID
}

func (m *mockChartService) CreateAccount(_ context.Context, params service.CreateAccountParams) (*domain.Account, error) {
	m.createdParams = params
	return m.account, m.err
}

func (m *mockChartService) UpdateAccount(_ context.Context, _ uuid.UUID, _ service.UpdateAccountParams) (*domain.Account, error) {
	return m.account, m.err
}

func (m *mockChartService) DeleteAccount(_ context.Context, id uuid.UUID) error {
	m.deletedID = id
	return m.err
}

func (m *mockChartService) GetAccount(_ context.Context, _ uuid.UUID) (*domain.Account, error) {
	return m.account, m.err
}

func (m *mockChartService) ListAccounts(_ context.Context, _ domain.AccountFilter) ([]domain.Account, int, error) {
	if m.account == nil {
		return nil, 0, m.err
	}
	return []domain.Account{*m.account}, 1, m.err
}

func accountRouter(svc chartService) http.Handler {
	h := NewAccountHandler(svc)
	r := chi.NewRouter()
	r.Post("/accounts", h.Create)
	r.Get("/accounts", h.List)
	r.Get("/accounts/{id}", h.Get)
	r.Put("/accounts/{id}", h.Update)
	r.Delete("/accounts/{id}", h.Delete)
	return r
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateAccountHandler(t *testing.T) {
	cash := &domain.Account{
		ID:   uuid.New(),
		Code: "1000",
		Name: "Cash",
		Type: domain.AccountTypeAsset,
	}

	tests := []struct {
		name       string
		body       string
		svc        *mockChartService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "created",
			body:       `{"code":"1000","name":"Cash","type":"asset"}`,
			svc:        &mockChartService{account: cash},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			body:       `{"code":`,
			svc:        &mockChartService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrInvalidRequest.Code,
		},
		{
			name:       "missing fields",
			body:       `{"type":"asset"}`,
			svc:        &mockChartService{},
			wantStatus: ErrValidationFailed.Status,
			wantCode:   ErrValidationFailed.Code,
		},
		{
			name:       "bad type",
			body:       `{"code":"1000","name":"Cash","type":"banana"}`,
			svc:        &mockChartService{},
			wantStatus: ErrValidationFailed.Status,
			wantCode:   ErrValidationFailed.Code,
		},
		{
			name:       "duplicate code",
			body:       `{"code":"1000","name":"Cash","type":"asset"}`,
			svc:        &mockChartService{err: domain.ErrDuplicateAccountCode},
			wantStatus: http.StatusConflict,
			wantCode:   ErrDuplicateAccountCode.Code,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			accountRouter(tc.svc).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			if tc.wantCode != "" {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tc.wantCode, resp.Error.Code)
			} else {
				assert.True(t, resp.Success)
			}
		})
	}
}

func TestGetAccountHandler(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/accounts/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		accountRouter(&mockChartService{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/accounts/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		accountRouter(&mockChartService{err: domain.ErrNotFound}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteAccountHandlerInUse(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/accounts/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	accountRouter(&mockChartService{err: domain.ErrAccountInUse}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrAccountInUse.Code, resp.Error.Code)
}
