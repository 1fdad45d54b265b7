package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/finbooks-io/ledger-api/internal/domain"
	"github.com/finbooks-io/ledger-api/internal/logging"
	"github.com/finbooks-io/ledger-api/internal/service"
)

type chartService interface {
	CreateAccount(ctx context.Context, params service.CreateAccountParams) (*domain.Account, error)
	UpdateAccount(ctx context.Context, id uuid.UUID, params service.UpdateAccountParams) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int, error)
}

type AccountHandler struct {
	chart chartService
}

func NewAccountHandler(chart chartService) *AccountHandler {
	return &AccountHandler{chart: chart}
}

type createAccountRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	SubType string `json:"sub_type"`
	Active  *bool  `json:"active"`
}

func (r createAccountRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Code == "" {
		errs = append(errs, FieldError{Field: "code", Message: "required"})
	}
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if !domain.AccountType(r.Type).IsValid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be asset, liability, equity, revenue, or expense"})
	}
	return errs
}

type updateAccountRequest struct {
	Code    *string `json:"code"`
	Name    *string `json:"name"`
	Type    *string `json:"type"`
	SubType *string `json:"sub_type"`
	Active  *bool   `json:"active"`
}

type accountDTO struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	SubType   string    `json:"sub_type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:        a.ID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      string(a.Type),
		SubType:   a.SubType,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	account, err := h.chart.CreateAccount(r.Context(), service.CreateAccountParams{
		Code:    req.Code,
		Name:    req.Name,
		Type:    domain.AccountType(req.Type),
		SubType: req.SubType,
		Active:  req.Active,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toAccountDTO(account))
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	account, err := h.chart.GetAccount(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	filter := domain.AccountFilter{
		Type:   domain.AccountType(r.URL.Query().Get("type")),
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	}

	accounts, total, err := h.chart.ListAccounts(r.Context(), filter)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}

	RespondSuccess(w, http.StatusOK, map[string]any{
		"accounts": dtos,
		"total":    total,
	})
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	params := service.UpdateAccountParams{
		Code:    req.Code,
		Name:    req.Name,
		SubType: req.SubType,
		Active:  req.Active,
	}
	if req.Type != nil {
		t := domain.AccountType(*req.Type)
		params.Type = &t
	}

	account, err := h.chart.UpdateAccount(r.Context(), id, params)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toAccountDTO(account))
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.chart.DeleteAccount(r.Context(), id); err != nil {
		logging.FromContext(r.Context()).Error("failed to delete account", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, nil)
}

func idFromPath(r *http.Request) (uuid.UUID, *AppError) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, ErrInvalidRequest
	}
	return id, nil
}
