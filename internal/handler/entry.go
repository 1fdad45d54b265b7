package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks-io/ledger-api/internal/domain"
	"github.com/finbooks-io/ledger-api/internal/logging"
	"github.com/finbooks-io/ledger-api/internal/service"
)

type ledgerService interface {
	Post(ctx context.Context, params service.PostEntryParams) (*domain.Entry, error)
	Update(ctx context.Context, id uuid.UUID, params service.PostEntryParams) (*domain.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Entry, error)
	List(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, int, error)
}

type EntryHandler struct {
	ledger ledgerService
}

func NewEntryHandler(ledger ledgerService) *EntryHandler {
	return &EntryHandler{ledger: ledger}
}

type entryItemRequest struct {
	AccountID string          `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

type entryRequest struct {
	Date        string             `json:"date"`
	Reference   string             `json:"reference"`
	Description string             `json:"description"`
	Items       []entryItemRequest `json:"items"`
}

func (r entryRequest) Validate() []FieldError {
	var errs []FieldError
	if _, err := time.Parse(dateLayout, r.Date); err != nil {
		errs = append(errs, FieldError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if len(r.Items) == 0 {
		errs = append(errs, FieldError{Field: "items", Message: "at least one item required"})
	}
	for i, item := range r.Items {
		if _, err := uuid.Parse(item.AccountID); err != nil {
			errs = append(errs, FieldError{Field: "items", Message: fmt.Sprintf("invalid account_id at index %d", i)})
		}
	}
	return errs
}

func (r entryRequest) toParams() service.PostEntryParams {
	date, _ := time.Parse(dateLayout, r.Date)
	items := make([]service.PostItemParams, len(r.Items))
	for i, item := range r.Items {
		accountID, _ := uuid.Parse(item.AccountID)
		items[i] = service.PostItemParams{
			AccountID: accountID,
			Debit:     item.Debit,
			Credit:    item.Credit,
		}
	}
	return service.PostEntryParams{
		Date:        date,
		Reference:   r.Reference,
		Description: r.Description,
		Items:       items,
	}
}

type lineItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

type entryDTO struct {
	ID          uuid.UUID     `json:"id"`
	Date        string        `json:"date"`
	Reference   string        `json:"reference"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Items       []lineItemDTO `json:"items"`
	CreatedAt   time.Time     `json:"created_at"`
}

func toEntryDTO(e *domain.Entry) entryDTO {
	items := make([]lineItemDTO, len(e.Items))
	for i, li := range e.Items {
		items[i] = lineItemDTO{
			ID:        li.ID,
			AccountID: li.AccountID,
			Debit:     li.Debit,
			Credit:    li.Credit,
		}
	}
	return entryDTO{
		ID:          e.ID,
		Date:        e.Date.Format(dateLayout),
		Reference:   e.Reference,
		Description: e.Description,
		Status:      string(e.Status),
		Items:       items,
		CreatedAt:   e.CreatedAt,
	}
}

func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entry, err := h.ledger.Post(r.Context(), req.toParams())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to post entry", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toEntryDTO(entry))
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	entry, err := h.ledger.Get(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toEntryDTO(entry))
}

func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	filter := domain.EntryFilter{Limit: limit, Offset: offset}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			RespondAppError(w, ErrInvalidRequest, nil)
			return
		}
		filter.From = &d
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			RespondAppError(w, ErrInvalidRequest, nil)
			return
		}
		filter.To = &d
	}

	entries, total, err := h.ledger.List(r.Context(), filter)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list entries", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]entryDTO, len(entries))
	for i := range entries {
		dtos[i] = toEntryDTO(&entries[i])
	}

	RespondSuccess(w, http.StatusOK, map[string]any{
		"entries": dtos,
		"total":   total,
	})
}

func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	entry, err := h.ledger.Update(r.Context(), id, req.toParams())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update entry", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toEntryDTO(entry))
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	if err := h.ledger.Delete(r.Context(), id); err != nil {
		logging.FromContext(r.Context()).Error("failed to delete entry", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, nil)
}
