package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks-io/ledger-api/internal/domain"
	"github.com/finbooks-io/ledger-api/internal/logging"
	"github.com/finbooks-io/ledger-api/internal/service"
)

type invoiceService interface {
	CreateInvoice(ctx context.Context, params service.CreateInvoiceParams) (*domain.Invoice, error)
	RecordPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal, paidOn time.Time) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, kind domain.InvoiceKind, status domain.InvoiceStatus) ([]domain.Invoice, error)
}

type InvoiceHandler struct {
	invoices invoiceService
}

func NewInvoiceHandler(invoices invoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

type createInvoiceRequest struct {
	Number    string          `json:"number"`
	Kind      string          `json:"kind"`
	Party     string          `json:"party"`
	IssueDate string          `json:"issue_date"`
	DueDate   string          `json:"due_date"`
	Total     decimal.Decimal `json:"total"`
}

func (r createInvoiceRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Number == "" {
		errs = append(errs, FieldError{Field: "number", Message: "required"})
	}
	if !domain.InvoiceKind(r.Kind).IsValid() {
		errs = append(errs, FieldError{Field: "kind", Message: "must be receivable or payable"})
	}
	if r.Party == "" {
		errs = append(errs, FieldError{Field: "party", Message: "required"})
	}
	if _, err := time.Parse(dateLayout, r.IssueDate); err != nil {
		errs = append(errs, FieldError{Field: "issue_date", Message: "must be YYYY-MM-DD"})
	}
	if _, err := time.Parse(dateLayout, r.DueDate); err != nil {
		errs = append(errs, FieldError{Field: "due_date", Message: "must be YYYY-MM-DD"})
	}
	if !r.Total.IsPositive() {
		errs = append(errs, FieldError{Field: "total", Message: "must be greater than zero"})
	}
	return errs
}

type invoiceDTO struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	Kind      string          `json:"kind"`
	Party     string          `json:"party"`
	IssueDate string          `json:"issue_date"`
	DueDate   string          `json:"due_date"`
	Total     decimal.Decimal `json:"total"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

func toInvoiceDTO(inv *domain.Invoice) invoiceDTO {
	return invoiceDTO{
		ID:        inv.ID,
		Number:    inv.Number,
		Kind:      string(inv.Kind),
		Party:     inv.Party,
		IssueDate: inv.IssueDate.Format(dateLayout),
		DueDate:   inv.DueDate.Format(dateLayout),
		Total:     inv.Total,
		Balance:   inv.Balance,
		Status:    string(inv.Status),
		CreatedAt: inv.CreatedAt,
	}
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	issueDate, _ := time.Parse(dateLayout, req.IssueDate)
	dueDate, _ := time.Parse(dateLayout, req.DueDate)

	inv, err := h.invoices.CreateInvoice(r.Context(), service.CreateInvoiceParams{
		Number:    req.Number,
		Kind:      domain.InvoiceKind(req.Kind),
		Party:     req.Party,
		IssueDate: issueDate,
		DueDate:   dueDate,
		Total:     req.Total,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create invoice", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toInvoiceDTO(inv))
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	inv, err := h.invoices.GetInvoice(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toInvoiceDTO(inv))
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := domain.InvoiceKind(r.URL.Query().Get("type"))
	status := domain.InvoiceStatus(r.URL.Query().Get("status"))

	invoices, err := h.invoices.ListInvoices(r.Context(), kind, status)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list invoices", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]invoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = toInvoiceDTO(&invoices[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

type paymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	paidOn := today()
	if req.Date != "" {
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			RespondAppError(w, ErrInvalidRequest, nil)
			return
		}
		paidOn = d
	}

	inv, err := h.invoices.RecordPayment(r.Context(), id, req.Amount, paidOn)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to record payment", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toInvoiceDTO(inv))
}
