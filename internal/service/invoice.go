package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks-io/ledger-api/internal/domain"
	"github.com/finbooks-io/ledger-api/internal/logging"
)

type invoiceRepo interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*domain.Invoice, error)
	List(ctx context.Context, kind domain.InvoiceKind, status domain.InvoiceStatus) ([]domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
}

// InvoiceService manages receivables and payables and keeps their journal
// entries in sync through the synthesizer.
type InvoiceService struct {
	invoices invoiceRepo
	synth    *JournalSynthesizer
}

func NewInvoiceService(invoices invoiceRepo, synth *JournalSynthesizer) *InvoiceService {
	return &InvoiceService{invoices: invoices, synth: synth}
}

type CreateInvoiceParams struct {
	Number    string
	Kind      domain.InvoiceKind
	Party     string
	IssueDate time.Time
	DueDate   time.Time
	Total     decimal.Decimal
}

func (s *InvoiceService) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (*domain.Invoice, error) {
	if !params.Kind.IsValid() {
		return nil, fmt.Errorf("CreateInvoice: %w", domain.ErrInvalidInvoiceKind)
	}
	if !params.Total.IsPositive() {
		return nil, fmt.Errorf("CreateInvoice: %w", domain.ErrInvalidAmount)
	}

	_, err := s.invoices.GetByNumber(ctx, params.Number)
	if err == nil {
		return nil, fmt.Errorf("CreateInvoice: %w", domain.ErrDuplicateInvoice)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("CreateInvoice: check existing: %w", err)
	}

	now := time.Now().UTC()
	inv := &domain.Invoice{
		ID:        uuid.New(),
		Number:    params.Number,
		Kind:      params.Kind,
		Party:     params.Party,
		IssueDate: params.IssueDate,
		DueDate:   params.DueDate,
		Total:     params.Total,
		Balance:   params.Total,
		Status:    domain.InvoiceStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("CreateInvoice: %w", err)
	}

	if _, err := s.synth.PostInvoiceJournal(ctx, inv); err != nil {
		return nil, fmt.Errorf("CreateInvoice: synthesize journal: %w", err)
	}

	logging.FromContext(ctx).Info("invoice created",
		"invoice_id", inv.ID, "number", inv.Number, "kind", inv.Kind, "total", inv.Total)
	return inv, nil
}

// RecordPayment reduces the invoice's outstanding balance and posts the
// matching settlement journal. A payment that clears the balance marks the
// invoice paid.
func (s *InvoiceService) RecordPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal, paidOn time.Time) (*domain.Invoice, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("RecordPayment: %w", domain.ErrInvalidAmount)
	}

	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("RecordPayment: %w", err)
	}
	if inv.Status != domain.InvoiceStatusOpen {
		return nil, fmt.Errorf("RecordPayment: %w", domain.ErrInvoiceNotOpen)
	}
	if amount.GreaterThan(inv.Balance) {
		return nil, fmt.Errorf("RecordPayment: %w", domain.ErrOverpayment)
	}

	inv.Balance = inv.Balance.Sub(amount)
	if inv.Balance.IsZero() {
		inv.Status = domain.InvoiceStatusPaid
	}
	inv.UpdatedAt = time.Now().UTC()

	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("RecordPayment: %w", err)
	}

	if _, err := s.synth.PostPaymentJournal(ctx, inv, amount, paidOn); err != nil {
		return nil, fmt.Errorf("RecordPayment: synthesize journal: %w", err)
	}

	return inv, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetInvoice: %w", err)
	}
	return inv, nil
}

func (s *InvoiceService) ListInvoices(ctx context.Context, kind domain.InvoiceKind, status domain.InvoiceStatus) ([]domain.Invoice, error) {
	if kind != "" && !kind.IsValid() {
		return nil, fmt.Errorf("ListInvoices: %w", domain.ErrInvalidInvoiceKind)
	}
	invoices, err := s.invoices.List(ctx, kind, status)
	if err != nil {
		return nil, fmt.Errorf("ListInvoices: %w", err)
	}
	return invoices, nil
}
