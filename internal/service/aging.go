package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks-io/ledger-api/internal/domain"
)

type invoiceReader interface {
	List(ctx context.Context, kind domain.InvoiceKind, status domain.InvoiceStatus) ([]domain.Invoice, error)
}

// Aging bucket labels, from not-yet-due to most overdue.
const (
	BucketCurrent  = "current"
	BucketZeroTo30 = "0-30"
	Bucket31To60   = "31-60"
	Bucket61To90   = "61-90"
	BucketOver90   = "90+"
)

// AgingBuckets is the display order of the buckets.
var AgingBuckets = []string{BucketCurrent, BucketZeroTo30, Bucket31To60, Bucket61To90, BucketOver90}

type AgingLine struct {
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Number    string          `json:"number"`
	Party     string          `json:"party"`
	DueDate   time.Time       `json:"due_date"`
	Balance   decimal.Decimal `json:"balance"`
	AgeDays   int             `json:"age_days"`
	Bucket    string          `json:"bucket"`
}

type AgingReport struct {
	AsOf    time.Time                  `json:"as_of"`
	Kind    domain.InvoiceKind         `json:"kind"`
	Lines   []AgingLine                `json:"lines"`
	Buckets map[string]decimal.Decimal `json:"buckets"`
	Total   decimal.Decimal            `json:"total"`
}

// AgingService buckets open receivables and payables by days overdue. It
// works off invoice records alone, never the ledger.
type AgingService struct {
	invoices invoiceReader
}

func NewAgingService(invoices invoiceReader) *AgingService {
	return &AgingService{invoices: invoices}
}

func (s *AgingService) Report(ctx context.Context, kind domain.InvoiceKind, asOf time.Time) (*AgingReport, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("Report: %w", domain.ErrInvalidInvoiceKind)
	}

	open, err := s.invoices.List(ctx, kind, domain.InvoiceStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("Report: %w", err)
	}

	report := &AgingReport{
		AsOf:    asOf,
		Kind:    kind,
		Lines:   []AgingLine{},
		Buckets: make(map[string]decimal.Decimal, len(AgingBuckets)),
		Total:   decimal.Zero,
	}
	for _, bucket := range AgingBuckets {
		report.Buckets[bucket] = decimal.Zero
	}

	for _, inv := range open {
		overdue := daysOverdue(inv.DueDate, asOf)
		bucket := agingBucket(overdue)

		age := overdue
		if age < 0 {
			age = 0
		}

		report.Lines = append(report.Lines, AgingLine{
			InvoiceID: inv.ID,
			Number:    inv.Number,
			Party:     inv.Party,
			DueDate:   inv.DueDate,
			Balance:   inv.Balance,
			AgeDays:   age,
			Bucket:    bucket,
		})
		report.Buckets[bucket] = report.Buckets[bucket].Add(inv.Balance)
		report.Total = report.Total.Add(inv.Balance)
	}
	return report, nil
}

// daysOverdue counts whole days from the due date to asOf; negative means
// not yet due. Dates are compared at day granularity.
func daysOverdue(dueDate, asOf time.Time) int {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	at := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return int(at.Sub(due).Hours() / 24)
}

// agingBucket assigns a bucket with strict lower bounds checked from the
// oldest down: exactly 90 days overdue is still "61-90", 91 tips into
// "90+".
func agingBucket(overdue int) string {
	switch {
	case overdue > 90:
		return BucketOver90
	case overdue > 60:
		return Bucket61To90
	case overdue > 30:
		return Bucket31To60
	case overdue > 0:
		return BucketZeroTo30
	default:
		return BucketCurrent
	}
}
