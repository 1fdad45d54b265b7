package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks-io/ledger-api/internal/domain"
)

func TestAgingBucket(t *testing.T) {
	tests := []struct {
		name    string
		overdue int
		want    string
	}{
		{"due in future", -10, BucketCurrent},
		{"due today", 0, BucketCurrent},
		{"one day overdue", 1, BucketZeroTo30},
		{"thirty days", 30, BucketZeroTo30},
		{"thirty-one days", 31, Bucket31To60},
		{"sixty days", 60, Bucket31To60},
		{"sixty-one days", 61, Bucket61To90},
		{"ninety days", 90, Bucket61To90},
		{"ninety-one days", 91, BucketOver90},
		{"far overdue", 400, BucketOver90},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, agingBucket(tc.overdue))
		})
	}
}

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		asOf time.Time
		want int
	}{
		{"same day", time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC), 0},
		{"next day", time.Date(2026, 3, 16, 0, 1, 0, 0, time.UTC), 1},
		{"before due", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), -5},
		{"month later", time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), 31},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, daysOverdue(due, tc.asOf))
		})
	}
}

type stubInvoiceReader struct {
	invoices []domain.Invoice
}

func (s *stubInvoiceReader) List(_ context.Context, kind domain.InvoiceKind, status domain.InvoiceStatus) ([]domain.Invoice, error) {
	var out []domain.Invoice
	for _, inv := range s.invoices {
		if inv.Kind == kind && inv.Status == status {
			out = append(out, inv)
		}
	}
	return out, nil
}

func openInvoice(number string, due time.Time, balance string) domain.Invoice {
	amount := decimal.RequireFromString(balance)
	return domain.Invoice{
		ID:      uuid.New(),
		Number:  number,
		Kind:    domain.InvoiceKindReceivable,
		Party:   "Acme Corp",
		DueDate: due,
		Total:   amount,
		Balance: amount,
		Status:  domain.InvoiceStatusOpen,
	}
}

func TestAgingReport(t *testing.T) {
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	svc := NewAgingService(&stubInvoiceReader{invoices: []domain.Invoice{
		openInvoice("INV-001", asOf.Add(14*day), "250.00"),  // not yet due
		openInvoice("INV-002", asOf.Add(-15*day), "100.00"), // 15 days overdue
		openInvoice("INV-003", asOf.Add(-45*day), "300.00"), // 45 days
		openInvoice("INV-004", asOf.Add(-90*day), "50.00"),  // exactly 90
		openInvoice("INV-005", asOf.Add(-91*day), "75.00"),  // tips into 90+
	}})

	report, err := svc.Report(context.Background(), domain.InvoiceKindReceivable, asOf)
	require.NoError(t, err)

	assert.Len(t, report.Lines, 5)
	assert.True(t, report.Buckets[BucketCurrent].Equal(decimal.RequireFromString("250.00")))
	assert.True(t, report.Buckets[BucketZeroTo30].Equal(decimal.RequireFromString("100.00")))
	assert.True(t, report.Buckets[Bucket31To60].Equal(decimal.RequireFromString("300.00")))
	assert.True(t, report.Buckets[Bucket61To90].Equal(decimal.RequireFromString("50.00")))
	assert.True(t, report.Buckets[BucketOver90].Equal(decimal.RequireFromString("75.00")))
	assert.True(t, report.Total.Equal(decimal.RequireFromString("775.00")))

	byNumber := make(map[string]AgingLine)
	for _, l := range report.Lines {
		byNumber[l.Number] = l
	}
	assert.Equal(t, 0, byNumber["INV-001"].AgeDays)
	assert.Equal(t, BucketCurrent, byNumber["INV-001"].Bucket)
	assert.Equal(t, 90, byNumber["INV-004"].AgeDays)
	assert.Equal(t, Bucket61To90, byNumber["INV-004"].Bucket)
	assert.Equal(t, 91, byNumber["INV-005"].AgeDays)
}

func TestAgingReportRejectsUnknownKind(t *testing.T) {
	svc := NewAgingService(&stubInvoiceReader{})

	_, err := svc.Report(context.Background(), domain.InvoiceKind("loan"), time.Now())
	require.ErrorIs(t, err, domain.ErrInvalidInvoiceKind)
}
