package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks-io/ledger-api/internal/domain"
	"github.com/finbooks-io/ledger-api/internal/repository"
	"github.com/finbooks-io/ledger-api/internal/testutil"
)

var testChartCodes = SynthesizerAccounts{
	Cash:               "1000",
	AccountsReceivable: "1100",
	AccountsPayable:    "2100",
	Revenue:            "4000",
	Expense:            "5000",
}

func newInvoiceService(db *sql.DB) (*InvoiceService, *LedgerService) {
	ledger := newLedgerService(db)
	synth := NewJournalSynthesizer(ledger, repository.NewAccountRepository(db), testChartCodes)
	return NewInvoiceService(repository.NewInvoiceRepository(db), synth), ledger
}

func receivableParams(t *testing.T, number, total string) CreateInvoiceParams {
	t.Helper()
	return CreateInvoiceParams{
		Number:    number,
		Kind:      domain.InvoiceKindReceivable,
		Party:     "Acme Corp",
		IssueDate: testutil.Date(t, "2026-02-01"),
		DueDate:   testutil.Date(t, "2026-03-01"),
		Total:     amt(total),
	}
}

func TestCreateReceivableSynthesizesJournal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()
	svc, _ := newInvoiceService(db)

	inv, err := svc.CreateInvoice(ctx, receivableParams(t, "INV-001", "500.00"))
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusOpen, inv.Status)
	assert.True(t, inv.Balance.Equal(amt("500.00")))

	entries, err := repository.NewEntryRepository(db).ListByReference(ctx, InvoiceReference("INV-001"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Items, 2)

	// Accrual entry: debit AR, credit revenue.
	assert.Equal(t, testutil.ARID, entries[0].Items[0].AccountID)
	assert.True(t, entries[0].Items[0].Debit.Equal(amt("500.00")))
	assert.Equal(t, testutil.RevenueID, entries[0].Items[1].AccountID)
	assert.True(t, entries[0].Items[1].Credit.Equal(amt("500.00")))
}

func TestCreatePayableSynthesizesJournal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()
	svc, _ := newInvoiceService(db)

	_, err := svc.CreateInvoice(ctx, CreateInvoiceParams{
		Number:    "BILL-001",
		Kind:      domain.InvoiceKindPayable,
		Party:     "Office Landlord",
		IssueDate: testutil.Date(t, "2026-02-01"),
		DueDate:   testutil.Date(t, "2026-03-01"),
		Total:     amt("800.00"),
	})
	require.NoError(t, err)

	entries, err := repository.NewEntryRepository(db).ListByReference(ctx, InvoiceReference("BILL-001"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Accrual entry: debit expense, credit AP.
	assert.Equal(t, testutil.ExpenseID, entries[0].Items[0].AccountID)
	assert.True(t, entries[0].Items[0].Debit.Equal(amt("800.00")))
	assert.Equal(t, testutil.APID, entries[0].Items[1].AccountID)
}

func TestCreateInvoiceValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()
	svc, _ := newInvoiceService(db)

	_, err := svc.CreateInvoice(ctx, CreateInvoiceParams{
		Number: "INV-X", Kind: domain.InvoiceKind("loan"), Total: amt("100.00"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInvoiceKind)

	_, err = svc.CreateInvoice(ctx, receivableParams(t, "INV-X", "0"))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.CreateInvoice(ctx, receivableParams(t, "INV-001", "100.00"))
	require.NoError(t, err)
	_, err = svc.CreateInvoice(ctx, receivableParams(t, "INV-001", "200.00"))
	require.ErrorIs(t, err, domain.ErrDuplicateInvoice)
}

func TestRecordPayment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()
	svc, _ := newInvoiceService(db)

	inv, err := svc.CreateInvoice(ctx, receivableParams(t, "INV-001", "500.00"))
	require.NoError(t, err)

	paidOn := testutil.Date(t, "2026-02-15")
	updated, err := svc.RecordPayment(ctx, inv.ID, amt("200.00"), paidOn)
	require.NoError(t, err)
	assert.True(t, updated.Balance.Equal(amt("300.00")))
	assert.Equal(t, domain.InvoiceStatusOpen, updated.Status)

	// Settlement entry: debit cash, credit AR, dated the payment date.
	entries, err := repository.NewEntryRepository(db).ListByReference(ctx, PaymentReference("INV-001"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2026-02-15", entries[0].Date.Format("2006-01-02"))
	assert.Equal(t, testutil.CashID, entries[0].Items[0].AccountID)
	assert.True(t, entries[0].Items[0].Debit.Equal(amt("200.00")))
	assert.Equal(t, testutil.ARID, entries[0].Items[1].AccountID)

	// Paying the remainder closes the invoice.
	updated, err = svc.RecordPayment(ctx, inv.ID, amt("300.00"), paidOn)
	require.NoError(t, err)
	assert.True(t, updated.Balance.IsZero())
	assert.Equal(t, domain.InvoiceStatusPaid, updated.Status)

	// A paid invoice takes no further payments.
	_, err = svc.RecordPayment(ctx, inv.ID, amt("1.00"), paidOn)
	require.ErrorIs(t, err, domain.ErrInvoiceNotOpen)
}

func TestRecordPaymentRejectsOverpayment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()
	svc, _ := newInvoiceService(db)

	inv, err := svc.CreateInvoice(ctx, receivableParams(t, "INV-001", "100.00"))
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, inv.ID, amt("100.01"), testutil.Date(t, "2026-02-15"))
	require.ErrorIs(t, err, domain.ErrOverpayment)

	_, err = svc.RecordPayment(ctx, inv.ID, amt("-5.00"), testutil.Date(t, "2026-02-15"))
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestDeleteRelatedJournal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()
	ledger := newLedgerService(db)
	synth := NewJournalSynthesizer(ledger, repository.NewAccountRepository(db), testChartCodes)
	svc := NewInvoiceService(repository.NewInvoiceRepository(db), synth)

	inv, err := svc.CreateInvoice(ctx, receivableParams(t, "INV-001", "500.00"))
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, inv.ID, amt("500.00"), testutil.Date(t, "2026-02-15"))
	require.NoError(t, err)

	require.NoError(t, synth.DeleteRelatedJournal(ctx, InvoiceReference("INV-001")))

	entryRepo := repository.NewEntryRepository(db)
	accrual, err := entryRepo.ListByReference(ctx, InvoiceReference("INV-001"))
	require.NoError(t, err)
	assert.Empty(t, accrual)

	// Payment journals live under their own reference and survive.
	payments, err := entryRepo.ListByReference(ctx, PaymentReference("INV-001"))
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestInvoiceJournalFeedsAging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()
	svc, _ := newInvoiceService(db)

	inv, err := svc.CreateInvoice(ctx, receivableParams(t, "INV-001", "500.00"))
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, inv.ID, amt("150.00"), testutil.Date(t, "2026-02-10"))
	require.NoError(t, err)

	aging := NewAgingService(repository.NewInvoiceRepository(db))
	report, err := aging.Report(ctx, domain.InvoiceKindReceivable, testutil.Date(t, "2026-04-15"))
	require.NoError(t, err)

	// Due 2026-03-01, 45 days overdue on 2026-04-15, outstanding 350.
	require.Len(t, report.Lines, 1)
	assert.Equal(t, Bucket31To60, report.Lines[0].Bucket)
	assert.Equal(t, 45, report.Lines[0].AgeDays)
	assert.True(t, report.Total.Equal(amt("350.00")))
}
