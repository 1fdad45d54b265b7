package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks-io/ledger-api/internal/domain"
)

var (
	CashID    = uuid.MustParse("00000000-0000-0000-0001-000000000001")
	ARID      = uuid.MustParse("00000000-0000-0000-0001-000000000002")
	APID      = uuid.MustParse("00000000-0000-0000-0002-000000000001")
	EquityID  = uuid.MustParse("00000000-0000-0000-0003-000000000001")
	RevenueID = uuid.MustParse("00000000-0000-0000-0004-000000000001")
	ExpenseID = uuid.MustParse("00000000-0000-0000-0005-000000000001")
)

// SeedChart inserts a minimal chart of accounts covering every account
// type, matching the default synthesizer codes.
func SeedChart(t *testing.T, db *sql.DB) {
	t.Helper()

	chart := []struct {
		id      uuid.UUID
		code    string
		name    string
		accType string
		subType string
	}{
		{CashID, "1000", "Cash", "asset", "cash"},
		{ARID, "1100", "Accounts Receivable", "asset", ""},
		{APID, "2100", "Accounts Payable", "liability", ""},
		{EquityID, "3000", "Owner's Equity", "equity", ""},
		{RevenueID, "4000", "Sales Revenue", "revenue", ""},
		{ExpenseID, "5000", "Operating Expenses", "expense", ""},
	}

	for _, a := range chart {
		_, err := db.Exec(
			`INSERT INTO accounts (id, code, name, type, sub_type, active)
			 VALUES ($1, $2, $3, $4, $5, true)
			 ON CONFLICT (id) DO NOTHING`,
			a.id, a.code, a.name, a.accType, a.subType,
		)
		if err != nil {
			t.Fatalf("seed account %s: %v", a.code, err)
		}
	}
}

func SeedAccount(t *testing.T, db *sql.DB, code, name string, accType domain.AccountType) *domain.Account {
	t.Helper()

	a := &domain.Account{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Type:      accType,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, code, name, type, sub_type, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.Code, a.Name, a.Type, a.SubType, a.Active, a.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s: %v", code, err)
	}
	return a
}

// SeedEntry inserts a two-item journal entry directly, bypassing the
// service layer: a debit against debitID and a matching credit against
// creditID.
func SeedEntry(t *testing.T, db *sql.DB, date time.Time, reference string, debitID, creditID uuid.UUID, amount decimal.Decimal) uuid.UUID {
	t.Helper()

	entryID := uuid.New()
	_, err := db.Exec(
		`INSERT INTO entries (id, entry_date, reference, description, status)
		 VALUES ($1, $2, $3, $4, 'posted')`,
		entryID, date, reference, "seeded entry",
	)
	if err != nil {
		t.Fatalf("seed entry: %v", err)
	}

	items := []struct {
		accountID uuid.UUID
		debit     decimal.Decimal
		credit    decimal.Decimal
	}{
		{debitID, amount, decimal.Zero},
		{creditID, decimal.Zero, amount},
	}
	for i, li := range items {
		_, err := db.Exec(
			`INSERT INTO line_items (id, entry_id, account_id, position, debit, credit)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), entryID, li.accountID, i, li.debit, li.credit,
		)
		if err != nil {
			t.Fatalf("seed line item: %v", err)
		}
	}
	return entryID
}

func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}
