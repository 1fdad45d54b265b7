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

type stubLedgerReader struct {
	debit  decimal.Decimal
	credit decimal.Decimal
}

func (s *stubLedgerReader) Sums(_ context.Context, _ []uuid.UUID, _ domain.Window) (decimal.Decimal, decimal.Decimal, error) {
	return s.debit, s.credit, nil
}

func TestBalanceSignConvention(t *testing.T) {
	// 300 debited, 100 credited against the account set.
	calc := NewBalanceCalculator(&stubLedgerReader{
		debit:  amt("300.00"),
		credit: amt("100.00"),
	})
	ctx := context.Background()
	window := domain.AsOf(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name        string
		accountType domain.AccountType
		want        string
	}{
		{"asset nets debit minus credit", domain.AccountTypeAsset, "200.00"},
		{"expense nets debit minus credit", domain.AccountTypeExpense, "200.00"},
		{"liability nets credit minus debit", domain.AccountTypeLiability, "-200.00"},
		{"equity nets credit minus debit", domain.AccountTypeEquity, "-200.00"},
		{"revenue nets credit minus debit", domain.AccountTypeRevenue, "-200.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := calc.Balance(ctx, tc.accountType, []uuid.UUID{uuid.New()}, window)
			require.NoError(t, err)
			assert.True(t, got.Equal(amt(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestBalanceZeroActivity(t *testing.T) {
	calc := NewBalanceCalculator(&stubLedgerReader{debit: decimal.Zero, credit: decimal.Zero})

	got, err := calc.Balance(context.Background(), domain.AccountTypeAsset, nil, domain.AsOf(time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
