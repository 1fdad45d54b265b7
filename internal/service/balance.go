package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks-io/ledger-api/internal/domain"
)

type ledgerReader interface {
	Sums(ctx context.Context, accountIDs []uuid.UUID, window domain.Window) (debit, credit decimal.Decimal, err error)
}

// BalanceCalculator is the one aggregation primitive the reports are built
// on. Balances are never stored; every call recomputes from line items so
// the ledger stays the single source of truth.
//
// The caller declares the account type of the id set it passes in, and the
// sign convention is applied for that declared type. Mixing account types
// in one call produces a meaningless number, not an error: callers must
// partition by type first.
type BalanceCalculator struct {
	ledger ledgerReader
}

func NewBalanceCalculator(ledger ledgerReader) *BalanceCalculator {
	return &BalanceCalculator{ledger: ledger}
}

// Balance returns the net balance of the account set over the window,
// signed by the declared type's convention: debit − credit for
// debit-normal types, credit − debit for credit-normal. Zero activity
// yields zero.
func (c *BalanceCalculator) Balance(ctx context.Context, accountType domain.AccountType, accountIDs []uuid.UUID, window domain.Window) (decimal.Decimal, error) {
	debit, credit, err := c.ledger.Sums(ctx, accountIDs, window)
	if err != nil {
		return decimal.Zero, fmt.Errorf("Balance: %w", err)
	}

	if accountType.Normal() == domain.DebitNormal {
		return debit.Sub(credit), nil
	}
	return credit.Sub(debit), nil
}

// Sums exposes the raw debit and credit totals for the account set over
// the window. The trial balance uses this directly so it can apply one
// uniform debit − credit formula across all types and omit accounts with
// no activity at all.
func (c *BalanceCalculator) Sums(ctx context.Context, accountIDs []uuid.UUID, window domain.Window) (debit, credit decimal.Decimal, err error) {
	debit, credit, err = c.ledger.Sums(ctx, accountIDs, window)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("Sums: %w", err)
	}
	return debit, credit, nil
}
