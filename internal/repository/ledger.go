package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/finbooks-io/ledger-api/internal/domain"
)

// LedgerRepository answers aggregate queries over line items. It never
// mutates; posting goes through EntryRepository.
type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Sums returns the total debit and credit amounts across all line items
// whose account is in accountIDs and whose entry date falls inside the
// window. No matching rows yields zero sums, not an error.
func (r *LedgerRepository) Sums(ctx context.Context, accountIDs []uuid.UUID, window domain.Window) (debit, credit decimal.Decimal, err error) {
	if len(accountIDs) == 0 {
		return decimal.Zero, decimal.Zero, nil
	}

	ids := make([]string, len(accountIDs))
	for i, id := range accountIDs {
		ids[i] = id.String()
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(li.debit), 0), COALESCE(SUM(li.credit), 0)
		FROM line_items li
		JOIN entries e ON e.id = li.entry_id
		WHERE li.account_id = ANY($1)
		AND ($2::date IS NULL OR e.entry_date >= $2)
		AND e.entry_date <= $3`,
		pq.Array(ids), window.From, window.To,
	).Scan(&debit, &credit)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("Sums: %w", err)
	}
	return debit, credit, nil
}
