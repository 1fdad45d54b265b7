package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryStatus string

const (
	EntryStatusPosted EntryStatus = "posted"
)

// BalanceEpsilon is the largest tolerated difference between an entry's
// debit and credit totals. Amounts are tracked to two decimal places, so
// anything beyond a cent is a real imbalance.
var BalanceEpsilon = decimal.NewFromFloat(0.01)

// Entry is a single journal transaction. It owns its line items: items are
// only ever created or removed together with the entry, never edited in
// place.
type Entry struct {
	ID          uuid.UUID
	Date        time.Time
	Reference   string
	Description string
	Status      EntryStatus
	Items       []LineItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LineItem is one debit-or-credit posting against one account within an
// entry. Exactly one of Debit/Credit is expected to be non-zero. Position
// preserves the order items were submitted in; the cash-flow report's
// counterparty attribution depends on it.
type LineItem struct {
	ID        uuid.UUID
	EntryID   uuid.UUID
	AccountID uuid.UUID
	Position  int
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// Totals sums the debit and credit sides of the entry's items.
func (e *Entry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, li := range e.Items {
		debit = debit.Add(li.Debit)
		credit = credit.Add(li.Credit)
	}
	return debit, credit
}

// Balanced reports whether the entry's debit and credit totals agree
// within BalanceEpsilon.
func (e *Entry) Balanced() bool {
	debit, credit := e.Totals()
	return debit.Sub(credit).Abs().LessThanOrEqual(BalanceEpsilon)
}

// EntryFilter narrows entry listings. Nil dates mean unbounded.
type EntryFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
