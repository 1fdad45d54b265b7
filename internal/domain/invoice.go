package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceKind string

const (
	InvoiceKindReceivable InvoiceKind = "receivable"
	InvoiceKindPayable    InvoiceKind = "payable"
)

func (k InvoiceKind) IsValid() bool {
	return k == InvoiceKindReceivable || k == InvoiceKindPayable
}

type InvoiceStatus string

const (
	InvoiceStatusOpen InvoiceStatus = "open"
	InvoiceStatusPaid InvoiceStatus = "paid"
	InvoiceStatusVoid InvoiceStatus = "void"
)

// Invoice is a receivable (customer invoice) or payable (vendor bill).
// Balance is the outstanding amount still owed; the aging report works off
// Balance and DueDate alone.
type Invoice struct {
	ID        uuid.UUID
	Number    string
	Kind      InvoiceKind
	Party     string
	IssueDate time.Time
	DueDate   time.Time
	Total     decimal.Decimal
	Balance   decimal.Decimal
	Status    InvoiceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
