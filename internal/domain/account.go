package domain

import (
	"time"

	"github.com/google/uuid"
)

type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// NormalBalance is the side on which an account type naturally accumulates.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "debit"
	CreditNormal NormalBalance = "credit"
)

// Normal returns the sign convention for an account type: assets and
// expenses grow with debits, everything else with credits.
func (t AccountType) Normal() NormalBalance {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

type Account struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Type      AccountType
	SubType   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountFilter narrows account listings. Zero values mean no filtering.
type AccountFilter struct {
	Type   AccountType
	Search string // substring match on code or name
	Limit  int
	Offset int
}
