package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrDuplicateAccountCode = errors.New("account code already exists")
	ErrInvalidAccountType   = errors.New("invalid account type")
	ErrAccountInUse         = errors.New("account has line items and cannot be deleted")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrUnbalancedEntry      = errors.New("entry debits and credits do not balance")
	ErrNoLineItems          = errors.New("entry must have at least one line item")
	ErrNegativeAmount       = errors.New("debit and credit amounts must not be negative")
	ErrInvalidInvoiceKind   = errors.New("invalid invoice kind")
	ErrDuplicateInvoice     = errors.New("invoice number already exists")
	ErrInvoiceNotOpen       = errors.New("invoice is not open")
	ErrOverpayment          = errors.New("payment exceeds outstanding balance")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrInvalidRequest       = errors.New("invalid request")
)
