package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks-io/ledger-api/internal/domain"
)

// SynthesizerAccounts names the chart codes the synthesizer posts against.
type SynthesizerAccounts struct {
	Cash               string
	AccountsReceivable string
	AccountsPayable    string
	Revenue            string
	Expense            string
}

type accountResolver interface {
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
}

// JournalSynthesizer turns finalized invoices and their payments into
// balanced journal entries. It is the only writer of "invoice:*" and
// "payment:*" references, so it can safely delete and re-post them when an
// invoice is edited.
type JournalSynthesizer struct {
	ledger   *LedgerService
	accounts accountResolver
	codes    SynthesizerAccounts
}

func NewJournalSynthesizer(ledger *LedgerService, accounts accountResolver, codes SynthesizerAccounts) *JournalSynthesizer {
	return &JournalSynthesizer{ledger: ledger, accounts: accounts, codes: codes}
}

// InvoiceReference is the journal reference for an invoice's entry.
func InvoiceReference(number string) string {
	return "invoice:" + number
}

// PaymentReference is the journal reference for payments against an invoice.
func PaymentReference(number string) string {
	return "payment:" + number
}

// PostInvoiceJournal posts the accrual entry for a finalized invoice:
// receivables debit AR and credit revenue, payables debit expense and
// credit AP.
func (s *JournalSynthesizer) PostInvoiceJournal(ctx context.Context, inv *domain.Invoice) (*domain.Entry, error) {
	var debitCode, creditCode string
	switch inv.Kind {
	case domain.InvoiceKindReceivable:
		debitCode, creditCode = s.codes.AccountsReceivable, s.codes.Revenue
	case domain.InvoiceKindPayable:
		debitCode, creditCode = s.codes.Expense, s.codes.AccountsPayable
	default:
		return nil, fmt.Errorf("PostInvoiceJournal: %w", domain.ErrInvalidInvoiceKind)
	}

	entry, err := s.postPair(ctx, pairParams{
		date:        inv.IssueDate,
		reference:   InvoiceReference(inv.Number),
		description: fmt.Sprintf("Invoice %s - %s", inv.Number, inv.Party),
		debitCode:   debitCode,
		creditCode:  creditCode,
		amount:      inv.Total,
	})
	if err != nil {
		return nil, fmt.Errorf("PostInvoiceJournal: %w", err)
	}
	return entry, nil
}

// PostPaymentJournal posts the settlement entry for a payment against an
// invoice: receivables debit cash and credit AR, payables debit AP and
// credit cash.
func (s *JournalSynthesizer) PostPaymentJournal(ctx context.Context, inv *domain.Invoice, amount decimal.Decimal, paidOn time.Time) (*domain.Entry, error) {
	var debitCode, creditCode string
	switch inv.Kind {
	case domain.InvoiceKindReceivable:
		debitCode, creditCode = s.codes.Cash, s.codes.AccountsReceivable
	case domain.InvoiceKindPayable:
		debitCode, creditCode = s.codes.AccountsPayable, s.codes.Cash
	default:
		return nil, fmt.Errorf("PostPaymentJournal: %w", domain.ErrInvalidInvoiceKind)
	}

	entry, err := s.postPair(ctx, pairParams{
		date:        paidOn,
		reference:   PaymentReference(inv.Number),
		description: fmt.Sprintf("Payment on %s - %s", inv.Number, inv.Party),
		debitCode:   debitCode,
		creditCode:  creditCode,
		amount:      amount,
	})
	if err != nil {
		return nil, fmt.Errorf("PostPaymentJournal: %w", err)
	}
	return entry, nil
}

// DeleteRelatedJournal removes every entry previously synthesized under
// the given reference, so an edited invoice can be re-synthesized cleanly.
func (s *JournalSynthesizer) DeleteRelatedJournal(ctx context.Context, reference string) error {
	if err := s.ledger.DeleteByReference(ctx, reference); err != nil {
		return fmt.Errorf("DeleteRelatedJournal: %w", err)
	}
	return nil
}

type pairParams struct {
	date        time.Time
	reference   string
	description string
	debitCode   string
	creditCode  string
	amount      decimal.Decimal
}

func (s *JournalSynthesizer) postPair(ctx context.Context, p pairParams) (*domain.Entry, error) {
	debitAccount, err := s.accounts.GetByCode(ctx, p.debitCode)
	if err != nil {
		return nil, fmt.Errorf("resolve debit account %q: %w", p.debitCode, err)
	}
	creditAccount, err := s.accounts.GetByCode(ctx, p.creditCode)
	if err != nil {
		return nil, fmt.Errorf("resolve credit account %q: %w", p.creditCode, err)
	}

	return s.ledger.Post(ctx, PostEntryParams{
		Date:        p.date,
		Reference:   p.reference,
		Description: p.description,
		Items: []PostItemParams{
			{AccountID: debitAccount.ID, Debit: p.amount, Credit: decimal.Zero},
			{AccountID: creditAccount.ID, Debit: decimal.Zero, Credit: p.amount},
		},
	})
}
