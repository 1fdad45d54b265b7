package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks-io/ledger-api/internal/domain"
	"github.com/finbooks-io/ledger-api/internal/logging"
)

type entryRepo interface {
	Create(ctx context.Context, tx *sql.Tx, entry *domain.Entry) error
	UpdateHeader(ctx context.Context, tx *sql.Tx, entry *domain.Entry) error
	InsertItems(ctx context.Context, tx *sql.Tx, items []domain.LineItem) error
	DeleteItems(ctx context.Context, tx *sql.Tx, entryID uuid.UUID) error
	Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error)
	List(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, int, error)
	ListByReference(ctx context.Context, reference string) ([]domain.Entry, error)
}

type accountChecker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// LedgerService validates and atomically commits journal entries. Every
// mutation runs inside one database transaction; a failed validation or
// insert leaves no partial entry behind.
type LedgerService struct {
	entries  entryRepo
	accounts accountChecker
	audit    auditor
	db       *sql.DB
}

func NewLedgerService(entries entryRepo, accounts accountChecker, audit auditor, db *sql.DB) *LedgerService {
	return &LedgerService{entries: entries, accounts: accounts, audit: audit, db: db}
}

type PostItemParams struct {
	AccountID uuid.UUID
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

type PostEntryParams struct {
	Date        time.Time
	Reference   string
	Description string
	Items       []PostItemParams
}

// Post validates the item set and commits the entry with its items in one
// transaction.
func (s *LedgerService) Post(ctx context.Context, params PostEntryParams) (*domain.Entry, error) {
	if err := s.validateItems(ctx, params.Items); err != nil {
		return nil, fmt.Errorf("Post: %w", err)
	}

	now := time.Now().UTC()
	entryID := uuid.New()
	entry := &domain.Entry{
		ID:          entryID,
		Date:        params.Date,
		Reference:   params.Reference,
		Description: params.Description,
		Status:      domain.EntryStatusPosted,
		Items:       buildItems(entryID, params.Items),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Post: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.entries.Create(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("Post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Post: commit: %w", err)
	}

	debit, credit := entry.Totals()
	logging.FromContext(ctx).Info("entry posted",
		"entry_id", entry.ID, "date", entry.Date.Format("2006-01-02"),
		"items", len(entry.Items), "total_debit", debit, "total_credit", credit)

	s.recordAudit(ctx, entry.ID, "create", entry)
	return entry, nil
}

// Update replaces the entry wholesale: the balance of the new item set is
// checked before any storage is touched, then the old items are deleted,
// the header rewritten, and the new items inserted in one transaction.
// Replacing the whole set keeps the balance invariant without item-level
// diffing.
func (s *LedgerService) Update(ctx context.Context, id uuid.UUID, params PostEntryParams) (*domain.Entry, error) {
	if err := s.validateItems(ctx, params.Items); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	existing, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	entry := &domain.Entry{
		ID:          existing.ID,
		Date:        params.Date,
		Reference:   params.Reference,
		Description: params.Description,
		Status:      existing.Status,
		Items:       buildItems(existing.ID, params.Items),
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Update: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.entries.DeleteItems(ctx, tx, entry.ID); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	if err := s.entries.UpdateHeader(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	if err := s.entries.InsertItems(ctx, tx, entry.Items); err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Update: commit: %w", err)
	}

	s.recordAudit(ctx, entry.ID, "update", entry)
	return entry, nil
}

// Delete removes the entry and all of its items in one transaction.
func (s *LedgerService) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Delete: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.entries.DeleteItems(ctx, tx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if err := s.entries.Delete(ctx, tx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Delete: commit: %w", err)
	}

	s.recordAudit(ctx, id, "delete", entry)
	return nil
}

// DeleteByReference removes every entry carrying the given reference. The
// journal synthesizer calls this before re-synthesizing an invoice's
// journal on edit.
func (s *LedgerService) DeleteByReference(ctx context.Context, reference string) error {
	entries, err := s.entries.ListByReference(ctx, reference)
	if err != nil {
		return fmt.Errorf("DeleteByReference: %w", err)
	}
	for _, e := range entries {
		if err := s.Delete(ctx, e.ID); err != nil {
			return fmt.Errorf("DeleteByReference: %w", err)
		}
	}
	return nil
}

func (s *LedgerService) Get(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return entry, nil
}

func (s *LedgerService) List(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, int, error) {
	entries, total, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return entries, total, nil
}

// validateItems enforces the posting contract: at least one item, no
// negative amounts, all accounts known and active, and debits equal to
// credits within the balance epsilon.
func (s *LedgerService) validateItems(ctx context.Context, items []PostItemParams) error {
	if len(items) == 0 {
		return domain.ErrNoLineItems
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, item := range items {
		if item.Debit.IsNegative() || item.Credit.IsNegative() {
			return domain.ErrNegativeAmount
		}
		totalDebit = totalDebit.Add(item.Debit)
		totalCredit = totalCredit.Add(item.Credit)
	}

	if totalDebit.Sub(totalCredit).Abs().GreaterThan(domain.BalanceEpsilon) {
		return fmt.Errorf("debits %s, credits %s: %w",
			totalDebit.StringFixed(2), totalCredit.StringFixed(2), domain.ErrUnbalancedEntry)
	}

	for _, item := range items {
		account, err := s.accounts.GetByID(ctx, item.AccountID)
		if err != nil {
			return fmt.Errorf("account %s: %w", item.AccountID, err)
		}
		if !account.Active {
			return fmt.Errorf("account %s: %w", account.Code, domain.ErrAccountInactive)
		}
	}
	return nil
}

func buildItems(entryID uuid.UUID, params []PostItemParams) []domain.LineItem {
	items := make([]domain.LineItem, len(params))
	for i, p := range params {
		items[i] = domain.LineItem{
			ID:        uuid.New(),
			EntryID:   entryID,
			AccountID: p.AccountID,
			Position:  i,
			Debit:     p.Debit,
			Credit:    p.Credit,
		}
	}
	return items
}

func (s *LedgerService) recordAudit(ctx context.Context, entryID uuid.UUID, action string, detail any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, "entry", entryID.String(), action, detail); err != nil {
		logging.FromContext(ctx).Error("audit record failed",
			"entity_type", "entry", "entity_id", entryID, "action", action, "error", err)
	}
}
