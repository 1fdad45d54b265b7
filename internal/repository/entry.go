package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/finbooks-io/ledger-api/internal/domain"
)

const entryColumns = `id, entry_date, reference, description, status, created_at, updated_at`

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create inserts the entry header and all of its line items within the
// caller's transaction.
func (r *EntryRepository) Create(ctx context.Context, tx *sql.Tx, entry *domain.Entry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO entries (id, entry_date, reference, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.Date, entry.Reference, entry.Description, entry.Status,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	if err := r.insertItems(ctx, tx, entry.Items); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// UpdateHeader rewrites the entry's header fields within the caller's
// transaction. Line items are replaced separately via DeleteItems +
// InsertItems.
func (r *EntryRepository) UpdateHeader(ctx context.Context, tx *sql.Tx, entry *domain.Entry) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE entries SET entry_date = $1, reference = $2, description = $3, updated_at = $4
		WHERE id = $5`,
		entry.Date, entry.Reference, entry.Description, entry.UpdatedAt, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateHeader: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateHeader: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("UpdateHeader: %w", domain.ErrNotFound)
	}
	return nil
}

// InsertItems adds line items within the caller's transaction.
func (r *EntryRepository) InsertItems(ctx context.Context, tx *sql.Tx, items []domain.LineItem) error {
	if err := r.insertItems(ctx, tx, items); err != nil {
		return fmt.Errorf("InsertItems: %w", err)
	}
	return nil
}

func (r *EntryRepository) insertItems(ctx context.Context, tx *sql.Tx, items []domain.LineItem) error {
	for _, li := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO line_items (id, entry_id, account_id, position, debit, credit)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			li.ID, li.EntryID, li.AccountID, li.Position, li.Debit, li.Credit,
		)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
	}
	return nil
}

// DeleteItems removes every line item of an entry within the caller's
// transaction.
func (r *EntryRepository) DeleteItems(ctx context.Context, tx *sql.Tx, entryID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM line_items WHERE entry_id = $1`, entryID)
	if err != nil {
		return fmt.Errorf("DeleteItems: %w", err)
	}
	return nil
}

// Delete removes the entry header within the caller's transaction. Items
// must be deleted first.
func (r *EntryRepository) Delete(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = $1`, id,
	)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}

	items, err := r.itemsForEntries(ctx, []uuid.UUID{e.ID})
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	e.Items = items[e.ID]
	return e, nil
}

// List returns entries within the filter's date range, newest first, with
// their line items attached.
func (r *EntryRepository) List(ctx context.Context, filter domain.EntryFilter) ([]domain.Entry, int, error) {
	where := `WHERE ($1::date IS NULL OR entry_date >= $1)
		AND ($2::date IS NULL OR entry_date <= $2)`

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries `+where, filter.From, filter.To,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = total + 1
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries `+where+`
		ORDER BY entry_date DESC, created_at DESC LIMIT $3 OFFSET $4`,
		filter.From, filter.To, limit, filter.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}

	if err := r.attachItems(ctx, entries); err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return entries, total, nil
}

// ListByReference returns entries carrying the given reference, with items.
// The journal synthesizer uses this to find previously synthesized journals.
func (r *EntryRepository) ListByReference(ctx context.Context, reference string) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE reference = $1 ORDER BY created_at`, reference,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByReference: %w", err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("ListByReference: %w", err)
	}

	if err := r.attachItems(ctx, entries); err != nil {
		return nil, fmt.Errorf("ListByReference: %w", err)
	}
	return entries, nil
}

// ListTouchingAccounts returns entries dated within [from, to] that have at
// least one line item on one of the given accounts, items attached, ordered
// by date. The cash-flow report walks these to attribute counterparties.
func (r *EntryRepository) ListTouchingAccounts(ctx context.Context, accountIDs []uuid.UUID, window domain.Window) ([]domain.Entry, error) {
	if len(accountIDs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(accountIDs))
	for i, id := range accountIDs {
		ids[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT e.id, e.entry_date, e.reference, e.description, e.status, e.created_at, e.updated_at
		FROM entries e
		JOIN line_items li ON li.entry_id = e.id
		WHERE li.account_id = ANY($1)
		AND ($2::date IS NULL OR e.entry_date >= $2)
		AND e.entry_date <= $3
		ORDER BY e.entry_date, e.created_at`,
		pq.Array(ids), window.From, window.To,
	)
	if err != nil {
		return nil, fmt.Errorf("ListTouchingAccounts: %w", err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("ListTouchingAccounts: %w", err)
	}

	if err := r.attachItems(ctx, entries); err != nil {
		return nil, fmt.Errorf("ListTouchingAccounts: %w", err)
	}
	return entries, nil
}

func (r *EntryRepository) attachItems(ctx context.Context, entries []domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	entryIDs := make([]uuid.UUID, len(entries))
	for i := range entries {
		entryIDs[i] = entries[i].ID
	}
	items, err := r.itemsForEntries(ctx, entryIDs)
	if err != nil {
		return err
	}
	for i := range entries {
		entries[i].Items = items[entries[i].ID]
	}
	return nil
}

func (r *EntryRepository) itemsForEntries(ctx context.Context, entryIDs []uuid.UUID) (map[uuid.UUID][]domain.LineItem, error) {
	ids := make([]string, len(entryIDs))
	for i, id := range entryIDs {
		ids[i] = id.String()
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entry_id, account_id, position, debit, credit FROM line_items
		WHERE entry_id = ANY($1) ORDER BY entry_id, position`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("itemsForEntries: %w", err)
	}
	defer rows.Close()

	byEntry := make(map[uuid.UUID][]domain.LineItem)
	for rows.Next() {
		var li domain.LineItem
		if err := rows.Scan(&li.ID, &li.EntryID, &li.AccountID, &li.Position, &li.Debit, &li.Credit); err != nil {
			return nil, fmt.Errorf("itemsForEntries: scan: %w", err)
		}
		byEntry[li.EntryID] = append(byEntry[li.EntryID], li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("itemsForEntries: rows: %w", err)
	}
	return byEntry, nil
}

func collectEntries(rows *sql.Rows) ([]domain.Entry, error) {
	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return entries, nil
}

func scanEntry(s scanner) (*domain.Entry, error) {
	var e domain.Entry
	err := s.Scan(
		&e.ID, &e.Date, &e.Reference, &e.Description, &e.Status,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
