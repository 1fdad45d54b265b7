package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks-io/ledger-api/internal/domain"
	"github.com/finbooks-io/ledger-api/internal/repository"
	"github.com/finbooks-io/ledger-api/internal/testutil"
)

func newChartService(db *sql.DB) *ChartService {
	return NewChartService(repository.NewAccountRepository(db), repository.NewAuditRepository(db))
}

func TestCreateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := newChartService(db)

	account, err := svc.CreateAccount(ctx, CreateAccountParams{
		Code: "1500",
		Name: "Equipment",
		Type: domain.AccountTypeAsset,
	})
	require.NoError(t, err)
	assert.True(t, account.Active, "accounts default to active")

	stored, err := svc.GetAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "1500", stored.Code)
	assert.Equal(t, domain.AccountTypeAsset, stored.Type)
}

func TestCreateAccountRejectsDuplicateCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := newChartService(db)

	_, err := svc.CreateAccount(ctx, CreateAccountParams{
		Code: "1500", Name: "Equipment", Type: domain.AccountTypeAsset,
	})
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, CreateAccountParams{
		Code: "1500", Name: "Machinery", Type: domain.AccountTypeAsset,
	})
	require.ErrorIs(t, err, domain.ErrDuplicateAccountCode)
}

func TestCreateAccountRejectsUnknownType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newChartService(db)

	_, err := svc.CreateAccount(context.Background(), CreateAccountParams{
		Code: "9000", Name: "Mystery", Type: domain.AccountType("contra"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidAccountType)
}

func TestUpdateAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()
	svc := newChartService(db)

	name := "Cash and Equivalents"
	inactive := false
	updated, err := svc.UpdateAccount(ctx, testutil.CashID, UpdateAccountParams{
		Name:   &name,
		Active: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.False(t, updated.Active)
	assert.Equal(t, "1000", updated.Code, "unset fields keep their values")
}

func TestUpdateAccountRejectsTakenCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	svc := newChartService(db)

	code := "1100" // already Accounts Receivable
	_, err := svc.UpdateAccount(context.Background(), testutil.CashID, UpdateAccountParams{Code: &code})
	require.ErrorIs(t, err, domain.ErrDuplicateAccountCode)
}

func TestDeleteAccountGuardsHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()
	svc := newChartService(db)

	testutil.SeedEntry(t, db, testutil.Date(t, "2026-01-15"), "sale-001",
		testutil.CashID, testutil.RevenueID, amt("100.00"))

	err := svc.DeleteAccount(ctx, testutil.CashID)
	require.ErrorIs(t, err, domain.ErrAccountInUse)

	// An account with no postings deletes cleanly.
	require.NoError(t, svc.DeleteAccount(ctx, testutil.EquityID))
	_, err = svc.GetAccount(ctx, testutil.EquityID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteAccountNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newChartService(db)

	err := svc.DeleteAccount(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()
	svc := newChartService(db)

	accounts, total, err := svc.ListAccounts(ctx, domain.AccountFilter{})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, accounts, 6)
	assert.Equal(t, "1000", accounts[0].Code, "ordered by code")

	assets, total, err := svc.ListAccounts(ctx, domain.AccountFilter{Type: domain.AccountTypeAsset})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, a := range assets {
		assert.Equal(t, domain.AccountTypeAsset, a.Type)
	}

	found, total, err := svc.ListAccounts(ctx, domain.AccountFilter{Search: "receiv"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, "1100", found[0].Code)

	page, total, err := svc.ListAccounts(ctx, domain.AccountFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, page, 2)
	assert.Equal(t, "2100", page[0].Code)
}
