package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbooks-io/ledger-api/internal/domain"
	"github.com/finbooks-io/ledger-api/internal/repository"
	"github.com/finbooks-io/ledger-api/internal/testutil"
)

func TestAccountChangesAreAudited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	svc := newChartService(db)
	auditRepo := repository.NewAuditRepository(db)

	account, err := svc.CreateAccount(ctx, CreateAccountParams{
		Code: "1500", Name: "Equipment", Type: domain.AccountTypeAsset,
	})
	require.NoError(t, err)

	name := "Machinery"
	_, err = svc.UpdateAccount(ctx, account.ID, UpdateAccountParams{Name: &name})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, account.ID))

	logs, err := auditRepo.ListByEntity(ctx, "account", account.ID.String())
	require.NoError(t, err)
	require.Len(t, logs, 3)

	actions := make(map[string]int)
	for _, l := range logs {
		actions[l.Action]++
		assert.Equal(t, "account", l.EntityType)
		assert.NotEmpty(t, l.Detail, "audit rows carry the entity snapshot")
	}
	assert.Equal(t, map[string]int{"create": 1, "update": 1, "delete": 1}, actions)
}

func TestEntryLifecycleIsAudited(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()
	svc := newLedgerService(db)
	auditRepo := repository.NewAuditRepository(db)

	entry, err := svc.Post(ctx, PostEntryParams{
		Date: testutil.Date(t, "2026-01-15"),
		Items: []PostItemParams{
			{AccountID: testutil.CashID, Debit: amt("100.00")},
			{AccountID: testutil.RevenueID, Credit: amt("100.00")},
		},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, entry.ID))

	logs, err := auditRepo.ListByEntity(ctx, "entry", entry.ID.String())
	require.NoError(t, err)
	require.Len(t, logs, 2)

	actions := make(map[string]int)
	for _, l := range logs {
		actions[l.Action]++
	}
	assert.Equal(t, map[string]int{"create": 1, "delete": 1}, actions)
}

type failingAuditor struct{}

func (failingAuditor) Record(context.Context, string, string, string, any) error {
	return errors.New("audit store unavailable")
}

func TestAuditFailureNeverFailsTheOperation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedChart(t, db)
	ctx := context.Background()

	chart := NewChartService(repository.NewAccountRepository(db), failingAuditor{})
	account, err := chart.CreateAccount(ctx, CreateAccountParams{
		Code: "1500", Name: "Equipment", Type: domain.AccountTypeAsset,
	})
	require.NoError(t, err, "a broken audit store must not block account changes")
	require.NoError(t, chart.DeleteAccount(ctx, account.ID))

	ledger := NewLedgerService(
		repository.NewEntryRepository(db),
		repository.NewAccountRepository(db),
		failingAuditor{},
		db,
	)
	entry, err := ledger.Post(ctx, PostEntryParams{
		Date: testutil.Date(t, "2026-01-15"),
		Items: []PostItemParams{
			{AccountID: testutil.CashID, Debit: amt("50.00")},
			{AccountID: testutil.RevenueID, Credit: amt("50.00")},
		},
	})
	require.NoError(t, err, "a broken audit store must not block postings")

	stored, err := ledger.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, stored.Balanced())
}
