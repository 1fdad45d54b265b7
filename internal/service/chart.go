package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks-io/ledger-api/internal/domain"
	"github.com/finbooks-io/ledger-api/internal/logging"
)

type accountRepo interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasLineItems(ctx context.Context, id uuid.UUID) (bool, error)
}

type auditor interface {
	Record(ctx context.Context, entityType, entityID, action string, detail any) error
}

// ChartService owns the chart of accounts. It guards the invariants the
// reports rely on: unique codes and no deletion of accounts with history.
type ChartService struct {
	accounts accountRepo
	audit    auditor
}

func NewChartService(accounts accountRepo, audit auditor) *ChartService {
	return &ChartService{accounts: accounts, audit: audit}
}

type CreateAccountParams struct {
	Code    string
	Name    string
	Type    domain.AccountType
	SubType string
	Active  *bool // nil defaults to true
}

func (s *ChartService) CreateAccount(ctx context.Context, params CreateAccountParams) (*domain.Account, error) {
	if !params.Type.IsValid() {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrInvalidAccountType)
	}

	_, err := s.accounts.GetByCode(ctx, params.Code)
	if err == nil {
		return nil, fmt.Errorf("CreateAccount: %w", domain.ErrDuplicateAccountCode)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("CreateAccount: check existing: %w", err)
	}

	active := true
	if params.Active != nil {
		active = *params.Active
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uuid.New(),
		Code:      params.Code,
		Name:      params.Name,
		Type:      params.Type,
		SubType:   params.SubType,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("CreateAccount: %w", err)
	}

	s.recordAudit(ctx, "account", account.ID.String(), "create", account)
	return account, nil
}

type UpdateAccountParams struct {
	Code    *string
	Name    *string
	Type    *domain.AccountType
	SubType *string
	Active  *bool
}

func (s *ChartService) UpdateAccount(ctx context.Context, id uuid.UUID, params UpdateAccountParams) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("UpdateAccount: %w", err)
	}

	if params.Code != nil && *params.Code != account.Code {
		_, err := s.accounts.GetByCode(ctx, *params.Code)
		if err == nil {
			return nil, fmt.Errorf("UpdateAccount: %w", domain.ErrDuplicateAccountCode)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("UpdateAccount: check code: %w", err)
		}
		account.Code = *params.Code
	}
	if params.Name != nil {
		account.Name = *params.Name
	}
	if params.Type != nil {
		if !params.Type.IsValid() {
			return nil, fmt.Errorf("UpdateAccount: %w", domain.ErrInvalidAccountType)
		}
		account.Type = *params.Type
	}
	if params.SubType != nil {
		account.SubType = *params.SubType
	}
	if params.Active != nil {
		account.Active = *params.Active
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("UpdateAccount: %w", err)
	}

	s.recordAudit(ctx, "account", account.ID.String(), "update", account)
	return account, nil
}

// DeleteAccount removes an account that has never been posted to. Accounts
// referenced by line items are protected so historical ledger data keeps
// its meaning.
func (s *ChartService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}

	used, err := s.accounts.HasLineItems(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}
	if used {
		return fmt.Errorf("DeleteAccount: %w", domain.ErrAccountInUse)
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}

	s.recordAudit(ctx, "account", id.String(), "delete", account)
	return nil
}

func (s *ChartService) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetAccount: %w", err)
	}
	return account, nil
}

func (s *ChartService) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, 0, fmt.Errorf("ListAccounts: %w", domain.ErrInvalidAccountType)
	}
	accounts, total, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("ListAccounts: %w", err)
	}
	return accounts, total, nil
}

// recordAudit logs the change but never fails the business operation: the
// audit trail is best-effort by contract.
func (s *ChartService) recordAudit(ctx context.Context, entityType, entityID, action string, detail any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, entityType, entityID, action, detail); err != nil {
		logging.FromContext(ctx).Error("audit record failed",
			"entity_type", entityType, "entity_id", entityID, "action", action, "error", err)
	}
}
