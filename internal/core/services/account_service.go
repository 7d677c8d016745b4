package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jash90/ledger_posting_app/internal/apperrors"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
	portssvc "github.com/jash90/ledger_posting_app/internal/core/ports/services"
	"github.com/jash90/ledger_posting_app/internal/dto"
	"github.com/jash90/ledger_posting_app/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	ErrParentAccountNotFound = errors.New("parent account not found")
	ErrParentAccountType     = errors.New("parent account must have the same account type")
	ErrAccountHasBalance     = errors.New("account with a non-zero balance cannot be deactivated")
)

const maxAccountPageSize = 200

// accountService provides chart-of-accounts management.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryWithTx
	orgSvc      portssvc.OrganizationSvcFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryWithTx, orgSvc portssvc.OrganizationSvcFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, orgSvc: orgSvc}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID retrieves a specific account.
func (s *accountService) GetAccountByID(ctx context.Context, organizationID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts scoped to the organization.
// Accounts of other organizations are filtered out, so the caller treats
// them as unknown.
func (s *accountService) GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	for id, account := range accounts {
		if account.OrganizationID != organizationID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

// ListAccounts retrieves a paginated flat list of accounts.
func (s *accountService) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 || limit > maxAccountPageSize {
		limit = maxAccountPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.accountRepo.ListAccounts(ctx, organizationID, limit, offset)
}

// GetAccountTree retrieves the full chart of accounts as a forest.
func (s *accountService) GetAccountTree(ctx context.Context, organizationID string) ([]*domain.AccountNode, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, organizationID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return domain.BuildAccountTree(accounts), nil
}

// CreateAccount creates a new account in the chart. Account codes are unique
// per organization; the repository reports a duplicate as apperrors.ErrDuplicate.
func (s *accountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.orgSvc.GetOrganizationByID(ctx, organizationID); err != nil {
		return nil, fmt.Errorf("failed to resolve organization: %w", err)
	}

	if req.ParentAccountID != nil {
		parent, err := s.GetAccountByID(ctx, organizationID, *req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, ErrParentAccountNotFound
			}
			return nil, err
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: parent is %s", ErrParentAccountType, parent.AccountType)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:         uuid.NewString(),
		OrganizationID:    organizationID,
		Code:              req.Code,
		Name:              req.Name,
		AccountType:       req.AccountType,
		CurrencyCode:      req.CurrencyCode,
		ParentAccountID:   req.ParentAccountID,
		Description:       req.Description,
		IsActive:          true,
		AllowPosting:      req.AllowPosting,
		RequireCostCenter: req.RequireCostCenter,
		Balance:           decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		}
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// UpdateAccount updates mutable account details. Code, type and currency are
// fixed at creation.
func (s *accountService) UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, organizationID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.AllowPosting != nil {
		account.AllowPosting = *req.AllowPosting
	}
	if req.RequireCostCenter != nil {
		account.RequireCostCenter = *req.RequireCostCenter
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount marks an account as inactive so new entries cannot use
// it. Accounts still carrying a balance must be emptied first.
func (s *accountService) DeactivateAccount(ctx context.Context, organizationID string, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, organizationID, accountID)
	if err != nil {
		return err
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: balance is %s", ErrAccountHasBalance, account.Balance)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
