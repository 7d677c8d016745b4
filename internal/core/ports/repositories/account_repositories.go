package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs. Unknown IDs
	// are simply omitted from the returned map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for an organization.
	ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error)

	// FindAccountsByTypes retrieves all active accounts of the given types
	// within an organization.
	FindAccountsByTypes(ctx context.Context, organizationID string, types []domain.AccountType) ([]domain.Account, error)

	// SumBalancesByTypes returns the summed persisted balance of all active
	// accounts of the given types within an organization.
	SumBalancesByTypes(ctx context.Context, organizationID string, types []domain.AccountType) (decimal.Decimal, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations that run inside a caller-owned
// database transaction.
type AccountTransactionSupport interface {
	// FindAccountsByTypesForUpdate selects and row-locks all active accounts
	// of the given types so balances cannot move under a running close.
	FindAccountsByTypesForUpdate(ctx context.Context, tx pgx.Tx, organizationID string, types []domain.AccountType) ([]domain.Account, error)

	// UpdateAccountBalancesInTx applies signed balance deltas to multiple
	// accounts within the given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
