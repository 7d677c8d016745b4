package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jash90/ledger_posting_app/internal/apperrors"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, organization_id, code, name, account_type, currency_code,
	parent_account_id, description, is_active, allow_posting, require_cost_center, balance,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID,
		&a.OrganizationID,
		&a.Code,
		&a.Name,
		&a.AccountType,
		&a.CurrencyCode,
		&a.ParentAccountID,
		&a.Description,
		&a.IsActive,
		&a.AllowPosting,
		&a.RequireCostCenter,
		&a.Balance,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	return a, err
}

func scanAccountRows(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.OrganizationID,
		account.Code,
		account.Name,
		account.AccountType,
		account.CurrencyCode,
		account.ParentAccountID,
		account.Description,
		account.IsActive,
		account.AllowPosting,
		account.RequireCostCenter,
		account.Balance,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Unique violation, account code is unique per organization
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, account.Code)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	account, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by ID "+accountID, err)
	}
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs. Unknown IDs are
// simply omitted from the returned map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	accounts, err := scanAccountRows(rows)
	if err != nil {
		return nil, err
	}
	result := make(map[string]domain.Account, len(accounts))
	for i := range accounts {
		result[accounts[i].AccountID] = accounts[i]
	}
	return result, nil
}

// ListAccounts retrieves accounts of an organization ordered by code. A
// non-positive limit disables paging.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE organization_id = $1 ORDER BY code`
	args := []interface{}{organizationID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	rows, err := r.Pool.Query(ctx, query+";", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for organization %s: %w", organizationID, err)
	}
	return scanAccountRows(rows)
}

// FindAccountsByTypes retrieves all active accounts of the given types within
// an organization.
func (r *PgxAccountRepository) FindAccountsByTypes(ctx context.Context, organizationID string, types []domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE organization_id = $1 AND account_type = ANY($2) AND is_active = TRUE
		ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, organizationID, accountTypeStrings(types))
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by types: %w", err)
	}
	return scanAccountRows(rows)
}

// SumBalancesByTypes returns the summed persisted balance of all active
// accounts of the given types.
func (r *PgxAccountRepository) SumBalancesByTypes(ctx context.Context, organizationID string, types []domain.AccountType) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(balance), 0)
		FROM accounts
		WHERE organization_id = $1 AND account_type = ANY($2) AND is_active = TRUE;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, organizationID, accountTypeStrings(types)).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balances by types: %w", err)
	}
	return sum, nil
}

// UpdateAccount updates an existing account's mutable details.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2,
		    description = $3,
		    allow_posting = $4,
		    require_cost_center = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.Description,
		account.AllowPosting,
		account.RequireCostCenter,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountsByTypesForUpdate selects and row-locks all active accounts of
// the given types so balances cannot move under a running close.
func (r *PgxAccountRepository) FindAccountsByTypesForUpdate(ctx context.Context, tx pgx.Tx, organizationID string, types []domain.AccountType) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE organization_id = $1 AND account_type = ANY($2) AND is_active = TRUE
		ORDER BY code
		FOR UPDATE;`
	rows, err := tx.Query(ctx, query, organizationID, accountTypeStrings(types))
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts by types: %w", err)
	}
	return scanAccountRows(rows)
}

// UpdateAccountBalancesInTx applies signed balance deltas to multiple
// accounts within the given transaction.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}
	query := `
		UPDATE accounts
		SET balance = balance + $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	for accountID, delta := range balanceChanges {
		batch.Queue(query, accountID, delta, now, userID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute balance update batch: %w", err)
	}
	return nil
}

// accountTypeStrings converts account types for use as an array parameter.
func accountTypeStrings(types []domain.AccountType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
