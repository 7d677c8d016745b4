package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jash90/ledger_posting_app/internal/apperrors"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
)

const ruleColumns = `rule_id, organization_id, code, name, category, severity, kind, params,
	applies_to, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxRuleRepository struct {
	pool *pgxpool.Pool
}

// newPgxRuleRepository creates a new repository for validation rule data.
func newPgxRuleRepository(pool *pgxpool.Pool) portsrepo.RuleRepositoryFacade {
	return &PgxRuleRepository{pool: pool}
}

// Ensure PgxRuleRepository implements portsrepo.RuleRepositoryFacade
var _ portsrepo.RuleRepositoryFacade = (*PgxRuleRepository)(nil)

// Rule params live in a JSONB column; which fields are set depends on the kind.
func scanRule(row pgx.Row) (domain.ValidationRule, error) {
	var r domain.ValidationRule
	var params []byte
	err := row.Scan(
		&r.RuleID,
		&r.OrganizationID,
		&r.Code,
		&r.Name,
		&r.Category,
		&r.Severity,
		&r.Kind,
		&params,
		&r.AppliesTo,
		&r.IsActive,
		&r.CreatedAt,
		&r.CreatedBy,
		&r.LastUpdatedAt,
		&r.LastUpdatedBy,
	)
	if err != nil {
		return r, err
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &r.Params); err != nil {
			return r, fmt.Errorf("failed to decode params of rule %s: %w", r.RuleID, err)
		}
	}
	return r, nil
}

func (p *PgxRuleRepository) scanRuleRows(rows pgx.Rows) ([]domain.ValidationRule, error) {
	defer rows.Close()
	rules := []domain.ValidationRule{}
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rule rows: %w", err)
	}
	return rules, nil
}

// FindRuleByID retrieves a rule by its ID.
func (p *PgxRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ValidationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM validation_rules WHERE rule_id = $1;`
	rule, err := scanRule(p.pool.QueryRow(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find rule by ID "+ruleID, err)
	}
	return &rule, nil
}

// ListActiveRules retrieves the active rules of an organization that apply to
// the given entry type. A rule with an empty applies_to matches every type.
func (p *PgxRuleRepository) ListActiveRules(ctx context.Context, organizationID string, entryType domain.EntryType) ([]domain.ValidationRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM validation_rules
		WHERE organization_id = $1
		  AND is_active = TRUE
		  AND (applies_to = '' OR applies_to = $2)
		ORDER BY code;
	`
	rows, err := p.pool.Query(ctx, query, organizationID, entryType)
	if err != nil {
		return nil, fmt.Errorf("failed to query active rules for organization %s: %w", organizationID, err)
	}
	return p.scanRuleRows(rows)
}

// ListRules retrieves all rules of an organization.
func (p *PgxRuleRepository) ListRules(ctx context.Context, organizationID string) ([]domain.ValidationRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM validation_rules WHERE organization_id = $1 ORDER BY code;`
	rows, err := p.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules for organization %s: %w", organizationID, err)
	}
	return p.scanRuleRows(rows)
}

// SaveRule persists a new rule.
func (p *PgxRuleRepository) SaveRule(ctx context.Context, rule domain.ValidationRule) error {
	params, err := json.Marshal(rule.Params)
	if err != nil {
		return fmt.Errorf("failed to encode params of rule %s: %w", rule.RuleID, err)
	}
	query := `
		INSERT INTO validation_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = p.pool.Exec(ctx, query,
		rule.RuleID,
		rule.OrganizationID,
		rule.Code,
		rule.Name,
		rule.Category,
		rule.Severity,
		rule.Kind,
		params,
		rule.AppliesTo,
		rule.IsActive,
		rule.CreatedAt,
		rule.CreatedBy,
		rule.LastUpdatedAt,
		rule.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: rule code %s already exists", apperrors.ErrDuplicate, rule.Code)
		}
		return fmt.Errorf("failed to save rule %s: %w", rule.RuleID, err)
	}
	return nil
}

// SetRuleActive toggles a rule on or off.
func (p *PgxRuleRepository) SetRuleActive(ctx context.Context, ruleID string, active bool, userID string, now time.Time) error {
	query := `
		UPDATE validation_rules
		SET is_active = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE rule_id = $1;
	`
	cmdTag, err := p.pool.Exec(ctx, query, ruleID, active, now, userID)
	if err != nil {
		return fmt.Errorf("failed to toggle rule %s: %w", ruleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
