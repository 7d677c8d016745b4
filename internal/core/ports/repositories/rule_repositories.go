package repositories

import (
	"context"
	"time"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
)

// RuleReader defines read operations for validation rule data
type RuleReader interface {
	// FindRuleByID retrieves a specific rule.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.ValidationRule, error)

	// ListActiveRules retrieves the active rules of an organization that
	// apply to the given entry type.
	ListActiveRules(ctx context.Context, organizationID string, entryType domain.EntryType) ([]domain.ValidationRule, error)

	// ListRules retrieves all rules of an organization.
	ListRules(ctx context.Context, organizationID string) ([]domain.ValidationRule, error)
}

// RuleWriter defines write operations for validation rule data
type RuleWriter interface {
	// SaveRule persists a new rule.
	SaveRule(ctx context.Context, rule domain.ValidationRule) error

	// SetRuleActive toggles a rule on or off.
	SetRuleActive(ctx context.Context, ruleID string, active bool, userID string, now time.Time) error
}

// RuleRepositoryFacade combines all rule-related repository interfaces
type RuleRepositoryFacade interface {
	RuleReader
	RuleWriter
}
