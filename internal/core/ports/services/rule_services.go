package services

import (
	"context"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/jash90/ledger_posting_app/internal/dto"
)

// RuleSvcFacade defines operations for managing validation rules.
type RuleSvcFacade interface {
	// CreateRule creates a new validation rule. Unsupported kinds fail with
	// apperrors.ErrConfiguration.
	CreateRule(ctx context.Context, organizationID string, req dto.CreateRuleRequest, creatorUserID string) (*domain.ValidationRule, error)

	// ToggleRule activates or deactivates a rule.
	ToggleRule(ctx context.Context, organizationID string, ruleID string, active bool, userID string) (*domain.ValidationRule, error)

	// ListRules retrieves all rules of an organization.
	ListRules(ctx context.Context, organizationID string) ([]domain.ValidationRule, error)
}
