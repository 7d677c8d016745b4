package dto

import (
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RuleParamsRequest is the condition payload supplied when creating a rule.
type RuleParamsRequest struct {
	AccountType domain.AccountType `json:"accountType,omitempty"`
	MaxAmount   decimal.Decimal    `json:"maxAmount,omitempty"`
}

// CreateRuleRequest defines the payload for creating a validation rule.
// Unsupported kinds are rejected at creation time.
type CreateRuleRequest struct {
	Code      string              `json:"code" binding:"required"`
	Name      string              `json:"name" binding:"required"`
	Category  domain.RuleCategory `json:"category" binding:"required,oneof=BALANCE ACCOUNT PERIOD CURRENCY BUSINESS CUSTOM"`
	Severity  domain.RuleSeverity `json:"severity" binding:"required,oneof=ERROR WARNING INFO"`
	Kind      domain.RuleKind     `json:"kind" binding:"required"`
	Params    RuleParamsRequest   `json:"params"`
	AppliesTo domain.EntryType    `json:"appliesTo" binding:"omitempty,oneof=STANDARD ADJUSTING CLOSING OPENING"`
}

// ToggleRuleRequest defines the payload for activating/deactivating a rule.
type ToggleRuleRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// RuleResponse defines the data returned for a validation rule.
type RuleResponse struct {
	RuleID    string              `json:"ruleID"`
	Code      string              `json:"code"`
	Name      string              `json:"name"`
	Category  domain.RuleCategory `json:"category"`
	Severity  domain.RuleSeverity `json:"severity"`
	Kind      domain.RuleKind     `json:"kind"`
	Params    RuleParamsRequest   `json:"params"`
	AppliesTo domain.EntryType    `json:"appliesTo,omitempty"`
	IsActive  bool                `json:"isActive"`
}

// ListRulesResponse wraps an organization's validation rules.
type ListRulesResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// ToRuleResponse converts a domain.ValidationRule to its DTO.
func ToRuleResponse(r *domain.ValidationRule) RuleResponse {
	return RuleResponse{
		RuleID:   r.RuleID,
		Code:     r.Code,
		Name:     r.Name,
		Category: r.Category,
		Severity: r.Severity,
		Kind:     r.Kind,
		Params: RuleParamsRequest{
			AccountType: r.Params.AccountType,
			MaxAmount:   r.Params.MaxAmount,
		},
		AppliesTo: r.AppliesTo,
		IsActive:  r.IsActive,
	}
}
