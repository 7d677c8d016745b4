package dto

import (
	"time"

	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateEntryRequest defines the payload for a validation preview. It has
// the same shape as a capture request but is never persisted.
type ValidateEntryRequest struct {
	Date      time.Time                `json:"date" binding:"required"`
	EntryType domain.EntryType         `json:"entryType" binding:"omitempty,oneof=STANDARD ADJUSTING CLOSING OPENING"`
	Lines     []CreateEntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// RuleResultResponse is one rule outcome in a validation verdict.
type RuleResultResponse struct {
	RuleCode string              `json:"ruleCode"`
	Category domain.RuleCategory `json:"category"`
	Severity domain.RuleSeverity `json:"severity"`
	Passed   bool                `json:"passed"`
	Message  string              `json:"message"`
}

// BalanceSummaryResponse carries the verdict's base-currency totals.
type BalanceSummaryResponse struct {
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	Difference   decimal.Decimal `json:"difference"`
	Balanced     bool            `json:"balanced"`
}

// ValidationResultResponse is the full verdict returned to the caller.
type ValidationResultResponse struct {
	Results []RuleResultResponse   `json:"results"`
	Balance BalanceSummaryResponse `json:"balance"`
	IsValid bool                   `json:"isValid"`
	CanPost bool                   `json:"canPost"`
}

// ToValidationResultResponse converts a domain.ValidationResult to its DTO.
func ToValidationResultResponse(v *domain.ValidationResult) ValidationResultResponse {
	results := make([]RuleResultResponse, len(v.Results))
	for i, r := range v.Results {
		results[i] = RuleResultResponse{
			RuleCode: r.RuleCode,
			Category: r.Category,
			Severity: r.Severity,
			Passed:   r.Passed,
			Message:  r.Message,
		}
	}
	return ValidationResultResponse{
		Results: results,
		Balance: BalanceSummaryResponse{
			TotalDebits:  v.Balance.TotalDebits,
			TotalCredits: v.Balance.TotalCredits,
			Difference:   v.Balance.Difference,
			Balanced:     v.Balance.Balanced,
		},
		IsValid: v.IsValid,
		CanPost: v.CanPost,
	}
}
