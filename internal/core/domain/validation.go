package domain

import (
	"github.com/shopspring/decimal"
)

// Codes of the built-in validation checks. Custom rules report under their
// own configured code.
const (
	RuleCodeBalance           = "BALANCE"
	RuleCodeAccountExists     = "ACCOUNT_EXISTS"
	RuleCodeAccountActive     = "ACCOUNT_ACTIVE"
	RuleCodeAccountPosting    = "ACCOUNT_POSTING"
	RuleCodeCostCenter        = "ACCOUNT_COST_CENTER"
	RuleCodeLineAmount        = "LINE_AMOUNT"
	RuleCodePeriodExists      = "PERIOD_EXISTS"
	RuleCodePeriodStatus      = "PERIOD_STATUS"
	RuleCodeCurrencyMix       = "CURRENCY_MIX"
	RuleCodeCurrencyUnityRate = "CURRENCY_UNITY_RATE"
)

// RuleResult is the outcome of one check during a validation run.
type RuleResult struct {
	RuleCode string       `json:"ruleCode"`
	Category RuleCategory `json:"category"`
	Severity RuleSeverity `json:"severity"`
	Passed   bool         `json:"passed"`
	Message  string       `json:"message"`
}

// BalanceSummary aggregates the base-currency totals of a validation run.
type BalanceSummary struct {
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	Difference   decimal.Decimal `json:"difference"` // debits minus credits, signed
	Balanced     bool            `json:"balanced"`   // |Difference| within tolerance
}

// ValidationResult is the full verdict for a proposed entry. Results are
// always fully enumerated; nothing short-circuits on first failure.
type ValidationResult struct {
	Results []RuleResult   `json:"results"`
	Balance BalanceSummary `json:"balance"`
	IsValid bool           `json:"isValid"` // No failed rule of any severity and balanced
	CanPost bool           `json:"canPost"` // No failed ERROR rule (balance is an ERROR rule)
}

// Failures returns the failed results, optionally restricted to one severity.
func (v *ValidationResult) Failures(severity RuleSeverity) []RuleResult {
	failed := make([]RuleResult, 0)
	for _, r := range v.Results {
		if !r.Passed && (severity == "" || r.Severity == severity) {
			failed = append(failed, r)
		}
	}
	return failed
}
