package domain

import (
	"github.com/shopspring/decimal"
)

// RuleSeverity controls whether a failed rule blocks posting.
type RuleSeverity string

const (
	SeverityError   RuleSeverity = "ERROR"
	SeverityWarning RuleSeverity = "WARNING"
	SeverityInfo    RuleSeverity = "INFO"
)

// RuleCategory groups rules for reporting.
type RuleCategory string

const (
	CategoryBalance  RuleCategory = "BALANCE"
	CategoryAccount  RuleCategory = "ACCOUNT"
	CategoryPeriod   RuleCategory = "PERIOD"
	CategoryCurrency RuleCategory = "CURRENCY"
	CategoryBusiness RuleCategory = "BUSINESS"
	CategoryCustom   RuleCategory = "CUSTOM"
)

// RuleKind is the closed set of evaluatable custom rule conditions. Rules
// are data, never code: new behaviour means a new kind here, not a payload
// that gets executed.
type RuleKind string

const (
	// KindRequiresAccountType requires the entry to include at least one line
	// against an account of the configured type.
	KindRequiresAccountType RuleKind = "REQUIRES_ACCOUNT_TYPE"
	// KindMaxLineAmount caps the base-currency amount of any single line.
	KindMaxLineAmount RuleKind = "MAX_LINE_AMOUNT"
)

// SupportedRuleKind reports whether the kind is part of the closed set.
func SupportedRuleKind(kind RuleKind) bool {
	switch kind {
	case KindRequiresAccountType, KindMaxLineAmount:
		return true
	}
	return false
}

// RuleParams is the condition payload for a rule. Which fields are relevant
// depends on the kind.
type RuleParams struct {
	AccountType AccountType     `json:"accountType,omitempty"` // KindRequiresAccountType
	MaxAmount   decimal.Decimal `json:"maxAmount,omitempty"`   // KindMaxLineAmount
}

// ValidationRule is an organization-defined check evaluated on every
// validation run for matching entry types. Rules are read-only to the
// validator; configuration creates and toggles them.
type ValidationRule struct {
	RuleID         string       `json:"ruleID"`         // Primary Key (e.g., UUID)
	OrganizationID string       `json:"organizationID"` // FK -> organizations (Not Null)
	Code           string       `json:"code"`           // Unique per organization, e.g. "BUS-001"
	Name           string       `json:"name"`
	Category       RuleCategory `json:"category"`
	Severity       RuleSeverity `json:"severity"`
	Kind           RuleKind     `json:"kind"`
	Params         RuleParams   `json:"params"`
	AppliesTo      EntryType    `json:"appliesTo"` // Empty means all entry types
	IsActive       bool         `json:"isActive"`
	AuditFields
}

// AppliesToType reports whether the rule should run for the given entry type.
func (r *ValidationRule) AppliesToType(t EntryType) bool {
	return r.AppliesTo == "" || r.AppliesTo == t
}
