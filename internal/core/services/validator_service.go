package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jash90/ledger_posting_app/internal/apperrors"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/jash90/ledger_posting_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ValidationInput is everything the validator needs for one run: the proposed
// lines plus pre-fetched reference data. The validator itself never touches
// storage, so it is safe for unbounded parallel invocation.
type ValidationInput struct {
	BaseCurrency string
	EntryDate    time.Time
	EntryType    domain.EntryType
	Lines        []domain.EntryLine
	Accounts     map[string]domain.Account   // Referenced accounts; missing IDs mean "not found"
	Period       *domain.AccountingPeriod    // REGULAR period covering the date, nil when none
	Rules        []domain.ValidationRule     // Active rules applicable to the entry type
}

// EntryValidator decides whether a proposed journal entry may be admitted to
// the books. It is stateless; all checks always run so the caller sees every
// problem in one round trip.
type EntryValidator struct{}

// NewEntryValidator creates a new EntryValidator.
func NewEntryValidator() *EntryValidator {
	return &EntryValidator{}
}

// Validate produces the full verdict for a proposed entry. The only error it
// can return is a configuration error for a rule of an unsupported kind;
// data problems are reported inside the verdict, never as errors.
func (v *EntryValidator) Validate(input ValidationInput) (*domain.ValidationResult, error) {
	result := &domain.ValidationResult{}

	v.checkBalance(input, result)
	v.checkLines(input, result)
	v.checkPeriod(input, result)
	v.checkCurrency(input, result)
	if err := v.checkCustomRules(input, result); err != nil {
		return nil, err
	}

	failedAny := false
	failedError := false
	for _, r := range result.Results {
		if !r.Passed {
			failedAny = true
			if r.Severity == domain.SeverityError {
				failedError = true
			}
		}
	}
	result.IsValid = !failedAny && result.Balance.Balanced
	result.CanPost = !failedError
	return result, nil
}

// checkBalance sums base-currency debits against credits. Imbalance and the
// all-zero no-op entry both fail as ERROR, so CanPost implies balanced.
func (v *EntryValidator) checkBalance(input ValidationInput, result *domain.ValidationResult) {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for i := range input.Lines {
		totalDebits = totalDebits.Add(input.Lines[i].BaseDebit())
		totalCredits = totalCredits.Add(input.Lines[i].BaseCredit())
	}
	difference := totalDebits.Sub(totalCredits)
	balanced := accounting.IsBalanced(totalDebits, totalCredits)

	result.Balance = domain.BalanceSummary{
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		Difference:   difference,
		Balanced:     balanced,
	}

	switch {
	case totalDebits.IsZero() && totalCredits.IsZero():
		result.Results = append(result.Results, domain.RuleResult{
			RuleCode: domain.RuleCodeBalance,
			Category: domain.CategoryBalance,
			Severity: domain.SeverityError,
			Passed:   false,
			Message:  "entry has no amounts; total debits and credits are both zero",
		})
	case !balanced:
		result.Results = append(result.Results, domain.RuleResult{
			RuleCode: domain.RuleCodeBalance,
			Category: domain.CategoryBalance,
			Severity: domain.SeverityError,
			Passed:   false,
			Message:  fmt.Sprintf("entry is out of balance by %s %s (debits %s, credits %s)", difference.String(), input.BaseCurrency, totalDebits.String(), totalCredits.String()),
		})
	default:
		result.Results = append(result.Results, domain.RuleResult{
			RuleCode: domain.RuleCodeBalance,
			Category: domain.CategoryBalance,
			Severity: domain.SeverityError,
			Passed:   true,
			Message:  fmt.Sprintf("debits %s equal credits %s within tolerance", totalDebits.String(), totalCredits.String()),
		})
	}
}

// checkLines runs the per-line account checks. Each check reports once,
// listing every offending line, so nothing is hidden behind the first failure.
func (v *EntryValidator) checkLines(input ValidationInput, result *domain.ValidationResult) {
	var missing, inactive, noPosting, noCostCenter, badAmount []string

	for i := range input.Lines {
		line := &input.Lines[i]
		ref := fmt.Sprintf("line %d (account %s)", i+1, line.AccountID)

		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if line.Debit.IsNegative() || line.Credit.IsNegative() || debitSet == creditSet {
			badAmount = append(badAmount, ref)
		}

		account, found := input.Accounts[line.AccountID]
		if !found {
			missing = append(missing, ref)
			continue
		}
		if !account.IsActive {
			inactive = append(inactive, ref)
		}
		if !account.AllowPosting {
			noPosting = append(noPosting, ref)
		}
		if account.RequireCostCenter && line.CostCenterID == nil {
			noCostCenter = append(noCostCenter, ref)
		}
	}

	appendLineCheck := func(code string, failures []string, failMsg, passMsg string) {
		rr := domain.RuleResult{
			RuleCode: code,
			Category: domain.CategoryAccount,
			Severity: domain.SeverityError,
			Passed:   len(failures) == 0,
			Message:  passMsg,
		}
		if len(failures) > 0 {
			rr.Message = fmt.Sprintf("%s: %s", failMsg, strings.Join(failures, ", "))
		}
		result.Results = append(result.Results, rr)
	}

	appendLineCheck(domain.RuleCodeAccountExists, missing,
		"referenced account does not exist", "all referenced accounts exist")
	appendLineCheck(domain.RuleCodeAccountActive, inactive,
		"account is inactive", "all referenced accounts are active")
	appendLineCheck(domain.RuleCodeAccountPosting, noPosting,
		"account does not allow posting", "all referenced accounts allow posting")
	appendLineCheck(domain.RuleCodeCostCenter, noCostCenter,
		"account requires a cost center", "cost center requirements satisfied")
	appendLineCheck(domain.RuleCodeLineAmount, badAmount,
		"line must have exactly one positive amount on the debit or credit side", "all lines carry exactly one positive amount")
}

// checkPeriod resolves the entry date against the accounting calendar.
// A closed period blocks posting; a soft-closed one only warns.
func (v *EntryValidator) checkPeriod(input ValidationInput, result *domain.ValidationResult) {
	if input.Period == nil {
		result.Results = append(result.Results, domain.RuleResult{
			RuleCode: domain.RuleCodePeriodExists,
			Category: domain.CategoryPeriod,
			Severity: domain.SeverityError,
			Passed:   false,
			Message:  fmt.Sprintf("no accounting period covers %s", input.EntryDate.Format("2006-01-02")),
		})
		return
	}

	result.Results = append(result.Results, domain.RuleResult{
		RuleCode: domain.RuleCodePeriodExists,
		Category: domain.CategoryPeriod,
		Severity: domain.SeverityError,
		Passed:   true,
		Message:  fmt.Sprintf("entry date falls in period %s", input.Period.Name),
	})

	switch input.Period.Status {
	case domain.StatusClosed:
		result.Results = append(result.Results, domain.RuleResult{
			RuleCode: domain.RuleCodePeriodStatus,
			Category: domain.CategoryPeriod,
			Severity: domain.SeverityError,
			Passed:   false,
			Message:  fmt.Sprintf("period %s is closed", input.Period.Name),
		})
	case domain.StatusSoftClosed:
		result.Results = append(result.Results, domain.RuleResult{
			RuleCode: domain.RuleCodePeriodStatus,
			Category: domain.CategoryPeriod,
			Severity: domain.SeverityWarning,
			Passed:   false,
			Message:  fmt.Sprintf("period %s is soft-closed; posting is discouraged", input.Period.Name),
		})
	default:
		result.Results = append(result.Results, domain.RuleResult{
			RuleCode: domain.RuleCodePeriodStatus,
			Category: domain.CategoryPeriod,
			Severity: domain.SeverityInfo,
			Passed:   true,
			Message:  fmt.Sprintf("period %s is open", input.Period.Name),
		})
	}
}

// checkCurrency notes currency mixes and flags suspicious unity rates on
// non-base lines, which almost always mean an unconverted amount.
func (v *EntryValidator) checkCurrency(input ValidationInput, result *domain.ValidationResult) {
	currencySet := make(map[string]struct{})
	var unityRate []string

	one := decimal.NewFromInt(1)
	for i := range input.Lines {
		line := &input.Lines[i]
		currencySet[line.CurrencyCode] = struct{}{}
		if line.CurrencyCode != input.BaseCurrency && line.ExchangeRate.Equal(one) {
			unityRate = append(unityRate, fmt.Sprintf("line %d (%s)", i+1, line.CurrencyCode))
		}
	}

	if len(currencySet) > 1 {
		currencies := make([]string, 0, len(currencySet))
		for c := range currencySet {
			currencies = append(currencies, c)
		}
		sort.Strings(currencies)
		result.Results = append(result.Results, domain.RuleResult{
			RuleCode: domain.RuleCodeCurrencyMix,
			Category: domain.CategoryCurrency,
			Severity: domain.SeverityInfo,
			Passed:   true,
			Message:  fmt.Sprintf("entry mixes currencies: %s", strings.Join(currencies, ", ")),
		})
	}

	rr := domain.RuleResult{
		RuleCode: domain.RuleCodeCurrencyUnityRate,
		Category: domain.CategoryCurrency,
		Severity: domain.SeverityWarning,
		Passed:   len(unityRate) == 0,
		Message:  "exchange rates look plausible",
	}
	if len(unityRate) > 0 {
		rr.Message = fmt.Sprintf("non-base currency lines carry an exchange rate of exactly 1: %s", strings.Join(unityRate, ", "))
	}
	result.Results = append(result.Results, rr)
}

// checkCustomRules evaluates the organization-defined rules. Only the closed
// set of rule kinds is supported; anything else is a configuration error
// that fails the whole run loudly rather than passing silently.
func (v *EntryValidator) checkCustomRules(input ValidationInput, result *domain.ValidationResult) error {
	for i := range input.Rules {
		rule := &input.Rules[i]
		if !rule.AppliesToType(input.EntryType) {
			continue
		}

		var passed bool
		var message string
		switch rule.Kind {
		case domain.KindRequiresAccountType:
			passed = false
			for j := range input.Lines {
				if account, ok := input.Accounts[input.Lines[j].AccountID]; ok && account.AccountType == rule.Params.AccountType {
					passed = true
					break
				}
			}
			if passed {
				message = fmt.Sprintf("entry includes an account of type %s", rule.Params.AccountType)
			} else {
				message = fmt.Sprintf("entry must include at least one line against an account of type %s", rule.Params.AccountType)
			}
		case domain.KindMaxLineAmount:
			passed = true
			message = fmt.Sprintf("no line exceeds %s %s", rule.Params.MaxAmount.String(), input.BaseCurrency)
			for j := range input.Lines {
				amount := decimal.Max(input.Lines[j].BaseDebit(), input.Lines[j].BaseCredit())
				if amount.GreaterThan(rule.Params.MaxAmount) {
					passed = false
					message = fmt.Sprintf("line %d amount %s exceeds the maximum of %s %s", j+1, amount.String(), rule.Params.MaxAmount.String(), input.BaseCurrency)
					break
				}
			}
		default:
			return fmt.Errorf("%w: rule %s has unsupported kind %q", apperrors.ErrConfiguration, rule.Code, rule.Kind)
		}

		result.Results = append(result.Results, domain.RuleResult{
			RuleCode: rule.Code,
			Category: rule.Category,
			Severity: rule.Severity,
			Passed:   passed,
			Message:  message,
		})
	}
	return nil
}
