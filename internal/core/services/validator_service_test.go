package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jash90/ledger_posting_app/internal/apperrors"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	"github.com/jash90/ledger_posting_app/internal/core/services"
)

type EntryValidatorTestSuite struct {
	suite.Suite
	validator      *services.EntryValidator
	cashAccount    domain.Account
	revenueAccount domain.Account
	openPeriod     domain.AccountingPeriod
}

func (suite *EntryValidatorTestSuite) SetupTest() {
	suite.validator = services.NewEntryValidator()

	suite.cashAccount = domain.Account{
		AccountID:    uuid.NewString(),
		AccountType:  domain.Asset,
		CurrencyCode: "PLN",
		IsActive:     true,
		AllowPosting: true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:    uuid.NewString(),
		AccountType:  domain.Revenue,
		CurrencyCode: "PLN",
		IsActive:     true,
		AllowPosting: true,
	}
	suite.openPeriod = domain.AccountingPeriod{
		PeriodID:   uuid.NewString(),
		Number:     3,
		Name:       "2026-03",
		StartDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:     domain.StatusOpen,
		PeriodType: domain.PeriodRegular,
	}
}

// balancedInput builds a simple two-line cash sale in the base currency.
func (suite *EntryValidatorTestSuite) balancedInput() services.ValidationInput {
	one := decimal.NewFromInt(1)
	return services.ValidationInput{
		BaseCurrency: "PLN",
		EntryDate:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		EntryType:    domain.Standard,
		Lines: []domain.EntryLine{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500), CurrencyCode: "PLN", ExchangeRate: one},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(500), CurrencyCode: "PLN", ExchangeRate: one},
		},
		Accounts: map[string]domain.Account{
			suite.cashAccount.AccountID:    suite.cashAccount,
			suite.revenueAccount.AccountID: suite.revenueAccount,
		},
		Period: &suite.openPeriod,
	}
}

func (suite *EntryValidatorTestSuite) findResult(result *domain.ValidationResult, code string) *domain.RuleResult {
	for i := range result.Results {
		if result.Results[i].RuleCode == code {
			return &result.Results[i]
		}
	}
	return nil
}

func (suite *EntryValidatorTestSuite) TestBalancedEntryPasses() {
	result, err := suite.validator.Validate(suite.balancedInput())
	require.NoError(suite.T(), err)

	assert.True(suite.T(), result.IsValid)
	assert.True(suite.T(), result.CanPost)
	assert.True(suite.T(), result.Balance.Balanced)
	assert.True(suite.T(), result.Balance.TotalDebits.Equal(decimal.NewFromInt(500)))
	assert.True(suite.T(), result.Balance.TotalCredits.Equal(decimal.NewFromInt(500)))
	assert.Empty(suite.T(), result.Failures(""))
}

func (suite *EntryValidatorTestSuite) TestImbalanceBlocksPosting() {
	input := suite.balancedInput()
	input.Lines[1].Credit = decimal.NewFromFloat(499.50)

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	assert.False(suite.T(), result.CanPost)
	assert.False(suite.T(), result.Balance.Balanced)
	assert.True(suite.T(), result.Balance.Difference.Equal(decimal.NewFromFloat(0.50)))

	balance := suite.findResult(result, domain.RuleCodeBalance)
	require.NotNil(suite.T(), balance)
	assert.False(suite.T(), balance.Passed)
	assert.Equal(suite.T(), domain.SeverityError, balance.Severity)
}

func (suite *EntryValidatorTestSuite) TestRoundingWithinToleranceBalances() {
	input := suite.balancedInput()
	input.Lines[1].Credit = decimal.NewFromFloat(499.99)

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), result.Balance.Balanced)
	assert.True(suite.T(), result.CanPost)
}

func (suite *EntryValidatorTestSuite) TestZeroAmountEntryFails() {
	input := suite.balancedInput()
	input.Lines[0].Debit = decimal.Zero
	input.Lines[1].Credit = decimal.Zero

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	assert.False(suite.T(), result.CanPost, "a zero entry balances arithmetically but must not post")
	balance := suite.findResult(result, domain.RuleCodeBalance)
	require.NotNil(suite.T(), balance)
	assert.False(suite.T(), balance.Passed)
}

func (suite *EntryValidatorTestSuite) TestMultiCurrencyBalancesInBase() {
	one := decimal.NewFromInt(1)
	eurAccount := suite.cashAccount
	eurAccount.AccountID = uuid.NewString()
	eurAccount.CurrencyCode = "EUR"

	input := suite.balancedInput()
	input.Lines = []domain.EntryLine{
		{AccountID: eurAccount.AccountID, Debit: decimal.NewFromInt(1000), CurrencyCode: "EUR", ExchangeRate: decimal.NewFromFloat(4.35)},
		{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(4350), CurrencyCode: "PLN", ExchangeRate: one},
	}
	input.Accounts[eurAccount.AccountID] = eurAccount

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), result.Balance.Balanced)
	assert.True(suite.T(), result.Balance.TotalDebits.Equal(decimal.NewFromInt(4350)))
	assert.True(suite.T(), result.CanPost)

	mix := suite.findResult(result, domain.RuleCodeCurrencyMix)
	require.NotNil(suite.T(), mix, "currency mix should be noted")
	assert.True(suite.T(), mix.Passed)
	assert.Equal(suite.T(), domain.SeverityInfo, mix.Severity)
}

func (suite *EntryValidatorTestSuite) TestUnityRateOnForeignLineWarns() {
	one := decimal.NewFromInt(1)
	input := suite.balancedInput()
	input.Lines[0].CurrencyCode = "EUR"
	input.Lines[0].ExchangeRate = one

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	unity := suite.findResult(result, domain.RuleCodeCurrencyUnityRate)
	require.NotNil(suite.T(), unity)
	assert.False(suite.T(), unity.Passed)
	assert.Equal(suite.T(), domain.SeverityWarning, unity.Severity)
	assert.True(suite.T(), result.CanPost, "a warning alone does not block posting")
	assert.False(suite.T(), result.IsValid)
}

func (suite *EntryValidatorTestSuite) TestMissingAccountFails() {
	input := suite.balancedInput()
	delete(input.Accounts, suite.cashAccount.AccountID)

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	exists := suite.findResult(result, domain.RuleCodeAccountExists)
	require.NotNil(suite.T(), exists)
	assert.False(suite.T(), exists.Passed)
	assert.False(suite.T(), result.CanPost)
}

func (suite *EntryValidatorTestSuite) TestInactiveAccountFails() {
	input := suite.balancedInput()
	inactive := suite.cashAccount
	inactive.IsActive = false
	input.Accounts[inactive.AccountID] = inactive

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	active := suite.findResult(result, domain.RuleCodeAccountActive)
	require.NotNil(suite.T(), active)
	assert.False(suite.T(), active.Passed)
	assert.False(suite.T(), result.CanPost)
}

func (suite *EntryValidatorTestSuite) TestNonPostableAccountFails() {
	input := suite.balancedInput()
	header := suite.cashAccount
	header.AllowPosting = false
	input.Accounts[header.AccountID] = header

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	posting := suite.findResult(result, domain.RuleCodeAccountPosting)
	require.NotNil(suite.T(), posting)
	assert.False(suite.T(), posting.Passed)
	assert.False(suite.T(), result.CanPost)
}

func (suite *EntryValidatorTestSuite) TestMissingCostCenterFails() {
	input := suite.balancedInput()
	strict := suite.cashAccount
	strict.RequireCostCenter = true
	input.Accounts[strict.AccountID] = strict

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	costCenter := suite.findResult(result, domain.RuleCodeCostCenter)
	require.NotNil(suite.T(), costCenter)
	assert.False(suite.T(), costCenter.Passed)

	// Supplying the cost center satisfies the check.
	centerID := uuid.NewString()
	input.Lines[0].CostCenterID = &centerID
	result, err = suite.validator.Validate(input)
	require.NoError(suite.T(), err)
	costCenter = suite.findResult(result, domain.RuleCodeCostCenter)
	require.NotNil(suite.T(), costCenter)
	assert.True(suite.T(), costCenter.Passed)
}

func (suite *EntryValidatorTestSuite) TestLineWithBothSidesSetFails() {
	input := suite.balancedInput()
	input.Lines[0].Credit = decimal.NewFromInt(500)

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	amount := suite.findResult(result, domain.RuleCodeLineAmount)
	require.NotNil(suite.T(), amount)
	assert.False(suite.T(), amount.Passed)
	assert.False(suite.T(), result.CanPost)
}

func (suite *EntryValidatorTestSuite) TestNegativeAmountFails() {
	input := suite.balancedInput()
	input.Lines[0].Debit = decimal.NewFromInt(-500)

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	amount := suite.findResult(result, domain.RuleCodeLineAmount)
	require.NotNil(suite.T(), amount)
	assert.False(suite.T(), amount.Passed)
}

func (suite *EntryValidatorTestSuite) TestNoPeriodFails() {
	input := suite.balancedInput()
	input.Period = nil

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	exists := suite.findResult(result, domain.RuleCodePeriodExists)
	require.NotNil(suite.T(), exists)
	assert.False(suite.T(), exists.Passed)
	assert.False(suite.T(), result.CanPost)
}

func (suite *EntryValidatorTestSuite) TestClosedPeriodBlocksPosting() {
	input := suite.balancedInput()
	closed := suite.openPeriod
	closed.Status = domain.StatusClosed
	input.Period = &closed

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	status := suite.findResult(result, domain.RuleCodePeriodStatus)
	require.NotNil(suite.T(), status)
	assert.False(suite.T(), status.Passed)
	assert.Equal(suite.T(), domain.SeverityError, status.Severity)
	assert.False(suite.T(), result.CanPost)
}

func (suite *EntryValidatorTestSuite) TestSoftClosedPeriodOnlyWarns() {
	input := suite.balancedInput()
	soft := suite.openPeriod
	soft.Status = domain.StatusSoftClosed
	input.Period = &soft

	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	status := suite.findResult(result, domain.RuleCodePeriodStatus)
	require.NotNil(suite.T(), status)
	assert.False(suite.T(), status.Passed)
	assert.Equal(suite.T(), domain.SeverityWarning, status.Severity)
	assert.True(suite.T(), result.CanPost)
	assert.False(suite.T(), result.IsValid)
}

func (suite *EntryValidatorTestSuite) TestRequiresAccountTypeRule() {
	rule := domain.ValidationRule{
		Code:     "BUS-001",
		Category: domain.CategoryBusiness,
		Severity: domain.SeverityError,
		Kind:     domain.KindRequiresAccountType,
		Params:   domain.RuleParams{AccountType: domain.Revenue},
		IsActive: true,
	}

	input := suite.balancedInput()
	input.Rules = []domain.ValidationRule{rule}
	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	rr := suite.findResult(result, "BUS-001")
	require.NotNil(suite.T(), rr)
	assert.True(suite.T(), rr.Passed, "entry touches a revenue account")

	// Same entry against assets only fails the rule.
	rule.Params.AccountType = domain.Liability
	input.Rules = []domain.ValidationRule{rule}
	result, err = suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	rr = suite.findResult(result, "BUS-001")
	require.NotNil(suite.T(), rr)
	assert.False(suite.T(), rr.Passed)
	assert.False(suite.T(), result.CanPost)
}

func (suite *EntryValidatorTestSuite) TestMaxLineAmountRule() {
	rule := domain.ValidationRule{
		Code:     "BUS-002",
		Category: domain.CategoryBusiness,
		Severity: domain.SeverityWarning,
		Kind:     domain.KindMaxLineAmount,
		Params:   domain.RuleParams{MaxAmount: decimal.NewFromInt(400)},
		IsActive: true,
	}

	input := suite.balancedInput()
	input.Rules = []domain.ValidationRule{rule}
	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	rr := suite.findResult(result, "BUS-002")
	require.NotNil(suite.T(), rr)
	assert.False(suite.T(), rr.Passed, "500 exceeds the 400 cap")
	assert.True(suite.T(), result.CanPost, "warning severity does not block posting")

	rule.Params.MaxAmount = decimal.NewFromInt(1000)
	input.Rules = []domain.ValidationRule{rule}
	result, err = suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	rr = suite.findResult(result, "BUS-002")
	require.NotNil(suite.T(), rr)
	assert.True(suite.T(), rr.Passed)
}

func (suite *EntryValidatorTestSuite) TestRuleAppliesToOtherEntryTypeIsSkipped() {
	rule := domain.ValidationRule{
		Code:      "BUS-003",
		Category:  domain.CategoryBusiness,
		Severity:  domain.SeverityError,
		Kind:      domain.KindRequiresAccountType,
		Params:    domain.RuleParams{AccountType: domain.Liability},
		AppliesTo: domain.Adjusting,
		IsActive:  true,
	}

	input := suite.balancedInput()
	input.Rules = []domain.ValidationRule{rule}
	result, err := suite.validator.Validate(input)
	require.NoError(suite.T(), err)

	assert.Nil(suite.T(), suite.findResult(result, "BUS-003"), "rule scoped to adjusting entries must not run")
	assert.True(suite.T(), result.CanPost)
}

func (suite *EntryValidatorTestSuite) TestUnsupportedRuleKindIsConfigurationError() {
	rule := domain.ValidationRule{
		Code:     "BUS-666",
		Category: domain.CategoryCustom,
		Severity: domain.SeverityError,
		Kind:     domain.RuleKind("EXECUTE_SCRIPT"),
		IsActive: true,
	}

	input := suite.balancedInput()
	input.Rules = []domain.ValidationRule{rule}
	result, err := suite.validator.Validate(input)

	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConfiguration)
	assert.Contains(suite.T(), err.Error(), "BUS-666")
	assert.Nil(suite.T(), result)
}

func TestEntryValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(EntryValidatorTestSuite))
}
