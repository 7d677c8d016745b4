package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/jash90/ledger_posting_app/internal/apperrors"
	"github.com/jash90/ledger_posting_app/internal/core/domain"
	portsrepo "github.com/jash90/ledger_posting_app/internal/core/ports/repositories"
	portssvc "github.com/jash90/ledger_posting_app/internal/core/ports/services"
	"github.com/jash90/ledger_posting_app/internal/core/services"
	"github.com/jash90/ledger_posting_app/internal/dto"
)

// --- Mock RuleRepository ---
type MockRuleRepository struct {
	mock.Mock
}

var _ portsrepo.RuleRepositoryFacade = (*MockRuleRepository)(nil)

func (m *MockRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.ValidationRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationRule), args.Error(1)
}

func (m *MockRuleRepository) ListActiveRules(ctx context.Context, organizationID string, entryType domain.EntryType) ([]domain.ValidationRule, error) {
	args := m.Called(ctx, organizationID, entryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationRule), args.Error(1)
}

func (m *MockRuleRepository) ListRules(ctx context.Context, organizationID string) ([]domain.ValidationRule, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationRule), args.Error(1)
}

func (m *MockRuleRepository) SaveRule(ctx context.Context, rule domain.ValidationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockRuleRepository) SetRuleActive(ctx context.Context, ruleID string, active bool, userID string, now time.Time) error {
	args := m.Called(ctx, ruleID, active, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type RuleServiceTestSuite struct {
	suite.Suite
	mockRuleRepo   *MockRuleRepository
	mockAuditRepo  *MockAuditRecorder
	service        portssvc.RuleSvcFacade
	ctx            context.Context
	organizationID string
	userID         string
}

func (suite *RuleServiceTestSuite) SetupTest() {
	suite.mockRuleRepo = new(MockRuleRepository)
	suite.mockAuditRepo = new(MockAuditRecorder)
	suite.service = services.NewRuleService(suite.mockRuleRepo, suite.mockAuditRepo)
	suite.ctx = context.Background()
	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *RuleServiceTestSuite) TestCreateRule() {
	req := dto.CreateRuleRequest{
		Code:     "BUS-001",
		Name:     "Sales entries must touch revenue",
		Category: domain.CategoryBusiness,
		Severity: domain.SeverityError,
		Kind:     domain.KindRequiresAccountType,
		Params:   dto.RuleParamsRequest{AccountType: domain.Revenue},
	}

	var saved domain.ValidationRule
	suite.mockRuleRepo.On("SaveRule", suite.ctx, mock.AnythingOfType("domain.ValidationRule")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.ValidationRule)
		}).Return(nil)

	rule, err := suite.service.CreateRule(suite.ctx, suite.organizationID, req, suite.userID)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), rule.IsActive)
	assert.Equal(suite.T(), suite.organizationID, saved.OrganizationID)
	assert.Equal(suite.T(), domain.Revenue, saved.Params.AccountType)
	assert.Equal(suite.T(), suite.userID, saved.CreatedBy)
}

func (suite *RuleServiceTestSuite) TestCreateRuleRejectsUnknownKind() {
	req := dto.CreateRuleRequest{
		Code:     "BUS-666",
		Name:     "Scripted condition",
		Category: domain.CategoryCustom,
		Severity: domain.SeverityError,
		Kind:     domain.RuleKind("EXECUTE_SCRIPT"),
	}

	_, err := suite.service.CreateRule(suite.ctx, suite.organizationID, req, suite.userID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConfiguration)
	assert.Contains(suite.T(), err.Error(), "EXECUTE_SCRIPT")
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "SaveRule", mock.Anything, mock.Anything)
}

func (suite *RuleServiceTestSuite) TestCreateRuleRequiresAccountTypeParam() {
	req := dto.CreateRuleRequest{
		Code:     "BUS-002",
		Name:     "Needs a type",
		Category: domain.CategoryBusiness,
		Severity: domain.SeverityError,
		Kind:     domain.KindRequiresAccountType,
	}

	_, err := suite.service.CreateRule(suite.ctx, suite.organizationID, req, suite.userID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConfiguration)
}

func (suite *RuleServiceTestSuite) TestCreateRuleRequiresPositiveMaxAmount() {
	req := dto.CreateRuleRequest{
		Code:     "BUS-003",
		Name:     "Line cap",
		Category: domain.CategoryBusiness,
		Severity: domain.SeverityWarning,
		Kind:     domain.KindMaxLineAmount,
		Params:   dto.RuleParamsRequest{MaxAmount: decimal.NewFromInt(-50)},
	}

	_, err := suite.service.CreateRule(suite.ctx, suite.organizationID, req, suite.userID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConfiguration)
}

func (suite *RuleServiceTestSuite) TestToggleRuleRecordsAudit() {
	rule := domain.ValidationRule{
		RuleID:         uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "BUS-001",
		Kind:           domain.KindMaxLineAmount,
		IsActive:       true,
	}
	suite.mockRuleRepo.On("FindRuleByID", suite.ctx, rule.RuleID).Return(&rule, nil)
	suite.mockRuleRepo.On("SetRuleActive", suite.ctx, rule.RuleID, false, suite.userID, mock.AnythingOfType("time.Time")).Return(nil)

	var event domain.AuditEvent
	suite.mockAuditRepo.On("RecordEvent", suite.ctx, mock.AnythingOfType("domain.AuditEvent")).
		Run(func(args mock.Arguments) {
			event = args.Get(1).(domain.AuditEvent)
		}).Return(nil)

	toggled, err := suite.service.ToggleRule(suite.ctx, suite.organizationID, rule.RuleID, false, suite.userID)
	require.NoError(suite.T(), err)

	assert.False(suite.T(), toggled.IsActive)
	assert.Equal(suite.T(), domain.ActionRuleToggled, event.Action)
	assert.Equal(suite.T(), "true", event.Before)
	assert.Equal(suite.T(), "false", event.After)
}

func (suite *RuleServiceTestSuite) TestToggleRuleNoopWhenUnchanged() {
	rule := domain.ValidationRule{
		RuleID:         uuid.NewString(),
		OrganizationID: suite.organizationID,
		IsActive:       true,
	}
	suite.mockRuleRepo.On("FindRuleByID", suite.ctx, rule.RuleID).Return(&rule, nil)

	toggled, err := suite.service.ToggleRule(suite.ctx, suite.organizationID, rule.RuleID, true, suite.userID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), toggled.IsActive)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "SetRuleActive", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RuleServiceTestSuite) TestToggleRuleWrongOrganization() {
	rule := domain.ValidationRule{
		RuleID:         uuid.NewString(),
		OrganizationID: uuid.NewString(),
		IsActive:       true,
	}
	suite.mockRuleRepo.On("FindRuleByID", suite.ctx, rule.RuleID).Return(&rule, nil)

	_, err := suite.service.ToggleRule(suite.ctx, suite.organizationID, rule.RuleID, false, suite.userID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func TestRuleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RuleServiceTestSuite))
}
