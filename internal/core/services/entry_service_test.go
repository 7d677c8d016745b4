package services_test

import (
	"context"
	"fmt"
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
	portssvc "github.com/jash90/ledger_posting_app/internal/core/ports/services"
	"github.com/jash90/ledger_posting_app/internal/core/services"
	"github.com/jash90/ledger_posting_app/internal/dto"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, organizationID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, organizationID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, organizationID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountTree(ctx context.Context, organizationID string) ([]*domain.AccountNode, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AccountNode), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, organizationID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, organizationID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, organizationID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, organizationID string, accountID string, userID string) error {
	args := m.Called(ctx, organizationID, accountID, userID)
	return args.Error(0)
}

// --- Mock PeriodReaderService ---
type MockPeriodReaderService struct {
	mock.Mock
}

var _ portssvc.PeriodReaderSvc = (*MockPeriodReaderService)(nil)

func (m *MockPeriodReaderService) GetPeriodByID(ctx context.Context, organizationID string, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, organizationID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodReaderService) GetPeriodForDate(ctx context.Context, organizationID string, date time.Time) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, organizationID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodReaderService) ListPeriods(ctx context.Context, organizationID string, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, organizationID, fiscalYearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

// --- Test Suite Setup ---
type EntryServiceTestSuite struct {
	suite.Suite
	mockEntryRepo  *MockEntryRepository
	mockAccountSvc *MockAccountService
	mockPeriodSvc  *MockPeriodReaderService
	mockOrgSvc     *MockOrganizationService
	mockRuleRepo   *MockRuleRepository
	mockAuditRepo  *MockAuditRecorder
	service        portssvc.EntrySvcFacade
	ctx            context.Context
	organizationID string
	userID         string
	org            domain.Organization
	cashAccount    domain.Account
	revenueAccount domain.Account
	openPeriod     domain.AccountingPeriod
	entryDate      time.Time
}

func (suite *EntryServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockPeriodSvc = new(MockPeriodReaderService)
	suite.mockOrgSvc = new(MockOrganizationService)
	suite.mockRuleRepo = new(MockRuleRepository)
	suite.mockAuditRepo = new(MockAuditRecorder)
	suite.service = services.NewEntryService(
		suite.mockEntryRepo,
		suite.mockAccountSvc,
		suite.mockPeriodSvc,
		suite.mockOrgSvc,
		suite.mockRuleRepo,
		suite.mockAuditRepo,
	)

	suite.ctx = context.Background()
	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.entryDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	suite.org = domain.Organization{
		OrganizationID:   suite.organizationID,
		Name:             "Acme sp. z o.o.",
		BaseCurrencyCode: "PLN",
		IsActive:         true,
	}
	suite.cashAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "1000",
		AccountType:    domain.Asset,
		IsActive:       true,
		AllowPosting:   true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:      uuid.NewString(),
		OrganizationID: suite.organizationID,
		Code:           "7000",
		AccountType:    domain.Revenue,
		IsActive:       true,
		AllowPosting:   true,
	}
	suite.openPeriod = domain.AccountingPeriod{
		PeriodID:       uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "2026-03",
		Number:         3,
		StartDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Status:         domain.StatusOpen,
		PeriodType:     domain.PeriodRegular,
	}
}

func (suite *EntryServiceTestSuite) createRequest() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		Date:        suite.entryDate,
		Description: "Cash sale",
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500), CurrencyCode: "PLN"},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(500), CurrencyCode: "PLN"},
		},
	}
}

// storedLines mirrors what CreateEntry persists for the standard two-line
// cash sale.
func (suite *EntryServiceTestSuite) storedLines(entryID string) []domain.EntryLine {
	one := decimal.NewFromInt(1)
	return []domain.EntryLine{
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(500), CurrencyCode: "PLN", ExchangeRate: one},
		{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(500), CurrencyCode: "PLN", ExchangeRate: one},
	}
}

func (suite *EntryServiceTestSuite) TestCreateEntryDefaultsToDraftStandard() {
	var savedEntry domain.JournalEntry
	var savedLines []domain.EntryLine
	suite.mockOrgSvc.On("GetOrganizationByID", suite.ctx, suite.organizationID).Return(&suite.org, nil)
	suite.mockEntryRepo.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.EntryLine"), mock.Anything).
		Run(func(args mock.Arguments) {
			savedEntry = args.Get(1).(domain.JournalEntry)
			savedLines = args.Get(2).([]domain.EntryLine)
		}).Return(nil)

	entry, err := suite.service.CreateEntry(suite.ctx, suite.organizationID, suite.createRequest(), suite.userID)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), domain.Draft, entry.Status)
	assert.Equal(suite.T(), domain.Standard, entry.EntryType)
	assert.Nil(suite.T(), entry.PeriodID, "the period is resolved at posting time")
	assert.Equal(suite.T(), savedEntry.EntryID, entry.EntryID)

	require.Len(suite.T(), savedLines, 2)
	assert.True(suite.T(), savedLines[0].ExchangeRate.Equal(decimal.NewFromInt(1)), "base-currency lines default to a unity rate")
	assert.Equal(suite.T(), savedEntry.EntryID, savedLines[0].EntryID)
}

func (suite *EntryServiceTestSuite) TestCreateEntrySubmitMakesPending() {
	req := suite.createRequest()
	req.Submit = true

	suite.mockOrgSvc.On("GetOrganizationByID", suite.ctx, suite.organizationID).Return(&suite.org, nil)
	suite.mockEntryRepo.On("SaveEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.EntryLine"), mock.Anything).Return(nil)

	entry, err := suite.service.CreateEntry(suite.ctx, suite.organizationID, req, suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), domain.Pending, entry.Status)
}

func (suite *EntryServiceTestSuite) TestCreateEntryRejectsSingleLine() {
	req := suite.createRequest()
	req.Lines = req.Lines[:1]

	_, err := suite.service.CreateEntry(suite.ctx, suite.organizationID, req, suite.userID)
	assert.ErrorIs(suite.T(), err, services.ErrEntryMinLines)
}

func (suite *EntryServiceTestSuite) TestCreateEntryRejectsSingleAccount() {
	req := suite.createRequest()
	req.Lines[1].AccountID = suite.cashAccount.AccountID

	_, err := suite.service.CreateEntry(suite.ctx, suite.organizationID, req, suite.userID)
	assert.ErrorIs(suite.T(), err, services.ErrEntryMinAccounts)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestCreateEntryRequiresDescription() {
	req := suite.createRequest()
	req.Description = ""

	_, err := suite.service.CreateEntry(suite.ctx, suite.organizationID, req, suite.userID)
	assert.ErrorIs(suite.T(), err, services.ErrDescriptionMissing)
}

func (suite *EntryServiceTestSuite) TestGetEntryHidesOtherOrganizations() {
	entry := &domain.JournalEntry{
		EntryID:        uuid.NewString(),
		OrganizationID: uuid.NewString(),
		Status:         domain.Draft,
	}
	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil)

	_, err := suite.service.GetEntryByID(suite.ctx, suite.organizationID, entry.EntryID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestUpdateEntryRejectsNonDraft() {
	entry := &domain.JournalEntry{
		EntryID:        uuid.NewString(),
		OrganizationID: suite.organizationID,
		Status:         domain.Pending,
	}
	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(entry, nil)

	desc := "revised"
	_, err := suite.service.UpdateEntry(suite.ctx, suite.organizationID, entry.EntryID, dto.UpdateEntryRequest{Description: &desc}, suite.userID)
	assert.ErrorIs(suite.T(), err, services.ErrEntryNotDraft)
}

func (suite *EntryServiceTestSuite) TestListEntriesDefaultsLimit() {
	suite.mockEntryRepo.On("ListEntriesByOrganization", suite.ctx, suite.organizationID, 20, (*string)(nil)).
		Return([]domain.JournalEntry{}, nil, nil)

	resp, err := suite.service.ListEntries(suite.ctx, suite.organizationID, dto.ListEntriesParams{})
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), resp.Entries)
	suite.mockEntryRepo.AssertExpectations(suite.T())
}

func (suite *EntryServiceTestSuite) TestPostEntryMovesBalances() {
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		EntryDate:      suite.entryDate,
		EntryType:      domain.Standard,
		Status:         domain.Draft,
		Description:    "Cash sale",
	}
	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(entry, nil)
	suite.mockEntryRepo.On("FindLinesByEntryID", suite.ctx, entryID).Return(suite.storedLines(entryID), nil)
	suite.mockOrgSvc.On("GetOrganizationByID", suite.ctx, suite.organizationID).Return(&suite.org, nil)
	suite.mockAccountSvc.On("GetAccountsByIDs", suite.ctx, suite.organizationID, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{
			suite.cashAccount.AccountID:    suite.cashAccount,
			suite.revenueAccount.AccountID: suite.revenueAccount,
		}, nil)
	suite.mockPeriodSvc.On("GetPeriodForDate", suite.ctx, suite.organizationID, suite.entryDate).Return(&suite.openPeriod, nil)
	suite.mockRuleRepo.On("ListActiveRules", suite.ctx, suite.organizationID, domain.Standard).Return([]domain.ValidationRule{}, nil)

	var changes map[string]decimal.Decimal
	suite.mockEntryRepo.On("MarkEntryPosted", suite.ctx, entryID, domain.Draft, suite.openPeriod.PeriodID, mock.AnythingOfType("map[string]decimal.Decimal"), suite.userID, mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			changes = args.Get(4).(map[string]decimal.Decimal)
		}).Return(nil)
	suite.mockAuditRepo.On("RecordEvent", suite.ctx, mock.AnythingOfType("domain.AuditEvent")).Return(nil)

	posted, verdict, err := suite.service.PostEntry(suite.ctx, suite.organizationID, entryID, suite.userID)
	require.NoError(suite.T(), err)

	assert.True(suite.T(), verdict.CanPost)
	assert.Equal(suite.T(), domain.Posted, posted.Status)
	require.NotNil(suite.T(), posted.PeriodID)
	assert.Equal(suite.T(), suite.openPeriod.PeriodID, *posted.PeriodID)

	// Both sides grow on their normal-balance side.
	assert.True(suite.T(), changes[suite.cashAccount.AccountID].Equal(decimal.NewFromInt(500)))
	assert.True(suite.T(), changes[suite.revenueAccount.AccountID].Equal(decimal.NewFromInt(500)))
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

// A year-end close can flip the period to CLOSED between validation and the
// posting transaction; the repository surfaces that as a conflict and the
// service must hand it through untouched.
func (suite *EntryServiceTestSuite) TestPostEntryConflictsWhenPeriodClosesMidPost() {
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		EntryDate:      suite.entryDate,
		EntryType:      domain.Standard,
		Status:         domain.Draft,
		Description:    "Cash sale",
	}
	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(entry, nil)
	suite.mockEntryRepo.On("FindLinesByEntryID", suite.ctx, entryID).Return(suite.storedLines(entryID), nil)
	suite.mockOrgSvc.On("GetOrganizationByID", suite.ctx, suite.organizationID).Return(&suite.org, nil)
	suite.mockAccountSvc.On("GetAccountsByIDs", suite.ctx, suite.organizationID, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{
			suite.cashAccount.AccountID:    suite.cashAccount,
			suite.revenueAccount.AccountID: suite.revenueAccount,
		}, nil)
	suite.mockPeriodSvc.On("GetPeriodForDate", suite.ctx, suite.organizationID, suite.entryDate).Return(&suite.openPeriod, nil)
	suite.mockRuleRepo.On("ListActiveRules", suite.ctx, suite.organizationID, domain.Standard).Return([]domain.ValidationRule{}, nil)

	suite.mockEntryRepo.On("MarkEntryPosted", suite.ctx, entryID, domain.Draft, suite.openPeriod.PeriodID, mock.AnythingOfType("map[string]decimal.Decimal"), suite.userID, mock.AnythingOfType("time.Time")).
		Return(fmt.Errorf("%w: period %s closed before entry %s could post", apperrors.ErrConflict, suite.openPeriod.PeriodID, entryID))

	_, _, err := suite.service.PostEntry(suite.ctx, suite.organizationID, entryID, suite.userID)
	assert.ErrorIs(suite.T(), err, apperrors.ErrConflict)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "RecordEvent", mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestPostEntryRejectsAlreadyPosted() {
	entryID := uuid.NewString()
	periodID := suite.openPeriod.PeriodID
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		Status:         domain.Posted,
		PeriodID:       &periodID,
	}
	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(entry, nil)
	suite.mockEntryRepo.On("FindLinesByEntryID", suite.ctx, entryID).Return(suite.storedLines(entryID), nil)

	_, _, err := suite.service.PostEntry(suite.ctx, suite.organizationID, entryID, suite.userID)
	assert.ErrorIs(suite.T(), err, services.ErrEntryPosted)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryServiceTestSuite) TestPostEntryRefusedWhenImbalanced() {
	entryID := uuid.NewString()
	entry := &domain.JournalEntry{
		EntryID:        entryID,
		OrganizationID: suite.organizationID,
		EntryDate:      suite.entryDate,
		EntryType:      domain.Standard,
		Status:         domain.Draft,
	}
	lines := suite.storedLines(entryID)
	lines[1].Credit = decimal.NewFromInt(450)

	suite.mockEntryRepo.On("FindEntryByID", suite.ctx, entryID).Return(entry, nil)
	suite.mockEntryRepo.On("FindLinesByEntryID", suite.ctx, entryID).Return(lines, nil)
	suite.mockOrgSvc.On("GetOrganizationByID", suite.ctx, suite.organizationID).Return(&suite.org, nil)
	suite.mockAccountSvc.On("GetAccountsByIDs", suite.ctx, suite.organizationID, mock.AnythingOfType("[]string")).
		Return(map[string]domain.Account{
			suite.cashAccount.AccountID:    suite.cashAccount,
			suite.revenueAccount.AccountID: suite.revenueAccount,
		}, nil)
	suite.mockPeriodSvc.On("GetPeriodForDate", suite.ctx, suite.organizationID, suite.entryDate).Return(&suite.openPeriod, nil)
	suite.mockRuleRepo.On("ListActiveRules", suite.ctx, suite.organizationID, domain.Standard).Return([]domain.ValidationRule{}, nil)

	_, verdict, err := suite.service.PostEntry(suite.ctx, suite.organizationID, entryID, suite.userID)
	assert.ErrorIs(suite.T(), err, services.ErrEntryNotPostable)

	require.NotNil(suite.T(), verdict, "the verdict explains the refusal")
	assert.False(suite.T(), verdict.CanPost)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EntryServiceTestSuite))
}
