package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/school_ledger/internal/apperrors"
	"github.com/SscSPs/school_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/school_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/school_ledger/internal/core/ports/services"
	"github.com/SscSPs/school_ledger/internal/core/services"
	"github.com/SscSPs/school_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CountChildAccounts(ctx context.Context, accountID string) (int, error) {
	args := m.Called(ctx, accountID)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) HasJournalLines(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockReportCache records invalidations.
type MockReportCache struct {
	mock.Mock
}

var _ portsrepo.ReportCache = (*MockReportCache)(nil)

func (m *MockReportCache) FetchJSON(ctx context.Context, tenantID string, key string, ttl time.Duration, dest any, loader func(ctx context.Context) (any, error)) error {
	args := m.Called(ctx, tenantID, key, ttl, dest, loader)
	return args.Error(0)
}

func (m *MockReportCache) Invalidate(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	mockRepo  *MockAccountRepository
	mockCache *MockReportCache
	service   portssvc.AccountSvcFacade
	caller    domain.Caller
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockAccountRepository)
	suite.mockCache = new(MockReportCache)
	suite.service = services.NewAccountService(suite.mockRepo,
		services.WithDefaultCurrency("kes"),
		services.WithAccountReportCache(suite.mockCache),
	)
	suite.caller = domain.Caller{UserID: "user-1", TenantID: schoolA, Role: domain.RoleAccountant}
}

func (suite *AccountServiceTestSuite) TearDownTest() {
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) account(code string, accountType domain.AccountType) *domain.Account {
	return &domain.Account{
		AccountID:    uuid.NewString(),
		TenantID:     schoolA,
		Code:         code,
		Name:         "Account " + code,
		AccountType:  accountType,
		Level:        1,
		CurrencyCode: "KES",
		IsActive:     true,
		Balance:      decimal.Zero,
	}
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_DerivesLevelFromParent() {
	parent := suite.account("1000", domain.Asset)
	parent.Level = 2
	parentID := parent.AccountID

	suite.mockRepo.On("FindAccountByCode", suite.ctx, schoolA, "1110").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", suite.ctx, parentID).Return(parent, nil).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Level == 3 && a.ParentAccountID == parentID && !a.IsSystem && a.CurrencyCode == "KES"
	})).Return(nil).Once()
	suite.mockCache.On("Invalidate", suite.ctx, schoolA).Return(nil).Once()

	created, err := suite.service.CreateAccount(suite.ctx, suite.caller, schoolA, dto.CreateAccountRequest{
		Code:            " 1110 ",
		Name:            "Cash Drawer",
		AccountType:     domain.Asset,
		ParentAccountID: &parentID,
	})

	suite.Require().NoError(err)
	suite.Equal("1110", created.Code)
	suite.Equal(3, created.Level)
	suite.True(created.IsActive)
	suite.True(created.Balance.IsZero())
	suite.Equal(suite.caller.UserID, created.CreatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RootGetsLevelOne() {
	suite.mockRepo.On("FindAccountByCode", suite.ctx, schoolA, "6000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()
	suite.mockCache.On("Invalidate", suite.ctx, schoolA).Return(nil).Once()

	created, err := suite.service.CreateAccount(suite.ctx, suite.caller, schoolA, dto.CreateAccountRequest{
		Code: "6000", Name: "Grants", AccountType: domain.Revenue, CurrencyCode: "usd",
	})

	suite.Require().NoError(err)
	suite.Equal(1, created.Level)
	suite.Empty(created.ParentAccountID)
	suite.Equal("USD", created.CurrencyCode)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	suite.mockRepo.On("FindAccountByCode", suite.ctx, schoolA, "1100").Return(suite.account("1100", domain.Asset), nil).Once()

	created, err := suite.service.CreateAccount(suite.ctx, suite.caller, schoolA, dto.CreateAccountRequest{
		Code: "1100", Name: "Cash", AccountType: domain.Asset,
	})

	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ParentFromAnotherSchool() {
	parent := suite.account("1000", domain.Asset)
	parent.TenantID = schoolB
	parentID := parent.AccountID

	suite.mockRepo.On("FindAccountByCode", suite.ctx, schoolA, "1110").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("FindAccountByID", suite.ctx, parentID).Return(parent, nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, suite.caller, schoolA, dto.CreateAccountRequest{
		Code: "1110", Name: "Cash Drawer", AccountType: domain.Asset, ParentAccountID: &parentID,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	suite.mockRepo.On("FindAccountByCode", suite.ctx, schoolA, "1110").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(assert.AnError).Once()

	created, err := suite.service.CreateAccount(suite.ctx, suite.caller, schoolA, dto.CreateAccountRequest{
		Code: "1110", Name: "Cash Drawer", AccountType: domain.Asset,
	})

	suite.Nil(created)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_OtherTenantForbidden() {
	_, err := suite.service.CreateAccount(suite.ctx, suite.caller, schoolB, dto.CreateAccountRequest{
		Code: "1110", Name: "Cash Drawer", AccountType: domain.Asset,
	})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(suite.ctx, suite.caller, schoolA, "missing")

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_CrossTenantForbidden() {
	foreign := suite.account("1100", domain.Asset)
	foreign.TenantID = schoolB
	suite.mockRepo.On("FindAccountByID", suite.ctx, foreign.AccountID).Return(foreign, nil).Once()

	account, err := suite.service.GetAccountByID(suite.ctx, suite.caller, schoolA, foreign.AccountID)

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SystemAccountRejected() {
	system := suite.account("1100", domain.Asset)
	system.IsSystem = true
	suite.mockRepo.On("FindAccountByID", suite.ctx, system.AccountID).Return(system, nil).Once()

	name := "Renamed"
	_, err := suite.service.UpdateAccount(suite.ctx, suite.caller, schoolA, system.AccountID, dto.UpdateAccountRequest{Name: &name})

	suite.ErrorIs(err, services.ErrSystemAccount)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Deactivate() {
	acc := suite.account("1150", domain.Asset)
	inactive := false
	suite.mockRepo.On("FindAccountByID", suite.ctx, acc.AccountID).Return(acc, nil).Once()
	suite.mockRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return !a.IsActive && a.LastUpdatedBy == suite.caller.UserID
	})).Return(nil).Once()
	suite.mockCache.On("Invalidate", suite.ctx, schoolA).Return(nil).Once()

	updated, err := suite.service.UpdateAccount(suite.ctx, suite.caller, schoolA, acc.AccountID, dto.UpdateAccountRequest{IsActive: &inactive})

	suite.Require().NoError(err)
	suite.False(updated.IsActive)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoChangesSkipsWrite() {
	acc := suite.account("1150", domain.Asset)
	same := acc.Name
	suite.mockRepo.On("FindAccountByID", suite.ctx, acc.AccountID).Return(acc, nil).Once()

	_, err := suite.service.UpdateAccount(suite.ctx, suite.caller, schoolA, acc.AccountID, dto.UpdateAccountRequest{Name: &same})

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Rules() {
	withChildren := suite.account("1000", domain.Asset)
	suite.mockRepo.On("FindAccountByID", suite.ctx, withChildren.AccountID).Return(withChildren, nil).Once()
	suite.mockRepo.On("CountChildAccounts", suite.ctx, withChildren.AccountID).Return(2, nil).Once()
	err := suite.service.DeleteAccount(suite.ctx, suite.caller, schoolA, withChildren.AccountID)
	suite.ErrorIs(err, services.ErrAccountHasChildren)
	suite.Contains(err.Error(), "deactivate instead")

	withHistory := suite.account("1150", domain.Asset)
	suite.mockRepo.On("FindAccountByID", suite.ctx, withHistory.AccountID).Return(withHistory, nil).Once()
	suite.mockRepo.On("CountChildAccounts", suite.ctx, withHistory.AccountID).Return(0, nil).Once()
	suite.mockRepo.On("HasJournalLines", suite.ctx, withHistory.AccountID).Return(true, nil).Once()
	err = suite.service.DeleteAccount(suite.ctx, suite.caller, schoolA, withHistory.AccountID)
	suite.ErrorIs(err, services.ErrAccountHasHistory)
	suite.Contains(err.Error(), "deactivate instead")

	system := suite.account("1100", domain.Asset)
	system.IsSystem = true
	suite.mockRepo.On("FindAccountByID", suite.ctx, system.AccountID).Return(system, nil).Once()
	err = suite.service.DeleteAccount(suite.ctx, suite.caller, schoolA, system.AccountID)
	suite.ErrorIs(err, services.ErrSystemAccount)
	suite.Contains(err.Error(), "deactivate instead")
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	acc := suite.account("1150", domain.Asset)
	suite.mockRepo.On("FindAccountByID", suite.ctx, acc.AccountID).Return(acc, nil).Once()
	suite.mockRepo.On("CountChildAccounts", suite.ctx, acc.AccountID).Return(0, nil).Once()
	suite.mockRepo.On("HasJournalLines", suite.ctx, acc.AccountID).Return(false, nil).Once()
	suite.mockRepo.On("DeleteAccount", suite.ctx, acc.AccountID).Return(nil).Once()
	suite.mockCache.On("Invalidate", suite.ctx, schoolA).Return(assert.AnError).Once()

	// A failed invalidation is logged, not returned.
	suite.NoError(suite.service.DeleteAccount(suite.ctx, suite.caller, schoolA, acc.AccountID))
}

func (suite *AccountServiceTestSuite) TestListAccounts_AnnotatesParentAndChildren() {
	root := suite.account("1000", domain.Asset)
	child := suite.account("1100", domain.Asset)
	child.ParentAccountID = root.AccountID
	child.Level = 2
	child.Balance = decimal.NewFromInt(75)
	assetType := domain.Asset
	filter := domain.AccountFilter{AccountType: &assetType}

	suite.mockRepo.On("ListAccounts", suite.ctx, schoolA, filter).Return([]domain.Account{*root, *child}, nil).Once()
	suite.mockRepo.On("ListAccounts", suite.ctx, schoolA, domain.AccountFilter{}).Return([]domain.Account{*root, *child}, nil).Once()

	items, err := suite.service.ListAccounts(suite.ctx, suite.caller, schoolA, filter)

	suite.Require().NoError(err)
	suite.Require().Len(items, 2)
	suite.Nil(items[0].Parent)
	suite.Require().Len(items[0].Children, 1)
	suite.Equal("1100", items[0].Children[0].Code)
	suite.True(items[0].Children[0].Balance.Equal(decimal.NewFromInt(75)))
	suite.Require().NotNil(items[1].Parent)
	suite.Equal("1000", items[1].Parent.Code)
	suite.Empty(items[1].Children)
}

func (suite *AccountServiceTestSuite) TestGetAccountTree_OnlyActiveAccounts() {
	root := suite.account("1000", domain.Asset)
	orphan := suite.account("1900", domain.Asset)
	orphan.ParentAccountID = "gone"
	active := true

	suite.mockRepo.On("ListAccounts", suite.ctx, schoolA, domain.AccountFilter{IsActive: &active}).Return([]domain.Account{*root, *orphan}, nil).Once()

	tree, err := suite.service.GetAccountTree(suite.ctx, suite.caller, schoolA)

	suite.Require().NoError(err)
	suite.Len(tree, 2, "a dangling parent makes the account a root")
}

func (suite *AccountServiceTestSuite) TestSeedDefaultAccounts_SkipsExistingCodes() {
	existing := suite.account("1100", domain.Asset)
	suite.mockRepo.On("ListAccounts", suite.ctx, schoolA, domain.AccountFilter{}).Return([]domain.Account{*existing}, nil).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.IsSystem && a.Code != "1100"
	})).Return(nil)
	suite.mockCache.On("Invalidate", suite.ctx, schoolA).Return(nil).Once()

	created, err := suite.service.SeedDefaultAccounts(suite.ctx, suite.caller, schoolA)

	suite.Require().NoError(err)
	suite.Len(created, 18)
	byCode := map[string]domain.Account{}
	for _, acc := range created {
		byCode[acc.Code] = acc
	}
	suite.Equal(byCode["1000"].AccountID, byCode["1200"].ParentAccountID)
	suite.Equal(2, byCode["1200"].Level)
	suite.Equal(1, byCode["4000"].Level)
}
