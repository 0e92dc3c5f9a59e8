package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/aurumgold/aurum_backend/internal/apperrors"
	"github.com/aurumgold/aurum_backend/internal/core/domain"
	portsrepo "github.com/aurumgold/aurum_backend/internal/core/ports/repositories"
	portssvc "github.com/aurumgold/aurum_backend/internal/core/ports/services"
	"github.com/aurumgold/aurum_backend/internal/core/services"
	"github.com/aurumgold/aurum_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string, since *time.Time) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken, since)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockLedgerRepository) SaveTransfer(ctx context.Context, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, transactions, balanceChanges)
	return args.Error(0)
}

func (m *MockLedgerRepository) SettleTransaction(ctx context.Context, transactionID string, status domain.TransactionStatus, balanceChanges map[string]decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, transactionID, status, balanceChanges, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock AccountRepository ---
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

func (m *MockAccountRepository) FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, userID, now)
	return args.Error(0)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock RateService ---
type MockRateService struct {
	mock.Mock
}

var _ portssvc.RateSvcFacade = (*MockRateService)(nil)

func (m *MockRateService) CurrentRate(ctx context.Context, asset string) (*domain.RateQuote, error) {
	args := m.Called(ctx, asset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateQuote), args.Error(1)
}

func (m *MockRateService) IngestRate(ctx context.Context, req dto.IngestRateRequest, actorUserID string) (*domain.RateQuote, error) {
	args := m.Called(ctx, req, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateQuote), args.Error(1)
}

// --- Test Suite ---
type TransferServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockAccountRepo *MockAccountRepository
	mockUserRepo    *MockUserRepository
	mockRateSvc     *MockRateService
	service         portssvc.TransferSvcFacade

	userID  string
	account domain.Account
	quote   domain.RateQuote
}

func (s *TransferServiceTestSuite) SetupTest() {
	s.mockLedgerRepo = new(MockLedgerRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.mockRateSvc = new(MockRateService)

	validator := services.NewIntentValidator(decimal.RequireFromString("10.00"))
	s.service = services.NewTransferService(s.mockLedgerRepo, s.mockAccountRepo, s.mockUserRepo, s.mockRateSvc, validator, "XAU")

	s.userID = uuid.NewString()
	s.account = domain.Account{
		AccountID: uuid.NewString(),
		UserID:    s.userID,
		Balance:   decimal.RequireFromString("2.0000"),
		IsActive:  true,
	}
	s.quote = domain.RateQuote{
		RateID: uuid.NewString(),
		Asset:  "XAU",
		Price:  decimal.RequireFromString("1850.25"),
		AsOf:   time.Now().UTC(),
	}
}

func (s *TransferServiceTestSuite) expectAccount() {
	s.mockAccountRepo.On("FindAccountByID", mock.Anything, s.account.AccountID).Return(&s.account, nil).Once()
}

func (s *TransferServiceTestSuite) TestPurchaseSuccess() {
	ctx := context.Background()
	s.expectAccount()
	s.mockRateSvc.On("CurrentRate", ctx, "XAU").Return(&s.quote, nil).Once()
	s.mockLedgerRepo.On("SaveTransfer", ctx, mock.AnythingOfType("[]domain.Transaction"), mock.AnythingOfType("map[string]decimal.Decimal")).Return(nil).Once()

	txn, err := s.service.ApplyTransfer(ctx, s.account.AccountID, domain.PurchaseIntent{USDAmount: decimal.RequireFromString("100.00")})

	s.Require().NoError(err)
	s.Require().NotNil(txn)
	s.Equal(domain.KindPurchase, txn.Kind)
	s.Equal(domain.StatusCompleted, txn.Status)
	// 100.00 / 1850.25 rounds to 0.0540 at 4 decimal places
	s.Equal("0.0540", txn.Amount.StringFixed(4))
	s.Require().NotNil(txn.USDAmount)
	s.Equal("100.00", txn.USDAmount.StringFixed(2))
	s.Require().NotNil(txn.RatePrice)
	s.Equal("1850.25", txn.RatePrice.StringFixed(2))

	savedChanges := s.mockLedgerRepo.Calls[0].Arguments.Get(2).(map[string]decimal.Decimal)
	s.True(savedChanges[s.account.AccountID].Equal(txn.Amount))

	s.mockLedgerRepo.AssertExpectations(s.T())
	s.mockRateSvc.AssertExpectations(s.T())
}

func (s *TransferServiceTestSuite) TestPurchaseBelowMinimumRejected() {
	ctx := context.Background()

	_, err := s.service.ApplyTransfer(ctx, s.account.AccountID, domain.PurchaseIntent{USDAmount: decimal.RequireFromString("9.99")})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockAccountRepo.AssertNotCalled(s.T(), "FindAccountByID", mock.Anything, mock.Anything)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransferServiceTestSuite) TestPurchaseRateUnavailable() {
	ctx := context.Background()
	s.expectAccount()
	s.mockRateSvc.On("CurrentRate", ctx, "XAU").Return(nil, apperrors.ErrRateUnavailable).Once()

	_, err := s.service.ApplyTransfer(ctx, s.account.AccountID, domain.PurchaseIntent{USDAmount: decimal.RequireFromString("100.00")})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrRateUnavailable)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransferServiceTestSuite) TestSendSuccessWritesBothLegs() {
	ctx := context.Background()
	recipientUser := domain.User{UserID: uuid.NewString(), Email: "friend@example.com"}
	recipientAccount := domain.Account{AccountID: uuid.NewString(), UserID: recipientUser.UserID, IsActive: true}
	senderUser := domain.User{UserID: s.userID, Email: "me@example.com"}

	s.expectAccount()
	s.mockUserRepo.On("FindUserByEmail", ctx, "friend@example.com").Return(&recipientUser, nil).Once()
	s.mockAccountRepo.On("FindAccountByUserID", ctx, recipientUser.UserID).Return(&recipientAccount, nil).Once()
	s.mockUserRepo.On("FindUserByID", ctx, s.userID).Return(&senderUser, nil).Once()
	s.mockLedgerRepo.On("SaveTransfer", ctx, mock.AnythingOfType("[]domain.Transaction"), mock.AnythingOfType("map[string]decimal.Decimal")).Return(nil).Once()

	amount := decimal.RequireFromString("0.7500")
	txn, err := s.service.ApplyTransfer(ctx, s.account.AccountID, domain.SendIntent{
		RecipientEmail: "friend@example.com",
		Amount:         amount,
	})

	s.Require().NoError(err)
	s.Equal(domain.KindSend, txn.Kind)
	s.Equal(domain.StatusCompleted, txn.Status)
	s.Equal("friend@example.com", txn.CounterpartyEmail)

	var saveCall *mock.Call
	for i := range s.mockLedgerRepo.Calls {
		if s.mockLedgerRepo.Calls[i].Method == "SaveTransfer" {
			saveCall = &s.mockLedgerRepo.Calls[i]
		}
	}
	s.Require().NotNil(saveCall)

	legs := saveCall.Arguments.Get(1).([]domain.Transaction)
	s.Require().Len(legs, 2)
	s.Equal(domain.KindSend, legs[0].Kind)
	s.Equal(domain.KindReceive, legs[1].Kind)
	s.Equal(legs[0].TransferID, legs[1].TransferID)
	s.Equal(recipientAccount.AccountID, legs[1].AccountID)
	s.Equal("me@example.com", legs[1].CounterpartyEmail)

	changes := saveCall.Arguments.Get(2).(map[string]decimal.Decimal)
	s.True(changes[s.account.AccountID].Equal(amount.Neg()))
	s.True(changes[recipientAccount.AccountID].Equal(amount))

	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *TransferServiceTestSuite) TestSendInsufficientBalancePreCheck() {
	ctx := context.Background()
	s.expectAccount()

	_, err := s.service.ApplyTransfer(ctx, s.account.AccountID, domain.SendIntent{
		RecipientEmail: "friend@example.com",
		Amount:         decimal.RequireFromString("5.0000"),
	})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.mockUserRepo.AssertNotCalled(s.T(), "FindUserByEmail", mock.Anything, mock.Anything)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransferServiceTestSuite) TestSendInsufficientBalanceUnderLock() {
	ctx := context.Background()
	recipientUser := domain.User{UserID: uuid.NewString(), Email: "friend@example.com"}
	recipientAccount := domain.Account{AccountID: uuid.NewString(), UserID: recipientUser.UserID, IsActive: true}
	senderUser := domain.User{UserID: s.userID, Email: "me@example.com"}

	s.expectAccount()
	s.mockUserRepo.On("FindUserByEmail", ctx, "friend@example.com").Return(&recipientUser, nil).Once()
	s.mockAccountRepo.On("FindAccountByUserID", ctx, recipientUser.UserID).Return(&recipientAccount, nil).Once()
	s.mockUserRepo.On("FindUserByID", ctx, s.userID).Return(&senderUser, nil).Once()
	// A concurrent debit won the race, the authoritative check fails
	s.mockLedgerRepo.On("SaveTransfer", ctx, mock.Anything, mock.Anything).Return(apperrors.ErrInsufficientBalance).Once()

	_, err := s.service.ApplyTransfer(ctx, s.account.AccountID, domain.SendIntent{
		RecipientEmail: "friend@example.com",
		Amount:         decimal.RequireFromString("1.0000"),
	})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *TransferServiceTestSuite) TestSendToUnknownRecipientRejected() {
	ctx := context.Background()
	s.expectAccount()
	s.mockUserRepo.On("FindUserByEmail", ctx, "stranger@example.com").Return(nil, apperrors.ErrNotFound).Once()

	_, err := s.service.ApplyTransfer(ctx, s.account.AccountID, domain.SendIntent{
		RecipientEmail: "stranger@example.com",
		Amount:         decimal.RequireFromString("0.5000"),
	})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransferServiceTestSuite) TestSendToSelfRejected() {
	ctx := context.Background()
	selfUser := domain.User{UserID: s.userID, Email: "me@example.com"}

	s.expectAccount()
	s.mockUserRepo.On("FindUserByEmail", ctx, "me@example.com").Return(&selfUser, nil).Once()
	s.mockAccountRepo.On("FindAccountByUserID", ctx, s.userID).Return(&s.account, nil).Once()

	_, err := s.service.ApplyTransfer(ctx, s.account.AccountID, domain.SendIntent{
		RecipientEmail: "me@example.com",
		Amount:         decimal.RequireFromString("0.5000"),
	})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TransferServiceTestSuite) TestReturnCreatesPendingDebit() {
	ctx := context.Background()
	s.expectAccount()
	s.mockRateSvc.On("CurrentRate", ctx, "XAU").Return(&s.quote, nil).Once()
	s.mockLedgerRepo.On("SaveTransfer", ctx, mock.AnythingOfType("[]domain.Transaction"), mock.AnythingOfType("map[string]decimal.Decimal")).Return(nil).Once()

	amount := decimal.RequireFromString("1.0000")
	txn, err := s.service.ApplyTransfer(ctx, s.account.AccountID, domain.ReturnIntent{
		Amount:      amount,
		BankAccount: "DE89370400440532013000",
	})

	s.Require().NoError(err)
	s.Equal(domain.KindReturn, txn.Kind)
	s.Equal(domain.StatusPending, txn.Status)
	s.Require().NotNil(txn.USDAmount)
	// 1.0000 * 1850.25 = 1850.25 USD
	s.Equal("1850.25", txn.USDAmount.StringFixed(2))

	changes := s.mockLedgerRepo.Calls[0].Arguments.Get(2).(map[string]decimal.Decimal)
	s.True(changes[s.account.AccountID].Equal(amount.Neg()))

	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *TransferServiceTestSuite) TestReturnInsufficientBalanceRejected() {
	ctx := context.Background()
	s.expectAccount()

	_, err := s.service.ApplyTransfer(ctx, s.account.AccountID, domain.ReturnIntent{
		Amount:      decimal.RequireFromString("3.0000"),
		BankAccount: "DE89370400440532013000",
	})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInsufficientBalance)
	s.mockRateSvc.AssertNotCalled(s.T(), "CurrentRate", mock.Anything, mock.Anything)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransferServiceTestSuite) TestInactiveAccountRejected() {
	ctx := context.Background()
	inactive := s.account
	inactive.IsActive = false
	s.mockAccountRepo.On("FindAccountByID", mock.Anything, s.account.AccountID).Return(&inactive, nil).Once()

	_, err := s.service.ApplyTransfer(ctx, s.account.AccountID, domain.PurchaseIntent{USDAmount: decimal.RequireFromString("50.00")})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *TransferServiceTestSuite) TestSettleReturnApprove() {
	ctx := context.Background()
	pending := &domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     s.account.AccountID,
		Kind:          domain.KindReturn,
		Amount:        decimal.RequireFromString("1.0000"),
		Status:        domain.StatusPending,
	}
	s.mockLedgerRepo.On("FindTransactionByID", ctx, pending.TransactionID).Return(pending, nil).Once()
	s.mockLedgerRepo.On("SettleTransaction", ctx, pending.TransactionID, domain.StatusCompleted, mock.Anything, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	txn, err := s.service.SettleReturn(ctx, pending.TransactionID, true, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.StatusCompleted, txn.Status)

	// Approval must not move any balance
	for _, call := range s.mockLedgerRepo.Calls {
		if call.Method == "SettleTransaction" {
			s.Nil(call.Arguments.Get(3))
		}
	}
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *TransferServiceTestSuite) TestSettleReturnRejectRecredits() {
	ctx := context.Background()
	amount := decimal.RequireFromString("1.2500")
	pending := &domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     s.account.AccountID,
		Kind:          domain.KindReturn,
		Amount:        amount,
		Status:        domain.StatusPending,
	}
	s.mockLedgerRepo.On("FindTransactionByID", ctx, pending.TransactionID).Return(pending, nil).Once()
	s.mockLedgerRepo.On("SettleTransaction", ctx, pending.TransactionID, domain.StatusFailed, mock.Anything, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	txn, err := s.service.SettleReturn(ctx, pending.TransactionID, false, s.userID)

	s.Require().NoError(err)
	s.Equal(domain.StatusFailed, txn.Status)

	for _, call := range s.mockLedgerRepo.Calls {
		if call.Method == "SettleTransaction" {
			changes := call.Arguments.Get(3).(map[string]decimal.Decimal)
			s.True(changes[s.account.AccountID].Equal(amount))
		}
	}
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *TransferServiceTestSuite) TestSettleNonPendingRejected() {
	ctx := context.Background()
	completed := &domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     s.account.AccountID,
		Kind:          domain.KindReturn,
		Amount:        decimal.RequireFromString("1.0000"),
		Status:        domain.StatusCompleted,
	}
	s.mockLedgerRepo.On("FindTransactionByID", ctx, completed.TransactionID).Return(completed, nil).Once()

	_, err := s.service.SettleReturn(ctx, completed.TransactionID, true, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SettleTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *TransferServiceTestSuite) TestSettleNonReturnRejected() {
	ctx := context.Background()
	purchase := &domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     s.account.AccountID,
		Kind:          domain.KindPurchase,
		Amount:        decimal.RequireFromString("0.0540"),
		Status:        domain.StatusCompleted,
	}
	s.mockLedgerRepo.On("FindTransactionByID", ctx, purchase.TransactionID).Return(purchase, nil).Once()

	_, err := s.service.SettleReturn(ctx, purchase.TransactionID, true, s.userID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
