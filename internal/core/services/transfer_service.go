package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aurumgold/aurum_backend/internal/apperrors"
	"github.com/aurumgold/aurum_backend/internal/core/domain"
	portsrepo "github.com/aurumgold/aurum_backend/internal/core/ports/repositories"
	portssvc "github.com/aurumgold/aurum_backend/internal/core/ports/services"
	"github.com/aurumgold/aurum_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// transferService converts validated intents into durable, consistent ledger
// state. All balance mutation in the system goes through this service and the
// ledger repository's atomic write.
type transferService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	userRepo    portsrepo.UserRepositoryFacade
	rateSvc     portssvc.RateSvcFacade
	validator   *IntentValidator
	assetCode   string
}

// NewTransferService creates a new TransferService.
func NewTransferService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	userRepo portsrepo.UserRepositoryFacade,
	rateSvc portssvc.RateSvcFacade,
	validator *IntentValidator,
	assetCode string,
) portssvc.TransferSvcFacade {
	return &transferService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		userRepo:    userRepo,
		rateSvc:     rateSvc,
		validator:   validator,
		assetCode:   assetCode,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// ApplyTransfer validates the intent, computes the resulting balance change and
// persists transaction row(s) plus balance effect(s) as one unit.
func (s *transferService) ApplyTransfer(ctx context.Context, accountID string, intent domain.TransferIntent) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	validated, err := s.validator.Validate(intent)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch account for transfer", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrConflict, accountID)
	}

	var txn *domain.Transaction
	switch it := validated.(type) {
	case domain.PurchaseIntent:
		txn, err = s.applyPurchase(ctx, account, it)
	case domain.SendIntent:
		txn, err = s.applySend(ctx, account, it)
	case domain.ReturnIntent:
		txn, err = s.applyReturn(ctx, account, it)
	default:
		return nil, apperrors.NewValidationError("intent", "unknown transfer kind")
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Transfer applied",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("kind", string(txn.Kind)),
		slog.String("account_id", accountID),
		slog.String("amount", txn.Amount.String()),
	)
	return txn, nil
}

// applyPurchase converts USD into Aurum at the current rate and credits the
// account. The rate service enforces the staleness bound.
func (s *transferService) applyPurchase(ctx context.Context, account *domain.Account, it domain.PurchaseIntent) (*domain.Transaction, error) {
	quote, err := s.rateSvc.CurrentRate(ctx, s.assetCode)
	if err != nil {
		return nil, err
	}

	assetAmount := it.USDAmount.Div(quote.Price).Round(domain.AssetPrecision)
	if assetAmount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewValidationError("usdAmount", "amount is below the smallest Aurum unit at the current rate")
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     account.AccountID,
		Kind:          domain.KindPurchase,
		Amount:        assetAmount,
		Status:        domain.StatusCompleted,
		USDAmount:     &it.USDAmount,
		RatePrice:     &quote.Price,
		RateAsOf:      &quote.AsOf,
		TransferID:    uuid.NewString(),
		AuditFields:   auditFieldsFor(account.UserID, now),
	}

	balanceChanges := map[string]decimal.Decimal{
		account.AccountID: assetAmount,
	}
	if err := s.ledgerRepo.SaveTransfer(ctx, []domain.Transaction{txn}, balanceChanges); err != nil {
		return nil, fmt.Errorf("failed to persist purchase: %w", err)
	}
	return &txn, nil
}

// applySend debits the sender and credits the registered recipient atomically,
// recording a paired send/receive entry under one transfer ID.
func (s *transferService) applySend(ctx context.Context, account *domain.Account, it domain.SendIntent) (*domain.Transaction, error) {
	// Fast pre-check against the last read balance. The authoritative check
	// happens inside the atomic write, under the row lock.
	if account.Balance.LessThan(it.Amount) {
		return nil, apperrors.ErrInsufficientBalance
	}

	recipientUser, err := s.userRepo.FindUserByEmail(ctx, it.RecipientEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("recipientEmail", "recipient is not a registered user")
		}
		return nil, fmt.Errorf("failed to resolve recipient %s: %w", it.RecipientEmail, err)
	}
	recipientAccount, err := s.accountRepo.FindAccountByUserID(ctx, recipientUser.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("recipientEmail", "recipient has no Aurum account")
		}
		return nil, fmt.Errorf("failed to resolve recipient account: %w", err)
	}
	if recipientAccount.AccountID == account.AccountID {
		return nil, apperrors.NewValidationError("recipientEmail", "cannot send Aurum to yourself")
	}
	if !recipientAccount.IsActive {
		return nil, apperrors.NewValidationError("recipientEmail", "recipient account is inactive")
	}

	senderUser, err := s.userRepo.FindUserByID(ctx, account.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sender user %s: %w", account.UserID, err)
	}

	now := time.Now().UTC()
	transferID := uuid.NewString()

	debit := domain.Transaction{
		TransactionID:     uuid.NewString(),
		AccountID:         account.AccountID,
		Kind:              domain.KindSend,
		Amount:            it.Amount,
		Status:            domain.StatusCompleted,
		CounterpartyEmail: recipientUser.Email,
		Notes:             it.Notes,
		TransferID:        transferID,
		AuditFields:       auditFieldsFor(account.UserID, now),
	}
	credit := domain.Transaction{
		TransactionID:     uuid.NewString(),
		AccountID:         recipientAccount.AccountID,
		Kind:              domain.KindReceive,
		Amount:            it.Amount,
		Status:            domain.StatusCompleted,
		CounterpartyEmail: senderUser.Email,
		Notes:             it.Notes,
		TransferID:        transferID,
		AuditFields:       auditFieldsFor(account.UserID, now),
	}

	balanceChanges := map[string]decimal.Decimal{
		account.AccountID:          it.Amount.Neg(),
		recipientAccount.AccountID: it.Amount,
	}
	if err := s.ledgerRepo.SaveTransfer(ctx, []domain.Transaction{debit, credit}, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			return nil, apperrors.ErrInsufficientBalance
		}
		return nil, fmt.Errorf("failed to persist send: %w", err)
	}
	return &debit, nil
}

// applyReturn debits the account immediately and records a pending payout. The
// USD value is snapshotted at the current rate for the settlement process.
func (s *transferService) applyReturn(ctx context.Context, account *domain.Account, it domain.ReturnIntent) (*domain.Transaction, error) {
	if account.Balance.LessThan(it.Amount) {
		return nil, apperrors.ErrInsufficientBalance
	}

	quote, err := s.rateSvc.CurrentRate(ctx, s.assetCode)
	if err != nil {
		return nil, err
	}
	usdAmount := it.Amount.Mul(quote.Price).Round(domain.USDPrecision)

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     account.AccountID,
		Kind:          domain.KindReturn,
		Amount:        it.Amount,
		Status:        domain.StatusPending,
		BankAccount:   it.BankAccount,
		USDAmount:     &usdAmount,
		RatePrice:     &quote.Price,
		RateAsOf:      &quote.AsOf,
		Notes:         it.Notes,
		TransferID:    uuid.NewString(),
		AuditFields:   auditFieldsFor(account.UserID, now),
	}

	balanceChanges := map[string]decimal.Decimal{
		account.AccountID: it.Amount.Neg(),
	}
	if err := s.ledgerRepo.SaveTransfer(ctx, []domain.Transaction{txn}, balanceChanges); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			return nil, apperrors.ErrInsufficientBalance
		}
		return nil, fmt.Errorf("failed to persist return: %w", err)
	}
	return &txn, nil
}

// SettleReturn finalizes a pending return. Approval marks the payout completed;
// rejection marks it failed and re-credits the held amount in the same database
// transaction, so the ledger and the balance never disagree.
func (s *transferService) SettleReturn(ctx context.Context, transactionID string, approve bool, actorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	if txn.Kind != domain.KindReturn {
		return nil, fmt.Errorf("%w: transaction %s is not a return", apperrors.ErrConflict, transactionID)
	}
	if txn.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: transaction %s is not pending", apperrors.ErrConflict, transactionID)
	}

	now := time.Now().UTC()
	status := domain.StatusCompleted
	var balanceChanges map[string]decimal.Decimal
	if !approve {
		status = domain.StatusFailed
		balanceChanges = map[string]decimal.Decimal{
			txn.AccountID: txn.Amount,
		}
	}

	// The repository re-checks the pending status under lock, so two racing
	// settlements resolve to exactly one winner.
	if err := s.ledgerRepo.SettleTransaction(ctx, transactionID, status, balanceChanges, actorUserID, now); err != nil {
		return nil, fmt.Errorf("failed to settle return %s: %w", transactionID, err)
	}

	txn.Status = status
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actorUserID

	logger.Info("Return settled",
		slog.String("transaction_id", transactionID),
		slog.String("status", string(status)),
	)
	return txn, nil
}

func auditFieldsFor(userID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}
