package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/aurumgold/aurum_backend/internal/apperrors"
	"github.com/aurumgold/aurum_backend/internal/core/domain"
	"github.com/aurumgold/aurum_backend/internal/core/services"
	"github.com/aurumgold/aurum_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListTransactions(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, IsActive: true}

	newTxn := func(kind domain.TransactionKind, createdAt time.Time) domain.Transaction {
		return domain.Transaction{
			TransactionID: uuid.NewString(),
			AccountID:     accountID,
			Kind:          kind,
			Amount:        decimal.RequireFromString("0.5000"),
			Status:        domain.StatusCompleted,
			AuditFields:   domain.AuditFields{CreatedAt: createdAt},
		}
	}

	t.Run("returns a page with a next token", func(t *testing.T) {
		ledgerRepo := new(MockLedgerRepository)
		accountRepo := new(MockAccountRepository)
		svc := services.NewHistoryService(ledgerRepo, accountRepo)

		now := time.Now().UTC()
		txns := []domain.Transaction{
			newTxn(domain.KindPurchase, now),
			newTxn(domain.KindSend, now.Add(-time.Hour)),
		}
		token := "next-page-token"

		accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
		ledgerRepo.On("ListTransactionsByAccountID", ctx, accountID, 2, (*string)(nil), (*time.Time)(nil)).Return(txns, token, nil).Once()

		resp, err := svc.ListTransactions(ctx, accountID, dto.ListTransactionsParams{Limit: 2})

		require.NoError(t, err)
		require.Len(t, resp.Transactions, 2)
		require.NotNil(t, resp.NextToken)
		assert.Equal(t, token, *resp.NextToken)
		assert.Equal(t, "purchase", resp.Transactions[0].Kind)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("applies the default limit", func(t *testing.T) {
		ledgerRepo := new(MockLedgerRepository)
		accountRepo := new(MockAccountRepository)
		svc := services.NewHistoryService(ledgerRepo, accountRepo)

		accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
		ledgerRepo.On("ListTransactionsByAccountID", ctx, accountID, 20, (*string)(nil), (*time.Time)(nil)).Return([]domain.Transaction{}, nil, nil).Once()

		_, err := svc.ListTransactions(ctx, accountID, dto.ListTransactionsParams{})

		require.NoError(t, err)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("caps the limit at the maximum", func(t *testing.T) {
		ledgerRepo := new(MockLedgerRepository)
		accountRepo := new(MockAccountRepository)
		svc := services.NewHistoryService(ledgerRepo, accountRepo)

		accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
		ledgerRepo.On("ListTransactionsByAccountID", ctx, accountID, 100, (*string)(nil), (*time.Time)(nil)).Return([]domain.Transaction{}, nil, nil).Once()

		_, err := svc.ListTransactions(ctx, accountID, dto.ListTransactionsParams{Limit: 5000})

		require.NoError(t, err)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("passes the since bound through", func(t *testing.T) {
		ledgerRepo := new(MockLedgerRepository)
		accountRepo := new(MockAccountRepository)
		svc := services.NewHistoryService(ledgerRepo, accountRepo)

		since := time.Now().UTC().Add(-24 * time.Hour)
		accountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
		ledgerRepo.On("ListTransactionsByAccountID", ctx, accountID, 20, (*string)(nil), &since).Return([]domain.Transaction{}, nil, nil).Once()

		_, err := svc.ListTransactions(ctx, accountID, dto.ListTransactionsParams{Since: &since})

		require.NoError(t, err)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("fails for an unknown account", func(t *testing.T) {
		ledgerRepo := new(MockLedgerRepository)
		accountRepo := new(MockAccountRepository)
		svc := services.NewHistoryService(ledgerRepo, accountRepo)

		accountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

		_, err := svc.ListTransactions(ctx, accountID, dto.ListTransactionsParams{})

		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		ledgerRepo.AssertNotCalled(t, "ListTransactionsByAccountID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
