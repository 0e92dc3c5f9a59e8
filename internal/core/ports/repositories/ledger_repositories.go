package repositories

import (
	"context"
	"time"

	"github.com/aurumgold/aurum_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations over persisted transactions.
type LedgerReader interface {
	// FindTransactionByID retrieves a single transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccountID retrieves a page of transactions for an account,
	// newest first, using token-based pagination. The optional since bound filters
	// out entries created before it.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string, since *time.Time) ([]domain.Transaction, *string, error)
}

// LedgerWriter defines the atomic write operations of the persistence port.
type LedgerWriter interface {
	// SaveTransfer persists the given transaction rows and applies the balance
	// deltas as a single database transaction: either every row and every balance
	// effect commits, or none are visible. Balance rows are locked for the
	// duration; a delta that would drive a balance negative aborts the whole
	// write with apperrors.ErrInsufficientBalance.
	SaveTransfer(ctx context.Context, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// SettleTransaction transitions a pending transaction to the given terminal
	// status and applies the compensating balance deltas (if any) in the same
	// database transaction. A transaction that is not pending aborts with
	// apperrors.ErrConflict.
	SettleTransaction(ctx context.Context, transactionID string, status domain.TransactionStatus, balanceChanges map[string]decimal.Decimal, updatedBy string, updatedAt time.Time) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
