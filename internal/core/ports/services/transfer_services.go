package services

import (
	"context"

	"github.com/aurumgold/aurum_backend/internal/core/domain"
)

// TransferSvcFacade converts validated intents into durable, consistent ledger
// state: exactly one new transaction (two for a send) and the matching balance
// effects, or neither.
type TransferSvcFacade interface {
	// ApplyTransfer validates the intent, computes the resulting balance change
	// and persists it atomically. It returns the persisted transaction owned by
	// the initiating account.
	ApplyTransfer(ctx context.Context, accountID string, intent domain.TransferIntent) (*domain.Transaction, error)

	// SettleReturn finalizes a pending return: approve marks it completed, reject
	// marks it failed and re-credits the held amount in the same database
	// transaction.
	SettleReturn(ctx context.Context, transactionID string, approve bool, actorUserID string) (*domain.Transaction, error)
}
