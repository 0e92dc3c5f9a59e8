package services

import (
	"context"

	"github.com/aurumgold/aurum_backend/internal/dto"
)

// HistorySvcFacade is the read-only projection over persisted transactions.
type HistorySvcFacade interface {
	// ListTransactions returns a page of the account's transactions, newest
	// first. It fails with apperrors.ErrNotFound only when the account itself
	// does not exist.
	ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
