package services

import (
	"context"
	"fmt"

	"github.com/aurumgold/aurum_backend/internal/apperrors"
	portsrepo "github.com/aurumgold/aurum_backend/internal/core/ports/repositories"
	portssvc "github.com/aurumgold/aurum_backend/internal/core/ports/services"
	"github.com/aurumgold/aurum_backend/internal/dto"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// historyService is the read-only projection over persisted transactions.
type historyService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.HistorySvcFacade {
	return &historyService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.HistorySvcFacade = (*historyService)(nil)

// ListTransactions returns a page of the account's transactions, newest first.
func (s *historyService) ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if params.NextToken != nil && *params.NextToken == "" {
		return nil, apperrors.NewValidationError("nextToken", "invalid pagination token")
	}

	txns, nextToken, err := s.ledgerRepo.ListTransactionsByAccountID(ctx, accountID, limit, params.NextToken, params.Since)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}
