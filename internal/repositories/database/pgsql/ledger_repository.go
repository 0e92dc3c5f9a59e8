package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aurumgold/aurum_backend/internal/apperrors"
	"github.com/aurumgold/aurum_backend/internal/core/domain"
	portsrepo "github.com/aurumgold/aurum_backend/internal/core/ports/repositories"
	"github.com/aurumgold/aurum_backend/internal/models"
	"github.com/aurumgold/aurum_backend/internal/utils/mapping"
	"github.com/aurumgold/aurum_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, account_id, kind, amount, status, counterparty_email, bank_account, usd_amount, rate_price, rate_as_of, notes, transfer_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxLedgerRepository creates a new repository for ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveTransfer persists the transaction rows and applies the balance deltas
// within a single DB transaction. The affected account rows are locked first;
// a debit that would drive a balance negative aborts the whole write.
func (r *PgxLedgerRepository) SaveTransfer(ctx context.Context, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	if len(transactions) == 0 {
		return apperrors.NewAppError(500, "no transactions to save", nil)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Ignored if the transaction commits successfully.
	defer r.Rollback(ctx, tx)

	now := transactions[0].CreatedAt
	userID := transactions[0].CreatedBy

	// 1. Lock the affected account rows and get current balances.
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}

	// 2. Check each debit against the balance read under the lock. The
	// CHECK (balance >= 0) constraint is the backstop, this is the path that
	// produces the typed error.
	for accountID, delta := range balanceChanges {
		if delta.IsNegative() && lockedAccounts[accountID].Balance.Add(delta).IsNegative() {
			return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientBalance, accountID)
		}
	}

	// 3. Apply the balance deltas to the locked rows.
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientBalance) {
			return err
		}
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}

	// 4. Insert the transaction rows.
	batch := &pgx.Batch{}
	txnQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	for _, txn := range transactions {
		modelTxn := mapping.ToModelTransaction(txn)
		batch.Queue(txnQuery,
			modelTxn.TransactionID,
			modelTxn.AccountID,
			modelTxn.Kind,
			modelTxn.Amount,
			modelTxn.Status,
			modelTxn.CounterpartyEmail,
			modelTxn.BankAccount,
			modelTxn.USDAmount,
			modelTxn.RatePrice,
			modelTxn.RateAsOf,
			modelTxn.Notes,
			modelTxn.TransferID,
			modelTxn.CreatedAt,
			modelTxn.CreatedBy,
			modelTxn.LastUpdatedAt,
			modelTxn.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute transaction insert batch", err)
	}

	return r.Commit(ctx, tx)
}

// SettleTransaction transitions a pending transaction to a terminal status and
// applies compensating balance deltas in the same DB transaction. The row is
// locked and its status re-checked so racing settlements resolve to one winner.
func (r *PgxLedgerRepository) SettleTransaction(ctx context.Context, transactionID string, status domain.TransactionStatus, balanceChanges map[string]decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var currentStatus models.TransactionStatus
	lockQuery := `
		SELECT status
		FROM transactions
		WHERE transaction_id = $1
		FOR UPDATE;
	`
	if err := tx.QueryRow(ctx, lockQuery, transactionID).Scan(&currentStatus); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock transaction "+transactionID, err)
	}
	if currentStatus != models.Pending {
		return fmt.Errorf("%w: transaction %s is already %s", apperrors.ErrConflict, transactionID, currentStatus)
	}

	updateQuery := `
		UPDATE transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, transactionID, models.TransactionStatus(status), updatedAt, updatedBy); err != nil {
		return apperrors.NewAppError(500, "failed to update status of transaction "+transactionID, err)
	}

	if len(balanceChanges) > 0 {
		accountIDs := make([]string, 0, len(balanceChanges))
		for accountID := range balanceChanges {
			accountIDs = append(accountIDs, accountID)
		}
		if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
			return apperrors.NewAppError(500, "failed to lock accounts for settlement", err)
		}
		if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, updatedBy, updatedAt); err != nil {
			return apperrors.NewAppError(500, "failed to apply settlement balance changes", err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1;
	`
	var modelTxn models.Transaction
	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(
		&modelTxn.TransactionID,
		&modelTxn.AccountID,
		&modelTxn.Kind,
		&modelTxn.Amount,
		&modelTxn.Status,
		&modelTxn.CounterpartyEmail,
		&modelTxn.BankAccount,
		&modelTxn.USDAmount,
		&modelTxn.RatePrice,
		&modelTxn.RateAsOf,
		&modelTxn.Notes,
		&modelTxn.TransferID,
		&modelTxn.CreatedAt,
		&modelTxn.CreatedBy,
		&modelTxn.LastUpdatedAt,
		&modelTxn.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}
	domainTxn := mapping.ToDomainTransaction(modelTxn)
	return &domainTxn, nil
}

// ListTransactionsByAccountID retrieves a paginated list of transactions for an
// account using token-based pagination, newest first.
func (r *PgxLedgerRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string, since *time.Time) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
	`
	// Ordering must be stable: created_at DESC with transaction_id as the tie-breaker.
	orderByClause := `ORDER BY created_at DESC, transaction_id DESC`

	args := []interface{}{accountID}

	if since != nil {
		args = append(args, *since)
		baseQuery += ` AND created_at >= $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastTransactionID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewValidationError("nextToken", "invalid pagination token")
		}
		args = append(args, lastCreatedAt, lastTransactionID)
		baseQuery += ` AND (created_at, transaction_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for account "+accountID, err)
	}
	defer rows.Close()

	modelTxns := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.TransactionID,
			&t.AccountID,
			&t.Kind,
			&t.Amount,
			&t.Status,
			&t.CounterpartyEmail,
			&t.BankAccount,
			&t.USDAmount,
			&t.RatePrice,
			&t.RateAsOf,
			&t.Notes,
			&t.TransferID,
			&t.CreatedAt,
			&t.CreatedBy,
			&t.LastUpdatedAt,
			&t.LastUpdatedBy,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for account "+accountID, err)
		}
		modelTxns = append(modelTxns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for account "+accountID, err)
	}

	var newNextToken *string
	if len(modelTxns) == fetchLimit {
		last := modelTxns[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		newNextToken = &token
		modelTxns = modelTxns[:limit]
	}

	return mapping.ToDomainTransactionSlice(modelTxns), newNextToken, nil
}
