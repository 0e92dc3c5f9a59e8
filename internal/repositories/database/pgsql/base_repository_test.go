package pgsql

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

// stubTx overrides only Rollback; the embedded interface stays nil.
type stubTx struct {
	pgx.Tx
	rollbackErr error
}

func (s stubTx) Rollback(ctx context.Context) error { return s.rollbackErr }

func TestRollback(t *testing.T) {
	ctx := context.Background()
	repo := &BaseRepository{}

	t.Run("deferred rollback after commit is not an error", func(t *testing.T) {
		err := repo.Rollback(ctx, stubTx{rollbackErr: pgx.ErrTxClosed})
		assert.NoError(t, err)
	})

	t.Run("clean rollback is not an error", func(t *testing.T) {
		err := repo.Rollback(ctx, stubTx{})
		assert.NoError(t, err)
	})

	t.Run("rollback failure surfaces", func(t *testing.T) {
		err := repo.Rollback(ctx, stubTx{rollbackErr: errors.New("connection reset")})
		assert.Error(t, err)
	})
}
