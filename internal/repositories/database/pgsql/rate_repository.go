package pgsql

import (
	"context"
	"errors"

	"github.com/aurumgold/aurum_backend/internal/apperrors"
	"github.com/aurumgold/aurum_backend/internal/core/domain"
	portsrepo "github.com/aurumgold/aurum_backend/internal/core/ports/repositories"
	"github.com/aurumgold/aurum_backend/internal/models"
	"github.com/aurumgold/aurum_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRateRepository struct {
	BaseRepository
}

// newPgxRateRepository creates a new repository for gold rate quotes.
func newPgxRateRepository(pool *pgxpool.Pool) portsrepo.RateRepositoryFacade {
	return &PgxRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

// SaveRate inserts a new quote.
func (r *PgxRateRepository) SaveRate(ctx context.Context, rate domain.RateQuote, createdBy string) error {
	query := `
		INSERT INTO gold_rates (rate_id, asset, price_usd, as_of, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, now(), $5, now(), $5);
	`
	_, err := r.Pool.Exec(ctx, query, rate.RateID, rate.Asset, rate.Price, rate.AsOf, createdBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert rate quote "+rate.RateID, err)
	}
	return nil
}

// FindLatestRate retrieves the newest quote for the asset by its as_of time.
func (r *PgxRateRepository) FindLatestRate(ctx context.Context, asset string) (*domain.RateQuote, error) {
	query := `
		SELECT rate_id, asset, price_usd, as_of, created_at, created_by, last_updated_at, last_updated_by
		FROM gold_rates
		WHERE asset = $1
		ORDER BY as_of DESC
		LIMIT 1;
	`
	var modelRate models.GoldRate
	err := r.Pool.QueryRow(ctx, query, asset).Scan(
		&modelRate.RateID,
		&modelRate.Asset,
		&modelRate.PriceUSD,
		&modelRate.AsOf,
		&modelRate.CreatedAt,
		&modelRate.CreatedBy,
		&modelRate.LastUpdatedAt,
		&modelRate.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find latest rate for asset "+asset, err)
	}
	domainRate := mapping.ToDomainRateQuote(modelRate)
	return &domainRate, nil
}
