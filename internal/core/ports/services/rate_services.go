package services

import (
	"context"

	"github.com/aurumgold/aurum_backend/internal/core/domain"
	"github.com/aurumgold/aurum_backend/internal/dto"
)

// RateSvcFacade supplies the current gold exchange rate.
type RateSvcFacade interface {
	// CurrentRate returns the newest quote for the asset. It fails with
	// apperrors.ErrRateUnavailable when no quote exists or the newest one is
	// older than the configured staleness bound.
	CurrentRate(ctx context.Context, asset string) (*domain.RateQuote, error)

	// IngestRate records a quote delivered by the market-data feed.
	IngestRate(ctx context.Context, req dto.IngestRateRequest, actorUserID string) (*domain.RateQuote, error)
}
