package repositories

import (
	"context"

	"github.com/aurumgold/aurum_backend/internal/core/domain"
)

// RateRepositoryFacade defines persistence operations for gold rate quotes.
type RateRepositoryFacade interface {
	// SaveRate inserts a new quote.
	SaveRate(ctx context.Context, rate domain.RateQuote, createdBy string) error

	// FindLatestRate retrieves the newest quote for the asset, or
	// apperrors.ErrNotFound if no quote has ever been ingested.
	FindLatestRate(ctx context.Context, asset string) (*domain.RateQuote, error)
}
