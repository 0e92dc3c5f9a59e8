package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aurumgold/aurum_backend/internal/apperrors"
	"github.com/aurumgold/aurum_backend/internal/core/domain"
	portsrepo "github.com/aurumgold/aurum_backend/internal/core/ports/repositories"
	portssvc "github.com/aurumgold/aurum_backend/internal/core/ports/services"
	"github.com/aurumgold/aurum_backend/internal/dto"
	"github.com/aurumgold/aurum_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// rateService serves the newest ingested quote and refuses quotes older than
// the configured staleness bound.
type rateService struct {
	rateRepo portsrepo.RateRepositoryFacade
	maxAge   time.Duration
	now      func() time.Time
}

// NewRateService creates a new RateService.
func NewRateService(rateRepo portsrepo.RateRepositoryFacade, maxAge time.Duration) portssvc.RateSvcFacade {
	return &rateService{
		rateRepo: rateRepo,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

var _ portssvc.RateSvcFacade = (*rateService)(nil)

// CurrentRate returns the newest quote for the asset, or ErrRateUnavailable
// when none exists or the newest one is past the staleness bound.
func (s *rateService) CurrentRate(ctx context.Context, asset string) (*domain.RateQuote, error) {
	quote, err := s.rateRepo.FindLatestRate(ctx, asset)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no quote for asset %s", apperrors.ErrRateUnavailable, asset)
		}
		return nil, fmt.Errorf("failed to fetch latest rate for %s: %w", asset, err)
	}

	if age := quote.AgeAt(s.now().UTC()); age > s.maxAge {
		middleware.GetLoggerFromCtx(ctx).Warn("Newest rate quote is stale",
			slog.String("asset", asset),
			slog.Duration("age", age),
			slog.Duration("max_age", s.maxAge),
		)
		return nil, fmt.Errorf("%w: newest quote for %s is %s old", apperrors.ErrRateUnavailable, asset, age.Round(time.Second))
	}
	return quote, nil
}

// IngestRate records a quote delivered by the market-data feed.
func (s *rateService) IngestRate(ctx context.Context, req dto.IngestRateRequest, actorUserID string) (*domain.RateQuote, error) {
	asset := strings.ToUpper(strings.TrimSpace(req.Asset))
	if asset == "" {
		return nil, apperrors.NewValidationError("asset", "asset is required")
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewValidationError("price", "price must be greater than 0")
	}

	asOf := s.now().UTC()
	if req.AsOf != nil {
		asOf = req.AsOf.UTC()
		if asOf.After(s.now().UTC().Add(time.Minute)) {
			return nil, apperrors.NewValidationError("asOf", "quote timestamp is in the future")
		}
	}

	quote := domain.RateQuote{
		RateID: uuid.NewString(),
		Asset:  asset,
		Price:  req.Price.Round(domain.USDPrecision),
		AsOf:   asOf,
	}
	if err := s.rateRepo.SaveRate(ctx, quote, actorUserID); err != nil {
		return nil, fmt.Errorf("failed to save rate quote: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Rate quote ingested",
		slog.String("asset", asset),
		slog.String("price", quote.Price.String()),
	)
	return &quote, nil
}
