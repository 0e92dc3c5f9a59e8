package dto

import (
	"time"

	"github.com/aurumgold/aurum_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateResponse defines the data returned for a rate quote.
type RateResponse struct {
	Asset string          `json:"asset"`
	Price decimal.Decimal `json:"price"`
	AsOf  time.Time       `json:"asOf"`
}

// IngestRateRequest is the payload for ingesting a new quote from the
// market-data feed.
type IngestRateRequest struct {
	Asset string          `json:"asset" binding:"required"`
	Price decimal.Decimal `json:"price" binding:"required"`
	AsOf  *time.Time      `json:"asOf"` // Defaults to now when omitted
}

// ToRateResponse converts a domain.RateQuote to RateResponse.
func ToRateResponse(q domain.RateQuote) RateResponse {
	return RateResponse{
		Asset: q.Asset,
		Price: q.Price,
		AsOf:  q.AsOf,
	}
}
