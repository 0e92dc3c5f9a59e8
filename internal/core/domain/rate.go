package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateQuote is a timestamped price of one Aurum unit (one troy ounce of gold) in
// USD. Quotes are volatile external state: consumers must check AsOf against
// their own staleness bound before acting on one.
type RateQuote struct {
	RateID string          `json:"rateID"`
	Asset  string          `json:"asset"` // e.g. "XAU"
	Price  decimal.Decimal `json:"price"` // USD per unit, > 0
	AsOf   time.Time       `json:"asOf"`
}

// AgeAt returns how old the quote is relative to now.
func (q RateQuote) AgeAt(now time.Time) time.Duration {
	return now.Sub(q.AsOf)
}
