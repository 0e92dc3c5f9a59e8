package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoldRate is the database representation of an ingested rate quote.
type GoldRate struct {
	RateID   string          `db:"rate_id"`
	Asset    string          `db:"asset"`
	PriceUSD decimal.Decimal `db:"price_usd"`
	AsOf     time.Time       `db:"as_of"`
	AuditFields
}
