package models

import "github.com/shopspring/decimal"

// Account is the database representation of a user's Aurum holding.
// The balance column carries a CHECK (balance >= 0) constraint.
type Account struct {
	AccountID string          `db:"account_id"`
	UserID    string          `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	IsActive  bool            `db:"is_active"`
	AuditFields
}
