package domain

import (
	"github.com/shopspring/decimal"
)

// Account is a user's single Aurum holding. The balance is the authoritative
// quantity of Aurum owned; it is never negative at any observable instant and is
// only ever changed through the transfer service's atomic persistence step.
type Account struct {
	AccountID   string          `json:"accountID"` // Primary key (UUID)
	UserID      string          `json:"userID"`    // FK -> users.user_id, one account per user
	Balance     decimal.Decimal `json:"balance"`   // >= 0, 4 decimal places
	IsActive    bool            `json:"isActive"`
	AuditFields                 // Embed CreatedAt, CreatedBy, etc.
}
