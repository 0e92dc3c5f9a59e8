package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger entry row.
type TransactionKind string

const (
	Purchase TransactionKind = "purchase"
	Send     TransactionKind = "send"
	Receive  TransactionKind = "receive"
	Return   TransactionKind = "return"
)

// TransactionStatus is the settlement state of a ledger entry row.
type TransactionStatus string

const (
	Pending   TransactionStatus = "pending"
	Completed TransactionStatus = "completed"
	Failed    TransactionStatus = "failed"
)

// Transaction is the database representation of a ledger entry.
// Nullable kind-specific columns are pointers.
type Transaction struct {
	TransactionID     string            `db:"transaction_id"`
	AccountID         string            `db:"account_id"`
	Kind              TransactionKind   `db:"kind"`
	Amount            decimal.Decimal   `db:"amount"`
	Status            TransactionStatus `db:"status"`
	CounterpartyEmail *string           `db:"counterparty_email"`
	BankAccount       *string           `db:"bank_account"`
	USDAmount         *decimal.Decimal  `db:"usd_amount"`
	RatePrice         *decimal.Decimal  `db:"rate_price"`
	RateAsOf          *time.Time        `db:"rate_as_of"`
	Notes             *string           `db:"notes"`
	TransferID        string            `db:"transfer_id"`
	AuditFields
}
