package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	KindPurchase TransactionKind = "purchase" // USD in, Aurum credited
	KindSend     TransactionKind = "send"     // Aurum debited towards another account
	KindReceive  TransactionKind = "receive"  // Aurum credited from another account
	KindReturn   TransactionKind = "return"   // Aurum debited pending bank payout
)

// TransactionStatus is the settlement state of a ledger entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
)

// Transaction is an immutable ledger entry for one account. Only the status may
// change after creation, and only via the transfer service's settlement path.
// Kind-specific fields: CounterpartyEmail is set for send/receive, BankAccount for
// return, and the USD/rate snapshot for purchase and return.
type Transaction struct {
	TransactionID     string            `json:"transactionID"` // Primary key (UUID)
	AccountID         string            `json:"accountID"`     // Owning account
	Kind              TransactionKind   `json:"kind"`
	Amount            decimal.Decimal   `json:"amount"` // Positive Aurum amount, 4 dp
	Status            TransactionStatus `json:"status"`
	CounterpartyEmail string            `json:"counterpartyEmail,omitempty"`
	BankAccount       string            `json:"bankAccount,omitempty"`
	USDAmount         *decimal.Decimal  `json:"usdAmount,omitempty"`
	RatePrice         *decimal.Decimal  `json:"ratePrice,omitempty"` // USD per Aurum at execution
	RateAsOf          *time.Time        `json:"rateAsOf,omitempty"`
	Notes             string            `json:"notes,omitempty"` // <= 500 chars
	TransferID        string            `json:"transferID"`      // Groups the two legs of a send
	AuditFields
}

// IsDebit reports whether this entry reduces the owning account's balance.
func (t Transaction) IsDebit() bool {
	return t.Kind == KindSend || t.Kind == KindReturn
}

// SignedAmount is the entry's effect on the owning account's balance.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.IsDebit() {
		return t.Amount.Neg()
	}
	return t.Amount
}
