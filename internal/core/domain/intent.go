package domain

import "github.com/shopspring/decimal"

// TransferIntent is a validated, typed request for a balance transfer. Each kind
// carries exactly the fields it needs; the intent validator is the only producer.
type TransferIntent interface {
	Kind() TransactionKind
}

// PurchaseIntent buys Aurum for USD at the current gold rate.
type PurchaseIntent struct {
	USDAmount decimal.Decimal
}

func (PurchaseIntent) Kind() TransactionKind { return KindPurchase }

// SendIntent moves Aurum to another registered user, identified by email.
type SendIntent struct {
	RecipientEmail string
	Amount         decimal.Decimal
	Notes          string
}

func (SendIntent) Kind() TransactionKind { return KindSend }

// ReturnIntent converts Aurum back to USD, paid out to a bank account. The debit
// is immediate; the payout settles externally.
type ReturnIntent struct {
	Amount      decimal.Decimal
	BankAccount string
	Notes       string
}

func (ReturnIntent) Kind() TransactionKind { return KindReturn }
