package dto

import (
	"time"

	"github.com/aurumgold/aurum_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseRequest is the payload for buying Aurum with USD.
type PurchaseRequest struct {
	USDAmount decimal.Decimal `json:"usdAmount" binding:"required"`
}

// SendRequest is the payload for sending Aurum to another user.
type SendRequest struct {
	RecipientEmail string          `json:"recipientEmail" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Notes          string          `json:"notes"`
}

// ReturnRequest is the payload for returning Aurum for a bank payout.
type ReturnRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	BankAccount string          `json:"bankAccount" binding:"required"`
	Notes       string          `json:"notes"`
}

// SettleReturnRequest is the payload for settling a pending return.
type SettleReturnRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID     string           `json:"transactionID"`
	AccountID         string           `json:"accountID"`
	Kind              string           `json:"kind"`
	Amount            decimal.Decimal  `json:"amount"`
	Status            string           `json:"status"`
	CounterpartyEmail string           `json:"counterpartyEmail,omitempty"`
	BankAccount       string           `json:"bankAccount,omitempty"`
	USDAmount         *decimal.Decimal `json:"usdAmount,omitempty"`
	RatePrice         *decimal.Decimal `json:"ratePrice,omitempty"`
	RateAsOf          *time.Time       `json:"rateAsOf,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     txn.TransactionID,
		AccountID:         txn.AccountID,
		Kind:              string(txn.Kind),
		Amount:            txn.Amount,
		Status:            string(txn.Status),
		CounterpartyEmail: txn.CounterpartyEmail,
		BankAccount:       txn.BankAccount,
		USDAmount:         txn.USDAmount,
		RatePrice:         txn.RatePrice,
		RateAsOf:          txn.RateAsOf,
		Notes:             txn.Notes,
		CreatedAt:         txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to responses.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}
