package domain_test

import (
	"testing"

	"github.com/aurumgold/aurum_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_SignedAmount(t *testing.T) {
	amount := decimal.RequireFromString("1.2500")

	tests := []struct {
		name        string
		transaction domain.Transaction
		want        string
	}{
		{
			name:        "purchase credits the account",
			transaction: domain.Transaction{Kind: domain.KindPurchase, Amount: amount},
			want:        "1.2500",
		},
		{
			name:        "receive credits the account",
			transaction: domain.Transaction{Kind: domain.KindReceive, Amount: amount},
			want:        "1.2500",
		},
		{
			name:        "send debits the account",
			transaction: domain.Transaction{Kind: domain.KindSend, Amount: amount},
			want:        "-1.2500",
		},
		{
			name:        "return debits the account",
			transaction: domain.Transaction{Kind: domain.KindReturn, Amount: amount},
			want:        "-1.2500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.transaction.SignedAmount()
			assert.Equal(t, tt.want, got.StringFixed(4))
		})
	}
}

func TestTransaction_IsDebit(t *testing.T) {
	assert.False(t, domain.Transaction{Kind: domain.KindPurchase}.IsDebit())
	assert.False(t, domain.Transaction{Kind: domain.KindReceive}.IsDebit())
	assert.True(t, domain.Transaction{Kind: domain.KindSend}.IsDebit())
	assert.True(t, domain.Transaction{Kind: domain.KindReturn}.IsDebit())
}
