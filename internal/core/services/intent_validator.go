package services

import (
	"strings"
	"unicode/utf8"

	"github.com/aurumgold/aurum_backend/internal/apperrors"
	"github.com/aurumgold/aurum_backend/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	maxNotesLength       = 500
	minBankAccountLength = 5
)

// IntentValidator checks structural and business constraints on a requested
// transfer before any mutation. It performs no I/O: the outcome is a pure
// function of the intent and the configured rules.
type IntentValidator struct {
	minPurchaseUSD decimal.Decimal
	validate       *validator.Validate
}

// NewIntentValidator creates a validator with the configured purchase minimum.
func NewIntentValidator(minPurchaseUSD decimal.Decimal) *IntentValidator {
	return &IntentValidator{
		minPurchaseUSD: minPurchaseUSD,
		validate:       validator.New(),
	}
}

// Validate normalizes the intent and checks its rules. It returns the
// normalized intent, or a field-tagged validation error.
func (v *IntentValidator) Validate(intent domain.TransferIntent) (domain.TransferIntent, error) {
	switch it := intent.(type) {
	case domain.PurchaseIntent:
		return v.validatePurchase(it)
	case domain.SendIntent:
		return v.validateSend(it)
	case domain.ReturnIntent:
		return v.validateReturn(it)
	default:
		return nil, apperrors.NewValidationError("intent", "unknown transfer kind")
	}
}

func (v *IntentValidator) validatePurchase(it domain.PurchaseIntent) (domain.TransferIntent, error) {
	if it.USDAmount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewValidationError("usdAmount", "amount must be greater than 0")
	}
	if it.USDAmount.LessThan(v.minPurchaseUSD) {
		return nil, apperrors.NewValidationError("usdAmount", "minimum purchase is $"+v.minPurchaseUSD.StringFixed(domain.USDPrecision))
	}
	it.USDAmount = it.USDAmount.Round(domain.USDPrecision)
	return it, nil
}

func (v *IntentValidator) validateSend(it domain.SendIntent) (domain.TransferIntent, error) {
	it.RecipientEmail = strings.ToLower(strings.TrimSpace(it.RecipientEmail))
	if err := v.validate.Var(it.RecipientEmail, "required,email"); err != nil {
		return nil, apperrors.NewValidationError("recipientEmail", "invalid email address")
	}
	if it.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewValidationError("amount", "amount must be greater than 0")
	}
	if utf8.RuneCountInString(it.Notes) > maxNotesLength {
		return nil, apperrors.NewValidationError("notes", "notes must be less than 500 characters")
	}
	it.Amount = it.Amount.Round(domain.AssetPrecision)
	if it.Amount.IsZero() {
		return nil, apperrors.NewValidationError("amount", "amount is below the smallest Aurum unit")
	}
	return it, nil
}

func (v *IntentValidator) validateReturn(it domain.ReturnIntent) (domain.TransferIntent, error) {
	if it.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.NewValidationError("amount", "amount must be greater than 0")
	}
	it.BankAccount = strings.TrimSpace(it.BankAccount)
	if len(it.BankAccount) < minBankAccountLength {
		return nil, apperrors.NewValidationError("bankAccount", "invalid bank account")
	}
	if utf8.RuneCountInString(it.Notes) > maxNotesLength {
		return nil, apperrors.NewValidationError("notes", "notes must be less than 500 characters")
	}
	it.Amount = it.Amount.Round(domain.AssetPrecision)
	if it.Amount.IsZero() {
		return nil, apperrors.NewValidationError("amount", "amount is below the smallest Aurum unit")
	}
	return it, nil
}
