package types

import (
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// WalletStatus represents the current state of a tenant wallet
type WalletStatus string

const (
	WalletStatusActive WalletStatus = "ACTIVE"
	WalletStatusFrozen WalletStatus = "FROZEN"
	WalletStatusClosed WalletStatus = "CLOSED"
)

func (s WalletStatus) Validate() error {
	allowedValues := []string{
		string(WalletStatusActive),
		string(WalletStatusFrozen),
		string(WalletStatusClosed),
	}
	if !lo.Contains(allowedValues, string(s)) {
		return ierr.NewError("invalid wallet status").
			WithHint("Invalid wallet status").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"status":  s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TransactionType represents the direction and nature of a wallet transaction.
// Amounts are stored as positive magnitudes; the type carries the sign.
type TransactionType string

const (
	TransactionTypeCredit           TransactionType = "CREDIT"
	TransactionTypeDebit            TransactionType = "DEBIT"
	TransactionTypeAdjustmentCredit TransactionType = "ADJUSTMENT_CREDIT"
	TransactionTypeAdjustmentDebit  TransactionType = "ADJUSTMENT_DEBIT"
)

// IsCredit reports whether the type increases the wallet balance
func (t TransactionType) IsCredit() bool {
	return t == TransactionTypeCredit || t == TransactionTypeAdjustmentCredit
}

// SignedAmount applies the type's sign to a positive magnitude
func (t TransactionType) SignedAmount(amount decimal.Decimal) decimal.Decimal {
	if t.IsCredit() {
		return amount
	}
	return amount.Neg()
}

func (t TransactionType) Validate() error {
	allowedValues := []string{
		string(TransactionTypeCredit),
		string(TransactionTypeDebit),
		string(TransactionTypeAdjustmentCredit),
		string(TransactionTypeAdjustmentDebit),
	}
	if !lo.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid transaction type").
			WithHint("Invalid wallet transaction type").
			WithReportableDetails(map[string]any{
				"allowed": allowedValues,
				"type":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
