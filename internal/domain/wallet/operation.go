package wallet

import (
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/shopspring/decimal"
)

// Operation represents the request to credit or debit a wallet. Amount is a
// positive magnitude; Type carries the direction.
type Operation struct {
	WalletID  string                `json:"wallet_id"`
	Type      types.TransactionType `json:"type"`
	Amount    decimal.Decimal       `json:"amount"`
	Reason    string                `json:"reason"`
	Reference string                `json:"reference,omitempty"`
}

func (o *Operation) Validate() error {
	if err := o.Type.Validate(); err != nil {
		return err
	}

	if o.Amount.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("amount must be greater than zero").
			WithHint("Wallet operations require a positive amount").
			WithReportableDetails(map[string]any{
				"amount": o.Amount,
			}).
			Mark(ierr.ErrInvalidAmount)
	}

	if o.Reason == "" {
		return ierr.NewError("reason is required").
			WithHint("Wallet operations must carry a reason for the audit trail").
			Mark(ierr.ErrValidation)
	}

	return nil
}
