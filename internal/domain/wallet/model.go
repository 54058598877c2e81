package wallet

import (
	"time"

	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/shopspring/decimal"
)

// Wallet represents a tenant's prepaid wallet. The balance is a projection of
// the transaction ledger: replaying all transactions in order from zero must
// reproduce it exactly.
type Wallet struct {
	ID                string             `db:"id" json:"id"`
	Currency          string             `db:"currency" json:"currency"`
	Balance           decimal.Decimal    `db:"balance" json:"balance"`
	WalletStatus      types.WalletStatus `db:"wallet_status" json:"wallet_status"`
	AllowOverdraft    bool               `db:"allow_overdraft" json:"allow_overdraft"`
	LastTransactionAt *time.Time         `db:"last_transaction_at" json:"last_transaction_at,omitempty"`
	types.BaseModel
}

func (w *Wallet) TableName() string {
	return "tenant_wallets"
}

// CanTransact returns the error blocking ledger operations, if any
func (w *Wallet) CanTransact() error {
	switch w.WalletStatus {
	case types.WalletStatusActive:
		return nil
	case types.WalletStatusFrozen:
		return ierr.NewError("wallet is frozen").
			WithHint("The wallet must be unfrozen before it can transact").
			WithReportableDetails(map[string]any{
				"wallet_id": w.ID,
			}).
			Mark(ierr.ErrWalletFrozen)
	case types.WalletStatusClosed:
		return ierr.NewError("wallet is closed").
			WithHint("Closed wallets cannot transact").
			WithReportableDetails(map[string]any{
				"wallet_id": w.ID,
			}).
			Mark(ierr.ErrWalletClosed)
	default:
		return ierr.NewErrorf("unknown wallet status: %s", w.WalletStatus).
			Mark(ierr.ErrSystem)
	}
}

// ValidateStatusTransition returns the error blocking a move to target, if
// any. Called against the locked row so the zero-balance close check cannot
// race a concurrent debit or credit.
func (w *Wallet) ValidateStatusTransition(target types.WalletStatus) error {
	if w.WalletStatus == target {
		return ierr.NewErrorf("wallet is already %s", target).
			Mark(ierr.ErrInvalidTransition)
	}

	if w.WalletStatus == types.WalletStatusClosed {
		return ierr.NewError("closed wallets cannot change status").
			WithHint("A closed wallet is terminal").
			Mark(ierr.ErrWalletClosed)
	}

	if target == types.WalletStatusClosed && !w.Balance.IsZero() {
		return ierr.NewError("wallet balance must be zero before closing").
			WithHint("Adjust or debit the remaining balance before closing the wallet").
			WithReportableDetails(map[string]any{
				"balance": w.Balance,
			}).
			Mark(ierr.ErrInvalidTransition)
	}

	return nil
}
