package wallet

import (
	"time"

	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/shopspring/decimal"
)

// Transaction is one append-only ledger row. Amount is always a positive
// magnitude; the type carries the sign. For every transaction
// balance_after - balance_before equals the signed amount, and balance_before
// of transaction n equals balance_after of transaction n-1 for the same wallet.
type Transaction struct {
	ID              string                `db:"id" json:"id"`
	WalletID        string                `db:"wallet_id" json:"wallet_id"`
	Type            types.TransactionType `db:"type" json:"type"`
	Amount          decimal.Decimal       `db:"amount" json:"amount"`
	BalanceBefore   decimal.Decimal       `db:"balance_before" json:"balance_before"`
	BalanceAfter    decimal.Decimal       `db:"balance_after" json:"balance_after"`
	Reason          string                `db:"reason" json:"reason"`
	Reference       string                `db:"reference" json:"reference,omitempty"`
	ProcessedBy     string                `db:"processed_by" json:"processed_by"`
	TransactionDate time.Time             `db:"transaction_date" json:"transaction_date"`
	types.BaseModel
}

func (t *Transaction) TableName() string {
	return "wallet_transactions"
}

// SignedAmount returns the amount with the type's sign applied
func (t *Transaction) SignedAmount() decimal.Decimal {
	return t.Type.SignedAmount(t.Amount)
}
