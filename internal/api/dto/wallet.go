package dto

import (
	"github.com/sellerdesk/backoffice/internal/domain/wallet"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/sellerdesk/backoffice/internal/validator"
	"github.com/shopspring/decimal"
)

type WalletOperationRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Reason    string          `json:"reason" validate:"required"`
	Reference string          `json:"reference,omitempty"`
}

func (r *WalletOperationRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// AdjustWalletRequest carries a signed amount: positive adjusts the balance up,
// negative adjusts it down.
type AdjustWalletRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Reason    string          `json:"reason" validate:"required"`
	Reference string          `json:"reference,omitempty"`
}

func (r *AdjustWalletRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type WalletResponse struct {
	*wallet.Wallet
}

func NewWalletResponse(w *wallet.Wallet) *WalletResponse {
	return &WalletResponse{Wallet: w}
}

type WalletTransactionResponse struct {
	*wallet.Transaction
}

func NewWalletTransactionResponse(t *wallet.Transaction) *WalletTransactionResponse {
	return &WalletTransactionResponse{Transaction: t}
}

type ListWalletTransactionsResponse = types.ListResponse[*WalletTransactionResponse]

// BalanceVerificationResponse is the result of replaying the wallet's full
// ledger from zero against its stored balance.
type BalanceVerificationResponse struct {
	WalletID         string          `json:"wallet_id"`
	Valid            bool            `json:"valid"`
	StoredBalance    decimal.Decimal `json:"stored_balance"`
	ComputedBalance  decimal.Decimal `json:"computed_balance"`
	TransactionCount int             `json:"transaction_count"`
	Discrepancies    []string        `json:"discrepancies,omitempty"`
}
