package wallet

import (
	"context"

	"github.com/sellerdesk/backoffice/internal/types"
)

// Repository defines the interface for wallet persistence operations
type Repository interface {
	// CreateWallet inserts the tenant's wallet row. A tenant owns exactly one
	// wallet; a concurrent duplicate insert fails with ErrAlreadyExists so the
	// caller can fold the race into a re-read.
	CreateWallet(ctx context.Context, w *Wallet) error

	// GetWalletByTenant returns the tenant's wallet, or ErrNotFound
	GetWalletByTenant(ctx context.Context) (*Wallet, error)

	// ProcessStatusTransition moves the wallet to the target status as one
	// atomic unit: it locks the wallet row, validates the transition against
	// the locked state (including the zero-balance close rule) and updates
	// the status. Returns the wallet as it was after the transition.
	ProcessStatusTransition(ctx context.Context, id string, target types.WalletStatus) (*Wallet, error)

	// ProcessOperation applies a credit or debit as one atomic unit: it locks
	// the wallet row, verifies status, balance and reference uniqueness,
	// appends the ledger row and updates the stored balance. No observer may
	// see the ledger row without the balance update or vice versa.
	ProcessOperation(ctx context.Context, op *Operation) (*Transaction, error)

	// ListTransactions returns a page of the wallet's ledger, newest first
	ListTransactions(ctx context.Context, walletID string, page types.PageRequest) ([]*Transaction, error)

	// ListAllTransactions returns the wallet's full ledger, oldest first,
	// for replay verification
	ListAllTransactions(ctx context.Context, walletID string) ([]*Transaction, error)

	// CountTransactions returns the total number of ledger rows for the wallet
	CountTransactions(ctx context.Context, walletID string) (int, error)
}
