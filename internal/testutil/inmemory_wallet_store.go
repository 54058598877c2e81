package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/sellerdesk/backoffice/internal/domain/wallet"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/types"
)

// InMemoryWalletStore applies ledger operations atomically under one lock,
// mirroring the row-lock guarantees of the real store.
type InMemoryWalletStore struct {
	mu           sync.Mutex
	wallets      map[string]*wallet.Wallet
	transactions []*wallet.Transaction
}

func NewInMemoryWalletStore() *InMemoryWalletStore {
	return &InMemoryWalletStore{
		wallets: make(map[string]*wallet.Wallet),
	}
}

func (s *InMemoryWalletStore) CreateWallet(ctx context.Context, w *wallet.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.wallets {
		if existing.TenantID == w.TenantID {
			return ierr.NewError("wallet already exists for tenant").
				Mark(ierr.ErrAlreadyExists)
		}
	}

	cp := *w
	s.wallets[w.ID] = &cp
	return nil
}

func (s *InMemoryWalletStore) GetWalletByTenant(ctx context.Context) (*wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenantID := types.GetTenantID(ctx)
	for _, w := range s.wallets {
		if w.TenantID == tenantID {
			cp := *w
			return &cp, nil
		}
	}
	return nil, ierr.NewError("wallet not found").
		Mark(ierr.ErrNotFound)
}

// ProcessStatusTransition validates and applies the status change under the
// same lock that serializes ledger operations, so the zero-balance close
// check sees the settled balance.
func (s *InMemoryWalletStore) ProcessStatusTransition(ctx context.Context, id string, target types.WalletStatus) (*wallet.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.wallets[id]
	if !exists {
		return nil, ierr.NewError("wallet not found").
			Mark(ierr.ErrNotFound)
	}

	if err := w.ValidateStatusTransition(target); err != nil {
		return nil, err
	}

	w.WalletStatus = target
	cp := *w
	return &cp, nil
}

func (s *InMemoryWalletStore) ProcessOperation(ctx context.Context, op *wallet.Operation) (*wallet.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.wallets[op.WalletID]
	if !exists {
		return nil, ierr.NewError("wallet not found").
			Mark(ierr.ErrNotFound)
	}

	if err := w.CanTransact(); err != nil {
		return nil, err
	}

	if op.Reference != "" {
		for _, t := range s.transactions {
			if t.WalletID == op.WalletID && t.Reference == op.Reference {
				return nil, ierr.NewError("transaction reference already used").
					Mark(ierr.ErrDuplicateTransaction)
			}
		}
	}

	balanceBefore := w.Balance
	balanceAfter := balanceBefore.Add(op.Type.SignedAmount(op.Amount))

	if balanceAfter.IsNegative() && !w.AllowOverdraft {
		return nil, ierr.NewError("insufficient wallet balance").
			Mark(ierr.ErrInsufficientBalance)
	}

	now := time.Now().UTC()
	txn := &wallet.Transaction{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WALLET_TRANSACTION),
		WalletID:        op.WalletID,
		Type:            op.Type,
		Amount:          op.Amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		Reason:          op.Reason,
		Reference:       op.Reference,
		ProcessedBy:     types.GetActorID(ctx),
		TransactionDate: now,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
	txn.TenantID = w.TenantID

	s.transactions = append(s.transactions, txn)
	w.Balance = balanceAfter
	w.LastTransactionAt = &now

	cp := *txn
	return &cp, nil
}

func (s *InMemoryWalletStore) ListTransactions(ctx context.Context, walletID string, page types.PageRequest) ([]*wallet.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.walletTransactionsLocked(walletID)

	// Newest first
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	page = page.Normalize()
	if page.Offset >= len(all) {
		return nil, nil
	}
	end := page.Offset + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[page.Offset:end], nil
}

func (s *InMemoryWalletStore) ListAllTransactions(ctx context.Context, walletID string) ([]*wallet.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.walletTransactionsLocked(walletID), nil
}

func (s *InMemoryWalletStore) CountTransactions(ctx context.Context, walletID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, t := range s.transactions {
		if t.WalletID == walletID {
			count++
		}
	}
	return count, nil
}

// walletTransactionsLocked returns copies in insertion (oldest first) order
func (s *InMemoryWalletStore) walletTransactionsLocked(walletID string) []*wallet.Transaction {
	var result []*wallet.Transaction
	for _, t := range s.transactions {
		if t.WalletID == walletID {
			cp := *t
			result = append(result, &cp)
		}
	}
	return result
}

func (s *InMemoryWalletStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets = make(map[string]*wallet.Wallet)
	s.transactions = nil
}
