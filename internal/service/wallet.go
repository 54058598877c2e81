package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/sellerdesk/backoffice/internal/api/dto"
	"github.com/sellerdesk/backoffice/internal/domain/wallet"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/metrics"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/shopspring/decimal"
)

// WalletService manages each tenant's single prepaid wallet and its
// append-only transaction ledger.
type WalletService interface {
	// GetWallet returns the tenant's wallet, creating it on first access
	GetWallet(ctx context.Context) (*dto.WalletResponse, error)

	Credit(ctx context.Context, req dto.WalletOperationRequest) (*dto.WalletTransactionResponse, error)
	Debit(ctx context.Context, req dto.WalletOperationRequest) (*dto.WalletTransactionResponse, error)

	// Adjust applies a signed correction: a positive amount books an
	// adjustment credit, a negative one an adjustment debit.
	Adjust(ctx context.Context, req dto.AdjustWalletRequest) (*dto.WalletTransactionResponse, error)

	Freeze(ctx context.Context) (*dto.WalletResponse, error)
	Unfreeze(ctx context.Context) (*dto.WalletResponse, error)
	Close(ctx context.Context) (*dto.WalletResponse, error)

	GetHistory(ctx context.Context, page types.PageRequest) (*dto.ListWalletTransactionsResponse, error)

	// VerifyBalance replays the full ledger from zero and checks it against
	// the stored balance.
	VerifyBalance(ctx context.Context) (*dto.BalanceVerificationResponse, error)
}

type walletService struct {
	ServiceParams
}

func NewWalletService(params ServiceParams) WalletService {
	return &walletService{
		ServiceParams: params,
	}
}

func (s *walletService) GetWallet(ctx context.Context) (*dto.WalletResponse, error) {
	w, err := s.ensureWallet(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewWalletResponse(w), nil
}

func (s *walletService) Credit(ctx context.Context, req dto.WalletOperationRequest) (*dto.WalletTransactionResponse, error) {
	return s.process(ctx, types.TransactionTypeCredit, req.Amount, req.Reason, req.Reference, types.AuditEventWalletCredited)
}

func (s *walletService) Debit(ctx context.Context, req dto.WalletOperationRequest) (*dto.WalletTransactionResponse, error) {
	return s.process(ctx, types.TransactionTypeDebit, req.Amount, req.Reason, req.Reference, types.AuditEventWalletDebited)
}

func (s *walletService) Adjust(ctx context.Context, req dto.AdjustWalletRequest) (*dto.WalletTransactionResponse, error) {
	if req.Amount.IsZero() {
		return nil, ierr.NewError("adjustment amount cannot be zero").
			WithHint("Provide a positive or negative adjustment amount").
			Mark(ierr.ErrInvalidAmount)
	}

	opType := types.TransactionTypeAdjustmentCredit
	amount := req.Amount
	if req.Amount.IsNegative() {
		opType = types.TransactionTypeAdjustmentDebit
		amount = req.Amount.Neg()
	}

	return s.process(ctx, opType, amount, req.Reason, req.Reference, types.AuditEventWalletAdjusted)
}

func (s *walletService) Freeze(ctx context.Context) (*dto.WalletResponse, error) {
	return s.transitionStatus(ctx, types.WalletStatusFrozen)
}

func (s *walletService) Unfreeze(ctx context.Context) (*dto.WalletResponse, error) {
	return s.transitionStatus(ctx, types.WalletStatusActive)
}

func (s *walletService) Close(ctx context.Context) (*dto.WalletResponse, error) {
	return s.transitionStatus(ctx, types.WalletStatusClosed)
}

func (s *walletService) GetHistory(ctx context.Context, page types.PageRequest) (*dto.ListWalletTransactionsResponse, error) {
	w, err := s.ensureWallet(ctx)
	if err != nil {
		return nil, err
	}

	page = page.Normalize()

	txns, err := s.WalletRepo.ListTransactions(ctx, w.ID, page)
	if err != nil {
		return nil, err
	}

	total, err := s.WalletRepo.CountTransactions(ctx, w.ID)
	if err != nil {
		return nil, err
	}

	items := lo.Map(txns, func(t *wallet.Transaction, _ int) *dto.WalletTransactionResponse {
		return dto.NewWalletTransactionResponse(t)
	})

	resp := types.NewListResponse(items, total, page.Limit, page.Offset)
	return &resp, nil
}

func (s *walletService) VerifyBalance(ctx context.Context) (*dto.BalanceVerificationResponse, error) {
	w, err := s.ensureWallet(ctx)
	if err != nil {
		return nil, err
	}

	txns, err := s.WalletRepo.ListAllTransactions(ctx, w.ID)
	if err != nil {
		return nil, err
	}

	var discrepancies []string
	running := decimal.Zero

	for i, t := range txns {
		if !t.BalanceBefore.Equal(running) {
			discrepancies = append(discrepancies, fmt.Sprintf(
				"transaction %s (#%d): balance_before %s does not match running balance %s",
				t.ID, i, t.BalanceBefore, running,
			))
			running = t.BalanceBefore
		}

		expected := running.Add(t.SignedAmount())
		if !t.BalanceAfter.Equal(expected) {
			discrepancies = append(discrepancies, fmt.Sprintf(
				"transaction %s (#%d): balance_after %s does not match expected %s",
				t.ID, i, t.BalanceAfter, expected,
			))
		}
		running = t.BalanceAfter
	}

	if !running.Equal(w.Balance) {
		discrepancies = append(discrepancies, fmt.Sprintf(
			"stored balance %s does not match replayed balance %s",
			w.Balance, running,
		))
	}

	resp := &dto.BalanceVerificationResponse{
		WalletID:         w.ID,
		Valid:            len(discrepancies) == 0,
		StoredBalance:    w.Balance,
		ComputedBalance:  running,
		TransactionCount: len(txns),
		Discrepancies:    discrepancies,
	}

	if !resp.Valid {
		s.Logger.Errorw("wallet ledger verification failed",
			"wallet_id", w.ID,
			"tenant_id", w.TenantID,
			"discrepancies", discrepancies,
		)
	}

	return resp, nil
}

func (s *walletService) process(ctx context.Context, opType types.TransactionType, amount decimal.Decimal, reason, reference string, event types.AuditEventName) (*dto.WalletTransactionResponse, error) {
	w, err := s.ensureWallet(ctx)
	if err != nil {
		return nil, err
	}

	op := &wallet.Operation{
		WalletID:  w.ID,
		Type:      opType,
		Amount:    amount,
		Reason:    reason,
		Reference: reference,
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}

	done := metrics.ObserveWalletOp(string(opType))
	txn, err := s.WalletRepo.ProcessOperation(ctx, op)
	done()
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("processed wallet operation",
		"wallet_id", w.ID,
		"transaction_id", txn.ID,
		"type", opType,
		"amount", amount,
		"balance_after", txn.BalanceAfter,
	)

	s.AuditEmitter.Emit(ctx, event, txn.ID, txn)

	return dto.NewWalletTransactionResponse(txn), nil
}

// ensureWallet returns the tenant's wallet, creating it with platform defaults
// on first access. A concurrent first access is folded into a re-read.
func (s *walletService) ensureWallet(ctx context.Context) (*wallet.Wallet, error) {
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrValidation)
	}

	w, err := s.WalletRepo.GetWalletByTenant(ctx)
	if err == nil {
		return w, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	configService := NewPlatformConfigService(s.ServiceParams)
	currency := configService.ResolveValue(ctx, types.ConfigKeyDefaultCurrency, s.Config.Billing.DefaultCurrency)
	allowOverdraft, _ := strconv.ParseBool(configService.ResolveValue(ctx, types.ConfigKeyWalletAllowOverdraft, "false"))

	w = &wallet.Wallet{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WALLET),
		Currency:       currency,
		Balance:        decimal.Zero,
		WalletStatus:   types.WalletStatusActive,
		AllowOverdraft: allowOverdraft,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}

	if err := s.WalletRepo.CreateWallet(ctx, w); err != nil {
		if ierr.IsAlreadyExists(err) {
			return s.WalletRepo.GetWalletByTenant(ctx)
		}
		return nil, err
	}

	s.Logger.Infow("created wallet",
		"wallet_id", w.ID,
		"tenant_id", w.TenantID,
		"currency", w.Currency,
	)

	s.AuditEmitter.Emit(ctx, types.AuditEventWalletCreated, w.ID, w)

	return w, nil
}

func (s *walletService) transitionStatus(ctx context.Context, target types.WalletStatus) (*dto.WalletResponse, error) {
	w, err := s.ensureWallet(ctx)
	if err != nil {
		return nil, err
	}

	// The store validates against the locked row, so the zero-balance close
	// check cannot race a concurrent ledger operation
	updated, err := s.WalletRepo.ProcessStatusTransition(ctx, w.ID, target)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("wallet status changed",
		"wallet_id", w.ID,
		"from", w.WalletStatus,
		"to", updated.WalletStatus,
	)

	s.AuditEmitter.Emit(ctx, types.AuditEventWalletStatusChanged, w.ID, map[string]any{
		"from": w.WalletStatus,
		"to":   updated.WalletStatus,
	})

	return dto.NewWalletResponse(updated), nil
}
