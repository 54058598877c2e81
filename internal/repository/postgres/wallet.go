package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/sellerdesk/backoffice/internal/domain/wallet"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/logger"
	"github.com/sellerdesk/backoffice/internal/postgres"
	"github.com/sellerdesk/backoffice/internal/types"
)

type walletRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewWalletRepository creates a new instance of wallet repository
func NewWalletRepository(db postgres.IClient, logger *logger.Logger) wallet.Repository {
	return &walletRepository{
		db:     db,
		logger: logger,
	}
}

// CreateWallet creates the tenant's wallet row. A concurrent duplicate insert
// trips the unique tenant index and is surfaced as ErrAlreadyExists so the
// caller can fold the race into a re-read.
func (r *walletRepository) CreateWallet(ctx context.Context, w *wallet.Wallet) error {
	query := `
		INSERT INTO tenant_wallets (
			id, currency, balance, wallet_status, allow_overdraft, last_transaction_at,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :currency, :balance, :wallet_status, :allow_overdraft, :last_transaction_at,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating wallet",
		"wallet_id", w.ID,
		"tenant_id", w.TenantID,
	)

	if _, err := r.db.NamedExecContext(ctx, query, w); err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("The tenant already has a wallet").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create wallet").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

// GetWalletByTenant retrieves the tenant's wallet
func (r *walletRepository) GetWalletByTenant(ctx context.Context) (*wallet.Wallet, error) {
	query := `
		SELECT * FROM tenant_wallets
		WHERE tenant_id = :tenant_id
		AND status = :status`

	params := map[string]interface{}{
		"tenant_id": types.GetTenantID(ctx),
		"status":    types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query wallet").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("wallet not found").
			WithHint("The tenant has no wallet yet").
			Mark(ierr.ErrNotFound)
	}

	var w wallet.Wallet
	if err := rows.StructScan(&w); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan wallet").
			Mark(ierr.ErrDatabase)
	}
	return &w, nil
}

// ProcessStatusTransition moves the wallet to the target status within a
// transaction: the wallet row is locked, the transition is validated against
// the locked state and the status update commits before the lock is released.
// A concurrent credit cannot slip between the zero-balance check and a close.
func (r *walletRepository) ProcessStatusTransition(ctx context.Context, id string, target types.WalletStatus) (*wallet.Wallet, error) {
	var w wallet.Wallet

	err := r.db.WithTx(ctx, func(ctx context.Context) error {
		query := `
			SELECT * FROM tenant_wallets
			WHERE id = :id
			AND tenant_id = :tenant_id
			AND status = :status
			FOR UPDATE`

		params := map[string]interface{}{
			"id":        id,
			"tenant_id": types.GetTenantID(ctx),
			"status":    types.StatusPublished,
		}

		rows, err := r.db.NamedQueryContext(ctx, query, params)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to lock wallet").
				Mark(ierr.ErrDatabase)
		}

		if !rows.Next() {
			rows.Close()
			return ierr.NewError("wallet not found").
				Mark(ierr.ErrNotFound)
		}
		if err := rows.StructScan(&w); err != nil {
			rows.Close()
			return ierr.WithError(err).
				WithHint("Failed to scan wallet").
				Mark(ierr.ErrDatabase)
		}
		rows.Close()

		if err := w.ValidateStatusTransition(target); err != nil {
			return err
		}

		updateQuery := `
			UPDATE tenant_wallets
			SET
				wallet_status = :wallet_status,
				updated_at = NOW(),
				updated_by = :updated_by
			WHERE id = :id
			AND tenant_id = :tenant_id
			AND status = :status`

		updateParams := map[string]interface{}{
			"id":            id,
			"wallet_status": target,
			"updated_by":    types.GetActorID(ctx),
			"tenant_id":     types.GetTenantID(ctx),
			"status":        types.StatusPublished,
		}

		if _, err := r.db.NamedExecContext(ctx, updateQuery, updateParams); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to update wallet status").
				Mark(ierr.ErrDatabase)
		}

		w.WalletStatus = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &w, nil
}

// ProcessOperation applies a credit or debit within a transaction: the wallet
// row is locked, checks run against the locked balance, and the ledger row and
// balance update commit together.
func (r *walletRepository) ProcessOperation(ctx context.Context, op *wallet.Operation) (*wallet.Transaction, error) {
	var txn *wallet.Transaction

	err := r.db.WithTx(ctx, func(ctx context.Context) error {
		// Lock the wallet row for the duration of the operation
		query := `
			SELECT * FROM tenant_wallets
			WHERE id = :id
			AND tenant_id = :tenant_id
			AND status = :status
			FOR UPDATE`

		params := map[string]interface{}{
			"id":        op.WalletID,
			"tenant_id": types.GetTenantID(ctx),
			"status":    types.StatusPublished,
		}

		rows, err := r.db.NamedQueryContext(ctx, query, params)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to lock wallet").
				Mark(ierr.ErrDatabase)
		}

		var w wallet.Wallet
		if !rows.Next() {
			rows.Close()
			return ierr.NewError("wallet not found").
				Mark(ierr.ErrNotFound)
		}
		if err := rows.StructScan(&w); err != nil {
			rows.Close()
			return ierr.WithError(err).
				WithHint("Failed to scan wallet").
				Mark(ierr.ErrDatabase)
		}
		rows.Close()

		if err := w.CanTransact(); err != nil {
			return err
		}

		// Reject reference collisions before touching the balance
		if op.Reference != "" {
			dupQuery := `
				SELECT 1 FROM wallet_transactions
				WHERE tenant_id = :tenant_id
				AND reference = :reference
				AND status = :status`

			dupParams := map[string]interface{}{
				"tenant_id": types.GetTenantID(ctx),
				"reference": op.Reference,
				"status":    types.StatusPublished,
			}

			dupRows, err := r.db.NamedQueryContext(ctx, dupQuery, dupParams)
			if err != nil {
				return ierr.WithError(err).
					WithHint("Failed to check transaction reference").
					Mark(ierr.ErrDatabase)
			}
			exists := dupRows.Next()
			dupRows.Close()
			if exists {
				return ierr.NewError("transaction reference already used").
					WithHint("A transaction with this reference already exists for the tenant").
					WithReportableDetails(map[string]any{
						"reference": op.Reference,
					}).
					Mark(ierr.ErrDuplicateTransaction)
			}
		}

		balanceBefore := w.Balance
		balanceAfter := balanceBefore.Add(op.Type.SignedAmount(op.Amount))

		if balanceAfter.IsNegative() && !w.AllowOverdraft {
			return ierr.NewError("insufficient balance").
				WithHint("The wallet balance does not cover the requested debit").
				WithReportableDetails(map[string]any{
					"balance": balanceBefore,
					"amount":  op.Amount,
				}).
				Mark(ierr.ErrInsufficientBalance)
		}

		now := time.Now().UTC()
		txn = &wallet.Transaction{
			ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_WALLET_TRANSACTION),
			WalletID:        w.ID,
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

		txQuery := `
			INSERT INTO wallet_transactions (
				id, wallet_id, type, amount, balance_before, balance_after,
				reason, reference, processed_by, transaction_date,
				tenant_id, status, created_at, updated_at, created_by, updated_by
			) VALUES (
				:id, :wallet_id, :type, :amount, :balance_before, :balance_after,
				:reason, :reference, :processed_by, :transaction_date,
				:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
			)`

		if _, err := r.db.NamedExecContext(ctx, txQuery, txn); err != nil {
			// The unique (tenant_id, reference) index backstops the explicit
			// check above under concurrent inserts
			if isUniqueViolation(err) {
				return ierr.WithError(err).
					WithHint("A transaction with this reference already exists for the tenant").
					Mark(ierr.ErrDuplicateTransaction)
			}
			return ierr.WithError(err).
				WithHint("Failed to append wallet transaction").
				Mark(ierr.ErrDatabase)
		}

		updateQuery := `
			UPDATE tenant_wallets
			SET
				balance = :balance,
				last_transaction_at = :last_transaction_at,
				updated_at = NOW(),
				updated_by = :updated_by
			WHERE id = :id
			AND tenant_id = :tenant_id
			AND status = :status`

		updateParams := map[string]interface{}{
			"id":                  w.ID,
			"balance":             balanceAfter,
			"last_transaction_at": now,
			"updated_by":          types.GetActorID(ctx),
			"tenant_id":           types.GetTenantID(ctx),
			"status":              types.StatusPublished,
		}

		result, err := r.db.NamedExecContext(ctx, updateQuery, updateParams)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to update wallet balance").
				Mark(ierr.ErrDatabase)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		if affected == 0 {
			return ierr.NewError("wallet disappeared during operation").
				Mark(ierr.ErrConcurrentModification)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return txn, nil
}

// ListTransactions retrieves a page of the wallet's ledger, newest first
func (r *walletRepository) ListTransactions(ctx context.Context, walletID string, page types.PageRequest) ([]*wallet.Transaction, error) {
	page = page.Normalize()

	query := `
		SELECT * FROM wallet_transactions
		WHERE wallet_id = :wallet_id
		AND tenant_id = :tenant_id
		AND status = :status
		ORDER BY transaction_date DESC, id DESC
		LIMIT :limit OFFSET :offset`

	params := map[string]interface{}{
		"wallet_id": walletID,
		"tenant_id": types.GetTenantID(ctx),
		"status":    types.StatusPublished,
		"limit":     page.Limit,
		"offset":    page.Offset,
	}

	return r.queryTransactions(ctx, query, params)
}

// ListAllTransactions retrieves the full ledger, oldest first, for replay
func (r *walletRepository) ListAllTransactions(ctx context.Context, walletID string) ([]*wallet.Transaction, error) {
	query := `
		SELECT * FROM wallet_transactions
		WHERE wallet_id = :wallet_id
		AND tenant_id = :tenant_id
		AND status = :status
		ORDER BY transaction_date ASC, id ASC`

	params := map[string]interface{}{
		"wallet_id": walletID,
		"tenant_id": types.GetTenantID(ctx),
		"status":    types.StatusPublished,
	}

	return r.queryTransactions(ctx, query, params)
}

// CountTransactions returns the total number of ledger rows for the wallet
func (r *walletRepository) CountTransactions(ctx context.Context, walletID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM wallet_transactions
		WHERE wallet_id = :wallet_id
		AND tenant_id = :tenant_id
		AND status = :status`

	params := map[string]interface{}{
		"wallet_id": walletID,
		"tenant_id": types.GetTenantID(ctx),
		"status":    types.StatusPublished,
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count transactions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
	}
	return count, nil
}

func (r *walletRepository) queryTransactions(ctx context.Context, query string, params map[string]interface{}) ([]*wallet.Transaction, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to query transactions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var transactions []*wallet.Transaction
	for rows.Next() {
		var tx wallet.Transaction
		if err := rows.StructScan(&tx); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan transaction").
				Mark(ierr.ErrDatabase)
		}
		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}

	return transactions, nil
}

// isUniqueViolation reports whether the error is a postgres unique constraint violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if ierr.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
