package service

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/sellerdesk/backoffice/internal/api/dto"
	ierr "github.com/sellerdesk/backoffice/internal/errors"
	"github.com/sellerdesk/backoffice/internal/testutil"
	"github.com/sellerdesk/backoffice/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type WalletServiceSuite struct {
	testutil.BaseServiceTestSuite
	walletService WalletService
	configService PlatformConfigService
}

func TestWalletService(t *testing.T) {
	suite.Run(t, new(WalletServiceSuite))
}

func (s *WalletServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	params := newTestServiceParams(&s.BaseServiceTestSuite)
	s.walletService = NewWalletService(params)
	s.configService = NewPlatformConfigService(params)
}

func (s *WalletServiceSuite) TestWalletCreatedOnFirstAccess() {
	resp, err := s.walletService.GetWallet(s.GetContext())
	s.NoError(err)
	s.Require().NotNil(resp)
	s.True(resp.Balance.IsZero())
	s.Equal(types.WalletStatusActive, resp.WalletStatus)
	s.Equal("usd", resp.Currency)

	events := s.GetAuditEmitter().EventsNamed(types.AuditEventWalletCreated)
	s.Len(events, 1)

	// A second read returns the same wallet, not a new one
	again, err := s.walletService.GetWallet(s.GetContext())
	s.NoError(err)
	s.Equal(resp.ID, again.ID)
	s.Len(s.GetAuditEmitter().EventsNamed(types.AuditEventWalletCreated), 1)
}

func (s *WalletServiceSuite) TestWalletCurrencyFromPlatformConfig() {
	_, err := s.configService.SetConfig(s.GetContext(), dto.SetPlatformConfigRequest{
		Key:   types.ConfigKeyDefaultCurrency,
		Value: "eur",
	})
	s.Require().NoError(err)

	resp, err := s.walletService.GetWallet(s.GetContext())
	s.NoError(err)
	s.Equal("eur", resp.Currency)
}

func (s *WalletServiceSuite) TestCreditAndDebit() {
	credit, err := s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(100),
		Reason: "top up",
	})
	s.NoError(err)
	s.Equal(types.TransactionTypeCredit, credit.Type)
	s.True(credit.BalanceBefore.IsZero())
	s.True(credit.BalanceAfter.Equal(decimal.NewFromInt(100)))

	debit, err := s.walletService.Debit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(40),
		Reason: "invoice payment",
	})
	s.NoError(err)
	s.Equal(types.TransactionTypeDebit, debit.Type)
	s.True(debit.BalanceBefore.Equal(decimal.NewFromInt(100)))
	s.True(debit.BalanceAfter.Equal(decimal.NewFromInt(60)))

	w, err := s.walletService.GetWallet(s.GetContext())
	s.NoError(err)
	s.True(w.Balance.Equal(decimal.NewFromInt(60)))
	s.NotNil(w.LastTransactionAt)
}

func (s *WalletServiceSuite) TestDebitInsufficientBalance() {
	_, err := s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(100),
		Reason: "top up",
	})
	s.Require().NoError(err)

	_, err = s.walletService.Debit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(150),
		Reason: "too much",
	})
	s.Error(err)
	s.True(ierr.IsInsufficientBalance(err))

	// The failed debit left no trace: balance and ledger are untouched
	w, err := s.walletService.GetWallet(s.GetContext())
	s.NoError(err)
	s.True(w.Balance.Equal(decimal.NewFromInt(100)))

	history, err := s.walletService.GetHistory(s.GetContext(), types.PageRequest{})
	s.NoError(err)
	s.Len(history.Items, 1)
}

func (s *WalletServiceSuite) TestNonPositiveAmounts() {
	_, err := s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.Zero,
		Reason: "nothing",
	})
	s.Error(err)
	s.True(ierr.IsInvalidAmount(err))

	_, err = s.walletService.Debit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(-5),
		Reason: "negative",
	})
	s.Error(err)
	s.True(ierr.IsInvalidAmount(err))
}

func (s *WalletServiceSuite) TestDuplicateReference() {
	_, err := s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount:    decimal.NewFromInt(50),
		Reason:    "payment",
		Reference: "ref-1",
	})
	s.NoError(err)

	_, err = s.walletService.Debit(s.GetContext(), dto.WalletOperationRequest{
		Amount:    decimal.NewFromInt(10),
		Reason:    "retry",
		Reference: "ref-1",
	})
	s.Error(err)
	s.True(ierr.IsDuplicateTransaction(err))

	// Empty references never collide
	for i := 0; i < 2; i++ {
		_, err = s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
			Amount: decimal.NewFromInt(1),
			Reason: "no reference",
		})
		s.NoError(err)
	}
}

func (s *WalletServiceSuite) TestAdjust() {
	up, err := s.walletService.Adjust(s.GetContext(), dto.AdjustWalletRequest{
		Amount: decimal.NewFromInt(25),
		Reason: "correction up",
	})
	s.NoError(err)
	s.Equal(types.TransactionTypeAdjustmentCredit, up.Type)
	s.True(up.Amount.Equal(decimal.NewFromInt(25)))

	down, err := s.walletService.Adjust(s.GetContext(), dto.AdjustWalletRequest{
		Amount: decimal.NewFromInt(-10),
		Reason: "correction down",
	})
	s.NoError(err)
	s.Equal(types.TransactionTypeAdjustmentDebit, down.Type)
	s.True(down.Amount.Equal(decimal.NewFromInt(10)), "ledger stores the magnitude")
	s.True(down.BalanceAfter.Equal(decimal.NewFromInt(15)))

	_, err = s.walletService.Adjust(s.GetContext(), dto.AdjustWalletRequest{
		Amount: decimal.Zero,
		Reason: "noop",
	})
	s.Error(err)
	s.True(ierr.IsInvalidAmount(err))

	events := s.GetAuditEmitter().EventsNamed(types.AuditEventWalletAdjusted)
	s.Len(events, 2)
}

func (s *WalletServiceSuite) TestFreezeBlocksOperations() {
	_, err := s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(10),
		Reason: "top up",
	})
	s.Require().NoError(err)

	frozen, err := s.walletService.Freeze(s.GetContext())
	s.NoError(err)
	s.Equal(types.WalletStatusFrozen, frozen.WalletStatus)

	_, err = s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(10),
		Reason: "blocked",
	})
	s.Error(err)
	s.True(ierr.IsWalletFrozen(err))

	unfrozen, err := s.walletService.Unfreeze(s.GetContext())
	s.NoError(err)
	s.Equal(types.WalletStatusActive, unfrozen.WalletStatus)

	_, err = s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(10),
		Reason: "unblocked",
	})
	s.NoError(err)
}

func (s *WalletServiceSuite) TestCloseRequiresZeroBalance() {
	_, err := s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(10),
		Reason: "top up",
	})
	s.Require().NoError(err)

	_, err = s.walletService.Close(s.GetContext())
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))

	_, err = s.walletService.Debit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(10),
		Reason: "drain",
	})
	s.Require().NoError(err)

	closed, err := s.walletService.Close(s.GetContext())
	s.NoError(err)
	s.Equal(types.WalletStatusClosed, closed.WalletStatus)

	// Closed is terminal
	_, err = s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(1),
		Reason: "late",
	})
	s.Error(err)
	s.True(ierr.IsWalletClosed(err))

	_, err = s.walletService.Unfreeze(s.GetContext())
	s.Error(err)
	s.True(ierr.IsWalletClosed(err))
}

func (s *WalletServiceSuite) TestStoreRejectsCloseWithBalance() {
	_, err := s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.NewFromInt(5),
		Reason: "top up",
	})
	s.Require().NoError(err)

	w, err := s.walletService.GetWallet(s.GetContext())
	s.Require().NoError(err)

	// The zero-balance rule is enforced by the store against the locked row,
	// so a balance that changed after the caller's read still blocks the close
	_, err = s.GetStores().WalletRepo.ProcessStatusTransition(s.GetContext(), w.ID, types.WalletStatusClosed)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))

	current, err := s.walletService.GetWallet(s.GetContext())
	s.NoError(err)
	s.Equal(types.WalletStatusActive, current.WalletStatus)
}

func (s *WalletServiceSuite) TestHistoryNewestFirstAndPaged() {
	for i := 1; i <= 5; i++ {
		_, err := s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
			Amount: decimal.NewFromInt(int64(i)),
			Reason: fmt.Sprintf("credit %d", i),
		})
		s.Require().NoError(err)
	}

	page, err := s.walletService.GetHistory(s.GetContext(), types.PageRequest{Limit: 2})
	s.NoError(err)
	s.Len(page.Items, 2)
	s.Equal(5, page.Pagination.Total)
	s.True(page.Items[0].Amount.Equal(decimal.NewFromInt(5)), "newest first")
	s.True(page.Items[1].Amount.Equal(decimal.NewFromInt(4)))

	next, err := s.walletService.GetHistory(s.GetContext(), types.PageRequest{Limit: 2, Offset: 2})
	s.NoError(err)
	s.Len(next.Items, 2)
	s.True(next.Items[0].Amount.Equal(decimal.NewFromInt(3)))
}

func (s *WalletServiceSuite) TestLedgerReplayAfterRandomOperations() {
	rng := rand.New(rand.NewSource(42))
	expected := decimal.Zero

	for i := 0; i < 50; i++ {
		amount := decimal.NewFromInt(int64(rng.Intn(100) + 1))

		if rng.Intn(2) == 0 || expected.LessThan(amount) {
			_, err := s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
				Amount: amount,
				Reason: "random credit",
			})
			s.Require().NoError(err)
			expected = expected.Add(amount)
		} else {
			_, err := s.walletService.Debit(s.GetContext(), dto.WalletOperationRequest{
				Amount: amount,
				Reason: "random debit",
			})
			s.Require().NoError(err)
			expected = expected.Sub(amount)
		}
	}

	w, err := s.walletService.GetWallet(s.GetContext())
	s.NoError(err)
	s.True(w.Balance.Equal(expected), "stored %s, expected %s", w.Balance, expected)

	verification, err := s.walletService.VerifyBalance(s.GetContext())
	s.NoError(err)
	s.True(verification.Valid, "discrepancies: %v", verification.Discrepancies)
	s.Equal(50, verification.TransactionCount)
	s.True(verification.ComputedBalance.Equal(expected))
}

func (s *WalletServiceSuite) TestConcurrentCredits() {
	// Warm up so all goroutines hit the same wallet
	_, err := s.walletService.GetWallet(s.GetContext())
	s.Require().NoError(err)

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
				Amount: decimal.NewFromInt(7),
				Reason: "concurrent credit",
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	w, err := s.walletService.GetWallet(s.GetContext())
	s.NoError(err)
	s.True(w.Balance.Equal(decimal.NewFromInt(70)))

	verification, err := s.walletService.VerifyBalance(s.GetContext())
	s.NoError(err)
	s.True(verification.Valid, "discrepancies: %v", verification.Discrepancies)
}

func (s *WalletServiceSuite) TestDecimalPrecisionPreserved() {
	_, err := s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.RequireFromString("0.1"),
		Reason: "tenth",
	})
	s.Require().NoError(err)

	_, err = s.walletService.Credit(s.GetContext(), dto.WalletOperationRequest{
		Amount: decimal.RequireFromString("0.2"),
		Reason: "fifth",
	})
	s.Require().NoError(err)

	w, err := s.walletService.GetWallet(s.GetContext())
	s.NoError(err)
	s.True(w.Balance.Equal(decimal.RequireFromString("0.3")),
		"expected exactly 0.3, got %s", w.Balance)
}
