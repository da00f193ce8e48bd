package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/ChiaveLabs/chiave/internal/core/application"
	"github.com/ChiaveLabs/chiave/internal/core/domain"
	"github.com/ChiaveLabs/chiave/internal/infrastructure/db"
	"github.com/ChiaveLabs/chiave/pkg/hashlock"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

const hour = uint64(time.Hour)

type fakeClock struct {
	now uint64
}

func (c *fakeClock) Now() uint64 { return c.now }

func (c *fakeClock) advance(d uint64) { c.now += d }

type stubLedger struct {
	transferFn func(ctx context.Context, ledgerId string, amount uint64, recipient, memo string) (uint64, error)
	calls      int
}

func (l *stubLedger) Transfer(
	ctx context.Context, ledgerId string, amount uint64, recipient, memo string,
) (uint64, error) {
	l.calls++
	if l.transferFn != nil {
		return l.transferFn(ctx, ledgerId, amount, recipient, memo)
	}
	return 1, nil
}

func newTestService(t *testing.T) (*application.Service, *fakeClock, *stubLedger) {
	repoManager, err := db.NewService(db.ServiceConfig{
		DbType:   "badger",
		DbConfig: []any{"", nil},
	})
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	clock := &fakeClock{now: uint64(time.Unix(1_700_000_000, 0).UnixNano())}
	ledger := &stubLedger{}

	svc, err := application.NewService(
		application.BuildInfo{Version: "test"}, repoManager, ledger, clock, nil, 0,
	)
	require.NoError(t, err)
	return svc, clock, ledger
}

func validCreateRequest(clock *fakeClock, preimage string) application.CreateSwapRequest {
	return application.CreateSwapRequest{
		Recipient: "bob",
		Amount:    100,
		Hashlock:  hashlock.Hash(preimage),
		Timelock:  clock.Now() + hour,
		LedgerId:  "ledger-1",
	}
}

func TestCreateSwap(t *testing.T) {
	svc, clock, _ := newTestService(t)

	req := validCreateRequest(clock, "secret")
	swapId, swap, err := svc.CreateSwap(ctx, "alice", req)
	require.NoError(t, err)
	require.Equal(t, domain.DeriveSwapId("alice", req.Hashlock), swapId)
	require.Equal(t, "alice", swap.Sender)
	require.Equal(t, "bob", swap.Recipient)
	require.False(t, swap.Withdrawn)
	require.False(t, swap.Refunded)
	require.Nil(t, swap.Preimage)

	stored, err := svc.GetSwap(ctx, swapId)
	require.NoError(t, err)
	require.Equal(t, *swap, *stored)
}

func TestCreateSwapValidation(t *testing.T) {
	svc, clock, _ := newTestService(t)

	tests := []struct {
		name        string
		mutate      func(*application.CreateSwapRequest)
		expectedErr error
	}{
		{
			name:        "empty recipient",
			mutate:      func(r *application.CreateSwapRequest) { r.Recipient = "" },
			expectedErr: application.ErrRecipientEmpty,
		},
		{
			name: "recipient checked before amount",
			mutate: func(r *application.CreateSwapRequest) {
				r.Recipient = ""
				r.Amount = 0
			},
			expectedErr: application.ErrRecipientEmpty,
		},
		{
			name:        "zero amount",
			mutate:      func(r *application.CreateSwapRequest) { r.Amount = 0 },
			expectedErr: application.ErrAmountZero,
		},
		{
			name:        "empty hashlock",
			mutate:      func(r *application.CreateSwapRequest) { r.Hashlock = "" },
			expectedErr: application.ErrHashlockEmpty,
		},
		{
			name:        "short hashlock",
			mutate:      func(r *application.CreateSwapRequest) { r.Hashlock = "abc123" },
			expectedErr: application.ErrHashlockInvalid,
		},
		{
			name: "non-hex hashlock",
			mutate: func(r *application.CreateSwapRequest) {
				r.Hashlock = "zz" + r.Hashlock[2:]
			},
			expectedErr: application.ErrHashlockInvalid,
		},
		{
			name:        "timelock in the past",
			mutate:      func(r *application.CreateSwapRequest) { r.Timelock = clock.Now() - 1 },
			expectedErr: application.ErrTimelockNotFuture,
		},
		{
			name:        "timelock equal to now",
			mutate:      func(r *application.CreateSwapRequest) { r.Timelock = clock.Now() },
			expectedErr: application.ErrTimelockNotFuture,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest(clock, "secret")
			tt.mutate(&req)
			_, _, err := svc.CreateSwap(ctx, "alice", req)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}

	count, err := svc.GetSwapCount(ctx)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestCreateSwapDuplicate(t *testing.T) {
	svc, clock, _ := newTestService(t)

	req := validCreateRequest(clock, "secret")
	swapId, _, err := svc.CreateSwap(ctx, "alice", req)
	require.NoError(t, err)

	dup := req
	dup.Amount = 999
	_, _, err = svc.CreateSwap(ctx, "alice", dup)
	require.ErrorIs(t, err, application.ErrSwapExists)

	// the existing record is untouched
	stored, err := svc.GetSwap(ctx, swapId)
	require.NoError(t, err)
	require.Equal(t, uint64(100), stored.Amount)

	// same hashlock from a different sender does not collide
	_, _, err = svc.CreateSwap(ctx, "carol", req)
	require.NoError(t, err)
}

func TestWithdraw(t *testing.T) {
	svc, clock, ledger := newTestService(t)

	req := validCreateRequest(clock, "secret")
	swapId, _, err := svc.CreateSwap(ctx, "alice", req)
	require.NoError(t, err)

	t.Run("not found", func(t *testing.T) {
		_, _, err := svc.Withdraw(ctx, "bob", application.WithdrawRequest{SwapId: "missing", Preimage: "secret"})
		require.ErrorIs(t, err, application.ErrSwapNotFound)
	})

	t.Run("only recipient can withdraw", func(t *testing.T) {
		_, _, err := svc.Withdraw(ctx, "mallory", application.WithdrawRequest{SwapId: swapId, Preimage: "secret"})
		require.ErrorIs(t, err, application.ErrNotRecipient)
	})

	t.Run("invalid preimage", func(t *testing.T) {
		_, _, err := svc.Withdraw(ctx, "bob", application.WithdrawRequest{SwapId: swapId, Preimage: "wrong"})
		require.ErrorIs(t, err, application.ErrInvalidPreimage)
		requireUnchanged(t, svc, swapId)
	})

	t.Run("transfer failure leaves record untouched", func(t *testing.T) {
		ledger.transferFn = func(context.Context, string, uint64, string, string) (uint64, error) {
			return 0, context.DeadlineExceeded
		}
		_, _, err := svc.Withdraw(ctx, "bob", application.WithdrawRequest{SwapId: swapId, Preimage: "secret"})
		require.ErrorIs(t, err, application.ErrTransferFailed)
		requireUnchanged(t, svc, swapId)
		ledger.transferFn = nil
	})

	t.Run("success", func(t *testing.T) {
		ledger.transferFn = func(_ context.Context, ledgerId string, amount uint64, recipient, _ string) (uint64, error) {
			require.Equal(t, "ledger-1", ledgerId)
			require.Equal(t, uint64(100), amount)
			require.Equal(t, "bob", recipient)
			return 42, nil
		}
		swap, blockIndex, err := svc.Withdraw(ctx, "bob", application.WithdrawRequest{SwapId: swapId, Preimage: "secret"})
		require.NoError(t, err)
		require.Equal(t, uint64(42), blockIndex)
		require.True(t, swap.Withdrawn)
		require.False(t, swap.Refunded)
		require.NotNil(t, swap.Preimage)
		require.Equal(t, "secret", *swap.Preimage)
		ledger.transferFn = nil
	})

	t.Run("already withdrawn", func(t *testing.T) {
		calls := ledger.calls
		_, _, err := svc.Withdraw(ctx, "bob", application.WithdrawRequest{SwapId: swapId, Preimage: "secret"})
		require.ErrorIs(t, err, application.ErrAlreadyWithdrawn)
		// terminal check happens before any transfer
		require.Equal(t, calls, ledger.calls)
	})

	t.Run("timelock expired", func(t *testing.T) {
		otherReq := validCreateRequest(clock, "other")
		otherId, _, err := svc.CreateSwap(ctx, "alice", otherReq)
		require.NoError(t, err)

		clock.advance(2 * hour)
		_, _, err = svc.Withdraw(ctx, "bob", application.WithdrawRequest{SwapId: otherId, Preimage: "other"})
		require.ErrorIs(t, err, application.ErrTimelockExpired)
	})
}

func TestRefund(t *testing.T) {
	svc, clock, _ := newTestService(t)

	req := validCreateRequest(clock, "secret")
	swapId, _, err := svc.CreateSwap(ctx, "alice", req)
	require.NoError(t, err)

	t.Run("not found", func(t *testing.T) {
		_, err := svc.Refund(ctx, "alice", application.RefundRequest{SwapId: "missing"})
		require.ErrorIs(t, err, application.ErrSwapNotFound)
	})

	t.Run("timelock not expired", func(t *testing.T) {
		_, err := svc.Refund(ctx, "alice", application.RefundRequest{SwapId: swapId})
		require.ErrorIs(t, err, application.ErrTimelockNotExpired)
		requireUnchanged(t, svc, swapId)
	})

	t.Run("only sender can refund", func(t *testing.T) {
		clock.advance(2 * hour)
		_, err := svc.Refund(ctx, "bob", application.RefundRequest{SwapId: swapId})
		require.ErrorIs(t, err, application.ErrNotSender)
		requireUnchanged(t, svc, swapId)
	})

	t.Run("success", func(t *testing.T) {
		swap, err := svc.Refund(ctx, "alice", application.RefundRequest{SwapId: swapId})
		require.NoError(t, err)
		require.True(t, swap.Refunded)
		require.False(t, swap.Withdrawn)
		require.Nil(t, swap.Preimage)
	})

	t.Run("already refunded", func(t *testing.T) {
		_, err := svc.Refund(ctx, "alice", application.RefundRequest{SwapId: swapId})
		require.ErrorIs(t, err, application.ErrAlreadyRefunded)
	})

	t.Run("withdraw after refund", func(t *testing.T) {
		clock.now = req.Timelock - hour
		_, _, err := svc.Withdraw(ctx, "bob", application.WithdrawRequest{SwapId: swapId, Preimage: "secret"})
		require.ErrorIs(t, err, application.ErrAlreadyRefunded)
	})
}

// A refund that fully completes while a withdraw is suspended on the ledger
// transfer must win; the withdraw observes the terminal state at resume and
// must not overwrite it, even though its transfer settled.
func TestWithdrawRefundRace(t *testing.T) {
	svc, clock, ledger := newTestService(t)

	req := validCreateRequest(clock, "secret")
	swapId, _, err := svc.CreateSwap(ctx, "alice", req)
	require.NoError(t, err)

	ledger.transferFn = func(context.Context, string, uint64, string, string) (uint64, error) {
		// interleaved while the withdraw awaits settlement
		clock.advance(2 * hour)
		swap, err := svc.Refund(ctx, "alice", application.RefundRequest{SwapId: swapId})
		require.NoError(t, err)
		require.True(t, swap.Refunded)
		return 42, nil
	}

	_, _, err = svc.Withdraw(ctx, "bob", application.WithdrawRequest{SwapId: swapId, Preimage: "secret"})
	require.ErrorIs(t, err, application.ErrAlreadyRefunded)

	stored, err := svc.GetSwap(ctx, swapId)
	require.NoError(t, err)
	require.True(t, stored.Refunded)
	require.False(t, stored.Withdrawn)
	require.Nil(t, stored.Preimage)
}

// Two interleaved withdraws: exactly one commits, the other reports the
// terminal state at resume.
func TestConcurrentWithdraws(t *testing.T) {
	svc, clock, ledger := newTestService(t)

	req := validCreateRequest(clock, "secret")
	swapId, _, err := svc.CreateSwap(ctx, "alice", req)
	require.NoError(t, err)

	nested := false
	ledger.transferFn = func(context.Context, string, uint64, string, string) (uint64, error) {
		if !nested {
			nested = true
			swap, blockIndex, err := svc.Withdraw(ctx, "bob", application.WithdrawRequest{SwapId: swapId, Preimage: "secret"})
			require.NoError(t, err)
			require.Equal(t, uint64(7), blockIndex)
			require.True(t, swap.Withdrawn)
		}
		return 7, nil
	}

	_, _, err = svc.Withdraw(ctx, "bob", application.WithdrawRequest{SwapId: swapId, Preimage: "secret"})
	require.ErrorIs(t, err, application.ErrAlreadyWithdrawn)
	require.Equal(t, 2, ledger.calls)

	stored, err := svc.GetSwap(ctx, swapId)
	require.NoError(t, err)
	require.True(t, stored.Withdrawn)
	require.NotNil(t, stored.Preimage)
	require.Equal(t, "secret", *stored.Preimage)
}

func TestQueryProjections(t *testing.T) {
	svc, clock, _ := newTestService(t)

	mkReq := func(recipient, preimage string, expiry uint64) application.CreateSwapRequest {
		return application.CreateSwapRequest{
			Recipient: recipient,
			Amount:    100,
			Hashlock:  hashlock.Hash(preimage),
			Timelock:  clock.Now() + expiry,
			LedgerId:  "ledger-1",
		}
	}

	shortId, _, err := svc.CreateSwap(ctx, "alice", mkReq("bob", "one", hour))
	require.NoError(t, err)
	_, _, err = svc.CreateSwap(ctx, "alice", mkReq("carol", "two", 3*hour))
	require.NoError(t, err)
	withdrawnId, _, err := svc.CreateSwap(ctx, "bob", mkReq("alice", "three", 3*hour))
	require.NoError(t, err)

	_, _, err = svc.Withdraw(ctx, "alice", application.WithdrawRequest{SwapId: withdrawnId, Preimage: "three"})
	require.NoError(t, err)

	clock.advance(2 * hour) // shortId is now expired and unclaimed

	all, err := svc.GetAllSwaps(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	count, err := svc.GetSwapCount(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(3), count)

	bySender, err := svc.GetSwapsBySender(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, bySender, 2)

	byRecipient, err := svc.GetSwapsByRecipient(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, byRecipient, 1)

	active, err := svc.GetActiveSwaps(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	for _, swap := range active {
		require.False(t, swap.IsTerminal())
	}

	expired, err := svc.GetExpiredSwaps(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	require.Equal(t, shortId, expired[0].Id)

	// a refunded swap drops out of both projections
	refundedSwap, err := svc.Refund(ctx, "alice", application.RefundRequest{SwapId: shortId})
	require.NoError(t, err)
	require.True(t, refundedSwap.Refunded)

	expired, err = svc.GetExpiredSwaps(ctx)
	require.NoError(t, err)
	require.Empty(t, expired)

	active, err = svc.GetActiveSwaps(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func requireUnchanged(t *testing.T, svc *application.Service, swapId string) {
	t.Helper()
	swap, err := svc.GetSwap(ctx, swapId)
	require.NoError(t, err)
	require.False(t, swap.Withdrawn)
	require.False(t, swap.Refunded)
	require.Nil(t, swap.Preimage)
}
