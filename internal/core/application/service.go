package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ChiaveLabs/chiave/internal/core/domain"
	"github.com/ChiaveLabs/chiave/internal/core/ports"
	"github.com/ChiaveLabs/chiave/pkg/hashlock"
	"github.com/sirupsen/logrus"
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type CreateSwapRequest struct {
	Recipient string
	Amount    uint64
	Hashlock  string
	Timelock  uint64
	LedgerId  string
}

type WithdrawRequest struct {
	SwapId   string
	Preimage string
}

type RefundRequest struct {
	SwapId string
}

// Service drives the swap lifecycle: Open -> Withdrawn or Open -> Refunded,
// both terminal. Every mutating operation takes the authenticated caller
// identity supplied by the hosting environment.
type Service struct {
	BuildInfo BuildInfo

	repoManager   ports.RepoManager
	ledgerSvc     ports.TransferClient
	clock         ports.Clock
	schedulerSvc  ports.SchedulerService
	sweepInterval time.Duration
}

func NewService(
	buildInfo BuildInfo,
	repoManager ports.RepoManager,
	ledgerSvc ports.TransferClient,
	clock ports.Clock,
	schedulerSvc ports.SchedulerService,
	sweepInterval time.Duration,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("missing ledger transfer client")
	}
	if clock == nil {
		return nil, fmt.Errorf("missing clock")
	}

	return &Service{
		BuildInfo:     buildInfo,
		repoManager:   repoManager,
		ledgerSvc:     ledgerSvc,
		clock:         clock,
		schedulerSvc:  schedulerSvc,
		sweepInterval: sweepInterval,
	}, nil
}

// Start schedules the expiry sweep, if a scheduler is configured.
func (s *Service) Start() error {
	if s.schedulerSvc == nil || s.sweepInterval <= 0 {
		return nil
	}
	s.schedulerSvc.Start()
	if err := s.schedulerSvc.ScheduleExpirySweep(s.sweepInterval, s.sweepExpired); err != nil {
		return fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}
	logrus.Infof("expiry sweep scheduled every %s", s.sweepInterval)
	return nil
}

func (s *Service) Stop() {
	if s.schedulerSvc != nil {
		s.schedulerSvc.Stop()
	}
	s.repoManager.Close()
}

// CreateSwap validates the request, derives the swap id from the caller and
// the hashlock, and stores a new open swap. Validation fails fast with the
// first violated rule.
func (s *Service) CreateSwap(
	ctx context.Context, caller string, req CreateSwapRequest,
) (string, *domain.Swap, error) {
	if err := s.validateCreateSwapRequest(req); err != nil {
		return "", nil, err
	}

	swapId := domain.DeriveSwapId(caller, req.Hashlock)
	swap := domain.Swap{
		Id:        swapId,
		Sender:    caller,
		Recipient: req.Recipient,
		Amount:    req.Amount,
		Hashlock:  req.Hashlock,
		Timelock:  req.Timelock,
		LedgerId:  req.LedgerId,
	}

	inserted, err := s.repoManager.Swaps().Add(ctx, swap)
	if err != nil {
		return "", nil, fmt.Errorf("failed to store swap: %w", err)
	}
	if !inserted {
		return "", nil, ErrSwapExists
	}

	logrus.WithFields(logrus.Fields{
		"swap_id": swapId,
		"amount":  swap.Amount,
	}).Info("swap created")
	return swapId, &swap, nil
}

// Withdraw releases the escrowed amount to the recipient in exchange for the
// hashlock preimage. It runs in two phases: phase 1 validates against a
// snapshot and initiates the ledger transfer, the one point where the request
// suspends; phase 2 commits the terminal state through an optimistic re-check
// of the live record, since another withdraw or refund may have completed
// while the transfer was in flight.
func (s *Service) Withdraw(
	ctx context.Context, caller string, req WithdrawRequest,
) (*domain.Swap, uint64, error) {
	swap, err := s.repoManager.Swaps().Get(ctx, req.SwapId)
	if err != nil {
		if errors.Is(err, domain.ErrSwapNotFound) {
			return nil, 0, ErrSwapNotFound
		}
		return nil, 0, fmt.Errorf("failed to load swap: %w", err)
	}
	if swap.IsExpired(s.clock.Now()) {
		return nil, 0, ErrTimelockExpired
	}
	if caller != swap.Recipient {
		return nil, 0, ErrNotRecipient
	}
	if !hashlock.Verify(req.Preimage, swap.Hashlock) {
		return nil, 0, ErrInvalidPreimage
	}
	if swap.Withdrawn {
		return nil, 0, ErrAlreadyWithdrawn
	}
	if swap.Refunded {
		return nil, 0, ErrAlreadyRefunded
	}

	blockIndex, err := s.ledgerSvc.Transfer(
		ctx, swap.LedgerId, swap.Amount, swap.Recipient, req.SwapId,
	)
	if err != nil {
		logrus.WithError(err).WithField("swap_id", req.SwapId).Warn("ledger transfer failed")
		return nil, 0, ErrTransferFailed
	}

	preimage := req.Preimage
	updated, applied, err := s.repoManager.Swaps().UpdateIf(
		ctx, req.SwapId,
		func(cur domain.Swap) bool { return !cur.IsTerminal() },
		func(cur *domain.Swap) {
			cur.Withdrawn = true
			cur.Preimage = &preimage
		},
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to update swap: %w", err)
	}
	if !applied {
		// Another call finalized the swap while the transfer was in
		// flight. The transfer itself already settled; surface the
		// conflict instead of overwriting the terminal state.
		logrus.WithFields(logrus.Fields{
			"swap_id":     req.SwapId,
			"block_index": blockIndex,
		}).Warn("swap finalized during transfer, settlement already executed")
		return nil, 0, terminalErr(*updated)
	}

	logrus.WithFields(logrus.Fields{
		"swap_id":     req.SwapId,
		"block_index": blockIndex,
	}).Info("swap withdrawn")
	return updated, blockIndex, nil
}

// Refund returns an expired, unclaimed swap to its sender. It only flips the
// refunded flag: no funds move on the ledger, the caller drives any follow-up
// transfer out of escrow. The commit goes through the same terminal-state
// predicate as withdraw, so only one of the two can ever win.
func (s *Service) Refund(
	ctx context.Context, caller string, req RefundRequest,
) (*domain.Swap, error) {
	swap, err := s.repoManager.Swaps().Get(ctx, req.SwapId)
	if err != nil {
		if errors.Is(err, domain.ErrSwapNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, fmt.Errorf("failed to load swap: %w", err)
	}
	if !swap.IsExpired(s.clock.Now()) {
		return nil, ErrTimelockNotExpired
	}
	if caller != swap.Sender {
		return nil, ErrNotSender
	}
	if swap.Withdrawn {
		return nil, ErrAlreadyWithdrawn
	}
	if swap.Refunded {
		return nil, ErrAlreadyRefunded
	}

	updated, applied, err := s.repoManager.Swaps().UpdateIf(
		ctx, req.SwapId,
		func(cur domain.Swap) bool { return !cur.IsTerminal() },
		func(cur *domain.Swap) { cur.Refunded = true },
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update swap: %w", err)
	}
	if !applied {
		return nil, terminalErr(*updated)
	}

	logrus.WithField("swap_id", req.SwapId).Info("swap refunded")
	return updated, nil
}

func (s *Service) validateCreateSwapRequest(req CreateSwapRequest) error {
	if len(req.Recipient) <= 0 {
		return ErrRecipientEmpty
	}
	if req.Amount == 0 {
		return ErrAmountZero
	}
	if len(req.Hashlock) <= 0 {
		return ErrHashlockEmpty
	}
	if !hashlock.IsValid(req.Hashlock) {
		return ErrHashlockInvalid
	}
	if req.Timelock <= s.clock.Now() {
		return ErrTimelockNotFuture
	}
	return nil
}

func (s *Service) sweepExpired() {
	swaps, err := s.GetExpiredSwaps(context.Background())
	if err != nil {
		logrus.WithError(err).Warn("expiry sweep failed")
		return
	}
	if len(swaps) <= 0 {
		return
	}
	logrus.Infof("%d expired swap(s) awaiting refund", len(swaps))
}

func terminalErr(swap domain.Swap) error {
	if swap.Withdrawn {
		return ErrAlreadyWithdrawn
	}
	return ErrAlreadyRefunded
}
