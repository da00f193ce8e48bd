package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ChiaveLabs/chiave/internal/core/domain"
	"github.com/ChiaveLabs/chiave/pkg/hashlock"
)

// Read-only projections over the store. None of these mutate state.

func (s *Service) GetSwap(ctx context.Context, swapId string) (*domain.Swap, error) {
	swap, err := s.repoManager.Swaps().Get(ctx, swapId)
	if err != nil {
		if errors.Is(err, domain.ErrSwapNotFound) {
			return nil, ErrSwapNotFound
		}
		return nil, fmt.Errorf("failed to load swap: %w", err)
	}
	return swap, nil
}

func (s *Service) GetAllSwaps(ctx context.Context) ([]domain.Swap, error) {
	return s.repoManager.Swaps().GetAll(ctx)
}

func (s *Service) GetSwapsBySender(ctx context.Context, sender string) ([]domain.Swap, error) {
	return s.repoManager.Swaps().GetBySender(ctx, sender)
}

func (s *Service) GetSwapsByRecipient(ctx context.Context, recipient string) ([]domain.Swap, error) {
	return s.repoManager.Swaps().GetByRecipient(ctx, recipient)
}

// GetActiveSwaps returns swaps that reached no terminal state yet.
func (s *Service) GetActiveSwaps(ctx context.Context) ([]domain.Swap, error) {
	swaps, err := s.repoManager.Swaps().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]domain.Swap, 0, len(swaps))
	for _, swap := range swaps {
		if !swap.IsTerminal() {
			active = append(active, swap)
		}
	}
	return active, nil
}

// GetExpiredSwaps returns swaps past their timelock that were neither
// withdrawn nor refunded.
func (s *Service) GetExpiredSwaps(ctx context.Context) ([]domain.Swap, error) {
	swaps, err := s.repoManager.Swaps().GetAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	expired := make([]domain.Swap, 0, len(swaps))
	for _, swap := range swaps {
		if swap.IsExpired(now) && !swap.IsTerminal() {
			expired = append(expired, swap)
		}
	}
	return expired, nil
}

func (s *Service) GetSwapCount(ctx context.Context) (uint64, error) {
	return s.repoManager.Swaps().Count(ctx)
}

func (s *Service) CurrentTime() uint64 {
	return s.clock.Now()
}

func (s *Service) HashPreimage(preimage string) string {
	return hashlock.Hash(preimage)
}

func (s *Service) VerifyPreimageHash(preimage, lock string) bool {
	return hashlock.Verify(preimage, lock)
}
