package domain

import (
	"context"
	"errors"
)

var ErrSwapNotFound = errors.New("swap not found")

// Swap is the sole persistent entity: a hashed time-locked escrow between a
// sender and a recipient. Funds are releasable to the recipient by revealing
// the preimage of the hashlock before the timelock, and returnable to the
// sender afterwards.
type Swap struct {
	Id        string
	Sender    string
	Recipient string
	Amount    uint64
	Hashlock  string
	Timelock  uint64 // absolute expiry, nanoseconds since unix epoch
	Withdrawn bool
	Refunded  bool
	Preimage  *string // set iff Withdrawn
	LedgerId  string
}

// IsTerminal reports whether the swap reached one of its two final states.
// Withdrawn and Refunded are mutually exclusive and write-once.
func (s Swap) IsTerminal() bool {
	return s.Withdrawn || s.Refunded
}

// IsExpired reports whether the timelock elapsed at the given instant.
func (s Swap) IsExpired(now uint64) bool {
	return now >= s.Timelock
}

// DeriveSwapId returns the composite key for a swap. The encoding is
// canonical and relied upon externally: a sender has at most one live swap
// per hashlock, so a second create with the same pair always collides.
func DeriveSwapId(sender, hashlock string) string {
	return sender + "_" + hashlock
}

// SwapRepository stores swap records for the lifetime of the process.
// Records are never deleted; terminal swaps stay queryable.
type SwapRepository interface {
	// Add inserts the swap keyed by its id, atomically checking for an
	// existing record. It returns false without mutation on collision.
	Add(ctx context.Context, swap Swap) (bool, error)
	// Get returns a snapshot copy, or ErrSwapNotFound.
	Get(ctx context.Context, swapId string) (*Swap, error)
	// UpdateIf re-reads the live record in a single write transaction and
	// applies mutate only if predicate still holds against it. It returns
	// the live snapshot after the attempt and whether mutate was applied.
	// Callers must not trust any state captured before a suspension point;
	// this re-check is what keeps a stale withdraw from overwriting a
	// terminal state reached while it was waiting on the ledger.
	UpdateIf(
		ctx context.Context, swapId string,
		predicate func(Swap) bool, mutate func(*Swap),
	) (*Swap, bool, error)
	GetAll(ctx context.Context) ([]Swap, error)
	GetBySender(ctx context.Context, sender string) ([]Swap, error)
	GetByRecipient(ctx context.Context, recipient string) ([]Swap, error)
	Count(ctx context.Context) (uint64, error)
	Close()
}
