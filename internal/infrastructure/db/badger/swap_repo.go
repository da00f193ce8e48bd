package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ChiaveLabs/chiave/internal/core/domain"
	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/timshannon/badgerhold/v4"
)

const (
	swapDir = "swap"
)

type swapRepository struct {
	store *badgerhold.Store
}

// NewSwapRepository opens the swap store. An empty baseDir opens badger in
// in-memory mode: the store is process-lifetime by default, durability is
// opt-in via a data directory.
func NewSwapRepository(baseDir string, logger badger.Logger) (domain.SwapRepository, error) {
	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, swapDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open swap store: %s", err)
	}
	return &swapRepository{store}, nil
}

func (r *swapRepository) Add(ctx context.Context, swap domain.Swap) (bool, error) {
	err := r.store.Insert(swap.Id, toSwapData(swap))
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to add swap: %w", err)
	}
	return true, nil
}

func (r *swapRepository) Get(ctx context.Context, swapId string) (*domain.Swap, error) {
	var data swapData
	err := r.store.Get(swapId, &data)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, domain.ErrSwapNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get swap: %w", err)
	}

	swap := data.toSwap()
	return &swap, nil
}

// UpdateIf applies mutate in a single read-write transaction, only if
// predicate still holds against the record as stored. The returned snapshot
// reflects the record after the attempt either way.
func (r *swapRepository) UpdateIf(
	ctx context.Context, swapId string,
	predicate func(domain.Swap) bool, mutate func(*domain.Swap),
) (*domain.Swap, bool, error) {
	var (
		live    domain.Swap
		applied bool
	)
	err := r.store.Badger().Update(func(txn *badger.Txn) error {
		var data swapData
		if err := r.store.TxGet(txn, swapId, &data); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return domain.ErrSwapNotFound
			}
			return err
		}
		live = data.toSwap()
		if !predicate(live) {
			return nil
		}
		mutate(&live)
		if err := r.store.TxUpdate(txn, swapId, toSwapData(live)); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSwapNotFound) {
			return nil, false, domain.ErrSwapNotFound
		}
		return nil, false, fmt.Errorf("failed to update swap: %w", err)
	}
	return &live, applied, nil
}

func (r *swapRepository) GetAll(ctx context.Context) ([]domain.Swap, error) {
	return r.find(nil)
}

func (r *swapRepository) GetBySender(ctx context.Context, sender string) ([]domain.Swap, error) {
	return r.find(badgerhold.Where("Sender").Eq(sender).Index("Sender"))
}

func (r *swapRepository) GetByRecipient(ctx context.Context, recipient string) ([]domain.Swap, error) {
	return r.find(badgerhold.Where("Recipient").Eq(recipient).Index("Recipient"))
}

func (r *swapRepository) Count(ctx context.Context) (uint64, error) {
	swaps, err := r.find(nil)
	if err != nil {
		return 0, err
	}
	return uint64(len(swaps)), nil
}

func (r *swapRepository) Close() {
	// nolint:all
	r.store.Close()
}

func (r *swapRepository) find(query *badgerhold.Query) ([]domain.Swap, error) {
	var dataList []swapData
	if err := r.store.Find(&dataList, query); err != nil {
		return nil, fmt.Errorf("failed to find swaps: %w", err)
	}

	swaps := make([]domain.Swap, 0, len(dataList))
	for _, data := range dataList {
		swaps = append(swaps, data.toSwap())
	}
	return swaps, nil
}

func createDB(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

type swapData struct {
	Id        string
	Sender    string `badgerholdIndex:"Sender"`
	Recipient string `badgerholdIndex:"Recipient"`
	Amount    uint64
	Hashlock  string
	Timelock  uint64
	Withdrawn bool
	Refunded  bool
	Preimage  *string
	LedgerId  string
}

func toSwapData(swap domain.Swap) swapData {
	return swapData{
		Id:        swap.Id,
		Sender:    swap.Sender,
		Recipient: swap.Recipient,
		Amount:    swap.Amount,
		Hashlock:  swap.Hashlock,
		Timelock:  swap.Timelock,
		Withdrawn: swap.Withdrawn,
		Refunded:  swap.Refunded,
		Preimage:  swap.Preimage,
		LedgerId:  swap.LedgerId,
	}
}

func (s swapData) toSwap() domain.Swap {
	return domain.Swap{
		Id:        s.Id,
		Sender:    s.Sender,
		Recipient: s.Recipient,
		Amount:    s.Amount,
		Hashlock:  s.Hashlock,
		Timelock:  s.Timelock,
		Withdrawn: s.Withdrawn,
		Refunded:  s.Refunded,
		Preimage:  s.Preimage,
		LedgerId:  s.LedgerId,
	}
}
