package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/solbound-dev/stakepool/internal/crypto"
	"github.com/solbound-dev/stakepool/internal/safemath"
	"github.com/solbound-dev/stakepool/pkg/db"
	"github.com/solbound-dev/stakepool/pkg/db/pebble"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// Balances keeps per-(asset, holder) token balances and moves value between
// holders. It is the production implementation of the transfer collaborator:
// a Move either lands on both sides atomically or not at all.
type Balances struct {
	db db.KVStore
}

func NewBalances(kv db.KVStore) *Balances {
	return &Balances{db: kv}
}

// Balance returns the holder's balance of asset; absent entries are zero.
func (b *Balances) Balance(asset crypto.AssetID, holder crypto.Identity) (uint64, error) {
	value, err := b.db.Get(makeKey(prefixBalance, asset[:], holder[:]))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get balance: %w", err)
	}
	if len(value) != 8 {
		return 0, errors.New("corrupt balance entry")
	}
	return binary.LittleEndian.Uint64(value), nil
}

// Mint credits amount of asset to the holder. A host-side operation used to
// fund accounts; ledger operations themselves only move existing value.
func (b *Balances) Mint(asset crypto.AssetID, to crypto.Identity, amount uint64) error {
	balance, err := b.Balance(asset, to)
	if err != nil {
		return err
	}
	next, ok := safemath.Add64(balance, amount)
	if !ok {
		return fmt.Errorf("%w: minting %d onto %d", ErrBalanceOverflow, amount, balance)
	}
	return b.put(asset, to, next)
}

// Move transfers amount of asset from one holder to another. Implements
// account.Transfer.
func (b *Balances) Move(asset crypto.AssetID, from, to crypto.Identity, amount uint64) error {
	fromBalance, err := b.Balance(asset, from)
	if err != nil {
		return err
	}
	nextFrom, ok := safemath.Sub64(fromBalance, amount)
	if !ok {
		return fmt.Errorf("%w: %s holds %d of %s, moving %d", ErrInsufficientBalance, from, fromBalance, asset, amount)
	}

	if from == to {
		return nil
	}

	toBalance, err := b.Balance(asset, to)
	if err != nil {
		return err
	}
	nextTo, ok := safemath.Add64(toBalance, amount)
	if !ok {
		return fmt.Errorf("%w: %s holds %d of %s, receiving %d", ErrBalanceOverflow, to, toBalance, asset, amount)
	}

	batch := b.db.NewBatch()
	defer batch.Close()

	if err := batch.Put(makeKey(prefixBalance, asset[:], from[:]), encodeBalance(nextFrom)); err != nil {
		return fmt.Errorf("stage debit: %w", err)
	}
	if err := batch.Put(makeKey(prefixBalance, asset[:], to[:]), encodeBalance(nextTo)); err != nil {
		return fmt.Errorf("stage credit: %w", err)
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}
	return nil
}

// ForEach visits every holder of asset with a non-zero recorded balance.
func (b *Balances) ForEach(asset crypto.AssetID, fn func(holder crypto.Identity, amount uint64) error) error {
	start := makeKey(prefixBalance, asset[:])
	iter, err := b.db.NewIterator(start, prefixUpperBound(start))
	if err != nil {
		return fmt.Errorf("create iterator: %w", err)
	}
	defer iter.Close()

	for iter.Next() {
		if !iter.Valid() {
			break
		}
		key := iter.Key()
		if len(key) != 1+2*crypto.IdentitySize {
			continue
		}
		value, err := iter.Value()
		if err != nil {
			return fmt.Errorf("read balance value: %w", err)
		}
		if len(value) != 8 {
			continue
		}
		var holder crypto.Identity
		copy(holder[:], key[1+crypto.IdentitySize:])
		if err := fn(holder, binary.LittleEndian.Uint64(value)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Balances) put(asset crypto.AssetID, holder crypto.Identity, amount uint64) error {
	if err := b.db.Put(makeKey(prefixBalance, asset[:], holder[:]), encodeBalance(amount)); err != nil {
		return fmt.Errorf("put balance: %w", err)
	}
	return nil
}

func encodeBalance(amount uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, amount)
	return buf
}
