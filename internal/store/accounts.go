// Package store persists account byte buffers and asset balances in a
// key-value store. Each operation's writes are staged into one batch so that
// stored state only ever changes as a whole.
package store

import (
	"errors"
	"fmt"

	"github.com/solbound-dev/stakepool/internal/crypto"
	"github.com/solbound-dev/stakepool/pkg/db"
	"github.com/solbound-dev/stakepool/pkg/db/pebble"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already allocated")
)

// StoredAccount is one persisted account: the tag of the program that owns its
// data, and the data itself.
type StoredAccount struct {
	Program crypto.Identity
	Data    []byte
}

// Accounts manages persisted account buffers using a key-value store
type Accounts struct {
	db db.KVStore
}

// NewAccounts creates a new account store using KVStore
func NewAccounts(kv db.KVStore) *Accounts {
	return &Accounts{db: kv}
}

// Allocate creates an empty account of the given size owned by program. It
// mirrors the host runtime's account-creation step and fails if the account
// already exists.
func (a *Accounts) Allocate(key, program crypto.Identity, size int) error {
	k := makeKey(prefixAccount, key[:])
	if _, err := a.db.Get(k); err == nil {
		return fmt.Errorf("%w: %s", ErrAccountExists, key)
	} else if !errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("probe account: %w", err)
	}
	if err := a.db.Put(k, encodeAccount(program, make([]byte, size))); err != nil {
		return fmt.Errorf("allocate account: %w", err)
	}
	return nil
}

// Get retrieves an account by key
func (a *Accounts) Get(key crypto.Identity) (StoredAccount, error) {
	value, err := a.db.Get(makeKey(prefixAccount, key[:]))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return StoredAccount{}, fmt.Errorf("%w: %s", ErrAccountNotFound, key)
		}
		return StoredAccount{}, fmt.Errorf("get account: %w", err)
	}
	return decodeAccount(value)
}

// Put stores an account directly
func (a *Accounts) Put(key, program crypto.Identity, data []byte) error {
	if err := a.db.Put(makeKey(prefixAccount, key[:]), encodeAccount(program, data)); err != nil {
		return fmt.Errorf("put account: %w", err)
	}
	return nil
}

// PutBatch stages an account write into batch without committing it
func (a *Accounts) PutBatch(batch db.Batch, key, program crypto.Identity, data []byte) error {
	if err := batch.Put(makeKey(prefixAccount, key[:]), encodeAccount(program, data)); err != nil {
		return fmt.Errorf("stage account: %w", err)
	}
	return nil
}

// NewBatch opens a write batch on the underlying store
func (a *Accounts) NewBatch() db.Batch {
	return a.db.NewBatch()
}

// stored value envelope: program tag (32) followed by the raw account data
func encodeAccount(program crypto.Identity, data []byte) []byte {
	buf := make([]byte, crypto.IdentitySize+len(data))
	copy(buf, program[:])
	copy(buf[crypto.IdentitySize:], data)
	return buf
}

func decodeAccount(value []byte) (StoredAccount, error) {
	if len(value) < crypto.IdentitySize {
		return StoredAccount{}, errors.New("corrupt account envelope")
	}
	var acc StoredAccount
	copy(acc.Program[:], value[:crypto.IdentitySize])
	acc.Data = value[crypto.IdentitySize:]
	return acc, nil
}
