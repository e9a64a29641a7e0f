// Package staking applies the staking-pool state transitions: one handler per
// opcode over an explicit pool record, orchestrated by a Processor that owns
// loading, routing and persistence.
package staking

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/solbound-dev/stakepool/internal/account"
	"github.com/solbound-dev/stakepool/internal/crypto"
	"github.com/solbound-dev/stakepool/internal/instruction"
	"github.com/solbound-dev/stakepool/internal/metrics"
	"github.com/solbound-dev/stakepool/internal/pool"
	"github.com/solbound-dev/stakepool/internal/store"
	"github.com/solbound-dev/stakepool/pkg/log"
)

// Processor dispatches raw instructions against one pool. It exclusively owns
// the in-memory pool record for the duration of a single Process call; the
// host guarantees calls are serialized.
type Processor struct {
	programID crypto.Identity
	poolKey   crypto.Identity
	accounts  *store.Accounts
	transfer  account.Transfer
	log       zerolog.Logger
}

func NewProcessor(programID, poolKey crypto.Identity, accounts *store.Accounts, transfer account.Transfer) *Processor {
	return &Processor{
		programID: programID,
		poolKey:   poolKey,
		accounts:  accounts,
		transfer:  transfer,
		log:       log.Staking,
	}
}

// PoolKey returns the address of the pool record account.
func (p *Processor) PoolKey() crypto.Identity {
	return p.poolKey
}

// Pool loads and decodes the current pool record.
func (p *Processor) Pool() (pool.PoolRecord, error) {
	stored, err := p.accounts.Get(p.poolKey)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return pool.PoolRecord{}, ErrPoolAccountNotFound
		}
		return pool.PoolRecord{}, err
	}
	record, err := pool.PoolRecordFromBytes(stored.Data)
	if err != nil {
		return pool.PoolRecord{}, fmt.Errorf("%w: corrupt pool record: %w", ErrState, err)
	}
	return record, nil
}

// Process decodes data, routes it to the matching handler and persists the
// resulting record state. On any failure the stored state is left exactly as
// it was before the call.
func (p *Processor) Process(data []byte, accs []*account.Account) error {
	instr, err := instruction.Decode(data)
	if err != nil {
		metrics.Operations.WithLabelValues("unknown", "error").Inc()
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	record, err := p.process(instr, accs)
	if err != nil {
		metrics.Operations.WithLabelValues(instr.Op.String(), "error").Inc()
		p.log.Debug().Err(err).Str("op", instr.Op.String()).Msg("operation rejected")
		return err
	}

	metrics.Operations.WithLabelValues(instr.Op.String(), "ok").Inc()
	metrics.TotalStaked.Set(float64(record.TotalStaked))
	return nil
}

func (p *Processor) process(instr instruction.Instruction, accs []*account.Account) (pool.PoolRecord, error) {
	stored, err := p.accounts.Get(p.poolKey)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return pool.PoolRecord{}, ErrPoolAccountNotFound
		}
		return pool.PoolRecord{}, err
	}
	if stored.Program != p.programID {
		return pool.PoolRecord{}, ErrNotOwnedByProgram
	}

	record, err := pool.PoolRecordFromBytes(stored.Data)
	if err != nil {
		return pool.PoolRecord{}, fmt.Errorf("%w: corrupt pool record: %w", ErrState, err)
	}
	if instr.Op != instruction.OpInitialize && !record.Initialized {
		return pool.PoolRecord{}, ErrPoolUninitialized
	}

	// All record writes of one operation are staged here and land together.
	batch := p.accounts.NewBatch()
	defer batch.Close()

	switch instr.Op {
	case instruction.OpInitialize:
		err = p.initialize(&record, instr, accs)
	case instruction.OpDeposit:
		err = p.deposit(&record, instr, accs, batch)
	case instruction.OpWithdraw:
		err = p.withdraw(&record, instr, accs, batch)
	case instruction.OpStartEpoch:
		err = p.startEpoch(&record, instr, accs)
	case instruction.OpClaim:
		err = p.claim(&record, instr, accs, batch)
	}
	if err != nil {
		return pool.PoolRecord{}, err
	}

	if err := p.accounts.PutBatch(batch, p.poolKey, p.programID, record.Bytes()); err != nil {
		return pool.PoolRecord{}, err
	}
	if err := batch.Commit(); err != nil {
		return pool.PoolRecord{}, fmt.Errorf("persist operation: %w", err)
	}
	return record, nil
}

// loadPosition reads a position record account, enforcing program ownership.
// A missing account is reported as found=false, not an error, because deposit
// creates positions lazily.
func (p *Processor) loadPosition(key crypto.Identity) (rec pool.PositionRecord, found bool, err error) {
	stored, err := p.accounts.Get(key)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return pool.PositionRecord{}, false, nil
		}
		return pool.PositionRecord{}, false, err
	}
	if stored.Program != p.programID {
		return pool.PositionRecord{}, false, ErrNotOwnedByProgram
	}
	rec, err = pool.PositionRecordFromBytes(stored.Data)
	if err != nil {
		return pool.PositionRecord{}, false, fmt.Errorf("%w: corrupt position record: %w", ErrState, err)
	}
	return rec, true, nil
}

func requireAccounts(accs []*account.Account, n int) error {
	if len(accs) < n {
		return fmt.Errorf("%w: want %d, got %d", ErrMissingAccounts, n, len(accs))
	}
	return nil
}
