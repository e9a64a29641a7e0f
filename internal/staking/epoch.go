package staking

import (
	"github.com/solbound-dev/stakepool/internal/account"
	"github.com/solbound-dev/stakepool/internal/instruction"
	"github.com/solbound-dev/stakepool/internal/pool"
)

// startEpoch opens the next reward epoch. Epoch windows are strictly ordered
// and never overlap; only the pool owner may start one. EpochEnd defaults to
// 0 on a fresh pool, which is what admits the very first epoch.
func (p *Processor) startEpoch(record *pool.PoolRecord, instr instruction.Instruction, accs []*account.Account) error {
	if err := requireAccounts(accs, 1); err != nil {
		return err
	}
	owner := accs[0]

	if !owner.Signer {
		return ErrMissingSignature
	}
	if owner.Key != record.Owner {
		return ErrNotPoolOwner
	}

	if instr.StartTime <= record.EpochEnd {
		return ErrEpochOutOfOrder
	}
	if instr.EndTime <= instr.StartTime {
		return ErrEmptyEpochWindow
	}

	record.EpochStart = instr.StartTime
	record.EpochEnd = instr.EndTime
	record.EpochReward = instr.RewardAmount
	record.EpochID++

	p.log.Info().
		Uint16("epoch", record.EpochID).
		Uint64("start", record.EpochStart).
		Uint64("end", record.EpochEnd).
		Uint64("reward", record.EpochReward).
		Msg("started new epoch")
	return nil
}
