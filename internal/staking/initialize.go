package staking

import (
	"github.com/solbound-dev/stakepool/internal/account"
	"github.com/solbound-dev/stakepool/internal/instruction"
	"github.com/solbound-dev/stakepool/internal/pool"
)

// initialize binds the pool to its owner and, when the instruction carries an
// asset binding, to its stake/reward asset pair. A pool can only be
// initialized once.
func (p *Processor) initialize(record *pool.PoolRecord, instr instruction.Instruction, accs []*account.Account) error {
	if err := requireAccounts(accs, 1); err != nil {
		return err
	}
	owner := accs[0]

	if !owner.Signer {
		return ErrMissingSignature
	}
	if record.Initialized {
		return ErrPoolAlreadyInitialized
	}

	record.Initialized = true
	record.Owner = owner.Key
	if instr.HasAssets {
		record.StakeAsset = instr.StakeAsset
		record.RewardAsset = instr.RewardAsset
	}

	p.log.Info().Str("owner", owner.Key.String()).Msg("pool initialized")
	return nil
}
