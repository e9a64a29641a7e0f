package staking

import (
	"fmt"

	"github.com/solbound-dev/stakepool/internal/account"
	"github.com/solbound-dev/stakepool/internal/instruction"
	"github.com/solbound-dev/stakepool/internal/pool"
	"github.com/solbound-dev/stakepool/internal/reward"
	"github.com/solbound-dev/stakepool/pkg/db"
)

// claim pays the participant their proportional share of the current epoch's
// reward out of reward custody. A position claims each epoch at most once;
// staked balances are never touched.
func (p *Processor) claim(record *pool.PoolRecord, instr instruction.Instruction, accs []*account.Account, batch db.Batch) error {
	if err := requireAccounts(accs, 3); err != nil {
		return err
	}
	participant, custody, positionAcc := accs[0], accs[1], accs[2]

	if !participant.Signer {
		return ErrMissingSignature
	}

	position, found, err := p.loadPosition(positionAcc.Key)
	if err != nil {
		return err
	}
	if !found || !position.Initialized {
		return ErrPositionUninitialized
	}
	if position.Owner != participant.Key {
		return ErrWrongPositionOwner
	}
	if record.EpochID != 0 && position.LastClaimedEpoch == record.EpochID {
		return ErrAlreadyClaimed
	}

	amount := reward.Calculate(position.StakedAmount, record.EpochReward, record.TotalStaked)

	if err := p.transfer.Move(record.RewardAsset, custody.Key, participant.Key, amount); err != nil {
		return fmt.Errorf("transfer reward from custody: %w", err)
	}

	if record.EpochID != 0 {
		position.LastClaimedEpoch = record.EpochID
		if err := p.accounts.PutBatch(batch, positionAcc.Key, p.programID, position.Bytes()); err != nil {
			return err
		}
	}

	p.log.Debug().
		Str("participant", participant.Key.String()).
		Uint16("epoch", record.EpochID).
		Uint64("reward", amount).
		Msg("claimed rewards")
	return nil
}
