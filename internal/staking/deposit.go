package staking

import (
	"fmt"

	"github.com/solbound-dev/stakepool/internal/account"
	"github.com/solbound-dev/stakepool/internal/instruction"
	"github.com/solbound-dev/stakepool/internal/pool"
	"github.com/solbound-dev/stakepool/internal/safemath"
	"github.com/solbound-dev/stakepool/pkg/db"
)

// deposit moves stake from the participant into pool custody and credits the
// participant's position, creating it on first use. The external transfer and
// the record mutations form one atomic unit: a failed transfer leaves stored
// state untouched.
func (p *Processor) deposit(record *pool.PoolRecord, instr instruction.Instruction, accs []*account.Account, batch db.Batch) error {
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
	if found && position.Initialized && position.Owner != participant.Key {
		return ErrWrongPositionOwner
	}
	if !position.Initialized {
		position.Initialized = true
		position.Owner = participant.Key
	}

	nextStaked, ok := safemath.Add64(position.StakedAmount, instr.Amount)
	if !ok {
		return fmt.Errorf("%w: position balance", ErrArithmetic)
	}
	nextTotal, ok := safemath.Add64(record.TotalStaked, instr.Amount)
	if !ok {
		return fmt.Errorf("%w: pool total staked", ErrArithmetic)
	}

	if err := p.transfer.Move(record.StakeAsset, participant.Key, custody.Key, instr.Amount); err != nil {
		return fmt.Errorf("transfer stake to custody: %w", err)
	}

	position.StakedAmount = nextStaked
	record.TotalStaked = nextTotal
	if err := p.accounts.PutBatch(batch, positionAcc.Key, p.programID, position.Bytes()); err != nil {
		return err
	}

	p.log.Debug().
		Str("participant", participant.Key.String()).
		Uint64("amount", instr.Amount).
		Uint64("staked", position.StakedAmount).
		Msg("deposited tokens")
	return nil
}
