package staking

import (
	"fmt"

	"github.com/solbound-dev/stakepool/internal/account"
	"github.com/solbound-dev/stakepool/internal/instruction"
	"github.com/solbound-dev/stakepool/internal/pool"
	"github.com/solbound-dev/stakepool/internal/safemath"
	"github.com/solbound-dev/stakepool/pkg/db"
)

// withdraw returns staked tokens from pool custody to the participant. The
// position must cover the amount; a failed transfer leaves stored state
// untouched.
func (p *Processor) withdraw(record *pool.PoolRecord, instr instruction.Instruction, accs []*account.Account, batch db.Batch) error {
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

	nextStaked, ok := safemath.Sub64(position.StakedAmount, instr.Amount)
	if !ok {
		return fmt.Errorf("%w: staked %d, withdrawing %d", ErrInsufficientFunds, position.StakedAmount, instr.Amount)
	}
	// TotalStaked covers every position balance, so this cannot underdraw
	// unless the books have drifted; treat that as arithmetic corruption.
	nextTotal, ok := safemath.Sub64(record.TotalStaked, instr.Amount)
	if !ok {
		return fmt.Errorf("%w: pool total staked", ErrArithmetic)
	}

	if err := p.transfer.Move(record.StakeAsset, custody.Key, participant.Key, instr.Amount); err != nil {
		return fmt.Errorf("transfer stake from custody: %w", err)
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
		Msg("unstaked tokens")
	return nil
}
