package staking

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solbound-dev/stakepool/internal/account"
	"github.com/solbound-dev/stakepool/internal/crypto"
	"github.com/solbound-dev/stakepool/internal/instruction"
	"github.com/solbound-dev/stakepool/internal/pool"
	"github.com/solbound-dev/stakepool/internal/store"
	"github.com/solbound-dev/stakepool/internal/testutils"
	"github.com/solbound-dev/stakepool/pkg/db/pebble"
)

// env wires a processor to an in-memory store and balance ledger, with the
// pool account allocated the way a host runtime would before initialize.
type env struct {
	t *testing.T

	accounts  *store.Accounts
	balances  *store.Balances
	processor *Processor

	programID crypto.Identity
	poolKey   crypto.Identity
	owner     crypto.Identity

	stakeAsset  crypto.AssetID
	rewardAsset crypto.AssetID

	stakeCustody  crypto.Identity
	rewardCustody crypto.Identity
}

func newEnv(t *testing.T) *env {
	kv, err := pebble.NewKVStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, kv.Close(), "failed to close db")
	})

	e := &env{
		t:             t,
		accounts:      store.NewAccounts(kv),
		balances:      store.NewBalances(kv),
		programID:     testutils.RandomIdentity(t),
		poolKey:       testutils.RandomIdentity(t),
		owner:         testutils.RandomIdentity(t),
		stakeAsset:    testutils.RandomAssetID(t),
		rewardAsset:   testutils.RandomAssetID(t),
		stakeCustody:  testutils.RandomIdentity(t),
		rewardCustody: testutils.RandomIdentity(t),
	}
	e.processor = NewProcessor(e.programID, e.poolKey, e.accounts, e.balances)

	require.NoError(t, e.accounts.Allocate(e.poolKey, e.programID, pool.PoolRecordSize))
	return e
}

// newInitializedEnv additionally runs initialize with the asset binding.
func newInitializedEnv(t *testing.T) *env {
	e := newEnv(t)
	require.NoError(t, e.initialize(e.owner, true))
	return e
}

func (e *env) initialize(owner crypto.Identity, signer bool) error {
	instr := instruction.Instruction{
		Op:          instruction.OpInitialize,
		HasAssets:   true,
		StakeAsset:  e.stakeAsset,
		RewardAsset: e.rewardAsset,
	}
	return e.processor.Process(instr.Bytes(), []*account.Account{{Key: owner, Signer: signer}})
}

func (e *env) positionKey(participant crypto.Identity) crypto.Identity {
	return account.DerivePositionKey(e.programID, e.poolKey, participant)
}

func (e *env) deposit(participant crypto.Identity, amount uint64, signer bool) error {
	instr := instruction.Instruction{Op: instruction.OpDeposit, Amount: amount}
	return e.processor.Process(instr.Bytes(), []*account.Account{
		{Key: participant, Signer: signer},
		{Key: e.stakeCustody},
		{Key: e.positionKey(participant)},
	})
}

func (e *env) depositInstr(amount uint64) instruction.Instruction {
	return instruction.Instruction{Op: instruction.OpDeposit, Amount: amount}
}

// processWithPosition runs instr naming an arbitrary position account, for
// cross-position authorization tests.
func (e *env) processWithPosition(instr instruction.Instruction, participant, positionKey crypto.Identity) error {
	return e.processor.Process(instr.Bytes(), []*account.Account{
		{Key: participant, Signer: true},
		{Key: e.stakeCustody},
		{Key: positionKey},
	})
}

func (e *env) withdraw(participant crypto.Identity, amount uint64, signer bool) error {
	instr := instruction.Instruction{Op: instruction.OpWithdraw, Amount: amount}
	return e.processor.Process(instr.Bytes(), []*account.Account{
		{Key: participant, Signer: signer},
		{Key: e.stakeCustody},
		{Key: e.positionKey(participant)},
	})
}

func (e *env) startEpoch(owner crypto.Identity, start, end, rewardAmount uint64, signer bool) error {
	instr := instruction.Instruction{
		Op:           instruction.OpStartEpoch,
		StartTime:    start,
		EndTime:      end,
		RewardAmount: rewardAmount,
	}
	return e.processor.Process(instr.Bytes(), []*account.Account{{Key: owner, Signer: signer}})
}

func (e *env) claim(participant crypto.Identity, signer bool) error {
	instr := instruction.Instruction{Op: instruction.OpClaim}
	return e.processor.Process(instr.Bytes(), []*account.Account{
		{Key: participant, Signer: signer},
		{Key: e.rewardCustody},
		{Key: e.positionKey(participant)},
	})
}

func (e *env) poolRecord() pool.PoolRecord {
	record, err := e.processor.Pool()
	require.NoError(e.t, err)
	return record
}

func (e *env) position(participant crypto.Identity) pool.PositionRecord {
	stored, err := e.accounts.Get(e.positionKey(participant))
	require.NoError(e.t, err)
	record, err := pool.PositionRecordFromBytes(stored.Data)
	require.NoError(e.t, err)
	return record
}

func (e *env) hasPosition(participant crypto.Identity) bool {
	_, err := e.accounts.Get(e.positionKey(participant))
	return err == nil
}

func (e *env) stakeBalance(holder crypto.Identity) uint64 {
	amount, err := e.balances.Balance(e.stakeAsset, holder)
	require.NoError(e.t, err)
	return amount
}

func (e *env) rewardBalance(holder crypto.Identity) uint64 {
	amount, err := e.balances.Balance(e.rewardAsset, holder)
	require.NoError(e.t, err)
	return amount
}

func (e *env) fundStake(holder crypto.Identity, amount uint64) {
	require.NoError(e.t, e.balances.Mint(e.stakeAsset, holder, amount))
}

func (e *env) fundRewardCustody(amount uint64) {
	require.NoError(e.t, e.balances.Mint(e.rewardAsset, e.rewardCustody, amount))
}
