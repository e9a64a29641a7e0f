package staking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solbound-dev/stakepool/internal/store"
	"github.com/solbound-dev/stakepool/internal/testutils"
)

func TestDeposit(t *testing.T) {
	e := newInitializedEnv(t)
	user := testutils.RandomIdentity(t)
	e.fundStake(user, 1000)

	require.NoError(t, e.deposit(user, 400, true))

	position := e.position(user)
	require.True(t, position.Initialized)
	require.Equal(t, user, position.Owner, "first deposit binds position ownership")
	require.Equal(t, uint64(400), position.StakedAmount)
	require.Equal(t, uint64(400), e.poolRecord().TotalStaked)
	require.Equal(t, uint64(600), e.stakeBalance(user))
	require.Equal(t, uint64(400), e.stakeBalance(e.stakeCustody))
}

func TestDepositAccumulates(t *testing.T) {
	e := newInitializedEnv(t)
	user := testutils.RandomIdentity(t)
	e.fundStake(user, 1000)

	require.NoError(t, e.deposit(user, 100, true))
	require.NoError(t, e.deposit(user, 250, true))

	require.Equal(t, uint64(350), e.position(user).StakedAmount)
	require.Equal(t, uint64(350), e.poolRecord().TotalStaked)
}

func TestDepositUnsigned(t *testing.T) {
	e := newInitializedEnv(t)
	user := testutils.RandomIdentity(t)
	e.fundStake(user, 1000)

	err := e.deposit(user, 400, false)
	require.ErrorIs(t, err, ErrMissingSignature)
	require.ErrorIs(t, err, ErrAuthorization)

	require.False(t, e.hasPosition(user), "no position record may be persisted")
	require.Equal(t, uint64(0), e.poolRecord().TotalStaked)
	require.Equal(t, uint64(1000), e.stakeBalance(user), "no stake may move")
}

func TestDepositTransferFailureLeavesStateUnchanged(t *testing.T) {
	e := newInitializedEnv(t)
	user := testutils.RandomIdentity(t)
	// user holds no stake at all, so the custody transfer must fail

	err := e.deposit(user, 400, true)
	require.ErrorIs(t, err, store.ErrInsufficientBalance)

	require.False(t, e.hasPosition(user))
	require.Equal(t, uint64(0), e.poolRecord().TotalStaked)
	require.Equal(t, uint64(0), e.stakeBalance(e.stakeCustody))
}

func TestDepositIntoForeignPosition(t *testing.T) {
	e := newInitializedEnv(t)
	alice := testutils.RandomIdentity(t)
	mallory := testutils.RandomIdentity(t)
	e.fundStake(alice, 100)
	e.fundStake(mallory, 100)
	require.NoError(t, e.deposit(alice, 50, true))

	// mallory signs but names alice's position account
	instr := e.depositInstr(10)
	err := e.processWithPosition(instr, mallory, e.positionKey(alice))
	require.ErrorIs(t, err, ErrWrongPositionOwner)
	require.Equal(t, uint64(50), e.position(alice).StakedAmount)
}

func TestDepositOverflow(t *testing.T) {
	e := newInitializedEnv(t)
	user := testutils.RandomIdentity(t)
	e.fundStake(user, math.MaxUint64)

	require.NoError(t, e.deposit(user, math.MaxUint64, true))

	err := e.deposit(user, 1, true)
	require.ErrorIs(t, err, ErrArithmetic)
	require.Equal(t, uint64(math.MaxUint64), e.position(user).StakedAmount)
}
