package instruction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solbound-dev/stakepool/internal/testutils"
)

func TestDecodeDeposit(t *testing.T) {
	data := []byte{byte(OpDeposit), 0x39, 0x30, 0, 0, 0, 0, 0, 0}

	instr, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, OpDeposit, instr.Op)
	require.Equal(t, uint64(12345), instr.Amount, "amount is little-endian")
}

func TestDecodeStartEpoch(t *testing.T) {
	in := Instruction{Op: OpStartEpoch, StartTime: 100, EndTime: 200, RewardAmount: 5000}

	instr, err := Decode(in.Bytes())
	require.NoError(t, err)
	require.Equal(t, in, instr)
}

func TestDecodeInitialize(t *testing.T) {
	t.Run("bare opcode", func(t *testing.T) {
		instr, err := Decode([]byte{byte(OpInitialize)})
		require.NoError(t, err)
		require.Equal(t, OpInitialize, instr.Op)
		require.False(t, instr.HasAssets)
	})

	t.Run("with asset binding", func(t *testing.T) {
		in := Instruction{
			Op:          OpInitialize,
			HasAssets:   true,
			StakeAsset:  testutils.RandomAssetID(t),
			RewardAsset: testutils.RandomAssetID(t),
		}
		instr, err := Decode(in.Bytes())
		require.NoError(t, err)
		require.Equal(t, in, instr)
	})
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty buffer", nil, ErrEmptyBuffer},
		{"unknown opcode", []byte{99}, ErrInvalidOperation},
		{"truncated deposit amount", []byte{byte(OpDeposit), 1, 2, 3}, ErrTruncatedPayload},
		{"truncated withdraw amount", []byte{byte(OpWithdraw)}, ErrTruncatedPayload},
		{"truncated epoch payload", append([]byte{byte(OpStartEpoch)}, make([]byte, 23)...), ErrTruncatedPayload},
		{"truncated asset binding", append([]byte{byte(OpInitialize)}, make([]byte, 63)...), ErrTruncatedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecodeClaim(t *testing.T) {
	instr, err := Decode([]byte{byte(OpClaim)})
	require.NoError(t, err)
	require.Equal(t, OpClaim, instr.Op)
}
