package reward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		userStaked  uint64
		epochReward uint64
		totalStaked uint64
		want        uint64
	}{
		{"zero stake gets nothing", 0, 100, 1000, 0},
		{"empty pool pays nothing", 500, 100, 0, 0},
		{"whole pool gets whole reward", 1000, 100, 1000, 100},
		{"quarter of the pool", 250, 100, 1000, 25},
		{"floored share", 333, 100, 1000, 33},
		{"reward smaller than pool", 1, 3, 10, 0},
		{"max stake max reward", math.MaxUint64, math.MaxUint64, math.MaxUint64, math.MaxUint64},
		{"product needs more than 64 bits", 1 << 40, 1 << 40, 1 << 40, 1 << 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.userStaked, tt.epochReward, tt.totalStaked)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateMonotonicInUserStake(t *testing.T) {
	const epochReward, totalStaked = 997, 10_000

	prev := uint64(0)
	for stake := uint64(0); stake <= totalStaked; stake += 13 {
		got := Calculate(stake, epochReward, totalStaked)
		require.GreaterOrEqual(t, got, prev, "reward must not decrease as stake grows (stake=%d)", stake)
		prev = got
	}
}
