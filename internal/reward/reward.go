// Package reward computes a position's proportional share of an epoch reward.
package reward

import "github.com/holiman/uint256"

// Calculate returns floor(userStaked * epochReward / totalStaked), or 0 when
// totalStaked is 0. The product of two u64 values needs up to 128 bits, so the
// multiply runs in wide precision before the divide. The remainder is dropped,
// not redistributed.
func Calculate(userStaked, epochReward, totalStaked uint64) uint64 {
	if totalStaked == 0 {
		return 0
	}

	share := new(uint256.Int).Mul(
		uint256.NewInt(userStaked),
		uint256.NewInt(epochReward),
	)
	share.Div(share, uint256.NewInt(totalStaked))

	return share.Uint64()
}
