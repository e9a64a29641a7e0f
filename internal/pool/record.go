// Package pool defines the two persisted record types of the staking ledger
// and their fixed-layout binary encoding.
package pool

import (
	"encoding/binary"
	"errors"

	"github.com/solbound-dev/stakepool/internal/crypto"
)

// PoolRecord layout (little-endian, fixed offsets):
// initialized(1) owner(32) stakeAsset(32) rewardAsset(32)
// totalStaked(8) epochReward(8) epochStart(8) epochEnd(8) epochID(2)
const PoolRecordSize = 1 + 32 + 32 + 32 + 8 + 8 + 8 + 8 + 2

// PositionRecord layout: initialized(1) owner(32) stakedAmount(8) lastClaimedEpoch(2)
const PositionRecordSize = 1 + 32 + 8 + 2

var (
	ErrShortBuffer = errors.New("record buffer too short")
	ErrBadBool     = errors.New("initialized flag is neither 0 nor 1")
)

// PoolRecord is the singleton state of one deployed pool.
type PoolRecord struct {
	Initialized bool
	// Owner may initialize the pool and start epochs.
	Owner       crypto.Identity
	StakeAsset  crypto.AssetID
	RewardAsset crypto.AssetID
	// TotalStaked is maintained incrementally by deposit and withdraw; it is
	// never recomputed from position records.
	TotalStaked uint64
	EpochReward uint64
	EpochStart  uint64
	EpochEnd    uint64
	EpochID     uint16
}

func (r *PoolRecord) Bytes() []byte {
	buf := make([]byte, PoolRecordSize)
	if r.Initialized {
		buf[0] = 1
	}
	copy(buf[1:33], r.Owner[:])
	copy(buf[33:65], r.StakeAsset[:])
	copy(buf[65:97], r.RewardAsset[:])
	binary.LittleEndian.PutUint64(buf[97:105], r.TotalStaked)
	binary.LittleEndian.PutUint64(buf[105:113], r.EpochReward)
	binary.LittleEndian.PutUint64(buf[113:121], r.EpochStart)
	binary.LittleEndian.PutUint64(buf[121:129], r.EpochEnd)
	binary.LittleEndian.PutUint16(buf[129:131], r.EpochID)
	return buf
}

func PoolRecordFromBytes(data []byte) (PoolRecord, error) {
	if len(data) < PoolRecordSize {
		return PoolRecord{}, ErrShortBuffer
	}
	if data[0] > 1 {
		return PoolRecord{}, ErrBadBool
	}
	var r PoolRecord
	r.Initialized = data[0] == 1
	copy(r.Owner[:], data[1:33])
	copy(r.StakeAsset[:], data[33:65])
	copy(r.RewardAsset[:], data[65:97])
	r.TotalStaked = binary.LittleEndian.Uint64(data[97:105])
	r.EpochReward = binary.LittleEndian.Uint64(data[105:113])
	r.EpochStart = binary.LittleEndian.Uint64(data[113:121])
	r.EpochEnd = binary.LittleEndian.Uint64(data[121:129])
	r.EpochID = binary.LittleEndian.Uint16(data[129:131])
	return r, nil
}

// PositionRecord is one participant's staked balance, lazily created on first
// deposit.
type PositionRecord struct {
	Initialized  bool
	Owner        crypto.Identity
	StakedAmount uint64
	// LastClaimedEpoch guards against a position claiming the same epoch's
	// reward more than once.
	LastClaimedEpoch uint16
}

func (r *PositionRecord) Bytes() []byte {
	buf := make([]byte, PositionRecordSize)
	if r.Initialized {
		buf[0] = 1
	}
	copy(buf[1:33], r.Owner[:])
	binary.LittleEndian.PutUint64(buf[33:41], r.StakedAmount)
	binary.LittleEndian.PutUint16(buf[41:43], r.LastClaimedEpoch)
	return buf
}

func PositionRecordFromBytes(data []byte) (PositionRecord, error) {
	if len(data) < PositionRecordSize {
		return PositionRecord{}, ErrShortBuffer
	}
	if data[0] > 1 {
		return PositionRecord{}, ErrBadBool
	}
	var r PositionRecord
	r.Initialized = data[0] == 1
	copy(r.Owner[:], data[1:33])
	r.StakedAmount = binary.LittleEndian.Uint64(data[33:41])
	r.LastClaimedEpoch = binary.LittleEndian.Uint16(data[41:43])
	return r, nil
}
