// Package instruction decodes the raw instruction buffer handed to the
// dispatcher: one opcode byte followed by a fixed little-endian payload.
package instruction

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/solbound-dev/stakepool/internal/crypto"
)

type Opcode byte

const (
	OpInitialize Opcode = iota
	OpDeposit
	OpWithdraw
	OpStartEpoch
	OpClaim
)

const (
	amountPayloadSize = 8
	epochPayloadSize  = 24
	assetsPayloadSize = 2 * crypto.IdentitySize
)

var (
	ErrEmptyBuffer      = errors.New("instruction buffer is empty")
	ErrInvalidOperation = errors.New("unrecognized opcode")
	ErrTruncatedPayload = errors.New("instruction payload is truncated")
)

func (op Opcode) String() string {
	switch op {
	case OpInitialize:
		return "initialize"
	case OpDeposit:
		return "deposit"
	case OpWithdraw:
		return "withdraw"
	case OpStartEpoch:
		return "start-epoch"
	case OpClaim:
		return "claim"
	default:
		return fmt.Sprintf("opcode(%d)", byte(op))
	}
}

// Instruction is one decoded operation. Only the fields belonging to Op are
// meaningful.
type Instruction struct {
	Op Opcode

	// deposit, withdraw
	Amount uint64

	// start-epoch
	StartTime    uint64
	EndTime      uint64
	RewardAmount uint64

	// initialize, optional: binds the pool's asset pair
	HasAssets   bool
	StakeAsset  crypto.AssetID
	RewardAsset crypto.AssetID
}

func Decode(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return Instruction{}, ErrEmptyBuffer
	}

	instr := Instruction{Op: Opcode(data[0])}
	payload := data[1:]

	switch instr.Op {
	case OpInitialize:
		// Asset binding is optional; the bare opcode form is valid.
		if len(payload) == 0 {
			return instr, nil
		}
		if len(payload) < assetsPayloadSize {
			return Instruction{}, fmt.Errorf("%w: initialize wants %d asset bytes, got %d", ErrTruncatedPayload, assetsPayloadSize, len(payload))
		}
		instr.HasAssets = true
		copy(instr.StakeAsset[:], payload[:32])
		copy(instr.RewardAsset[:], payload[32:64])
		return instr, nil

	case OpDeposit, OpWithdraw:
		if len(payload) < amountPayloadSize {
			return Instruction{}, fmt.Errorf("%w: %s wants %d payload bytes, got %d", ErrTruncatedPayload, instr.Op, amountPayloadSize, len(payload))
		}
		instr.Amount = binary.LittleEndian.Uint64(payload[:8])
		return instr, nil

	case OpStartEpoch:
		if len(payload) < epochPayloadSize {
			return Instruction{}, fmt.Errorf("%w: start-epoch wants %d payload bytes, got %d", ErrTruncatedPayload, epochPayloadSize, len(payload))
		}
		instr.StartTime = binary.LittleEndian.Uint64(payload[:8])
		instr.EndTime = binary.LittleEndian.Uint64(payload[8:16])
		instr.RewardAmount = binary.LittleEndian.Uint64(payload[16:24])
		return instr, nil

	case OpClaim:
		return instr, nil

	default:
		return Instruction{}, fmt.Errorf("%w: %d", ErrInvalidOperation, data[0])
	}
}

// Bytes encodes the instruction into its wire form.
func (i Instruction) Bytes() []byte {
	switch i.Op {
	case OpInitialize:
		if !i.HasAssets {
			return []byte{byte(i.Op)}
		}
		buf := make([]byte, 1+assetsPayloadSize)
		buf[0] = byte(i.Op)
		copy(buf[1:33], i.StakeAsset[:])
		copy(buf[33:65], i.RewardAsset[:])
		return buf
	case OpDeposit, OpWithdraw:
		buf := make([]byte, 1+amountPayloadSize)
		buf[0] = byte(i.Op)
		binary.LittleEndian.PutUint64(buf[1:], i.Amount)
		return buf
	case OpStartEpoch:
		buf := make([]byte, 1+epochPayloadSize)
		buf[0] = byte(i.Op)
		binary.LittleEndian.PutUint64(buf[1:9], i.StartTime)
		binary.LittleEndian.PutUint64(buf[9:17], i.EndTime)
		binary.LittleEndian.PutUint64(buf[17:25], i.RewardAmount)
		return buf
	default:
		return []byte{byte(i.Op)}
	}
}
