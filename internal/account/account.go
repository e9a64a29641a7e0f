// Package account models the participants of one ledger operation as the host
// runtime presents them: an identity plus the host's assertion that the
// matching private key signed the transaction. Signature verification itself
// happens outside the ledger core.
package account

import (
	"github.com/solbound-dev/stakepool/internal/crypto"
)

type Account struct {
	Key crypto.Identity
	// Signer is asserted by the host after it verified a signature by Key
	// over the instruction.
	Signer bool
}

// Transfer is the external value-transfer collaborator. Move must either move
// the full amount or fail without any effect.
type Transfer interface {
	Move(asset crypto.AssetID, from, to crypto.Identity, amount uint64) error
}

// DerivePositionKey returns the deterministic address of a participant's
// position record within one pool.
func DerivePositionKey(program, pool, participant crypto.Identity) crypto.Identity {
	seed := make([]byte, 0, 8+3*crypto.IdentitySize)
	seed = append(seed, []byte("position")...)
	seed = append(seed, program[:]...)
	seed = append(seed, pool[:]...)
	seed = append(seed, participant[:]...)
	return crypto.Identity(crypto.HashData(seed))
}
