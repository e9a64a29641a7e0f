package crypto

import (
	"crypto/ed25519"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const (
	IdentitySize = 32
	HashSize     = 32
)

// Identity is the 32-byte address of an account: for keypair accounts the raw
// ed25519 public key, for derived accounts a blake2b hash.
type Identity [IdentitySize]byte

// AssetID identifies one asset class moved by the transfer collaborator.
type AssetID [IdentitySize]byte

type Hash [HashSize]byte

func HashData(data []byte) Hash {
	return blake2b.Sum256(data)
}

func IdentityFromPublicKey(pub ed25519.PublicKey) Identity {
	var id Identity
	copy(id[:], pub)
	return id
}

func (id Identity) IsZero() bool {
	return id == Identity{}
}

func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

func (a AssetID) String() string {
	return hex.EncodeToString(a[:])
}

// IdentityFromHex parses a 64-character hex string into an Identity.
func IdentityFromHex(s string) (Identity, error) {
	var id Identity
	b, err := hex.DecodeString(s)
	if err != nil {
		return Identity{}, err
	}
	if len(b) != IdentitySize {
		return Identity{}, ErrBadIdentityLength
	}
	copy(id[:], b)
	return id, nil
}

// VerifySignature reports whether sig is a valid ed25519 signature by the key
// behind id over message. Used by hosts to back the signer assertion they make
// when invoking the ledger; the ledger core itself never verifies signatures.
func VerifySignature(id Identity, message, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(id[:]), message, sig)
}
