package testutils

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solbound-dev/stakepool/internal/crypto"
)

func RandomIdentity(t *testing.T) crypto.Identity {
	var id crypto.Identity
	_, err := rand.Read(id[:])
	require.NoError(t, err)
	return id
}

func RandomAssetID(t *testing.T) crypto.AssetID {
	var id crypto.AssetID
	_, err := rand.Read(id[:])
	require.NoError(t, err)
	return id
}
