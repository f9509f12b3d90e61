package pool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ringlend/crypto"
	"ringlend/pool/wideint"
)

type fixedAdmin struct{ admin crypto.Address }

func (f fixedAdmin) IsAdmin(c crypto.Address) bool { return c.Equal(f.admin) }

func TestAdminCreatePoolSplicesRing(t *testing.T) {
	ring := NewRing()
	adminID := addr(1)
	auth := fixedAdmin{admin: adminID}
	a := NewAdmin(ring, auth, nil)

	idx0, err := a.CreatePool(adminID, "", "assetA", newMockToken(), newMockGas(), defaultParams())
	require.NoError(t, err)
	require.Equal(t, 0, idx0)
	require.Equal(t, 0, ring.At(0).Next, "single pool ring is a self-loop")

	idx1, err := a.CreatePool(adminID, "", "assetB", newMockToken(), newMockGas(), defaultParams())
	require.NoError(t, err)
	require.Equal(t, 1, idx1)

	require.Equal(t, 1, ring.At(0).Next)
	require.Equal(t, 0, ring.At(1).Next)

	_, err = a.CreatePool(addr(2), "", "assetC", newMockToken(), newMockGas(), defaultParams())
	require.ErrorIs(t, err, ErrSetParamsUnauthorized)
}

func TestSingleKeyAdminAuthorizesOnlyItsOwnGovernanceKey(t *testing.T) {
	adminKey, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	auth := SingleKeyAdmin{Admin: adminKey.PubKey().Address()}

	ring := NewRing()
	a := NewAdmin(ring, auth, nil)

	_, err = a.CreatePool(addr(9), "", "assetA", newMockToken(), newMockGas(), defaultParams())
	require.ErrorIs(t, err, ErrSetParamsUnauthorized)

	_, err = a.CreatePool(adminKey.PubKey().Address(), "", "assetA", newMockToken(), newMockGas(), defaultParams())
	require.NoError(t, err)
}

func TestAdminSetPriceAndParamsAuthorization(t *testing.T) {
	ring := NewRing()
	adminID := addr(1)
	auth := fixedAdmin{admin: adminID}
	a := NewAdmin(ring, auth, nil)

	idx, err := a.CreatePool(adminID, "p1", "assetA", newMockToken(), newMockGas(), defaultParams())
	require.NoError(t, err)

	_, err = a.SetPrice(addr(9), idx, wideint.FromUint64(2), wideint.FromUint64(1))
	require.ErrorIs(t, err, ErrSetPriceUnauthorized)

	_, err = a.SetPrice(adminID, idx, wideint.FromUint64(2), wideint.FromUint64(1))
	require.NoError(t, err)
	require.Equal(t, uint64(2), ring.At(idx).Price.Uint64())

	_, err = a.SetParams(addr(9), idx, defaultParams())
	require.ErrorIs(t, err, ErrSetParamsUnauthorized)
}
