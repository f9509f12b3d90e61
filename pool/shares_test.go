package pool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ringlend/pool/wideint"
)

func TestShareTransferSelfNoop(t *testing.T) {
	p, _, _, _ := newTestPool("p1", defaultParams())
	u := addr(1)
	p.Shares[key(u)] = wideint.FromUint64(50)

	require.NoError(t, p.Transfer(u, u, wideint.FromUint64(10)))
	require.Equal(t, uint64(50), p.sharesOf(u).Uint64())
}

func TestShareTransferFromDebitsAllowanceThenBalance(t *testing.T) {
	p, _, _, _ := newTestPool("p1", defaultParams())
	owner := addr(1)
	spender := addr(2)
	to := addr(3)
	p.Shares[key(owner)] = wideint.FromUint64(100)

	err := p.TransferFrom(spender, owner, to, wideint.FromUint64(10))
	require.ErrorIs(t, err, ErrInsufficientAllowance)

	p.Approve(owner, spender, wideint.FromUint64(30))
	require.NoError(t, p.TransferFrom(spender, owner, to, wideint.FromUint64(10)))
	require.Equal(t, uint64(90), p.sharesOf(owner).Uint64())
	require.Equal(t, uint64(10), p.sharesOf(to).Uint64())
	require.Equal(t, uint64(20), p.allowanceOf(owner, spender).Uint64())

	err = p.TransferFrom(spender, owner, to, wideint.FromUint64(1000))
	require.ErrorIs(t, err, ErrInsufficientAllowance)
}

func TestIncreaseDecreaseAllowance(t *testing.T) {
	p, _, _, _ := newTestPool("p1", defaultParams())
	owner, spender := addr(1), addr(2)

	p.IncreaseAllowance(owner, spender, wideint.FromUint64(10))
	require.Equal(t, uint64(10), p.allowanceOf(owner, spender).Uint64())

	p.DecreaseAllowance(owner, spender, wideint.FromUint64(4))
	require.Equal(t, uint64(6), p.allowanceOf(owner, spender).Uint64())

	p.DecreaseAllowance(owner, spender, wideint.FromUint64(100))
	require.Equal(t, uint64(0), p.allowanceOf(owner, spender).Uint64())
}
