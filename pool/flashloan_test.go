package pool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ringlend/crypto"
	"ringlend/pool/wideint"
)

type recordingBorrower struct {
	coordinator *Pool
	target      crypto.Address
	gotAmount   *wideint.Amount
	gotFee      *wideint.Amount
}

func (b *recordingBorrower) OnFlashLoan(initiator crypto.Address, underlyingID string, amount, fee *wideint.Amount, data []byte) error {
	b.gotAmount, b.gotFee = amount, fee
	return nil
}

func TestTakeCashRequiresAdmin(t *testing.T) {
	p, _, _, _ := newTestPool("p1", defaultParams())
	p.TotalLiquidity = wideint.FromUint64(1000)
	p.TotalBorrowable = wideint.FromUint64(1000)

	auth := fixedAdmin{admin: addr(1)}
	target := addr(2)

	err := p.TakeCash(auth, addr(9), wideint.FromUint64(100), target, nil, nil)
	require.ErrorIs(t, err, ErrTakeCashUnauthorized)
}

func TestTakeCashCreditsFeeAndInvokesCallback(t *testing.T) {
	feeRate, err := decimalToFixed128("0.01")
	require.NoError(t, err)
	params := defaultParams()
	params.TakeCashFee = feeRate

	p, _, _, _ := newTestPool("p1", params)
	p.TotalLiquidity = wideint.FromUint64(1000)
	p.TotalBorrowable = wideint.FromUint64(1000)

	auth := fixedAdmin{admin: addr(1)}
	target := addr(2)
	borrower := &recordingBorrower{}

	err = p.TakeCash(auth, addr(1), wideint.FromUint64(100), target, borrower, []byte("data"))
	require.NoError(t, err)
	require.NotNil(t, borrower.gotAmount)
	require.Equal(t, uint64(100), borrower.gotAmount.Uint64())
	require.True(t, p.TotalLiquidity.Cmp(wideint.FromUint64(1000)) > 0, "fee should accrue to total liquidity")
}
