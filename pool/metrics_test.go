package pool

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"ringlend/pool/wideint"
)

func TestDepositPublishesGauges(t *testing.T) {
	p, _, _, _ := newTestPool("metrics-p1", defaultParams())
	u := addr(1)

	require.NoError(t, p.Deposit(u, wideint.FromUint64(50), wideint.FromUint64(1)))

	m := PoolMetrics()
	require.Equal(t, float64(50), testutil.ToFloat64(m.TotalCollateral.WithLabelValues(p.ID)))
}

func TestRejectedLiquidateLeavesCounterUnchanged(t *testing.T) {
	p, _, _, _ := newTestPool("metrics-p2", defaultParams())
	m := PoolMetrics()
	before := testutil.ToFloat64(m.Liquidations.WithLabelValues(p.ID))

	u := addr(1)
	require.NoError(t, p.Deposit(u, wideint.FromUint64(100), wideint.FromUint64(1)))
	p.Collateral[key(u)] = wideint.FromUint64(0)
	p.TotalCollateral = wideint.FromUint64(0)

	err := p.Liquidate(addr(2), u)
	require.ErrorIs(t, err, ErrLiquidateForNothing)
	require.Equal(t, before, testutil.ToFloat64(m.Liquidations.WithLabelValues(p.ID)), "counter must not move on a rejected liquidation")
}
