package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringlend/crypto"
	"ringlend/pool/wideint"
)

func TestRingTraversalVisitsEveryPoolOnceAndTerminates(t *testing.T) {
	ring := NewRing()
	var pools []*Pool
	for i := 0; i < 4; i++ {
		p := NewPool(string(rune('A'+i)), "asset", newMockToken(), newMockGas(), defaultParams())
		p.Price, p.PriceScaler = wideint.FromUint64(1), wideint.FromUint64(1)
		ring.Splice(p)
		pools = append(pools, p)
	}

	visited := make(map[int]int)
	anchor := 0
	idx := ring.Pools[anchor].Next
	steps := 0
	for idx != anchor {
		visited[idx]++
		idx = ring.Pools[idx].Next
		steps++
		require.LessOrEqual(t, steps, ring.Len(), "ring walk must terminate at the anchor")
	}
	assert.Equal(t, ring.Len()-1, len(visited), "every peer visited exactly once")
	for i, count := range visited {
		assert.Equal(t, 1, count, "pool %d visited more than once", i)
	}
}

func TestDepositCashWhitelistConsumedByLiquidation(t *testing.T) {
	ring := NewRing()
	tokenA, tokenB := newMockToken(), newMockToken()
	gas := newMockGas()

	initialHaircut, err := decimalToFixed128("0.3")
	require.NoError(t, err)
	maintenanceHaircut, err := decimalToFixed128("0.5")
	require.NoError(t, err)

	paramsA := defaultParams()
	paramsA.InitialHaircut = initialHaircut
	paramsA.MaintenanceHaircut = maintenanceHaircut
	poolA := NewPool("A", "assetA", tokenA, gas, paramsA) // collateral pool, the anchor
	paramsB := defaultParams()
	paramsB.InitialMargin = wideint.FromUint64(0)
	paramsB.MaintenanceMargin = wideint.FromUint64(0)
	poolB := NewPool("B", "assetB", tokenB, gas, paramsB) // debt pool

	ring.Splice(poolA)
	ring.Splice(poolB)
	poolA.Addr = addr(250)
	poolB.Addr = addr(251)
	poolA.Price, poolA.PriceScaler = wideint.FromUint64(1), wideint.FromUint64(1)
	poolB.Price, poolB.PriceScaler = wideint.FromUint64(1), wideint.FromUint64(1)

	victim := addr(1)
	liquidator := addr(2)

	poolA.Collateral[key(victim)] = wideint.FromUint64(100)
	poolA.TotalCollateral = wideint.FromUint64(100)

	poolB.Bonds[key(victim)] = wideint.FromUint64(80)
	poolB.TotalBonds = wideint.FromUint64(80)
	poolB.TotalLiquidity = wideint.FromUint64(80)
	poolB.TotalBorrowable = wideint.FromUint64(0)

	// Liquidator pre-funds partial repayment cash on pool B, authorizing pool
	// A's identity (the anchor of the upcoming liquidation) to spend it.
	tokenB.credit(liquidator, wideint.FromUint64(40))
	require.NoError(t, poolB.DepositCash(liquidator, poolA.Addr, wideint.FromUint64(40)))

	err = poolA.Liquidate(liquidator, victim)
	require.NoError(t, err)

	require.NotNil(t, poolB.bondsOf(victim))
	assert.Equal(t, uint64(40), poolB.bondsOf(victim).Uint64(), "whitelisted cash repaid exactly the bonds it covered")
	assert.Equal(t, uint64(60), poolA.collateralOf(victim).Uint64(), "anchor seized collateral matching the repaid quote")
	_, whitelisted := poolB.Whitelist[key(liquidator)]
	assert.False(t, whitelisted, "whitelist authorization is single-shot")
}
