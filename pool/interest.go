package pool

import "ringlend/pool/wideint"

// accrue maps (now, updatedAt, totalLiquidity, totalBorrowable, params) to
// an updated total liquidity and accrual timestamp. It never mutates
// totalBorrowable and never decreases totalLiquidity.
func accrue(now, updatedAt int64, L, B *wideint.Amount, p Params) (*wideint.Amount, int64) {
	if now <= updatedAt {
		return wideint.Clone(L), updatedAt
	}
	delta := wideint.FromUint64(uint64(now - updatedAt))
	debt, ok := wideint.CheckedSub(L, B)
	if !ok {
		// total_borrowable <= total_liquidity is a standing pool invariant;
		// this only triggers if it has already been violated upstream.
		debt = wideint.FromUint64(0)
	}

	standardMatured := wideint.SaturatingMul(p.StandardRate, delta)
	emergencyMatured := wideint.SaturatingMul(p.EmergencyRate, delta)

	var standardScaled, emergencyScaled *wideint.Amount
	if wideint.Zero(L) {
		standardScaled = wideint.FromUint64(0)
		emergencyScaled = wideint.FromUint64(0)
	} else {
		standardScaled, _ = wideint.DivFloor(wideint.Mul(standardMatured, debt), L)
		emergencyScaled, _ = wideint.DivFloor(wideint.Mul(emergencyMatured, B), L)
	}

	standardFinal := wideint.AddSaturating(standardScaled, p.StandardMinRate)
	emergencyFinal := wideint.SaturatingSub(p.EmergencyMaxRate, emergencyScaled)

	rate := wideint.Max(standardFinal, emergencyFinal)
	interest := wideint.ScaleUp(wideint.Mul(debt, rate))
	newL := wideint.AddSaturating(L, interest)
	return newL, now
}

// accrueSelf runs accrue against the pool's own state and commits the
// result, returning the liquidity value a caller should use for any
// subsequent computation in the same operation.
func (p *Pool) accrueSelf(now int64) *wideint.Amount {
	newL, newUpdatedAt := accrue(now, p.UpdatedAt, p.TotalLiquidity, p.TotalBorrowable, p.Params)
	p.TotalLiquidity = newL
	p.UpdatedAt = newUpdatedAt
	return wideint.Clone(newL)
}
