package pool

import (
	"ringlend/crypto"
	"ringlend/pool/wideint"
)

// Liquidate seizes user's collateral on the anchor pool in exchange for
// repaying debt across the ring, subject to the maintenance (is-undersater)
// and initial (did-not-overshoot) solvency checks.
func (p *Pool) Liquidate(caller, user crypto.Address) error {
	j := p.openJournal()
	totalRepaidQ, totalICV, totalIDV, totalMCV, totalMDV := p.ring.walkLiquidation(p.self, user, caller)

	oldCollateral := p.collateralOf(user)
	if oldCollateral == nil {
		oldCollateral = wideint.FromUint64(0)
	} else {
		oldCollateral = wideint.Clone(oldCollateral)
	}

	if wideint.Zero(oldCollateral) && wideint.Zero(totalRepaidQ) {
		return j.abort(ErrLiquidateForNothing)
	}

	repaidCollateral := p.unquoteFloor(totalRepaidQ)
	rewards := wideint.ScaleUp(wideint.Mul(repaidCollateral, p.Params.LiquidationReward))
	want := wideint.AddSaturating(repaidCollateral, rewards)
	toTake := wideint.Min(want, oldCollateral)

	newCollateral, ok := wideint.CheckedSub(oldCollateral, toTake)
	if !ok {
		newCollateral = wideint.FromUint64(0)
	}

	// mcv uses the pre-seizure collateral; icv uses the post-seizure
	// collateral.
	totalMCV = wideint.AddSaturating(totalMCV, p.maintenanceCollateralValue(oldCollateral))
	totalICV = wideint.AddSaturating(totalICV, p.initialCollateralValue(newCollateral))

	if totalMDV.Cmp(totalMCV) <= 0 {
		return j.abort(ErrLiquidateTooEarly)
	}
	if totalIDV.Cmp(totalICV) <= 0 {
		return j.abort(ErrLiquidateTooMuch)
	}

	newTotalCollateral, ok := wideint.CheckedSub(p.TotalCollateral, toTake)
	if !ok {
		newTotalCollateral = wideint.FromUint64(0)
	}
	p.TotalCollateral = newTotalCollateral
	if wideint.Zero(newCollateral) {
		delete(p.Collateral, key(user))
	} else {
		p.Collateral[key(user)] = newCollateral
	}

	if err := p.Token.Transfer(caller, toTake); err != nil {
		return j.abort(wrapTransferErr("liquidate", err))
	}
	if wideint.Zero(newCollateral) {
		if err := p.refundGas(caller); err != nil {
			p.logWarn("gas refund failed", "pool", p.ID, "user", caller.String(), "err", err)
		}
	}
	p.logInfo("liquidate", "pool", p.ID, "user", user.String(), "caller", caller.String(), "seized", wideint.ToBig(toTake).String())
	m := PoolMetrics()
	m.Liquidations.WithLabelValues(p.ID).Inc()
	m.Observe(p)
	return nil
}
