package pool

import (
	"ringlend/crypto"
	"ringlend/pool/wideint"
)

// debtShare computes a user's ceiling-rounded slice of a pool's total debt,
// `ceil(bondsU * debtTotal / totalBonds)`, defaulting to zero when the pool
// carries no bonds at all.
func debtShare(bondsU, debtTotal, totalBonds *wideint.Amount) *wideint.Amount {
	if wideint.Zero(totalBonds) {
		return wideint.FromUint64(0)
	}
	q, _ := wideint.DivCeil(wideint.Mul(bondsU, debtTotal), totalBonds)
	return q
}

// Update is the read-mostly peer callback used by a ring walk: it reports
// this pool's contribution to a user's initial collateral/debt value,
// accruing and persisting interest first if the user carries a debt
// position here.
func (p *Pool) Update(user crypto.Address) (icv, idv *wideint.Amount) {
	if c := p.collateralOf(user); c != nil {
		return p.initialCollateralValue(c), wideint.FromUint64(0)
	}
	if bondsU := p.bondsOf(user); bondsU != nil {
		L := p.accrueSelf(p.now())
		debtTotal, _ := wideint.CheckedSub(L, p.TotalBorrowable)
		if debtTotal == nil {
			debtTotal = wideint.FromUint64(0)
		}
		debtU := debtShare(bondsU, debtTotal, p.TotalBonds)
		return wideint.FromUint64(0), p.initialDebtValue(debtU)
	}
	return wideint.FromUint64(0), wideint.FromUint64(0)
}

// RepayOrUpdate is the bond-side mirror of Update used during liquidation.
// anchor is the identity of the pool walking the ring, which the whitelist
// check compares against. When whitelist[cashOwner] == anchor and user
// carries a bond position here, this peer opportunistically burns bonds
// using cashOwner's escrowed cash; otherwise it falls back to reporting both
// valuation tiers like Update.
func (p *Pool) RepayOrUpdate(user, cashOwner crypto.Address, anchor crypto.Address) (repaidQ, icv, idv, mcv, mdv *wideint.Amount) {
	zero := wideint.FromUint64(0)
	bondsU := p.bondsOf(user)

	if spender, whitelisted := p.Whitelist[key(cashOwner)]; whitelisted && spender.Equal(anchor) && bondsU != nil {
		delete(p.Whitelist, key(cashOwner))
		cash := p.cashOf(cashOwner)

		// Capture the pre-repay bond position for mdv before innerRepay
		// mutates pool state: mdv reflects the position as it stood going
		// into the liquidation, idv reflects what remains after.
		LBefore := p.accrueSelf(p.now())
		debtOld, ok := wideint.CheckedSub(LBefore, p.TotalBorrowable)
		if !ok {
			debtOld = wideint.FromUint64(0)
		}
		debtUOld := debtShare(bondsU, debtOld, p.TotalBonds)
		mdv = p.maintenanceDebtValue(debtUOld)

		repaid, newB, newTotalBonds, newBondsU := p.innerRepay(cashOwner, user, cash, bondsU)
		repaidQ = p.quoteCeil(repaid)

		debtNew, ok := wideint.CheckedSub(LBefore, newB)
		if !ok {
			debtNew = wideint.FromUint64(0)
		}
		debtUNew := debtShare(newBondsU, debtNew, newTotalBonds)
		idv = p.initialDebtValue(debtUNew)

		return repaidQ, zero, idv, zero, mdv
	}

	if c := p.collateralOf(user); c != nil {
		return zero, p.initialCollateralValue(c), zero, p.maintenanceCollateralValue(c), zero
	}
	if bondsU != nil {
		L := p.accrueSelf(p.now())
		debtTotal, _ := wideint.CheckedSub(L, p.TotalBorrowable)
		if debtTotal == nil {
			debtTotal = wideint.FromUint64(0)
		}
		debtU := debtShare(bondsU, debtTotal, p.TotalBonds)
		return zero, zero, p.initialDebtValue(debtU), zero, p.maintenanceDebtValue(debtU)
	}
	return zero, zero, zero, zero, zero
}
