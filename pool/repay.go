package pool

import (
	"ringlend/crypto"
	"ringlend/pool/wideint"
)

// innerRepay is the shared repayment routine behind Repay and the
// whitelisted branch of RepayOrUpdate. cashOwner's escrowed cash funds up
// to bondsU of user's outstanding bonds; the ceiling rounding on repaid
// always favors the pool over the payer.
func (p *Pool) innerRepay(cashOwner, user crypto.Address, cash, bondsU *wideint.Amount) (repaid, newB, newTotalBonds, newBondsU *wideint.Amount) {
	L := p.accrueSelf(p.now())
	B := p.TotalBorrowable

	debtTotal, ok := wideint.CheckedSub(L, B)
	if !ok {
		debtTotal = wideint.FromUint64(0)
	}

	var maxBurn *wideint.Amount
	if wideint.Zero(debtTotal) {
		maxBurn = wideint.FromUint64(0)
	} else {
		maxBurn, _ = wideint.DivFloor(wideint.Mul(cash, p.TotalBonds), debtTotal)
	}
	toBurn := wideint.Min(maxBurn, bondsU)

	if wideint.Zero(p.TotalBonds) {
		repaid = wideint.FromUint64(0)
	} else {
		repaid, _ = wideint.DivCeil(wideint.Mul(toBurn, debtTotal), p.TotalBonds)
	}

	newCash, ok := wideint.CheckedSub(cash, repaid)
	if !ok {
		newCash = wideint.FromUint64(0)
	}
	newB = wideint.AddSaturating(B, repaid)
	newBondsU, ok = wideint.CheckedSub(bondsU, toBurn)
	if !ok {
		newBondsU = wideint.FromUint64(0)
	}
	newTotalBonds, ok = wideint.CheckedSub(p.TotalBonds, toBurn)
	if !ok {
		newTotalBonds = wideint.FromUint64(0)
	}

	p.Cash[key(cashOwner)] = newCash
	p.TotalBorrowable = newB
	p.TotalBonds = newTotalBonds
	if wideint.Zero(newBondsU) {
		delete(p.Bonds, key(user))
		// The refund goes to the cash owner who funded the repayment, not
		// to the borrower.
		if err := p.refundGas(cashOwner); err != nil {
			p.logWarn("gas refund failed", "pool", p.ID, "user", cashOwner.String(), "err", err)
		}
	} else {
		p.Bonds[key(user)] = newBondsU
	}

	return repaid, newB, newTotalBonds, newBondsU
}

// Repay pulls extraCash from caller into caller's own cash escrow, then
// consumes it to burn as much of user's bonds as it covers.
func (p *Pool) Repay(caller, user crypto.Address, extraCash *wideint.Amount) (*wideint.Amount, error) {
	j := p.openJournal()
	if !wideint.Zero(extraCash) {
		if err := p.Token.TransferFrom(caller, p.Addr, extraCash); err != nil {
			return nil, j.abort(wrapTransferErr("repay", err))
		}
		j.onAbort(func() error { return p.Token.Transfer(caller, extraCash) })
	}
	newCash, ok := wideint.CheckedAdd(p.cashOf(caller), extraCash)
	if !ok {
		return nil, j.abort(ErrRepayCashOverflow)
	}
	p.Cash[key(caller)] = newCash

	bondsU := p.bondsOf(user)
	if bondsU == nil {
		return nil, j.abort(ErrRepayWithoutBorrow)
	}

	repaid, _, _, _ := p.innerRepay(caller, user, newCash, bondsU)
	p.logInfo("repay", "pool", p.ID, "user", user.String(), "repaid", wideint.ToBig(repaid).String())
	PoolMetrics().Observe(p)
	return repaid, nil
}

// DepositCash escrows extraCash under u's name, authorizing the pool whose
// identity is spender to consume it via RepayOrUpdate when that pool is the
// anchor of a liquidation.
func (p *Pool) DepositCash(u, spender crypto.Address, extraCash *wideint.Amount) error {
	j := p.openJournal()
	if err := p.Token.TransferFrom(u, p.Addr, extraCash); err != nil {
		return j.abort(wrapTransferErr("deposit_cash", err))
	}
	j.onAbort(func() error { return p.Token.Transfer(u, extraCash) })

	newCash, ok := wideint.CheckedAdd(p.cashOf(u), extraCash)
	if !ok {
		return j.abort(ErrDepositCashOverflow)
	}
	p.Cash[key(u)] = newCash
	p.Whitelist[key(u)] = spender
	return nil
}

// WithdrawCash returns the full escrowed cash balance to u and clears it.
func (p *Pool) WithdrawCash(u crypto.Address) error {
	j := p.openJournal()
	amount := p.cashOf(u)
	if wideint.Zero(amount) {
		delete(p.Cash, key(u))
		return nil
	}
	delete(p.Cash, key(u))
	if err := p.Token.Transfer(u, amount); err != nil {
		return j.abort(wrapTransferErr("withdraw_cash", err))
	}
	return nil
}
