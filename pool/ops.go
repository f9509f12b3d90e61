package pool

import (
	"ringlend/crypto"
	"ringlend/pool/wideint"
)

// Deposit moves toDeposit of underlying from u into the pool as collateral.
// nativeAttached is whatever native-currency value the caller attached to
// this call, checked against Params.GasCollateral on a user's first
// deposit.
func (p *Pool) Deposit(u crypto.Address, toDeposit, nativeAttached *wideint.Amount) error {
	j := p.openJournal()
	if err := p.Token.TransferFrom(u, p.Addr, toDeposit); err != nil {
		return j.abort(wrapTransferErr("deposit", err))
	}
	j.onAbort(func() error { return p.Token.Transfer(u, toDeposit) })

	if p.bondsOf(u) != nil {
		return j.abort(ErrDepositWhileBorrowingNotAllowed)
	}
	existing := p.collateralOf(u)
	if existing == nil {
		if nativeAttached == nil || nativeAttached.Cmp(p.Params.GasCollateral) != 0 {
			return j.abort(ErrFirstDepositRequiresGasCollateral)
		}
	} else {
		existing = wideint.Clone(existing)
	}

	newTotal, ok := wideint.CheckedAdd(p.TotalCollateral, toDeposit)
	if !ok {
		return j.abort(ErrDepositOverflow)
	}
	base := existing
	if base == nil {
		base = wideint.FromUint64(0)
	}
	newCollateral := wideint.WrappingAdd(base, toDeposit)

	p.TotalCollateral = newTotal
	p.Collateral[key(u)] = newCollateral

	p.logInfo("deposit", "pool", p.ID, "user", u.String(), "amount", wideint.ToBig(toDeposit).String())
	PoolMetrics().Observe(p)
	return nil
}

// Withdraw removes toWithdraw of collateral belonging to u, subject to the
// cross-pool initial-collateral-value solvency check.
func (p *Pool) Withdraw(u crypto.Address, toWithdraw *wideint.Amount) error {
	j := p.openJournal()
	existing := p.collateralOf(u)
	if existing == nil {
		return j.abort(ErrWithdrawWithoutDeposit)
	}
	newCollateral, ok := wideint.CheckedSub(existing, toWithdraw)
	if !ok {
		return j.abort(ErrWithdrawOverflow)
	}

	icvSelf := p.initialCollateralValue(newCollateral)
	totalICV, totalIDV := p.ring.walkValuation(p.self, u)
	totalICV = wideint.AddSaturating(totalICV, icvSelf)

	if !wideint.Zero(totalIDV) && totalICV.Cmp(totalIDV) <= 0 {
		return j.abort(ErrCollateralValueTooLowAfterWithdraw)
	}

	newTotalCollateral, ok := wideint.CheckedSub(p.TotalCollateral, toWithdraw)
	if !ok {
		newTotalCollateral = wideint.FromUint64(0)
	}
	p.TotalCollateral = newTotalCollateral
	if wideint.Zero(newCollateral) {
		delete(p.Collateral, key(u))
	} else {
		p.Collateral[key(u)] = newCollateral
	}

	if err := p.Token.Transfer(u, toWithdraw); err != nil {
		return j.abort(wrapTransferErr("withdraw", err))
	}
	if wideint.Zero(newCollateral) {
		if err := p.refundGas(u); err != nil {
			p.logWarn("gas refund failed", "pool", p.ID, "user", u.String(), "err", err)
		}
	}
	p.logInfo("withdraw", "pool", p.ID, "user", u.String(), "amount", wideint.ToBig(toWithdraw).String())
	PoolMetrics().Observe(p)
	return nil
}

// Mint wraps toWrap of underlying into freshly minted liquidity shares,
// charging mint_fee.
func (p *Pool) Mint(u crypto.Address, toWrap *wideint.Amount) error {
	j := p.openJournal()
	fee := wideint.ScaleUp(wideint.Mul(toWrap, p.Params.MintFee))
	toTransfer, ok := wideint.CheckedAdd(toWrap, fee)
	if !ok {
		return j.abort(ErrMintFeeOverflow)
	}
	if err := p.Token.TransferFrom(u, p.Addr, toTransfer); err != nil {
		return j.abort(wrapTransferErr("mint", err))
	}
	j.onAbort(func() error { return p.Token.Transfer(u, toTransfer) })

	L := p.accrueSelf(p.now())
	B := p.TotalBorrowable

	newL, ok := wideint.CheckedAdd(L, toTransfer)
	if !ok {
		return j.abort(ErrMintOverflow)
	}
	newB := wideint.WrappingAdd(B, toTransfer)

	var toMint *wideint.Amount
	if wideint.Zero(L) {
		toMint = wideint.Clone(toTransfer)
	} else {
		toMint, _ = wideint.DivFloor(wideint.Mul(toWrap, p.TotalShares), L)
	}

	newShares := wideint.WrappingAdd(p.sharesOf(u), toMint)
	newTotalShares := wideint.WrappingAdd(p.TotalShares, toMint)

	p.TotalLiquidity = newL
	p.TotalBorrowable = newB
	p.Shares[key(u)] = newShares
	p.TotalShares = newTotalShares

	p.emitTransfer(crypto.Address{}, u, toMint)
	p.logInfo("mint", "pool", p.ID, "user", u.String(), "shares", wideint.ToBig(toMint).String())
	PoolMetrics().Observe(p)
	return nil
}

// Burn redeems toBurn liquidity shares for their underlying share of
// total_liquidity.
func (p *Pool) Burn(u crypto.Address, toBurn *wideint.Amount) error {
	j := p.openJournal()
	L := p.accrueSelf(p.now())
	B := p.TotalBorrowable

	newShares, ok := wideint.CheckedSub(p.sharesOf(u), toBurn)
	if !ok {
		return j.abort(ErrBurnOverflow)
	}

	var toWithdraw *wideint.Amount
	if wideint.Zero(p.TotalShares) {
		toWithdraw = wideint.FromUint64(0)
	} else {
		toWithdraw, _ = wideint.DivFloor(wideint.Mul(toBurn, L), p.TotalShares)
	}

	newB, ok := wideint.CheckedSub(B, toWithdraw)
	if !ok {
		return j.abort(ErrBurnTooMuch)
	}
	newL, ok := wideint.CheckedSub(L, toWithdraw)
	if !ok {
		newL = wideint.FromUint64(0)
	}
	newTotalShares, ok := wideint.CheckedSub(p.TotalShares, toBurn)
	if !ok {
		newTotalShares = wideint.FromUint64(0)
	}

	p.Shares[key(u)] = newShares
	p.TotalShares = newTotalShares
	p.TotalBorrowable = newB
	p.TotalLiquidity = newL

	p.emitTransfer(u, crypto.Address{}, toBurn)

	if err := p.Token.Transfer(u, toWithdraw); err != nil {
		return j.abort(wrapTransferErr("burn", err))
	}
	p.logInfo("burn", "pool", p.ID, "user", u.String(), "underlying", wideint.ToBig(toWithdraw).String())
	PoolMetrics().Observe(p)
	return nil
}

// Borrow mints bonds against toBorrow of newly borrowed liquidity, subject
// to the cross-pool initial-debt-value solvency check.
func (p *Pool) Borrow(u crypto.Address, toBorrow, nativeAttached *wideint.Amount) error {
	j := p.openJournal()
	L := p.accrueSelf(p.now())
	B := p.TotalBorrowable

	existingBonds := p.bondsOf(u)
	if existingBonds == nil {
		if p.collateralOf(u) != nil {
			return j.abort(ErrBorrowWhileDepositingNotAllowed)
		}
		if nativeAttached == nil || nativeAttached.Cmp(p.Params.GasCollateral) != 0 {
			return j.abort(ErrFirstBorrowRequiresGasCollateral)
		}
	}

	fee := wideint.ScaleUp(wideint.Mul(toBorrow, p.Params.BorrowFee))
	toReturn, ok := wideint.CheckedAdd(toBorrow, fee)
	if !ok {
		return j.abort(ErrBorrowFeeOverflow)
	}
	newB, ok := wideint.CheckedSub(B, toReturn)
	if !ok {
		return j.abort(ErrBorrowOverflow)
	}

	debtOld, ok := wideint.CheckedSub(L, B)
	if !ok {
		debtOld = wideint.FromUint64(0)
	}

	var toMint *wideint.Amount
	if wideint.Zero(debtOld) {
		toMint = wideint.Clone(toReturn)
	} else {
		toMint, _ = wideint.DivCeil(wideint.Mul(toReturn, p.TotalBonds), debtOld)
	}

	base := existingBonds
	if base == nil {
		base = wideint.FromUint64(0)
	}
	newBondsU := wideint.WrappingAdd(base, toMint)
	newTotalBonds := wideint.WrappingAdd(p.TotalBonds, toMint)

	debtNew, ok := wideint.CheckedSub(L, newB)
	if !ok {
		debtNew = wideint.FromUint64(0)
	}
	debtU := debtShare(newBondsU, debtNew, newTotalBonds)
	idvSelf := p.initialDebtValue(debtU)

	// The ring walk visits only peers; it never depends on this pool's own
	// bond position having already been committed, so the commit below
	// waits until after the solvency check it gates.
	totalICV, totalIDV := p.ring.walkValuation(p.self, u)
	totalIDV = wideint.AddSaturating(totalIDV, idvSelf)

	if totalICV.Cmp(totalIDV) <= 0 {
		return j.abort(ErrCollateralValueTooLowAfterBorrow)
	}

	p.TotalBorrowable = newB
	p.Bonds[key(u)] = newBondsU
	p.TotalBonds = newTotalBonds

	if err := p.Token.Transfer(u, toBorrow); err != nil {
		return j.abort(wrapTransferErr("borrow", err))
	}
	p.logInfo("borrow", "pool", p.ID, "user", u.String(), "amount", wideint.ToBig(toBorrow).String())
	PoolMetrics().Observe(p)
	return nil
}

func (p *Pool) emitTransfer(from, to crypto.Address, value *wideint.Amount) {
	if p.Emitter == nil {
		return
	}
	p.Emitter.Emit(shareTransferEvent(p.ID, from, to, value))
}
