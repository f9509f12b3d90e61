package pool

import (
	"ringlend/crypto"
	"ringlend/pool/wideint"
)

// TakeCash is the flash-loan entry point: it transfers amount to target,
// credits take_cash_fee to the pool's books, invokes the receiver's
// callback, then pulls amount+fee back via transfer_from. Only
// auth.IsAdmin(caller) may invoke it.
func (p *Pool) TakeCash(auth AdminAuth, caller crypto.Address, amount *wideint.Amount, target crypto.Address, borrower FlashBorrower, data []byte) error {
	if auth == nil || !auth.IsAdmin(caller) {
		return ErrTakeCashUnauthorized
	}

	j := p.openJournal()
	fee := wideint.ScaleUp(wideint.Mul(amount, p.Params.TakeCashFee))
	newL, ok := wideint.CheckedAdd(p.TotalLiquidity, fee)
	if !ok {
		return j.abort(ErrTakeCashOverflow)
	}
	newB := wideint.AddSaturating(p.TotalBorrowable, fee)
	p.TotalLiquidity = newL
	p.TotalBorrowable = newB

	if err := p.Token.Transfer(target, amount); err != nil {
		return j.abort(wrapTransferErr("take_cash", err))
	}
	j.onAbort(func() error { return p.Token.TransferFrom(target, p.Addr, amount) })

	totalDue := wideint.AddSaturating(amount, fee)

	if borrower != nil {
		if err := borrower.OnFlashLoan(caller, p.UnderlyingID, amount, fee, data); err != nil {
			return j.abort(err)
		}
	}

	if err := p.Token.TransferFrom(target, p.Addr, totalDue); err != nil {
		return j.abort(wrapTransferErr("take_cash", err))
	}

	p.logInfo("take_cash", "pool", p.ID, "target", target.String(),
		"amount", wideint.ToBig(amount).String(), "fee", wideint.ToBig(fee).String())
	m := PoolMetrics()
	m.FlashLoans.WithLabelValues(p.ID).Inc()
	m.Observe(p)
	return nil
}
