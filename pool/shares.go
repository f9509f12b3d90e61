package pool

import (
	"ringlend/core/events"
	"ringlend/crypto"
	"ringlend/pool/wideint"
)

func shareTransferEvent(poolID string, from, to crypto.Address, value *wideint.Amount) events.Transfer {
	return events.Transfer{PoolID: poolID, From: from, To: to, Value: wideint.ToBig(value)}
}

func shareApprovalEvent(poolID string, owner, spender crypto.Address, amount *wideint.Amount) events.Approval {
	return events.Approval{PoolID: poolID, Owner: owner, Spender: spender, Amount: wideint.ToBig(amount)}
}

func (p *Pool) emitApproval(owner, spender crypto.Address, amount *wideint.Amount) {
	if p.Emitter == nil {
		return
	}
	p.Emitter.Emit(shareApprovalEvent(p.ID, owner, spender, amount))
}

func (p *Pool) allowanceOf(owner, spender crypto.Address) *wideint.Amount {
	m, ok := p.Allowances[key(owner)]
	if !ok {
		return wideint.FromUint64(0)
	}
	v, ok := m[key(spender)]
	if !ok {
		return wideint.FromUint64(0)
	}
	return wideint.Clone(v)
}

func (p *Pool) setAllowance(owner, spender crypto.Address, amount *wideint.Amount) {
	m, ok := p.Allowances[key(owner)]
	if !ok {
		m = make(map[string]*wideint.Amount)
		p.Allowances[key(owner)] = m
	}
	m[key(spender)] = amount
}

// Transfer moves value shares from u to to. Self-transfers are a no-op.
func (p *Pool) Transfer(u, to crypto.Address, value *wideint.Amount) error {
	if u.Equal(to) {
		return nil
	}
	newFrom, ok := wideint.CheckedSub(p.sharesOf(u), value)
	if !ok {
		return ErrBurnOverflow
	}
	p.Shares[key(u)] = newFrom
	p.Shares[key(to)] = wideint.WrappingAdd(p.sharesOf(to), value)
	p.emitTransfer(u, to, value)
	return nil
}

// Approve sets the spender's allowance over u's shares to amount.
func (p *Pool) Approve(u, spender crypto.Address, amount *wideint.Amount) {
	p.setAllowance(u, spender, wideint.Clone(amount))
	p.emitApproval(u, spender, amount)
}

// IncreaseAllowance adds delta to the spender's current allowance.
func (p *Pool) IncreaseAllowance(u, spender crypto.Address, delta *wideint.Amount) {
	newAmount := wideint.WrappingAdd(p.allowanceOf(u, spender), delta)
	p.setAllowance(u, spender, newAmount)
	p.emitApproval(u, spender, newAmount)
}

// DecreaseAllowance subtracts delta from the spender's current allowance,
// flooring at zero.
func (p *Pool) DecreaseAllowance(u, spender crypto.Address, delta *wideint.Amount) {
	current := p.allowanceOf(u, spender)
	newAmount, ok := wideint.CheckedSub(current, delta)
	if !ok {
		newAmount = wideint.FromUint64(0)
	}
	p.setAllowance(u, spender, newAmount)
	p.emitApproval(u, spender, newAmount)
}

// TransferFrom moves value shares from owner to to on spender's behalf,
// debiting the allowance first.
func (p *Pool) TransferFrom(spender, owner, to crypto.Address, value *wideint.Amount) error {
	j := p.openJournal()
	allowance := p.allowanceOf(owner, spender)
	newAllowance, ok := wideint.CheckedSub(allowance, value)
	if !ok {
		return j.abort(ErrInsufficientAllowance)
	}

	newFrom, ok := wideint.CheckedSub(p.sharesOf(owner), value)
	if !ok {
		return j.abort(ErrInsufficientBalance)
	}

	p.setAllowance(owner, spender, newAllowance)
	p.emitApproval(owner, spender, newAllowance)
	p.Shares[key(owner)] = newFrom
	p.Shares[key(to)] = wideint.WrappingAdd(p.sharesOf(to), value)
	p.emitTransfer(owner, to, value)
	return nil
}
