package pool

import (
	"ringlend/crypto"
	"ringlend/pool/wideint"
)

// ledger is a deep copy of every field an exported Pool operation is
// allowed to mutate. A journal uses it to put the pool back exactly as it
// was before the operation started.
type ledger struct {
	totalCollateral *wideint.Amount
	collateral      map[string]*wideint.Amount

	totalLiquidity  *wideint.Amount
	totalBorrowable *wideint.Amount

	totalShares *wideint.Amount
	shares      map[string]*wideint.Amount
	allowances  map[string]map[string]*wideint.Amount

	totalBonds *wideint.Amount
	bonds      map[string]*wideint.Amount

	cash      map[string]*wideint.Amount
	whitelist map[string]crypto.Address

	updatedAt int64
}

func cloneAmountMap(m map[string]*wideint.Amount) map[string]*wideint.Amount {
	out := make(map[string]*wideint.Amount, len(m))
	for k, v := range m {
		out[k] = wideint.Clone(v)
	}
	return out
}

func cloneAllowanceMap(m map[string]map[string]*wideint.Amount) map[string]map[string]*wideint.Amount {
	out := make(map[string]map[string]*wideint.Amount, len(m))
	for k, v := range m {
		out[k] = cloneAmountMap(v)
	}
	return out
}

func cloneWhitelist(m map[string]crypto.Address) map[string]crypto.Address {
	out := make(map[string]crypto.Address, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (p *Pool) takeLedger() *ledger {
	return &ledger{
		totalCollateral: wideint.Clone(p.TotalCollateral),
		collateral:      cloneAmountMap(p.Collateral),
		totalLiquidity:  wideint.Clone(p.TotalLiquidity),
		totalBorrowable: wideint.Clone(p.TotalBorrowable),
		totalShares:     wideint.Clone(p.TotalShares),
		shares:          cloneAmountMap(p.Shares),
		allowances:      cloneAllowanceMap(p.Allowances),
		totalBonds:      wideint.Clone(p.TotalBonds),
		bonds:           cloneAmountMap(p.Bonds),
		cash:            cloneAmountMap(p.Cash),
		whitelist:       cloneWhitelist(p.Whitelist),
		updatedAt:       p.UpdatedAt,
	}
}

func (p *Pool) applyLedger(l *ledger) {
	p.TotalCollateral = l.totalCollateral
	p.Collateral = l.collateral
	p.TotalLiquidity = l.totalLiquidity
	p.TotalBorrowable = l.totalBorrowable
	p.TotalShares = l.totalShares
	p.Shares = l.shares
	p.Allowances = l.allowances
	p.TotalBonds = l.totalBonds
	p.Bonds = l.bonds
	p.Cash = l.cash
	p.Whitelist = l.whitelist
	p.UpdatedAt = l.updatedAt
}

// journal is the write-journal-and-rollback mechanism the engine needs when
// it isn't hosted inside a transactional runtime: every exported Pool entry
// point opens one before its first write and either commits (discarding it)
// or aborts (restoring the ledger taken at entry and unwinding any external
// transfer recorded along the way) before returning.
type journal struct {
	p            *Pool
	l            *ledger
	compensation []func() error
}

func (p *Pool) openJournal() *journal {
	return &journal{p: p, l: p.takeLedger()}
}

// onAbort registers fn to run, in LIFO order, if this journal is aborted.
// Used to reverse an external transfer that already happened before a
// later check failed.
func (j *journal) onAbort(fn func() error) {
	j.compensation = append(j.compensation, fn)
}

// abort restores the pool's ledger to its state at journal open, runs any
// registered compensations, and returns err unchanged so call sites can
// write `return j.abort(ErrXxx)`. A compensation failure is logged, not
// returned: the original error is always the one the caller sees.
func (j *journal) abort(err error) error {
	j.p.applyLedger(j.l)
	for i := len(j.compensation) - 1; i >= 0; i-- {
		if cerr := j.compensation[i](); cerr != nil {
			j.p.logWarn("rollback compensation failed", "pool", j.p.ID, "err", cerr)
		}
	}
	return err
}
