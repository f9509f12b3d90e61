// Package pool implements the ring-lend cross-asset lending-and-borrowing
// engine: a set of per-asset pools linked in a cyclic ring, each tracking
// user collateral, liquidity shares, and debt bonds, cooperating through a
// ring-traversal protocol to enforce a global solvency invariant across any
// number of assets.
package pool

import (
	"log/slog"
	"time"

	"ringlend/core/events"
	"ringlend/crypto"
	"ringlend/pool/wideint"
)

func timeNowUnix() int64 { return time.Now().Unix() }

// Underlying is the fungible-token transfer surface a pool's backing asset
// must expose. Its concrete transfer semantics are an external collaborator
// (non-goal of this engine); the engine only ever calls these two methods
// and treats any returned error as fatal for the current operation.
type Underlying interface {
	Transfer(to crypto.Address, value *wideint.Amount) error
	TransferFrom(from, to crypto.Address, value *wideint.Amount) error
}

// NativeEscrow models the native-currency side channel a gas_collateral
// deposit rides on. Outside a blockchain host, an implementation can be as
// simple as a counter that blocks an operation until a matching deposit
// arrives, or return the deposit on refund.
type NativeEscrow interface {
	Refund(user crypto.Address, amount *wideint.Amount) error
}

// FlashBorrower is the callback surface a flash-loan coordinator invokes
// after take_cash has transferred funds to the target.
type FlashBorrower interface {
	OnFlashLoan(initiator crypto.Address, underlyingID string, amount, fee *wideint.Amount, data []byte) error
}

// AdminAuth decides whether a caller may invoke the admin surface
// (set_price, set_params, take_cash). Concrete authorization policy is an
// external collaborator; the engine only ever asks "is this identity the
// admin".
type AdminAuth interface {
	IsAdmin(caller crypto.Address) bool
}

// Params is the per-pool parameter set governing interest, margin, haircut,
// and fee behavior. Rates and fees are unsigned fractions in units of
// 2^-128 unless stated otherwise.
type Params struct {
	StandardRate       *wideint.Amount
	StandardMinRate    *wideint.Amount
	EmergencyRate      *wideint.Amount
	EmergencyMaxRate   *wideint.Amount
	InitialMargin      *wideint.Amount
	MaintenanceMargin  *wideint.Amount
	InitialHaircut     *wideint.Amount
	MaintenanceHaircut *wideint.Amount
	MintFee            *wideint.Amount
	BorrowFee          *wideint.Amount
	TakeCashFee        *wideint.Amount
	LiquidationReward  *wideint.Amount
	GasCollateral      *wideint.Amount
}

// Clone returns a deep copy of p, safe to mutate without aliasing the
// original.
func (p Params) Clone() Params {
	return Params{
		StandardRate:       wideint.Clone(p.StandardRate),
		StandardMinRate:    wideint.Clone(p.StandardMinRate),
		EmergencyRate:      wideint.Clone(p.EmergencyRate),
		EmergencyMaxRate:   wideint.Clone(p.EmergencyMaxRate),
		InitialMargin:      wideint.Clone(p.InitialMargin),
		MaintenanceMargin:  wideint.Clone(p.MaintenanceMargin),
		InitialHaircut:     wideint.Clone(p.InitialHaircut),
		MaintenanceHaircut: wideint.Clone(p.MaintenanceHaircut),
		MintFee:            wideint.Clone(p.MintFee),
		BorrowFee:          wideint.Clone(p.BorrowFee),
		TakeCashFee:        wideint.Clone(p.TakeCashFee),
		LiquidationReward:  wideint.Clone(p.LiquidationReward),
		GasCollateral:      wideint.Clone(p.GasCollateral),
	}
}

// Pool is one per-asset node in the ring. It carries a back reference to its
// owning Ring and its own index so its operations can walk peers without
// every call site threading the ring through explicitly.
type Pool struct {
	ID           string
	Addr         crypto.Address // the identity peers compare against in whitelist checks
	UnderlyingID string
	Token        Underlying
	Gas          NativeEscrow

	ring *Ring
	self int

	Next      int // index of the next pool in the ring
	UpdatedAt int64

	TotalCollateral *wideint.Amount
	Collateral      map[string]*wideint.Amount

	TotalLiquidity  *wideint.Amount
	TotalBorrowable *wideint.Amount

	TotalShares *wideint.Amount
	Shares      map[string]*wideint.Amount
	Allowances  map[string]map[string]*wideint.Amount

	TotalBonds *wideint.Amount
	Bonds      map[string]*wideint.Amount

	Cash      map[string]*wideint.Amount
	Whitelist map[string]crypto.Address

	Price       *wideint.Amount
	PriceScaler *wideint.Amount

	Params Params

	Emitter events.Emitter
	Log     *slog.Logger

	// Clock supplies the current time for accrual. Defaults to time.Now
	// wall-clock seconds when nil.
	Clock func() int64
}

func (p *Pool) now() int64 {
	if p.Clock == nil {
		return timeNowUnix()
	}
	return p.Clock()
}

// NewPool constructs an empty pool ready to be spliced into a Ring by
// Admin.CreatePool. It is not usable on its own until ring-attached.
func NewPool(id, underlyingID string, token Underlying, gas NativeEscrow, params Params) *Pool {
	return &Pool{
		ID:              id,
		UnderlyingID:    underlyingID,
		Token:           token,
		Gas:             gas,
		TotalCollateral: wideint.FromUint64(0),
		Collateral:      make(map[string]*wideint.Amount),
		TotalLiquidity:  wideint.FromUint64(0),
		TotalBorrowable: wideint.FromUint64(0),
		TotalShares:     wideint.FromUint64(0),
		Shares:          make(map[string]*wideint.Amount),
		Allowances:      make(map[string]map[string]*wideint.Amount),
		TotalBonds:      wideint.FromUint64(0),
		Bonds:           make(map[string]*wideint.Amount),
		Cash:            make(map[string]*wideint.Amount),
		Whitelist:       make(map[string]crypto.Address),
		Price:           wideint.FromUint64(1),
		PriceScaler:     wideint.FromUint64(1),
		Params:          params,
		Emitter:         events.NoopEmitter{},
	}
}

// logInfo and logWarn are nil-safe: operations stay silent when no logger is
// configured rather than defaulting to slog.Default().
func (p *Pool) logInfo(msg string, args ...any) {
	if p.Log != nil {
		p.Log.Info(msg, args...)
	}
}

func (p *Pool) logWarn(msg string, args ...any) {
	if p.Log != nil {
		p.Log.Warn(msg, args...)
	}
}

func key(a crypto.Address) string { return string(a.Bytes()) }

func (p *Pool) collateralOf(u crypto.Address) *wideint.Amount {
	if v, ok := p.Collateral[key(u)]; ok {
		return v
	}
	return nil
}

func (p *Pool) bondsOf(u crypto.Address) *wideint.Amount {
	if v, ok := p.Bonds[key(u)]; ok {
		return v
	}
	return nil
}

func (p *Pool) sharesOf(u crypto.Address) *wideint.Amount {
	if v, ok := p.Shares[key(u)]; ok {
		return wideint.Clone(v)
	}
	return wideint.FromUint64(0)
}

func (p *Pool) cashOf(u crypto.Address) *wideint.Amount {
	if v, ok := p.Cash[key(u)]; ok {
		return wideint.Clone(v)
	}
	return wideint.FromUint64(0)
}

func (p *Pool) refundGas(u crypto.Address) error {
	if p.Gas == nil || wideint.Zero(p.Params.GasCollateral) {
		return nil
	}
	return p.Gas.Refund(u, p.Params.GasCollateral)
}
