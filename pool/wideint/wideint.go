// Package wideint provides the 256-bit-intermediate fixed-point arithmetic
// the ring-lend engine uses to convert between raw underlying units and
// shares, bonds, and quoted collateral/debt values.
//
// Amounts are u128-range values represented as *uint256.Int — the same
// wide-integer type used elsewhere in this codebase for EVM-width balances
// — restricted by convention to the low 128 bits. Two such values multiply
// into a Wide product that always fits in 256 bits without overflow.
package wideint

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Amount is a u128-range quantity: raw underlying units, shares, or bonds.
type Amount = uint256.Int

// Wide is the 256-bit product of two Amounts.
type Wide = uint256.Int

var max128 = func() *uint256.Int {
	x := new(uint256.Int).SetAllOne() // 2^256 - 1
	x.Rsh(x, 128)                     // 2^128 - 1
	return x
}()

// Max128 is the saturation ceiling for every Amount in the engine.
func Max128() *Amount { return new(uint256.Int).Set(max128) }

// FromUint64 builds an Amount from a uint64 literal, a convenience used
// throughout the pool package's tests and bootstrap paths.
func FromUint64(v uint64) *Amount {
	return new(uint256.Int).SetUint64(v)
}

// FromBig converts a *big.Int into an Amount, saturating at Max128 rather
// than silently wrapping if the value is out of u128 range.
func FromBig(v *big.Int) *Amount {
	if v == nil || v.Sign() <= 0 {
		return new(uint256.Int)
	}
	u, overflow := uint256.FromBig(v)
	if overflow || u.Cmp(max128) > 0 {
		return Max128()
	}
	return u
}

// Zero reports whether a is the zero amount (treats nil as zero).
func Zero(a *Amount) bool {
	return a == nil || a.IsZero()
}

// Mul computes the 256-bit product a*b. Both operands are assumed to be
// within u128 range, in which case the product never overflows 256 bits.
func Mul(a, b *Amount) *Wide {
	if Zero(a) || Zero(b) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Mul(a, b)
}

// DivFloor divides a 256-bit intermediate by d, flooring, and saturates the
// low-128-bit result at Max128 on overflow. Returns ok=false when d is
// zero.
func DivFloor(w *Wide, d *Amount) (q *Amount, ok bool) {
	if Zero(d) {
		return nil, false
	}
	quo := new(uint256.Int).Div(w, d)
	if quo.Cmp(max128) > 0 {
		return Max128(), true
	}
	return quo, true
}

// DivFloorRate is the lossy-cast sibling of DivFloor used for rate-style
// quotients: the floor quotient is truncated to its low 128 bits rather
// than saturated, distinguishing a quantity that must fit (DivFloor) from
// one that is allowed to wrap (this one).
func DivFloorRate(w *Wide, d *Amount) (q *Amount, ok bool) {
	if Zero(d) {
		return nil, false
	}
	quo := new(uint256.Int).Div(w, d)
	return new(uint256.Int).And(quo, max128), true
}

// DivCeil divides a 256-bit intermediate by d, ceiling (adds one iff the
// remainder is non-zero), saturating the result at Max128.
func DivCeil(w *Wide, d *Amount) (q *Amount, ok bool) {
	if Zero(d) {
		return nil, false
	}
	quo := new(uint256.Int).Div(w, d)
	rem := new(uint256.Int).Mod(w, d)
	if !rem.IsZero() {
		quo = addSaturating(quo, FromUint64(1))
	}
	if quo.Cmp(max128) > 0 {
		return Max128(), true
	}
	return quo, true
}

// Scale returns W >> 128, the high 128 bits of a wide product — the
// fractional-rate application primitive. Because every Wide value used by
// the engine is the product of two u128 operands, the result always fits
// within 128 bits.
func Scale(w *Wide) *Amount {
	if w == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Rsh(w, 128)
}

// ScaleUp is Scale rounded up: it adds one iff any of the low 128 bits of w
// are set.
func ScaleUp(w *Wide) *Amount {
	scaled := Scale(w)
	if w == nil {
		return scaled
	}
	lowMask := max128
	low := new(uint256.Int).And(w, lowMask)
	if !low.IsZero() {
		return addSaturating(scaled, FromUint64(1))
	}
	return scaled
}

// AddSaturating adds a and b, saturating at Max128 on overflow.
func AddSaturating(a, b *Amount) *Amount {
	return addSaturating(a, b)
}

func addSaturating(a, b *Amount) *Amount {
	if a == nil {
		a = new(uint256.Int)
	}
	if b == nil {
		b = new(uint256.Int)
	}
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow || sum.Cmp(max128) > 0 {
		return Max128()
	}
	return sum
}

// CheckedAdd adds a and b, returning ok=false if the u128 range is
// exceeded rather than silently saturating — used wherever an overflow
// should surface as a hard error (e.g. DepositOverflow).
func CheckedAdd(a, b *Amount) (sum *Amount, ok bool) {
	if a == nil {
		a = new(uint256.Int)
	}
	if b == nil {
		b = new(uint256.Int)
	}
	s, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow || s.Cmp(max128) > 0 {
		return nil, false
	}
	return s, true
}

// CheckedSub subtracts b from a, returning ok=false on underflow.
func CheckedSub(a, b *Amount) (diff *Amount, ok bool) {
	if a == nil {
		a = new(uint256.Int)
	}
	if b == nil {
		b = new(uint256.Int)
	}
	if a.Cmp(b) < 0 {
		return nil, false
	}
	return new(uint256.Int).Sub(a, b), true
}

// WrappingAdd adds a and b modulo 2^128. The engine only ever calls this
// where the caller has already established the sum is bounded (e.g. a
// per-user balance bounded by a checked pool total), so wrap-around never
// actually triggers in practice.
func WrappingAdd(a, b *Amount) *Amount {
	if a == nil {
		a = new(uint256.Int)
	}
	if b == nil {
		b = new(uint256.Int)
	}
	sum := new(uint256.Int).Add(a, b)
	return new(uint256.Int).And(sum, max128)
}

// SaturatingMul multiplies a and b and saturates the result at Max128 if the
// true product does not fit in 128 bits, as used for rate*elapsed-time
// products during interest accrual.
func SaturatingMul(a, b *Amount) *Amount {
	w := Mul(a, b)
	if w.Cmp(max128) > 0 {
		return Max128()
	}
	return new(uint256.Int).Set(w)
}

// SaturatingSub subtracts b from a, floored at zero rather than erroring —
// used for the emergency-rate leg of interest accrual
// (emergency_max_rate - emergency_scaled).
func SaturatingSub(a, b *Amount) *Amount {
	if a.Cmp(b) <= 0 {
		return new(uint256.Int)
	}
	return new(uint256.Int).Sub(a, b)
}

// Max returns the larger of a and b.
func Max(a, b *Amount) *Amount {
	if a.Cmp(b) >= 0 {
		return new(uint256.Int).Set(a)
	}
	return new(uint256.Int).Set(b)
}

// Min returns the smaller of a and b.
func Min(a, b *Amount) *Amount {
	if a.Cmp(b) <= 0 {
		return new(uint256.Int).Set(a)
	}
	return new(uint256.Int).Set(b)
}

// Clone returns a defensive copy of a, or the zero amount if a is nil.
func Clone(a *Amount) *Amount {
	if a == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(a)
}

// ToBig converts an Amount to a *big.Int, primarily for event/log
// formatting where the wider ecosystem (TOML, slog) expects *big.Int.
func ToBig(a *Amount) *big.Int {
	if a == nil {
		return big.NewInt(0)
	}
	return a.ToBig()
}
