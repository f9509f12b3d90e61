package wideint

import "testing"

func TestMulDivFloorRoundTrip(t *testing.T) {
	a := FromUint64(100)
	b := FromUint64(3)
	w := Mul(a, b)
	q, ok := DivFloor(w, FromUint64(3))
	if !ok || q.Cmp(a) != 0 {
		t.Fatalf("DivFloor round trip: got %v ok=%v want %v", q, ok, a)
	}
}

func TestDivFloorZeroDivisor(t *testing.T) {
	if _, ok := DivFloor(Mul(FromUint64(1), FromUint64(1)), FromUint64(0)); ok {
		t.Fatalf("expected ok=false on zero divisor")
	}
}

func TestDivCeilRoundsUpOnRemainder(t *testing.T) {
	w := Mul(FromUint64(10), FromUint64(1))
	q, ok := DivCeil(w, FromUint64(3))
	if !ok || q.Cmp(FromUint64(4)) != 0 {
		t.Fatalf("DivCeil(10,3) = %v, want 4", q)
	}
	q, ok = DivCeil(w, FromUint64(5))
	if !ok || q.Cmp(FromUint64(2)) != 0 {
		t.Fatalf("DivCeil(10,5) = %v, want 2 (exact, no round up)", q)
	}
}

func TestDivCeilSaturates(t *testing.T) {
	w := Mul(Max128(), Max128())
	q, ok := DivCeil(w, FromUint64(1))
	if !ok || q.Cmp(Max128()) != 0 {
		t.Fatalf("expected saturation at Max128, got %v", q)
	}
}

func TestScaleAndScaleUp(t *testing.T) {
	// A product whose high 128 bits are 5 and low bits are zero scales exactly.
	w := new(Amount).Lsh(FromUint64(5), 128)
	if Scale(w).Cmp(FromUint64(5)) != 0 {
		t.Fatalf("Scale: got %v want 5", Scale(w))
	}
	if ScaleUp(w).Cmp(FromUint64(5)) != 0 {
		t.Fatalf("ScaleUp on exact value should not round up: got %v", ScaleUp(w))
	}

	wPlusOne := new(Amount).Add(w, FromUint64(1))
	if ScaleUp(wPlusOne).Cmp(FromUint64(6)) != 0 {
		t.Fatalf("ScaleUp should round up on any nonzero remainder: got %v", ScaleUp(wPlusOne))
	}
}

func TestCheckedAddOverflow(t *testing.T) {
	if _, ok := CheckedAdd(Max128(), FromUint64(1)); ok {
		t.Fatalf("expected overflow at Max128+1")
	}
	sum, ok := CheckedAdd(Max128(), FromUint64(0))
	if !ok || sum.Cmp(Max128()) != 0 {
		t.Fatalf("Max128+0 should succeed at Max128, got %v ok=%v", sum, ok)
	}
}

func TestCheckedSubUnderflow(t *testing.T) {
	if _, ok := CheckedSub(FromUint64(5), FromUint64(6)); ok {
		t.Fatalf("expected underflow")
	}
	diff, ok := CheckedSub(FromUint64(6), FromUint64(5))
	if !ok || diff.Cmp(FromUint64(1)) != 0 {
		t.Fatalf("6-5 should be 1, got %v ok=%v", diff, ok)
	}
}

func TestSaturatingMul(t *testing.T) {
	got := SaturatingMul(Max128(), FromUint64(2))
	if got.Cmp(Max128()) != 0 {
		t.Fatalf("expected saturation, got %v", got)
	}
	got = SaturatingMul(FromUint64(4), FromUint64(5))
	if got.Cmp(FromUint64(20)) != 0 {
		t.Fatalf("4*5 = %v, want 20", got)
	}
}

func TestSaturatingSubFloorsAtZero(t *testing.T) {
	if got := SaturatingSub(FromUint64(3), FromUint64(5)); !got.IsZero() {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := SaturatingSub(FromUint64(5), FromUint64(3)); got.Cmp(FromUint64(2)) != 0 {
		t.Fatalf("expected 2, got %v", got)
	}
}

func TestDivFloorRateLossyCast(t *testing.T) {
	// A wide value whose quotient exceeds 128 bits is truncated, not saturated.
	huge := new(Amount).Lsh(FromUint64(1), 200)
	q, ok := DivFloorRate(huge, FromUint64(1))
	if !ok {
		t.Fatalf("expected ok")
	}
	if q.Cmp(Max128()) == 0 {
		t.Fatalf("DivFloorRate must not saturate like DivFloor")
	}
}
