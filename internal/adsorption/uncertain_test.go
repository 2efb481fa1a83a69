package adsorption

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestValuePropagation(t *testing.T) {
	a := Uncertain(2, 0.1)
	b := Uncertain(3, 0.2)

	if got := a.Add(b); got.V != 5 || !scalar.EqualWithinRel(got.U, math.Hypot(0.1, 0.2), 1e-12) {
		t.Errorf("Add = %+v", got)
	}
	if got := a.Sub(b); got.V != -1 || !scalar.EqualWithinRel(got.U, math.Hypot(0.1, 0.2), 1e-12) {
		t.Errorf("Sub = %+v", got)
	}
	// u(ab) = hypot(b u_a, a u_b)
	if got := a.Mul(b); got.V != 6 || !scalar.EqualWithinRel(got.U, math.Hypot(3*0.1, 2*0.2), 1e-12) {
		t.Errorf("Mul = %+v", got)
	}
	// u(a/b) = hypot(u_a/b, (a/b) u_b/b)
	q := 2.0 / 3.0
	if got := a.Div(b); !scalar.EqualWithinRel(got.V, q, 1e-12) ||
		!scalar.EqualWithinRel(got.U, math.Hypot(0.1/3, q*0.2/3), 1e-12) {
		t.Errorf("Div = %+v", got)
	}
}

func TestExactStaysExact(t *testing.T) {
	a := Exact(4)
	b := Exact(2)
	for _, got := range []Value{a.Add(b), a.Sub(b), a.Mul(b), a.Div(b)} {
		if got.U != 0 {
			t.Errorf("exact operands produced uncertainty %g", got.U)
		}
	}
}

func TestMulWithZeroOperandValue(t *testing.T) {
	// The partial-derivative form must not blow up when a value is zero.
	got := Uncertain(0, 0.1).Mul(Uncertain(5, 0.2))
	if got.V != 0 || !scalar.EqualWithinRel(got.U, 0.5, 1e-12) {
		t.Errorf("0(±0.1) * 5(±0.2) = %+v, want 0 ± 0.5", got)
	}
	if !got.IsFinite() {
		t.Error("IsFinite = false")
	}
}

func TestUncertainNormalizesSign(t *testing.T) {
	if got := Uncertain(1, -0.3); got.U != 0.3 {
		t.Errorf("U = %g, want 0.3", got.U)
	}
}
