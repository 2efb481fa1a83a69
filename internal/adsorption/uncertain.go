package adsorption

import "math"

// Value is a numeric value with an optional standard uncertainty. The four
// closure formulas are written once over Value; plain measurements carry U == 0
// and propagate it unchanged, so callers without uncertainty data can ignore U.
//
// Propagation is first order and treats operands as uncorrelated. Repeated use
// of the same input inside one formula therefore slightly overstates the
// combined uncertainty; see DESIGN.md.
type Value struct {
	V float64 // value
	U float64 // standard uncertainty, 0 when untracked
}

// Exact returns v with zero uncertainty.
func Exact(v float64) Value { return Value{V: v} }

// Uncertain returns v with standard uncertainty u.
func Uncertain(v, u float64) Value { return Value{V: v, U: math.Abs(u)} }

func (a Value) Add(b Value) Value {
	return Value{V: a.V + b.V, U: math.Hypot(a.U, b.U)}
}

func (a Value) Sub(b Value) Value {
	return Value{V: a.V - b.V, U: math.Hypot(a.U, b.U)}
}

func (a Value) Mul(b Value) Value {
	return Value{V: a.V * b.V, U: math.Hypot(b.V*a.U, a.V*b.U)}
}

func (a Value) Div(b Value) Value {
	q := a.V / b.V
	return Value{V: q, U: math.Hypot(a.U/b.V, q*b.U/b.V)}
}

// IsFinite reports whether both the value and its uncertainty are finite.
func (a Value) IsFinite() bool {
	return !math.IsNaN(a.V) && !math.IsInf(a.V, 0) &&
		!math.IsNaN(a.U) && !math.IsInf(a.U, 0)
}
