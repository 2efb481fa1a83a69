package adsorption

import (
	"fmt"
	"math"
)

// Canonical field names, used in error reporting and by the CSV parser.
const (
	FieldVIn  = "V_in"
	FieldDIn  = "d_in"
	FieldDEq  = "d_eq"
	FieldM    = "m"
	FieldCAIn = "CA_in"
	FieldCAEq = "CA_eq"
	FieldDA   = "d_A"
	FieldDS   = "d_S"
	FieldVP   = "V_p"
)

// Input carries the raw values for one batch-adsorption experiment, one slice
// entry per run. The six required fields must all be present with equal
// lengths. Calibration fields are optional (nil means not provided, never
// zero); a length-1 calibration slice is broadcast over the batch.
// Uncertainty slices are optional per field and follow the same length rules.
type Input struct {
	VIn  []float64 // initial solution volume
	DIn  []float64 // initial solution density
	DEq  []float64 // equilibrium solution density
	M    []float64 // adsorbent mass
	CAIn []float64 // initial solute concentration
	CAEq []float64 // equilibrium solute concentration

	DA []float64 // estimated adsorbate density (VC, PF)
	DS []float64 // estimated in-pore solvent density (PF)
	VP []float64 // estimated pore volume (PF)

	UVIn  []float64
	UDIn  []float64
	UDEq  []float64
	UM    []float64
	UCAIn []float64
	UCAEq []float64
	UDA   []float64
	UDS   []float64
	UVP   []float64

	VolumeUnits        string
	ConcentrationUnits string
	MassUnits          string
	DensityUnits       string
}

// Measurement is the validated, read-only form of an Input. It is safe to
// evaluate any number of closures against one Measurement concurrently.
type Measurement struct {
	n int

	vIn, dIn, dEq, m, cAIn, cAEq []Value
	dA, dS, vP                   []Value // nil when not provided

	hasUncertainty bool

	VolumeUnits        string
	ConcentrationUnits string
	MassUnits          string
	DensityUnits       string
}

// NewMeasurement validates in and freezes it into a Measurement. It fails with
// ErrMissingField, ErrShapeMismatch or ErrInvalidField; nothing is computed on
// a partially valid batch.
func NewMeasurement(in Input) (*Measurement, error) {
	required := []struct {
		name string
		vals []float64
	}{
		{FieldVIn, in.VIn},
		{FieldDIn, in.DIn},
		{FieldDEq, in.DEq},
		{FieldM, in.M},
		{FieldCAIn, in.CAIn},
		{FieldCAEq, in.CAEq},
	}
	for _, f := range required {
		if len(f.vals) == 0 {
			return nil, missingField(f.name)
		}
	}

	n := len(in.VIn)
	for _, f := range required[1:] {
		if len(f.vals) != n {
			return nil, shapeMismatch(f.name, len(f.vals), n)
		}
	}

	mt := &Measurement{
		n:                  n,
		VolumeUnits:        in.VolumeUnits,
		ConcentrationUnits: in.ConcentrationUnits,
		MassUnits:          in.MassUnits,
		DensityUnits:       in.DensityUnits,
	}

	var err error
	if mt.vIn, err = buildField(FieldVIn, in.VIn, in.UVIn, n, positive); err != nil {
		return nil, err
	}
	if mt.dIn, err = buildField(FieldDIn, in.DIn, in.UDIn, n, positive); err != nil {
		return nil, err
	}
	if mt.dEq, err = buildField(FieldDEq, in.DEq, in.UDEq, n, positive); err != nil {
		return nil, err
	}
	if mt.m, err = buildField(FieldM, in.M, in.UM, n, positive); err != nil {
		return nil, err
	}
	if mt.cAIn, err = buildField(FieldCAIn, in.CAIn, in.UCAIn, n, nonNegative); err != nil {
		return nil, err
	}
	if mt.cAEq, err = buildField(FieldCAEq, in.CAEq, in.UCAEq, n, nonNegative); err != nil {
		return nil, err
	}
	if mt.dA, err = buildOptional(FieldDA, in.DA, in.UDA, n, positive); err != nil {
		return nil, err
	}
	if mt.dS, err = buildOptional(FieldDS, in.DS, in.UDS, n, positive); err != nil {
		return nil, err
	}
	if mt.vP, err = buildOptional(FieldVP, in.VP, in.UVP, n, positive); err != nil {
		return nil, err
	}

	for _, u := range [][]float64{in.UVIn, in.UDIn, in.UDEq, in.UM, in.UCAIn, in.UCAEq, in.UDA, in.UDS, in.UVP} {
		if len(u) > 0 {
			mt.hasUncertainty = true
			break
		}
	}
	return mt, nil
}

type rangeCheck int

const (
	positive rangeCheck = iota
	nonNegative
)

func (rc rangeCheck) ok(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if rc == positive {
		return v > 0
	}
	return v >= 0
}

func (rc rangeCheck) String() string {
	if rc == positive {
		return "must be > 0 and finite"
	}
	return "must be >= 0 and finite"
}

func buildField(name string, vals, us []float64, n int, rc rangeCheck) ([]Value, error) {
	out := make([]Value, n)
	for i, v := range vals {
		if !rc.ok(v) {
			return nil, invalidField(name, fmt.Sprintf("run %d: %g %s", i+1, v, rc))
		}
		out[i] = Exact(v)
	}
	if len(us) > 0 {
		us2, err := broadcast(name+" uncertainty", us, n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			if math.IsNaN(us2[i]) || math.IsInf(us2[i], 0) {
				return nil, invalidField(name+" uncertainty", fmt.Sprintf("run %d: %g", i+1, us2[i]))
			}
			out[i].U = math.Abs(us2[i])
		}
	}
	return out, nil
}

func buildOptional(name string, vals, us []float64, n int, rc rangeCheck) ([]Value, error) {
	if len(vals) == 0 {
		if len(us) > 0 {
			return nil, invalidField(name+" uncertainty", "supplied without "+name)
		}
		return nil, nil
	}
	vals2, err := broadcast(name, vals, n)
	if err != nil {
		return nil, err
	}
	return buildField(name, vals2, us, n, rc)
}

// broadcast stretches a length-1 slice over n runs; any other length differing
// from n is a shape mismatch.
func broadcast(name string, vals []float64, n int) ([]float64, error) {
	switch len(vals) {
	case n:
		return vals, nil
	case 1:
		out := make([]float64, n)
		for i := range out {
			out[i] = vals[0]
		}
		return out, nil
	default:
		return nil, shapeMismatch(name, len(vals), n)
	}
}

// Runs returns the batch size.
func (mt *Measurement) Runs() int { return mt.n }

// HasUncertainty reports whether any field carries explicit uncertainties.
func (mt *Measurement) HasUncertainty() bool { return mt.hasUncertainty }

// CAEq returns the equilibrium solute concentration of one run. Reporting
// layers plot loadings against it.
func (mt *Measurement) CAEq(run int) Value { return mt.cAEq[run] }

// HasCalibration reports which of d_A, d_S, V_p were provided.
func (mt *Measurement) HasCalibration() (dA, dS, vP bool) {
	return mt.dA != nil, mt.dS != nil, mt.vP != nil
}
