package adsorption

import (
	"fmt"
	"strings"
)

// Model names one of the four closure assumptions used to resolve the
// underdetermined mass-balance system of a batch adsorption experiment.
type Model int

const (
	// ModelXS assumes the equilibrium solution volume equals the initial volume.
	ModelXS Model = iota
	// ModelNS assumes the solvent does not adsorb.
	ModelNS
	// ModelVC assumes the volume shrinks by the adsorbed solute volume.
	ModelVC
	// ModelPF assumes the adsorbed phase fills a fixed pore volume.
	ModelPF
)

// AllModels lists the four closures in their conventional order.
var AllModels = []Model{ModelXS, ModelNS, ModelVC, ModelPF}

func (md Model) String() string {
	switch md {
	case ModelXS:
		return "XS"
	case ModelNS:
		return "NS"
	case ModelVC:
		return "VC"
	case ModelPF:
		return "PF"
	}
	return fmt.Sprintf("Model(%d)", int(md))
}

// Description returns the closure's long name for report headings.
func (md Model) Description() string {
	switch md {
	case ModelXS:
		return "Excess adsorption"
	case ModelNS:
		return "No solvent adsorbs"
	case ModelVC:
		return "Volume change by solute adsorption"
	case ModelPF:
		return "Pore filling adsorption"
	}
	return "unknown model"
}

// ParseModel resolves a model tag such as "XS" or "pf".
func ParseModel(s string) (Model, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "XS":
		return ModelXS, nil
	case "NS":
		return ModelNS, nil
	case "VC":
		return ModelVC, nil
	case "PF":
		return ModelPF, nil
	}
	return 0, fmt.Errorf("unknown model %q (want XS, NS, VC or PF)", s)
}

// Result holds the adsorbed-phase quantities of one closure evaluated over a
// whole batch: solute loading QA, solvent loading QS and equilibrium liquid
// volume VEq, aligned positionally with the measurement's runs.
type Result struct {
	Model Model
	QA    []Value
	QS    []Value
	VEq   []Value
}

// Solve evaluates one closure against mt.
func Solve(md Model, mt *Measurement) (*Result, error) {
	switch md {
	case ModelXS:
		return Excess(mt)
	case ModelNS:
		return NoSolvent(mt)
	case ModelVC:
		return VolumeChange(mt)
	case ModelPF:
		return PoreFilling(mt)
	}
	return nil, fmt.Errorf("unknown model %v", md)
}

// Excess evaluates the XS closure, V_eq = V_in:
//
//	Q_A = V_in (CA_in - CA_eq) / m
//	Q_S = V_in ((d_in - d_eq) - (CA_in - CA_eq)) / m
func Excess(mt *Measurement) (*Result, error) {
	r := newResult(ModelXS, mt.n)
	for i := 0; i < mt.n; i++ {
		vIn, dIn, dEq := mt.vIn[i], mt.dIn[i], mt.dEq[i]
		m, cAIn, cAEq := mt.m[i], mt.cAIn[i], mt.cAEq[i]

		dC := cAIn.Sub(cAEq)
		r.QA[i] = vIn.Mul(dC).Div(m)
		r.QS[i] = vIn.Mul(dIn.Sub(dEq).Sub(dC)).Div(m)
		r.VEq[i] = vIn
		if err := checkFinite(ModelXS, i+1, r.QA[i], r.QS[i], r.VEq[i]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NoSolvent evaluates the NS closure, Q_S = 0:
//
//	Q_A = V_in (d_in - (CA_in/CA_eq) d_eq) / (1 - d_eq/CA_eq) / m
//	V_eq = (V_in CA_in - m Q_A) / CA_eq
//
// Q_S is exactly zero, with zero uncertainty.
func NoSolvent(mt *Measurement) (*Result, error) {
	r := newResult(ModelNS, mt.n)
	one := Exact(1)
	for i := 0; i < mt.n; i++ {
		vIn, dIn, dEq := mt.vIn[i], mt.dIn[i], mt.dEq[i]
		m, cAIn, cAEq := mt.m[i], mt.cAIn[i], mt.cAEq[i]

		if cAEq.V == 0 {
			return nil, &SingularityError{Model: ModelNS, Denominator: "CA_eq", Run: i + 1}
		}
		den := one.Sub(dEq.Div(cAEq))
		if den.V == 0 {
			return nil, &SingularityError{Model: ModelNS, Denominator: "1 - d_eq/CA_eq", Run: i + 1}
		}
		qa := vIn.Mul(dIn.Sub(cAIn.Div(cAEq).Mul(dEq))).Div(den).Div(m)
		r.QA[i] = qa
		r.QS[i] = Exact(0)
		r.VEq[i] = vIn.Mul(cAIn).Sub(m.Mul(qa)).Div(cAEq)
		if err := checkFinite(ModelNS, i+1, r.QA[i], r.VEq[i]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// VolumeChange evaluates the VC closure, V_eq = V_in - m Q_A/d_A:
//
//	Q_A = V_in (CA_in - CA_eq) / (m (1 - CA_eq/d_A))
//	Q_S = (V_in d_in - V_eq d_eq - m Q_A) / m
//
// Requires the d_A calibration field.
func VolumeChange(mt *Measurement) (*Result, error) {
	if mt.dA == nil {
		return nil, missingCalibration(ModelVC, FieldDA)
	}
	r := newResult(ModelVC, mt.n)
	one := Exact(1)
	for i := 0; i < mt.n; i++ {
		vIn, dIn, dEq := mt.vIn[i], mt.dIn[i], mt.dEq[i]
		m, cAIn, cAEq := mt.m[i], mt.cAIn[i], mt.cAEq[i]
		dA := mt.dA[i]

		den := one.Sub(cAEq.Div(dA))
		if den.V == 0 {
			return nil, &SingularityError{Model: ModelVC, Denominator: "1 - CA_eq/d_A", Run: i + 1}
		}
		qa := vIn.Mul(cAIn.Sub(cAEq)).Div(m.Mul(den))
		veq := vIn.Sub(m.Mul(qa).Div(dA))
		r.QA[i] = qa
		r.QS[i] = vIn.Mul(dIn).Sub(veq.Mul(dEq)).Sub(m.Mul(qa)).Div(m)
		r.VEq[i] = veq
		if err := checkFinite(ModelVC, i+1, r.QA[i], r.QS[i], r.VEq[i]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// PoreFilling evaluates the PF closure, V_p = Q_A/d_A + Q_S/d_S:
//
//	Q_A = (CA_in - (d_in/d_eq - V_p d_S m/(V_in d_eq)) CA_eq)
//	      / (m/V_in (1 + (d_S/d_A - 1) CA_eq/d_eq))
//	Q_S = (V_p - Q_A/d_A) d_S
//	V_eq = (V_in CA_in - m Q_A) / CA_eq
//
// Requires the d_A, d_S and V_p calibration fields.
func PoreFilling(mt *Measurement) (*Result, error) {
	if mt.dA == nil {
		return nil, missingCalibration(ModelPF, FieldDA)
	}
	if mt.dS == nil {
		return nil, missingCalibration(ModelPF, FieldDS)
	}
	if mt.vP == nil {
		return nil, missingCalibration(ModelPF, FieldVP)
	}
	r := newResult(ModelPF, mt.n)
	one := Exact(1)
	for i := 0; i < mt.n; i++ {
		vIn, dIn, dEq := mt.vIn[i], mt.dIn[i], mt.dEq[i]
		m, cAIn, cAEq := mt.m[i], mt.cAIn[i], mt.cAEq[i]
		dA, dS, vP := mt.dA[i], mt.dS[i], mt.vP[i]

		if dEq.V == 0 {
			return nil, &SingularityError{Model: ModelPF, Denominator: "d_eq", Run: i + 1}
		}
		if cAEq.V == 0 {
			return nil, &SingularityError{Model: ModelPF, Denominator: "CA_eq", Run: i + 1}
		}
		den := m.Div(vIn).Mul(one.Add(dS.Div(dA).Sub(one).Mul(cAEq.Div(dEq))))
		if den.V == 0 {
			return nil, &SingularityError{Model: ModelPF, Denominator: "m/V_in (1 + (d_S/d_A - 1) CA_eq/d_eq)", Run: i + 1}
		}
		num := cAIn.Sub(dIn.Div(dEq).Sub(vP.Mul(dS).Mul(m).Div(vIn.Mul(dEq))).Mul(cAEq))
		qa := num.Div(den)
		r.QA[i] = qa
		r.QS[i] = vP.Sub(qa.Div(dA)).Mul(dS)
		r.VEq[i] = vIn.Mul(cAIn).Sub(m.Mul(qa)).Div(cAEq)
		if err := checkFinite(ModelPF, i+1, r.QA[i], r.QS[i], r.VEq[i]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// checkFinite rejects runs whose results overflowed past the explicit
// denominator guards: a non-finite value means the inputs sit numerically on
// top of a singularity of the closure.
func checkFinite(md Model, run int, vals ...Value) error {
	for _, v := range vals {
		if !v.IsFinite() {
			return &SingularityError{Model: md, Denominator: "vanishing (result not finite)", Run: run}
		}
	}
	return nil
}

func newResult(md Model, n int) *Result {
	return &Result{
		Model: md,
		QA:    make([]Value, n),
		QS:    make([]Value, n),
		VEq:   make([]Value, n),
	}
}

// ModelFailure records why one closure could not be evaluated.
type ModelFailure struct {
	Model Model
	Err   error
}

// Evaluation collects the outcome of running several closures against one
// measurement. A failing closure never aborts the others.
type Evaluation struct {
	Results  []*Result
	Failures []ModelFailure
}

// Result returns the result for md, or nil if it failed or was not requested.
func (ev *Evaluation) Result(md Model) *Result {
	for _, r := range ev.Results {
		if r.Model == md {
			return r
		}
	}
	return nil
}

// SolveAll evaluates each requested closure independently against mt,
// collecting failures instead of stopping at the first one.
func SolveAll(models []Model, mt *Measurement) *Evaluation {
	ev := &Evaluation{}
	for _, md := range models {
		r, err := Solve(md, mt)
		if err != nil {
			ev.Failures = append(ev.Failures, ModelFailure{Model: md, Err: err})
			continue
		}
		ev.Results = append(ev.Results, r)
	}
	return ev
}
