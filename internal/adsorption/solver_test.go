package adsorption

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// validInput returns a single-run batch with all three calibration fields, so
// every closure is evaluable.
func validInput() Input {
	return Input{
		VIn:  []float64{0.25},
		DIn:  []float64{0.998},
		DEq:  []float64{0.985},
		M:    []float64{0.1},
		CAIn: []float64{0.05},
		CAEq: []float64{0.02},
		DA:   []float64{0.8},
		DS:   []float64{0.997},
		VP:   []float64{0.3},
	}
}

func mustMeasurement(t *testing.T, in Input) *Measurement {
	t.Helper()
	mt, err := NewMeasurement(in)
	if err != nil {
		t.Fatalf("NewMeasurement: %v", err)
	}
	return mt
}

func TestExcessKnownScenario(t *testing.T) {
	mt := mustMeasurement(t, Input{
		VIn:  []float64{0.1},
		DIn:  []float64{1.0},
		DEq:  []float64{0.99},
		M:    []float64{0.05},
		CAIn: []float64{0.02},
		CAEq: []float64{0.01},
	})
	r, err := Excess(mt)
	if err != nil {
		t.Fatalf("Excess: %v", err)
	}
	if got, want := r.QA[0].V, 0.02; !scalar.EqualWithinAbsOrRel(got, want, 1e-15, 1e-12) {
		t.Errorf("Q_A = %g, want %g", got, want)
	}
	if got := r.QS[0].V; !scalar.EqualWithinAbs(got, 0, 1e-15) {
		t.Errorf("Q_S = %g, want 0", got)
	}
	if got := r.VEq[0].V; got != 0.1 {
		t.Errorf("V_eq = %g, want V_in = 0.1", got)
	}
}

func TestNoSolventLoadingIsExactlyZero(t *testing.T) {
	mt := mustMeasurement(t, validInput())
	r, err := NoSolvent(mt)
	if err != nil {
		t.Fatalf("NoSolvent: %v", err)
	}
	if r.QS[0].V != 0 || r.QS[0].U != 0 {
		t.Errorf("Q_S = %+v, want exactly zero value and uncertainty", r.QS[0])
	}
}

// As d_A grows without bound the VC closure loses its volume correction and
// must reproduce the XS result.
func TestVolumeChangeDegeneratesToExcess(t *testing.T) {
	in := validInput()
	in.DA = []float64{1e9}
	mt := mustMeasurement(t, in)

	vc, err := VolumeChange(mt)
	if err != nil {
		t.Fatalf("VolumeChange: %v", err)
	}
	xs, err := Excess(mt)
	if err != nil {
		t.Fatalf("Excess: %v", err)
	}
	if !scalar.EqualWithinAbsOrRel(vc.QA[0].V, xs.QA[0].V, 1e-9, 1e-8) {
		t.Errorf("Q_A: VC %g vs XS %g", vc.QA[0].V, xs.QA[0].V)
	}
	if !scalar.EqualWithinAbsOrRel(vc.QS[0].V, xs.QS[0].V, 1e-9, 1e-8) {
		t.Errorf("Q_S: VC %g vs XS %g", vc.QS[0].V, xs.QS[0].V)
	}
	if !scalar.EqualWithinAbsOrRel(vc.VEq[0].V, xs.VEq[0].V, 1e-9, 1e-8) {
		t.Errorf("V_eq: VC %g vs XS %g", vc.VEq[0].V, xs.VEq[0].V)
	}
}

// With a huge d_A and V_p d_S chosen equal to the XS solvent loading, the PF
// closure also degenerates to no volume change.
func TestPoreFillingDegeneratesToExcess(t *testing.T) {
	in := Input{
		VIn:  []float64{0.1},
		DIn:  []float64{1.0},
		DEq:  []float64{0.98},
		M:    []float64{0.05},
		CAIn: []float64{0.02},
		CAEq: []float64{0.01},
	}
	xs, err := Excess(mustMeasurement(t, in))
	if err != nil {
		t.Fatalf("Excess: %v", err)
	}

	in.DA = []float64{1e9}
	in.DS = []float64{1.0}
	in.VP = []float64{xs.QS[0].V} // V_p d_S == Q_S(XS)
	pf, err := PoreFilling(mustMeasurement(t, in))
	if err != nil {
		t.Fatalf("PoreFilling: %v", err)
	}
	if !scalar.EqualWithinAbsOrRel(pf.QA[0].V, xs.QA[0].V, 1e-9, 1e-8) {
		t.Errorf("Q_A: PF %g vs XS %g", pf.QA[0].V, xs.QA[0].V)
	}
	if !scalar.EqualWithinAbsOrRel(pf.QS[0].V, xs.QS[0].V, 1e-9, 1e-8) {
		t.Errorf("Q_S: PF %g vs XS %g", pf.QS[0].V, xs.QS[0].V)
	}
	if !scalar.EqualWithinAbsOrRel(pf.VEq[0].V, xs.VEq[0].V, 1e-9, 1e-8) {
		t.Errorf("V_eq: PF %g vs XS %g", pf.VEq[0].V, xs.VEq[0].V)
	}
}

// Substituting each model's triple back into the two conservation laws must
// reproduce the measured inputs.
func TestMassBalanceRoundTrip(t *testing.T) {
	in := validInput()
	mt := mustMeasurement(t, in)
	for _, md := range AllModels {
		r, err := Solve(md, mt)
		if err != nil {
			t.Fatalf("Solve(%v): %v", md, err)
		}
		qa, qs, veq := r.QA[0].V, r.QS[0].V, r.VEq[0].V
		vIn, dIn, dEq := in.VIn[0], in.DIn[0], in.DEq[0]
		m, cAIn, cAEq := in.M[0], in.CAIn[0], in.CAEq[0]

		total := veq*dEq + m*(qa+qs)
		if !scalar.EqualWithinRel(total, vIn*dIn, 1e-9) {
			t.Errorf("%v: total mass balance %g, want %g", md, total, vIn*dIn)
		}
		solute := veq*cAEq + m*qa
		if !scalar.EqualWithinRel(solute, vIn*cAIn, 1e-9) {
			t.Errorf("%v: solute mass balance %g, want %g", md, solute, vIn*cAIn)
		}
	}
}

func TestMissingCalibrationNamesField(t *testing.T) {
	base := Input{
		VIn:  []float64{0.1},
		DIn:  []float64{1.0},
		DEq:  []float64{0.99},
		M:    []float64{0.05},
		CAIn: []float64{0.02},
		CAEq: []float64{0.01},
	}

	cases := []struct {
		name  string
		solve func(*Measurement) (*Result, error)
		in    Input
		field string
	}{
		{"VC without d_A", VolumeChange, base, FieldDA},
		{"PF without d_A", PoreFilling, base, FieldDA},
		{"PF without d_S", PoreFilling, func() Input {
			in := base
			in.DA = []float64{0.8}
			return in
		}(), FieldDS},
		{"PF without V_p", PoreFilling, func() Input {
			in := base
			in.DA = []float64{0.8}
			in.DS = []float64{0.997}
			return in
		}(), FieldVP},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.solve(mustMeasurement(t, tc.in))
			if !errors.Is(err, ErrMissingCalibration) {
				t.Fatalf("err = %v, want ErrMissingCalibration", err)
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("err %T does not carry a FieldError", err)
			}
			if fe.Field != tc.field {
				t.Errorf("missing field reported as %q, want %q", fe.Field, tc.field)
			}
		})
	}
}

func TestDivisionSingularity(t *testing.T) {
	t.Run("NS with CA_eq == d_eq", func(t *testing.T) {
		mt := mustMeasurement(t, Input{
			VIn:  []float64{0.1},
			DIn:  []float64{1.0},
			DEq:  []float64{0.5},
			M:    []float64{0.05},
			CAIn: []float64{0.6},
			CAEq: []float64{0.5},
		})
		_, err := NoSolvent(mt)
		if !errors.Is(err, ErrDivisionSingularity) {
			t.Fatalf("err = %v, want ErrDivisionSingularity", err)
		}
		var se *SingularityError
		if !errors.As(err, &se) {
			t.Fatalf("err %T does not carry a SingularityError", err)
		}
		if se.Model != ModelNS {
			t.Errorf("singular model = %v, want NS", se.Model)
		}
	})

	t.Run("VC with CA_eq == d_A", func(t *testing.T) {
		in := validInput()
		in.DA = []float64{in.CAEq[0]}
		_, err := VolumeChange(mustMeasurement(t, in))
		if !errors.Is(err, ErrDivisionSingularity) {
			t.Fatalf("err = %v, want ErrDivisionSingularity", err)
		}
	})

	t.Run("PF with CA_eq == 0", func(t *testing.T) {
		in := validInput()
		in.CAIn = []float64{0}
		in.CAEq = []float64{0}
		_, err := PoreFilling(mustMeasurement(t, in))
		if !errors.Is(err, ErrDivisionSingularity) {
			t.Fatalf("err = %v, want ErrDivisionSingularity", err)
		}
		var se *SingularityError
		if !errors.As(err, &se) {
			t.Fatalf("err %T does not carry a SingularityError", err)
		}
		if se.Model != ModelPF || se.Denominator != "CA_eq" {
			t.Errorf("singularity reported as model %v, denominator %q", se.Model, se.Denominator)
		}
	})

	t.Run("PF with zero composite denominator", func(t *testing.T) {
		// 1 + (d_S/d_A - 1) CA_eq/d_eq = 1 + (0.5 - 1)*2 = 0.
		in := Input{
			VIn:  []float64{0.1},
			DIn:  []float64{1.0},
			DEq:  []float64{1.0},
			M:    []float64{0.05},
			CAIn: []float64{2.5},
			CAEq: []float64{2.0},
			DA:   []float64{1.0},
			DS:   []float64{0.5},
			VP:   []float64{0.3},
		}
		_, err := PoreFilling(mustMeasurement(t, in))
		if !errors.Is(err, ErrDivisionSingularity) {
			t.Fatalf("err = %v, want ErrDivisionSingularity", err)
		}
		var se *SingularityError
		if !errors.As(err, &se) {
			t.Fatalf("err %T does not carry a SingularityError", err)
		}
		if se.Model != ModelPF || se.Denominator != "m/V_in (1 + (d_S/d_A - 1) CA_eq/d_eq)" {
			t.Errorf("singularity reported as model %v, denominator %q", se.Model, se.Denominator)
		}
	})
}

// Extreme but individually valid inputs can overflow the loading past any
// explicit denominator guard; the result must be an error, not Inf in a table.
func TestNonFiniteResultRejected(t *testing.T) {
	mt := mustMeasurement(t, Input{
		VIn:  []float64{1e308},
		DIn:  []float64{2.0},
		DEq:  []float64{1.0},
		M:    []float64{1e-300},
		CAIn: []float64{1.5},
		CAEq: []float64{0.5},
	})
	_, err := Excess(mt)
	if !errors.Is(err, ErrDivisionSingularity) {
		t.Fatalf("err = %v, want ErrDivisionSingularity", err)
	}
	var se *SingularityError
	if !errors.As(err, &se) {
		t.Fatalf("err %T does not carry a SingularityError", err)
	}
	if se.Model != ModelXS || se.Run != 1 {
		t.Errorf("overflow reported as model %v, run %d", se.Model, se.Run)
	}
}

// A three-run batch must yield length-3 triples that match the scalar
// formulas applied run by run.
func TestBatchMatchesScalarRuns(t *testing.T) {
	batch := Input{
		VIn:  []float64{0.1, 0.2, 0.15},
		DIn:  []float64{1.0, 0.998, 1.01},
		DEq:  []float64{0.99, 0.985, 1.0},
		M:    []float64{0.05, 0.1, 0.08},
		CAIn: []float64{0.02, 0.05, 0.04},
		CAEq: []float64{0.01, 0.02, 0.015},
		DA:   []float64{0.8}, // broadcast over the batch
		DS:   []float64{0.997},
		VP:   []float64{0.3},
	}
	mtBatch := mustMeasurement(t, batch)

	for _, md := range AllModels {
		got, err := Solve(md, mtBatch)
		if err != nil {
			t.Fatalf("Solve(%v) batch: %v", md, err)
		}
		if len(got.QA) != 3 || len(got.QS) != 3 || len(got.VEq) != 3 {
			t.Fatalf("%v: result lengths %d/%d/%d, want 3", md, len(got.QA), len(got.QS), len(got.VEq))
		}
		for i := 0; i < 3; i++ {
			single := Input{
				VIn:  batch.VIn[i : i+1],
				DIn:  batch.DIn[i : i+1],
				DEq:  batch.DEq[i : i+1],
				M:    batch.M[i : i+1],
				CAIn: batch.CAIn[i : i+1],
				CAEq: batch.CAEq[i : i+1],
				DA:   batch.DA,
				DS:   batch.DS,
				VP:   batch.VP,
			}
			want, err := Solve(md, mustMeasurement(t, single))
			if err != nil {
				t.Fatalf("Solve(%v) run %d: %v", md, i, err)
			}
			if got.QA[i] != want.QA[0] || got.QS[i] != want.QS[0] || got.VEq[i] != want.VEq[0] {
				t.Errorf("%v run %d: batch (%v, %v, %v) != scalar (%v, %v, %v)",
					md, i, got.QA[i], got.QS[i], got.VEq[i], want.QA[0], want.QS[0], want.VEq[0])
			}
		}
	}
}

func TestSolveAllCollectsFailures(t *testing.T) {
	// No calibration fields: XS and NS succeed, VC and PF fail.
	mt := mustMeasurement(t, Input{
		VIn:  []float64{0.1},
		DIn:  []float64{1.0},
		DEq:  []float64{0.99},
		M:    []float64{0.05},
		CAIn: []float64{0.02},
		CAEq: []float64{0.01},
	})
	ev := SolveAll(AllModels, mt)
	if len(ev.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(ev.Results))
	}
	if ev.Result(ModelXS) == nil || ev.Result(ModelNS) == nil {
		t.Error("expected XS and NS results")
	}
	if len(ev.Failures) != 2 {
		t.Fatalf("got %d failures, want 2", len(ev.Failures))
	}
	for _, f := range ev.Failures {
		if !errors.Is(f.Err, ErrMissingCalibration) {
			t.Errorf("%v failure = %v, want ErrMissingCalibration", f.Model, f.Err)
		}
	}
}

func TestResultsCarryUncertainty(t *testing.T) {
	in := validInput()
	in.UCAEq = []float64{0.001}
	mt := mustMeasurement(t, in)
	if !mt.HasUncertainty() {
		t.Fatal("HasUncertainty = false, want true")
	}
	r, err := Excess(mt)
	if err != nil {
		t.Fatalf("Excess: %v", err)
	}
	// Q_A = V_in (CA_in - CA_eq)/m: u(Q_A) = V_in u(CA_eq)/m.
	want := in.VIn[0] * in.UCAEq[0] / in.M[0]
	if !scalar.EqualWithinAbsOrRel(r.QA[0].U, want, 1e-15, 1e-12) {
		t.Errorf("u(Q_A) = %g, want %g", r.QA[0].U, want)
	}
}
