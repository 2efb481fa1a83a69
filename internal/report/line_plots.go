package report

import (
	"bytes"
	"fmt"
	"image/color"
	"sort"

	"github.com/user/adsorption_analyzer_go/internal/adsorption"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Quantity selects which component of a result triple is plotted or tabulated.
type Quantity string

const (
	QuantitySoluteLoading  Quantity = "Q_A"
	QuantitySolventLoading Quantity = "Q_S"
	QuantityEqVolume       Quantity = "V_eq"
)

func (q Quantity) pick(r *adsorption.Result, run int) adsorption.Value {
	switch q {
	case QuantitySolventLoading:
		return r.QS[run]
	case QuantityEqVolume:
		return r.VEq[run]
	default:
		return r.QA[run]
	}
}

func (q Quantity) axisLabel(mt *adsorption.Measurement) string {
	switch q {
	case QuantitySolventLoading:
		return withUnit("Solvent loading Q_S", loadingUnit(mt))
	case QuantityEqVolume:
		return withUnit("Equilibrium volume V_eq", mt.VolumeUnits)
	default:
		return withUnit("Solute loading Q_A", loadingUnit(mt))
	}
}

func loadingUnit(mt *adsorption.Measurement) string {
	if mt.ConcentrationUnits == "" || mt.VolumeUnits == "" || mt.MassUnits == "" {
		return ""
	}
	return fmt.Sprintf("%s·%s/%s", mt.ConcentrationUnits, mt.VolumeUnits, mt.MassUnits)
}

func withUnit(label, unit string) string {
	if unit == "" {
		return label
	}
	return fmt.Sprintf("%s [%s]", label, unit)
}

var plotColors = []color.Color{
	color.RGBA{R: 255, A: 255},                  // Red
	color.RGBA{G: 150, A: 255},                  // Green
	color.RGBA{B: 255, A: 255},                  // Blue
	color.RGBA{R: 255, G: 165, A: 255},          // Orange
	color.RGBA{R: 128, B: 128, A: 255},          // Purple
	color.RGBA{G: 128, B: 128, A: 255},          // Teal
}

// errPoints backs a gonum/plot error-bar plotter.
type errPoints struct {
	plotter.XYs
	plotter.YErrors
}

// CreateLoadingPlot draws the chosen quantity against the equilibrium solute
// concentration, one line per successfully evaluated closure, and returns the
// plot as PNG bytes. Uncertainty bars are added when the measurement carries
// explicit uncertainties.
func CreateLoadingPlot(ev *adsorption.Evaluation, mt *adsorption.Measurement, q Quantity) ([]byte, error) {
	if ev == nil || len(ev.Results) == 0 {
		return nil, fmt.Errorf("no model results to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s by closure model", q)
	p.X.Label.Text = withUnit("Equilibrium concentration CA_eq", mt.ConcentrationUnits)
	p.Y.Label.Text = q.axisLabel(mt)
	p.Add(plotter.NewGrid())

	for mi, r := range ev.Results {
		order := make([]int, mt.Runs())
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			return mt.CAEq(order[a]).V < mt.CAEq(order[b]).V
		})

		pts := make(plotter.XYs, mt.Runs())
		errs := make(plotter.YErrors, mt.Runs())
		for i, run := range order {
			v := q.pick(r, run)
			pts[i] = plotter.XY{X: mt.CAEq(run).V, Y: v.V}
			errs[i].Low = v.U
			errs[i].High = v.U
		}

		line, scatter, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to create line for %s: %v", r.Model, err)
		}
		c := plotColors[mi%len(plotColors)]
		line.Color = c
		line.LineStyle.Width = vg.Points(1.5)
		scatter.Color = c
		p.Add(line, scatter)
		p.Legend.Add(fmt.Sprintf("%s (%s)", r.Model, r.Model.Description()), line, scatter)

		if mt.HasUncertainty() {
			bars, err := plotter.NewYErrorBars(errPoints{XYs: pts, YErrors: errs})
			if err != nil {
				return nil, fmt.Errorf("failed to create error bars for %s: %v", r.Model, err)
			}
			bars.Color = c
			p.Add(bars)
		}
	}

	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)

	writer, err := p.WriterTo(vg.Points(800), vg.Points(400), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %v", err)
	}
	return buf.Bytes(), nil
}
