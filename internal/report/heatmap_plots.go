package report

import (
	"bytes"
	"fmt"

	"github.com/user/adsorption_analyzer_go/internal/adsorption"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// modelRunGrid adapts an evaluation to plotter.GridXYZ: columns are runs,
// rows are models.
type modelRunGrid struct {
	results []*adsorption.Result
	runs    int
	q       Quantity
}

func (g *modelRunGrid) Dims() (c, r int)   { return g.runs, len(g.results) }
func (g *modelRunGrid) X(c int) float64    { return float64(c + 1) }
func (g *modelRunGrid) Y(r int) float64    { return float64(r) }
func (g *modelRunGrid) Z(c, r int) float64 { return g.q.pick(g.results[r], c).V }

// CreateModelHeatmap draws a model-by-run grid of the chosen quantity so
// disagreement between closures is visible at a glance. Returns PNG bytes.
func CreateModelHeatmap(ev *adsorption.Evaluation, mt *adsorption.Measurement, q Quantity) ([]byte, error) {
	if ev == nil || len(ev.Results) == 0 {
		return nil, fmt.Errorf("no model results to plot heatmap")
	}

	grid := &modelRunGrid{results: ev.Results, runs: mt.Runs(), q: q}
	hm := plotter.NewHeatMap(grid, palette.Heat(12, 1))

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s across closure models", q)
	p.X.Label.Text = "Run"
	p.Y.Label.Text = "Closure model"

	yTicks := make([]plot.Tick, len(ev.Results))
	for i, r := range ev.Results {
		yTicks[i] = plot.Tick{Value: float64(i), Label: r.Model.String()}
	}
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)

	xTicks := make([]plot.Tick, mt.Runs())
	for i := 0; i < mt.Runs(); i++ {
		xTicks[i] = plot.Tick{Value: float64(i + 1), Label: fmt.Sprintf("%d", i+1)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)

	p.Add(hm)

	writer, err := p.WriterTo(vg.Points(700), vg.Points(300), "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create heatmap writer: %v", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write heatmap to buffer: %v", err)
	}
	return buf.Bytes(), nil
}
