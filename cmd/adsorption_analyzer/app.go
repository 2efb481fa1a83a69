package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/user/adsorption_analyzer_go/internal/adsorption"
	"github.com/user/adsorption_analyzer_go/internal/parser"
	"github.com/user/adsorption_analyzer_go/internal/report"
)

// App runs the full pipeline: parse CSV, merge configuration, construct the
// measurement, evaluate the requested closures, render plots, build the PDF.
type App struct {
	log *logrus.Logger
}

func NewApp(log *logrus.Logger) *App {
	return &App{log: log}
}

func (a *App) GenerateReport(csvPath, pdfPath string, models []adsorption.Model, cfg *Config) error {
	a.log.WithField("file", csvPath).Info("parsing experiment data")
	parsed, err := parser.ParseExperimentData(csvPath)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", csvPath, err)
	}
	a.log.WithField("runs", parsed.Runs).Info("parsed experiment data")
	for _, msg := range parsed.ParseErrors {
		a.log.Warn(msg)
	}

	cfg.merge(&parsed.Input)

	mt, err := adsorption.NewMeasurement(parsed.Input)
	if err != nil {
		return fmt.Errorf("invalid measurement data: %w", err)
	}

	ev := adsorption.SolveAll(models, mt)
	for _, f := range ev.Failures {
		a.log.WithField("model", f.Model.String()).Warnf("closure not applicable: %v", f.Err)
	}
	if len(ev.Results) == 0 {
		return fmt.Errorf("no closure could be evaluated against %s", csvPath)
	}
	for _, r := range ev.Results {
		a.log.WithFields(logrus.Fields{
			"model": r.Model.String(),
			"runs":  len(r.QA),
		}).Info("closure evaluated")
	}

	plotImages := make(map[string][]byte)
	plots := []struct {
		key      string
		quantity report.Quantity
		heatmap  bool
	}{
		{"loading_qa", report.QuantitySoluteLoading, false},
		{"loading_qs", report.QuantitySolventLoading, false},
		{"volume_veq", report.QuantityEqVolume, false},
		{"heatmap_qa", report.QuantitySoluteLoading, true},
	}
	for _, pc := range plots {
		var img []byte
		var errPlt error
		if pc.heatmap {
			img, errPlt = report.CreateModelHeatmap(ev, mt, pc.quantity)
		} else {
			img, errPlt = report.CreateLoadingPlot(ev, mt, pc.quantity)
		}
		if errPlt != nil {
			a.log.WithField("plot", pc.key).Warnf("plot skipped: %v", errPlt)
			continue
		}
		plotImages[pc.key] = img
	}

	a.log.WithField("file", pdfPath).Info("writing report")
	if err := report.BuildPDFReport(pdfPath, mt, ev, parsed.ParseErrors, plotImages); err != nil {
		return fmt.Errorf("building PDF report: %w", err)
	}
	a.log.Info("report complete")
	return nil
}
