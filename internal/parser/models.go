package parser

import (
	"github.com/user/adsorption_analyzer_go/internal/adsorption"
)

// ParsedExperiment is the outcome of reading one experiment CSV: the raw field
// columns ready for adsorption.NewMeasurement, plus any non-fatal diagnostics
// collected along the way.
type ParsedExperiment struct {
	Input       adsorption.Input
	Runs        int
	ParseErrors []string // non-fatal row/cell diagnostics
}

func NewParsedExperiment() *ParsedExperiment {
	return &ParsedExperiment{
		ParseErrors: make([]string, 0),
	}
}

// columnRoles maps recognised (lower-cased) header names to canonical field
// names. Uncertainty columns are written u(name) in the header.
var columnRoles = map[string]string{
	"v_in":  adsorption.FieldVIn,
	"d_in":  adsorption.FieldDIn,
	"d_eq":  adsorption.FieldDEq,
	"m":     adsorption.FieldM,
	"ca_in": adsorption.FieldCAIn,
	"ca_eq": adsorption.FieldCAEq,
	"d_a":   adsorption.FieldDA,
	"d_s":   adsorption.FieldDS,
	"v_p":   adsorption.FieldVP,
}

// calibrationFields are optional; a fully blank column means "not provided".
var calibrationFields = map[string]bool{
	adsorption.FieldDA: true,
	adsorption.FieldDS: true,
	adsorption.FieldVP: true,
}
