package parser

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/user/adsorption_analyzer_go/internal/adsorption"
)

// headerRe matches cells like "CA_eq", "CA_eq [g/mL]" or "u(CA_eq) [g/mL]".
var headerRe = regexp.MustCompile(`^(?:u\(\s*([A-Za-z_]+)\s*\)|([A-Za-z_]+))\s*(?:\[([^\]]*)\])?$`)

// ParseHeaderCell splits one header cell into the canonical field name it
// refers to, whether it is an uncertainty column, and its unit label.
func ParseHeaderCell(cell string) (field string, uncertainty bool, unit string, err error) {
	m := headerRe.FindStringSubmatch(strings.TrimSpace(cell))
	if m == nil {
		return "", false, "", fmt.Errorf("unrecognized header cell %q", cell)
	}
	name := m[2]
	if m[1] != "" {
		name = m[1]
		uncertainty = true
	}
	field, ok := columnRoles[strings.ToLower(name)]
	if !ok {
		return "", false, "", fmt.Errorf("unknown field name %q in header cell %q", name, cell)
	}
	return field, uncertainty, strings.TrimSpace(m[3]), nil
}

type column struct {
	field       string
	uncertainty bool
	vals        []float64
	blanks      int
	diagnostics []string
}

// ParseExperimentData reads a CSV with one header row (field names with
// optional bracketed units) and one data row per experimental run, and
// assembles the raw adsorption input. Cell-level problems are recorded as
// non-fatal diagnostics and the affected value becomes NaN; measurement
// construction rejects NaN rows later.
func ParseExperimentData(filepath string) (*ParsedExperiment, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}

	parsed := NewParsedExperiment()

	var header []string
	var dataRows [][]string
	for _, row := range allRows {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue // skip empty rows
		}
		if header == nil {
			header = row
			continue
		}
		dataRows = append(dataRows, row)
	}
	if header == nil {
		return nil, fmt.Errorf("no header row found in %s", filepath)
	}
	if len(dataRows) == 0 {
		return nil, fmt.Errorf("no data rows found in %s", filepath)
	}
	parsed.Runs = len(dataRows)

	columns := make(map[int]*column)
	for idx, cell := range header {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		field, uncert, unit, err := ParseHeaderCell(cell)
		if err != nil {
			parsed.ParseErrors = append(parsed.ParseErrors,
				fmt.Sprintf("Warning: column %d skipped: %v", idx+1, err))
			continue
		}
		if !uncert {
			switch field {
			case adsorption.FieldVIn:
				parsed.Input.VolumeUnits = unit
			case adsorption.FieldDIn:
				parsed.Input.DensityUnits = unit
			case adsorption.FieldM:
				parsed.Input.MassUnits = unit
			case adsorption.FieldCAIn:
				parsed.Input.ConcentrationUnits = unit
			}
		}
		columns[idx] = &column{field: field, uncertainty: uncert}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no recognized columns in header of %s", filepath)
	}

	for rowIdx, row := range dataRows {
		for colIdx, col := range columns {
			cell := ""
			if colIdx < len(row) {
				cell = strings.TrimSpace(row[colIdx])
			}
			if cell == "" {
				col.vals = append(col.vals, math.NaN())
				col.blanks++
				continue
			}
			val, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				col.diagnostics = append(col.diagnostics,
					fmt.Sprintf("Error converting value %q for %s, run %d. Using NaN. Error: %v",
						cell, col.field, rowIdx+1, err))
				val = math.NaN()
			}
			col.vals = append(col.vals, val)
		}
	}

	for _, col := range columns {
		parsed.ParseErrors = append(parsed.ParseErrors, col.diagnostics...)

		// A fully blank calibration column means the field was not
		// provided; a fully blank uncertainty column (for any field)
		// means uncertainty was not provided.
		if col.blanks == parsed.Runs && (calibrationFields[col.field] || col.uncertainty) {
			continue
		}
		if col.blanks > 0 {
			parsed.ParseErrors = append(parsed.ParseErrors,
				fmt.Sprintf("Warning: %d blank cell(s) in column %s set to NaN.", col.blanks, col.field))
		}
		parsed.assign(col)
	}

	return parsed, nil
}

func (p *ParsedExperiment) assign(col *column) {
	in := &p.Input
	targets := map[string]struct{ val, unc *[]float64 }{
		adsorption.FieldVIn:  {&in.VIn, &in.UVIn},
		adsorption.FieldDIn:  {&in.DIn, &in.UDIn},
		adsorption.FieldDEq:  {&in.DEq, &in.UDEq},
		adsorption.FieldM:    {&in.M, &in.UM},
		adsorption.FieldCAIn: {&in.CAIn, &in.UCAIn},
		adsorption.FieldCAEq: {&in.CAEq, &in.UCAEq},
		adsorption.FieldDA:   {&in.DA, &in.UDA},
		adsorption.FieldDS:   {&in.DS, &in.UDS},
		adsorption.FieldVP:   {&in.VP, &in.UVP},
	}
	t, ok := targets[col.field]
	if !ok {
		return
	}
	if col.uncertainty {
		*t.unc = col.vals
	} else {
		*t.val = col.vals
	}
}
