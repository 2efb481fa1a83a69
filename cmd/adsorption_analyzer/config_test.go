package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/user/adsorption_analyzer_go/internal/adsorption"
)

func TestLoadConfig(t *testing.T) {
	content := `
models = ["XS", "VC"]

[calibration]
d_A = 0.8
u_d_A = 0.01
V_p = 0.3

[units]
volume = "mL"
concentration = "g/mL"
`
	path := filepath.Join(t.TempDir(), "run.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	models, err := cfg.models()
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if len(models) != 2 || models[0] != adsorption.ModelXS || models[1] != adsorption.ModelVC {
		t.Errorf("models = %v", models)
	}
	if cfg.Calibration.DA == nil || *cfg.Calibration.DA != 0.8 {
		t.Errorf("d_A = %v", cfg.Calibration.DA)
	}
	if cfg.Calibration.DS != nil {
		t.Errorf("d_S should be absent, got %v", *cfg.Calibration.DS)
	}
}

func TestConfigMergePrecedence(t *testing.T) {
	dA, uDA, dS := 0.8, 0.01, 0.997
	cfg := &Config{
		Calibration: CalibrationConfig{DA: &dA, UDA: &uDA, DS: &dS},
		Units:       UnitsConfig{Volume: "L", Mass: "kg"},
	}
	in := adsorption.Input{
		VIn:         []float64{0.1, 0.2},
		DA:          []float64{0.75, 0.75}, // CSV value wins
		VolumeUnits: "mL",                  // CSV label wins
	}
	cfg.merge(&in)

	if in.DA[0] != 0.75 {
		t.Errorf("CSV d_A overridden by config: %v", in.DA)
	}
	// Config uncertainty is not attached to a CSV-provided field.
	if in.UDA != nil {
		t.Errorf("u(d_A) = %v, want nil: config uncertainty must not attach to CSV values", in.UDA)
	}
	if in.DS == nil || len(in.DS) != 1 || in.DS[0] != 0.997 {
		t.Errorf("d_S = %v, want config value broadcast", in.DS)
	}
	if in.VolumeUnits != "mL" {
		t.Errorf("volume units = %q, want CSV label", in.VolumeUnits)
	}
	if in.MassUnits != "kg" {
		t.Errorf("mass units = %q, want config label", in.MassUnits)
	}
}

func TestNilConfigDefaults(t *testing.T) {
	var cfg *Config
	models, err := cfg.models()
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if len(models) != len(adsorption.AllModels) {
		t.Errorf("models = %v, want all four", models)
	}
	in := adsorption.Input{VIn: []float64{0.1}}
	cfg.merge(&in) // must not panic
	if in.DA != nil {
		t.Errorf("d_A = %v, want nil", in.DA)
	}
}
