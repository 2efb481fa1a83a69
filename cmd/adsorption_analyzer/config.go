package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/user/adsorption_analyzer_go/internal/adsorption"
)

// Config is the optional TOML run configuration. It supplies whatever the
// experiment CSV does not carry: calibration constants (with uncertainties)
// and unit labels. Values present in the CSV always win.
type Config struct {
	Models      []string          `toml:"models"`
	Calibration CalibrationConfig `toml:"calibration"`
	Units       UnitsConfig       `toml:"units"`
}

type CalibrationConfig struct {
	DA  *float64 `toml:"d_A"`
	DS  *float64 `toml:"d_S"`
	VP  *float64 `toml:"V_p"`
	UDA *float64 `toml:"u_d_A"`
	UDS *float64 `toml:"u_d_S"`
	UVP *float64 `toml:"u_V_p"`
}

type UnitsConfig struct {
	Volume        string `toml:"volume"`
	Concentration string `toml:"concentration"`
	Mass          string `toml:"mass"`
	Density       string `toml:"density"`
}

func loadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if _, err := toml.DecodeFile(file, cfg); err != nil {
		return nil, fmt.Errorf("problem reading configuration file: %w", err)
	}
	return cfg, nil
}

// models resolves the configured model tags, defaulting to all four closures.
func (cfg *Config) models() ([]adsorption.Model, error) {
	if cfg == nil || len(cfg.Models) == 0 {
		return adsorption.AllModels, nil
	}
	return parseModels(cfg.Models)
}

func parseModels(tags []string) ([]adsorption.Model, error) {
	models := make([]adsorption.Model, 0, len(tags))
	for _, tag := range tags {
		md, err := adsorption.ParseModel(tag)
		if err != nil {
			return nil, err
		}
		models = append(models, md)
	}
	return models, nil
}

// merge fills CSV gaps in the parsed input from the configuration.
func (cfg *Config) merge(in *adsorption.Input) {
	if cfg == nil {
		return
	}
	// An uncertainty from the config belongs to the config value; it never
	// attaches to a CSV-provided column.
	fill := func(dst, dstU *[]float64, v, u *float64) {
		if *dst != nil || v == nil {
			return
		}
		*dst = []float64{*v} // length 1 broadcasts over the batch
		if u != nil {
			*dstU = []float64{*u}
		}
	}
	fill(&in.DA, &in.UDA, cfg.Calibration.DA, cfg.Calibration.UDA)
	fill(&in.DS, &in.UDS, cfg.Calibration.DS, cfg.Calibration.UDS)
	fill(&in.VP, &in.UVP, cfg.Calibration.VP, cfg.Calibration.UVP)

	if in.VolumeUnits == "" {
		in.VolumeUnits = cfg.Units.Volume
	}
	if in.ConcentrationUnits == "" {
		in.ConcentrationUnits = cfg.Units.Concentration
	}
	if in.MassUnits == "" {
		in.MassUnits = cfg.Units.Mass
	}
	if in.DensityUnits == "" {
		in.DensityUnits = cfg.Units.Density
	}
}
