package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/user/adsorption_analyzer_go/internal/adsorption"
)

func main() {
	var (
		inputPath  string
		outputPath string
		configPath string
		modelTags  []string
		verbose    bool
	)

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cmd := &cobra.Command{
		Use:   "adsorption_analyzer",
		Short: "Compute adsorbed-phase quantities from batch liquid-phase adsorption runs",
		Long: `adsorption_analyzer reads a CSV of batch adsorption runs, resolves the
underdetermined mass-balance system with the XS, NS, VC and PF closure
assumptions, and writes a PDF report with per-model loadings, equilibrium
volumes and plots.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}

			var cfg *Config
			if configPath != "" {
				var err error
				if cfg, err = loadConfig(configPath); err != nil {
					return err
				}
			}

			var models []adsorption.Model
			var err error
			if len(modelTags) > 0 {
				models, err = parseModels(modelTags)
			} else {
				models, err = cfg.models()
			}
			if err != nil {
				return err
			}

			return NewApp(log).GenerateReport(inputPath, outputPath, models, cfg)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "experiment CSV file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "report.pdf", "PDF report file to write")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML run configuration")
	cmd.Flags().StringSliceVarP(&modelTags, "models", "m", nil, "closures to evaluate (XS,NS,VC,PF; default all)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	if err := cmd.MarkFlagRequired("input"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
