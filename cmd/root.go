package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/smartetl-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string

	// Loaded configuration, passed explicitly to components.
	cfg *cfgpkg.Config
)

var rootCmd = &cobra.Command{
	Use:   "smartetl",
	Short: "SmartETL CLI: profile, clean, and feature-engineer tabular datasets",
	Long:  `SmartETL is a CLI toolkit that profiles CSV datasets (type inference, missingness, quality scoring), applies heuristic cleaning, derives engineered features, and records the operations as a replayable pipeline.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.smartetl/config.yaml)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = cfgpkg.Default()
		return
	}
	cfg = c
}
