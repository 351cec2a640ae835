package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/smartetl-cli/internal/dataset"
	"github.com/KaramelBytes/smartetl-cli/internal/feature"
	"github.com/spf13/cobra"
)

var (
	featTarget     string
	featOutputPath string
)

var featuresCmd = &cobra.Command{
	Use:   "features <file>",
	Short: "Derive engineered features from a cleaned CSV dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		t, err := dataset.LoadCSV(path)
		if err != nil {
			return err
		}
		if ok, reason := t.Validate(1, nil); !ok {
			return fmt.Errorf("invalid dataset: %s", reason)
		}
		if featTarget != "" && !t.HasColumn(featTarget) {
			return fmt.Errorf("target column %q not found", featTarget)
		}

		eng := feature.New(cfg)
		engineered := eng.CreateFeatures(t, featTarget)

		out := featOutputPath
		if out == "" {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			out = base + "_features.csv"
		}
		if err := engineered.SaveCSV(out); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote engineered dataset to %s\n", out)
		fmt.Println(eng.Summary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(featuresCmd)
	featuresCmd.Flags().StringVarP(&featTarget, "target", "t", "", "target column for supervised feature selection")
	featuresCmd.Flags().StringVarP(&featOutputPath, "output", "o", "", "path for the engineered CSV (default <name>_features.csv)")
}
