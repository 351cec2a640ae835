package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/smartetl-cli/internal/clean"
	"github.com/KaramelBytes/smartetl-cli/internal/dataset"
	"github.com/KaramelBytes/smartetl-cli/internal/profile"
	"github.com/spf13/cobra"
)

var cleanOutputPath string

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Profile and clean a CSV dataset",
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

		profiler := profile.New()
		prof := profiler.Analyze(t)

		cleaner := clean.New(cfg)
		cleaned := cleaner.Clean(t, prof)

		out := cleanOutputPath
		if out == "" {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			out = base + "_cleaned.csv"
		}
		if err := cleaned.SaveCSV(out); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote cleaned dataset to %s\n", out)
		if len(cleaner.DroppedColumns) > 0 {
			fmt.Printf("  Dropped columns: %s\n", strings.Join(cleaner.DroppedColumns, ", "))
		}
		for col, strategy := range cleaner.ImputationStrategies {
			fmt.Printf("  Imputed %s (%s)\n", col, strategy)
		}
		for col, method := range cleaner.Encoders {
			fmt.Printf("  Encoded %s (%s)\n", col, method)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutputPath, "output", "o", "", "path for the cleaned CSV (default <name>_cleaned.csv)")
}
