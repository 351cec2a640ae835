package cmd

import (
	"fmt"
	"os"

	"github.com/KaramelBytes/smartetl-cli/internal/dataset"
	"github.com/KaramelBytes/smartetl-cli/internal/profile"
	"github.com/spf13/cobra"
)

var profOutputPath string

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Profile a CSV dataset and print the quality report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := dataset.LoadCSV(args[0])
		if err != nil {
			return err
		}
		if ok, reason := t.Validate(1, nil); !ok {
			return fmt.Errorf("invalid dataset: %s", reason)
		}

		profiler := profile.New()
		profiler.Analyze(t)
		report := profiler.Report()

		if profOutputPath != "" {
			if err := os.WriteFile(profOutputPath, []byte(report), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote profile report to %s\n", profOutputPath)
			return nil
		}
		fmt.Println(report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "optional path to write the report")
}
