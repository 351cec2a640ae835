package cmd

import (
	"fmt"

	"github.com/KaramelBytes/smartetl-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var pipeExportFormat string

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Inspect or convert saved pipeline snapshots",
}

var pipelineShowCmd = &cobra.Command{
	Use:   "show <snapshot>",
	Short: "Print a report of a saved pipeline snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := pipeline.Load(args[0])
		if gen == nil {
			return fmt.Errorf("could not load pipeline from %s", args[0])
		}
		fmt.Println(gen.Report())
		s := gen.Summarize()
		fmt.Printf("Cleaning steps: %d, feature steps: %d\n", s.CleaningSteps, s.FeatureSteps)
		return nil
	},
}

var pipelineExportCmd = &cobra.Command{
	Use:   "export <snapshot> <output>",
	Short: "Re-export a saved pipeline as python, json, or snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gen := pipeline.Load(args[0])
		if gen == nil {
			return fmt.Errorf("could not load pipeline from %s", args[0])
		}
		if !gen.Save(args[1], pipeExportFormat) {
			return fmt.Errorf("could not export pipeline to %s", args[1])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pipelineCmd)
	pipelineCmd.AddCommand(pipelineShowCmd)
	pipelineCmd.AddCommand(pipelineExportCmd)
	pipelineExportCmd.Flags().StringVarP(&pipeExportFormat, "format", "f", pipeline.FormatJSON, "export format: python | json | snapshot")
}
