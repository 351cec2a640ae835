package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/smartetl-cli/internal/clean"
	"github.com/KaramelBytes/smartetl-cli/internal/dataset"
	"github.com/KaramelBytes/smartetl-cli/internal/feature"
	"github.com/KaramelBytes/smartetl-cli/internal/pipeline"
	"github.com/KaramelBytes/smartetl-cli/internal/profile"
	"github.com/KaramelBytes/smartetl-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	runTarget string
	runOutDir string
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run the full pipeline: profile, clean, engineer features",
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

		if runOutDir != "" {
			if err := utils.EnsureDir(runOutDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		outPath := func(suffix string) string {
			return filepath.Join(runOutDir, base+suffix)
		}

		gen := pipeline.New()
		gen.Metadata["source"] = filepath.Base(path)

		// profile
		profiler := profile.New()
		prof := profiler.Analyze(t)
		gen.AddStep("Profile dataset", pipeline.FuncProfiling, map[string]any{
			"rows":    prof.Overview.NumRows,
			"columns": prof.Overview.NumColumns,
		})
		if cfg.Output.GenerateReport {
			fmt.Println(profiler.Report())
		}
		fmt.Printf("Dataset memory: %s\n\n", utils.FormatBytes(prof.Overview.MemoryUsageMB*1024*1024))

		// clean
		cleaner := clean.New(cfg)
		cleaned := cleaner.Clean(t, prof)
		gen.AddStep("Clean dataset", pipeline.FuncCleaning, map[string]any{
			"imputation": cleaner.ImputationStrategies,
			"encoding":   cleaner.Encoders,
		})
		if err := cleaned.SaveCSV(outPath("_cleaned.csv")); err != nil {
			return err
		}

		// engineer features
		eng := feature.New(cfg)
		engineered := eng.CreateFeatures(cleaned, runTarget)
		gen.AddStep("Engineer features", pipeline.FuncEngineering, map[string]any{
			"temporal_features":    eng.TemporalSources,
			"interaction_features": eng.InteractionPairs,
		})
		if err := engineered.SaveCSV(outPath("_features.csv")); err != nil {
			return err
		}
		fmt.Println(eng.Summary())

		if cfg.Output.SavePipeline {
			gen.Save(outPath("_pipeline.yaml"), pipeline.FormatSnapshot)
		}
		if cfg.Output.ExportCode {
			gen.Save(outPath("_pipeline.py"), pipeline.FormatPython)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runTarget, "target", "t", "", "target column for supervised feature selection")
	runCmd.Flags().StringVarP(&runOutDir, "out-dir", "d", "", "directory for generated files (default current directory)")
}
