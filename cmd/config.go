package cmd

import (
	"fmt"
	"sort"

	cfgpkg "github.com/KaramelBytes/smartetl-cli/internal/config"
	"github.com/spf13/cobra"
)

var configKeys = []string{
	"data_cleaning.max_missing_percentage",
	"data_cleaning.outlier_threshold",
	"data_cleaning.imputation_strategy",
	"feature_engineering.max_features",
	"feature_engineering.feature_selection_method",
	"feature_engineering.interaction_depth",
	"performance.parallel_processing",
	"performance.chunk_size",
	"performance.max_memory_usage",
	"output.save_pipeline",
	"output.generate_report",
	"output.export_code",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set SmartETL configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		keys := append([]string(nil), configKeys...)
		sort.Strings(keys)
		for _, key := range keys {
			if v, ok := cfg.Get(key); ok {
				fmt.Printf("%s: %v\n", key, v)
			}
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a config value by dotted key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			cfg = cfgpkg.Default()
		}
		v, ok := cfg.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown config key: %s", args[0])
		}
		fmt.Printf("%v\n", v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Set %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
