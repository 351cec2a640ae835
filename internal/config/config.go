package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DataCleaning options drive the cleaner.
type DataCleaning struct {
	MaxMissingPercentage float64 `mapstructure:"max_missing_percentage" yaml:"max_missing_percentage"`
	OutlierThreshold     float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`
	ImputationStrategy   string  `mapstructure:"imputation_strategy" yaml:"imputation_strategy"`
}

// FeatureEngineering options drive feature creation and selection.
type FeatureEngineering struct {
	MaxFeatures            int    `mapstructure:"max_features" yaml:"max_features"`
	FeatureSelectionMethod string `mapstructure:"feature_selection_method" yaml:"feature_selection_method"`
	InteractionDepth       int    `mapstructure:"interaction_depth" yaml:"interaction_depth"`
}

// Performance options are advisory; the core pipeline is single-threaded.
type Performance struct {
	ParallelProcessing bool   `mapstructure:"parallel_processing" yaml:"parallel_processing"`
	ChunkSize          int    `mapstructure:"chunk_size" yaml:"chunk_size"`
	MaxMemoryUsage     string `mapstructure:"max_memory_usage" yaml:"max_memory_usage"`
}

// Output toggles what the run command emits.
type Output struct {
	SavePipeline   bool `mapstructure:"save_pipeline" yaml:"save_pipeline"`
	GenerateReport bool `mapstructure:"generate_report" yaml:"generate_report"`
	ExportCode     bool `mapstructure:"export_code" yaml:"export_code"`
}

// Config is the full nested configuration. It is constructed explicitly and
// passed to components; there is no package-level shared instance.
type Config struct {
	DataCleaning       DataCleaning       `mapstructure:"data_cleaning" yaml:"data_cleaning"`
	FeatureEngineering FeatureEngineering `mapstructure:"feature_engineering" yaml:"feature_engineering"`
	Performance        Performance        `mapstructure:"performance" yaml:"performance"`
	Output             Output             `mapstructure:"output" yaml:"output"`
}

// Default returns the built-in defaults without consulting files or env.
func Default() *Config {
	return &Config{
		DataCleaning: DataCleaning{
			MaxMissingPercentage: 50.0,
			OutlierThreshold:     1.5,
			ImputationStrategy:   "auto",
		},
		FeatureEngineering: FeatureEngineering{
			MaxFeatures:            50,
			FeatureSelectionMethod: "mutual_info",
			InteractionDepth:       2,
		},
		Performance: Performance{
			ParallelProcessing: true,
			ChunkSize:          10000,
			MaxMemoryUsage:     "2GB",
		},
		Output: Output{
			SavePipeline:   true,
			GenerateReport: true,
			ExportCode:     true,
		},
	}
}

// Load loads configuration from defaults, an optional YAML file, and env.
// Precedence: env > config file > defaults. User file keys merge over the
// default tree; unknown top-level keys are ignored by the typed unmarshal.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SMARTETL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_cleaning.max_missing_percentage", 50.0)
	v.SetDefault("data_cleaning.outlier_threshold", 1.5)
	v.SetDefault("data_cleaning.imputation_strategy", "auto")
	v.SetDefault("feature_engineering.max_features", 50)
	v.SetDefault("feature_engineering.feature_selection_method", "mutual_info")
	v.SetDefault("feature_engineering.interaction_depth", 2)
	v.SetDefault("performance.parallel_processing", true)
	v.SetDefault("performance.chunk_size", 10000)
	v.SetDefault("performance.max_memory_usage", "2GB")
	v.SetDefault("output.save_pipeline", true)
	v.SetDefault("output.generate_report", true)
	v.SetDefault("output.export_code", true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			// non-fatal: keep defaults when the user file is unreadable
			fmt.Fprintf(os.Stderr, "⚠ Warning: could not load config file: %v. Using defaults.\n", err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".smartetl"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			_ = v.ReadInConfig()
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Save writes the configuration as YAML. If path is empty it writes to
// ~/.smartetl/config.yaml, creating the directory if necessary.
func Save(c *Config, path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".smartetl")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Get reads a value by dotted key, e.g. "data_cleaning.outlier_threshold".
func (c *Config) Get(key string) (any, bool) {
	switch key {
	case "data_cleaning.max_missing_percentage":
		return c.DataCleaning.MaxMissingPercentage, true
	case "data_cleaning.outlier_threshold":
		return c.DataCleaning.OutlierThreshold, true
	case "data_cleaning.imputation_strategy":
		return c.DataCleaning.ImputationStrategy, true
	case "feature_engineering.max_features":
		return c.FeatureEngineering.MaxFeatures, true
	case "feature_engineering.feature_selection_method":
		return c.FeatureEngineering.FeatureSelectionMethod, true
	case "feature_engineering.interaction_depth":
		return c.FeatureEngineering.InteractionDepth, true
	case "performance.parallel_processing":
		return c.Performance.ParallelProcessing, true
	case "performance.chunk_size":
		return c.Performance.ChunkSize, true
	case "performance.max_memory_usage":
		return c.Performance.MaxMemoryUsage, true
	case "output.save_pipeline":
		return c.Output.SavePipeline, true
	case "output.generate_report":
		return c.Output.GenerateReport, true
	case "output.export_code":
		return c.Output.ExportCode, true
	}
	return nil, false
}

// Set writes a value by dotted key, parsing the string per the field type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "data_cleaning.max_missing_percentage":
		return setFloat(&c.DataCleaning.MaxMissingPercentage, key, value)
	case "data_cleaning.outlier_threshold":
		return setFloat(&c.DataCleaning.OutlierThreshold, key, value)
	case "data_cleaning.imputation_strategy":
		c.DataCleaning.ImputationStrategy = value
	case "feature_engineering.max_features":
		return setInt(&c.FeatureEngineering.MaxFeatures, key, value)
	case "feature_engineering.feature_selection_method":
		c.FeatureEngineering.FeatureSelectionMethod = value
	case "feature_engineering.interaction_depth":
		return setInt(&c.FeatureEngineering.InteractionDepth, key, value)
	case "performance.parallel_processing":
		return setBool(&c.Performance.ParallelProcessing, key, value)
	case "performance.chunk_size":
		return setInt(&c.Performance.ChunkSize, key, value)
	case "performance.max_memory_usage":
		c.Performance.MaxMemoryUsage = value
	case "output.save_pipeline":
		return setBool(&c.Output.SavePipeline, key, value)
	case "output.generate_report":
		return setBool(&c.Output.GenerateReport, key, value)
	case "output.export_code":
		return setBool(&c.Output.ExportCode, key, value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func setFloat(dst *float64, key, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s expects a number: %w", key, err)
	}
	*dst = f
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s expects an integer: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%s expects a boolean: %w", key, err)
	}
	*dst = b
	return nil
}
