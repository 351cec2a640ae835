package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	c := Default()
	if c.DataCleaning.MaxMissingPercentage != 50.0 {
		t.Fatalf("max_missing_percentage = %f, want 50", c.DataCleaning.MaxMissingPercentage)
	}
	if c.DataCleaning.OutlierThreshold != 1.5 {
		t.Fatalf("outlier_threshold = %f, want 1.5", c.DataCleaning.OutlierThreshold)
	}
	if c.DataCleaning.ImputationStrategy != "auto" {
		t.Fatalf("imputation_strategy = %q, want auto", c.DataCleaning.ImputationStrategy)
	}
	if c.FeatureEngineering.MaxFeatures != 50 {
		t.Fatalf("max_features = %d, want 50", c.FeatureEngineering.MaxFeatures)
	}
	if c.FeatureEngineering.FeatureSelectionMethod != "mutual_info" {
		t.Fatalf("feature_selection_method = %q, want mutual_info", c.FeatureEngineering.FeatureSelectionMethod)
	}
	if c.FeatureEngineering.InteractionDepth != 2 {
		t.Fatalf("interaction_depth = %d, want 2", c.FeatureEngineering.InteractionDepth)
	}
	if !c.Performance.ParallelProcessing || c.Performance.ChunkSize != 10000 || c.Performance.MaxMemoryUsage != "2GB" {
		t.Fatalf("performance defaults = %+v", c.Performance)
	}
	if !c.Output.SavePipeline || !c.Output.GenerateReport || !c.Output.ExportCode {
		t.Fatalf("output defaults = %+v", c.Output)
	}
}

func TestLoadFileOverridesMergeOverDefaults(t *testing.T) {
	doc := `data_cleaning:
  outlier_threshold: 3.0
output:
  export_code: false
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DataCleaning.OutlierThreshold != 3.0 {
		t.Fatalf("outlier_threshold = %f, want 3", c.DataCleaning.OutlierThreshold)
	}
	if c.Output.ExportCode {
		t.Fatalf("export_code should be overridden to false")
	}
	// untouched keys keep their defaults
	if c.DataCleaning.MaxMissingPercentage != 50.0 {
		t.Fatalf("max_missing_percentage = %f, want default 50", c.DataCleaning.MaxMissingPercentage)
	}
	if c.FeatureEngineering.MaxFeatures != 50 {
		t.Fatalf("max_features = %d, want default 50", c.FeatureEngineering.MaxFeatures)
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	doc := `totally_unknown_section:
  foo: bar
feature_engineering:
  max_features: 25
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.FeatureEngineering.MaxFeatures != 25 {
		t.Fatalf("max_features = %d, want 25", c.FeatureEngineering.MaxFeatures)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail on a missing user file: %v", err)
	}
	if c.DataCleaning.ImputationStrategy != "auto" {
		t.Fatalf("defaults not applied: %+v", c.DataCleaning)
	}
}

func TestGetAndSet(t *testing.T) {
	c := Default()

	if err := c.Set("data_cleaning.outlier_threshold", "2.5"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok := c.Get("data_cleaning.outlier_threshold"); !ok || v.(float64) != 2.5 {
		t.Fatalf("Get = %v, %v", v, ok)
	}

	if err := c.Set("feature_engineering.max_features", "10"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := c.Get("feature_engineering.max_features"); v.(int) != 10 {
		t.Fatalf("max_features = %v, want 10", v)
	}

	if err := c.Set("output.save_pipeline", "false"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := c.Get("output.save_pipeline"); v.(bool) {
		t.Fatalf("save_pipeline should be false")
	}

	if err := c.Set("data_cleaning.imputation_strategy", "mean"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, _ := c.Get("data_cleaning.imputation_strategy"); v.(string) != "mean" {
		t.Fatalf("imputation_strategy = %v, want mean", v)
	}
}

func TestSetRejectsBadValues(t *testing.T) {
	c := Default()
	if err := c.Set("data_cleaning.outlier_threshold", "not a number"); err == nil {
		t.Fatalf("expected error for non-numeric value")
	}
	if err := c.Set("feature_engineering.max_features", "2.5"); err == nil {
		t.Fatalf("expected error for non-integer value")
	}
	if err := c.Set("output.export_code", "maybe"); err == nil {
		t.Fatalf("expected error for non-boolean value")
	}
	if err := c.Set("no.such.key", "x"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	// failed sets leave the value untouched
	if c.DataCleaning.OutlierThreshold != 1.5 {
		t.Fatalf("outlier_threshold mutated by failed set: %f", c.DataCleaning.OutlierThreshold)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := Default()
	c.DataCleaning.ImputationStrategy = "mode"
	c.FeatureEngineering.MaxFeatures = 7
	c.Output.GenerateReport = false

	path := filepath.Join(t.TempDir(), "saved", "config.yaml")
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.DataCleaning.ImputationStrategy != "mode" {
		t.Fatalf("imputation_strategy = %q, want mode", back.DataCleaning.ImputationStrategy)
	}
	if back.FeatureEngineering.MaxFeatures != 7 {
		t.Fatalf("max_features = %d, want 7", back.FeatureEngineering.MaxFeatures)
	}
	if back.Output.GenerateReport {
		t.Fatalf("generate_report should round-trip as false")
	}
}
