package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	cfgpkg "github.com/KaramelBytes/smartetl-cli/internal/config"
	"github.com/KaramelBytes/smartetl-cli/internal/pipeline"
)

// execRootCmd is a helper to execute the root command with args.
func execRootCmd(t *testing.T, args ...string) {
	t.Helper()
	// Reset sticky bound variables that persist across invocations
	profOutputPath = ""
	cleanOutputPath = ""
	featTarget = ""
	featOutputPath = ""
	runTarget = ""
	runOutDir = ""
	pipeExportFormat = pipeline.FormatJSON
	cfgFile = ""
	if cfg == nil {
		cfg = cfgpkg.Default()
	}
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
}

func writeSampleCSV(t *testing.T, dir string) string {
	t.Helper()
	rows := []string{
		"id,amount,category,signup_date,note",
		"1,10.5,A,2023-01-01,alpha",
		"2,20.0,B,2023-02-01,beta",
		"3,,A,2023-03-01,gamma",
		"4,40.5,C,2023-04-01,delta",
		"5,50.0,B,2023-05-01,epsilon",
		"6,60.5,A,2023-06-01,zeta",
		"7,70.0,C,2023-07-01,eta",
		"8,80.5,B,2023-08-01,theta",
		"9,90.0,A,2023-09-01,iota",
		"10,100.5,C,2023-10-01,kappa",
	}
	path := filepath.Join(dir, "sample.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestCLI_ProfileWritesReport(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir)
	reportPath := filepath.Join(dir, "report.txt")

	execRootCmd(t, "profile", csvPath, "-o", reportPath)

	b, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	rep := string(b)
	if !strings.Contains(rep, "SMART ETL DATA PROFILE REPORT") {
		t.Fatalf("report header missing:\n%s", rep)
	}
	if !strings.Contains(rep, "Rows: 10") {
		t.Fatalf("row count missing:\n%s", rep)
	}
}

func TestCLI_CleanProducesEncodedCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir)
	outPath := filepath.Join(dir, "cleaned.csv")

	execRootCmd(t, "clean", csvPath, "-o", outPath)

	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read cleaned csv: %v", err)
	}
	header := strings.SplitN(string(b), "\n", 2)[0]
	// the categorical column one-hot encodes into indicator columns
	for _, want := range []string{"category_A", "category_B", "category_C"} {
		if !strings.Contains(header, want) {
			t.Fatalf("header missing %s: %s", want, header)
		}
	}
	if strings.Contains(header, ",category,") {
		t.Fatalf("raw categorical column should be replaced: %s", header)
	}
}

func TestCLI_RunFullPipeline(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir)
	outDir := filepath.Join(dir, "out")

	execRootCmd(t, "run", csvPath, "-d", outDir)

	for _, name := range []string{
		"sample_cleaned.csv",
		"sample_features.csv",
		"sample_pipeline.yaml",
		"sample_pipeline.py",
	} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected output %s: %v", name, err)
		}
	}

	// features output carries temporal columns derived from signup_date
	b, err := os.ReadFile(filepath.Join(outDir, "sample_features.csv"))
	if err != nil {
		t.Fatalf("read features csv: %v", err)
	}
	header := strings.SplitN(string(b), "\n", 2)[0]
	if !strings.Contains(header, "signup_date_year") {
		t.Fatalf("temporal feature missing from header: %s", header)
	}

	// snapshot is loadable and records the three pipeline stages
	snapPath := filepath.Join(outDir, "sample_pipeline.yaml")
	execRootCmd(t, "pipeline", "show", snapPath)

	exportPath := filepath.Join(outDir, "pipeline.json")
	execRootCmd(t, "pipeline", "export", snapPath, exportPath, "-f", "json")
	eb, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	_, steps, err := pipeline.ParseJSONExport(eb)
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("steps = %d, want 3", len(steps))
	}
}

func TestCLI_ConfigGetAndSet(t *testing.T) {
	home := t.TempDir()
	oldHome := os.Getenv("HOME")
	defer os.Setenv("HOME", oldHome)
	os.Setenv("HOME", home)

	cfg = cfgpkg.Default()
	execRootCmd(t, "config", "get", "data_cleaning.outlier_threshold")
	execRootCmd(t, "config", "set", "feature_engineering.max_features", "12")

	if cfg.FeatureEngineering.MaxFeatures != 12 {
		t.Fatalf("max_features = %d, want 12", cfg.FeatureEngineering.MaxFeatures)
	}
	// set persists to ~/.smartetl/config.yaml
	saved, err := cfgpkg.Load(filepath.Join(home, ".smartetl", "config.yaml"))
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if saved.FeatureEngineering.MaxFeatures != 12 {
		t.Fatalf("saved max_features = %d, want 12", saved.FeatureEngineering.MaxFeatures)
	}
}

func TestCLI_ProfileRejectsMissingFile(t *testing.T) {
	cfg = cfgpkg.Default()
	rootCmd.SetArgs([]string{"profile", filepath.Join(t.TempDir(), "nope.csv")})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected error for missing input file")
	}
}
