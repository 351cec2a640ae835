package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/smartetl-cli/internal/utils"
)

// Export formats accepted by Save.
const (
	FormatPython   = "python"
	FormatJSON     = "json"
	FormatSnapshot = "snapshot"
)

const snapshotVersion = 1

// jsonExport is the JSON document shape: metadata, ordered steps, and the
// generation time.
type jsonExport struct {
	Metadata    map[string]any `json:"metadata"`
	Steps       []Step         `json:"steps"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// snapshot is the versioned persistent form of a Generator. It replaces an
// opaque whole-object serialization so persisted pipelines stay stable.
type snapshot struct {
	Version  int            `yaml:"version"`
	ID       string         `yaml:"id"`
	Metadata map[string]any `yaml:"metadata"`
	Steps    []Step         `yaml:"steps"`
}

// Save writes the pipeline to path in the given format. I/O and encoding
// failures are reported on stderr and signaled by the boolean return; they
// are never propagated.
func (g *Generator) Save(path, format string) bool {
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Failed to save pipeline: %v\n", err)
			return false
		}
	}

	var data []byte
	var err error
	switch format {
	case FormatPython:
		data = []byte(g.GenerateCode())
	case FormatJSON:
		data, err = utils.PrettyJSON(jsonExport{
			Metadata:    g.Metadata,
			Steps:       g.steps,
			GeneratedAt: g.now(),
		})
	case FormatSnapshot:
		data, err = yaml.Marshal(snapshot{
			Version:  snapshotVersion,
			ID:       g.ID,
			Metadata: g.Metadata,
			Steps:    g.steps,
		})
	default:
		fmt.Fprintf(os.Stderr, "⚠ Failed to save pipeline: unknown format %q\n", format)
		return false
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Failed to save pipeline: %v\n", err)
		return false
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Failed to save pipeline: %v\n", err)
		return false
	}
	fmt.Printf("Pipeline saved to %s (format: %s)\n", path, format)
	return true
}

// Load restores a Generator from a snapshot file. Failures are reported on
// stderr and signaled by a nil return.
func Load(path string) *Generator {
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Failed to load pipeline: %v\n", err)
		return nil
	}
	var s snapshot
	if err := yaml.Unmarshal(b, &s); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Failed to load pipeline: %v\n", err)
		return nil
	}
	if s.Version != snapshotVersion {
		fmt.Fprintf(os.Stderr, "⚠ Failed to load pipeline: unsupported snapshot version %d\n", s.Version)
		return nil
	}
	g := New()
	g.ID = s.ID
	if s.Metadata != nil {
		g.Metadata = s.Metadata
	}
	g.steps = s.Steps
	return g
}

// ParseJSONExport decodes the JSON export document, used to round-trip
// exported pipelines.
func ParseJSONExport(data []byte) (metadata map[string]any, steps []Step, err error) {
	var doc jsonExport
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse pipeline json: %w", err)
	}
	return doc.Metadata, doc.Steps, nil
}
