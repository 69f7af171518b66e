package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"mdtangle/internal/chunk"
	"mdtangle/internal/tangle"
)

// DefaultFile is the manifest file name looked up by build and watch.
const DefaultFile = "mdtangle.yaml"

// Manifest describes a set of tangle targets.
type Manifest struct {
	Scanner string   `yaml:"scanner"`
	Targets []Target `yaml:"targets"`

	// Dir is the directory the manifest was loaded from.
	Dir string `yaml:"-"`
}

// Target is one input/output pair of a manifest.
type Target struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Root   string `yaml:"root,omitempty"`
}

// Load reads and validates the manifest at path.
// Relative input and output paths are resolved against the manifest directory,
// and targets without a root use defaultRoot (chunk.DefaultRoot if empty).
func Load(path, defaultRoot string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	m, err := Parse(data, filepath.Dir(absPath), defaultRoot)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest data, resolving relative paths against dir.
func Parse(data []byte, dir, defaultRoot string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	m.Dir = dir

	if defaultRoot == "" {
		defaultRoot = chunk.DefaultRoot
	}

	if m.Scanner != "" {
		if _, err := chunk.ScannerByName(m.Scanner); err != nil {
			return nil, err
		}
	}

	if len(m.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined")
	}

	for i := range m.Targets {
		t := &m.Targets[i]
		if t.Input == "" {
			return nil, fmt.Errorf("target %d: input is required", i)
		}
		if t.Output == "" {
			return nil, fmt.Errorf("target %d: output is required", i)
		}
		if t.Root == "" {
			t.Root = defaultRoot
		}
		t.Input = resolve(dir, t.Input)
		t.Output = resolve(dir, t.Output)
	}

	return &m, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

// TangleTargets converts the manifest targets into pipeline targets.
func (m *Manifest) TangleTargets(force bool) []tangle.Target {
	targets := make([]tangle.Target, 0, len(m.Targets))
	for _, t := range m.Targets {
		targets = append(targets, tangle.Target{
			Input:  t.Input,
			Output: t.Output,
			Root:   t.Root,
			Force:  force,
		})
	}
	return targets
}

// Inputs returns the distinct input paths in manifest order.
func (m *Manifest) Inputs() []string {
	seen := make(map[string]bool)
	var inputs []string
	for _, t := range m.Targets {
		if !seen[t.Input] {
			seen[t.Input] = true
			inputs = append(inputs, t.Input)
		}
	}
	return inputs
}
