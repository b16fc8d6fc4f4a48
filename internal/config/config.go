// Package config holds the compiler's fixed constants and the lolc.yaml
// project configuration discovered next to (or above) the source file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultStackSize and DefaultHeapSize are the machine dimensions, in
	// cells, used when neither the project file nor a flag overrides them.
	DefaultStackSize = 4096
	DefaultHeapSize  = 4096

	// DefaultCC is the external C compiler invoked on the generated unit.
	DefaultCC = "gcc"

	// DefaultTarget is the only serialization target shipped.
	DefaultTarget = "c"

	// ReadBufferCells is the allocation size of a read_string buffer. It
	// must match READ_BUFFER_CELLS in the runtime.
	ReadBufferCells = 256

	// NumberStringCells is the allocation size of a numeric-to-string
	// conversion. It must match NUMBER_STRING_CELLS in the runtime.
	NumberStringCells = 32
)

// Project is the lolc.yaml project configuration. Flags override any field
// set here.
type Project struct {
	StackSize int32  `yaml:"stack_size,omitempty"`
	HeapSize  int32  `yaml:"heap_size,omitempty"`
	CC        string `yaml:"cc,omitempty"`
	Target    string `yaml:"target,omitempty"`
	Cache     *bool  `yaml:"cache,omitempty"`
}

// Default returns a project config with every default filled in.
func Default() *Project {
	cache := true
	return &Project{
		StackSize: DefaultStackSize,
		HeapSize:  DefaultHeapSize,
		CC:        DefaultCC,
		Target:    DefaultTarget,
		Cache:     &cache,
	}
}

// CacheEnabled reports whether the build cache should be used.
func (p *Project) CacheEnabled() bool {
	return p.Cache == nil || *p.Cache
}

// Load reads and validates a lolc.yaml file, filling unset fields with
// defaults.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	project := &Project{}
	if err := yaml.Unmarshal(data, project); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	defaults := Default()
	if project.StackSize == 0 {
		project.StackSize = defaults.StackSize
	}
	if project.HeapSize == 0 {
		project.HeapSize = defaults.HeapSize
	}
	if project.CC == "" {
		project.CC = defaults.CC
	}
	if project.Target == "" {
		project.Target = defaults.Target
	}

	if project.StackSize < 0 || project.HeapSize < 0 {
		return nil, fmt.Errorf("parsing %s: machine sizes must be positive", path)
	}

	return project, nil
}

// Find walks upward from dir looking for lolc.yaml (or lolc.yml). It
// returns the empty string when no config exists up to the filesystem
// root.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, "lolc.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		candidate = filepath.Join(dir, "lolc.yml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// ForSource loads the project config governing a source file: the nearest
// lolc.yaml at or above the file's directory, or defaults when none
// exists.
func ForSource(sourcePath string) (*Project, error) {
	path, err := Find(filepath.Dir(sourcePath))
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
