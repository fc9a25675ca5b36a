package metadata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/broforce-mods/broforce-tools/domain"
)

// ManifestFileName is the Thunderstore manifest inside a releases directory.
const ManifestFileName = "manifest.json"

// ManifestFile is a loaded manifest.json. It keeps the raw document so
// fields this tool does not know about survive a load/update/save cycle.
type ManifestFile struct {
	path string
	raw  map[string]any
}

// LoadManifest reads a manifest.json.
func LoadManifest(path string) (*ManifestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
	}

	raw := make(map[string]any)
	if unmarshalErr := json.Unmarshal(data, &raw); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse manifest %q: %w", path, unmarshalErr)
	}
	return &ManifestFile{path: path, raw: raw}, nil
}

// Save writes the manifest back with two-space indentation.
func (m *ManifestFile) Save() error {
	data, err := json.MarshalIndent(m.raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if writeErr := os.WriteFile(m.path, data, 0o644); writeErr != nil {
		return fmt.Errorf("failed to write manifest %q: %w", m.path, writeErr)
	}
	return nil
}

// Path returns the manifest location.
func (m *ManifestFile) Path() string {
	return m.path
}

// Name returns the package name, or "" when absent.
func (m *ManifestFile) Name() string {
	return m.stringField("name")
}

// Author returns the package namespace, or "" when absent.
func (m *ManifestFile) Author() string {
	return m.stringField("author")
}

// VersionNumber returns the recorded version, or "" when absent.
func (m *ManifestFile) VersionNumber() string {
	return m.stringField("version_number")
}

// Dependencies returns the dependency strings. Non-string entries are
// dropped rather than failing the whole load.
func (m *ManifestFile) Dependencies() []string {
	list, ok := m.raw["dependencies"].([]any)
	if !ok {
		return nil
	}
	deps := make([]string, 0, len(list))
	for _, item := range list {
		if s, isString := item.(string); isString {
			deps = append(deps, s)
		}
	}
	return deps
}

// SetAuthor records the package namespace.
func (m *ManifestFile) SetAuthor(author string) {
	m.raw["author"] = author
}

// SetVersionNumber records a new version.
func (m *ManifestFile) SetVersionNumber(version string) {
	m.raw["version_number"] = version
}

// SetDependencies replaces the dependency list.
func (m *ManifestFile) SetDependencies(deps []string) {
	list := make([]any, len(deps))
	for i, dep := range deps {
		list[i] = dep
	}
	m.raw["dependencies"] = list
}

func (m *ManifestFile) stringField(key string) string {
	if s, ok := m.raw[key].(string); ok {
		return s
	}
	return ""
}

// WriteManifest creates a fresh manifest.json from the given metadata.
func WriteManifest(path string, manifest domain.Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
		return fmt.Errorf("failed to write manifest %q: %w", path, writeErr)
	}
	return nil
}
