package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/broforce-mods/broforce-tools/domain"
)

// FindVersionFile locates the loader version file inside _ModContent:
// Info.json for mods, the first *.mod.json for bros.
func FindVersionFile(modContent string, projectType domain.ProjectType) (string, bool) {
	if projectType == domain.ProjectTypeMod {
		path := filepath.Join(modContent, "Info.json")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
		return "", false
	}

	entries, err := os.ReadDir(modContent)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".mod.json") {
			return filepath.Join(modContent, entry.Name()), true
		}
	}
	return "", false
}

// ReadVersion reads the "Version" field of a loader version file. Missing
// files, malformed JSON and an absent field all yield "".
func ReadVersion(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	doc := make(map[string]any)
	if unmarshalErr := json.Unmarshal(data, &doc); unmarshalErr != nil {
		return ""
	}
	version, _ := doc["Version"].(string)
	return version
}

// ReadBroMakerVersion reads the "BroMakerVersion" field a bro's mod.json
// carries, or "" when absent or unreadable.
func ReadBroMakerVersion(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	doc := make(map[string]any)
	if unmarshalErr := json.Unmarshal(data, &doc); unmarshalErr != nil {
		return ""
	}
	version, _ := doc["BroMakerVersion"].(string)
	return version
}

// SyncBroMakerVersion rewrites the "BroMakerVersion" field, preserving every
// other field.
func SyncBroMakerVersion(path, target string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read version file %q: %w", path, err)
	}

	doc := make(map[string]any)
	if unmarshalErr := json.Unmarshal(data, &doc); unmarshalErr != nil {
		return fmt.Errorf("failed to parse version file %q: %w", path, unmarshalErr)
	}

	doc["BroMakerVersion"] = target
	updated, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode version file: %w", err)
	}
	if writeErr := os.WriteFile(path, updated, 0o644); writeErr != nil {
		return fmt.Errorf("failed to write version file %q: %w", path, writeErr)
	}
	return nil
}

// SyncVersion rewrites the "Version" field of a loader version file,
// preserving every other field. It reports false without touching the file
// when the version is already current.
func SyncVersion(path, target string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read version file %q: %w", path, err)
	}

	doc := make(map[string]any)
	if unmarshalErr := json.Unmarshal(data, &doc); unmarshalErr != nil {
		return false, fmt.Errorf("failed to parse version file %q: %w", path, unmarshalErr)
	}

	if current, _ := doc["Version"].(string); current == target {
		return false, nil
	}

	doc["Version"] = target
	updated, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return false, fmt.Errorf("failed to encode version file: %w", err)
	}
	if writeErr := os.WriteFile(path, updated, 0o644); writeErr != nil {
		return false, fmt.Errorf("failed to write version file %q: %w", path, writeErr)
	}
	return true, nil
}
