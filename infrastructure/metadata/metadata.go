// Package metadata reads and writes the per-project release metadata: the
// _ModContent layout, the Thunderstore manifest, and the loader version
// files shipped inside the mod.
package metadata

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/broforce-mods/broforce-tools/domain"
)

// ModContentDirName is the directory holding the built mod payload.
const ModContentDirName = "_ModContent"

// FindSourceDir resolves the directory containing _ModContent. Both layouts
// are supported: flat (ProjectName/_ModContent) and nested
// (ProjectName/ProjectName/_ModContent).
func FindSourceDir(projectPath string) (string, bool) {
	if dirExists(filepath.Join(projectPath, ModContentDirName)) {
		return projectPath, true
	}

	nested := filepath.Join(projectPath, filepath.Base(projectPath))
	if dirExists(filepath.Join(nested, ModContentDirName)) {
		return nested, true
	}
	return "", false
}

// ModContentPath resolves the _ModContent directory of a project.
func ModContentPath(projectPath string) (string, bool) {
	sourceDir, ok := FindSourceDir(projectPath)
	if !ok {
		return "", false
	}
	return filepath.Join(sourceDir, ModContentDirName), true
}

// DetectProjectType classifies a project by its loader files: Info.json
// marks a UMM mod, a *.mod.json marks a BroMaker bro.
func DetectProjectType(projectPath string) (domain.ProjectType, bool) {
	modContent, ok := ModContentPath(projectPath)
	if !ok {
		return "", false
	}

	if _, err := os.Stat(filepath.Join(modContent, "Info.json")); err == nil {
		return domain.ProjectTypeMod, true
	}

	entries, err := os.ReadDir(modContent)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".mod.json") {
			return domain.ProjectTypeBro, true
		}
	}
	return "", false
}

// FindArtifact returns the first .dll inside _ModContent, the built mod
// assembly the package ships.
func FindArtifact(modContent string) (string, bool) {
	entries, err := os.ReadDir(modContent)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".dll") {
			return filepath.Join(modContent, entry.Name()), true
		}
	}
	return "", false
}

// FindChangelog locates the changelog in a releases directory, accepting
// both Changelog.md and CHANGELOG.md.
func FindChangelog(releasesPath string) (string, bool) {
	for _, name := range []string{"Changelog.md", "CHANGELOG.md"} {
		path := filepath.Join(releasesPath, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
