// Package pack assembles Thunderstore release archives: staging the
// package layout and zipping it up.
package pack

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/broforce-mods/broforce-tools/domain"
	"github.com/broforce-mods/broforce-tools/infrastructure/scaffold"
)

// PreviousVersionsDirName is where superseded archives are moved.
const PreviousVersionsDirName = "Previous Versions"

// Layout describes everything that goes into one package archive.
type Layout struct {
	ManifestPath  string
	ReadmePath    string
	IconPath      string
	ChangelogPath string
	// ModContentPath is the _ModContent directory holding the built mod.
	ModContentPath string
	ProjectName    string
	ProjectType    domain.ProjectType
}

// Stage copies the package contents into dir using the Thunderstore layout:
// metadata files at the root (the changelog normalized to CHANGELOG.md) and
// the mod payload under the loader's install path.
func Stage(dir string, layout Layout) error {
	files := map[string]string{
		"manifest.json": layout.ManifestPath,
		"README.md":     layout.ReadmePath,
		"icon.png":      layout.IconPath,
		"CHANGELOG.md":  layout.ChangelogPath,
	}
	for name, src := range files {
		if err := copyFile(src, filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	target := filepath.Join(dir, "UMM", "Mods", layout.ProjectName)
	if layout.ProjectType == domain.ProjectTypeBro {
		target = filepath.Join(dir, "UMM", "BroMaker_Storage", layout.ProjectName)
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create payload directory %q: %w", target, err)
	}
	return scaffold.CopyTree(layout.ModContentPath, target)
}

// BuildZip writes every file under stagingDir into a deflate-compressed
// archive with slash-separated paths relative to stagingDir. It returns the
// archive size in bytes.
func BuildZip(stagingDir, zipPath string) (int64, error) {
	out, err := os.Create(zipPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create archive %q: %w", zipPath, err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	walkErr := filepath.WalkDir(stagingDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}

		rel, relErr := filepath.Rel(stagingDir, path)
		if relErr != nil {
			return relErr
		}

		header := &zip.FileHeader{
			Name:   filepath.ToSlash(rel),
			Method: zip.Deflate,
		}
		dst, createErr := writer.CreateHeader(header)
		if createErr != nil {
			return createErr
		}

		src, openErr := os.Open(path)
		if openErr != nil {
			return openErr
		}
		defer src.Close()

		_, copyErr := io.Copy(dst, src)
		return copyErr
	})
	if walkErr != nil {
		_ = writer.Close()
		return 0, fmt.Errorf("failed to build archive: %w", walkErr)
	}
	if closeErr := writer.Close(); closeErr != nil {
		return 0, fmt.Errorf("failed to finalize archive: %w", closeErr)
	}
	if closeErr := out.Close(); closeErr != nil {
		return 0, fmt.Errorf("failed to finalize archive: %w", closeErr)
	}

	info, statErr := os.Stat(zipPath)
	if statErr != nil {
		return 0, fmt.Errorf("failed to stat archive: %w", statErr)
	}
	return info.Size(), nil
}

// Build stages the layout into a scratch directory and zips it.
func Build(layout Layout, zipPath string) (int64, error) {
	staging, err := os.MkdirTemp("", "thunderstore-pack-")
	if err != nil {
		return 0, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if stageErr := Stage(staging, layout); stageErr != nil {
		return 0, stageErr
	}
	return BuildZip(staging, zipPath)
}

// ArchivePrevious moves every .zip at the top of releasesPath into the
// "Previous Versions" directory, creating it on first use. It returns the
// archived file names.
func ArchivePrevious(releasesPath string) ([]string, error) {
	entries, err := os.ReadDir(releasesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read releases directory %q: %w", releasesPath, err)
	}

	var zips []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".zip") {
			zips = append(zips, entry.Name())
		}
	}
	if len(zips) == 0 {
		return nil, nil
	}

	archiveDir := filepath.Join(releasesPath, PreviousVersionsDirName)
	if mkdirErr := os.MkdirAll(archiveDir, 0o755); mkdirErr != nil {
		return nil, fmt.Errorf("failed to create %q: %w", archiveDir, mkdirErr)
	}

	for _, name := range zips {
		src := filepath.Join(releasesPath, name)
		dst := filepath.Join(archiveDir, name)
		if renameErr := os.Rename(src, dst); renameErr != nil {
			return nil, fmt.Errorf("failed to archive %q: %w", name, renameErr)
		}
	}
	return zips, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dst, err)
	}
	defer out.Close()

	if _, copyErr := io.Copy(out, in); copyErr != nil {
		return fmt.Errorf("failed to copy %q: %w", src, copyErr)
	}
	return out.Close()
}
