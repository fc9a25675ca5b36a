package pack_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broforce-mods/broforce-tools/domain"
	"github.com/broforce-mods/broforce-tools/infrastructure/pack"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newLayout(t *testing.T, projectType domain.ProjectType) pack.Layout {
	t.Helper()
	releases := t.TempDir()
	modContent := t.TempDir()
	mustWrite(t, filepath.Join(releases, "manifest.json"), `{"name": "MyMod"}`)
	mustWrite(t, filepath.Join(releases, "README.md"), "# MyMod")
	mustWrite(t, filepath.Join(releases, "icon.png"), "png")
	mustWrite(t, filepath.Join(releases, "Changelog.md"), "## v1.0.0\n- Initial release\n")
	mustWrite(t, filepath.Join(modContent, "MyMod.dll"), "bin")
	mustWrite(t, filepath.Join(modContent, "Info.json"), `{"Version": "1.0.0"}`)

	return pack.Layout{
		ManifestPath:   filepath.Join(releases, "manifest.json"),
		ReadmePath:     filepath.Join(releases, "README.md"),
		IconPath:       filepath.Join(releases, "icon.png"),
		ChangelogPath:  filepath.Join(releases, "Changelog.md"),
		ModContentPath: modContent,
		ProjectName:    "MyMod",
		ProjectType:    projectType,
	}
}

func archiveNames(t *testing.T, zipPath string) []string {
	t.Helper()
	reader, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer reader.Close()

	var names []string
	for _, file := range reader.File {
		names = append(names, file.Name)
	}
	sort.Strings(names)
	return names
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("should lay out a mod package under UMM/Mods", func(t *testing.T) {
		t.Parallel()

		// given
		layout := newLayout(t, domain.ProjectTypeMod)
		zipPath := filepath.Join(t.TempDir(), "Alex-MyMod-1.0.0.zip")

		// when
		size, err := pack.Build(layout, zipPath)

		// then
		require.NoError(t, err)
		assert.Positive(t, size)
		assert.Equal(t, []string{
			"CHANGELOG.md",
			"README.md",
			"UMM/Mods/MyMod/Info.json",
			"UMM/Mods/MyMod/MyMod.dll",
			"icon.png",
			"manifest.json",
		}, archiveNames(t, zipPath))
	})

	t.Run("should lay out a bro package under UMM/BroMaker_Storage", func(t *testing.T) {
		t.Parallel()

		// given
		layout := newLayout(t, domain.ProjectTypeBro)
		zipPath := filepath.Join(t.TempDir(), "Alex-MyBro-1.0.0.zip")

		// when
		_, err := pack.Build(layout, zipPath)

		// then
		require.NoError(t, err)
		assert.Contains(t, archiveNames(t, zipPath), "UMM/BroMaker_Storage/MyMod/MyMod.dll")
	})

	t.Run("should normalize the changelog name inside the archive", func(t *testing.T) {
		t.Parallel()

		// given
		layout := newLayout(t, domain.ProjectTypeMod)
		zipPath := filepath.Join(t.TempDir(), "pkg.zip")

		// when
		_, err := pack.Build(layout, zipPath)

		// then
		require.NoError(t, err)
		names := archiveNames(t, zipPath)
		assert.Contains(t, names, "CHANGELOG.md")
		assert.NotContains(t, names, "Changelog.md")
	})

	t.Run("should use deflate compression", func(t *testing.T) {
		t.Parallel()

		// given
		layout := newLayout(t, domain.ProjectTypeMod)
		zipPath := filepath.Join(t.TempDir(), "pkg.zip")

		// when
		_, err := pack.Build(layout, zipPath)

		// then
		require.NoError(t, err)
		reader, openErr := zip.OpenReader(zipPath)
		require.NoError(t, openErr)
		defer reader.Close()
		for _, file := range reader.File {
			assert.Equal(t, zip.Deflate, file.Method, file.Name)
		}
	})
}

func TestArchivePrevious(t *testing.T) {
	t.Parallel()

	t.Run("should move existing archives into Previous Versions", func(t *testing.T) {
		t.Parallel()

		// given
		releases := t.TempDir()
		mustWrite(t, filepath.Join(releases, "Alex-MyMod-0.9.0.zip"), "zip")
		mustWrite(t, filepath.Join(releases, "manifest.json"), "{}")

		// when
		archived, err := pack.ArchivePrevious(releases)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"Alex-MyMod-0.9.0.zip"}, archived)
		assert.FileExists(t, filepath.Join(releases, "Previous Versions", "Alex-MyMod-0.9.0.zip"))
		assert.NoFileExists(t, filepath.Join(releases, "Alex-MyMod-0.9.0.zip"))
	})

	t.Run("should do nothing when no archives exist", func(t *testing.T) {
		t.Parallel()

		// given
		releases := t.TempDir()

		// when
		archived, err := pack.ArchivePrevious(releases)

		// then
		require.NoError(t, err)
		assert.Empty(t, archived)
		assert.NoDirExists(t, filepath.Join(releases, "Previous Versions"))
	})
}
