package metadata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broforce-mods/broforce-tools/domain"
	"github.com/broforce-mods/broforce-tools/infrastructure/metadata"
)

func TestManifestFile(t *testing.T) {
	t.Parallel()

	t.Run("should expose the fields reconciliation reads", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "manifest.json")
		mustWrite(t, path, `{
  "name": "AwesomeMod",
  "author": "Alex",
  "version_number": "1.2.0",
  "website_url": "https://example.com",
  "description": "Does things",
  "dependencies": ["UMM-UMM-1.0.2", "RocketLib-RocketLib-2.4.0"]
}`)

		// when
		manifest, err := metadata.LoadManifest(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "AwesomeMod", manifest.Name())
		assert.Equal(t, "Alex", manifest.Author())
		assert.Equal(t, "1.2.0", manifest.VersionNumber())
		assert.Equal(t, []string{"UMM-UMM-1.0.2", "RocketLib-RocketLib-2.4.0"}, manifest.Dependencies())
	})

	t.Run("should preserve unknown fields across an update", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "manifest.json")
		mustWrite(t, path, `{
  "name": "AwesomeMod",
  "author": "Alex",
  "version_number": "1.2.0",
  "dependencies": [],
  "custom_field": {"kept": true}
}`)
		manifest, err := metadata.LoadManifest(path)
		require.NoError(t, err)

		// when
		manifest.SetVersionNumber("1.3.0")
		manifest.SetDependencies([]string{"UMM-UMM-1.0.2"})
		require.NoError(t, manifest.Save())

		// then
		reloaded, err := metadata.LoadManifest(path)
		require.NoError(t, err)
		assert.Equal(t, "1.3.0", reloaded.VersionNumber())
		assert.Equal(t, []string{"UMM-UMM-1.0.2"}, reloaded.Dependencies())

		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Contains(t, string(data), `"custom_field"`)
	})

	t.Run("should fail on malformed JSON", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "manifest.json")
		mustWrite(t, path, `{broken`)

		// when
		_, err := metadata.LoadManifest(path)

		// then
		assert.Error(t, err)
	})
}

func TestWriteManifest(t *testing.T) {
	t.Parallel()

	t.Run("should write a loadable document", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "manifest.json")

		// when
		err := metadata.WriteManifest(path, domain.Manifest{
			Name:          "AwesomeMod",
			Author:        "Alex",
			VersionNumber: "1.0.0",
			WebsiteURL:    "https://example.com",
			Description:   "Does things",
			Dependencies:  []string{"UMM-UMM-1.0.2"},
		})

		// then
		require.NoError(t, err)
		manifest, loadErr := metadata.LoadManifest(path)
		require.NoError(t, loadErr)
		assert.Equal(t, "AwesomeMod", manifest.Name())
		assert.Equal(t, "1.0.0", manifest.VersionNumber())
		assert.Equal(t, []string{"UMM-UMM-1.0.2"}, manifest.Dependencies())
	})
}

func TestVersionFile(t *testing.T) {
	t.Parallel()

	t.Run("should find Info.json for mods", func(t *testing.T) {
		t.Parallel()

		// given
		modContent := t.TempDir()
		mustWrite(t, filepath.Join(modContent, "Info.json"), `{"Version": "1.0.0"}`)

		// when
		path, ok := metadata.FindVersionFile(modContent, domain.ProjectTypeMod)

		// then
		require.True(t, ok)
		assert.Equal(t, filepath.Join(modContent, "Info.json"), path)
	})

	t.Run("should find the mod.json for bros", func(t *testing.T) {
		t.Parallel()

		// given
		modContent := t.TempDir()
		mustWrite(t, filepath.Join(modContent, "MyBro.mod.json"), `{"Version": "1.0.0"}`)

		// when
		path, ok := metadata.FindVersionFile(modContent, domain.ProjectTypeBro)

		// then
		require.True(t, ok)
		assert.Equal(t, filepath.Join(modContent, "MyBro.mod.json"), path)
	})

	t.Run("should read the Version field leniently", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		valid := filepath.Join(dir, "Info.json")
		malformed := filepath.Join(dir, "broken.json")
		mustWrite(t, valid, `{"Version": "2.1.0"}`)
		mustWrite(t, malformed, `{nope`)

		// when / then
		assert.Equal(t, "2.1.0", metadata.ReadVersion(valid))
		assert.Empty(t, metadata.ReadVersion(malformed))
		assert.Empty(t, metadata.ReadVersion(filepath.Join(dir, "missing.json")))
	})

	t.Run("should sync the version and keep other fields", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "Info.json")
		mustWrite(t, path, `{"Id": "AwesomeMod", "Version": "1.0.0", "DisplayName": "Awesome Mod"}`)

		// when
		changed, err := metadata.SyncVersion(path, "1.1.0")

		// then
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "1.1.0", metadata.ReadVersion(path))
		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Contains(t, string(data), `"DisplayName"`)
	})

	t.Run("should not rewrite an already current file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "Info.json")
		mustWrite(t, path, `{"Version": "1.1.0"}`)
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		// when
		changed, syncErr := metadata.SyncVersion(path, "1.1.0")

		// then
		require.NoError(t, syncErr)
		assert.False(t, changed)
		after, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, before, after)
	})

	t.Run("should fail on a malformed version file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "Info.json")
		mustWrite(t, path, `{broken`)

		// when
		_, err := metadata.SyncVersion(path, "1.0.0")

		// then
		assert.Error(t, err)
	})
}
