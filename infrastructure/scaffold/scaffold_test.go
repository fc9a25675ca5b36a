package scaffold_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broforce-mods/broforce-tools/infrastructure/scaffold"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCopyTree(t *testing.T) {
	t.Parallel()

	t.Run("should copy the tree and skip editor state", func(t *testing.T) {
		t.Parallel()

		// given
		src := t.TempDir()
		mustWrite(t, filepath.Join(src, "Template.csproj"), "<Project/>")
		mustWrite(t, filepath.Join(src, "src", "Main.cs"), "class Main {}")
		mustWrite(t, filepath.Join(src, ".vs", "state.json"), "{}")
		mustWrite(t, filepath.Join(src, "Template.csproj.user"), "local")
		mustWrite(t, filepath.Join(src, "Template.suo"), "local")
		dst := filepath.Join(t.TempDir(), "copy")

		// when
		err := scaffold.CopyTree(src, dst)

		// then
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dst, "Template.csproj"))
		assert.FileExists(t, filepath.Join(dst, "src", "Main.cs"))
		assert.NoDirExists(t, filepath.Join(dst, ".vs"))
		assert.NoFileExists(t, filepath.Join(dst, "Template.csproj.user"))
		assert.NoFileExists(t, filepath.Join(dst, "Template.suo"))
	})
}

func TestRenameAll(t *testing.T) {
	t.Parallel()

	t.Run("should rename placeholder files and directories recursively", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		mustWrite(t, filepath.Join(root, "Template", "Template.csproj"), "<Project/>")
		mustWrite(t, filepath.Join(root, "Template", "Template", "Template.cs"), "class Template {}")
		mustWrite(t, filepath.Join(root, "Template.sln"), "sln")

		// when
		err := scaffold.RenameAll(root, "Template", "MyMod")

		// then
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(root, "MyMod", "MyMod.csproj"))
		assert.FileExists(t, filepath.Join(root, "MyMod", "MyMod", "MyMod.cs"))
		assert.FileExists(t, filepath.Join(root, "MyMod.sln"))
	})

	t.Run("should keep multi-part extensions intact", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		mustWrite(t, filepath.Join(root, "Template.mod.json"), "{}")

		// when
		err := scaffold.RenameAll(root, "Template", "MyBro")

		// then
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(root, "MyBro.mod.json"))
	})
}

func TestReplaceInFiles(t *testing.T) {
	t.Parallel()

	t.Run("should replace only in files matching the pattern", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		mustWrite(t, filepath.Join(root, "Mod.cs"), "namespace Template {}")
		mustWrite(t, filepath.Join(root, "notes.txt"), "Template stays")

		// when
		err := scaffold.ReplaceInFiles(root, "Template", "MyMod", "*.cs")

		// then
		require.NoError(t, err)
		code, readErr := os.ReadFile(filepath.Join(root, "Mod.cs"))
		require.NoError(t, readErr)
		assert.Equal(t, "namespace MyMod {}", string(code))

		notes, readErr := os.ReadFile(filepath.Join(root, "notes.txt"))
		require.NoError(t, readErr)
		assert.Equal(t, "Template stays", string(notes))
	})
}
