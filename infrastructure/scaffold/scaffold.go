// Package scaffold instantiates project templates: copying template trees
// and rewriting the placeholder names baked into file names, directory
// names and file contents.
package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CopyTree copies a directory tree, skipping Visual Studio user state
// (.vs directories, *.suo and *.user files). Existing destination files are
// overwritten.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := entry.Name()
		if entry.IsDir() && name == ".vs" {
			return filepath.SkipDir
		}
		if !entry.IsDir() && (strings.HasSuffix(name, ".suo") || strings.HasSuffix(name, ".user")) {
			return nil
		}

		rel, relErr := filepath.Rel(src, path)
		if relErr != nil {
			return relErr
		}
		target := filepath.Join(dst, rel)

		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

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

// RenameAll renames every file named "find.*" and every directory named
// "find" under root to use replace instead. Directories are renamed
// bottom-up so paths stay valid while walking.
func RenameAll(root, find, replace string) error {
	var files, dirs []string
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}
		if entry.IsDir() {
			if entry.Name() == find {
				dirs = append(dirs, path)
			}
			return nil
		}
		if strings.HasPrefix(entry.Name(), find+".") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range files {
		suffix := strings.TrimPrefix(filepath.Base(path), find)
		target := filepath.Join(filepath.Dir(path), replace+suffix)
		if renameErr := os.Rename(path, target); renameErr != nil {
			return fmt.Errorf("failed to rename %q: %w", path, renameErr)
		}
	}

	// Deepest first, so renaming a parent never invalidates a child path.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, path := range dirs {
		target := filepath.Join(filepath.Dir(path), replace)
		if renameErr := os.Rename(path, target); renameErr != nil {
			return fmt.Errorf("failed to rename %q: %w", path, renameErr)
		}
	}
	return nil
}

// ReplaceInFiles substitutes find with replace in every file under root
// whose name matches the glob pattern.
func ReplaceInFiles(root, find, replace, pattern string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}

		matched, matchErr := filepath.Match(pattern, entry.Name())
		if matchErr != nil {
			return matchErr
		}
		if !matched {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("failed to read %q: %w", path, readErr)
		}
		updated := strings.ReplaceAll(string(data), find, replace)
		if updated == string(data) {
			return nil
		}
		if writeErr := os.WriteFile(path, []byte(updated), 0o644); writeErr != nil {
			return fmt.Errorf("failed to write %q: %w", path, writeErr)
		}
		return nil
	})
}
