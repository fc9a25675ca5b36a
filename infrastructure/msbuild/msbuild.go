// Package msbuild reads the slices of MSBuild project and props files the
// tool cares about: assembly references and shared property values. Parsing
// is namespace-agnostic because projects exist in both the legacy
// (xmlns-carrying) and SDK-style formats.
package msbuild

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FindProjectFile returns the first .csproj found within two directory
// levels of the project root.
func FindProjectFile(projectPath string) (string, bool) {
	var found string
	_ = filepath.WalkDir(projectPath, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable subtrees are skipped, not fatal
		}
		if entry.IsDir() {
			if depth(projectPath, path) > 2 {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(entry.Name(), ".csproj") && found == "" {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found, found != ""
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/") + 1
}

// References returns the Include attribute of every <Reference> element.
func References(csprojPath string) ([]string, error) {
	file, err := os.Open(csprojPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open project file %q: %w", csprojPath, err)
	}
	defer file.Close()

	var refs []string
	decoder := xml.NewDecoder(file)
	for {
		token, tokenErr := decoder.Token()
		if tokenErr == io.EOF {
			break
		}
		if tokenErr != nil {
			return nil, fmt.Errorf("failed to parse project file %q: %w", csprojPath, tokenErr)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "Reference" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "Include" && attr.Value != "" {
				refs = append(refs, attr.Value)
			}
		}
	}
	return refs, nil
}

// HasReference reports whether any reference contains the given assembly
// name. References carry version and key qualifiers, so this is a substring
// match, mirroring how the qualifiers are ignored everywhere else.
func HasReference(refs []string, assembly string) bool {
	for _, ref := range refs {
		if strings.Contains(ref, assembly) {
			return true
		}
	}
	return false
}

// FindPropsFile searches for a props file in startDir and every parent
// directory up to the filesystem root.
func FindPropsFile(startDir, filename string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, filename)
		if _, statErr := os.Stat(path); statErr == nil {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// PropertyValue extracts the first non-empty value of a property from a
// props file, looking inside PropertyGroup elements.
func PropertyValue(propsPath, property string) (string, error) {
	file, err := os.Open(propsPath)
	if err != nil {
		return "", fmt.Errorf("failed to open props file %q: %w", propsPath, err)
	}
	defer file.Close()

	decoder := xml.NewDecoder(file)
	inPropertyGroup := 0
	inProperty := false
	var value strings.Builder

	for {
		token, tokenErr := decoder.Token()
		if tokenErr == io.EOF {
			break
		}
		if tokenErr != nil {
			return "", fmt.Errorf("failed to parse props file %q: %w", propsPath, tokenErr)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "PropertyGroup" {
				inPropertyGroup++
			} else if inPropertyGroup > 0 && t.Name.Local == property {
				inProperty = true
				value.Reset()
			}
		case xml.CharData:
			if inProperty {
				value.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "PropertyGroup" && inPropertyGroup > 0 {
				inPropertyGroup--
			} else if inProperty && t.Name.Local == property {
				inProperty = false
				if trimmed := strings.TrimSpace(value.String()); trimmed != "" {
					return trimmed, nil
				}
			}
		}
	}
	return "", fmt.Errorf("property %q not found in %q", property, propsPath)
}
