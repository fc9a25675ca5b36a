package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const maxPackageNameLength = 128

var packageNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Dependency is a parsed Thunderstore dependency string
// "Namespace-PackageName-Version". The split is on the *last* hyphen only:
// namespace and package names may themselves contain hyphens, versions may
// not. A package name ending in a numeric segment would misparse under this
// rule; that is a structural assumption of the Thunderstore string format,
// preserved here rather than tightened.
type Dependency struct {
	// Prefix is "Namespace-PackageName-" including the trailing hyphen.
	// It is the identity key for staleness and duplicate checks.
	Prefix  string
	Version string
}

// ParseDependency splits a dependency string on its last hyphen. It reports
// false for strings without any hyphen, which reconciliation passes carry
// through untouched.
func ParseDependency(s string) (Dependency, bool) {
	idx := strings.LastIndex(s, "-")
	if idx < 0 {
		return Dependency{}, false
	}
	return Dependency{Prefix: s[:idx+1], Version: s[idx+1:]}, true
}

// String reassembles the full dependency string.
func (d Dependency) String() string {
	return d.Prefix + d.Version
}

// ValidatePackageName checks a name against Thunderstore naming rules:
// alphanumeric and underscore only, at most 128 characters.
func ValidatePackageName(name string) error {
	if len(name) > maxPackageNameLength {
		return fmt.Errorf("name too long (%d chars, max %d)", len(name), maxPackageNameLength)
	}
	if !packageNamePattern.MatchString(name) {
		return fmt.Errorf("name must contain only alphanumeric characters and underscores")
	}
	return nil
}

// SanitizePackageName converts a free-form project name into a valid package
// name: spaces become underscores, everything else invalid is dropped.
func SanitizePackageName(name string) string {
	return invalidNameChars.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), "")
}

// DependencyUpdate is one staged replacement of an outdated entry.
type DependencyUpdate struct {
	Old string
	New string
}

// PlanOutdatedDependencies walks a manifest dependency list against the
// registry's current dependency strings and stages a replacement for every
// entry whose prefix matches a registry entry but whose version differs.
// Resolved is the full list with replacements applied, order preserved.
// Running the plan against an already-reconciled list stages nothing.
func PlanOutdatedDependencies(current, latest []string) (resolved []string, updates []DependencyUpdate) {
	resolved = make([]string, 0, len(current))
	for _, dep := range current {
		parsed, ok := ParseDependency(dep)
		if !ok {
			resolved = append(resolved, dep)
			continue
		}

		matched := false
		for _, latestDep := range latest {
			if !strings.HasPrefix(latestDep, parsed.Prefix) {
				continue
			}
			if dep != latestDep {
				updates = append(updates, DependencyUpdate{Old: dep, New: latestDep})
				resolved = append(resolved, latestDep)
			} else {
				resolved = append(resolved, dep)
			}
			matched = true
			break
		}
		if !matched {
			resolved = append(resolved, dep)
		}
	}
	return resolved, updates
}

// PlanMissingDependencies returns the detected dependencies absent from the
// manifest list, in detection order.
func PlanMissingDependencies(current, detected []string) []string {
	have := make(map[string]bool, len(current))
	for _, dep := range current {
		have[dep] = true
	}

	var missing []string
	for _, dep := range detected {
		if !have[dep] {
			missing = append(missing, dep)
		}
	}
	return missing
}
