package domain

import (
	"strconv"
	"strings"
)

// CompareVersions orders two dotted version strings. An empty string means
// "no version found" and sorts below any present version. Present strings are
// split on ".", compared numerically pairwise, with the shorter side
// zero-padded on the right, so "1.2" and "1.2.0" are equal.
//
// A non-numeric segment makes the comparison return 0 instead of failing.
// This leniency is deliberate: a hand-edited version like "1.2.x" must not
// kill a packaging run, and callers treat "equal" as "nothing to change".
func CompareVersions(a, b string) int {
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}

	partsA, okA := splitVersion(a)
	partsB, okB := splitVersion(b)
	if !okA || !okB {
		return 0
	}

	for len(partsA) < len(partsB) {
		partsA = append(partsA, 0)
	}
	for len(partsB) < len(partsA) {
		partsB = append(partsB, 0)
	}

	for i := range partsA {
		if partsA[i] > partsB[i] {
			return 1
		}
		if partsA[i] < partsB[i] {
			return -1
		}
	}
	return 0
}

func splitVersion(v string) ([]int, bool) {
	segments := strings.Split(v, ".")
	parts := make([]int, 0, len(segments))
	for _, seg := range segments {
		n, err := strconv.Atoi(seg)
		if err != nil {
			return nil, false
		}
		parts = append(parts, n)
	}
	return parts, true
}

// VersionCandidate is one version reading together with the file it came
// from, used for diagnostic messaging when reconciling drifted sources.
type VersionCandidate struct {
	Source  string
	Version string
}

// HighestVersion returns the pairwise-maximum candidate among those with a
// present version, and false when every candidate is absent.
func HighestVersion(candidates []VersionCandidate) (VersionCandidate, bool) {
	var best VersionCandidate
	found := false
	for _, c := range candidates {
		if c.Version == "" {
			continue
		}
		if !found || CompareVersions(c.Version, best.Version) > 0 {
			best = c
			found = true
		}
	}
	return best, found
}
