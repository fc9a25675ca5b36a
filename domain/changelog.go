package domain

import (
	"regexp"
	"strings"
)

// headerPattern matches a changelog version header line: "##", optional "v",
// exactly three dot-separated integers, then whatever trails the number
// (colon, unreleased marker, prose).
var headerPattern = regexp.MustCompile(`^##\s*v?(\d+\.\d+\.\d+)(.*)$`)

// unreleasedMarkerPattern matches the "(unreleased)" annotation after a
// version header, keeping the header itself (including an optional colon).
var unreleasedMarkerPattern = regexp.MustCompile(`(?i)(##\s*v?\d+\.\d+\.\d+:?)\s*\(unreleased\)`)

// ChangelogSection is the most recent section of a changelog document: the
// in-progress version, whether it still carries the unreleased marker, and
// its bullet entries. The zero value means "no parseable header".
type ChangelogSection struct {
	Version    string
	Unreleased bool
	Entries    []string
}

// ParseChangelog reads the first version section of a changelog document.
// Only the first matching header is load-bearing; entry lines are the "-"
// bullets up to the next header or end of text. A document without a header
// yields the zero section, never an error.
func ParseChangelog(text string) ChangelogSection {
	lines := strings.Split(text, "\n")

	start := -1
	var section ChangelogSection
	for i, line := range lines {
		m := headerPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		section.Version = m[1]
		section.Unreleased = strings.Contains(strings.ToLower(m[2]), "unreleased")
		start = i
		break
	}
	if start < 0 {
		return ChangelogSection{}
	}

	for _, line := range lines[start+1:] {
		if strings.HasPrefix(line, "## ") || headerPattern.MatchString(line) {
			break
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") {
			section.Entries = append(section.Entries, trimmed)
		}
	}
	return section
}

// StripUnreleased removes the "(unreleased)" marker from every version
// header, case-insensitively, preserving the rest of the header line.
// Applying it twice equals applying it once.
func StripUnreleased(text string) string {
	return unreleasedMarkerPattern.ReplaceAllString(text, "$1")
}

// AddChangelogEntry inserts "- entry" directly after the unreleased version
// header. It reports false when the document has no unreleased section.
// This is the one append-style edit in the tool; everything else rewrites
// whole files.
func AddChangelogEntry(text, entry string) (string, bool) {
	if !ParseChangelog(text).Unreleased {
		return text, false
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "##") && strings.Contains(strings.ToLower(line), "unreleased") {
			updated := make([]string, 0, len(lines)+1)
			updated = append(updated, lines[:i+1]...)
			updated = append(updated, "- "+entry)
			updated = append(updated, lines[i+1:]...)
			return strings.Join(updated, "\n"), true
		}
	}
	return text, false
}
