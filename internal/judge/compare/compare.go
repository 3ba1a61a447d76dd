// Package compare implements the deterministic output comparator used by the
// judge. Output is normalized before comparison: every line is trimmed and
// blank lines are dropped, so trailing whitespace and stray newlines never
// decide a verdict.
package compare

import (
	"sort"
	"strings"
)

// Normalize splits text into trimmed, non-empty lines, preserving order.
func Normalize(text string) []string {
	rawLines := strings.Split(text, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

// NormalizeText returns the normalized form of text joined back with newlines.
// Used for the expected/actual payload of a wrong-answer verdict.
func NormalizeText(text string) string {
	return strings.Join(Normalize(text), "\n")
}

// Equal reports whether expected and actual match after normalization.
//
// With unordered=false the normalized line sequences must be identical,
// including order and duplicate counts. With unordered=true the sorted line
// sequences must be identical: line order is ignored but per-line multiplicity
// still matters, so this is stricter than set equality.
func Equal(expected, actual string, unordered bool) bool {
	expectedLines := Normalize(expected)
	actualLines := Normalize(actual)

	if unordered {
		expectedLines = sortedCopy(expectedLines)
		actualLines = sortedCopy(actualLines)
	}

	if len(expectedLines) != len(actualLines) {
		return false
	}
	for i := range expectedLines {
		if expectedLines[i] != actualLines[i] {
			return false
		}
	}
	return true
}

func sortedCopy(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	sort.Strings(out)
	return out
}
