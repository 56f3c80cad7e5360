// Package similartext formats a "did you mean" suggestion for an
// unrecognized folder or column name, the way the teacher's own
// internal/similartext package annotates unknown-identifier errors.
package similartext

import (
	"strings"

	"github.com/foliant-db/foliant/internal/text_distance"
)

// closeEnoughDistance bounds how many edits a candidate may be from target
// before it stops being a plausible typo; calibrated to single-character
// mistakes (a transposition, a missing/extra letter).
const closeEnoughDistance = 1

// Find returns a ", maybe you mean X?" (or "X or Y?" for ties) suffix
// naming every candidate in names tied for the smallest edit distance to
// target, or "" if none are within closeEnoughDistance.
func Find(names []string, target string) string {
	return suggest(names, target)
}

// FindFromMap is Find over a map's keys.
func FindFromMap[V any](names map[string]V, target string) string {
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	return suggest(keys, target)
}

func suggest(names []string, target string) string {
	var matches []string
	best := closeEnoughDistance + 1
	for _, name := range names {
		d := text_distance.Distance(target, name)
		switch {
		case d < best:
			best = d
			matches = []string{name}
		case d == best:
			matches = append(matches, name)
		}
	}
	if best > closeEnoughDistance || len(matches) == 0 {
		return ""
	}
	return ", maybe you mean " + strings.Join(matches, " or ") + "?"
}
