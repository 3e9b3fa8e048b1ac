package render

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// ExclusionSet decides which declaration names are omitted from rendering.
// Entries are exact names or glob patterns (`_*` hides underscore-prefixed
// helpers, for example). Exclusion only affects rendering: excluded
// declarations still contribute fingerprints.
type ExclusionSet struct {
	names    map[string]bool
	patterns []glob.Glob
}

// NewExclusionSet compiles the exclusion entries.
func NewExclusionSet(entries []string) (*ExclusionSet, error) {
	set := &ExclusionSet{
		names: make(map[string]bool),
	}
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		if !strings.ContainsAny(entry, "*?[{") {
			set.names[entry] = true
			continue
		}
		g, err := glob.Compile(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid exclusion pattern %q: %w", entry, err)
		}
		set.patterns = append(set.patterns, g)
	}
	return set, nil
}

// Excluded reports whether a declaration name is excluded.
func (e *ExclusionSet) Excluded(name string) bool {
	if e == nil {
		return false
	}
	if e.names[name] {
		return true
	}
	for _, g := range e.patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}
