package fingerprint

import "sort"

// ChangeSet is the result of comparing the fresh fingerprint record against
// the previously persisted one. Key lists are sorted for stable output.
type ChangeSet struct {
	Added     []string // keys present now but not before
	Removed   []string // keys present before but not now
	Changed   []string // keys present in both with differing hashes
	Unchanged []string // keys present in both with identical hashes
}

// Diff compares the current record to the previous one.
func Diff(current, previous Record) *ChangeSet {
	changes := &ChangeSet{
		Added:     []string{},
		Removed:   []string{},
		Changed:   []string{},
		Unchanged: []string{},
	}

	for key, hash := range current {
		previousHash, ok := previous[key]
		switch {
		case !ok:
			changes.Added = append(changes.Added, key)
		case previousHash != hash:
			changes.Changed = append(changes.Changed, key)
		default:
			changes.Unchanged = append(changes.Unchanged, key)
		}
	}

	for key := range previous {
		if _, ok := current[key]; !ok {
			changes.Removed = append(changes.Removed, key)
		}
	}

	sort.Strings(changes.Added)
	sort.Strings(changes.Removed)
	sort.Strings(changes.Changed)
	sort.Strings(changes.Unchanged)

	return changes
}

// NeedsRegeneration reports whether the document must be regenerated: any
// added, removed, or changed key forces it. Unchanged keys contribute no
// signal.
func (c *ChangeSet) NeedsRegeneration() bool {
	return len(c.Added) > 0 || len(c.Removed) > 0 || len(c.Changed) > 0
}

// Total returns the number of keys considered.
func (c *ChangeSet) Total() int {
	return len(c.Added) + len(c.Removed) + len(c.Changed) + len(c.Unchanged)
}
