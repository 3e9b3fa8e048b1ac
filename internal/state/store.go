package state

// Store persists fingerprint records and the exclusion set between runs.
// Implementations must treat missing state as empty, never as an error, and
// must make saves atomic from the caller's perspective: either the full
// snapshot lands or the previous one is left untouched.
type Store interface {
	// LoadFingerprints returns the persisted fingerprint record for a module,
	// or an empty map when none has been saved yet.
	LoadFingerprints(module string) (map[string]string, error)

	// SaveFingerprints overwrites the persisted fingerprint record for a module.
	SaveFingerprints(module string, fingerprints map[string]string) error

	// LoadExclusions returns the persisted exclusion set. On first use the
	// empty set is persisted so subsequent runs see a stable starting point.
	LoadExclusions() ([]string, error)

	// SaveExclusions overwrites the persisted exclusion set.
	SaveExclusions(names []string) error

	// Close releases any resources held by the store.
	Close() error
}
