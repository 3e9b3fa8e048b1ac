package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const exclusionsFile = "exclusions.json"

// JSONStore persists state as JSON snapshot files in a state directory:
// one `<module>.checksums.json` per module plus a shared `exclusions.json`.
type JSONStore struct {
	dir string
}

// NewJSONStore creates a JSON store rooted at dir, creating it if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}
	return &JSONStore{dir: dir}, nil
}

// LoadFingerprints implements Store. A missing snapshot is an empty record.
func (s *JSONStore) LoadFingerprints(module string) (map[string]string, error) {
	path := s.fingerprintPath(module)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read fingerprint snapshot %s: %w", path, err)
	}

	fingerprints := map[string]string{}
	if err := json.Unmarshal(data, &fingerprints); err != nil {
		return nil, fmt.Errorf("failed to decode fingerprint snapshot %s: %w", path, err)
	}
	return fingerprints, nil
}

// SaveFingerprints implements Store. The snapshot is written to a temporary
// file and renamed, so a crash mid-write cannot corrupt the previous one.
func (s *JSONStore) SaveFingerprints(module string, fingerprints map[string]string) error {
	data, err := json.MarshalIndent(fingerprints, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode fingerprints for %s: %w", module, err)
	}
	return atomicWrite(s.fingerprintPath(module), data)
}

// LoadExclusions implements Store. On first use the empty list is persisted
// so the file exists going forward.
func (s *JSONStore) LoadExclusions() ([]string, error) {
	path := filepath.Join(s.dir, exclusionsFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if saveErr := s.SaveExclusions([]string{}); saveErr != nil {
				return nil, saveErr
			}
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read exclusion list %s: %w", path, err)
	}

	names := []string{}
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to decode exclusion list %s: %w", path, err)
	}
	return names, nil
}

// SaveExclusions implements Store.
func (s *JSONStore) SaveExclusions(names []string) error {
	if names == nil {
		names = []string{}
	}
	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode exclusion list: %w", err)
	}
	return atomicWrite(filepath.Join(s.dir, exclusionsFile), data)
}

// Close implements Store. JSON snapshots hold no open resources.
func (s *JSONStore) Close() error {
	return nil
}

// fingerprintPath derives the snapshot file name from the module identity.
func (s *JSONStore) fingerprintPath(module string) string {
	base := strings.ReplaceAll(filepath.Base(module), " ", "_")
	return filepath.Join(s.dir, base+".checksums.json")
}

// atomicWrite writes data to path via a temporary file and rename.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
