package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrCacheVersion reports a poster index written by an incompatible build.
var ErrCacheVersion = errors.New("poster index cache version mismatch")

// legacySourceKeys maps historical source names onto canonical ones. Old
// indexes called the archive source "patents".
var legacySourceKeys = map[string]string{
	"patents": SourceArchive,
}

// Store reads and writes the poster index file.
type Store struct {
	path string
}

// NewStore creates a store for the index at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the index file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the poster index from disk. A missing file yields an empty
// index; a file from another cache version is rejected so stale shapes never
// flow into consumers.
func (s *Store) Load() (*Index, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewIndex(), nil
		}
		return nil, fmt.Errorf("read poster index: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse poster index %s: %w", s.path, err)
	}
	if idx.CacheVersion != CacheVersion {
		return nil, fmt.Errorf("%w: file has version %d, this build requires %d (run 'studiohub index rebuild')",
			ErrCacheVersion, idx.CacheVersion, CacheVersion)
	}

	normalizeSources(&idx)
	return &idx, nil
}

// normalizeSources folds legacy source keys into canonical ones and
// guarantees both canonical sets exist.
func normalizeSources(idx *Index) {
	normalized := map[string]PosterSet{
		SourceArchive: {},
		SourceStudio:  {},
	}
	for rawKey, posters := range idx.Posters {
		key := rawKey
		if canonical, ok := legacySourceKeys[rawKey]; ok {
			key = canonical
		}
		if posters == nil {
			posters = PosterSet{}
		}
		if existing, ok := normalized[key]; ok && len(existing) > 0 {
			for name, poster := range posters {
				existing[name] = poster
			}
			continue
		}
		normalized[key] = posters
	}
	idx.Posters = normalized
}

// Save writes the index atomically: a temp file in the same directory is
// renamed over the target so readers never observe a partial write.
func (s *Store) Save(idx *Index) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encode poster index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write poster index: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace poster index: %w", err)
	}
	return nil
}

// GeneratedAtLayout is the timestamp format stamped into the index.
const GeneratedAtLayout = "2006-01-02T15:04:05"

// Stamp sets the index generation timestamp to now in UTC.
func Stamp(idx *Index) {
	idx.GeneratedAt = time.Now().UTC().Format(GeneratedAtLayout)
}
