package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const mtimeCacheVersion = 1

// MtimeCache maps poster folder paths to their last-seen fingerprints. It
// sits beside the index and lets the watcher skip rescans of unchanged
// folders.
type MtimeCache struct {
	Version int              `json:"version"`
	Dirs    map[string]int64 `json:"dirs"`
}

// NewMtimeCache returns an empty cache.
func NewMtimeCache() *MtimeCache {
	return &MtimeCache{Version: mtimeCacheVersion, Dirs: map[string]int64{}}
}

// LoadMtimeCache reads the fingerprint cache at path. Missing or unreadable
// caches start fresh; the next rebuild repopulates them.
func LoadMtimeCache(path string) *MtimeCache {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewMtimeCache()
	}
	var cache MtimeCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return NewMtimeCache()
	}
	if cache.Version != mtimeCacheVersion || cache.Dirs == nil {
		return NewMtimeCache()
	}
	return &cache
}

// Save writes the cache to path.
func (c *MtimeCache) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mtime cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write mtime cache: %w", err)
	}
	return nil
}
