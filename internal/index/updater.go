package index

import (
	"log/slog"
	"path/filepath"
	"sync"

	"studiohub/internal/events"
	"studiohub/internal/logging"
)

// Updater applies watcher-driven incremental updates: it rescans a single
// poster folder and patches the cached index in place, skipping folders
// whose fingerprints have not moved.
type Updater struct {
	archiveRoot string
	studioRoot  string
	store       *Store
	cachePath   string
	logger      *slog.Logger
	bus         *events.Bus

	mu    sync.Mutex
	idx   *Index
	cache *MtimeCache
}

// NewUpdater wires an incremental updater against the same files the builder
// writes.
func NewUpdater(archiveRoot, studioRoot string, store *Store, cachePath string, logger *slog.Logger, bus *events.Bus) *Updater {
	return &Updater{
		archiveRoot: filepath.Clean(archiveRoot),
		studioRoot:  filepath.Clean(studioRoot),
		store:       store,
		cachePath:   cachePath,
		logger:      logging.NewComponentLogger(logger, "index"),
		bus:         bus,
	}
}

// Invalidate drops the in-memory index so the next update reloads from disk.
// Call it after a full rebuild replaces the file underneath this updater.
func (u *Updater) Invalidate() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.idx = nil
	u.cache = nil
}

// ReindexPoster rescans one poster folder. It returns the poster key and
// true when the index changed, or false when the folder was unchanged or does
// not belong to either content root.
func (u *Updater) ReindexPoster(posterPath string) (string, bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	posterPath = filepath.Clean(posterPath)

	if u.idx == nil {
		idx, err := u.store.Load()
		if err != nil {
			return "", false, err
		}
		u.idx = idx
	}
	if u.cache == nil {
		u.cache = LoadMtimeCache(u.cachePath)
	}

	key := filepath.Base(posterPath)
	fingerprint := Fingerprint(posterPath)

	if cached, ok := u.cache.Dirs[posterPath]; ok && cached == fingerprint {
		return key, false, nil
	}

	source := u.resolveSource(posterPath)
	if source == "" {
		return key, false, nil
	}

	poster := ScanPoster(posterPath)
	poster.Mtime = fingerprint

	u.idx.Posters[source][key] = poster
	Stamp(u.idx)
	u.cache.Dirs[posterPath] = fingerprint

	if err := u.store.Save(u.idx); err != nil {
		return key, false, err
	}
	if err := u.cache.Save(u.cachePath); err != nil {
		return key, false, err
	}

	u.logger.Debug("poster reindexed",
		logging.String(logging.FieldSource, source),
		logging.String(logging.FieldPoster, key))
	if u.bus != nil {
		u.bus.Publish(events.Event{
			Kind:   events.KindPosterUpdated,
			Source: source,
			Poster: key,
		})
	}
	return key, true, nil
}

// Counts reports the per-source poster counts of the cached index, or zeros
// when no index has been loaded yet.
func (u *Updater) Counts() (archive, studio int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.idx == nil {
		return 0, 0
	}
	return u.idx.Counts()
}

// resolveSource maps a poster folder to its content root. Only direct
// children of a root count as posters.
func (u *Updater) resolveSource(posterPath string) string {
	parent := filepath.Dir(posterPath)
	switch parent {
	case u.archiveRoot:
		return SourceArchive
	case u.studioRoot:
		return SourceStudio
	}
	return ""
}
