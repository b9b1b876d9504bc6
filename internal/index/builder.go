package index

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"studiohub/internal/logging"
)

// Builder performs full rebuilds of the poster index from the content roots.
type Builder struct {
	archiveRoot string
	studioRoot  string
	store       *Store
	cachePath   string
	logger      *slog.Logger
}

// BuildResult summarizes one full rebuild.
type BuildResult struct {
	Index    *Index
	Archive  int
	Studio   int
	Duration time.Duration
}

// NewBuilder wires a builder against the given roots and cache locations.
func NewBuilder(archiveRoot, studioRoot string, store *Store, cachePath string, logger *slog.Logger) *Builder {
	return &Builder{
		archiveRoot: archiveRoot,
		studioRoot:  studioRoot,
		store:       store,
		cachePath:   cachePath,
		logger:      logging.NewComponentLogger(logger, "index"),
	}
}

// Rebuild scans both roots, writes the index atomically, and refreshes the
// fingerprint cache.
func (b *Builder) Rebuild() (*BuildResult, error) {
	start := time.Now()
	cache := NewMtimeCache()

	archive, err := b.scanRoot(b.archiveRoot, cache)
	if err != nil {
		return nil, err
	}
	studio, err := b.scanRoot(b.studioRoot, cache)
	if err != nil {
		return nil, err
	}

	idx := NewIndex()
	idx.Posters[SourceArchive] = archive
	idx.Posters[SourceStudio] = studio
	Stamp(idx)

	if err := b.store.Save(idx); err != nil {
		return nil, err
	}
	if err := cache.Save(b.cachePath); err != nil {
		return nil, err
	}

	result := &BuildResult{
		Index:    idx,
		Archive:  len(archive),
		Studio:   len(studio),
		Duration: time.Since(start),
	}
	b.logger.Info("index rebuilt",
		logging.Int("archive", result.Archive),
		logging.Int("studio", result.Studio),
		logging.Duration("duration", result.Duration))
	return result, nil
}

// scanRoot indexes every poster folder directly under root. A missing root
// contributes an empty set rather than an error so half-configured machines
// can still index the other source.
func (b *Builder) scanRoot(root string, cache *MtimeCache) (PosterSet, error) {
	set := PosterSet{}
	if root == "" {
		return set, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return nil, fmt.Errorf("scan root %s: %w", root, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		posterDir := filepath.Join(root, entry.Name())
		poster := ScanPoster(posterDir)
		fingerprint := Fingerprint(posterDir)
		poster.Mtime = fingerprint
		set[entry.Name()] = poster
		cache.Dirs[posterDir] = fingerprint
	}
	return set, nil
}
