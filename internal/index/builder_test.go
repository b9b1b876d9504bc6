package index_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"studiohub/internal/events"
	"studiohub/internal/index"
)

type indexFixture struct {
	archiveRoot string
	studioRoot  string
	store       *index.Store
	cachePath   string
}

func newIndexFixture(t *testing.T) indexFixture {
	t.Helper()
	base := t.TempDir()
	fx := indexFixture{
		archiveRoot: filepath.Join(base, "archive"),
		studioRoot:  filepath.Join(base, "studio"),
		store:       index.NewStore(filepath.Join(base, "cache", "poster_index.json")),
		cachePath:   filepath.Join(base, "cache", "poster_mtime_cache.json"),
	}
	if err := os.MkdirAll(fx.archiveRoot, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(fx.studioRoot, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return fx
}

func (fx indexFixture) builder() *index.Builder {
	return index.NewBuilder(fx.archiveRoot, fx.studioRoot, fx.store, fx.cachePath, nil)
}

func (fx indexFixture) updater(bus *events.Bus) *index.Updater {
	return index.NewUpdater(fx.archiveRoot, fx.studioRoot, fx.store, fx.cachePath, nil, bus)
}

func TestBuilderRebuildIndexesBothRoots(t *testing.T) {
	fx := newIndexFixture(t)
	buildPosterFixture(t, fx.archiveRoot, "Anatomical_Body")
	buildPosterFixture(t, fx.archiveRoot, "NASA_Launch_Tower")
	buildPosterFixture(t, fx.studioRoot, "RAM_GetYourShit")
	// Loose files directly under a root are not posters.
	writeTestFile(t, filepath.Join(fx.archiveRoot, "stray.txt"))

	result, err := fx.builder().Rebuild()
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if result.Archive != 2 || result.Studio != 1 {
		t.Fatalf("counts = (%d, %d), want (2, 1)", result.Archive, result.Studio)
	}

	loaded, err := fx.store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	poster, ok := loaded.Posters[index.SourceArchive]["Anatomical_Body"]
	if !ok {
		t.Fatal("archive poster missing from saved index")
	}
	if poster.Mtime == 0 {
		t.Error("poster fingerprint not recorded")
	}
	if _, err := time.Parse(index.GeneratedAtLayout, loaded.GeneratedAt); err != nil {
		t.Errorf("generated_at %q: %v", loaded.GeneratedAt, err)
	}

	cache := index.LoadMtimeCache(fx.cachePath)
	if len(cache.Dirs) != 3 {
		t.Errorf("cache dirs = %d, want 3", len(cache.Dirs))
	}
}

func TestBuilderToleratesMissingRoot(t *testing.T) {
	fx := newIndexFixture(t)
	buildPosterFixture(t, fx.archiveRoot, "Only_Archive")
	if err := os.RemoveAll(fx.studioRoot); err != nil {
		t.Fatalf("remove studio root: %v", err)
	}

	result, err := fx.builder().Rebuild()
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if result.Archive != 1 || result.Studio != 0 {
		t.Fatalf("counts = (%d, %d), want (1, 0)", result.Archive, result.Studio)
	}
}

func TestUpdaterSkipsUnchangedPoster(t *testing.T) {
	fx := newIndexFixture(t)
	posterDir := buildPosterFixture(t, fx.archiveRoot, "Steady")

	if _, err := fx.builder().Rebuild(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	key, changed, err := fx.updater(nil).ReindexPoster(posterDir)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if changed {
		t.Fatal("unchanged poster should be skipped via fingerprint cache")
	}
	if key != "Steady" {
		t.Errorf("key = %q, want Steady", key)
	}
}

func TestUpdaterReindexesChangedPoster(t *testing.T) {
	fx := newIndexFixture(t)
	posterDir := buildPosterFixture(t, fx.archiveRoot, "Evolving")

	if _, err := fx.builder().Rebuild(); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	// A new print landing later moves the fingerprint.
	newFile := filepath.Join(posterDir, "PRINT", "24x36", "Evolving_Blueprint.tif")
	writeTestFile(t, newFile)
	future := time.Now().Add(5 * time.Second)
	if err := os.Chtimes(newFile, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	bus := events.NewBus()
	defer bus.Close()
	ch, cancel := bus.Subscribe(4)
	defer cancel()

	key, changed, err := fx.updater(bus).ReindexPoster(posterDir)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if !changed || key != "Evolving" {
		t.Fatalf("reindex = (%q, %v), want (Evolving, true)", key, changed)
	}

	loaded, err := fx.store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	poster := loaded.Posters[index.SourceArchive]["Evolving"]
	if _, ok := poster.Sizes["24x36"].Backgrounds["Blueprint"]; !ok {
		t.Errorf("24x36 record not refreshed: %+v", poster.Sizes["24x36"])
	}

	select {
	case evt := <-ch:
		if evt.Kind != events.KindPosterUpdated || evt.Poster != "Evolving" || evt.Source != index.SourceArchive {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for poster_updated event")
	}
}

func TestUpdaterIgnoresForeignPaths(t *testing.T) {
	fx := newIndexFixture(t)
	foreign := filepath.Join(t.TempDir(), "Elsewhere")
	if err := os.MkdirAll(foreign, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, changed, err := fx.updater(nil).ReindexPoster(foreign)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if changed {
		t.Fatal("paths outside both roots must not be indexed")
	}
}

func TestUpdaterWorksWithoutPriorIndex(t *testing.T) {
	fx := newIndexFixture(t)
	posterDir := buildPosterFixture(t, fx.archiveRoot, "Fresh")

	key, changed, err := fx.updater(nil).ReindexPoster(posterDir)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if !changed || key != "Fresh" {
		t.Fatalf("reindex = (%q, %v), want (Fresh, true)", key, changed)
	}

	loaded, err := fx.store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := loaded.Posters[index.SourceArchive]["Fresh"]; !ok {
		t.Fatal("poster missing from index written by updater")
	}
}
