package watch_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"studiohub/internal/config"
	"studiohub/internal/logging"
	"studiohub/internal/watch"
)

func newWatcherConfig(t *testing.T, debounceMS int) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ArchiveRoot = filepath.Join(base, "Archive")
	cfg.Paths.StudioRoot = filepath.Join(base, "Studio")
	cfg.Paths.RuntimeRoot = filepath.Join(base, "Runtime")
	cfg.Paths.PrintJobsRoot = filepath.Join(base, "PrintJobs")
	cfg.Paths.CacheDir = filepath.Join(base, "cache")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Indexing.DebounceMS = debounceMS
	for _, dir := range []string{cfg.Paths.ArchiveRoot, cfg.Paths.StudioRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return &cfg
}

func waitForDirty(t *testing.T, ch <-chan string, timeout time.Duration) string {
	t.Helper()
	select {
	case path, ok := <-ch:
		if !ok {
			t.Fatalf("dirty channel closed before a signal arrived")
		}
		return path
	case <-time.After(timeout):
		t.Fatalf("timed out after %s waiting for dirty signal", timeout)
	}
	return ""
}

func TestWatcherCoalescesFileBurst(t *testing.T) {
	cfg := newWatcherConfig(t, 150)
	poster := filepath.Join(cfg.Paths.ArchiveRoot, "Apollo_Program")
	if err := os.MkdirAll(filepath.Join(poster, "PRINT", "12x18"), 0o755); err != nil {
		t.Fatalf("mkdir poster: %v", err)
	}

	watcher := watch.New(cfg, logging.NewNop())
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer watcher.Stop()

	for i := 0; i < 50; i++ {
		name := filepath.Join(poster, "PRINT", "12x18", fmt.Sprintf("apollo_%d.tif", i%5))
		if err := os.WriteFile(name, []byte("tile"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	got := waitForDirty(t, watcher.Dirty(), 5*time.Second)
	if got != poster {
		t.Fatalf("dirty signal = %q, want %q", got, poster)
	}

	select {
	case extra, ok := <-watcher.Dirty():
		if ok {
			t.Fatalf("burst produced a second dirty signal: %q", extra)
		}
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcherSignalsNewPosterFolder(t *testing.T) {
	cfg := newWatcherConfig(t, 100)

	watcher := watch.New(cfg, logging.NewNop())
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer watcher.Stop()

	poster := filepath.Join(cfg.Paths.StudioRoot, "CS2_Dust2")
	if err := os.MkdirAll(filepath.Join(poster, "WEB"), 0o755); err != nil {
		t.Fatalf("mkdir poster: %v", err)
	}

	got := waitForDirty(t, watcher.Dirty(), 5*time.Second)
	if got != poster {
		t.Fatalf("dirty signal = %q, want %q", got, poster)
	}
}

func TestWatcherSignalsRemovedPoster(t *testing.T) {
	cfg := newWatcherConfig(t, 100)
	poster := filepath.Join(cfg.Paths.ArchiveRoot, "Moon_Map")
	if err := os.MkdirAll(filepath.Join(poster, "MASTER"), 0o755); err != nil {
		t.Fatalf("mkdir poster: %v", err)
	}
	if err := os.WriteFile(filepath.Join(poster, "MASTER", "moon.psd"), []byte("psd"), 0o644); err != nil {
		t.Fatalf("write master: %v", err)
	}

	watcher := watch.New(cfg, logging.NewNop())
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer watcher.Stop()

	if err := os.RemoveAll(poster); err != nil {
		t.Fatalf("remove poster: %v", err)
	}

	got := waitForDirty(t, watcher.Dirty(), 5*time.Second)
	if got != poster {
		t.Fatalf("dirty signal = %q, want %q", got, poster)
	}
}

func TestWatcherStartWhileRunningFails(t *testing.T) {
	cfg := newWatcherConfig(t, 100)

	watcher := watch.New(cfg, logging.NewNop())
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer watcher.Stop()

	if err := watcher.Start(context.Background()); err == nil {
		t.Fatalf("expected error starting a running watcher")
	}
}

func TestWatcherStartMissingRootFails(t *testing.T) {
	cfg := newWatcherConfig(t, 100)
	if err := os.RemoveAll(cfg.Paths.ArchiveRoot); err != nil {
		t.Fatalf("remove archive root: %v", err)
	}

	watcher := watch.New(cfg, logging.NewNop())
	if err := watcher.Start(context.Background()); err == nil {
		watcher.Stop()
		t.Fatalf("expected error watching missing archive root")
	}
}

func TestWatcherStopClosesDirtyChannel(t *testing.T) {
	cfg := newWatcherConfig(t, 100)

	watcher := watch.New(cfg, logging.NewNop())
	if err := watcher.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	watcher.Stop()

	select {
	case _, ok := <-watcher.Dirty():
		if ok {
			t.Fatalf("expected dirty channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatalf("dirty channel still open after Stop")
	}

	// A second Stop is a no-op.
	watcher.Stop()
}
