package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"studiohub/internal/config"
	"studiohub/internal/logging"
)

// dirtyOps are the operations that mark a poster dirty. Chmod-only
// events are ignored because they carry no content change.
const dirtyOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher observes both content roots recursively and emits debounced
// poster paths on Dirty. Directories created while the watcher runs are
// added to the watch set so nested size and background folders keep
// routing events up to their poster ancestor.
type Watcher struct {
	archiveRoot string
	studioRoot  string
	delay       time.Duration
	logger      *slog.Logger

	mu      sync.Mutex
	running bool
	fw      *fsnotify.Watcher
	deb     *Debouncer
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	outMu  sync.Mutex
	out    chan string
	closed bool
}

// New constructs a watcher for the configured content roots. The
// watcher does not touch the filesystem until Start.
func New(cfg *config.Config, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	delay := time.Duration(cfg.Indexing.DebounceMS) * time.Millisecond
	if delay <= 0 {
		delay = config.DefaultDebounceMS * time.Millisecond
	}
	return &Watcher{
		archiveRoot: filepath.Clean(cfg.Paths.ArchiveRoot),
		studioRoot:  filepath.Clean(cfg.Paths.StudioRoot),
		delay:       delay,
		logger:      logging.NewComponentLogger(logger, "watcher"),
		out:         make(chan string, 64),
	}
}

// Dirty returns the channel of debounced poster paths. The channel is
// closed by Stop.
func (w *Watcher) Dirty() <-chan string {
	return w.out
}

// Start registers both roots recursively and begins delivering dirty
// signals. It fails if either root cannot be watched.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	if err := w.addTree(fw, w.archiveRoot); err != nil {
		fw.Close()
		return fmt.Errorf("watch archive root: %w", err)
	}
	if err := w.addTree(fw, w.studioRoot); err != nil {
		fw.Close()
		return fmt.Errorf("watch studio root: %w", err)
	}
	w.fw = fw

	w.deb = NewDebouncer(w.delay, w.emit)
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	go w.run(runCtx, fw)

	w.logger.Info("watcher started",
		logging.String("archive_root", w.archiveRoot),
		logging.String("studio_root", w.studioRoot),
		logging.Duration("debounce", w.delay),
	)
	return nil
}

// Stop halts event delivery, waits for the run loop to exit, and closes
// the Dirty channel. A stopped watcher cannot be restarted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	fw := w.fw
	deb := w.deb
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	fw.Close()
	w.wg.Wait()
	deb.Stop()

	w.outMu.Lock()
	if !w.closed {
		w.closed = true
		close(w.out)
	}
	w.outMu.Unlock()
}

func (w *Watcher) run(ctx context.Context, fw *fsnotify.Watcher) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleEvent(fw, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("filesystem watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Op&dirtyOps == 0 {
		return
	}
	if poster, ok := w.resolvePosterRoot(event.Name); ok {
		w.deb.Mark(poster)
	}
	// New directories need their own watches before events inside them
	// can be observed.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(fw, event.Name); err != nil {
				w.logger.Warn("watch new directory failed",
					logging.String("path", event.Name),
					logging.Error(err),
				)
			}
		}
	}
}

// resolvePosterRoot walks the path upward until its parent is one of
// the watched roots. Events anywhere inside a poster folder resolve to
// the folder itself; events outside both roots resolve to nothing.
func (w *Watcher) resolvePosterRoot(path string) (string, bool) {
	current := filepath.Clean(path)
	for {
		parent := filepath.Dir(current)
		if parent == w.archiveRoot || parent == w.studioRoot {
			return current, true
		}
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// addTree registers root and every directory beneath it. Subdirectories
// that vanish mid-walk are skipped; only a failure on the root itself
// aborts registration.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("watch directory failed",
				logging.String("path", path),
				logging.Error(err),
			)
		}
		return nil
	})
}

func (w *Watcher) emit(paths []string) {
	w.outMu.Lock()
	defer w.outMu.Unlock()
	if w.closed {
		return
	}
	for _, path := range paths {
		select {
		case w.out <- path:
		default:
			w.logger.Warn("dropping poster dirty signal; consumer is behind",
				logging.String(logging.FieldPoster, path),
			)
		}
	}
}
