package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"studiohub/internal/config"
	"studiohub/internal/events"
	"studiohub/internal/index"
	"studiohub/internal/ledger"
	"studiohub/internal/lifecycle"
	"studiohub/internal/logging"
	"studiohub/internal/queue"
)

// Hub coordinates the resident services and enforces single-instance
// execution per machine.
type Hub struct {
	cfg    *config.Config
	base   *slog.Logger
	logger *slog.Logger
	bus    *events.Bus

	lockPath string
	lock     *flock.Flock

	paper     *ledger.Ledger
	queue     *queue.Store
	lifecycle *lifecycle.Manager

	running   atomic.Bool
	cancelSub func()
	wg        sync.WaitGroup
}

// Status reports hub runtime information.
type Status struct {
	Running      bool
	LockFilePath string
	QueueDBPath  string
	Index        lifecycle.Status
	Paper        ledger.State
}

// New constructs a hub bound to cfg. Nothing is opened or locked until
// Start.
func New(cfg *config.Config, logger *slog.Logger) (*Hub, error) {
	if cfg == nil {
		return nil, errors.New("hub requires a configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockFilePath()
	return &Hub{
		cfg:      cfg,
		base:     logger,
		logger:   logging.NewComponentLogger(logger, "hub"),
		bus:      events.NewBus(),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Bus returns the hub event bus. Subscriptions made before Start observe
// the startup rebuild.
func (h *Hub) Bus() *events.Bus {
	return h.bus
}

// Queue returns the print queue store; nil until Start succeeds.
func (h *Hub) Queue() *queue.Store {
	return h.queue
}

// Paper returns the paper ledger; nil until Start succeeds.
func (h *Hub) Paper() *ledger.Ledger {
	return h.paper
}

// Lifecycle returns the index lifecycle manager; nil until Start succeeds.
func (h *Hub) Lifecycle() *lifecycle.Manager {
	return h.lifecycle
}

// Start acquires the machine lock, opens the ledger and queue, and brings
// up the watcher-backed index lifecycle. When scan_on_start is set a full
// rebuild is launched in the background with the startup audit source.
func (h *Hub) Start(ctx context.Context) error {
	if h.running.Load() {
		return errors.New("hub already running")
	}

	if err := h.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := h.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire hub lock: %w", err)
	}
	if !ok {
		return errors.New("another studiohub instance is already running")
	}

	paper, err := ledger.Open(h.cfg.PaperLedgerPath(), h.base, h.bus)
	if err != nil {
		h.unlock()
		return fmt.Errorf("open paper ledger: %w", err)
	}

	store, err := queue.Open(h.cfg)
	if err != nil {
		h.unlock()
		return fmt.Errorf("open print queue: %w", err)
	}

	// Subscribe before the lifecycle starts so the startup rebuild's
	// events land in the log.
	eventCh, cancel := h.bus.Subscribe(64)
	h.cancelSub = cancel
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.logEvents(eventCh)
	}()

	manager := lifecycle.NewManager(h.cfg, index.NewStore(h.cfg.PosterIndexPath()), h.base, h.bus)
	if err := manager.Start(ctx); err != nil {
		cancel()
		h.cancelSub = nil
		h.wg.Wait()
		store.Close()
		h.unlock()
		return fmt.Errorf("start index lifecycle: %w", err)
	}

	h.paper = paper
	h.queue = store
	h.lifecycle = manager
	h.running.Store(true)

	if h.cfg.Indexing.ScanOnStart {
		if err := manager.StartRebuild(index.TriggerStartup); err != nil && !errors.Is(err, lifecycle.ErrRebuildRunning) {
			h.logger.Warn("startup rebuild not launched", logging.Error(err))
		}
	}

	h.logger.Info("hub started",
		logging.String("lock", h.lockPath),
		logging.String("archive_root", h.cfg.Paths.ArchiveRoot),
		logging.String("studio_root", h.cfg.Paths.StudioRoot))
	return nil
}

// Stop tears the services down in reverse start order and releases the
// lock. An in-flight rebuild is waited for, never canceled.
func (h *Hub) Stop() {
	if !h.running.Load() {
		return
	}

	if h.lifecycle != nil {
		h.lifecycle.Stop()
	}
	if h.cancelSub != nil {
		h.cancelSub()
		h.cancelSub = nil
	}
	h.wg.Wait()

	if h.queue != nil {
		if err := h.queue.Close(); err != nil {
			h.logger.Warn("close print queue", logging.Error(err))
		}
	}
	h.unlock()
	h.running.Store(false)
	h.logger.Info("hub stopped")
}

// Close stops the hub and shuts the event bus down.
func (h *Hub) Close() error {
	h.Stop()
	h.bus.Close()
	return nil
}

// Status returns the current hub status snapshot.
func (h *Hub) Status() Status {
	st := Status{
		Running:      h.running.Load(),
		LockFilePath: h.lockPath,
		QueueDBPath:  h.cfg.QueueDBPath(),
	}
	if h.lifecycle != nil {
		st.Index = h.lifecycle.Status()
	}
	if h.paper != nil {
		st.Paper = h.paper.State()
	}
	return st
}

func (h *Hub) unlock() {
	if err := h.lock.Unlock(); err != nil {
		h.logger.Warn("release hub lock", logging.Error(err))
	}
}

// logEvents turns bus traffic into hub log lines until the subscription is
// canceled.
func (h *Hub) logEvents(ch <-chan events.Event) {
	for evt := range ch {
		switch evt.Kind {
		case events.KindRebuildStarted:
			h.logger.Info("index rebuild started",
				logging.String(logging.FieldSource, evt.Source))
		case events.KindRebuildFinished:
			h.logger.Info("index rebuild finished",
				logging.String(logging.FieldSource, evt.Source),
				logging.Int("archive_count", evt.Archive),
				logging.Int("studio_count", evt.Studio),
				logging.Duration("duration", evt.Duration))
		case events.KindRebuildErrored:
			h.logger.Warn("index rebuild failed",
				logging.String(logging.FieldSource, evt.Source),
				logging.String("error", evt.Err))
		case events.KindPosterUpdated:
			h.logger.Info("poster reindexed",
				logging.String(logging.FieldSource, evt.Source),
				logging.String(logging.FieldPoster, evt.Poster))
		case events.KindPaperChanged:
			h.logger.Info("paper state changed",
				logging.String("paper_name", evt.PaperName),
				logging.Float64("remaining_ft", evt.PaperFt))
		default:
			h.logger.Info("hub event", logging.String("kind", string(evt.Kind)))
		}
	}
}
