package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"studiohub/internal/config"
	"studiohub/internal/events"
	"studiohub/internal/index"
	"studiohub/internal/logging"
	"studiohub/internal/textutil"
	"studiohub/internal/watch"
)

// ErrRebuildRunning reports that a full rebuild was requested while one is
// already in flight. Callers render it as a status, not a failure.
var ErrRebuildRunning = errors.New("index rebuild already running")

// errorDisplayLimit bounds error text on status surfaces and bus events.
const errorDisplayLimit = 48

// Status is a snapshot of the manager's rebuild state.
type Status struct {
	Running      bool
	Message      string
	LastSource   string
	LastStatus   string
	LastError    string
	LastDuration time.Duration
	LastFinished time.Time
	Archive      int
	Studio       int
}

// Manager owns the full-rebuild worker and the watcher-driven incremental
// path.
type Manager struct {
	cfg     *config.Config
	builder *index.Builder
	updater *index.Updater
	audit   *index.AuditLog
	watcher *watch.Watcher
	bus     *events.Bus
	logger  *slog.Logger

	cooldown time.Duration

	mu       sync.Mutex
	running  bool
	started  bool
	recently map[string]time.Time
	status   Status
	wg       sync.WaitGroup
}

// NewManager wires a lifecycle manager against the configured roots and
// cache files.
func NewManager(cfg *config.Config, store *index.Store, logger *slog.Logger, bus *events.Bus) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	cooldown := time.Duration(cfg.Indexing.PosterCooldownSeconds) * time.Second
	if cooldown <= 0 {
		cooldown = config.DefaultPosterCooldownSeconds * time.Second
	}
	return &Manager{
		cfg:      cfg,
		builder:  index.NewBuilder(cfg.Paths.ArchiveRoot, cfg.Paths.StudioRoot, store, cfg.MtimeCachePath(), logger),
		updater:  index.NewUpdater(cfg.Paths.ArchiveRoot, cfg.Paths.StudioRoot, store, cfg.MtimeCachePath(), logger, bus),
		audit:    index.NewAuditLog(cfg.IndexLogPath(), logger),
		watcher:  watch.New(cfg, logger),
		bus:      bus,
		logger:   logging.NewComponentLogger(logger, "lifecycle"),
		cooldown: cooldown,
		recently: make(map[string]time.Time),
	}
}

// Start begins watching the content roots and consuming dirty signals.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return errors.New("lifecycle already started")
	}
	m.started = true
	m.mu.Unlock()

	if err := m.watcher.Start(ctx); err != nil {
		m.mu.Lock()
		m.started = false
		m.mu.Unlock()
		return err
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.consumeDirty(ctx, m.watcher.Dirty())
	}()
	return nil
}

// Stop tears the watcher down and waits for the consume loop and any
// in-flight rebuild. A running scan is never canceled; Stop blocks until it
// completes.
func (m *Manager) Stop() {
	m.mu.Lock()
	started := m.started
	m.started = false
	m.mu.Unlock()

	if started {
		m.watcher.Stop()
	}
	m.wg.Wait()
}

// StartRebuild launches a full rebuild on a background worker. It returns
// ErrRebuildRunning when one is already in flight.
func (m *Manager) StartRebuild(source string) error {
	if err := m.acquire(source); err != nil {
		return err
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.runRebuild(source)
	}()
	return nil
}

// Rebuild runs a full rebuild synchronously under the same single-flight
// guarantee as StartRebuild.
func (m *Manager) Rebuild(source string) (*index.BuildResult, error) {
	if err := m.acquire(source); err != nil {
		return nil, err
	}
	return m.runRebuild(source)
}

// Status returns the current rebuild snapshot.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Manager) acquire(source string) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrRebuildRunning
	}
	m.running = true
	m.status.Running = true
	m.status.Message = "Building index..."
	m.status.LastSource = source
	m.mu.Unlock()

	m.logger.Info("index rebuild started", logging.String(logging.FieldSource, source))
	m.bus.Publish(events.Event{Kind: events.KindRebuildStarted, Source: source})
	return nil
}

func (m *Manager) runRebuild(source string) (*index.BuildResult, error) {
	start := time.Now()
	result, err := m.builder.Rebuild()
	if err != nil {
		m.finishError(source, time.Since(start), err)
		return nil, err
	}
	m.updater.Invalidate()
	m.finishOK(source, result)
	return result, nil
}

func (m *Manager) finishOK(source string, result *index.BuildResult) {
	m.audit.Append(source, result.Archive, result.Studio, result.Duration, index.StatusOK)

	m.mu.Lock()
	m.running = false
	m.status = Status{
		Message:      "Index ready",
		LastSource:   source,
		LastStatus:   index.StatusOK,
		LastDuration: result.Duration,
		LastFinished: time.Now(),
		Archive:      result.Archive,
		Studio:       result.Studio,
	}
	m.mu.Unlock()

	m.bus.Publish(events.Event{
		Kind:     events.KindRebuildFinished,
		Source:   source,
		Archive:  result.Archive,
		Studio:   result.Studio,
		Duration: result.Duration,
	})
}

func (m *Manager) finishError(source string, duration time.Duration, err error) {
	m.audit.Append(source, 0, 0, duration, index.StatusError)
	display := textutil.Truncate(err.Error(), errorDisplayLimit)

	m.mu.Lock()
	m.running = false
	m.status = Status{
		Message:      "Index failed",
		LastSource:   source,
		LastStatus:   index.StatusError,
		LastError:    display,
		LastDuration: duration,
		LastFinished: time.Now(),
	}
	m.mu.Unlock()

	m.logger.Error("index rebuild failed",
		logging.String(logging.FieldSource, source),
		logging.Error(err))
	m.bus.Publish(events.Event{
		Kind:     events.KindRebuildErrored,
		Source:   source,
		Duration: duration,
		Err:      display,
	})
}

func (m *Manager) consumeDirty(ctx context.Context, dirty <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case posterPath, ok := <-dirty:
			if !ok {
				return
			}
			m.ReindexDirty(posterPath)
		}
	}
}

// ReindexDirty applies one watcher dirty signal. The update is skipped while
// a full rebuild is running and while the poster is inside its cooldown
// window; updater errors are surfaced on the bus and do not stop the caller.
func (m *Manager) ReindexDirty(posterPath string) (string, bool, error) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		m.logger.Debug("incremental update suppressed during rebuild",
			logging.String(logging.FieldPoster, posterPath))
		return "", false, nil
	}
	now := time.Now()
	if last, ok := m.recently[posterPath]; ok && now.Sub(last) < m.cooldown {
		m.mu.Unlock()
		return "", false, nil
	}
	m.recently[posterPath] = now
	m.mu.Unlock()

	start := time.Now()
	key, changed, err := m.updater.ReindexPoster(posterPath)
	if err != nil {
		m.logger.Warn("incremental update failed",
			logging.String(logging.FieldPoster, posterPath),
			logging.Error(err))
		m.bus.Publish(events.Event{
			Kind:   events.KindRebuildErrored,
			Source: index.TriggerWatcher,
			Err:    textutil.Truncate(err.Error(), errorDisplayLimit),
		})
		return key, false, err
	}
	if changed {
		archive, studio := m.updater.Counts()
		m.audit.Append(index.TriggerWatcher, archive, studio, time.Since(start), index.StatusOK)
	}
	return key, changed, nil
}
