package hub_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"studiohub/internal/events"
	"studiohub/internal/hub"
	"studiohub/internal/index"
	"studiohub/internal/testsupport"
)

func TestHubStartStopAndSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithScanOnStart(false))
	ctx := context.Background()

	first, err := hub.New(cfg, nil)
	if err != nil {
		t.Fatalf("hub.New: %v", err)
	}
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { first.Close() })

	status := first.Status()
	if !status.Running {
		t.Fatal("expected hub to report running")
	}
	if status.LockFilePath != cfg.LockFilePath() {
		t.Fatalf("lock path = %q, want %q", status.LockFilePath, cfg.LockFilePath())
	}

	if err := first.Start(ctx); err == nil {
		t.Fatal("expected second start on the same hub to fail")
	}

	second, err := hub.New(cfg, nil)
	if err != nil {
		t.Fatalf("hub.New: %v", err)
	}
	err = second.Start(ctx)
	if err == nil {
		second.Close()
		t.Fatal("expected a second hub on the same lock to fail")
	}
	if !strings.Contains(err.Error(), "already running") {
		t.Fatalf("second instance error = %v", err)
	}

	first.Close()
	if first.Status().Running {
		t.Fatal("expected hub to be stopped after close")
	}

	// The lock is released, so a fresh hub can take over.
	third, err := hub.New(cfg, nil)
	if err != nil {
		t.Fatalf("hub.New: %v", err)
	}
	if err := third.Start(ctx); err != nil {
		t.Fatalf("restart after close failed: %v", err)
	}
	third.Close()
}

func TestHubOpensQueueAndLedger(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithScanOnStart(false))
	h, err := hub.New(cfg, nil)
	if err != nil {
		t.Fatalf("hub.New: %v", err)
	}
	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	if h.Queue() == nil || h.Paper() == nil || h.Lifecycle() == nil {
		t.Fatal("expected queue, ledger, and lifecycle after start")
	}

	item := testsupport.MustEnqueue(t, h.Queue(), "Apollo_Program", "12x18")
	if item.ID == 0 {
		t.Fatal("expected enqueued item to get an id")
	}

	if err := h.Paper().ReplacePaper("RedRiver", 60); err != nil {
		t.Fatalf("ReplacePaper: %v", err)
	}

	status := h.Status()
	if !status.Paper.Tracked || status.Paper.RemainingFt != 60 {
		t.Fatalf("paper state = %+v", status.Paper)
	}
	if status.QueueDBPath != cfg.QueueDBPath() {
		t.Fatalf("queue db path = %q", status.QueueDBPath)
	}
}

func TestHubScanOnStartBuildsIndex(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WritePoster(t, cfg.Paths.ArchiveRoot, "Apollo_Program")

	h, err := hub.New(cfg, nil)
	if err != nil {
		t.Fatalf("hub.New: %v", err)
	}
	eventCh, cancel := h.Bus().Subscribe(16)
	defer cancel()

	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	deadline := time.After(5 * time.Second)
	done := false
	for !done {
		select {
		case evt, ok := <-eventCh:
			if !ok {
				t.Fatal("bus closed before the startup rebuild finished")
			}
			switch evt.Kind {
			case events.KindRebuildFinished:
				if evt.Source != index.TriggerStartup {
					t.Fatalf("rebuild source = %q, want %q", evt.Source, index.TriggerStartup)
				}
				if evt.Archive != 1 {
					t.Fatalf("archive count = %d, want 1", evt.Archive)
				}
				done = true
			case events.KindRebuildErrored:
				t.Fatalf("startup rebuild failed: %s", evt.Err)
			}
		case <-deadline:
			t.Fatal("no rebuild_finished event within deadline")
		}
	}

	idx, err := index.NewStore(cfg.PosterIndexPath()).Load()
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	archive, _ := idx.Counts()
	if archive != 1 {
		t.Fatalf("persisted archive count = %d, want 1", archive)
	}
}
