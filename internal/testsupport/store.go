package testsupport

import (
	"context"
	"testing"
	"time"

	"studiohub/internal/config"
	"studiohub/internal/queue"
)

// MustOpenStore opens a queue store against the test configuration and
// registers cleanup.
func MustOpenStore(t *testing.T, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("open queue store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close queue store: %v", err)
		}
	})
	return store
}

// MustEnqueue inserts a queue item with sensible defaults for tests.
func MustEnqueue(t *testing.T, store *queue.Store, posterKey, size string) *queue.Item {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	item, err := store.Enqueue(ctx, queue.Item{
		PosterKey:   posterKey,
		DisplayName: posterKey,
		Source:      "archive",
		Size:        size,
		SheetPath:   "/posters/" + posterKey + "/PRINT/" + size + "/" + posterKey + ".tif",
	})
	if err != nil {
		t.Fatalf("enqueue %s: %v", posterKey, err)
	}
	return item
}
