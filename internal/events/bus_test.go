package events_test

import (
	"testing"
	"time"

	"studiohub/internal/events"
)

func TestBusDeliversToSubscriber(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe(4)
	defer cancel()

	bus.Publish(events.Event{Kind: events.KindPosterUpdated, Source: "archive", Poster: "AnatomicalBody"})

	select {
	case evt := <-ch:
		if evt.Kind != events.KindPosterUpdated {
			t.Fatalf("kind = %q, want poster_updated", evt.Kind)
		}
		if evt.Poster != "AnatomicalBody" || evt.Source != "archive" {
			t.Fatalf("unexpected event %+v", evt)
		}
		if evt.Time.IsZero() {
			t.Fatal("expected publish to stamp the event time")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBusPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe(1)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(events.Event{Kind: events.KindPaperChanged})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}

	// The single buffered event is still readable.
	select {
	case <-ch:
	default:
		t.Fatal("expected one buffered event")
	}
}

func TestBusCancelStopsDelivery(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe(1)
	cancel()
	cancel() // idempotent

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after cancel")
	}

	// Publishing after cancel must not panic.
	bus.Publish(events.Event{Kind: events.KindRebuildStarted})
}

func TestBusCloseClosesSubscribers(t *testing.T) {
	bus := events.NewBus()
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Close()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel after bus close")
	}

	// Publish and a second Close are no-ops.
	bus.Publish(events.Event{Kind: events.KindRebuildFinished})
	bus.Close()

	late, lateCancel := bus.Subscribe(1)
	defer lateCancel()
	if _, ok := <-late; ok {
		t.Fatal("expected closed channel for post-close subscriber")
	}
}
