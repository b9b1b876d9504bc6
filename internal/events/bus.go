package events

import (
	"sync"
	"time"
)

// Kind identifies the category of a hub event.
type Kind string

const (
	KindRebuildStarted  Kind = "rebuild_started"
	KindRebuildFinished Kind = "rebuild_finished"
	KindRebuildErrored  Kind = "rebuild_errored"
	KindPosterUpdated   Kind = "poster_updated"
	KindPaperChanged    Kind = "paper_changed"
)

// Event is a single notification published to the hub bus. Fields beyond
// Kind and Time are populated per kind: rebuild events carry counts and
// duration, poster updates carry the source and poster key, and paper
// changes carry the remaining footage.
type Event struct {
	Kind      Kind
	Time      time.Time
	Source    string
	Poster    string
	Archive   int
	Studio    int
	Duration  time.Duration
	Err       string
	PaperFt   float64
	PaperSet  bool
	PaperName string
}

// Bus fans events out to subscribers. Publishing never blocks: subscribers
// that fall behind lose events rather than stalling the publisher.
type Bus struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a new subscriber with the given channel buffer and
// returns the receive channel plus a cancel function. Cancel is idempotent
// and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

// Publish delivers evt to every subscriber that has buffer space.
func (b *Bus) Publish(evt Event) {
	if b == nil {
		return
	}
	if evt.Time.IsZero() {
		evt.Time = time.Now().UTC()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
