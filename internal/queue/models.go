package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queued sheet.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusPrinting Status = "printing"
	StatusPrinted  Status = "printed"
	StatusFailed   Status = "failed"
)

var allStatuses = []Status{
	StatusQueued,
	StatusPrinting,
	StatusPrinted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Item represents one sheet in the print queue persisted in SQLite.
type Item struct {
	ID              int64
	UUID            string
	PosterKey       string
	DisplayName     string
	Source          string
	Size            string
	BackgroundKey   string
	BackgroundLabel string
	SheetPath       string
	Status          Status
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	PrintedAt       *time.Time
}

// HealthSummary describes aggregated queue counts per lifecycle state.
type HealthSummary struct {
	Total    int
	Queued   int
	Printing int
	Printed  int
	Failed   int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
}

// Label returns the queue entry's display text: the poster name, with the
// background variant appended when one is selected.
func (i Item) Label() string {
	name := i.DisplayName
	if name == "" {
		name = i.PosterKey
	}
	if i.BackgroundLabel != "" {
		return name + " — " + i.BackgroundLabel
	}
	return name
}
