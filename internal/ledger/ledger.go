package ledger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"studiohub/internal/events"
	"studiohub/internal/logging"
)

const inchesPerFoot = 12.0

// Ledger is the canonical authority for paper state. It is backed by an
// append-only JSONL file shared across machines; all derived state is
// recomputed by replaying events so every reader reaches the same answer.
type Ledger struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
	bus    *events.Bus

	history []Event
	state   State
}

// Open loads the ledger at path, creating the parent directory when needed.
// A missing file yields an empty ledger; unreadable lines are skipped.
func Open(path string, logger *slog.Logger, bus *events.Bus) (*Ledger, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	l := &Ledger{
		path:   path,
		logger: logging.NewComponentLogger(logger, "ledger"),
		bus:    bus,
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}
	if err := l.loadLocked(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload re-reads the ledger from disk, picking up appends made by other
// machines since Open.
func (l *Ledger) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked()
}

func (l *Ledger) loadLocked() error {
	l.history = l.history[:0]

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			l.recomputeLocked()
			return nil
		}
		return fmt.Errorf("open paper ledger: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var evt Event
		if err := json.Unmarshal(line, &evt); err != nil {
			continue
		}
		l.history = append(l.history, evt)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read paper ledger: %w", err)
	}

	l.recomputeLocked()
	return nil
}

// recomputeLocked replays the full history to derive the paper state.
func (l *Ledger) recomputeLocked() {
	state := State{}
	tracked := false
	remaining := 0.0

	for _, evt := range l.history {
		switch evt.Kind {
		case EventPaperReplaced:
			state.PaperName = evt.PaperName
			state.TotalFt = evt.TotalFt
			remaining = evt.TotalFt
			tracked = true
			if ts, ok := parseTimestamp(evt.Timestamp); ok {
				state.LastReplaced = ts
			} else {
				state.LastReplaced = time.Time{}
			}
		case EventPrintCommitted:
			if tracked {
				remaining -= evt.LengthIn / inchesPerFoot
			}
		case EventPrintFailed:
			if tracked {
				credit := (evt.PlannedIn - evt.ActualIn) / inchesPerFoot
				if credit < 0 {
					credit = 0
				}
				remaining += credit
			}
		}
	}

	if tracked {
		state.Tracked = true
		state.RemainingFt = max(0, remaining)
	}
	l.state = state
}

// ReplacePaper records a fresh roll. Remaining footage resets to totalFt.
func (l *Ledger) ReplacePaper(name string, totalFt float64) error {
	err := l.append(Event{
		Kind:      EventPaperReplaced,
		PaperName: name,
		TotalFt:   totalFt,
	})
	if err != nil {
		return err
	}
	l.logger.Info("paper replaced",
		logging.String("paper_name", name),
		logging.Float64("total_ft", totalFt))
	return nil
}

// CommitPrint subtracts a job's planned footage from the roll.
func (l *Ledger) CommitPrint(jobID string, lengthIn float64) error {
	return l.append(Event{
		Kind:     EventPrintCommitted,
		JobID:    jobID,
		LengthIn: lengthIn,
	})
}

// FailPrint credits back the unprinted portion of a failed job. Credits are
// never negative, so overruns cannot shrink the roll further.
func (l *Ledger) FailPrint(jobID string, plannedIn, actualIn float64) error {
	return l.append(Event{
		Kind:      EventPrintFailed,
		JobID:     jobID,
		PlannedIn: plannedIn,
		ActualIn:  actualIn,
	})
}

// append writes the event to disk before touching in-memory state, so a
// failed write leaves memory agreeing with the file.
func (l *Ledger) append(evt Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	evt.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	line, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode ledger event: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("append paper ledger: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		file.Close()
		return fmt.Errorf("append paper ledger: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("append paper ledger: %w", err)
	}

	l.history = append(l.history, evt)
	l.recomputeLocked()
	l.publishLocked()
	return nil
}

func (l *Ledger) publishLocked() {
	if l.bus == nil {
		return
	}
	l.bus.Publish(events.Event{
		Kind:      events.KindPaperChanged,
		PaperName: l.state.PaperName,
		PaperFt:   l.state.RemainingFt,
		PaperSet:  l.state.Tracked,
	})
}

// State returns a copy of the derived paper state.
func (l *Ledger) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// FailedJobs returns failed print jobs keyed by job id. Later events for the
// same job override earlier ones; events without a job id are skipped.
func (l *Ledger) FailedJobs() map[string]FailedJob {
	l.mu.Lock()
	defer l.mu.Unlock()

	failed := make(map[string]FailedJob)
	for _, evt := range l.history {
		if evt.Kind != EventPrintFailed || evt.JobID == "" {
			continue
		}
		failed[evt.JobID] = FailedJob{
			PlannedIn: evt.PlannedIn,
			ActualIn:  evt.ActualIn,
		}
	}
	return failed
}

// PaperChanges returns roll replacements in ledger order. Events whose
// timestamps cannot be parsed are skipped.
func (l *Ledger) PaperChanges() []PaperChange {
	l.mu.Lock()
	defer l.mu.Unlock()

	var changes []PaperChange
	for _, evt := range l.history {
		if evt.Kind != EventPaperReplaced {
			continue
		}
		ts, ok := parseTimestamp(evt.Timestamp)
		if !ok {
			continue
		}
		changes = append(changes, PaperChange{
			Timestamp: ts,
			PaperName: evt.PaperName,
			TotalFt:   evt.TotalFt,
		})
	}
	return changes
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}
