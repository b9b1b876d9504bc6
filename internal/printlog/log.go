package printlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"studiohub/internal/index"
)

// Log appends to and reads one shared print log file. It keeps no state in
// memory; every Load replays the file so machines sharing the log agree.
type Log struct {
	path string
}

// NewLog returns a Log for the given JSONL file path.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Append writes a print_log_v2 base record. Schema, timestamp and machine
// are stamped when unset; the completed record is returned so callers can
// use its timestamp as the job id.
func (l *Log) Append(rec Record) (Record, error) {
	if rec.Schema == "" {
		rec.Schema = SchemaV2
	}
	if rec.Timestamp == "" {
		rec.Timestamp = time.Now().Format(timestampLayout)
	}
	if rec.Machine == "" {
		host, err := os.Hostname()
		if err != nil {
			host = "unknown"
		}
		rec.Machine = host
	}
	if rec.Files == nil {
		rec.Files = []FileRef{}
	}
	if err := l.appendLine(rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// RecordFailure appends a failure event for the given parent job. An empty
// reason is recorded as null; a zero failedAt defaults to now.
func (l *Log) RecordFailure(parentJobID string, actualIn float64, reason string, failedAt time.Time) error {
	if failedAt.IsZero() {
		failedAt = time.Now().UTC()
	}
	evt := failureEvent{
		Schema:      SchemaEventV1,
		Event:       "failure",
		ParentJobID: parentJobID,
		FailedAt:    failedAt.UTC().Format(time.RFC3339),
		ActualIn:    actualIn,
	}
	if reason != "" {
		evt.Reason = &reason
	}
	return l.appendLine(evt)
}

// RecordReprint appends a reprint event marking the parent job as replaced
// by reprintJobID. A zero reprintedAt defaults to now.
func (l *Log) RecordReprint(parentJobID, reprintJobID string, reprintedAt time.Time) error {
	if reprintedAt.IsZero() {
		reprintedAt = time.Now().UTC()
	}
	evt := reprintEvent{
		Schema:      SchemaEventV1,
		Event:       "reprint",
		ParentJobID: parentJobID,
		ReprintedAt: reprintedAt.UTC().Format(time.RFC3339),
	}
	if reprintJobID != "" {
		evt.ReprintJobID = &reprintJobID
	}
	return l.appendLine(evt)
}

func (l *Log) appendLine(record any) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode print log record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create print log directory: %w", err)
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("append print log: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		file.Close()
		return fmt.Errorf("append print log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("append print log: %w", err)
	}
	return nil
}

// rawLine is a lenient view of one log line, wide enough to classify every
// known record shape before committing to a parse.
type rawLine struct {
	Schema       string          `json:"schema"`
	Event        string          `json:"event"`
	Timestamp    string          `json:"timestamp"`
	Mode         *string         `json:"mode"`
	Size         *string         `json:"size"`
	Files        json.RawMessage `json:"files"`
	PrintCostUSD *float64        `json:"print_cost_usd"`
	Failed       *bool           `json:"failed"`
	ActualIn     *float64        `json:"actual_in"`
	Reason       *string         `json:"reason"`
	ParentJobID  string          `json:"parent_job_id"`
	FailedAt     string          `json:"failed_at"`
	ReprintedAt  string          `json:"reprinted_at"`
}

type parsedEvent struct {
	kind        string
	parentJobID string
	at          string
	actualIn    *float64
	reason      *string
}

// Load replays the log into merged job rows, newest first. Malformed lines,
// unknown schemas and events referencing unknown parents are skipped.
func (l *Log) Load() ([]JobRecord, error) {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open print log: %w", err)
	}
	defer file.Close()

	base := make(map[string]JobRecord)
	var order []string
	var events []parsedEvent

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var raw rawLine
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}

		switch raw.Schema {
		case SchemaV2:
			if looksLikeBaseJob(raw) {
				job, ok := parseBaseJob(raw)
				if !ok {
					continue
				}
				if _, seen := base[job.JobID]; !seen {
					order = append(order, job.JobID)
				}
				base[job.JobID] = job
				continue
			}
			// Early failure corrections reused the base schema with only
			// failed/actual_in set.
			if looksLikeFailureCorrection(raw) && raw.Timestamp != "" {
				events = append(events, parsedEvent{
					kind:        "failure",
					parentJobID: raw.Timestamp,
					actualIn:    raw.ActualIn,
					reason:      raw.Reason,
				})
			}
		case SchemaEventV1:
			if evt, ok := parseEvent(raw); ok {
				events = append(events, evt)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read print log: %w", err)
	}

	for _, evt := range events {
		job, ok := base[evt.parentJobID]
		if !ok {
			continue
		}
		switch evt.kind {
		case "failure":
			applyFailure(&job, evt)
		case "reprint":
			applyReprint(&job, evt)
		}
		base[evt.parentJobID] = job
	}

	jobs := make([]JobRecord, 0, len(order))
	for _, key := range order {
		jobs = append(jobs, base[key])
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].Timestamp.After(jobs[j].Timestamp)
	})
	return jobs, nil
}

func jsonIsArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func looksLikeBaseJob(raw rawLine) bool {
	if raw.Timestamp == "" {
		return false
	}
	if raw.Files != nil && !jsonIsArray(raw.Files) {
		return false
	}
	return raw.Mode != nil || raw.Size != nil || raw.Files != nil || raw.PrintCostUSD != nil
}

func looksLikeFailureCorrection(raw rawLine) bool {
	if raw.Failed == nil || !*raw.Failed || raw.ActualIn == nil {
		return false
	}
	return raw.Mode == nil && raw.Size == nil && raw.Files == nil
}

func parseBaseJob(raw rawLine) (JobRecord, bool) {
	ts, ok := parseTimestamp(raw.Timestamp)
	if !ok {
		return JobRecord{}, false
	}

	job := JobRecord{
		JobID:     raw.Timestamp,
		Timestamp: ts,
		Files:     []FileRef{},
	}
	if raw.Mode != nil {
		job.Mode = *raw.Mode
	}
	if raw.Size != nil {
		job.Size = *raw.Size
	}
	if raw.PrintCostUSD != nil {
		job.CostUSD = *raw.PrintCostUSD
	}

	if raw.Files != nil {
		var entries []json.RawMessage
		if err := json.Unmarshal(raw.Files, &entries); err == nil {
			for _, entry := range entries {
				var f struct {
					Path     string `json:"path"`
					Source   string `json:"source"`
					PosterID string `json:"poster_id"`
					Name     string `json:"name"`
				}
				if err := json.Unmarshal(entry, &f); err != nil {
					continue
				}
				posterID := f.PosterID
				if posterID == "" {
					posterID = f.Name
				}
				job.Files = append(job.Files, FileRef{
					Path:     f.Path,
					Source:   normalizeSource(f.Source),
					PosterID: posterID,
				})
			}
		}
	}
	return job, true
}

func parseEvent(raw rawLine) (parsedEvent, bool) {
	if raw.ParentJobID == "" {
		return parsedEvent{}, false
	}
	switch raw.Event {
	case "failure":
		return parsedEvent{
			kind:        "failure",
			parentJobID: raw.ParentJobID,
			at:          raw.FailedAt,
			actualIn:    raw.ActualIn,
			reason:      raw.Reason,
		}, true
	case "reprint":
		return parsedEvent{
			kind:        "reprint",
			parentJobID: raw.ParentJobID,
			at:          raw.ReprintedAt,
		}, true
	}
	return parsedEvent{}, false
}

func applyFailure(job *JobRecord, evt parsedEvent) {
	job.Failed = true
	if ts, ok := parseTimestamp(evt.at); ok {
		job.FailedAt = &ts
	}
	if evt.actualIn != nil {
		actual := *evt.actualIn
		job.ActualIn = &actual
	}
	if evt.reason != nil {
		job.FailReason = *evt.reason
	}
}

func applyReprint(job *JobRecord, evt parsedEvent) {
	job.Reprinted = true
	if ts, ok := parseTimestamp(evt.at); ok {
		job.ReprintedAt = &ts
	}
}

// normalizeSource folds legacy source names onto the current ones; unknown
// sources are dropped rather than guessed.
func normalizeSource(value string) string {
	switch strings.ToLower(value) {
	case index.SourceArchive, "patents":
		return index.SourceArchive
	case index.SourceStudio:
		return index.SourceStudio
	}
	return ""
}
