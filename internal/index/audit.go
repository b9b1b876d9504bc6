package index

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"studiohub/internal/logging"
)

const auditSchema = "index_log_v1"

// Audit statuses.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Rebuild trigger sources recorded in the audit log.
const (
	TriggerStartup    = "startup"
	TriggerRefreshAll = "refresh_all"
	TriggerManual     = "manual"
	TriggerWatcher    = "watcher"
)

// AuditRecord is one line of the machine-local index audit log.
type AuditRecord struct {
	Schema       string `json:"schema"`
	Timestamp    string `json:"timestamp"`
	Machine      string `json:"machine"`
	Source       string `json:"source"`
	PatentsCount int    `json:"patents_count"`
	StudioCount  int    `json:"studio_count"`
	DurationMS   int64  `json:"duration_ms"`
	Status       string `json:"status"`
}

// AuditLog appends index operation records to index_log.jsonl. Writes are
// best-effort observability: failures are logged and swallowed, never
// surfaced to callers.
type AuditLog struct {
	path   string
	logger *slog.Logger
}

// NewAuditLog creates an audit log writer for path.
func NewAuditLog(path string, logger *slog.Logger) *AuditLog {
	return &AuditLog{
		path:   path,
		logger: logging.NewComponentLogger(logger, "index"),
	}
}

// Append records one index operation.
func (a *AuditLog) Append(source string, archive, studio int, duration time.Duration, status string) {
	hostname, _ := os.Hostname()
	record := AuditRecord{
		Schema:       auditSchema,
		Timestamp:    time.Now().Format("2006-01-02T15:04:05"),
		Machine:      hostname,
		Source:       source,
		PatentsCount: archive,
		StudioCount:  studio,
		DurationMS:   duration.Milliseconds(),
		Status:       status,
	}

	if err := a.append(record); err != nil {
		a.logger.Warn("index audit log write failed", logging.Error(err))
	}
}

func (a *AuditLog) append(record AuditRecord) error {
	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return err
	}
	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	file, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = file.Write(append(line, '\n'))
	return err
}

// Tail returns up to limit most recent audit records, oldest first.
// Unparseable lines are skipped.
func (a *AuditLog) Tail(limit int) ([]AuditRecord, error) {
	file, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var records []AuditRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record AuditRecord
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}
