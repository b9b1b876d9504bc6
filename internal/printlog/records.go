package printlog

import "time"

// Schemas recognized in the print log. Anything else is skipped on load so
// newer writers never break older readers.
const (
	SchemaV2      = "print_log_v2"
	SchemaEventV1 = "print_log_event_v1"
)

// Print modes recorded per job.
const (
	ModeSingle = "single"
	Mode2Up    = "2up"
)

// timestampLayout is the seconds-precision naive local timestamp used as a
// job identifier. It must stay byte-stable: the string doubles as the merge
// key for event records and as the paper-ledger job id.
const timestampLayout = "2006-01-02T15:04:05"

// FileRef is one sheet within a job.
type FileRef struct {
	Path     string `json:"path"`
	Source   string `json:"source"`
	PosterID string `json:"poster_id"`
}

// Record is a print_log_v2 base record as written to the log file.
type Record struct {
	Schema        string    `json:"schema"`
	Timestamp     string    `json:"timestamp"`
	Machine       string    `json:"machine"`
	Mode          string    `json:"mode"`
	Size          string    `json:"size"`
	Files         []FileRef `json:"files"`
	PrintCostUSD  float64   `json:"print_cost_usd"`
	IsReprint     bool      `json:"is_reprint"`
	WasteIncurred bool      `json:"waste_incurred"`
}

// failureEvent marks a parent job as failed without touching its base row.
type failureEvent struct {
	Schema      string  `json:"schema"`
	Event       string  `json:"event"`
	ParentJobID string  `json:"parent_job_id"`
	FailedAt    string  `json:"failed_at"`
	ActualIn    float64 `json:"actual_in"`
	Reason      *string `json:"reason"`
}

// reprintEvent marks a parent job as reprinted; the replacement print is a
// separate base record.
type reprintEvent struct {
	Schema       string  `json:"schema"`
	Event        string  `json:"event"`
	ParentJobID  string  `json:"parent_job_id"`
	ReprintedAt  string  `json:"reprinted_at"`
	ReprintJobID *string `json:"reprint_job_id"`
}

// JobRecord is one job row after merging events onto its base record.
type JobRecord struct {
	JobID     string
	Timestamp time.Time
	Mode      string
	Size      string
	Files     []FileRef
	CostUSD   float64

	Failed     bool
	FailedAt   *time.Time
	ActualIn   *float64
	FailReason string

	Reprinted   bool
	ReprintedAt *time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	timestampLayout,
	"2006-01-02 15:04:05",
}

// parseTimestamp accepts the timestamp shapes that have appeared in shared
// logs over time. Naive timestamps are interpreted as UTC.
func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
