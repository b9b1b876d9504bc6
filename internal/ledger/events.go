package ledger

import "time"

// Ledger event kinds.
const (
	EventPaperReplaced  = "paper_replaced"
	EventPrintCommitted = "print_committed"
	EventPrintFailed    = "print_failed"
)

// Event is one line of the append-only paper ledger. Fields are populated
// per kind; unknown kinds replay as no-ops so newer writers stay compatible
// with older readers.
type Event struct {
	Kind      string  `json:"event"`
	PaperName string  `json:"paper_name,omitempty"`
	TotalFt   float64 `json:"total_ft,omitempty"`
	JobID     string  `json:"job_id,omitempty"`
	LengthIn  float64 `json:"length_in,omitempty"`
	PlannedIn float64 `json:"planned_in,omitempty"`
	ActualIn  float64 `json:"actual_in,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
}

// State is the paper state derived by replaying the ledger. Remaining
// footage is only meaningful once Tracked is true, which happens at the
// first paper_replaced event.
type State struct {
	PaperName    string
	TotalFt      float64
	RemainingFt  float64
	Tracked      bool
	LastReplaced time.Time
}

// FailedJob records the footage delta of a failed print job.
type FailedJob struct {
	PlannedIn float64
	ActualIn  float64
}

// PaperChange is one roll replacement in chronological order.
type PaperChange struct {
	Timestamp time.Time
	PaperName string
	TotalFt   float64
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseTimestamp accepts the timestamp shapes that have appeared in shared
// ledgers over time. Naive timestamps are interpreted as UTC.
func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
