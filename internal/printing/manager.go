package printing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studiohub/internal/config"
	"studiohub/internal/ledger"
	"studiohub/internal/logging"
	"studiohub/internal/printlog"
	"studiohub/internal/queue"
	"studiohub/internal/textutil"
)

// ErrQueueEmpty is returned by Send when nothing is queued.
var ErrQueueEmpty = errors.New("print queue is empty")

// Manager drives the send pipeline: queued sheets become job tickets,
// print history records and paper-ledger commits.
type Manager struct {
	cfg    *config.Config
	store  *queue.Store
	log    *printlog.Log
	paper  *ledger.Ledger
	logger *slog.Logger
}

// NewManager wires the send pipeline. The paper ledger may be nil when
// consumable tracking is not in use.
func NewManager(cfg *config.Config, store *queue.Store, log *printlog.Log, paper *ledger.Ledger, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:    cfg,
		store:  store,
		log:    log,
		paper:  paper,
		logger: logging.NewComponentLogger(logger, "printing"),
	}
}

// SendResult reports what one send pass produced.
type SendResult struct {
	Jobs    []Job
	Tickets []string
	Records []printlog.Record
}

// Send drains the queued sheets into job tickets. On the primary printer
// each job is appended to the print history and, when auto-commit is on,
// its planned footage is committed to the paper ledger. Sent items are
// marked printed; a ticket failure marks them failed instead.
func (m *Manager) Send(ctx context.Context, isReprint bool) (*SendResult, error) {
	items, err := m.store.List(ctx, queue.StatusQueued)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrQueueEmpty
	}

	for _, item := range items {
		item.Status = queue.StatusPrinting
		if err := m.store.Update(ctx, item); err != nil {
			return nil, fmt.Errorf("mark printing: %w", err)
		}
	}

	jobs := BuildJobs(items, m.cfg.Printing.AllowPairing12x18)
	tickets, err := WriteTickets(m.cfg.Paths.PrintJobsRoot, jobs)
	if err != nil {
		m.failItems(ctx, items, err)
		return nil, err
	}

	result := &SendResult{Jobs: jobs, Tickets: tickets}
	logHistory := m.cfg.Printing.IsPrimaryPrinter && m.cfg.Printing.AutoLogPrints
	if logHistory {
		for _, job := range jobs {
			rec, err := m.logJob(job, isReprint)
			if err != nil {
				m.logger.Warn("print log append failed", logging.Error(err))
				continue
			}
			result.Records = append(result.Records, rec)
		}
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	if _, err := m.store.MarkPrinted(ctx, ids, time.Now()); err != nil {
		return nil, fmt.Errorf("mark printed: %w", err)
	}

	m.logger.Info("print batch sent",
		logging.Int("jobs", len(jobs)),
		logging.Int("sheets", len(items)),
		logging.Bool("reprint", isReprint),
		logging.String("history", textutil.Ternary(logHistory, "logged", "skipped")))
	return result, nil
}

// logJob appends one history record and commits its footage.
func (m *Manager) logJob(job Job, isReprint bool) (printlog.Record, error) {
	files := make([]printlog.FileRef, 0, len(job.Sheets))
	for _, item := range job.Sheets {
		files = append(files, printlog.FileRef{
			Path:     item.SheetPath,
			Source:   item.Source,
			PosterID: item.Label(),
		})
	}

	sheetSize := job.SheetSize()
	rec, err := m.log.Append(printlog.Record{
		Mode:          job.Mode(),
		Size:          sheetSize,
		Files:         files,
		PrintCostUSD:  EstimateCost(sheetSize, m.cfg.PrintCost),
		IsReprint:     isReprint,
		WasteIncurred: isReprint,
	})
	if err != nil {
		return printlog.Record{}, err
	}
	m.commitPaper(rec.Timestamp, sheetSize)
	return rec, nil
}

// commitPaper subtracts a job's planned footage from the roll; ledger
// append failures are logged, never fatal to the send.
func (m *Manager) commitPaper(jobID, sheetSize string) {
	if !m.cfg.Printing.AutoCommitPaper || m.paper == nil || jobID == "" {
		return
	}
	planned := PlannedLengthIn(sheetSize)
	if planned <= 0 {
		return
	}
	if err := m.paper.CommitPrint(jobID, planned); err != nil {
		m.logger.Warn("paper commit failed",
			logging.String(logging.FieldJobID, jobID),
			logging.Error(err))
	}
}

func (m *Manager) failItems(ctx context.Context, items []*queue.Item, cause error) {
	for _, item := range items {
		if err := m.store.MarkFailed(ctx, item.ID, cause.Error()); err != nil {
			m.logger.Warn("mark failed",
				logging.Int64("item", item.ID),
				logging.Error(err))
		}
	}
}

// SendReprint replays one logged job as a fresh single ticket. The job is
// re-logged as a new entry with waste incurred, its footage committed, and
// the original row marked reprinted.
func (m *Manager) SendReprint(jobID string) (printlog.Record, error) {
	job, err := m.findJob(jobID)
	if err != nil {
		return printlog.Record{}, err
	}
	if len(job.Files) == 0 {
		return printlog.Record{}, fmt.Errorf("reprint job %s has no files", jobID)
	}

	paths := make([]string, 0, len(job.Files))
	for _, f := range job.Files {
		paths = append(paths, strings.ReplaceAll(f.Path, "\\", "/"))
	}
	if _, err := writeTicketFiles(m.cfg.Paths.PrintJobsRoot, [][]string{paths}); err != nil {
		return printlog.Record{}, err
	}

	mode := job.Mode
	if mode == "" {
		mode = printlog.ModeSingle
	}
	rec, err := m.log.Append(printlog.Record{
		Mode:          mode,
		Size:          job.Size,
		Files:         job.Files,
		PrintCostUSD:  EstimateCost(job.Size, m.cfg.PrintCost),
		IsReprint:     true,
		WasteIncurred: true,
	})
	if err != nil {
		return printlog.Record{}, fmt.Errorf("append reprint record: %w", err)
	}
	m.commitPaper(rec.Timestamp, job.Size)

	if err := m.log.RecordReprint(jobID, rec.Timestamp, time.Time{}); err != nil {
		m.logger.Warn("record reprint event failed", logging.Error(err))
	}

	m.logger.Info("reprint sent",
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldSize, job.Size))
	return rec, nil
}

// MarkPrintFailed records a botched print: unused footage is credited back
// to the roll and the history gains a failure event.
func (m *Manager) MarkPrintFailed(jobID string, actualIn float64, reason string) error {
	job, err := m.findJob(jobID)
	if err != nil {
		return err
	}

	planned := plannedLengthForJob(job.Mode, job.Size)
	if m.cfg.Printing.AutoCommitPaper && m.paper != nil && planned > 0 {
		if err := m.paper.FailPrint(jobID, planned, actualIn); err != nil {
			return fmt.Errorf("credit failed print: %w", err)
		}
	}
	if err := m.log.RecordFailure(jobID, actualIn, reason, time.Time{}); err != nil {
		return fmt.Errorf("record failure: %w", err)
	}

	m.logger.Info("print marked failed",
		logging.String(logging.FieldJobID, jobID),
		logging.Float64("actual_in", actualIn))
	return nil
}

// RequeueLastBatch returns printed items to the queue so the previous batch
// can be sent again.
func (m *Manager) RequeueLastBatch(ctx context.Context) (int, error) {
	items, err := m.store.List(ctx, queue.StatusPrinted)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		item.Status = queue.StatusQueued
		item.PrintedAt = nil
		item.ErrorMessage = ""
		if err := m.store.Update(ctx, item); err != nil {
			return 0, fmt.Errorf("requeue item %d: %w", item.ID, err)
		}
	}
	return len(items), nil
}

func (m *Manager) findJob(jobID string) (printlog.JobRecord, error) {
	jobs, err := m.log.Load()
	if err != nil {
		return printlog.JobRecord{}, err
	}
	for _, job := range jobs {
		if job.JobID == jobID {
			return job, nil
		}
	}
	return printlog.JobRecord{}, fmt.Errorf("print job %s not found", jobID)
}
