// Package printlog reads and appends the shared print history.
//
// The history is an append-only JSONL file. Completed jobs are written as
// print_log_v2 base records keyed by their timestamp; later corrections
// (failures, reprints) are separate print_log_event_v1 lines that reference
// the parent job. History is never rewritten: readers merge events onto
// base rows at load time.
package printlog
