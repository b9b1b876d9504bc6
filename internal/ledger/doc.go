// Package ledger tracks roll paper through an append-only JSONL event log.
//
// The file lives on the shared runtime root and is the single source of
// truth across machines: every reader replays the full event history to
// derive remaining footage, so concurrent appenders converge on the same
// state. Print events that arrive before the first roll replacement carry no
// footage information and are ignored during replay.
package ledger
