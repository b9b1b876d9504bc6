// Package watch observes the archive and studio content roots for
// filesystem changes and coalesces bursts of raw events into
// poster-level dirty signals. Every event path is resolved upward to
// the top-level poster folder before it enters the debouncer, so
// downstream consumers only ever see one path per poster per quiet
// period regardless of how many files changed inside it.
package watch
