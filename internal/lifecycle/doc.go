// Package lifecycle coordinates full index rebuilds and watcher-driven
// incremental updates.
//
// The Manager guarantees the two paths never race on the index file: only
// one full rebuild runs at a time, incremental updates are suppressed while
// a rebuild is in flight, and a per-poster cooldown keeps rapid dirty
// signals from rescanning the same folder back to back. Rebuild outcomes
// are published on the event bus and recorded in the machine-local audit
// log; a rebuild runs to completion once started.
package lifecycle
