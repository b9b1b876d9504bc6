// Package hub runs the resident studio process.
//
// One hub runs per machine, enforced by a file lock in the log directory.
// Start opens the paper ledger and the print queue, brings up the index
// lifecycle with its filesystem watcher, and optionally kicks off a full
// startup rebuild. Every event published on the hub bus is logged, which
// makes the hub log the single timeline of what the studio did while the
// process was resident.
package hub
