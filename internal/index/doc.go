// Package index builds and maintains the poster index cache.
//
// The index is a JSON snapshot of both content roots: one record per poster
// folder with its master/web presence, per-size print files, and inferred
// background variants. Full rebuilds rewrite the snapshot atomically;
// watcher-driven incremental updates rescan a single folder and patch it in
// place, guarded by a fingerprint cache so unchanged folders cost nothing.
// Every operation leaves a line in the machine-local audit log.
package index
