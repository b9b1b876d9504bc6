// Package logs reads the hub's own log file for the CLI.
//
// LastLines snapshots the tail of the file with bounded memory; ReadFrom
// picks up lines appended after a known offset and can poll briefly for
// new ones, which powers `studiohub logs --follow`.
package logs
