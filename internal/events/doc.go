// Package events carries typed notifications between hub components.
//
// The index worker publishes rebuild and poster-update events, the paper
// ledger publishes remaining-footage changes, and surfaces such as the CLI
// status stream subscribe without the publishers knowing about them.
package events
