// Package main hosts the studiohub CLI entrypoint and command graph.
//
// The Cobra-based command tree operates directly on the shared studio state:
// the poster index cache, the paper ledger, the print history, and this
// machine's print queue database. One-shot commands open what they need and
// close it again; `studiohub serve` runs the long-lived hub that watches the
// poster roots and keeps the index fresh.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
