// Package queue persists the print queue in SQLite and exposes helpers for
// driving sheet lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, and the status transitions a sheet moves through between being
// queued and leaving the printer. Items carry everything the job builder
// needs: the sheet path handed to the print worker, the poster it belongs
// to, and the background variant being printed.
//
// The database is machine-local, transient storage for pending work rather
// than shared history; the print log and paper ledger are the durable
// records. Schema changes bump the version in schema.go; users clear the
// database to adopt the new schema.
package queue
