// Package logging centralizes slog construction for StudioHub.
//
// It renders either a human console format or JSON, fans output to stdout and
// the machine-local log file, and provides the shared attribute helpers so
// components tag log lines consistently.
package logging
