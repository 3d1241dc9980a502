// Package logging assembles structured slog loggers for werscore commands.
//
// It owns the console and JSON handlers, level parsing, and output routing,
// and exposes helpers that tag log lines with component names, run ids, and
// utterance ids. A no-op logger is provided for tests and library callers that
// do not want output.
//
// Command output (reports, tables) never goes through these loggers; logs are
// written to stderr or files so stdout stays machine-readable.
package logging
