// Package logging assembles structured slog loggers and formatting helpers used
// across vidshrink.
//
// It owns the console/JSON handlers and the level and output plumbing. Logs
// always go to standard error (standard output carries progress and the
// summary record) and can be duplicated into an append-only file at its own
// level. The package also provides a no-op logger for tests and for wiring
// code that cannot fail.
package logging
