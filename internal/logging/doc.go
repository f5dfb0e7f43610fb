// Package logging assembles structured slog loggers and formatting helpers used
// across seriestrack.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and provides attribute helpers plus warning/error wrappers that
// enforce an event type, a hint, and an impact on every degraded-path log line.
// A no-op logger is available for tests and for wiring code that cannot fail.
//
// Command output goes to stdout; logs default to stderr so the two never mix.
package logging
