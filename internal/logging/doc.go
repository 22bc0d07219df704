// Package logging constructs the slog loggers used across aircheck.
//
// It provides console and JSON handler selection, attribute helper
// aliases so call sites stay terse, standardized field keys for
// component/event metadata, and retention cleanup for rotated daemon
// log files.
package logging
