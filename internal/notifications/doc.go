// Package notifications sends ntfy push notifications for capture,
// discovery, and retention events. When no topic is configured a noop
// implementation is returned so callers never need nil checks.
package notifications
