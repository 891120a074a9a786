// Package notifications pushes lead alerts to ntfy.
//
// NewService returns a no-op notifier when no topic is configured, so callers
// never branch on whether alerts are enabled. Delivery failures are returned
// to the caller, which logs them; a failed alert never fails a scan.
package notifications
