// Package leads is the application layer: it runs scans across the radars,
// hands raw signals to the analyst, persists accepted leads, and serves the
// read, edit, settings, stats and login operations used by the HTTP API and
// the CLI.
//
// Errors carry the services sentinels (ErrValidation, ErrNotFound,
// ErrUnauthorized) so transports can map them to status codes. Language
// model failures never surface as errors; the analyst degrades to
// placeholder text instead.
package leads
