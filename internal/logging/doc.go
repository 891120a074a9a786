// Package logging assembles structured slog loggers and formatting helpers used
// across leadradar.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so handlers and the scan pipeline can tag
// log lines with request IDs, signal IDs, and radar sources. Credentials such
// as passwords and tokens are masked by both handlers.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape as the rest of the system.
package logging
