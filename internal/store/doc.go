// Package store persists leadradar state in SQLite.
//
// Open creates the schema on first use and refuses databases written by a
// different schema version (ErrSchemaMismatch). Writes retry briefly when
// SQLite reports the database as busy.
//
// Signals are write-once on insert: repeating an id is a no-op. Only the
// draft, analysis, temperature and lifecycle columns change afterwards.
// Archived signals leave ListSignals and Stats but stay searchable.
//
// Search compares Unicode case-folded text through a fold() SQL function
// registered with the driver.
package store
