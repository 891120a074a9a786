// Package signals defines the lead data model shared by the radars, the
// cognitive pipeline, the store, and the API: raw captures, processed
// signals, radar settings, and dashboard stats.
//
// RelativeDate produces the fixed-at-creation date label stored with every
// signal. The label is never recomputed, so it goes stale as time passes.
package signals
