// Package preflight provides readiness checks for the directories, database
// and LLM endpoint leadradar depends on.
//
// The CLI "leadradar check" command runs RunAll and renders the results. The
// LLM check is a single attempt: a failing provider does not stop the service,
// since the analyst degrades to placeholder text, but operators want to know.
package preflight
