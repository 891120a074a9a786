package preflight

import (
	"context"

	"leadradar/internal/config"
	"leadradar/internal/store"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the readiness checks for cfg. The database check runs only
// when st is non-nil; the LLM check is skipped when skipLLM is set.
func RunAll(ctx context.Context, cfg *config.Config, st *store.Store, skipLLM bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if st != nil {
		results = append(results, CheckDatabase(ctx, st))
	}
	if !skipLLM {
		results = append(results, CheckLLM(ctx, "LLM", cfg.GetLLM()))
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
