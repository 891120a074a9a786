// Package cognitive qualifies raw signals with a hosted language model.
//
// An Analyst runs three steps per signal: a relevance verdict that filters
// out abstract chatter, an analysis that extracts intent, emotion and an
// urgency temperature, and a first-contact draft message. Each model call is
// a single attempt bounded by its own timeout and spaced by an optional rate
// limiter. Failures never propagate as errors: analysis and drafting fall back
// to fixed placeholder texts, and the relevance step applies the configured
// failure policy (keep or drop).
//
// Regenerate and Reanalyze operate on stored signals and only return the
// fields they replace.
package cognitive
