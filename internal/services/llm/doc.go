// Package llm provides an OpenAI-compatible chat client (OpenRouter by
// default) used by the cognitive layer.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send a system/user prompt pair with sampling settings.
// Client.CompleteJSON: same, asking the provider for a json_object response.
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: tolerant decoding of model output (code fences, prose
// around the object).
//
// # Attempts
//
// Every call is a single attempt with the configured HTTP timeout. There is
// no retry; callers substitute documented fallbacks when a call fails.
package llm
