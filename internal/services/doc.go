// Package services defines shared utilities consumed by the scan pipeline,
// the HTTP API, and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp request IDs, signal IDs, and radar sources
//     for logging.
//   - Structured error markers plus the Wrap helper, translated into HTTP
//     status codes by HTTPStatus.
//
// Use these helpers when wiring new handlers so error mapping and
// observability stay uniform.
package services
