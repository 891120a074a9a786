// Package daemon runs the long-lived leadradar process.
//
// It holds a flock-based lock so only one instance serves a data directory,
// provisions the bootstrap admin account, and exposes the leads service over
// a JSON HTTP API with open CORS, request correlation ids and optional
// bearer-token enforcement. Business rules live in the leads package; the
// handlers here only decode requests, map errors to status codes and encode
// responses.
package daemon
