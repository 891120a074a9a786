// Package testsupport holds shared fixtures for leadradar tests: temp-dir
// configs, an opened store, canned signals, and a fake LLM that answers each
// pipeline step from canned responses.
package testsupport
