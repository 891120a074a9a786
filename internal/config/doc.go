// Package config loads, normalizes, and validates leadradar configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a working-directory .env file, and
// honours environment fallbacks such as OPENROUTER_API_KEY and
// LEADRADAR_TOKEN_SECRET. The Config type centralizes every knob the daemon
// and CLI need, from the data directory to the relevance failure policy.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
