// Package main hosts the leadradar CLI entrypoint and command graph.
//
// The Cobra command tree runs the daemon, triggers scans, and reads or edits
// stored signals and radar settings directly against the local database.
// Read commands accept --json for scripting; tables are rendered with
// go-pretty and colored only when stdout is a terminal.
package main
