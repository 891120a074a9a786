// Package logs reads the daemon log file for `leadradar logs`.
//
// Last returns the final lines of the file together with the byte offset of
// its end; Follow picks up from an offset and streams lines as they are
// appended. A file that shrinks below the offset is treated as rotated and
// read again from the start.
package logs
