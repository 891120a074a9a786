// Package radar implements the signal collectors.
//
// Each collector serves a fixed sample pool for one source (borme,
// traspasos, inmobiliario, linkedin). Keyword filtering uses Unicode case
// folding, so "DISOLUCIÓN" in a gazette notice matches the keyword
// "disolución". Every collector honours targetCount the same way and stamps
// each capture with the injected clock.
package radar
