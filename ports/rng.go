package ports

import "math/rand/v2"

// RNG hands out named, independent random streams. A deterministic
// implementation derives each stream from a base seed and the stream name,
// so a parallel fan-out over spatial bins draws the same numbers regardless
// of worker count or completion order. Callers own the streams they are
// given; streams are not safe for concurrent use.
type RNG interface {
	// Stream returns the deterministic random stream for a named operation
	// (e.g. "stochastic-mfd/"+cellID).
	Stream(name string) *rand.Rand
}
