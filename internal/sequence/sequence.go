// Package sequence issues strictly increasing integer identifiers per named
// sequence. Each sequence is one counter; every issued value comes from a
// single atomic increment-and-return, so concurrent callers never observe the
// same value.
//
// A counter that does not exist yet is treated as holding MissingCounterValue,
// so the first value issued for a fresh sequence is MissingCounterValue+1 (0).
// Sequences are unique and increasing but not gap-free: a value handed to a
// caller whose write later fails is simply never used.
package sequence

// MissingCounterValue is the implicit value of a counter that has never been
// initialized or incremented.
const MissingCounterValue int64 = -1

// CountersCollection holds one document per sequence name.
const CountersCollection = "counters"

// seqField is the counter value field inside a counter document.
const seqField = "seq"
