// Package flash is the raw store: a fixed-capacity byte array backed by
// non-volatile media, with byte-level access and an explicit Commit.
//
// Writes are staged and only guaranteed to survive power loss once Commit
// returns. The package knows nothing about headers or records; bounds beyond
// the physical capacity are the only thing it enforces.
//
// Two media are provided:
//
//   - Device: a file mapped read-write (mmap on Unix, a file view on
//     Windows, a write-back buffer elsewhere). Commit flushes the pages
//     touched since the previous commit.
//   - Memory: a volatile array with a separate committed copy, used by tests
//     and simulations. PowerLoss discards everything written since the last
//     Commit.
package flash
