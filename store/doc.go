// Package store is the allocator and typed record layer of an nvstore image.
//
// # Overview
//
// A store partitions a fixed-size flash region into a 20-byte reserved header
// and a user region. The header tracks:
//
//   - DIRTY: unsent data exists
//   - LASTFREEADD: the bump pointer used by sequential writes
//   - START_ADDRESS: a caller-managed pointer to the oldest data of interest
//   - FREE_MEMORY: bytes still free in the user region
//   - HOURS: hours elapsed since the last data push
//
// Records are written with one of two disciplines:
//
//   - Sequential (WriteUint8, WriteFloat, ...): append at the bump pointer.
//   - Arbitrary (WriteUint8At, WriteFloatAt, ...): write at a caller-chosen
//     offset, for updating records in place or placing them out of order.
//
// The store has no record boundaries: it only knows which bytes are occupied.
// Occupancy is kept in a bitmap (one bit per byte) persisted in a companion
// media, so 255 is a legal data byte even though free bytes hold 255 on the
// media.
//
// # Lifecycle
//
//	Uninitialized --Initialize--> Initialized
//	Uninitialized --Attach------> Attached
//
// Initialize erases the image; Attach resumes from previously written content
// after a reset. Both states accept reads, writes and frees. There is no
// teardown beyond Close.
//
// # Durability
//
// Every mutating call commits before returning. When the commit fails the
// call is rolled back: the header and bitmap mirrors are restored and the
// previous bytes staged again, so the error leaves the store as it was and
// the next successful commit persists that state. Individual fields are durable
// once a call returns, but there is no atomicity across fields: a reset in the
// middle of writing a float can leave a torn record, and a reset between the
// image and occupancy commits leaves FREE_MEMORY out of step with the bitmap.
// Attach repairs the latter: written bytes missing from the bitmap are marked
// occupied and FREE_MEMORY is recomputed from the bitmap.
//
// # Caller Contract
//
// Freeing an offset that is not the first byte of a record, or freeing with
// the wrong kind, releases bytes of a neighbouring record. This is not
// detected.
//
// # Thread Safety
//
// A Store is not safe for concurrent use.
package store
