// Package dirty tracks which byte ranges of a store image were written since
// the last commit and flushes exactly those ranges to the backing file.
//
// # Overview
//
// The raw store stages every write in memory (an mmap view or a private
// copy) and only guarantees durability once Commit runs. The Tracker is the
// bookkeeping behind that contract:
//
//   - Add(offset, length): record a staged write
//   - Flush(ctx, target, mode): persist the staged ranges
//   - Reset(): drop staged ranges without persisting them
//
// # Usage
//
//	t := dirty.NewTracker()
//	data[off] = v
//	t.Add(off, 1)
//	if err := t.Flush(ctx, mapping, dirty.FlushAuto); err != nil {
//	    return err
//	}
//
// # Page-Level Granularity
//
// Ranges are rounded out to 4KB pages and merged before flushing, so a
// sequence of one-byte writes costs one msync per touched page:
//
//	Dirty bytes: [20, 21, 4100] -> Ranges: [0x0-0x1000, 0x1000-0x2000] -> [0x0-0x2000]
//
// # Platforms
//
// Mapped targets are flushed with msync (Unix) or FlushViewOfFile (Windows).
// On Darwin the whole mapping is synced because msync needs the original
// mapping address. Targets that are not memory-mapped get their dirty ranges
// written back with WriteAt.
//
// # Thread Safety
//
// Tracker instances are not thread-safe. The store is single-threaded by
// contract.
package dirty
