package dirty

import (
	"context"
	"errors"
	"sort"
)

const (
	// defaultRangeCapacity is the pre-allocated capacity for dirty ranges.
	defaultRangeCapacity = 64

	// standardPageSize is the typical OS page size (4KB).
	standardPageSize = 4096
)

// ErrNoFile is returned when a Target has no backing file.
var ErrNoFile = errors.New("dirty: target has no backing file")

// FlushMode controls durability guarantees of a flush.
type FlushMode int

const (
	// FlushAuto provides safe defaults for most use cases:
	// - flush dirty pages
	// - fdatasync() the file
	FlushAuto FlushMode = iota

	// FlushDataOnly only flushes dirty pages.
	// The caller is responsible for syncing the file descriptor later.
	FlushDataOnly

	// FlushFull provides ultra-safe durability:
	// - flush dirty pages
	// - fdatasync() the file
	// - On macOS, uses F_FULLFSYNC
	// Use this for power-loss sensitive workflows.
	FlushFull
)

func (m FlushMode) String() string {
	switch m {
	case FlushAuto:
		return "auto"
	case FlushDataOnly:
		return "data"
	case FlushFull:
		return "full"
	default:
		return "unknown"
	}
}

// Range represents a dirty byte range (absolute image offsets).
type Range struct {
	Off int64 // Absolute offset in the image
	Len int64 // Length in bytes
}

// End returns the offset one past the range.
func (r Range) End() int64 { return r.Off + r.Len }

// Tracker accumulates dirty ranges and flushes them.
//
// NOT thread-safe. Only one goroutine should use it at a time.
type Tracker struct {
	ranges   []Range // Dirty ranges, coalesced at flush time
	pageSize int64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		ranges:   make([]Range, 0, defaultRangeCapacity),
		pageSize: standardPageSize,
	}
}

// Add records a dirty range. Empty or negative ranges are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 || off < 0 {
		return
	}
	t.ranges = append(t.ranges, Range{
		Off: int64(off),
		Len: int64(length),
	})
}

// Len returns the number of raw ranges staged since the last flush.
func (t *Tracker) Len() int { return len(t.ranges) }

// Pending returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) Pending() []Range {
	result := make([]Range, len(t.ranges))
	copy(result, t.ranges)
	return result
}

// Coalesced returns the page-aligned, sorted and merged ranges a flush
// would write.
func (t *Tracker) Coalesced() []Range {
	return t.coalesce()
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Flush persists every staged range of target and, unless mode is
// FlushDataOnly, syncs the backing file. Ranges are cleared only when the
// flush succeeds, so a failed flush can be retried.
//
// The context is checked before each range and before the file sync.
func (t *Tracker) Flush(ctx context.Context, target Target, mode FlushMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := target.File()
	if f == nil {
		return ErrNoFile
	}
	data := target.Bytes()

	if len(t.ranges) > 0 && len(data) > 0 {
		coalesced := clamp(t.coalesce(), int64(len(data)))
		var err error
		if target.Mapped() {
			err = flushMapped(ctx, data, coalesced)
		} else {
			err = writeBack(ctx, f, data, coalesced)
		}
		if err != nil {
			return err
		}
	}

	if mode == FlushDataOnly {
		t.ranges = t.ranges[:0]
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fdatasync(f, mode == FlushFull); err != nil {
		return err
	}
	t.ranges = t.ranges[:0]
	return nil
}

// writeBack copies dirty ranges of a private buffer into the file.
func writeBack(ctx context.Context, f interface {
	WriteAt(p []byte, off int64) (int, error)
}, data []byte, ranges []Range) error {
	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := f.WriteAt(data[r.Off:r.End()], r.Off); err != nil {
			return err
		}
	}
	return nil
}

// clamp trims ranges to [0, size) and drops those that fall outside.
func clamp(ranges []Range, size int64) []Range {
	out := ranges[:0]
	for _, r := range ranges {
		if r.Off >= size {
			continue
		}
		if r.End() > size {
			r.Len = size - r.Off
		}
		out = append(out, r)
	}
	return out
}

// coalesce page-aligns all ranges, sorts them, and merges overlapping/adjacent ranges.
//
// Returns a new slice of non-overlapping, sorted ranges.
func (t *Tracker) coalesce() []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	// Page-align all ranges
	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		// Round down start to page boundary
		start := (r.Off / t.pageSize) * t.pageSize

		// Round up end to page boundary
		end := r.End()
		if end%t.pageSize != 0 {
			end = ((end / t.pageSize) + 1) * t.pageSize
		}

		aligned[i] = Range{
			Off: start,
			Len: end - start,
		}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	// Merge overlapping/adjacent ranges
	merged := make([]Range, 0, len(aligned))
	current := aligned[0]

	for i := 1; i < len(aligned); i++ {
		next := aligned[i]

		if next.Off <= current.End() {
			end := current.End()
			if next.End() > end {
				end = next.End()
			}
			current.Len = end - current.Off
		} else {
			merged = append(merged, current)
			current = next
		}
	}

	merged = append(merged, current)

	return merged
}
