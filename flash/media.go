package flash

import (
	"fmt"
	"io"

	"github.com/joshuapare/nvstore/internal/buf"
	"github.com/joshuapare/nvstore/internal/format"
)

// Media is byte-addressable storage with an explicit durability point.
//
// ReadAt and WriteAt follow io.ReaderAt and io.WriterAt but never perform
// short transfers: a range that does not fit fails with ErrOutOfRange and
// transfers nothing.
type Media interface {
	io.ReaderAt
	io.WriterAt

	// Capacity returns the number of addressable bytes.
	Capacity() int
	// ReadByteAt returns the byte stored at off.
	ReadByteAt(off int) (byte, error)
	// WriteByteAt stages v at off. It is not durable until Commit.
	WriteByteAt(off int, v byte) error
	// Commit flushes staged writes to the physical media.
	Commit() error
	// Close releases the media. Staged writes that were not committed may be lost.
	Close() error
}

// checkCapacity validates a requested media size.
func checkCapacity(capacity int) error {
	if capacity <= 0 || capacity > format.MaxMemory {
		return fmt.Errorf("%w: %d (max %d)", ErrCapacity, capacity, format.MaxMemory)
	}
	return nil
}

// span returns data[off:off+n] or ErrOutOfRange.
func span(data []byte, off int64, n int) ([]byte, error) {
	if off < 0 || off > int64(len(data)) {
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, off)
	}
	b, ok := buf.Slice(data, int(off), n)
	if !ok {
		return nil, fmt.Errorf("%w: [%d, %d+%d) exceeds %d", ErrOutOfRange, off, off, n, len(data))
	}
	return b, nil
}
