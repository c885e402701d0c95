package store

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/nvstore/internal/buf"
	"github.com/joshuapare/nvstore/internal/format"
)

// Arbitrary writes place a record at a caller-chosen offset. They do not
// check what the bytes held before; overwriting part of another record is
// the caller's business.

// WriteUint8At writes a one-byte integer at off.
func (s *Store) WriteUint8At(off int, v uint8) error {
	return s.WriteAt(off, Record{Kind: KindUint8, Uint8: v})
}

// WriteFloatAt writes a four-byte float at off.
func (s *Store) WriteFloatAt(off int, v float32) error {
	return s.WriteAt(off, Record{Kind: KindFloat, Float: v})
}

// WriteCharAt writes a one-byte ISO-8859-1 character at off.
func (s *Store) WriteCharAt(off int, r rune) error {
	return s.WriteAt(off, Record{Kind: KindChar, Char: r})
}

// WriteBoolAt writes a one-byte boolean at off.
func (s *Store) WriteBoolAt(off int, v bool) error {
	return s.WriteAt(off, Record{Kind: KindBool, Bool: v})
}

// WriteAt writes rec at off.
//
// The record must lie within [UserSpace, capacity); otherwise ErrOutOfRange
// is returned and nothing changes. FREE_MEMORY shrinks only by the bytes that
// were free before the write, so rewriting an occupied record leaves it
// unchanged. When off is the bump pointer the pointer advances past the
// record, keeping sequential writes from landing on it. DIRTY is set and
// everything is committed; a failed commit rolls the write back.
func (s *Store) WriteAt(off int, rec Record) error {
	if err := s.ready(); err != nil {
		return err
	}
	n := format.SizeOf(rec.Kind)
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrBadKind, uint8(rec.Kind))
	}
	if !buf.Within(off, n, format.UserSpace, s.capacity) {
		s.log.Debug("arbitrary write refused", "kind", rec.Kind, "off", off)
		return fmt.Errorf("%w: %s at %d", ErrOutOfRange, rec.Kind, off)
	}
	var enc [4]byte
	if err := format.Encode(enc[:], rec); err != nil {
		return err
	}

	m, err := s.capture(off, n)
	if err != nil {
		return err
	}
	return s.apply(m, func() error {
		if _, err := s.media.WriteAt(enc[:n], int64(off)); err != nil {
			return fmt.Errorf("store: write record: %w", err)
		}
		claimed, err := s.markOccupied(off, n)
		if err != nil {
			return err
		}
		if off == s.LastAvailableAddress() {
			s.putU32(format.LastFreeAddrOffset, uint32(off+n))
		}
		if claimed > 0 {
			s.putU32(format.FreeMemoryOffset, uint32(s.FreeMemory()-claimed))
		}
		s.putByte(format.DirtyOffset, 1)
		return s.flushHeader()
	})
}

// Free releases the record of kind k at off: every byte of it is set to the
// sentinel and FREE_MEMORY grows by the number of bytes that were occupied,
// so freeing twice does not inflate the counter. LASTFREEADD and DIRTY are
// not touched. A failed commit puts the record back.
func (s *Store) Free(off int, k Kind) error {
	if err := s.ready(); err != nil {
		return err
	}
	n := format.SizeOf(k)
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrBadKind, uint8(k))
	}
	if !buf.Within(off, n, format.UserSpace, s.capacity) {
		return fmt.Errorf("%w: free %s at %d", ErrOutOfRange, k, off)
	}

	m, err := s.capture(off, n)
	if err != nil {
		return err
	}
	return s.apply(m, func() error {
		if _, err := s.media.WriteAt(bytes.Repeat([]byte{format.Sentinel}, n), int64(off)); err != nil {
			return fmt.Errorf("store: free record: %w", err)
		}
		released, err := s.markFree(off, n)
		if err != nil {
			return err
		}
		if released == 0 {
			return nil
		}
		s.putU32(format.FreeMemoryOffset, uint32(s.FreeMemory()+released))
		return s.flushHeader()
	})
}

// IsFree reports whether the byte at off is free. Header offsets and offsets
// past the end of the store are never free.
func (s *Store) IsFree(off int) bool {
	if s.state == Uninitialized || off < format.UserSpace || off >= s.capacity {
		return false
	}
	return !s.occupied(off)
}
