package store

import (
	"fmt"

	"github.com/joshuapare/nvstore/internal/buf"
	"github.com/joshuapare/nvstore/internal/format"
)

// Sequential writes treat the user region as an append-only list: each
// record goes at LASTFREEADD, which then advances by the record width. They
// are the only writes that give LASTFREEADD its meaning.

// WriteUint8 appends a one-byte integer and returns the offset it was written at.
func (s *Store) WriteUint8(v uint8) (int, error) {
	return s.Write(Record{Kind: KindUint8, Uint8: v})
}

// WriteFloat appends a four-byte float and returns the offset it was written at.
func (s *Store) WriteFloat(v float32) (int, error) {
	return s.Write(Record{Kind: KindFloat, Float: v})
}

// WriteChar appends a one-byte ISO-8859-1 character.
func (s *Store) WriteChar(r rune) (int, error) {
	return s.Write(Record{Kind: KindChar, Char: r})
}

// WriteBool appends a one-byte boolean.
func (s *Store) WriteBool(v bool) (int, error) {
	return s.Write(Record{Kind: KindBool, Bool: v})
}

// Write appends rec at the bump pointer.
//
// It fails with ErrNoSpace, leaving the store untouched, when FREE_MEMORY is
// smaller than the record or the record would run past the end of the store.
// On success FREE_MEMORY shrinks by the record width, the bump pointer
// advances by the same amount, DIRTY is set and everything is committed.
// If the commit fails the write is rolled back and the error returned; the
// store reads as if the write never happened and a retry appends at the
// same offset.
func (s *Store) Write(rec Record) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	n := format.SizeOf(rec.Kind)
	var enc [4]byte
	if err := format.Encode(enc[:], rec); err != nil {
		return 0, err
	}

	off := s.LastAvailableAddress()
	free := s.FreeMemory()
	if free < n || !buf.Within(off, n, format.UserSpace, s.capacity) {
		s.log.Debug("sequential write refused", "kind", rec.Kind, "off", off, "free", free)
		return 0, fmt.Errorf("%w: %s needs %d bytes at %d, %d free", ErrNoSpace, rec.Kind, n, off, free)
	}

	m, err := s.capture(off, n)
	if err != nil {
		return 0, err
	}
	err = s.apply(m, func() error {
		if _, err := s.media.WriteAt(enc[:n], int64(off)); err != nil {
			return fmt.Errorf("store: write record: %w", err)
		}
		claimed, err := s.markOccupied(off, n)
		if err != nil {
			return err
		}
		s.putU32(format.FreeMemoryOffset, uint32(free-claimed))
		s.putU32(format.LastFreeAddrOffset, uint32(off+n))
		s.putByte(format.DirtyOffset, 1)
		return s.flushHeader()
	})
	if err != nil {
		return 0, err
	}
	return off, nil
}

// ReadUint8 decodes the byte at off. Reads do not consult occupancy; the
// caller is responsible for pointing at a record it wrote.
func (s *Store) ReadUint8(off int) (uint8, error) {
	rec, err := s.Read(off, KindUint8)
	return rec.Uint8, err
}

// ReadFloat reassembles the four bytes at off into a float, least-significant
// byte first.
func (s *Store) ReadFloat(off int) (float32, error) {
	rec, err := s.Read(off, KindFloat)
	return rec.Float, err
}

// ReadChar decodes the ISO-8859-1 character at off.
func (s *Store) ReadChar(off int) (rune, error) {
	rec, err := s.Read(off, KindChar)
	return rec.Char, err
}

// ReadBool decodes the boolean at off; any non-zero byte is true.
func (s *Store) ReadBool(off int) (bool, error) {
	rec, err := s.Read(off, KindBool)
	return rec.Bool, err
}

// Read decodes a record of kind k at off. It fails with ErrOutOfRange when
// the record does not lie entirely within the user region.
func (s *Store) Read(off int, k Kind) (Record, error) {
	if err := s.ready(); err != nil {
		return Record{}, err
	}
	n := format.SizeOf(k)
	if n == 0 {
		return Record{}, fmt.Errorf("%w: %d", ErrBadKind, uint8(k))
	}
	if !buf.Within(off, n, format.UserSpace, s.capacity) {
		return Record{}, fmt.Errorf("%w: %s at %d", ErrOutOfRange, k, off)
	}
	var raw [4]byte
	if _, err := s.media.ReadAt(raw[:n], int64(off)); err != nil {
		return Record{}, fmt.Errorf("store: read record: %w", err)
	}
	return format.Decode(raw[:n], k)
}
