package store

import (
	"bytes"
	"fmt"
	"math"

	"github.com/joshuapare/nvstore/internal/buf"
	"github.com/joshuapare/nvstore/internal/format"
)

// Initialize erases the store and writes a fresh header. It requires the
// board to be powered; otherwise it fails with ErrPowerOff before touching
// the media.
//
// Every byte of the image becomes the sentinel, then the header is set to
// LASTFREEADD = START_ADDRESS = UserSpace, FREE_MEMORY = capacity - UserSpace,
// HOURS = 0 and DIRTY = false.
func (s *Store) Initialize(capacity int) error {
	if !s.power.BoardOn() {
		s.log.Debug("initialize refused: board off")
		return ErrPowerOff
	}
	if err := s.checkCapacity(capacity); err != nil {
		return err
	}

	s.state = Uninitialized
	erase := bytes.Repeat([]byte{format.Sentinel}, capacity)
	if _, err := s.media.WriteAt(erase, 0); err != nil {
		return fmt.Errorf("store: erase: %w", err)
	}
	copy(s.hdr[:], erase[:format.UserSpace])

	s.capacity = capacity
	s.occ = make([]byte, format.OccupancyLen(capacity))
	if err := s.flushOccupancy(0, len(s.occ)); err != nil {
		return err
	}

	s.putU32(format.LastFreeAddrOffset, format.UserSpace)
	s.putU32(format.StartAddrOffset, format.UserSpace)
	s.putU32(format.FreeMemoryOffset, uint32(format.UserRegionSize(capacity)))
	s.putByte(format.HoursOffset, 0)
	s.putByte(format.DirtyOffset, 0)
	s.putByte(format.VersionOffset, format.LayoutVersion)
	s.putBytes(format.SignatureOffset, format.Signature)
	if err := s.flushHeader(); err != nil {
		return err
	}
	if err := s.commit(); err != nil {
		return err
	}

	s.state = Initialized
	s.log.Info("store initialized", "capacity", capacity, "free", s.FreeMemory())
	return nil
}

// Attach binds to content written by an earlier Initialize without erasing
// it, so the device resumes where it left off after a reset.
//
// When the occupancy bitmap does not agree with FREE_MEMORY (a reset between
// the image and bitmap commits, or an image written without a bitmap), the
// bitmap is rebuilt or FREE_MEMORY recomputed and the repair committed.
func (s *Store) Attach(capacity int) error {
	if err := s.checkCapacity(capacity); err != nil {
		return err
	}
	var hdr [format.UserSpace]byte
	if _, err := s.media.ReadAt(hdr[:], 0); err != nil {
		return fmt.Errorf("store: read header: %w", err)
	}
	if !bytes.Equal(hdr[format.SignatureOffset:format.SignatureOffset+format.SignatureSize], format.Signature) {
		return ErrNotFormatted
	}
	if v := hdr[format.VersionOffset]; v != format.LayoutVersion {
		return fmt.Errorf("%w: layout version %d", ErrNotFormatted, v)
	}
	if err := sanity(hdr[:], capacity); err != nil {
		return err
	}

	s.state = Uninitialized
	s.hdr = hdr
	s.capacity = capacity
	if err := s.loadOccupancy(); err != nil {
		return err
	}
	if err := s.reconcile(); err != nil {
		return err
	}

	s.state = Attached
	s.log.Info("store attached",
		"capacity", capacity,
		"free", s.FreeMemory(),
		"last", s.LastAvailableAddress(),
		"dirty", s.Dirty(),
	)
	return nil
}

// sanity checks the header fields that the allocator relies on.
func sanity(hdr []byte, capacity int) error {
	last := int64(format.ReadU32(hdr, format.LastFreeAddrOffset))
	if last < format.UserSpace || last > int64(capacity) {
		return fmt.Errorf("%w: LASTFREEADD %d outside [%d, %d]", ErrCorrupt, last, format.UserSpace, capacity)
	}
	free := int64(format.ReadU32(hdr, format.FreeMemoryOffset))
	if free > int64(format.UserRegionSize(capacity)) {
		return fmt.Errorf("%w: FREE_MEMORY %d exceeds user region %d", ErrCorrupt, free, format.UserRegionSize(capacity))
	}
	return nil
}

// reconcile brings the bitmap and FREE_MEMORY in line with the image after
// Attach, committing any repair.
func (s *Store) reconcile() error {
	adopted, err := s.adoptWritten()
	if err != nil {
		return err
	}
	repaired := false
	if adopted > 0 && s.occMedia != nil {
		s.log.Warn("occupancy missing written bytes, adopting them", "bytes", adopted)
		if err := s.flushOccupancy(0, len(s.occ)); err != nil {
			return err
		}
		repaired = true
	}

	want := format.UserRegionSize(s.capacity) - s.occupiedCount()
	if want != s.FreeMemory() {
		s.log.Warn("free memory disagrees with occupancy, recomputing",
			"header", s.FreeMemory(),
			"occupancy", want,
		)
		s.putU32(format.FreeMemoryOffset, uint32(want))
		if err := s.flushHeader(); err != nil {
			return err
		}
		repaired = true
	}
	if !repaired {
		return nil
	}
	return s.commit()
}

// ---- Header accessors ----

// Dirty reports whether unread or unsent user data exists.
func (s *Store) Dirty() bool { return s.hdr[format.DirtyOffset] == 1 }

// SetDirty sets the dirty flag and commits immediately.
func (s *Store) SetDirty(dirty bool) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.updateHeader(func() {
		s.putByte(format.DirtyOffset, format.EncodeBool(dirty))
	})
}

// FreeMemory returns the number of free bytes in the user region.
func (s *Store) FreeMemory() int { return int(s.getU32(format.FreeMemoryOffset)) }

// UpdateFreeMemory adds delta to FREE_MEMORY. It is the only sanctioned way
// to adjust the counter from outside the allocator and refuses results
// outside [0, capacity - UserSpace].
func (s *Store) UpdateFreeMemory(delta int) error {
	if err := s.ready(); err != nil {
		return err
	}
	next, ok := buf.AddOverflowSafe(s.FreeMemory(), delta)
	if !ok || next < 0 || next > format.UserRegionSize(s.capacity) {
		return fmt.Errorf("%w: free memory %d%+d", ErrOutOfRange, s.FreeMemory(), delta)
	}
	return s.updateHeader(func() {
		s.putU32(format.FreeMemoryOffset, uint32(next))
	})
}

// LastAvailableAddress returns the offset the next sequential write uses.
func (s *Store) LastAvailableAddress() int { return int(s.getU32(format.LastFreeAddrOffset)) }

// UpdateLastAddress moves the bump pointer by delta, keeping it within
// [UserSpace, capacity].
func (s *Store) UpdateLastAddress(delta int) error {
	if err := s.ready(); err != nil {
		return err
	}
	next, ok := buf.AddOverflowSafe(s.LastAvailableAddress(), delta)
	if !ok || next < format.UserSpace || next > s.capacity {
		return fmt.Errorf("%w: last address %d%+d", ErrOutOfRange, s.LastAvailableAddress(), delta)
	}
	return s.updateHeader(func() {
		s.putU32(format.LastFreeAddrOffset, uint32(next))
	})
}

// StartAddress returns the caller-managed pointer to the oldest data of
// interest.
func (s *Store) StartAddress() int { return int(s.getU32(format.StartAddrOffset)) }

// SetStartAddress stores off durably. The allocator does not interpret it.
func (s *Store) SetStartAddress(off int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if off < 0 || int64(off) > math.MaxUint32 {
		return fmt.Errorf("%w: start address %d", ErrOutOfRange, off)
	}
	return s.updateHeader(func() {
		s.putU32(format.StartAddrOffset, uint32(off))
	})
}

// Hours returns the hours elapsed since the last data push.
func (s *Store) Hours() int { return int(s.hdr[format.HoursOffset]) }

// IncrHours adds one hour. The counter saturates at 255.
func (s *Store) IncrHours() error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.updateHeader(func() {
		if h := s.hdr[format.HoursOffset]; h < format.MaxHours {
			s.putByte(format.HoursOffset, h+1)
		}
	})
}

// ResetHours sets the hours counter back to zero.
func (s *Store) ResetHours() error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.updateHeader(func() {
		s.putByte(format.HoursOffset, 0)
	})
}

// ---- Header mirror ----

func (s *Store) getU32(off int) uint32 { return format.ReadU32(s.hdr[:], off) }

func (s *Store) putU32(off int, v uint32) { format.PutU32(s.hdr[:], off, v) }

func (s *Store) putByte(off int, v byte) { s.hdr[off] = v }

func (s *Store) putBytes(off int, b []byte) { copy(s.hdr[off:], b) }

// flushHeader stages the header mirror on the media.
func (s *Store) flushHeader() error {
	if _, err := s.media.WriteAt(s.hdr[:], 0); err != nil {
		return fmt.Errorf("store: write header: %w", err)
	}
	return nil
}
