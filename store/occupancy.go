package store

import (
	"fmt"
	"math/bits"

	"github.com/joshuapare/nvstore/internal/format"
)

// The occupancy bitmap holds one bit per store byte: bit (off & 7) of byte
// (off >> 3). A set bit means occupied. Header bits are never set.

func (s *Store) occupied(off int) bool {
	return s.occ[off>>3]&(1<<(off&7)) != 0
}

// freeCount returns how many bytes of [off, off+n) are free.
func (s *Store) freeCount(off, n int) int {
	free := 0
	for i := off; i < off+n; i++ {
		if !s.occupied(i) {
			free++
		}
	}
	return free
}

// occupiedCount returns the number of occupied user bytes.
func (s *Store) occupiedCount() int {
	total := 0
	for _, b := range s.occ {
		total += bits.OnesCount8(b)
	}
	return total
}

// markOccupied sets the bits of [off, off+n), stages them, and returns how
// many were previously clear.
func (s *Store) markOccupied(off, n int) (int, error) {
	changed := 0
	for i := off; i < off+n; i++ {
		if !s.occupied(i) {
			s.occ[i>>3] |= 1 << (i & 7)
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.flushOccupancy(off>>3, (off+n-1)>>3+1)
}

// markFree clears the bits of [off, off+n), stages them, and returns how
// many were previously set.
func (s *Store) markFree(off, n int) (int, error) {
	changed := 0
	for i := off; i < off+n; i++ {
		if s.occupied(i) {
			s.occ[i>>3] &^= 1 << (i & 7)
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.flushOccupancy(off>>3, (off+n-1)>>3+1)
}

// flushOccupancy stages occ[lo:hi] on the occupancy media, if any.
func (s *Store) flushOccupancy(lo, hi int) error {
	if s.occMedia == nil || lo >= hi {
		return nil
	}
	if _, err := s.occMedia.WriteAt(s.occ[lo:hi], int64(lo)); err != nil {
		return fmt.Errorf("store: write occupancy: %w", err)
	}
	return nil
}

// loadOccupancy fills the bitmap mirror during Attach. Without occupancy
// media the mirror starts empty and is filled in by adoptWritten.
func (s *Store) loadOccupancy() error {
	s.occ = make([]byte, format.OccupancyLen(s.capacity))
	if s.occMedia == nil {
		return nil
	}
	if _, err := s.occMedia.ReadAt(s.occ, 0); err != nil {
		return fmt.Errorf("store: read occupancy: %w", err)
	}
	s.clearHeaderBits()
	return nil
}

// adoptWritten marks every user byte that does not hold the sentinel as
// occupied and returns how many bits it had to set. A free byte always holds
// the sentinel, so such bytes were written by a record whose bitmap update
// never became durable, or by an image kept without occupancy media.
func (s *Store) adoptWritten() (int, error) {
	user := make([]byte, s.capacity-format.UserSpace)
	if _, err := s.media.ReadAt(user, format.UserSpace); err != nil {
		return 0, fmt.Errorf("store: scan user region: %w", err)
	}
	adopted := 0
	for i, b := range user {
		off := format.UserSpace + i
		if b != format.Sentinel && !s.occupied(off) {
			s.occ[off>>3] |= 1 << (off & 7)
			adopted++
		}
	}
	return adopted, nil
}

func (s *Store) clearHeaderBits() {
	for off := 0; off < format.UserSpace; off++ {
		s.occ[off>>3] &^= 1 << (off & 7)
	}
	// bits past capacity in the last byte
	for off := s.capacity; off < len(s.occ)*8; off++ {
		s.occ[off>>3] &^= 1 << (off & 7)
	}
}
