package store

import (
	"errors"
	"fmt"

	"github.com/joshuapare/nvstore/internal/format"
)

// mutation holds what an operation may change, so that a failed commit can
// be undone.
type mutation struct {
	hdr   [format.UserSpace]byte
	off   int
	data  []byte // image bytes at off before the operation
	occLo int
	occ   []byte // bitmap bytes covering data
}

// capture records the header and the n image bytes at off, with their
// occupancy bits. n may be zero for header-only operations.
func (s *Store) capture(off, n int) (*mutation, error) {
	m := &mutation{hdr: s.hdr, off: off}
	if n == 0 {
		return m, nil
	}
	m.data = make([]byte, n)
	if _, err := s.media.ReadAt(m.data, int64(off)); err != nil {
		return nil, fmt.Errorf("store: read record: %w", err)
	}
	m.occLo = off >> 3
	m.occ = append([]byte(nil), s.occ[m.occLo:(off+n-1)>>3+1]...)
	return m, nil
}

// apply runs fn and commits. If either fails, the mirrors are restored and
// the previous bytes staged again, so the next successful commit persists
// the state from before the operation.
func (s *Store) apply(m *mutation, fn func() error) error {
	err := fn()
	if err == nil {
		if err = s.commit(); err == nil {
			return nil
		}
	}
	if rbErr := s.rollback(m); rbErr != nil {
		return errors.Join(err, rbErr)
	}
	return err
}

func (s *Store) rollback(m *mutation) error {
	s.hdr = m.hdr
	var errs []error
	if len(m.data) > 0 {
		if _, err := s.media.WriteAt(m.data, int64(m.off)); err != nil {
			errs = append(errs, fmt.Errorf("store: restore record: %w", err))
		}
		copy(s.occ[m.occLo:], m.occ)
		errs = append(errs, s.flushOccupancy(m.occLo, m.occLo+len(m.occ)))
	}
	errs = append(errs, s.flushHeader())
	return errors.Join(errs...)
}

// updateHeader applies set to the header mirror and commits it, rolling
// back on failure.
func (s *Store) updateHeader(set func()) error {
	return s.apply(&mutation{hdr: s.hdr}, func() error {
		set()
		return s.flushHeader()
	})
}
