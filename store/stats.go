package store

import (
	"fmt"

	"github.com/joshuapare/nvstore/internal/buf"
	"github.com/joshuapare/nvstore/internal/format"
)

// Stats is a snapshot of the header and occupancy, for reporting.
type Stats struct {
	State        string `json:"state"`
	Capacity     int    `json:"capacity"`
	UserRegion   int    `json:"user_region"`
	Free         int    `json:"free"`
	Occupied     int    `json:"occupied"`
	LastAddress  int    `json:"last_address"`
	StartAddress int    `json:"start_address"`
	Hours        int    `json:"hours"`
	Dirty        bool   `json:"dirty"`
}

// Stats returns the current bookkeeping values.
func (s *Store) Stats() Stats {
	st := Stats{State: s.state.String()}
	if s.state == Uninitialized {
		return st
	}
	st.Capacity = s.capacity
	st.UserRegion = format.UserRegionSize(s.capacity)
	st.Free = s.FreeMemory()
	st.Occupied = s.occupiedCount()
	st.LastAddress = s.LastAvailableAddress()
	st.StartAddress = s.StartAddress()
	st.Hours = s.Hours()
	st.Dirty = s.Dirty()
	return st
}

// Raw returns a copy of n bytes at off, header included, without decoding.
func (s *Store) Raw(off, n int) ([]byte, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if !buf.Within(off, n, 0, s.capacity) {
		return nil, fmt.Errorf("%w: [%d, %d+%d)", ErrOutOfRange, off, off, n)
	}
	out := make([]byte, n)
	if _, err := s.media.ReadAt(out, int64(off)); err != nil {
		return nil, err
	}
	return out, nil
}
