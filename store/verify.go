package store

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/nvstore/internal/format"
)

// ValidationError describes the first inconsistency Verify found.
type ValidationError struct {
	Field   string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.Field, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Verify cross-checks the header against the occupancy bitmap and the
// media. It returns nil or a *ValidationError for the first problem found.
func (s *Store) Verify() error {
	if err := s.ready(); err != nil {
		return err
	}
	hdr := make([]byte, format.UserSpace)
	if _, err := s.media.ReadAt(hdr, 0); err != nil {
		return err
	}
	if !bytes.Equal(hdr, s.hdr[:]) {
		return &ValidationError{Field: "header", Message: "media header differs from the in-memory copy", Offset: -1}
	}
	if !bytes.Equal(hdr[format.SignatureOffset:format.SignatureOffset+format.SignatureSize], format.Signature) {
		return &ValidationError{
			Field:   "signature",
			Message: fmt.Sprintf("got %q, expected %q", hdr[format.SignatureOffset:format.SignatureOffset+format.SignatureSize], format.Signature),
			Offset:  format.SignatureOffset,
		}
	}

	last := s.LastAvailableAddress()
	if last < format.UserSpace || last > s.capacity {
		return &ValidationError{
			Field:   "LASTFREEADD",
			Message: fmt.Sprintf("%d outside [%d, %d]", last, format.UserSpace, s.capacity),
			Offset:  format.LastFreeAddrOffset,
		}
	}
	if start := s.StartAddress(); start > s.capacity {
		return &ValidationError{
			Field:   "START_ADDRESS",
			Message: fmt.Sprintf("%d past end of store %d", start, s.capacity),
			Offset:  format.StartAddrOffset,
		}
	}

	used := s.occupiedCount()
	if want := format.UserRegionSize(s.capacity) - used; s.FreeMemory() != want {
		return &ValidationError{
			Field:   "FREE_MEMORY",
			Message: fmt.Sprintf("%d, occupancy implies %d (%d bytes used)", s.FreeMemory(), want, used),
			Offset:  format.FreeMemoryOffset,
		}
	}

	user := make([]byte, s.capacity-format.UserSpace)
	if _, err := s.media.ReadAt(user, format.UserSpace); err != nil {
		return err
	}
	for i, b := range user {
		off := format.UserSpace + i
		if !s.occupied(off) && b != format.Sentinel {
			return &ValidationError{
				Field:   "occupancy",
				Message: fmt.Sprintf("free byte holds 0x%02X, expected sentinel", b),
				Offset:  off,
			}
		}
	}
	return nil
}
