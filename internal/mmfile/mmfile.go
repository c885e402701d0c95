// Package mmfile provides platform-specific helpers for mapping a store image
// into memory read-write.
package mmfile

import (
	"errors"
	"fmt"
	"os"
)

// ErrSizeMismatch is returned when an existing image has a different size
// than requested.
var ErrSizeMismatch = errors.New("mmfile: size mismatch")

// Mapping is a writable view of a fixed-size file. When Mapped reports true
// the bytes alias the page cache and must be synced through the file's
// mapping; otherwise they are a private copy that the caller writes back.
type Mapping struct {
	f      *os.File
	data   []byte
	mapped bool
	unmap  func() error
}

// Bytes returns the mapped contents.
func (m *Mapping) Bytes() []byte { return m.data }

// File returns the underlying file handle, or nil once closed.
func (m *Mapping) File() *os.File { return m.f }

// Mapped reports whether Bytes aliases a real memory mapping.
func (m *Mapping) Mapped() bool { return m.mapped }

// Close unmaps the view and closes the file. Calling Close twice is a no-op.
func (m *Mapping) Close() error {
	var errs []error
	if m.unmap != nil {
		errs = append(errs, m.unmap())
		m.unmap = nil
	}
	m.data = nil
	if m.f != nil {
		errs = append(errs, m.f.Close())
		m.f = nil
	}
	return errors.Join(errs...)
}

// OpenRW opens path for reading and writing and maps size bytes of it. When
// create is set a missing file is created and extended with zeros; created
// reports whether that happened. An existing file must be exactly size bytes.
func OpenRW(path string, size int, create bool) (m *Mapping, created bool, err error) {
	if size <= 0 {
		return nil, false, fmt.Errorf("mmfile: invalid size %d", size)
	}
	flag := os.O_RDWR
	if create {
		flag |= os.O_CREATE
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, false, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, false, err
	}
	switch {
	case st.Size() == 0 && create:
		if err := f.Truncate(int64(size)); err != nil {
			_ = f.Close()
			return nil, false, fmt.Errorf("mmfile: extend %s: %w", path, err)
		}
		created = true
	case st.Size() != int64(size):
		_ = f.Close()
		return nil, false, fmt.Errorf("%w: %s is %d bytes, want %d", ErrSizeMismatch, path, st.Size(), size)
	}

	data, mapped, unmap, err := mapFile(f, size)
	if err != nil {
		_ = f.Close()
		return nil, false, err
	}
	return &Mapping{f: f, data: data, mapped: mapped, unmap: unmap}, created, nil
}
