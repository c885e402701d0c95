package flash

import (
	"context"
	"fmt"

	"github.com/joshuapare/nvstore/flash/dirty"
	"github.com/joshuapare/nvstore/internal/mmfile"
)

// Device is a store image file mapped into memory.
type Device struct {
	m        *mmfile.Mapping
	path     string
	capacity int
	created  bool
	tracker  *dirty.Tracker
	mode     dirty.FlushMode
}

// DeviceOption configures Open.
type DeviceOption func(*Device)

// WithFlushMode selects the durability level used by Commit.
func WithFlushMode(mode dirty.FlushMode) DeviceOption {
	return func(d *Device) {
		d.mode = mode
	}
}

// Open binds a Device to capacity bytes of the file at path, creating the
// file when it does not exist. An existing file must be exactly capacity
// bytes long.
func Open(path string, capacity int, opts ...DeviceOption) (*Device, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	m, created, err := mmfile.OpenRW(path, capacity, true)
	if err != nil {
		return nil, fmt.Errorf("flash: open %s: %w", path, err)
	}
	d := &Device{
		m:        m,
		path:     path,
		capacity: capacity,
		created:  created,
		tracker:  dirty.NewTracker(),
		mode:     dirty.FlushAuto,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Path returns the backing file path.
func (d *Device) Path() string { return d.path }

// Created reports whether Open created the backing file.
func (d *Device) Created() bool { return d.created }

// Capacity returns the number of addressable bytes.
func (d *Device) Capacity() int { return d.capacity }

// Bytes exposes the mapped image. Writing through it bypasses dirty tracking.
func (d *Device) Bytes() []byte {
	if d.m == nil {
		return nil
	}
	return d.m.Bytes()
}

// Pending returns the number of staged writes not yet committed.
func (d *Device) Pending() int { return d.tracker.Len() }

// ReadByteAt returns the staged byte at off.
func (d *Device) ReadByteAt(off int) (byte, error) {
	b, err := d.span(int64(off), 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteByteAt stages v at off; it is durable after the next Commit.
func (d *Device) WriteByteAt(off int, v byte) error {
	b, err := d.span(int64(off), 1)
	if err != nil {
		return err
	}
	b[0] = v
	d.tracker.Add(off, 1)
	return nil
}

// ReadAt reads len(p) staged bytes at off. Reads past the end fail
// with ErrOutOfRange and copy nothing.
func (d *Device) ReadAt(p []byte, off int64) (int, error) {
	b, err := d.span(off, len(p))
	if err != nil {
		return 0, err
	}
	return copy(p, b), nil
}

// WriteAt stages p at off and records the range for the next Commit.
func (d *Device) WriteAt(p []byte, off int64) (int, error) {
	b, err := d.span(off, len(p))
	if err != nil {
		return 0, err
	}
	n := copy(b, p)
	d.tracker.Add(int(off), n)
	return n, nil
}

// Commit flushes the pages written since the previous Commit.
func (d *Device) Commit() error {
	return d.CommitContext(context.Background())
}

// CommitContext is Commit with cancellation between flushed ranges.
func (d *Device) CommitContext(ctx context.Context) error {
	if d.m == nil {
		return ErrClosed
	}
	if d.tracker.Len() == 0 {
		return nil
	}
	if err := d.tracker.Flush(ctx, d.m, d.mode); err != nil {
		return fmt.Errorf("flash: commit %s: %w", d.path, err)
	}
	return nil
}

// Close unmaps and closes the file without committing staged writes. On
// mapped platforms the kernel may still write them back later.
func (d *Device) Close() error {
	if d.m == nil {
		return nil
	}
	err := d.m.Close()
	d.m = nil
	d.tracker.Reset()
	return err
}

func (d *Device) span(off int64, n int) ([]byte, error) {
	if d.m == nil {
		return nil, ErrClosed
	}
	return span(d.m.Bytes(), off, n)
}

var _ Media = (*Device)(nil)
