package flash

import "github.com/joshuapare/nvstore/flash/dirty"

// Memory is volatile media with a separate committed image, so tests can
// observe exactly what a commit made durable.
type Memory struct {
	staged    []byte
	committed []byte
	tracker   *dirty.Tracker
	commits   int
	closed    bool

	// FailCommit, when set, is returned by Commit instead of persisting.
	FailCommit error
}

// NewMemory returns zero-filled media of the given capacity.
func NewMemory(capacity int) (*Memory, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	return &Memory{
		staged:    make([]byte, capacity),
		committed: make([]byte, capacity),
		tracker:   dirty.NewTracker(),
	}, nil
}

// Capacity returns the number of addressable bytes.
func (m *Memory) Capacity() int { return len(m.staged) }

// Commits returns how many successful commits persisted data.
func (m *Memory) Commits() int { return m.commits }

// Pending returns the number of staged writes not yet committed.
func (m *Memory) Pending() int { return m.tracker.Len() }

// Committed returns a copy of the durable image.
func (m *Memory) Committed() []byte {
	out := make([]byte, len(m.committed))
	copy(out, m.committed)
	return out
}

// ReadByteAt returns the staged byte at off.
func (m *Memory) ReadByteAt(off int) (byte, error) {
	b, err := m.span(int64(off), 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteByteAt stages v at off; it is durable after the next Commit.
func (m *Memory) WriteByteAt(off int, v byte) error {
	b, err := m.span(int64(off), 1)
	if err != nil {
		return err
	}
	b[0] = v
	m.tracker.Add(off, 1)
	return nil
}

// ReadAt reads len(p) staged bytes at off. Reads past the end fail
// with ErrOutOfRange and copy nothing.
func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	b, err := m.span(off, len(p))
	if err != nil {
		return 0, err
	}
	return copy(p, b), nil
}

// WriteAt stages p at off and records the range for the next Commit.
func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	b, err := m.span(off, len(p))
	if err != nil {
		return 0, err
	}
	n := copy(b, p)
	m.tracker.Add(int(off), n)
	return n, nil
}

// Commit copies the staged ranges into the durable image.
func (m *Memory) Commit() error {
	if m.closed {
		return ErrClosed
	}
	if m.FailCommit != nil {
		return m.FailCommit
	}
	pending := m.tracker.Pending()
	if len(pending) == 0 {
		return nil
	}
	for _, r := range pending {
		copy(m.committed[r.Off:r.End()], m.staged[r.Off:r.End()])
	}
	m.tracker.Reset()
	m.commits++
	return nil
}

// PowerLoss discards every write made since the last successful Commit.
func (m *Memory) PowerLoss() {
	copy(m.staged, m.committed)
	m.tracker.Reset()
	m.closed = false
}

// Close marks the media closed. The durable image survives and PowerLoss
// reopens it, mimicking a reboot.
func (m *Memory) Close() error {
	m.closed = true
	return nil
}

func (m *Memory) span(off int64, n int) ([]byte, error) {
	if m.closed {
		return nil, ErrClosed
	}
	return span(m.staged, off, n)
}

var _ Media = (*Memory)(nil)
