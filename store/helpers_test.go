package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nvstore/flash"
)

// testRig is a store over in-memory media, with handles on both media so
// tests can inspect committed bytes and simulate resets.
type testRig struct {
	img *flash.Memory
	occ *flash.Memory
	s   *Store
}

func newRig(t testing.TB, capacity int) *testRig {
	t.Helper()
	img, err := flash.NewMemory(capacity)
	require.NoError(t, err)
	occ, err := flash.NewMemory(OccupancyLen(capacity))
	require.NoError(t, err)
	s, err := New(img, Options{Occupancy: occ})
	require.NoError(t, err)
	return &testRig{img: img, occ: occ, s: s}
}

// newInitialized returns a rig whose store has been initialized.
func newInitialized(t testing.TB, capacity int) *testRig {
	t.Helper()
	r := newRig(t, capacity)
	require.NoError(t, r.s.Initialize(capacity))
	return r
}

// reboot drops everything not committed and attaches a fresh Store to the
// same media.
func (r *testRig) reboot(t testing.TB) {
	t.Helper()
	require.NoError(t, r.s.Close())
	r.img.PowerLoss()
	r.occ.PowerLoss()
	s, err := New(r.img, Options{Occupancy: r.occ})
	require.NoError(t, err)
	require.NoError(t, s.Attach(r.img.Capacity()))
	r.s = s
}

// snapshot captures the bookkeeping and raw image for no-mutation checks.
type snapshot struct {
	stats Stats
	image []byte
}

func takeSnapshot(t testing.TB, s *Store) snapshot {
	t.Helper()
	raw, err := s.Raw(0, s.Capacity())
	require.NoError(t, err)
	return snapshot{stats: s.Stats(), image: raw}
}
