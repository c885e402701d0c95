package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAt_RoundTrip(t *testing.T) {
	r := newInitialized(t, 128)
	s := r.s

	require.NoError(t, s.WriteFloatAt(50, 3.14159))
	require.NoError(t, s.WriteCharAt(60, 'Q'))
	require.NoError(t, s.WriteBoolAt(61, true))
	require.NoError(t, s.WriteUint8At(62, 7))

	f, err := s.ReadFloat(50)
	require.NoError(t, err)
	assert.Equal(t, float32(3.14159), f)
	c, err := s.ReadChar(60)
	require.NoError(t, err)
	assert.Equal(t, 'Q', c)
	b, err := s.ReadBool(61)
	require.NoError(t, err)
	assert.True(t, b)
	u, err := s.ReadUint8(62)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), u)

	assert.Equal(t, 128-UserSpace-7, s.FreeMemory())
	assert.Equal(t, UserSpace, s.LastAvailableAddress(), "writes away from the pointer leave it alone")
	assert.True(t, s.Dirty())
	require.NoError(t, s.Verify())
}

func TestWriteAt_OutOfRange(t *testing.T) {
	tests := []struct {
		name string
		off  int
		rec  Record
	}{
		{"header", 19, Record{Kind: KindUint8}},
		{"offset zero", 0, Record{Kind: KindBool}},
		{"negative", -1, Record{Kind: KindChar, Char: 'a'}},
		{"at capacity", 64, Record{Kind: KindUint8}},
		{"float straddles end", 61, Record{Kind: KindFloat}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newInitialized(t, 64)
			snap := takeSnapshot(t, r.s)
			commits := r.img.Commits()

			require.ErrorIs(t, r.s.WriteAt(tt.off, tt.rec), ErrOutOfRange)
			assert.Equal(t, snap, takeSnapshot(t, r.s))
			assert.Equal(t, commits, r.img.Commits())
		})
	}
}

func TestWriteAt_LastFloatSlot(t *testing.T) {
	r := newInitialized(t, 64)
	require.NoError(t, r.s.WriteFloatAt(60, 9.5))
	v, err := r.s.ReadFloat(60)
	require.NoError(t, err)
	assert.Equal(t, float32(9.5), v)
}

func TestWriteAt_AdvancesBumpPointer(t *testing.T) {
	r := newInitialized(t, 64)
	s := r.s

	require.NoError(t, s.WriteFloatAt(UserSpace, 1))
	assert.Equal(t, UserSpace+4, s.LastAvailableAddress())

	off, err := s.WriteUint8(5)
	require.NoError(t, err)
	assert.Equal(t, UserSpace+4, off, "sequential write lands after the arbitrary one")
	f, err := s.ReadFloat(UserSpace)
	require.NoError(t, err)
	assert.Equal(t, float32(1), f)
}

func TestWriteAt_OverwriteKeepsFreeMemory(t *testing.T) {
	r := newInitialized(t, 64)
	s := r.s

	require.NoError(t, s.WriteUint8At(30, 1))
	free := s.FreeMemory()
	require.NoError(t, s.WriteUint8At(30, 2))
	assert.Equal(t, free, s.FreeMemory())

	// a float over 30..33 only claims the three new bytes
	require.NoError(t, s.WriteFloatAt(30, 1.25))
	assert.Equal(t, free-3, s.FreeMemory())
	require.NoError(t, s.Verify())
}

func TestFree(t *testing.T) {
	r := newInitialized(t, 64)
	s := r.s

	off, err := s.WriteFloat(2.5)
	require.NoError(t, err)
	require.NoError(t, s.SetDirty(false))
	free := s.FreeMemory()
	last := s.LastAvailableAddress()

	require.NoError(t, s.Free(off, KindFloat))
	assert.Equal(t, free+4, s.FreeMemory())
	assert.Equal(t, last, s.LastAvailableAddress())
	assert.False(t, s.Dirty(), "free does not touch the dirty flag")
	for i := off; i < off+4; i++ {
		assert.True(t, s.IsFree(i))
		u, err := s.ReadUint8(i)
		require.NoError(t, err)
		assert.Equal(t, uint8(Sentinel), u)
	}

	// freeing again releases nothing
	require.NoError(t, s.Free(off, KindFloat))
	assert.Equal(t, free+4, s.FreeMemory())
	require.NoError(t, s.Verify())
}

func TestFree_PartialRecord(t *testing.T) {
	r := newInitialized(t, 64)
	s := r.s
	require.NoError(t, s.WriteFloatAt(30, 1))
	require.NoError(t, s.Free(32, KindUint8))
	assert.Equal(t, 64-UserSpace-3, s.FreeMemory())
	assert.False(t, s.IsFree(31))
	assert.True(t, s.IsFree(32))
}

func TestFree_Errors(t *testing.T) {
	r := newInitialized(t, 64)
	s := r.s
	snap := takeSnapshot(t, s)

	require.ErrorIs(t, s.Free(10, KindUint8), ErrOutOfRange)
	require.ErrorIs(t, s.Free(62, KindFloat), ErrOutOfRange)
	require.ErrorIs(t, s.Free(30, Kind(7)), ErrBadKind)
	assert.Equal(t, snap, takeSnapshot(t, s))
}

func TestIsFree(t *testing.T) {
	r := newInitialized(t, 64)
	s := r.s

	assert.True(t, s.IsFree(20))
	assert.True(t, s.IsFree(63))
	assert.False(t, s.IsFree(0))
	assert.False(t, s.IsFree(19))
	assert.False(t, s.IsFree(64))

	_, err := s.WriteBool(true)
	require.NoError(t, err)
	assert.False(t, s.IsFree(20))
}

func TestSentinelValueIsData(t *testing.T) {
	r := newInitialized(t, 64)
	s := r.s

	off, err := s.WriteUint8(255)
	require.NoError(t, err)
	assert.False(t, s.IsFree(off), "a stored 255 is still occupied")
	assert.Equal(t, 64-UserSpace-1, s.FreeMemory())
	require.NoError(t, s.Verify())

	r.reboot(t)
	assert.False(t, r.s.IsFree(off))
	assert.Equal(t, 64-UserSpace-1, r.s.FreeMemory())
}

func TestFreeMemoryMatchesOccupancy(t *testing.T) {
	r := newInitialized(t, 256)
	s := r.s

	for i := 0; i < 20; i++ {
		switch i % 4 {
		case 0:
			_, err := s.WriteFloat(float32(i))
			require.NoError(t, err)
		case 1:
			require.NoError(t, s.WriteUint8At(100+i, uint8(i)))
		case 2:
			require.NoError(t, s.Free(100+i-1, KindUint8))
		case 3:
			require.NoError(t, s.WriteFloatAt(150+i, 1))
		}
		st := s.Stats()
		require.Equal(t, st.UserRegion-st.Occupied, st.Free, "step %d", i)
	}
	require.NoError(t, s.Verify())
}
