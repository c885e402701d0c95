package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequential_BoolThenFloat(t *testing.T) {
	r := newInitialized(t, 4096)
	s := r.s

	off, err := s.WriteBool(true)
	require.NoError(t, err)
	assert.Equal(t, 20, off)
	off, err = s.WriteFloat(2.5)
	require.NoError(t, err)
	assert.Equal(t, 21, off)

	assert.Equal(t, 4096-20-1-4, s.FreeMemory())
	assert.True(t, s.Dirty())
	assert.Equal(t, 25, s.LastAvailableAddress())

	b, err := s.ReadBool(20)
	require.NoError(t, err)
	assert.True(t, b)
	f, err := s.ReadFloat(21)
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), f)
	require.NoError(t, s.Verify())
}

func TestSequential_RoundTripEveryKind(t *testing.T) {
	tests := []struct {
		name  string
		write func(*Store) (int, error)
		check func(*testing.T, *Store, int)
		size  int
	}{
		{
			name:  "uint8",
			write: func(s *Store) (int, error) { return s.WriteUint8(200) },
			check: func(t *testing.T, s *Store, off int) {
				v, err := s.ReadUint8(off)
				require.NoError(t, err)
				assert.Equal(t, uint8(200), v)
			},
			size: 1,
		},
		{
			name:  "float",
			write: func(s *Store) (int, error) { return s.WriteFloat(-1234.5) },
			check: func(t *testing.T, s *Store, off int) {
				v, err := s.ReadFloat(off)
				require.NoError(t, err)
				assert.Equal(t, float32(-1234.5), v)
			},
			size: 4,
		},
		{
			name:  "char",
			write: func(s *Store) (int, error) { return s.WriteChar('ü') },
			check: func(t *testing.T, s *Store, off int) {
				v, err := s.ReadChar(off)
				require.NoError(t, err)
				assert.Equal(t, 'ü', v)
			},
			size: 1,
		},
		{
			name:  "bool false",
			write: func(s *Store) (int, error) { return s.WriteBool(false) },
			check: func(t *testing.T, s *Store, off int) {
				v, err := s.ReadBool(off)
				require.NoError(t, err)
				assert.False(t, v)
			},
			size: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newInitialized(t, 128)
			before := r.s.FreeMemory()

			off, err := tt.write(r.s)
			require.NoError(t, err)
			assert.Equal(t, UserSpace, off)
			assert.Equal(t, before-tt.size, r.s.FreeMemory())
			assert.Equal(t, off+tt.size, r.s.LastAvailableAddress())
			tt.check(t, r.s, off)

			// the record survives a reset
			r.reboot(t)
			tt.check(t, r.s, off)
		})
	}
}

func TestSequential_FloatBitIdentical(t *testing.T) {
	r := newInitialized(t, 64)
	off, err := r.s.WriteFloat(3.14159)
	require.NoError(t, err)
	got, err := r.s.ReadFloat(off)
	require.NoError(t, err)
	assert.Equal(t, math.Float32bits(3.14159), math.Float32bits(got))
}

func TestSequential_Exhaustion(t *testing.T) {
	r := newInitialized(t, 30) // ten user bytes
	s := r.s

	for i := 0; i < 10; i++ {
		off, err := s.WriteUint8(uint8(i))
		require.NoError(t, err)
		assert.Equal(t, UserSpace+i, off)
	}
	assert.Zero(t, s.FreeMemory())

	snap := takeSnapshot(t, s)
	_, err := s.WriteUint8(99)
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, snap, takeSnapshot(t, s), "refused write must not mutate the store")
}

func TestSequential_FloatNeedsFourBytes(t *testing.T) {
	r := newInitialized(t, 27) // seven user bytes
	s := r.s

	_, err := s.WriteFloat(1)
	require.NoError(t, err)
	assert.Equal(t, 3, s.FreeMemory())

	snap := takeSnapshot(t, s)
	_, err = s.WriteFloat(2)
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, snap, takeSnapshot(t, s))

	// a one-byte record still fits
	_, err = s.WriteBool(true)
	require.NoError(t, err)
}

func TestSequential_BumpPointerAtEnd(t *testing.T) {
	r := newInitialized(t, 30)
	s := r.s
	for i := 0; i < 10; i++ {
		_, err := s.WriteUint8(1)
		require.NoError(t, err)
	}
	// space freed behind the pointer is not reused by sequential writes
	require.NoError(t, s.Free(20, KindUint8))
	assert.Equal(t, 1, s.FreeMemory())

	_, err := s.WriteUint8(2)
	require.ErrorIs(t, err, ErrNoSpace)

	// the caller can rewind the pointer to reuse it
	require.NoError(t, s.UpdateLastAddress(-10))
	off, err := s.WriteUint8(2)
	require.NoError(t, err)
	assert.Equal(t, 20, off)
	assert.Zero(t, s.FreeMemory())
}

func TestSequential_UnencodableChar(t *testing.T) {
	r := newInitialized(t, 64)
	snap := takeSnapshot(t, r.s)
	_, err := r.s.WriteChar('€')
	require.ErrorIs(t, err, ErrUnencodable)
	assert.Equal(t, snap, takeSnapshot(t, r.s))
}

func TestRead_OutOfRange(t *testing.T) {
	r := newInitialized(t, 64)
	s := r.s

	_, err := s.ReadUint8(19)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.ReadUint8(64)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.ReadFloat(61)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.ReadFloat(60)
	require.NoError(t, err)
	_, err = s.Read(20, Kind(9))
	require.ErrorIs(t, err, ErrBadKind)
}

func TestRead_ErasedByteDecodes(t *testing.T) {
	r := newInitialized(t, 64)
	v, err := r.s.ReadUint8(40)
	require.NoError(t, err)
	assert.Equal(t, uint8(Sentinel), v)
}
