package flash

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nvstore/internal/format"
)

func TestNewMemoryCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		wantErr  bool
	}{
		{"max", format.MaxMemory, false},
		{"small", 64, false},
		{"zero", 0, true},
		{"too large", format.MaxMemory + 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMemory(tt.capacity)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrCapacity)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.capacity, m.Capacity())
		})
	}
}

func TestMemory_ByteAccess(t *testing.T) {
	m, err := NewMemory(32)
	require.NoError(t, err)

	require.NoError(t, m.WriteByteAt(31, 0x7F))
	v, err := m.ReadByteAt(31)
	require.NoError(t, err)
	assert.Equal(t, byte(0x7F), v)

	require.ErrorIs(t, m.WriteByteAt(32, 1), ErrOutOfRange)
	_, err = m.ReadByteAt(-1)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestMemory_RangeAccessIsAllOrNothing(t *testing.T) {
	m, err := NewMemory(8)
	require.NoError(t, err)

	n, err := m.WriteAt([]byte{1, 2, 3, 4}, 6)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Zero(t, n)
	assert.Zero(t, m.Pending())

	n, err = m.WriteAt([]byte{1, 2, 3, 4}, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	p := make([]byte, 4)
	_, err = m.ReadAt(p, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, p)
}

func TestMemory_CommitAndPowerLoss(t *testing.T) {
	m, err := NewMemory(16)
	require.NoError(t, err)

	require.NoError(t, m.WriteByteAt(1, 0xAA))
	require.NoError(t, m.Commit())
	require.NoError(t, m.WriteByteAt(2, 0xBB))
	assert.Equal(t, 1, m.Pending())

	m.PowerLoss()

	v, err := m.ReadByteAt(1)
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), v, "committed byte survives")

	v, err = m.ReadByteAt(2)
	require.NoError(t, err)
	assert.Zero(t, v, "uncommitted byte is lost")
	assert.Equal(t, 1, m.Commits())
}

func TestMemory_CommitWithoutWritesIsNoop(t *testing.T) {
	m, err := NewMemory(16)
	require.NoError(t, err)
	require.NoError(t, m.Commit())
	assert.Zero(t, m.Commits())
}

func TestMemory_FailCommit(t *testing.T) {
	m, err := NewMemory(16)
	require.NoError(t, err)
	boom := errors.New("boom")
	m.FailCommit = boom

	require.NoError(t, m.WriteByteAt(0, 1))
	require.ErrorIs(t, m.Commit(), boom)
	assert.Equal(t, byte(0), m.Committed()[0])
}

func TestMemory_Closed(t *testing.T) {
	m, err := NewMemory(16)
	require.NoError(t, err)
	require.NoError(t, m.WriteByteAt(0, 9))
	require.NoError(t, m.Commit())
	require.NoError(t, m.Close())

	_, err = m.ReadByteAt(0)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, m.Commit(), ErrClosed)

	m.PowerLoss()
	v, err := m.ReadByteAt(0)
	require.NoError(t, err)
	assert.Equal(t, byte(9), v)
}
