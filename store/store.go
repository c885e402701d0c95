package store

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/nvstore/flash"
	"github.com/joshuapare/nvstore/internal/format"
)

// Record kinds, re-exported from the layout package.
type (
	Kind   = format.Kind
	Record = format.Record
)

const (
	KindUint8 = format.KindUint8
	KindFloat = format.KindFloat
	KindChar  = format.KindChar
	KindBool  = format.KindBool
)

// Layout constants.
const (
	MaxMemory = format.MaxMemory
	UserSpace = format.UserSpace
	Sentinel  = format.Sentinel
)

// SizeOf returns the record width of k in bytes, or 0 for an unknown kind.
func SizeOf(k Kind) int { return format.SizeOf(k) }

// State is the lifecycle state of a Store.
type State int

const (
	Uninitialized State = iota
	Initialized
	Attached
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Attached:
		return "attached"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// PowerGate reports whether the board's power rail is active.
type PowerGate interface {
	BoardOn() bool
}

// PowerFunc adapts a function to PowerGate.
type PowerFunc func() bool

// BoardOn calls f.
func (f PowerFunc) BoardOn() bool { return f() }

// AlwaysOn is the default PowerGate.
var AlwaysOn PowerGate = PowerFunc(func() bool { return true })

// Options configures New.
type Options struct {
	// Occupancy persists the occupancy bitmap. It needs at least
	// OccupancyLen(capacity) bytes. When nil the bitmap lives in memory only
	// and is rebuilt from sentinel bytes on Attach, which loses the
	// occupancy of data bytes equal to 255 across resets.
	Occupancy flash.Media

	// Power gates Initialize. Defaults to AlwaysOn.
	Power PowerGate

	// Logger receives lifecycle events. Defaults to discarding everything.
	Logger *slog.Logger
}

// OccupancyLen returns the occupancy media size needed for a store of the
// given capacity.
func OccupancyLen(capacity int) int { return format.OccupancyLen(capacity) }

// Store is the allocator and typed record layer over a raw media.
type Store struct {
	media    flash.Media
	occMedia flash.Media
	power    PowerGate
	log      *slog.Logger

	state    State
	capacity int
	hdr      [format.UserSpace]byte // mirror of the header region
	occ      []byte                 // mirror of the occupancy bitmap
}

// New wraps media in a Store. The store starts Uninitialized; call
// Initialize or Attach before any record operation.
func New(media flash.Media, opts Options) (*Store, error) {
	if media == nil {
		return nil, fmt.Errorf("store: nil media")
	}
	if opts.Occupancy != nil && opts.Occupancy.Capacity() < format.OccupancyLen(media.Capacity()) {
		return nil, fmt.Errorf("%w: occupancy media holds %d bytes, need %d",
			ErrCapacity, opts.Occupancy.Capacity(), format.OccupancyLen(media.Capacity()))
	}
	s := &Store{
		media:    media,
		occMedia: opts.Occupancy,
		power:    opts.Power,
		log:      opts.Logger,
	}
	if s.power == nil {
		s.power = AlwaysOn
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s, nil
}

// State returns the lifecycle state.
func (s *Store) State() State { return s.state }

// Capacity returns the size of the store in bytes, header included. It is
// zero until Initialize or Attach succeeds.
func (s *Store) Capacity() int { return s.capacity }

// Close releases the media. The store returns to Uninitialized.
func (s *Store) Close() error {
	s.state = Uninitialized
	err := s.media.Close()
	if s.occMedia != nil {
		if occErr := s.occMedia.Close(); err == nil {
			err = occErr
		}
	}
	return err
}

func (s *Store) ready() error {
	if s.state == Uninitialized {
		return ErrNotReady
	}
	return nil
}

func (s *Store) checkCapacity(capacity int) error {
	if capacity <= format.UserSpace || capacity > format.MaxMemory || capacity > s.media.Capacity() {
		return fmt.Errorf("%w: %d (header %d, media %d, max %d)",
			ErrCapacity, capacity, format.UserSpace, s.media.Capacity(), format.MaxMemory)
	}
	return nil
}

// commit makes every staged image and bitmap write durable.
func (s *Store) commit() error {
	if err := s.media.Commit(); err != nil {
		return fmt.Errorf("store: commit image: %w", err)
	}
	if s.occMedia != nil {
		if err := s.occMedia.Commit(); err != nil {
			return fmt.Errorf("store: commit occupancy: %w", err)
		}
	}
	return nil
}
