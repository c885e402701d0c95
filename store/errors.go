package store

import (
	"errors"

	"github.com/joshuapare/nvstore/flash"
	"github.com/joshuapare/nvstore/internal/format"
)

var (
	// ErrNoSpace indicates a sequential write found too little free memory.
	ErrNoSpace = errors.New("store: no space")

	// ErrOutOfRange indicates an offset outside the user region, or a
	// bookkeeping update that would leave it.
	ErrOutOfRange = errors.New("store: offset out of range")

	// ErrPowerOff indicates Initialize was called while the board is off.
	ErrPowerOff = errors.New("store: board power is off")

	// ErrCapacity indicates a capacity the media or the layout cannot hold.
	ErrCapacity = flash.ErrCapacity

	// ErrNotReady indicates a record operation before Initialize or Attach.
	ErrNotReady = errors.New("store: not initialized or attached")

	// ErrNotFormatted indicates Attach found no store header on the media.
	ErrNotFormatted = errors.New("store: media not formatted")

	// ErrCorrupt indicates header fields that cannot describe a valid store.
	ErrCorrupt = errors.New("store: corrupt header")

	// ErrBadKind indicates an unknown record kind.
	ErrBadKind = format.ErrBadKind

	// ErrUnencodable indicates a char with no single-byte representation.
	ErrUnencodable = format.ErrUnencodable
)
