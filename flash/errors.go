package flash

import "errors"

var (
	// ErrCapacity indicates a capacity of zero or larger than format.MaxMemory.
	ErrCapacity = errors.New("flash: invalid capacity")
	// ErrOutOfRange indicates an access past the physical end of the media.
	ErrOutOfRange = errors.New("flash: offset out of range")
	// ErrClosed indicates use of media after Close.
	ErrClosed = errors.New("flash: media closed")
)
