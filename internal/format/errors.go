package format

import "errors"

var (
	// ErrBadKind indicates a record kind outside the known set.
	ErrBadKind = errors.New("format: unknown record kind")
	// ErrTruncated indicates the buffer lacked the bytes required for a record.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrUnencodable indicates a value that has no single-byte representation.
	ErrUnencodable = errors.New("format: value not representable in one byte")
)
