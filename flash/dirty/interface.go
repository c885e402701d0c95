package dirty

import "os"

// Target is the media a Tracker flushes.
type Target interface {
	// Bytes returns the in-memory view of the image.
	Bytes() []byte
	// File returns the backing file.
	File() *os.File
	// Mapped reports whether Bytes aliases a memory mapping of File.
	Mapped() bool
}
