//go:build !unix && !windows

package mmfile

import (
	"io"
	"os"
)

// mapFile reads the entire file when mmap is not available. Writes reach the
// file only when the caller writes the dirty ranges back.
func mapFile(f *os.File, size int) ([]byte, bool, func() error, error) {
	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil && err != io.EOF {
		return nil, false, nil, err
	}
	return data, false, nil, nil
}
