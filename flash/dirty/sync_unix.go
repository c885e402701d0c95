//go:build unix && !linux && !darwin

package dirty

import (
	"os"

	"golang.org/x/sys/unix"
)

// fdatasync falls back to fsync where fdatasync is not portable.
func fdatasync(f *os.File, _ bool) error {
	return unix.Fsync(int(f.Fd()))
}
