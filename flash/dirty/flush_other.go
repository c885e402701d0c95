//go:build !unix && !windows

package dirty

import (
	"context"
	"errors"
	"os"
)

var errNoMmap = errors.New("dirty: memory mapping not supported on this platform")

func flushMapped(context.Context, []byte, []Range) error {
	return errNoMmap
}

func fdatasync(f *os.File, _ bool) error {
	return f.Sync()
}
