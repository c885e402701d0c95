//go:build windows

package dirty

import (
	"context"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// flushMapped flushes each range of the view with FlushViewOfFile.
func flushMapped(ctx context.Context, data []byte, ranges []Range) error {
	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Len == 0 {
			continue
		}
		addr := uintptr(unsafe.Pointer(&data[r.Off]))
		if err := windows.FlushViewOfFile(addr, uintptr(r.Len)); err != nil {
			return err
		}
	}
	return nil
}

// fdatasync performs file descriptor sync using FlushFileBuffers.
// The fullfsync parameter is ignored on Windows.
func fdatasync(f *os.File, _ bool) error {
	return windows.FlushFileBuffers(windows.Handle(f.Fd()))
}
