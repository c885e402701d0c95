//go:build windows

package mmfile

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

func mapFile(f *os.File, size int) ([]byte, bool, func() error, error) {
	h, err := windows.CreateFileMapping(
		windows.Handle(f.Fd()),
		nil,
		windows.PAGE_READWRITE,
		uint32(uint64(size)>>32),
		uint32(size),
		nil,
	)
	if err != nil {
		return nil, false, nil, fmt.Errorf("mmfile: CreateFileMapping: %w", err)
	}
	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	// The view holds its own reference to the mapping object.
	_ = windows.CloseHandle(h)
	if err != nil {
		return nil, false, nil, fmt.Errorf("mmfile: MapViewOfFile: %w", err)
	}
	data := unsafe.Slice((*byte)(unsafe.Add(nil, addr)), size)
	unmap := func() error {
		return windows.UnmapViewOfFile(addr)
	}
	return data, true, unmap, nil
}
