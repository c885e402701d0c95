package store

import (
	"errors"

	"github.com/joshuapare/nvstore/flash"
)

// OccupancySuffix is appended to an image path to name its occupancy file.
const OccupancySuffix = ".occ"

// OpenFile opens the image at path together with its occupancy file,
// creating both when missing. The returned store is Uninitialized.
func OpenFile(path string, capacity int, opts Options, devOpts ...flash.DeviceOption) (*Store, error) {
	img, err := flash.Open(path, capacity, devOpts...)
	if err != nil {
		return nil, err
	}
	occ, err := flash.Open(path+OccupancySuffix, OccupancyLen(capacity), devOpts...)
	if err != nil {
		return nil, errors.Join(err, img.Close())
	}
	opts.Occupancy = occ
	s, err := New(img, opts)
	if err != nil {
		return nil, errors.Join(err, occ.Close(), img.Close())
	}
	return s, nil
}
