// Package format describes the on-media layout of an nvstore image: the
// reserved header, the user region boundaries and the byte encoding of the
// record kinds. It is kept free of any I/O so the store and the tooling can
// share the same definitions.
package format

// Signature is written at SignatureOffset by Initialize and checked by Attach.
// Layout:
//
//	0x10  'N' 'V' 'S' '1'
var Signature = []byte{'N', 'V', 'S', '1'}

const (
	// MaxMemory is the largest store the layout can address, header included.
	MaxMemory = 4096

	// UserSpace is the first offset available for user records. Every offset
	// below it belongs to the reserved header.
	UserSpace = 20

	// Sentinel is the byte value an erased or freed cell holds on the media.
	Sentinel = 0xFF

	// LayoutVersion identifies the header layout below.
	LayoutVersion = 1
)

// Header field offsets. Multi-byte fields are little-endian uint32.
//
//	0x00  DIRTY          1 byte (0/1)
//	0x01  LASTFREEADD    uint32
//	0x05  START_ADDRESS  uint32
//	0x09  reserved
//	0x0A  FREE_MEMORY    uint32
//	0x0E  HOURS          1 byte, saturating
//	0x0F  layout version 1 byte
//	0x10  signature      4 bytes
const (
	DirtyOffset        = 0x00
	LastFreeAddrOffset = 0x01
	StartAddrOffset    = 0x05
	FreeMemoryOffset   = 0x0A
	HoursOffset        = 0x0E
	VersionOffset      = 0x0F
	SignatureOffset    = 0x10
	SignatureSize      = 4
)

// MaxHours is the ceiling of the one-byte hours counter.
const MaxHours = 0xFF

// UserRegionSize returns the number of bytes available for records in a
// store of the given capacity.
func UserRegionSize(capacity int) int {
	if capacity <= UserSpace {
		return 0
	}
	return capacity - UserSpace
}

// OccupancyLen returns the size in bytes of the occupancy bitmap for a store
// of the given capacity (one bit per store byte).
func OccupancyLen(capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return (capacity + 7) / 8
}
