package format

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/text/encoding/charmap"
)

// Kind identifies how a record is encoded. The numeric values of KindUint8
// and KindFloat match the type codes used by free() on the device firmware
// (0 = one-byte datum, 1 = float).
type Kind uint8

const (
	// KindUint8 is a narrow integer stored in one byte.
	KindUint8 Kind = iota
	// KindFloat is an IEEE-754 float32 stored in four little-endian bytes.
	KindFloat
	// KindChar is a single character stored as one ISO-8859-1 byte.
	KindChar
	// KindBool is stored as 0 or 1.
	KindBool
)

var kindNames = map[Kind]string{
	KindUint8: "uint8",
	KindFloat: "float",
	KindChar:  "char",
	KindBool:  "bool",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a kind name (as printed by String) back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	switch s {
	case "int", "byte":
		return KindUint8, nil
	case "float32":
		return KindFloat, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadKind, s)
}

// SizeOf returns the record width of k in bytes, or 0 for an unknown kind.
func SizeOf(k Kind) int {
	switch k {
	case KindUint8, KindChar, KindBool:
		return 1
	case KindFloat:
		return 4
	default:
		return 0
	}
}

// PutFloat encodes v into b[0:4] as its raw IEEE-754 bits, least-significant
// byte first.
func PutFloat(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b[:4], math.Float32bits(v))
}

// ReadFloat reassembles a float32 from b[0:4].
func ReadFloat(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[:4]))
}

// EncodeBool returns the stored byte for v.
func EncodeBool(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// DecodeBool treats any non-zero byte as true.
func DecodeBool(b byte) bool { return b != 0 }

// EncodeChar maps r to its ISO-8859-1 byte.
func EncodeChar(r rune) (byte, error) {
	b, ok := charmap.ISO8859_1.EncodeRune(r)
	if !ok {
		return 0, fmt.Errorf("%w: %U", ErrUnencodable, r)
	}
	return b, nil
}

// DecodeChar maps an ISO-8859-1 byte back to its rune.
func DecodeChar(b byte) rune {
	return charmap.ISO8859_1.DecodeByte(b)
}

// Record is a decoded value of any kind, used by tooling that handles kinds
// generically.
type Record struct {
	Kind  Kind
	Uint8 uint8
	Float float32
	Char  rune
	Bool  bool
}

// Encode writes rec into b, which must hold at least SizeOf(rec.Kind) bytes.
func Encode(b []byte, rec Record) error {
	n := SizeOf(rec.Kind)
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrBadKind, uint8(rec.Kind))
	}
	if len(b) < n {
		return ErrTruncated
	}
	switch rec.Kind {
	case KindUint8:
		b[0] = rec.Uint8
	case KindFloat:
		PutFloat(b, rec.Float)
	case KindChar:
		c, err := EncodeChar(rec.Char)
		if err != nil {
			return err
		}
		b[0] = c
	case KindBool:
		b[0] = EncodeBool(rec.Bool)
	}
	return nil
}

// Decode reads a record of kind k from b.
func Decode(b []byte, k Kind) (Record, error) {
	n := SizeOf(k)
	if n == 0 {
		return Record{}, fmt.Errorf("%w: %d", ErrBadKind, uint8(k))
	}
	if len(b) < n {
		return Record{}, ErrTruncated
	}
	rec := Record{Kind: k}
	switch k {
	case KindUint8:
		rec.Uint8 = b[0]
	case KindFloat:
		rec.Float = ReadFloat(b)
	case KindChar:
		rec.Char = DecodeChar(b[0])
	case KindBool:
		rec.Bool = DecodeBool(b[0])
	}
	return rec, nil
}

// String renders the value part of rec.
func (r Record) String() string {
	switch r.Kind {
	case KindUint8:
		return fmt.Sprintf("%d", r.Uint8)
	case KindFloat:
		return fmt.Sprintf("%g", r.Float)
	case KindChar:
		return fmt.Sprintf("%q", r.Char)
	case KindBool:
		return fmt.Sprintf("%t", r.Bool)
	default:
		return r.Kind.String()
	}
}
