package main

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/joshuapare/nvstore/internal/format"
	"github.com/joshuapare/nvstore/store"
)

// parseRecord turns a kind name and a textual value into a record.
func parseRecord(kindName, value string) (store.Record, error) {
	k, err := format.ParseKind(kindName)
	if err != nil {
		return store.Record{}, err
	}
	rec := store.Record{Kind: k}
	switch k {
	case store.KindUint8:
		v, err := strconv.ParseUint(value, 0, 8)
		if err != nil {
			return rec, fmt.Errorf("invalid uint8 %q: %w", value, err)
		}
		rec.Uint8 = uint8(v)
	case store.KindFloat:
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return rec, fmt.Errorf("invalid float %q: %w", value, err)
		}
		rec.Float = float32(v)
	case store.KindChar:
		r, size := utf8.DecodeRuneInString(value)
		if r == utf8.RuneError || size != len(value) {
			return rec, fmt.Errorf("invalid char %q: want exactly one character", value)
		}
		rec.Char = r
	case store.KindBool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return rec, fmt.Errorf("invalid bool %q: %w", value, err)
		}
		rec.Bool = v
	}
	return rec, nil
}

// parseOffset accepts decimal or 0x-prefixed offsets.
func parseOffset(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid offset %q: %w", s, err)
	}
	return int(v), nil
}

// recordJSON is the JSON shape of a record in command output.
type recordJSON struct {
	Offset int    `json:"offset"`
	Kind   string `json:"kind"`
	Value  any    `json:"value"`
}

func toJSON(off int, rec store.Record) recordJSON {
	out := recordJSON{Offset: off, Kind: rec.Kind.String()}
	switch rec.Kind {
	case store.KindUint8:
		out.Value = rec.Uint8
	case store.KindFloat:
		out.Value = rec.Float
	case store.KindChar:
		out.Value = string(rec.Char)
	case store.KindBool:
		out.Value = rec.Bool
	}
	return out
}
