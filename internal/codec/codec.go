// internal/codec/codec.go
package codec

import (
	"math"

	"github.com/pkg/errors"

	"github.com/tamzrod/heliobridge/internal/catalog"
)

var (
	// ErrMalformedPayload reports a word count that does not match the descriptor.
	ErrMalformedPayload = errors.New("codec: malformed payload")

	// ErrRange reports an encode input outside the descriptor's declared bounds.
	ErrRange = errors.New("codec: value out of range")
)

// Value is one decoded register value: a number or a boolean.
type Value struct {
	boolean bool
	num     float64
	isBool  bool
}

// Number wraps a numeric display value.
func Number(v float64) Value { return Value{num: v} }

// Boolean wraps a boolean value.
func Boolean(v bool) Value { return Value{boolean: v, isBool: true} }

// IsBool reports whether the value is a boolean.
func (v Value) IsBool() bool { return v.isBool }

// Float64 returns the numeric value; booleans read as 0/1.
func (v Value) Float64() float64 {
	if v.isBool {
		if v.boolean {
			return 1
		}
		return 0
	}
	return v.num
}

// Bool returns the boolean value; numbers read as "non-zero".
func (v Value) Bool() bool {
	if v.isBool {
		return v.boolean
	}
	return v.num != 0
}

// Decode converts raw register words into a display value. 32-bit types
// combine two words high-then-low; Float32 reinterprets the combined
// pattern as IEEE-754. Scale and offset apply after the raw decode.
func Decode(words []uint16, d catalog.Descriptor) (Value, error) {
	if len(words) != int(d.Words()) {
		return Value{}, errors.Wrapf(ErrMalformedPayload,
			"%s: got %d words, want %d", d.Key, len(words), d.Words())
	}

	if d.Type == catalog.Bool {
		return Boolean(words[0] != 0), nil
	}

	var raw float64
	switch d.Type {
	case catalog.Int16:
		raw = float64(int16(words[0]))
	case catalog.UInt16:
		raw = float64(words[0])
	case catalog.Int32:
		raw = float64(int32(join32(words)))
	case catalog.UInt32:
		raw = float64(join32(words))
	case catalog.Float32:
		raw = float64(math.Float32frombits(join32(words)))
	default:
		return Value{}, errors.Errorf("codec: unsupported data type %s", d.Type)
	}

	return Number(raw*d.EffectiveScale() + d.Offset), nil
}

// Encode converts a display value into register words, the inverse of
// Decode: subtract offset, divide by scale, round for integer types.
// Values outside the descriptor's declared range are rejected before
// any conversion.
func Encode(v Value, d catalog.Descriptor) ([]uint16, error) {
	if d.Type == catalog.Bool {
		if v.Bool() {
			return []uint16{1}, nil
		}
		return []uint16{0}, nil
	}

	display := v.Float64()
	if math.IsNaN(display) || math.IsInf(display, 0) {
		return nil, errors.Wrapf(ErrRange, "%s: non-finite value %v", d.Key, display)
	}
	if d.Min != nil && display < *d.Min {
		return nil, errors.Wrapf(ErrRange, "%s: %v below minimum %v", d.Key, display, *d.Min)
	}
	if d.Max != nil && display > *d.Max {
		return nil, errors.Wrapf(ErrRange, "%s: %v above maximum %v", d.Key, display, *d.Max)
	}

	raw := (display - d.Offset) / d.EffectiveScale()

	switch d.Type {
	case catalog.Int16:
		r := math.Round(raw)
		if r < math.MinInt16 || r > math.MaxInt16 {
			return nil, errors.Wrapf(ErrRange, "%s: raw %v overflows int16", d.Key, r)
		}
		return []uint16{uint16(int16(r))}, nil
	case catalog.UInt16:
		r := math.Round(raw)
		if r < 0 || r > math.MaxUint16 {
			return nil, errors.Wrapf(ErrRange, "%s: raw %v overflows uint16", d.Key, r)
		}
		return []uint16{uint16(r)}, nil
	case catalog.Int32:
		r := math.Round(raw)
		if r < math.MinInt32 || r > math.MaxInt32 {
			return nil, errors.Wrapf(ErrRange, "%s: raw %v overflows int32", d.Key, r)
		}
		return split32(uint32(int32(r))), nil
	case catalog.UInt32:
		r := math.Round(raw)
		if r < 0 || r > math.MaxUint32 {
			return nil, errors.Wrapf(ErrRange, "%s: raw %v overflows uint32", d.Key, r)
		}
		return split32(uint32(r)), nil
	case catalog.Float32:
		return split32(math.Float32bits(float32(raw))), nil
	}

	return nil, errors.Errorf("codec: unsupported data type %s", d.Type)
}

// join32 combines two registers high word first.
func join32(words []uint16) uint32 {
	return uint32(words[0])<<16 | uint32(words[1])
}

// split32 is the inverse of join32.
func split32(v uint32) []uint16 {
	return []uint16{uint16(v >> 16), uint16(v)}
}
