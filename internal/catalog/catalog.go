// internal/catalog/catalog.go
package catalog

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrUnknownKey reports a lookup for a key the catalog does not carry.
// The catalog is static, so hitting this at runtime is a programming error.
var ErrUnknownKey = errors.New("catalog: unknown key")

// DataType is the wire representation of one register entry.
type DataType uint8

const (
	Int16 DataType = iota
	UInt16
	Int32
	UInt32
	Float32
	Bool // single 0/1 holding register exposed as a boolean
)

func (t DataType) String() string {
	switch t {
	case Int16:
		return "int16"
	case UInt16:
		return "uint16"
	case Int32:
		return "int32"
	case UInt32:
		return "uint32"
	case Float32:
		return "float32"
	case Bool:
		return "bool"
	}
	return fmt.Sprintf("datatype(%d)", uint8(t))
}

// Words returns the register count occupied by the type.
func (t DataType) Words() uint16 {
	switch t {
	case Int32, UInt32, Float32:
		return 2
	default:
		return 1
	}
}

// Access declares whether a register may be written.
type Access uint8

const (
	ReadOnly Access = iota
	ReadWrite
)

// Descriptor is one immutable catalog entry.
// Scale and Offset map the raw register integer into display units
// (display = raw*Scale + Offset). Min/Max, when present, bound the
// display value accepted for writes.
type Descriptor struct {
	Key    string
	Name   string
	Addr   uint16
	Type   DataType
	Scale  float64
	Offset float64
	Access Access
	Min    *float64
	Max    *float64
	Unit   string
}

// Words returns the register count of the entry.
func (d Descriptor) Words() uint16 {
	return d.Type.Words()
}

// EffectiveScale treats an unset scale as identity, like an unset
// coefficient in a point table.
func (d Descriptor) EffectiveScale() float64 {
	if d.Scale == 0 {
		return 1
	}
	return d.Scale
}

// Catalog maps semantic keys to register descriptors.
// Immutable after New; shared read-only by all consumers.
type Catalog struct {
	entries map[string]Descriptor
}

// New builds a catalog and checks its geometry: unique keys, and no
// address overlap between entries.
func New(descriptors []Descriptor) (*Catalog, error) {
	type span struct {
		start uint16
		end   uint16
		key   string
	}

	entries := make(map[string]Descriptor, len(descriptors))
	var spans []span

	for _, d := range descriptors {
		if d.Key == "" {
			return nil, errors.New("catalog: entry with empty key")
		}
		if _, dup := entries[d.Key]; dup {
			return nil, errors.Errorf("catalog: duplicate key %q", d.Key)
		}
		if d.Min != nil && d.Max != nil && *d.Min > *d.Max {
			return nil, errors.Errorf("catalog: %q: min %v above max %v", d.Key, *d.Min, *d.Max)
		}

		start := d.Addr
		end := d.Addr + d.Words() - 1
		for _, s := range spans {
			// overlap check (inclusive)
			if !(end < s.start || start > s.end) {
				return nil, errors.Errorf(
					"catalog: %q range %d-%d overlaps %q range %d-%d",
					d.Key, start, end, s.key, s.start, s.end,
				)
			}
		}
		spans = append(spans, span{start: start, end: end, key: d.Key})

		entries[d.Key] = d
	}

	if len(entries) == 0 {
		return nil, errors.New("catalog: at least one entry required")
	}

	return &Catalog{entries: entries}, nil
}

// Lookup returns the descriptor for key.
func (c *Catalog) Lookup(key string) (Descriptor, bool) {
	d, ok := c.entries[key]
	return d, ok
}

// Keys returns all keys in ascending address order.
func (c *Catalog) Keys() []string {
	keys := maps.Keys(c.entries)
	slices.SortFunc(keys, func(a, b string) int {
		return int(c.entries[a].Addr) - int(c.entries[b].Addr)
	})
	return keys
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

func ptr(v float64) *float64 { return &v }
