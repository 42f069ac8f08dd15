// internal/catalog/builder.go
package catalog

import (
	"github.com/pkg/errors"

	cfg "github.com/tamzrod/heliobridge/internal/config"
)

// Build assembles the catalog from the built-in Heliotherm map with the
// configuration's register entries merged over it. An entry reusing a
// built-in key replaces that built-in; new keys are appended. Assumes
// the config has already passed validation.
func Build(h cfg.HeliothermConfig) (*Catalog, error) {
	descriptors := Heliotherm()

	index := make(map[string]int, len(descriptors))
	for i, d := range descriptors {
		index[d.Key] = i
	}

	for _, r := range h.Registers {
		d, err := fromConfig(r)
		if err != nil {
			return nil, err
		}
		if i, ok := index[d.Key]; ok {
			descriptors[i] = d
			continue
		}
		index[d.Key] = len(descriptors)
		descriptors = append(descriptors, d)
	}

	return New(descriptors)
}

func fromConfig(r cfg.RegisterConfig) (Descriptor, error) {
	var t DataType
	switch r.Type {
	case "int16":
		t = Int16
	case "uint16":
		t = UInt16
	case "int32":
		t = Int32
	case "uint32":
		t = UInt32
	case "float32":
		t = Float32
	case "bool":
		t = Bool
	default:
		return Descriptor{}, errors.Errorf("catalog: %q: unknown type %q", r.Key, r.Type)
	}

	access := ReadOnly
	if r.Access == "rw" {
		access = ReadWrite
	}

	return Descriptor{
		Key:    r.Key,
		Name:   r.Name,
		Addr:   r.Address,
		Type:   t,
		Scale:  r.Scale,
		Offset: r.Offset,
		Access: access,
		Min:    r.Min,
		Max:    r.Max,
		Unit:   r.Unit,
	}, nil
}
