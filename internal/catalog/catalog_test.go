// internal/catalog/catalog_test.go
package catalog

import (
	"testing"

	cfg "github.com/tamzrod/heliobridge/internal/config"
)

func TestHeliothermCatalogBuilds(t *testing.T) {
	c, err := New(Heliotherm())
	if err != nil {
		t.Fatalf("New(Heliotherm()) err=%v", err)
	}

	d, ok := c.Lookup("supply_temperature")
	if !ok {
		t.Fatalf("supply_temperature missing")
	}
	if d.Addr != 100 || d.Type != Float32 || d.Words() != 2 {
		t.Fatalf("unexpected supply_temperature descriptor: %+v", d)
	}

	d, ok = c.Lookup("setpoint_temperature")
	if !ok {
		t.Fatalf("setpoint_temperature missing")
	}
	if d.Addr != 102 || d.Type != Int16 || d.Scale != 0.1 || d.Access != ReadWrite {
		t.Fatalf("unexpected setpoint_temperature descriptor: %+v", d)
	}
	if d.Min == nil || d.Max == nil || *d.Min != 5 || *d.Max != 30 {
		t.Fatalf("unexpected setpoint_temperature range: %+v", d)
	}
}

func TestLookup_UnknownKey(t *testing.T) {
	c, err := New(Heliotherm())
	if err != nil {
		t.Fatalf("New err=%v", err)
	}
	if _, ok := c.Lookup("no_such_register"); ok {
		t.Fatalf("expected lookup miss")
	}
}

func TestNew_RejectsDuplicateKey(t *testing.T) {
	_, err := New([]Descriptor{
		{Key: "a", Addr: 100, Type: Int16},
		{Key: "a", Addr: 200, Type: Int16},
	})
	if err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestNew_RejectsAddressOverlap(t *testing.T) {
	_, err := New([]Descriptor{
		{Key: "wide", Addr: 100, Type: Float32}, // occupies 100-101
		{Key: "clash", Addr: 101, Type: Int16},
	})
	if err == nil {
		t.Fatalf("expected overlap error")
	}
}

func TestNew_RejectsInvertedRange(t *testing.T) {
	_, err := New([]Descriptor{
		{Key: "a", Addr: 100, Type: Int16, Min: ptr(30), Max: ptr(5)},
	})
	if err == nil {
		t.Fatalf("expected inverted range error")
	}
}

func TestKeys_AddressOrder(t *testing.T) {
	c, err := New([]Descriptor{
		{Key: "c", Addr: 300, Type: Int16},
		{Key: "a", Addr: 100, Type: Int16},
		{Key: "b", Addr: 200, Type: Int16},
	})
	if err != nil {
		t.Fatalf("New err=%v", err)
	}

	keys := c.Keys()
	want := []string{"a", "b", "c"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys out of order: got %v", keys)
		}
	}
}

func TestBuild_MergesConfigRegisters(t *testing.T) {
	h := cfg.HeliothermConfig{
		Registers: []cfg.RegisterConfig{
			// new entry
			{Key: "buffer_temperature", Address: 160, Type: "float32", Access: "ro", Unit: "°C"},
			// replaces the built-in of the same key
			{Key: "setpoint_temperature", Address: 102, Type: "int16", Scale: 0.1,
				Access: "rw", Min: ptr(5), Max: ptr(28)},
		},
	}

	c, err := Build(h)
	if err != nil {
		t.Fatalf("Build err=%v", err)
	}

	d, ok := c.Lookup("buffer_temperature")
	if !ok || d.Addr != 160 || d.Type != Float32 {
		t.Fatalf("buffer_temperature not merged: %+v ok=%v", d, ok)
	}

	d, ok = c.Lookup("setpoint_temperature")
	if !ok || d.Max == nil || *d.Max != 28 {
		t.Fatalf("setpoint_temperature not replaced: %+v ok=%v", d, ok)
	}
}

func TestBuild_RejectsOverlapWithBuiltins(t *testing.T) {
	h := cfg.HeliothermConfig{
		Registers: []cfg.RegisterConfig{
			{Key: "clash", Address: 101, Type: "int16", Access: "ro"},
		},
	}
	if _, err := Build(h); err == nil {
		t.Fatalf("expected overlap with built-in supply_temperature")
	}
}
