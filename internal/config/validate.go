// internal/config/validate.go
package config

import (
	"fmt"
)

var knownTypes = map[string]struct{}{
	"int16": {}, "uint16": {}, "int32": {}, "uint32": {}, "float32": {}, "bool": {},
}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	h := cfg.Heliotherm

	if h.Host == "" {
		return fmt.Errorf("heliotherm: host is required")
	}
	if h.Port < 0 || h.Port > 65535 {
		return fmt.Errorf("heliotherm: port %d out of range", h.Port)
	}
	if h.ScanIntervalS < 0 {
		return fmt.Errorf("heliotherm: scan_interval_s must not be negative")
	}
	if h.TimeoutS < 0 {
		return fmt.Errorf("heliotherm: timeout_s must not be negative")
	}
	if h.FailureThreshold < 0 {
		return fmt.Errorf("heliotherm: failure_threshold must not be negative")
	}

	seen := make(map[string]struct{}, len(h.Registers))

	for i, r := range h.Registers {
		if r.Key == "" {
			return fmt.Errorf("registers[%d]: key is required", i)
		}
		if _, dup := seen[r.Key]; dup {
			return fmt.Errorf("registers[%d]: duplicate key %q", i, r.Key)
		}
		seen[r.Key] = struct{}{}

		if r.Type != "" {
			if _, ok := knownTypes[r.Type]; !ok {
				return fmt.Errorf("registers[%d] %q: unknown type %q", i, r.Key, r.Type)
			}
		}

		switch r.Access {
		case "", "ro", "rw":
		default:
			return fmt.Errorf("registers[%d] %q: access must be ro or rw, got %q", i, r.Key, r.Access)
		}

		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return fmt.Errorf("registers[%d] %q: min %v above max %v", i, r.Key, *r.Min, *r.Max)
		}
	}

	// Address-overlap validation happens at catalog build, where the
	// built-in map is in scope too.

	return nil
}
