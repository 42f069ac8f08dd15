// internal/config/normalize.go
package config

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	h := &cfg.Heliotherm

	if h.Port == 0 {
		h.Port = 502
	}
	if h.UnitID == 0 {
		h.UnitID = 1
	}
	if h.ReadOnly == nil {
		t := true
		h.ReadOnly = &t
	}
	if h.ScanIntervalS == 0 {
		h.ScanIntervalS = 30
	}
	if h.TimeoutS == 0 {
		h.TimeoutS = 5
	}
	if h.FailureThreshold == 0 {
		h.FailureThreshold = 3
	}

	for i := range h.Registers {
		r := &h.Registers[i]
		if r.Type == "" {
			r.Type = "int16"
		}
		if r.Access == "" {
			r.Access = "ro"
		}
		if r.Name == "" {
			r.Name = r.Key
		}
	}
}
