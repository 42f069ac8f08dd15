// internal/config/config.go
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Heliotherm HeliothermConfig `yaml:"heliotherm"`
}

// ---- DEVICE ----

type HeliothermConfig struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	UnitID uint8  `yaml:"unit_id"`

	// ReadOnly gates all writes. nil means unset; Normalize resolves
	// it to true, the safe default.
	ReadOnly *bool `yaml:"read_only"`

	ScanIntervalS    int `yaml:"scan_interval_s"`
	TimeoutS         int `yaml:"timeout_s"`
	FailureThreshold int `yaml:"failure_threshold"`

	// Registers are extra catalog entries merged over the built-in map.
	Registers []RegisterConfig `yaml:"registers"`
}

// ---- REGISTER OVERLAY ----

type RegisterConfig struct {
	Key     string   `yaml:"key"`
	Name    string   `yaml:"name"`
	Address uint16   `yaml:"address"`
	Type    string   `yaml:"type"`   // int16|uint16|int32|uint32|float32|bool
	Scale   float64  `yaml:"scale"`  // 0 means 1.0
	Offset  float64  `yaml:"offset"`
	Access  string   `yaml:"access"` // ro|rw; empty means ro
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
	Unit    string   `yaml:"unit"`
}

// Load reads and decodes a YAML configuration file. Validation and
// normalization are separate, explicit steps.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config read")
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "config decode")
	}

	return &cfg, nil
}
