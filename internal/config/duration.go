package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can be written as "30s" or
// "5m". Bare integers are interpreted as seconds.
type Duration struct {
	time.Duration
}

// Seconds builds a Duration from a second count.
func Seconds(n int) Duration {
	return Duration{time.Duration(n) * time.Second}
}

// UnmarshalYAML implements yaml.Unmarshaler. Bare integer nodes decode as
// strings too, so the node tag decides which interpretation applies.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!int" {
		var n int64
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("invalid duration value at line %d: %w", value.Line, err)
		}
		d.Duration = time.Duration(n) * time.Second
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration value at line %d: %w", value.Line, err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}
