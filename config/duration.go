package config

import (
	"time"
)

// Duration wraps time.Duration so config values can be written as
// human-friendly strings ("10m", "1h30m") in YAML and on the command
// line. time.Duration itself has no text marshaling
// (https://github.com/golang/go/issues/16039).
type Duration time.Duration

func (d *Duration) String() string {
	return time.Duration(*d).String()
}

// UnmarshalText parses a duration string; empty text leaves the value
// unchanged so absent config keys keep their defaults.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return nil
	}
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration in time.Duration string form.
func (d Duration) MarshalText() (text []byte, err error) {
	return []byte(d.String()), nil
}

// Set implements pflag.Value.
func (d *Duration) Set(raw string) error {
	return d.UnmarshalText([]byte(raw))
}

// Type implements pflag.Value.
func (d *Duration) Type() string {
	return "duration"
}
