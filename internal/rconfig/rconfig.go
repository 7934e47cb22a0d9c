// Package rconfig loads runtime configuration documents (scheduler.Config,
// world/systemic cadence settings) from TOML, using the teacher's own
// configuration format of choice.
package rconfig

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LoadFile decodes the TOML document at path into v, returning a wrapped
// error on failure (missing file, syntax error, or unknown/mistyped keys).
func LoadFile[T any](path string) (T, error) {
	var v T
	meta, err := toml.DecodeFile(path, &v)
	if err != nil {
		return v, fmt.Errorf("rconfig: decode %s: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) != 0 {
		return v, fmt.Errorf("rconfig: %s: unrecognized keys: %v", path, undec)
	}
	return v, nil
}

// LoadBytes decodes a TOML document already held in memory, e.g. embedded
// configuration or a value fetched from a non-file source.
func LoadBytes[T any](data []byte) (T, error) {
	var v T
	meta, err := toml.Decode(string(data), &v)
	if err != nil {
		return v, fmt.Errorf("rconfig: decode: %w", err)
	}
	if undec := meta.Undecoded(); len(undec) != 0 {
		return v, fmt.Errorf("rconfig: unrecognized keys: %v", undec)
	}
	return v, nil
}
