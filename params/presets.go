package params

import (
	"fmt"
	"sort"
)

// Names of the built-in profiles.
const (
	PresetN4096         = "n4096"
	PresetN8192         = "n8192"
	PresetN2048Insecure = "n2048-insecure"
)

var presets = map[string]Profile{

	// PresetN4096 is the default profile: logN=12 and logQP=109, 128-bit secure.
	// It supports a single ciphertext-ciphertext multiplication.
	PresetN4096: Default(),

	// PresetN8192 has logN=13 and logQP=218, 128-bit secure, and supports a
	// few chained multiplications.
	PresetN8192: {
		Scheme:               SchemeBFV,
		SecurityLevel:        TC128,
		PolyModulusDegree:    8192,
		CoeffModulusBitSizes: []uint32{43, 43, 44, 44, 44},
		PlainModulusBitSize:  20,
	},

	// PresetN2048Insecure is an insecure parameter set used for the sole
	// purpose of fast testing.
	PresetN2048Insecure: {
		Scheme:               SchemeBFV,
		SecurityLevel:        SecurityNone,
		PolyModulusDegree:    2048,
		CoeffModulusBitSizes: []uint32{40, 40},
		PlainModulusBitSize:  17,
	},
}

// Preset returns a copy of the built-in profile with the given name.
func Preset(name string) (Profile, error) {
	p, ok := presets[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q, available: %v", name, PresetNames())
	}
	return p.Clone(), nil
}

// PresetNames returns the sorted names of the built-in profiles.
func PresetNames() (names []string) {
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
