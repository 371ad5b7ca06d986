package params

import (
	"fmt"
	"strings"
)

// SecurityLevel is a classical security level of the HomomorphicEncryption.org
// standard, for uniform ternary secrets and an error of standard deviation 3.2.
type SecurityLevel int

const (
	// SecurityNone disables the modulus bound. It must only be used for tests.
	SecurityNone SecurityLevel = iota
	// TC128 is 128-bit classical security.
	TC128
	// TC192 is 192-bit classical security.
	TC192
	// TC256 is 256-bit classical security.
	TC256
)

// maxLogQP maps a security level to the largest total modulus bit size
// allowed for each ring degree.
var maxLogQP = map[SecurityLevel]map[uint32]int{
	TC128: {1024: 27, 2048: 54, 4096: 109, 8192: 218, 16384: 438, 32768: 881},
	TC192: {1024: 19, 2048: 37, 4096: 75, 8192: 152, 16384: 305, 32768: 611},
	TC256: {1024: 14, 2048: 29, 4096: 58, 8192: 118, 16384: 237, 32768: 476},
}

// Valid returns true if the level is one of the defined constants.
func (l SecurityLevel) Valid() bool {
	return l >= SecurityNone && l <= TC256
}

// MaxLogQP returns the largest log2 of the modulus chain that achieves the
// security level at the given ring degree. The boolean is false if the level
// does not bound the modulus.
func (l SecurityLevel) MaxLogQP(degree uint32) (int, bool) {
	if l == SecurityNone {
		return 0, false
	}
	table, ok := maxLogQP[l]
	if !ok {
		return 0, false
	}
	// Unlisted degrees are rejected by Validate before this point.
	return table[degree], true
}

func (l SecurityLevel) String() string {
	switch l {
	case SecurityNone:
		return "none"
	case TC128:
		return "tc128"
	case TC192:
		return "tc192"
	case TC256:
		return "tc256"
	default:
		return fmt.Sprintf("SecurityLevel(%d)", int(l))
	}
}

// ParseSecurityLevel parses the name of a security level, e.g. "tc128".
func ParseSecurityLevel(s string) (SecurityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return SecurityNone, nil
	case "tc128", "128":
		return TC128, nil
	case "tc192", "192":
		return TC192, nil
	case "tc256", "256":
		return TC256, nil
	default:
		return 0, fmt.Errorf("unknown security level %q", s)
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (l SecurityLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *SecurityLevel) UnmarshalText(text []byte) (err error) {
	*l, err = ParseSecurityLevel(string(text))
	return
}
