// Package params describes the encryption parameters of the calculator and
// checks them before any key material is generated.
//
// A [Profile] follows the conventions of the SEAL parameter API: the last
// entry of the coefficient-modulus chain is the special prime used for key
// switching, and the plaintext modulus is the largest batching-friendly prime
// of the requested bit size.
package params

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"slices"
	"strings"

	"github.com/tuneinsight/lattigo/v6/ring"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

const (
	// MinLogN is the smallest supported log2 of the ring degree.
	MinLogN = 10
	// MaxLogN is the largest supported log2 of the ring degree.
	MaxLogN = 15
	// MaxModulusBitSize is the largest accepted size of a single prime of the
	// coefficient modulus or of the plaintext modulus.
	MaxModulusBitSize = 60
)

// Scheme identifies the homomorphic encryption scheme of a [Profile].
type Scheme int

const (
	// SchemeBFV is the Brakerski/Fan-Vercauteren scale-invariant scheme.
	SchemeBFV Scheme = iota
)

// String returns the lower case name of the scheme.
func (s Scheme) String() string {
	switch s {
	case SchemeBFV:
		return "bfv"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (s Scheme) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Scheme) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "bfv":
		*s = SchemeBFV
		return nil
	default:
		return fmt.Errorf("unsupported scheme %q", text)
	}
}

// Profile is an immutable description of a BFV parameter set.
type Profile struct {
	Scheme               Scheme        `json:"scheme" mapstructure:"scheme"`
	SecurityLevel        SecurityLevel `json:"securityLevel" mapstructure:"security-level"`
	PolyModulusDegree    uint32        `json:"polyModulusDegree" mapstructure:"poly-modulus-degree"`
	CoeffModulusBitSizes []uint32      `json:"coeffModulusBitSizes" mapstructure:"coeff-modulus-bit-sizes"`
	PlainModulusBitSize  uint32        `json:"plainModulusBitSize" mapstructure:"plain-modulus-bit-size"`
}

// Default returns the profile of the calculator: 128-bit security, ring
// degree 4096, a 109-bit modulus chain and a 20-bit plaintext modulus.
func Default() Profile {
	return Profile{
		Scheme:               SchemeBFV,
		SecurityLevel:        TC128,
		PolyModulusDegree:    4096,
		CoeffModulusBitSizes: []uint32{36, 36, 37},
		PlainModulusBitSize:  20,
	}
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	p.CoeffModulusBitSizes = append([]uint32(nil), p.CoeffModulusBitSizes...)
	return p
}

// Equal compares two profiles for equality.
func (p Profile) Equal(other Profile) bool {
	return p.Scheme == other.Scheme &&
		p.SecurityLevel == other.SecurityLevel &&
		p.PolyModulusDegree == other.PolyModulusDegree &&
		slices.Equal(p.CoeffModulusBitSizes, other.CoeffModulusBitSizes) &&
		p.PlainModulusBitSize == other.PlainModulusBitSize
}

// String returns a short human readable representation of the profile.
func (p Profile) String() string {
	return fmt.Sprintf("%s/%s/N=%d/logQP=%v(%d)/logT=%d",
		p.Scheme, p.SecurityLevel, p.PolyModulusDegree, p.CoeffModulusBitSizes, p.LogQP(), p.PlainModulusBitSize)
}

// LogQP returns the total bit size of the coefficient-modulus chain.
func (p Profile) LogQP() (logQP int) {
	for _, b := range p.CoeffModulusBitSizes {
		logQP += int(b)
	}
	return
}

// LogN returns the log2 of the ring degree. The result is only meaningful
// if the degree is a power of two.
func (p Profile) LogN() int {
	return bits.Len32(p.PolyModulusDegree) - 1
}

// Validate checks that the profile describes a parameter set the HE library
// can instantiate at the requested security level.
// It returns a *[ConfigError] naming the offending field otherwise.
func (p Profile) Validate() error {

	if p.Scheme != SchemeBFV {
		return newConfigError(FieldScheme, fmt.Sprintf("unsupported scheme %s", p.Scheme), nil)
	}

	if !p.SecurityLevel.Valid() {
		return newConfigError(FieldSecurityLevel, fmt.Sprintf("unknown security level %s", p.SecurityLevel), nil)
	}

	if d := p.PolyModulusDegree; d == 0 || d&(d-1) != 0 {
		return newConfigError(FieldPolyModulusDegree, fmt.Sprintf("%d is not a power of two", d), nil)
	}

	if logN := p.LogN(); logN < MinLogN || logN > MaxLogN {
		return newConfigError(FieldPolyModulusDegree, fmt.Sprintf("%d is outside [2^%d, 2^%d]", p.PolyModulusDegree, MinLogN, MaxLogN), nil)
	}

	if len(p.CoeffModulusBitSizes) == 0 {
		return newConfigError(FieldCoeffModulusBitSizes, "empty modulus chain", nil)
	}

	for i, b := range p.CoeffModulusBitSizes {
		if b < 2 || b > MaxModulusBitSize {
			return newConfigError(FieldCoeffModulusBitSizes, fmt.Sprintf("prime #%d has %d bits, expected [2, %d]", i, b, MaxModulusBitSize), nil)
		}
	}

	if maxLogQP, ok := p.SecurityLevel.MaxLogQP(p.PolyModulusDegree); ok && p.LogQP() > maxLogQP {
		return newConfigError(FieldCoeffModulusBitSizes,
			fmt.Sprintf("logQP=%d exceeds %d bits allowed at N=%d for %s", p.LogQP(), maxLogQP, p.PolyModulusDegree, p.SecurityLevel), nil)
	}

	if _, err := p.PlaintextModulus(); err != nil {
		return err
	}

	return nil
}

// PlaintextModulus returns the largest prime of exactly PlainModulusBitSize
// bits that is congruent to 1 modulo 2N, which enables full batching.
func (p Profile) PlaintextModulus() (t uint64, err error) {

	logT := p.PlainModulusBitSize

	if logT < 2 || logT > MaxModulusBitSize {
		return 0, newConfigError(FieldPlainModulusBitSize, fmt.Sprintf("%d bits, expected [2, %d]", logT, MaxModulusBitSize), nil)
	}

	for _, b := range p.CoeffModulusBitSizes {
		if logT >= b {
			return 0, newConfigError(FieldPlainModulusBitSize, fmt.Sprintf("%d bits is not smaller than the %d-bit coefficient primes", logT, b), nil)
		}
	}

	nthRoot := uint64(p.PolyModulusDegree) << 1

	lower := uint64(1) << (logT - 1)
	upper := uint64(1)<<logT - 1

	// Largest value <= upper that is 1 mod 2N.
	for t = (upper-1)/nthRoot*nthRoot + 1; t >= lower && t > nthRoot; t -= nthRoot {
		if ring.IsPrime(t) {
			return t, nil
		}
	}

	return 0, newConfigError(FieldPlainModulusBitSize, fmt.Sprintf("no %d-bit prime is 1 mod %d", logT, nthRoot), nil)
}

// Literal returns the HE library parameters literal described by the profile.
// All primes but the last one form the ciphertext modulus Q and the last one
// is the key-switching modulus P, unless the chain has a single prime.
func (p Profile) Literal() (pl bgv.ParametersLiteral, err error) {

	if err = p.Validate(); err != nil {
		return
	}

	t, err := p.PlaintextModulus()
	if err != nil {
		return
	}

	logQ := make([]int, len(p.CoeffModulusBitSizes))
	for i, b := range p.CoeffModulusBitSizes {
		logQ[i] = int(b)
	}

	var logP []int
	if len(logQ) > 1 {
		logQ, logP = logQ[:len(logQ)-1], logQ[len(logQ)-1:]
	}

	return bgv.ParametersLiteral{
		LogN:             p.LogN(),
		LogQ:             logQ,
		LogP:             logP,
		PlaintextModulus: t,
	}, nil
}

// UnmarshalJSON reads a JSON representation of a profile. Omitted fields
// keep the values of [Default].
func (p *Profile) UnmarshalJSON(b []byte) (err error) {
	type profile Profile
	pl := profile(Default())
	if err = json.Unmarshal(b, &pl); err != nil {
		return err
	}
	*p = Profile(pl)
	return
}
