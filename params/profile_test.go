package params

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfile(t *testing.T) {

	p := Default()

	require.NoError(t, p.Validate())
	require.Equal(t, 12, p.LogN())
	require.Equal(t, 109, p.LogQP())

	T, err := p.PlaintextModulus()
	require.NoError(t, err)
	require.Equal(t, uint64(1032193), T)
	require.Equal(t, uint64(1), T%(2*uint64(p.PolyModulusDegree)))

	pl, err := p.Literal()
	require.NoError(t, err)
	require.Equal(t, 12, pl.LogN)
	require.Equal(t, []int{36, 36}, pl.LogQ)
	require.Equal(t, []int{37}, pl.LogP)
	require.Equal(t, T, pl.PlaintextModulus)
}

func TestLiteralSinglePrime(t *testing.T) {
	p := Profile{
		Scheme:               SchemeBFV,
		SecurityLevel:        SecurityNone,
		PolyModulusDegree:    1024,
		CoeffModulusBitSizes: []uint32{50},
		PlainModulusBitSize:  16,
	}
	pl, err := p.Literal()
	require.NoError(t, err)
	require.Equal(t, []int{50}, pl.LogQ)
	require.Nil(t, pl.LogP)
}

func TestValidate(t *testing.T) {

	mutate := func(f func(p *Profile)) Profile {
		p := Default()
		f(&p)
		return p
	}

	for _, tc := range []struct {
		name  string
		p     Profile
		field string
	}{
		{"Scheme", mutate(func(p *Profile) { p.Scheme = Scheme(7) }), FieldScheme},
		{"SecurityLevel", mutate(func(p *Profile) { p.SecurityLevel = SecurityLevel(9) }), FieldSecurityLevel},
		{"Degree/NotPowerOfTwo", mutate(func(p *Profile) { p.PolyModulusDegree = 3000 }), FieldPolyModulusDegree},
		{"Degree/Zero", mutate(func(p *Profile) { p.PolyModulusDegree = 0 }), FieldPolyModulusDegree},
		{"Degree/TooLarge", mutate(func(p *Profile) { p.PolyModulusDegree = 1 << 16 }), FieldPolyModulusDegree},
		{"Chain/Empty", mutate(func(p *Profile) { p.CoeffModulusBitSizes = nil }), FieldCoeffModulusBitSizes},
		{"Chain/PrimeTooLarge", mutate(func(p *Profile) { p.CoeffModulusBitSizes = []uint32{61, 36} }), FieldCoeffModulusBitSizes},
		{"Chain/Insecure", mutate(func(p *Profile) { p.CoeffModulusBitSizes = []uint32{60, 60, 60} }), FieldCoeffModulusBitSizes},
		{"Chain/InsecureTC192", mutate(func(p *Profile) { p.SecurityLevel = TC192 }), FieldCoeffModulusBitSizes},
		{"Plain/TooSmall", mutate(func(p *Profile) { p.PlainModulusBitSize = 1 }), FieldPlainModulusBitSize},
		{"Plain/NoBatchingPrime", mutate(func(p *Profile) { p.PlainModulusBitSize = 12 }), FieldPlainModulusBitSize},
		{"Plain/LargerThanChain", mutate(func(p *Profile) { p.PlainModulusBitSize = 36 }), FieldPlainModulusBitSize},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			require.Equal(t, IncompatibleParameters, cfgErr.Kind)
			require.Equal(t, tc.field, cfgErr.Field)

			_, err = tc.p.Literal()
			require.Error(t, err)
		})
	}
}

func TestSecurityLevelWithoutBound(t *testing.T) {
	p := Default()
	p.SecurityLevel = SecurityNone
	p.CoeffModulusBitSizes = []uint32{60, 60, 60}
	require.NoError(t, p.Validate())
}

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			p, err := Preset(name)
			require.NoError(t, err)
			require.NoError(t, p.Validate())
		})
	}

	p, err := Preset(PresetN4096)
	require.NoError(t, err)
	require.True(t, p.Equal(Default()))

	// Presets are returned by value and cannot be altered by the caller.
	p.CoeffModulusBitSizes[0] = 1
	p, err = Preset(PresetN4096)
	require.NoError(t, err)
	require.Equal(t, uint32(36), p.CoeffModulusBitSizes[0])

	_, err = Preset("n65536")
	require.Error(t, err)
}

func TestProfileEqual(t *testing.T) {

	require.True(t, Default().Equal(Default()))
	require.Empty(t, cmp.Diff(Default(), Default()))

	for _, modify := range []func(p *Profile){
		func(p *Profile) { p.SecurityLevel = TC192 },
		func(p *Profile) { p.PolyModulusDegree = 8192 },
		func(p *Profile) { p.CoeffModulusBitSizes = []uint32{36, 36} },
		func(p *Profile) { p.CoeffModulusBitSizes[2] = 38 },
		func(p *Profile) { p.PlainModulusBitSize = 17 },
	} {
		p := Default()
		modify(&p)
		require.False(t, Default().Equal(p), p.String())
		require.NotEmpty(t, cmp.Diff(Default(), p))
	}
}

func TestProfileJSON(t *testing.T) {

	t.Run("Full", func(t *testing.T) {
		data, err := json.Marshal(Default())
		require.NoError(t, err)
		require.Contains(t, string(data), `"securityLevel":"tc128"`)
		require.Contains(t, string(data), `"scheme":"bfv"`)

		var p Profile
		require.NoError(t, json.Unmarshal(data, &p))
		if diff := cmp.Diff(Default(), p); diff != "" {
			t.Fatalf("profile mismatch (-want +have):\n%s", diff)
		}
	})

	t.Run("Partial", func(t *testing.T) {
		var p Profile
		require.NoError(t, json.Unmarshal([]byte(`{"polyModulusDegree":8192,"coeffModulusBitSizes":[43,43,44,44,44]}`), &p))
		want := Default()
		want.PolyModulusDegree = 8192
		want.CoeffModulusBitSizes = []uint32{43, 43, 44, 44, 44}
		require.True(t, want.Equal(p), cmp.Diff(want, p))
	})

	t.Run("UnknownSecurityLevel", func(t *testing.T) {
		var p Profile
		require.Error(t, json.Unmarshal([]byte(`{"securityLevel":"tc64"}`), &p))
	})
}
