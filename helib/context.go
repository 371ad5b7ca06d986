package helib

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
	"go.uber.org/zap"

	"github.com/tuneinsight/hecalc/params"
)

// Context is a checked HE parameter set together with the profile it was
// built from. It is immutable.
type Context struct {
	lib     *Library
	profile params.Profile
	params  bgv.Parameters
}

// BuildContext validates the profile and instantiates the corresponding
// parameters. It returns a *[params.ConfigError] if the profile is invalid or
// if the HE library rejects it; in that case nothing else has been computed.
func (l *Library) BuildContext(profile params.Profile) (*Context, error) {

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	pl, err := profile.Literal()
	if err != nil {
		return nil, err
	}

	p, err := bgv.NewParametersFromLiteral(pl)
	if err != nil {
		return nil, params.NewIncompatibleParameters(params.FieldCoeffModulusBitSizes, "rejected by the HE library", err)
	}

	// Equivalent of SEAL's "parameters set" flag for batching: every slot of
	// the ring must be usable.
	if p.MaxSlots() != int(profile.PolyModulusDegree) {
		return nil, params.NewIncompatibleParameters(params.FieldPlainModulusBitSize,
			fmt.Sprintf("plaintext modulus %d enables %d slots out of %d", p.PlaintextModulus(), p.MaxSlots(), profile.PolyModulusDegree), nil)
	}

	l.logger.Debug("context built",
		zap.Stringer("profile", profile),
		zap.Uint64("plaintextModulus", p.PlaintextModulus()),
		zap.Float64("logQP", p.LogQP()),
		zap.Int("maxLevel", p.MaxLevel()),
	)

	return &Context{
		lib:     l,
		profile: profile.Clone(),
		params:  p,
	}, nil
}

// Library returns the runtime the context was built from.
func (c *Context) Library() *Library {
	return c.lib
}

// Profile returns a copy of the profile of the context.
func (c *Context) Profile() params.Profile {
	return c.profile.Clone()
}

// Parameters returns the HE library parameters.
func (c *Context) Parameters() bgv.Parameters {
	return c.params
}

// PlaintextModulus returns the plaintext modulus t.
func (c *Context) PlaintextModulus() uint64 {
	return c.params.PlaintextModulus()
}
