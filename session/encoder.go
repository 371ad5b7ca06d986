package session

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

// Encoder maps signed integers to batched plaintexts. Only the first slot of
// each plaintext carries a value, the remaining slots are zero.
type Encoder struct {
	*bgv.Encoder
	params bgv.Parameters
}

// NewEncoder creates a new Encoder from the provided parameters.
func NewEncoder(params bgv.Parameters) *Encoder {
	return &Encoder{Encoder: bgv.NewEncoder(params), params: params}
}

// ShallowCopy creates a shallow copy of this Encoder in which the read-only data-structures are
// shared with the receiver.
func (ecd Encoder) ShallowCopy() *Encoder {
	return &Encoder{Encoder: ecd.Encoder.ShallowCopy(), params: ecd.params}
}

// Bounds returns the smallest and the largest integer that can be decoded
// without wrapping around the plaintext modulus t, i.e. [t/2 - t, t/2).
func (ecd Encoder) Bounds() (min, max int64) {
	t := ecd.params.PlaintextModulus()
	half := int64(t >> 1)
	return half - int64(t), half - 1
}

// InRange returns true if v is within [Encoder.Bounds].
func (ecd Encoder) InRange(v int64) bool {
	min, max := ecd.Bounds()
	return v >= min && v <= max
}

// EncodeScalarNew encodes v on the first slot of a new plaintext at the
// maximum level.
func (ecd Encoder) EncodeScalarNew(v int64) (pt *rlwe.Plaintext, err error) {
	pt = bgv.NewPlaintext(ecd.params, ecd.params.MaxLevel())
	if err = ecd.Encode([]int64{v}, pt); err != nil {
		return nil, fmt.Errorf("cannot EncodeScalarNew: %w", err)
	}
	return
}

// DecodeScalar decodes the first slot of pt as a centred integer.
func (ecd Encoder) DecodeScalar(pt *rlwe.Plaintext) (int64, error) {
	values := make([]int64, 1)
	if err := ecd.Decode(pt, values); err != nil {
		return 0, fmt.Errorf("cannot DecodeScalar: %w", err)
	}
	return values[0], nil
}
