package session

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
	"github.com/montanaflynn/stats"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

const logPrec = 128

var ln2 = bigfloat.Log(new(big.Float).SetPrec(logPrec).SetInt64(2))

// NoiseReport describes the error of a ciphertext with respect to the
// message it decrypts to.
type NoiseReport struct {
	// BudgetBits is log2(Q/(2t)) - log2(max|e|): the number of bits the error
	// can still grow before decryption fails.
	BudgetBits float64
	// Log2Max is the log2 of the largest absolute error coefficient.
	Log2Max float64
	// Log2Std is the log2 of the standard deviation of the absolute error
	// coefficients.
	Log2Std float64
}

// NoiseMeter measures the error of ciphertexts with the secret key. It must
// never be shared outside of the session that owns the key.
type NoiseMeter struct {
	params bgv.Parameters
	ecd    *bgv.Encoder
	dec    *rlwe.Decryptor
}

// NewNoiseMeter creates a new NoiseMeter for the given secret key.
func NewNoiseMeter(params bgv.Parameters, sk *rlwe.SecretKey) *NoiseMeter {
	return &NoiseMeter{
		params: params,
		ecd:    bgv.NewEncoder(params),
		dec:    rlwe.NewDecryptor(params, sk),
	}
}

// Measure decrypts ct, decodes it, re-encodes the decoded message and returns
// the statistics of the difference, i.e. the error term of the decryption.
// A ciphertext whose error has already wrapped around shows a residual
// spread over the whole rounding interval and a budget close to zero.
func (m NoiseMeter) Measure(ct *rlwe.Ciphertext) (NoiseReport, error) {

	level := ct.Level()

	pt := m.dec.DecryptNew(ct)

	values := make([]uint64, m.params.MaxSlots())
	if err := m.ecd.Decode(pt, values); err != nil {
		return NoiseReport{}, fmt.Errorf("cannot measure noise: %w", err)
	}

	ref := bgv.NewPlaintext(m.params, level)
	*ref.MetaData = *pt.MetaData
	if err := m.ecd.Encode(values, ref); err != nil {
		return NoiseReport{}, fmt.Errorf("cannot measure noise: %w", err)
	}

	ringQ := m.params.RingQ().AtLevel(level)

	diff := ringQ.NewPoly()
	ringQ.Sub(pt.Value, ref.Value, diff)

	if pt.IsNTT {
		ringQ.INTT(diff, diff)
	}

	coeffs := make([]*big.Int, m.params.N())
	for i := range coeffs {
		coeffs[i] = new(big.Int)
	}

	ringQ.PolyToBigintCentered(diff, 1, coeffs)

	return m.stats(coeffs, level)
}

func (m NoiseMeter) stats(coeffs []*big.Int, level int) (NoiseReport, error) {

	maxAbs := new(big.Int)
	abs := new(big.Int)
	data := make(stats.Float64Data, len(coeffs))

	for i, c := range coeffs {
		abs.Abs(c)
		if abs.Cmp(maxAbs) > 0 {
			maxAbs.Set(abs)
		}
		data[i], _ = new(big.Float).SetInt(abs).Float64()
	}

	std, err := stats.StandardDeviation(data)
	if err != nil {
		return NoiseReport{}, fmt.Errorf("cannot measure noise: %w", err)
	}

	Q := big.NewInt(1)
	for _, qi := range m.params.Q()[:level+1] {
		Q.Mul(Q, new(big.Int).SetUint64(qi))
	}

	bound := log2(Q) - log2(new(big.Int).SetUint64(m.params.PlaintextModulus())) - 1

	var log2Max float64
	if maxAbs.Sign() > 0 {
		log2Max = log2(maxAbs)
	}

	return NoiseReport{
		BudgetBits: bound - log2Max,
		Log2Max:    log2Max,
		Log2Std:    math.Log2(std),
	}, nil
}

// log2 returns the base 2 logarithm of x > 0.
func log2(x *big.Int) float64 {
	l := bigfloat.Log(new(big.Float).SetPrec(logPrec).SetInt(x))
	f, _ := l.Quo(l, ln2).Float64()
	return f
}
