// Package session derives the key material and the HE primitives bound to a
// [helib.Context]. A [Session] lives for exactly one calculator iteration and
// is discarded afterwards, together with its secret key.
package session

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"go.uber.org/zap"

	"github.com/tuneinsight/hecalc/helib"
)

// KeyPair is the key material of a session. The secret key is not exported
// and is never serialized nor logged.
type KeyPair struct {
	sk  *rlwe.SecretKey
	Pk  *rlwe.PublicKey
	Rlk *rlwe.RelinearizationKey
}

// Session bundles a context with the keys and primitives derived from it.
type Session struct {
	Context *helib.Context
	Keys    KeyPair

	Encoder   *Encoder
	Evaluator *Evaluator
	Encryptor *rlwe.Encryptor
	Decryptor *rlwe.Decryptor

	// Fingerprint identifies the session in the logs, see [Fingerprint].
	Fingerprint string

	meter *NoiseMeter
}

type options struct {
	logger    *zap.Logger
	minBudget float64
	noGuard   bool
}

// Option configures [Derive].
type Option func(*options)

// WithLogger sets the logger of the derivation. Defaults to the logger of the
// library the context was built from.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMinNoiseBudget sets the smallest noise budget, in bits, that the
// evaluator accepts after an operation. Defaults to [DefaultMinNoiseBudget].
func WithMinNoiseBudget(bits float64) Option {
	return func(o *options) {
		o.minBudget = bits
	}
}

// WithoutNoiseGuard disables the noise check of the evaluator.
func WithoutNoiseGuard() Option {
	return func(o *options) {
		o.noGuard = true
	}
}

// Derive generates a fresh key pair for the context: the secret key first,
// then the public key from it, then the relinearization key. It then
// instantiates the encoder, the scale-invariant evaluator, the encryptor and
// the decryptor.
func Derive(ctx *helib.Context, opts ...Option) (sess *Session, err error) {

	if ctx == nil {
		return nil, fmt.Errorf("cannot Derive: nil context")
	}

	o := options{minBudget: DefaultMinNoiseBudget}
	if lib := ctx.Library(); lib != nil {
		o.logger = lib.Logger()
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	params := ctx.Parameters()

	kgen := rlwe.NewKeyGenerator(params)

	keys := KeyPair{sk: kgen.GenSecretKeyNew()}
	keys.Pk = kgen.GenPublicKeyNew(keys.sk)
	keys.Rlk = kgen.GenRelinearizationKeyNew(keys.sk)

	fp, err := Fingerprint(keys.Pk)
	if err != nil {
		return nil, fmt.Errorf("cannot Derive: %w", err)
	}

	meter := NewNoiseMeter(params, keys.sk)

	var guard *NoiseMeter
	if !o.noGuard {
		guard = meter
	}

	sess = &Session{
		Context:     ctx,
		Keys:        keys,
		Encoder:     NewEncoder(params),
		Evaluator:   NewEvaluator(params, rlwe.NewMemEvaluationKeySet(keys.Rlk), guard, o.minBudget),
		Encryptor:   rlwe.NewEncryptor(params, keys.Pk),
		Decryptor:   rlwe.NewDecryptor(params, keys.sk),
		Fingerprint: fp,
		meter:       meter,
	}

	o.logger.Debug("session derived",
		zap.String("session", fp),
		zap.Stringer("profile", ctx.Profile()),
	)

	return sess, nil
}

// EncryptScalar encodes v on the first slot of a plaintext and encrypts it
// with the public key.
func (s *Session) EncryptScalar(v int64) (*rlwe.Ciphertext, error) {

	pt, err := s.Encoder.EncodeScalarNew(v)
	if err != nil {
		return nil, err
	}

	ct, err := s.Encryptor.EncryptNew(pt)
	if err != nil {
		return nil, fmt.Errorf("cannot EncryptScalar: %w", err)
	}

	return ct, nil
}

// DecryptScalar decrypts ct and decodes its first slot.
func (s *Session) DecryptScalar(ct *rlwe.Ciphertext) (int64, error) {
	if ct == nil {
		return 0, fmt.Errorf("cannot DecryptScalar: nil ciphertext")
	}
	return s.Encoder.DecodeScalar(s.Decryptor.DecryptNew(ct))
}

// Noise measures the error of ct, see [NoiseMeter.Measure].
func (s *Session) Noise(ct *rlwe.Ciphertext) (NoiseReport, error) {
	if ct == nil {
		return NoiseReport{}, fmt.Errorf("cannot measure noise: nil ciphertext")
	}
	if s.meter == nil {
		return NoiseReport{}, fmt.Errorf("cannot measure noise: session has no secret key")
	}
	return s.meter.Measure(ct)
}
