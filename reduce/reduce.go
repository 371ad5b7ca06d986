// Package reduce folds a list of integers under an arithmetic operator
// without decrypting any intermediate value.
package reduce

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"

	"github.com/tuneinsight/hecalc/session"
)

// Reduce encrypts every value independently and left-folds the ciphertexts
// under op: ((c0 op c1) op c2) ... op cn-1. A single value is returned as its
// fresh encryption.
func Reduce(sess *session.Session, values []int64, op Operation) (acc *rlwe.Ciphertext, err error) {

	if !op.Valid() {
		return nil, &OpError{Kind: InvalidInput, Op: op, Index: -1, Err: fmt.Errorf("unsupported operation")}
	}

	if len(values) == 0 {
		return nil, &OpError{Kind: EmptyInput, Op: op, Index: -1}
	}

	cts, err := EncryptAll(sess, values, op)
	if err != nil {
		return nil, err
	}

	acc = cts[0]
	for i, ct := range cts[1:] {
		if acc, err = op.apply(sess.Evaluator, acc, ct); err != nil {
			return nil, &OpError{Kind: EvaluationFailed, Op: op, Index: i + 1, Err: err}
		}
	}

	return acc, nil
}

// EncryptAll range-checks, encodes and encrypts the values, preserving their
// order. op is only used to annotate errors.
func EncryptAll(sess *session.Session, values []int64, op Operation) ([]*rlwe.Ciphertext, error) {

	min, max := sess.Encoder.Bounds()

	cts := make([]*rlwe.Ciphertext, len(values))
	for i, v := range values {

		if !sess.Encoder.InRange(v) {
			return nil, &OpError{Kind: InvalidInput, Op: op, Index: i, Err: fmt.Errorf("%d is outside [%d, %d]", v, min, max)}
		}

		ct, err := sess.EncryptScalar(v)
		if err != nil {
			return nil, &OpError{Kind: InvalidInput, Op: op, Index: i, Err: err}
		}

		cts[i] = ct
	}

	return cts, nil
}
