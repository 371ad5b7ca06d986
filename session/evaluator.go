package session

import (
	"errors"
	"fmt"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/schemes/bgv"
)

// ErrNoiseBudgetExhausted is returned by the [Evaluator] when the noise of a
// result is too large for the ciphertext to decrypt correctly.
var ErrNoiseBudgetExhausted = errors.New("noise budget exhausted")

// DefaultMinNoiseBudget is the smallest remaining noise budget, in bits, that
// an [Evaluator] accepts after an operation.
const DefaultMinNoiseBudget = 1.0

// Evaluator is a BFV evaluator restricted to ciphertext-ciphertext operations.
// Every result is checked against the noise budget: an operation never returns
// a ciphertext that would decrypt to a wrong value.
type Evaluator struct {
	*bgv.Evaluator
	meter     *NoiseMeter
	minBudget float64
}

// NewEvaluator creates a new scale-invariant (BFV) Evaluator. The
// evaluation key set must contain a relinearization key for [Evaluator.MulNew]
// to succeed. If meter is nil, results are not checked.
func NewEvaluator(params bgv.Parameters, evk rlwe.EvaluationKeySet, meter *NoiseMeter, minBudget float64) *Evaluator {
	return &Evaluator{
		Evaluator: bgv.NewEvaluator(params, evk, true),
		meter:     meter,
		minBudget: minBudget,
	}
}

// AddNew adds op1 to op0 and returns the result in a new ciphertext.
func (eval Evaluator) AddNew(op0, op1 *rlwe.Ciphertext) (opOut *rlwe.Ciphertext, err error) {
	opOut, err = eval.Evaluator.AddNew(op0, op1)
	return eval.check("AddNew", opOut, err)
}

// SubNew subtracts op1 from op0 and returns the result in a new ciphertext.
func (eval Evaluator) SubNew(op0, op1 *rlwe.Ciphertext) (opOut *rlwe.Ciphertext, err error) {
	opOut, err = eval.Evaluator.SubNew(op0, op1)
	return eval.check("SubNew", opOut, err)
}

// MulNew multiplies op0 with op1 using the scale-invariant tensoring followed
// by a relinearization, and returns the result in a new ciphertext of degree 1.
func (eval Evaluator) MulNew(op0, op1 *rlwe.Ciphertext) (opOut *rlwe.Ciphertext, err error) {
	opOut, err = eval.Evaluator.MulRelinScaleInvariantNew(op0, op1)
	return eval.check("MulNew", opOut, err)
}

func (eval Evaluator) check(op string, ct *rlwe.Ciphertext, err error) (*rlwe.Ciphertext, error) {

	if err != nil {
		return nil, fmt.Errorf("cannot %s: %w", op, err)
	}

	if eval.meter == nil {
		return ct, nil
	}

	noise, err := eval.meter.Measure(ct)
	if err != nil {
		return nil, fmt.Errorf("cannot %s: %w", op, err)
	}

	if noise.BudgetBits < eval.minBudget {
		return nil, fmt.Errorf("cannot %s: %w (%.2f bits left, %.2f required)", op, ErrNoiseBudgetExhausted, noise.BudgetBits, eval.minBudget)
	}

	return ct, nil
}
