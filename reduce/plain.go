package reduce

import (
	"fmt"
	"math/big"

	"golang.org/x/exp/constraints"
)

// Plain computes the fold of [Reduce] on plaintext values, in arithmetic
// modulo t with the result centred in [t/2 - t, t/2).
func Plain[T constraints.Signed](values []T, op Operation, t uint64) (T, error) {

	if !op.Valid() {
		return 0, &OpError{Kind: InvalidInput, Op: op, Index: -1, Err: fmt.Errorf("unsupported operation")}
	}

	if len(values) == 0 {
		return 0, &OpError{Kind: EmptyInput, Op: op, Index: -1}
	}

	if t < 2 {
		return 0, fmt.Errorf("invalid plaintext modulus %d", t)
	}

	mod := new(big.Int).SetUint64(t)

	acc := toBig(values[0])
	for _, v := range values[1:] {
		switch op {
		case Add:
			acc.Add(acc, toBig(v))
		case Sub:
			acc.Sub(acc, toBig(v))
		case Multiply:
			acc.Mul(acc, toBig(v))
		}
		acc.Mod(acc, mod)
	}

	acc.Mod(acc, mod)

	if acc.Cmp(new(big.Int).SetUint64(t>>1)) >= 0 {
		acc.Sub(acc, mod)
	}

	return T(acc.Int64()), nil
}

func toBig[T constraints.Signed](v T) *big.Int {
	return big.NewInt(int64(v))
}
