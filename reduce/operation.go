package reduce

import (
	"fmt"
	"strings"

	"github.com/tuneinsight/lattigo/v6/core/rlwe"

	"github.com/tuneinsight/hecalc/session"
)

// Operation is the binary operator folded over the encrypted inputs.
type Operation int

const (
	Add Operation = iota
	Sub
	Multiply
)

// Operations returns all operations, in menu order.
func Operations() []Operation {
	return []Operation{Add, Sub, Multiply}
}

func (op Operation) String() string {
	switch op {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Multiply:
		return "multiply"
	default:
		return fmt.Sprintf("Operation(%d)", int(op))
	}
}

// Symbol returns the infix symbol of the operation.
func (op Operation) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Multiply:
		return "*"
	default:
		return "?"
	}
}

// Valid returns true if op is one of [Operations].
func (op Operation) Valid() bool {
	return op >= Add && op <= Multiply
}

// ParseOperation returns the operation with the given name or symbol.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+":
		return Add, nil
	case "sub", "-":
		return Sub, nil
	case "multiply", "mul", "*":
		return Multiply, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", s)
	}
}

// apply is the single dispatch point from an operation to the evaluator.
func (op Operation) apply(eval *session.Evaluator, op0, op1 *rlwe.Ciphertext) (*rlwe.Ciphertext, error) {
	switch op {
	case Add:
		return eval.AddNew(op0, op1)
	case Sub:
		return eval.SubNew(op0, op1)
	case Multiply:
		return eval.MulNew(op0, op1)
	default:
		return nil, fmt.Errorf("unsupported operation %s", op)
	}
}
