package reduce

import "fmt"

// OpErrorKind classifies an [OpError].
type OpErrorKind int

const (
	// EmptyInput means that no value was given.
	EmptyInput OpErrorKind = iota + 1
	// InvalidInput means that a value cannot be encoded.
	InvalidInput
	// EvaluationFailed means that the HE library failed to evaluate an
	// operator, or that the result would not decrypt correctly.
	EvaluationFailed
)

func (k OpErrorKind) String() string {
	switch k {
	case EmptyInput:
		return "empty input"
	case InvalidInput:
		return "invalid input"
	case EvaluationFailed:
		return "evaluation failed"
	default:
		return fmt.Sprintf("OpErrorKind(%d)", int(k))
	}
}

// OpError is an iteration-level failure of [Reduce]. The calculator reports it
// and carries on.
type OpError struct {
	Kind OpErrorKind
	Op   Operation
	// Index is the position of the input being processed, or -1.
	Index int
	Err   error
}

func (e *OpError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Index >= 0 {
		msg = fmt.Sprintf("%s at input %d", msg, e.Index+1)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OpError) Unwrap() error {
	return e.Err
}
