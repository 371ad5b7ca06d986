package params

import "fmt"

// Names of the [Profile] fields reported by a [ConfigError].
const (
	FieldScheme               = "scheme"
	FieldSecurityLevel        = "securityLevel"
	FieldPolyModulusDegree    = "polyModulusDegree"
	FieldCoeffModulusBitSizes = "coeffModulusBitSizes"
	FieldPlainModulusBitSize  = "plainModulusBitSize"
)

// ConfigErrorKind classifies a [ConfigError].
type ConfigErrorKind int

const (
	// IncompatibleParameters means that the HE library cannot instantiate the
	// requested parameters at the requested security level.
	IncompatibleParameters ConfigErrorKind = iota + 1
)

func (k ConfigErrorKind) String() string {
	switch k {
	case IncompatibleParameters:
		return "incompatible parameters"
	default:
		return fmt.Sprintf("ConfigErrorKind(%d)", int(k))
	}
}

// ConfigError is a static configuration defect. It is never retried and
// terminates the program.
type ConfigError struct {
	Kind   ConfigErrorKind
	Field  string
	Reason string
	Err    error
}

// NewIncompatibleParameters returns a *ConfigError of kind
// [IncompatibleParameters] for the given field.
func NewIncompatibleParameters(field, reason string, err error) *ConfigError {
	return newConfigError(field, reason, err)
}

func newConfigError(field, reason string, err error) *ConfigError {
	return &ConfigError{Kind: IncompatibleParameters, Field: field, Reason: reason, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
