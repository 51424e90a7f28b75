package schema

import (
	"fmt"
	"strings"
)

// UnknownDimensionError reports a compatibility key with no registered
// domain. This is a configuration defect: compat keys must only reference
// registered dimensions, so it should surface during development, not be
// handled at runtime with a user-facing message.
type UnknownDimensionError struct {
	Key string
}

func (e *UnknownDimensionError) Error() string {
	return fmt.Sprintf("unknown dimension %q", e.Key)
}

// TypeMismatchError reports input that cannot satisfy a spec definition's
// declared type. It is recoverable: the value may still be stored flagged
// for review.
type TypeMismatchError struct {
	SpecID string
	Want   ValueType
	Got    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("spec %s: value %q does not satisfy type %s", e.SpecID, e.Got, e.Want)
}

// InvalidEnumValueError reports a value outside an enum spec's domain.
// Recoverable in the same way as TypeMismatchError.
type InvalidEnumValueError struct {
	SpecID  string
	Value   string
	Allowed []string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("spec %s: %q is not one of [%s]", e.SpecID, e.Value, strings.Join(e.Allowed, ", "))
}
