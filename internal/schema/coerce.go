package schema

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xorig/rigctl/internal/model"
)

// numericPattern matches unsigned decimal literals like "267" and "2.56".
// Anything else passes through as a string; scraped data of uncertain
// quality must still be storable, so syntactic coercion stays permissive.
var numericPattern = regexp.MustCompile(`^\d+\.?\d*$`)

// Coerce converts a raw input string into a typed value. An empty (trimmed)
// input is the unset value, distinct from 0, false, or "".
func Coerce(raw string) model.Value {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return model.Value{}
	case s == "true":
		return model.NewBool(true)
	case s == "false":
		return model.NewBool(false)
	case numericPattern.MatchString(s):
		if !strings.Contains(s, ".") {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return model.NewInt(i)
			}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.NewString(s)
		}
		return model.NewFloat(f)
	default:
		return model.NewString(s)
	}
}

// CoerceFor coerces raw input and checks it against a spec definition's
// declared type and enum domain. On failure the syntactically coerced value
// is still returned alongside the error so callers can store it flagged for
// review instead of dropping it.
func CoerceFor(def SpecDef, raw string) (model.Value, error) {
	v := Coerce(raw)
	if v.IsEmpty() {
		return v, nil
	}

	switch def.Type {
	case TypeInt:
		if _, ok := v.Int64(); ok {
			return v, nil
		}
		if f, ok := v.Float64(); ok && f == math.Trunc(f) {
			return model.NewInt(int64(f)), nil
		}
		return v, &TypeMismatchError{SpecID: def.ID, Want: TypeInt, Got: v.String()}

	case TypeFloat:
		if f, ok := v.Float64(); ok {
			return model.NewFloat(f), nil
		}
		return v, &TypeMismatchError{SpecID: def.ID, Want: TypeFloat, Got: v.String()}

	case TypeBool:
		if _, ok := v.Bool(); ok {
			return v, nil
		}
		return v, &TypeMismatchError{SpecID: def.ID, Want: TypeBool, Got: v.String()}

	case TypeString:
		return model.NewString(v.String()), nil

	case TypeEnum:
		s := v.String()
		for _, allowed := range def.EnumValues {
			if s == allowed {
				return model.NewString(s), nil
			}
		}
		return v, &InvalidEnumValueError{SpecID: def.ID, Value: s, Allowed: def.EnumValues}

	default:
		return v, &TypeMismatchError{SpecID: def.ID, Want: def.Type, Got: v.String()}
	}
}
