package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/mail"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Type validates a single value and converts it to its canonical form.
type Type interface {
	Name() string
	// Coerce returns the canonical value, or an error whose message is the
	// reason shown after the field label.
	Coerce(value any) (any, error)
}

// Invalid is a placeholder value produced when a composite value could not be
// assembled. Every type rejects it with its Reason.
type Invalid struct {
	Reason string
}

// DateLayout is the text form of a stored date.
const DateLayout = "2006-01-02"

// StringType validates text. Lengths are counted in runes; zero disables a bound.
type StringType struct {
	Min     int
	Max     int
	Length  int
	Pattern *regexp.Regexp
	Email   bool
}

func (t *StringType) Name() string {
	if t.Email {
		return "email"
	}
	return "string"
}

func (t *StringType) Coerce(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, errors.New("must be text")
	}
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	switch {
	case t.Length > 0 && n != t.Length:
		return nil, fmt.Errorf("must be %d characters", t.Length)
	case t.Min > 0 && n < t.Min:
		return nil, fmt.Errorf("must be %d characters or more", t.Min)
	case t.Max > 0 && n > t.Max:
		return nil, fmt.Errorf("must be %d characters or fewer", t.Max)
	}
	if t.Pattern != nil && !t.Pattern.MatchString(s) {
		return nil, errors.New("is in the wrong format")
	}
	if t.Email {
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@"):], ".") {
			return nil, errors.New("must be a valid email address")
		}
	}
	return s, nil
}

// NumberType validates numbers. Numeric strings are accepted.
type NumberType struct {
	Min     *float64
	Max     *float64
	Integer bool
}

func (t *NumberType) Name() string {
	if t.Integer {
		return "integer"
	}
	return "number"
}

func (t *NumberType) Coerce(value any) (any, error) {
	f, err := ToFloat(value)
	if err != nil {
		return nil, errors.New("must be a number")
	}
	if t.Integer && f != math.Trunc(f) {
		return nil, errors.New("must be a whole number")
	}
	if t.Min != nil && f < *t.Min {
		return nil, fmt.Errorf("must be %s or more", formatNumber(*t.Min))
	}
	if t.Max != nil && f > *t.Max {
		return nil, fmt.Errorf("must be %s or less", formatNumber(*t.Max))
	}
	if t.Integer {
		return int(f), nil
	}
	return f, nil
}

// BoolType validates yes/no answers. Common textual spellings are accepted.
type BoolType struct{}

func (t *BoolType) Name() string { return "boolean" }

func (t *BoolType) Coerce(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true, nil
		case "false", "no", "off", "0":
			return false, nil
		}
	}
	return nil, errors.New("must be yes or no")
}

// DateType validates calendar dates. Stored dates are midnight UTC.
type DateType struct {
	Min *time.Time
	Max *time.Time
}

func (t *DateType) Name() string { return "date" }

func (t *DateType) Coerce(value any) (any, error) {
	d, ok := ToDate(value)
	if !ok {
		return nil, errors.New("must be a real date")
	}
	if t.Min != nil && d.Before(*t.Min) {
		return nil, fmt.Errorf("must be on or after %s", t.Min.Format(DateLayout))
	}
	if t.Max != nil && d.After(*t.Max) {
		return nil, fmt.Errorf("must be on or before %s", t.Max.Format(DateLayout))
	}
	return d, nil
}

// EnumType accepts only the listed values. Numeric enums compare by value,
// so "2" matches 2.
type EnumType struct {
	Values  []any
	Numeric bool
}

func (t *EnumType) Name() string { return "enum" }

func (t *EnumType) Coerce(value any) (any, error) {
	if t.Numeric {
		f, err := ToFloat(value)
		if err == nil {
			for _, allowed := range t.Values {
				if af, err := ToFloat(allowed); err == nil && af == f {
					return f, nil
				}
			}
		}
	} else {
		s := fmt.Sprint(value)
		for _, allowed := range t.Values {
			if fmt.Sprint(allowed) == s {
				return s, nil
			}
		}
	}
	return nil, errors.New("must be one of the listed options")
}

// CustomType applies a user-defined coercion function.
type CustomType struct {
	name   string
	coerce func(any) (any, error)
}

func (t *CustomType) Name() string { return t.name }

func (t *CustomType) Coerce(value any) (any, error) {
	return t.coerce(value)
}

// --- Factory Functions ---

// String creates a text type with no bounds.
func String() *StringType { return &StringType{} }

// Email creates a text type that only accepts a single email address.
func Email() *StringType { return &StringType{Email: true} }

// Number creates a numeric type with no bounds.
func Number() *NumberType { return &NumberType{} }

// IntRange creates a whole-number type bounded on both sides.
func IntRange(min, max float64) *NumberType {
	return &NumberType{Min: &min, Max: &max, Integer: true}
}

// Bool creates a boolean type.
func Bool() *BoolType { return &BoolType{} }

// Date creates a date type with no bounds.
func Date() *DateType { return &DateType{} }

// Enum creates a type that accepts only the given values.
func Enum(numeric bool, values ...any) *EnumType {
	return &EnumType{Values: values, Numeric: numeric}
}

// Custom creates a type backed by a user-defined coercion function.
func Custom(name string, coerce func(any) (any, error)) Type {
	return &CustomType{name: name, coerce: coerce}
}

// ToFloat converts numeric values and numeric strings to float64.
func ToFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8, int16, int32, int64:
		return float64(reflect.ValueOf(v).Int()), nil
	case uint, uint8, uint16, uint32, uint64:
		return float64(reflect.ValueOf(v).Uint()), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %T", value)
	}
}

// ToDate converts a time.Time or its text form to a date at midnight UTC.
func ToDate(value any) (time.Time, bool) {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		t = *v
	case string:
		s := strings.TrimSpace(v)
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			if parsed, err = time.Parse(DateLayout, s); err != nil {
				return time.Time{}, false
			}
		}
		t = parsed
	default:
		return time.Time{}, false
	}
	if t.IsZero() {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
