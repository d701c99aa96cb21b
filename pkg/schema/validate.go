package schema

import "strings"

// Field describes one key of a schema.
type Field struct {
	Key      string
	Label    string
	Type     Type
	Optional bool
}

// Schema is an ordered list of fields. Order decides the order of reported
// errors.
type Schema []Field

// Keys returns the field keys in declaration order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Key
	}
	return keys
}

// Field returns the field with the given key.
func (s Schema) Field(key string) (Field, bool) {
	for _, f := range s {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Option configures a validation run.
type Option func(*options)

type options struct {
	abortEarly bool
}

// AbortEarly stops at the first failing field.
func AbortEarly() Option {
	return func(o *options) { o.abortEarly = true }
}

// Validate checks data against the schema and returns the coerced value.
// Keys unknown to the schema are dropped. A missing optional key is present
// in the result with a nil value. Every failure is collected into an
// *AggregateError unless AbortEarly is given.
func Validate(schema Schema, data map[string]any, opts ...Option) (map[string]any, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	out := make(map[string]any, len(schema))
	var errs []error

	for _, field := range schema {
		value := data[field.Key]

		if inv, ok := value.(Invalid); ok {
			errs = append(errs, field.fail(inv.Reason, value))
		} else if isMissing(value) {
			if field.Optional {
				out[field.Key] = nil
				continue
			}
			errs = append(errs, field.fail("is required", nil))
		} else if coerced, err := field.Type.Coerce(value); err != nil {
			errs = append(errs, field.fail(err.Error(), value))
		} else {
			out[field.Key] = coerced
			continue
		}

		if o.abortEarly {
			break
		}
	}

	if len(errs) > 0 {
		return out, &AggregateError{Errors: errs}
	}
	return out, nil
}

func (f Field) fail(reason string, value any) *ValidationError {
	return &ValidationError{Key: f.Key, Label: f.Label, Reason: reason, Value: value}
}

func isMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	}
	return false
}
