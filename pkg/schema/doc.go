// Package schema validates flat maps of answers and normalises their values.
//
// A Schema is an ordered list of fields. Each field has a Type that both
// checks a raw value and coerces it to its canonical form: numeric strings
// become numbers, "yes" becomes true, "2024-02-29" becomes a time.Time.
//
//	s := schema.Schema{
//	    {Key: "name", Label: "Full name", Type: schema.String()},
//	    {Key: "age", Label: "Age", Type: schema.IntRange(0, 150), Optional: true},
//	}
//
//	value, err := schema.Validate(s, map[string]any{"name": "Ada", "age": "36"})
//	// value == {"name": "Ada", "age": 36}
//
// Validation never stops at the first failure unless AbortEarly is given.
// All failures are returned as an *AggregateError whose entries are
// *ValidationError values keyed by the field key, so a part of a composite
// answer (e.g. "dob__month") reports under its own key.
//
// The package has no dependencies beyond the Go standard library.
package schema
