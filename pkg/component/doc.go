// Package component implements the fields and content blocks of a form page.
//
// A Field contributes keys to two schemas: the form schema, which validates
// raw submitted inputs, and the state schema, which validates the stored
// answer. A simple field uses the same key for both. A composite field such
// as DatePartsField contributes one form key per part ("dob__day",
// "dob__month", "dob__year") and a single state key ("dob"), and converts
// between the two shapes with Decompose and Recompose.
//
// Component types are resolved through a Registry of factories, so an
// unknown type is reported when the definition is loaded.
package component
