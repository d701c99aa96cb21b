// Package condition compiles the named predicates of a form definition.
//
// A condition's source is a small boolean expression over the answers
// collected so far:
//
//	applicant.age >= 18 and (hasPassport == true or hasLicence)
//	not isUkResident
//	dob < "2000-01-01"
//
// Supported: or/||, and/&&, not/!, ==, !=, <, <=, >, >=, parentheses,
// string, number, boolean and null literals, and dot-path identifiers.
// An identifier that names another condition evaluates that condition;
// cycles are rejected at compile time. Dates compare chronologically.
//
// The parser is dependency-free. A compiled Registry is immutable and shared
// by every request of a form.
package condition
