package domain

const (
	// DefaultNextPath is where navigation ends when a page declares no edges.
	DefaultNextPath = "/summary"

	// PartSeparator joins a composite field name with one of its part names
	// (e.g. "dob__day"). Error entries use the same compound name.
	PartSeparator = "__"

	// ErrorSummaryTitle heads the list of field errors shown on a page.
	ErrorSummaryTitle = "Fix the following errors"

	// DefaultLanguage is used when a localised string has no entry for the
	// requested language.
	DefaultLanguage = "en"

	// KeyLanguage is the form data key carrying the language to render with.
	KeyLanguage = "lang"
)

// Output types accepted in a definition.
const (
	OutputConfirmationEmail = "confirmationEmail"
	OutputEmail             = "email"
	OutputWebhook           = "webhook"
)

// List item value types.
const (
	ListTypeString = "string"
	ListTypeNumber = "number"
)
