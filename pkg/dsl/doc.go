/*
Package dsl builds form definitions in Go.

It is an alternative to JSON or YAML files for generated forms and for tests:

	b := dsl.New("Household")
	b.Condition("hasPartner", "hasPartner == true")

	b.Page("/applicant").
		Title("About you").
		Field("TextField", "name", "Full name").
		Field("DatePartsField", "dob", "Date of birth").Optional().
		Go("/has-partner")

	b.Page("/has-partner").
		Field("YesNoField", "hasPartner", "Do you have a partner?").
		Branch("hasPartner", "/partner").
		Go("/check")

	def, err := b.Build()

The first page added is the start page unless Start names another one.
Build checks the definition the same way publishing does.
*/
package dsl
