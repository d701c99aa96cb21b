// Package model compiles a form definition into an immutable graph of pages.
//
// New validates the whole definition up front and reports every problem in
// one *domain.DefinitionError: duplicate paths or names, edges to missing
// pages, undefined conditions, unknown component types and so on. A built
// Model is read-only and shared across requests.
//
// Each Page owns two schemas. The form schema validates raw submitted input
// and the state schema validates the stored answers; they differ for
// composite fields. The request flow around a page is:
//
//	form, errs := page.ValidateForm(payload)
//	value := page.StateFromValidForm(form)
//	value, errs = page.ValidateState(value)
//	update := page.PartialMergeState(value)
//	state = domain.MergeState(state, update)
//	next, err := page.Next(state)
package model
