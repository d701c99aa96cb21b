package model

import (
	"github.com/aretw0/formwork/pkg/condition"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/schema"
)

// guardOf returns the condition guarding an edge: the edge's own "if", or
// else the target page's condition.
func guardOf(e domain.NextDef, target *Page) string {
	if e.If != "" {
		return e.If
	}
	if target != nil {
		return target.Condition
	}
	return ""
}

// Guard returns the condition guarding the edge e of p, or "" when the edge
// is unconditional.
func (p *Page) Guard(e domain.NextDef) string {
	return guardOf(e, p.model.byPath[normalisePath(e.Path)])
}

// Next resolves the path of the page that follows p for state.
//
// Guarded edges are scanned in declaration order and the first one whose
// target is required wins. A target is required when its guard holds and,
// for a page that collects answers, those answers are not already valid in
// state. When no guarded edge applies the first unguarded edge is used.
func (p *Page) Next(state domain.State) (string, error) {
	return p.follow(state, true)
}

// Route is like Next but takes the first guarded edge whose guard holds,
// even when the target's answers are already in state. It retraces the path
// a user took through the form.
func (p *Page) Route(state domain.State) (string, error) {
	return p.follow(state, false)
}

func (p *Page) follow(state domain.State, skipAnswered bool) (string, error) {
	if len(p.edges) == 0 {
		return p.model.defaultNextPath, nil
	}

	fallback, hasFallback := "", false
	for _, e := range p.edges {
		if guardOf(e, p.model.byPath[normalisePath(e.Path)]) == "" {
			fallback, hasFallback = e.Path, true
			break
		}
	}

	for _, e := range p.edges {
		target := p.model.byPath[normalisePath(e.Path)]
		guard := guardOf(e, target)
		if guard == "" || target == nil {
			continue
		}
		if target.isRequired(guard, state, skipAnswered) {
			return e.Path, nil
		}
	}

	if hasFallback {
		return fallback, nil
	}
	return "", &NavigationError{Page: p.Path}
}

// isRequired reports whether navigation must stop at p under guard.
func (p *Page) isRequired(guard string, state domain.State, skipAnswered bool) bool {
	root := map[string]any(state)
	slice := root
	if p.section != nil {
		slice = state.Scope(p.section.Name)
	}

	if !p.model.conditions.Eval(guard, condition.Snapshot{Scope: slice, Root: root}) {
		return false
	}
	if !p.hasFormFields || !skipAnswered {
		return true
	}
	_, err := schema.Validate(p.stateSchema, slice, schema.AbortEarly())
	return err != nil
}
