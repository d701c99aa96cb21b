package component

import (
	"errors"
	"fmt"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/schema"
)

// Collection is an ordered set of components treated as one schema and
// transform unit. Pages and composite fields both use it.
type Collection struct {
	items  []Component
	fields []Field
}

func newCollection(items []Component) *Collection {
	c := &Collection{items: items}
	for _, item := range items {
		if f, ok := item.(Field); ok {
			c.fields = append(c.fields, f)
		}
	}
	return c
}

// NewCollection builds the components of defs with the given registry.
// Every problem is reported: unknown types, bad options, missing or
// duplicate field names and clashing form keys.
func NewCollection(defs []domain.ComponentDef, reg *Registry, env Env) (*Collection, error) {
	var errs []error
	items := make([]Component, 0, len(defs))

	for i, def := range defs {
		c, err := reg.Build(def, env)
		if err != nil {
			errs = append(errs, fmt.Errorf("component %d (%s): %w", i, describe(def), err))
			continue
		}
		if _, ok := c.(Field); ok && def.Name == "" {
			errs = append(errs, fmt.Errorf("component %d (%s): %w", i, def.Type, ErrMissingName))
			continue
		}
		items = append(items, c)
	}

	c := newCollection(items)
	reported := make(map[string]bool)
	for _, keys := range [][]string{c.StateSchemaKeys(), c.FormSchemaKeys()} {
		seen := make(map[string]bool, len(keys))
		for _, key := range keys {
			if seen[key] && !reported[key] {
				errs = append(errs, fmt.Errorf("field %q: %w", key, ErrDuplicateName))
				reported[key] = true
			}
			seen[key] = true
		}
	}
	return c, errors.Join(errs...)
}

func describe(def domain.ComponentDef) string {
	if def.Name == "" {
		return def.Type
	}
	return def.Type + " " + def.Name
}

// Items returns every component in declaration order.
func (c *Collection) Items() []Component { return c.items }

// Fields returns the form fields in declaration order.
func (c *Collection) Fields() []Field { return c.fields }

// FormSchema concatenates the form schemas of the fields in order.
func (c *Collection) FormSchema() schema.Schema {
	var s schema.Schema
	for _, f := range c.fields {
		s = append(s, f.FormSchema()...)
	}
	return s
}

// StateSchema concatenates the state schemas of the fields in order.
func (c *Collection) StateSchema() schema.Schema {
	var s schema.Schema
	for _, f := range c.fields {
		s = append(s, f.StateSchema()...)
	}
	return s
}

// FormSchemaKeys lists the form input keys, one per part for composite fields.
func (c *Collection) FormSchemaKeys() []string { return c.FormSchema().Keys() }

// StateSchemaKeys lists the stored keys, exactly one per field.
func (c *Collection) StateSchemaKeys() []string { return c.StateSchema().Keys() }

// FormDataFromState converts stored answers into form input values.
func (c *Collection) FormDataFromState(state map[string]any) map[string]any {
	out := make(map[string]any)
	for _, f := range c.fields {
		for k, v := range f.FormData(state) {
			out[k] = v
		}
	}
	return out
}

// StateFromValidForm reshapes valid form input into stored answers. It does
// not validate.
func (c *Collection) StateFromValidForm(form map[string]any) map[string]any {
	out := make(map[string]any, len(c.fields))
	for _, f := range c.fields {
		out[f.Name()] = f.StateValue(form)
	}
	return out
}

// ViewModel returns one display record per component in declaration order.
func (c *Collection) ViewModel(formData map[string]any, errors *ErrorSummary, lang string) []ViewModel {
	out := make([]ViewModel, len(c.items))
	for i, item := range c.items {
		out[i] = item.ViewModel(formData, errors, lang)
	}
	return out
}
