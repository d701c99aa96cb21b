package component

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/formwork/pkg/domain"
)

var (
	// ErrUnknownType is returned for a component type with no registered factory.
	ErrUnknownType = errors.New("unknown component type")
	// ErrUnknownList is returned when options.list names no list of the form.
	ErrUnknownList = errors.New("unknown list")
	// ErrMissingName is returned for a form field without a name.
	ErrMissingName = errors.New("form field has no name")
	// ErrDuplicateName is returned when two fields of a page share a key.
	ErrDuplicateName = errors.New("duplicate field name")
)

// Env is what factories may look up while building a component.
type Env struct {
	Lists map[string]domain.ListDef
}

// NewEnv indexes the lists of a definition.
func NewEnv(def *domain.FormDefinition) Env {
	env := Env{Lists: make(map[string]domain.ListDef, len(def.Lists))}
	for _, l := range def.Lists {
		env.Lists[l.Name] = l
	}
	return env
}

// Factory builds a component from its definition.
type Factory func(def domain.ComponentDef, env Env) (Component, error)

// Registry maps component type tags to factories. Register everything before
// the registry is shared; lookups are not synchronised with registration.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with every built-in component type.
func DefaultRegistry() *Registry {
	return NewRegistry().
		Register("TextField", newTextField).
		Register("MultilineTextField", newMultilineTextField).
		Register("NumberField", newNumberField).
		Register("EmailAddressField", newEmailAddressField).
		Register("TelephoneNumberField", newTelephoneNumberField).
		Register("FileUploadField", newFileUploadField).
		Register("YesNoField", newYesNoField).
		Register("RadiosField", newRadiosField).
		Register("SelectField", newSelectField).
		Register("DatePartsField", newDatePartsField).
		Register("Para", newContent(renderPara)).
		Register("Html", newContent(renderHTML)).
		Register("InsetText", newContent(renderHTML)).
		Register("Details", newContent(renderDetails)).
		Register("Flashcard", newFlashcard)
}

// Register adds or replaces the factory for a type tag.
func (r *Registry) Register(typ string, f Factory) *Registry {
	r.factories[typ] = f
	return r
}

// Has reports whether a factory is registered for typ.
func (r *Registry) Has(typ string) bool {
	_, ok := r.factories[typ]
	return ok
}

// Types returns the registered type tags, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.factories))
	for t := range r.factories {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Build constructs the component described by def.
func (r *Registry) Build(def domain.ComponentDef, env Env) (Component, error) {
	f, ok := r.factories[def.Type]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, def.Type)
	}
	return f(def, env)
}
