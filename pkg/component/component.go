package component

import (
	"fmt"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

// OptionalSuffix is appended to the label of an optional field.
const OptionalSuffix = " (optional)"

// Component is anything placed on a page.
type Component interface {
	Type() string
	Name() string
	ViewModel(formData map[string]any, errors *ErrorSummary, lang string) ViewModel
}

// Field is a component that collects one answer. Its state contribution is
// always exactly one key; its form contribution may be several.
type Field interface {
	Component
	// FormSchema validates the raw submitted inputs of the field.
	FormSchema() schema.Schema
	// StateSchema validates the stored value of the field.
	StateSchema() schema.Schema
	// FormData converts the stored answer into form input values.
	FormData(state map[string]any) map[string]any
	// StateValue reshapes already valid form input into the stored value.
	StateValue(form map[string]any) any
	// DisplayString renders the stored answer for a summary.
	DisplayString(state map[string]any, lang string) string
	// DataType tells a renderer how to treat the answer (text, number, date, file...).
	DataType() string
	Title(lang string) string
	Required() bool
}

// Options are the presentation and requiredness settings of a component.
type Options struct {
	Required     *bool  `mapstructure:"required"`
	OptionalText *bool  `mapstructure:"optionalText"`
	Classes      string `mapstructure:"classes"`
	List         string `mapstructure:"list"`
	Rows         int    `mapstructure:"rows"`
}

// IsRequired defaults to true.
func (o Options) IsRequired() bool { return o.Required == nil || *o.Required }

// ShowOptionalText defaults to true.
func (o Options) ShowOptionalText() bool { return o.OptionalText == nil || *o.OptionalText }

// Bounds are the validation settings of a component.
type Bounds struct {
	Min     *float64 `mapstructure:"min"`
	Max     *float64 `mapstructure:"max"`
	Length  *int     `mapstructure:"length"`
	Regex   string   `mapstructure:"regex"`
	Integer bool     `mapstructure:"integer"`
}

func decode(input map[string]any, out any) error {
	if len(input) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// base holds what every component shares.
type base struct {
	def     domain.ComponentDef
	options Options
	bounds  Bounds
}

func newBase(def domain.ComponentDef) (base, error) {
	b := base{def: def}
	if err := decode(def.Options, &b.options); err != nil {
		return b, fmt.Errorf("options: %w", err)
	}
	if err := decode(def.Schema, &b.bounds); err != nil {
		return b, fmt.Errorf("schema: %w", err)
	}
	return b, nil
}

func (b *base) Type() string { return b.def.Type }

func (b *base) Name() string { return b.def.Name }

func (b *base) Title(lang string) string { return b.def.Title.In(lang) }

func (b *base) Required() bool { return b.options.IsRequired() }

// label returns the field label with the optional suffix when it applies.
func (b *base) label(lang string) string {
	text := b.def.Title.In(lang)
	if !b.options.IsRequired() && b.options.ShowOptionalText() {
		text += OptionalSuffix
	}
	return text
}

// fieldModel builds the display record shared by every form field.
func (b *base) fieldModel(formData map[string]any, errors *ErrorSummary, lang string) FieldModel {
	name := b.def.Name
	m := FieldModel{
		ID:      name,
		Name:    name,
		Label:   &Label{Text: b.label(lang), Classes: "govuk-label--s"},
		Value:   formData[name],
		Classes: b.options.Classes,
	}
	if hint := b.def.Hint.In(lang); hint != "" {
		m.Hint = &Message{HTML: SanitizeHTML(hint)}
	}
	if e := errors.For(name); e != nil {
		m.ErrorMessage = &Message{Text: e.Text}
	}
	return m
}

// schemaField is the single schema entry of a simple field.
func (b *base) schemaField(t schema.Type) schema.Schema {
	return schema.Schema{{
		Key:      b.def.Name,
		Label:    b.def.Title.In(domain.DefaultLanguage),
		Type:     t,
		Optional: !b.options.IsRequired(),
	}}
}
