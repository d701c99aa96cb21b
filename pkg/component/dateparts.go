package component

import (
	"strings"
	"time"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/locale"
	"github.com/aretw0/formwork/pkg/schema"
)

const (
	PartDay   = "day"
	PartMonth = "month"
	PartYear  = "year"
)

// DatePartsField collects a date through separate day, month and year inputs
// and stores a single date value.
type DatePartsField struct {
	base
	parts *Collection
	state schema.Type
}

func newDatePartsField(def domain.ComponentDef, env Env) (Component, error) {
	b, err := newBase(def)
	if err != nil {
		return nil, err
	}

	partOptions := func(classes string) map[string]any {
		return map[string]any{
			"required":     b.options.IsRequired(),
			"optionalText": b.options.ShowOptionalText(),
			"classes":      classes,
		}
	}
	partDef := func(part string, title domain.LocalisedString, lo, hi float64, classes string) domain.ComponentDef {
		return domain.ComponentDef{
			Type:    "NumberField",
			Name:    def.Name + domain.PartSeparator + part,
			Title:   title,
			Schema:  map[string]any{"min": lo, "max": hi, "integer": true},
			Options: partOptions(classes),
		}
	}

	children := make([]Component, 0, 3)
	for _, pd := range []domain.ComponentDef{
		partDef(PartDay, domain.LocalisedString{Text: "Day", Translations: map[string]string{"en": "Day", "cy": "Diwrnod"}}, 1, 31, "govuk-input--width-2"),
		partDef(PartMonth, domain.LocalisedString{Text: "Month", Translations: map[string]string{"en": "Month", "cy": "Mis"}}, 1, 12, "govuk-input--width-2"),
		partDef(PartYear, domain.LocalisedString{Text: "Year", Translations: map[string]string{"en": "Year", "cy": "Blwyddyn"}}, 1000, 3000, "govuk-input--width-4"),
	} {
		c, err := newNumberField(pd, env)
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}

	return &DatePartsField{base: b, parts: newCollection(children), state: schema.Date()}, nil
}

func (f *DatePartsField) partKey(part string) string {
	return f.def.Name + domain.PartSeparator + part
}

// Parts returns the form keys of the day, month and year inputs.
func (f *DatePartsField) Parts() []string {
	return f.parts.FormSchemaKeys()
}

func (f *DatePartsField) FormSchema() schema.Schema { return f.parts.FormSchema() }

func (f *DatePartsField) StateSchema() schema.Schema { return f.schemaField(f.state) }

func (f *DatePartsField) DataType() string { return "date" }

// Decompose splits a stored date into its part values. Every part is nil when
// the value is absent or not a date.
func (f *DatePartsField) Decompose(value any) map[string]any {
	out := map[string]any{
		f.partKey(PartDay):   nil,
		f.partKey(PartMonth): nil,
		f.partKey(PartYear):  nil,
	}
	if d, ok := schema.ToDate(value); ok {
		out[f.partKey(PartDay)] = d.Day()
		out[f.partKey(PartMonth)] = int(d.Month())
		out[f.partKey(PartYear)] = d.Year()
	}
	return out
}

// Recompose builds the stored date from the part values. It returns nil when
// the year is absent and schema.Invalid when the parts do not form a real
// calendar date (31 April is rejected, not rolled over to 1 May).
func (f *DatePartsField) Recompose(form map[string]any) any {
	year := form[f.partKey(PartYear)]
	if isBlank(year) {
		return nil
	}
	invalid := schema.Invalid{Reason: "must be a real date"}

	y, errY := schema.ToFloat(year)
	m, errM := schema.ToFloat(form[f.partKey(PartMonth)])
	d, errD := schema.ToFloat(form[f.partKey(PartDay)])
	if errY != nil || errM != nil || errD != nil {
		return invalid
	}
	if m < 1 || m > 12 || d < 1 || d != float64(int(d)) || m != float64(int(m)) || y != float64(int(y)) {
		return invalid
	}

	date := time.Date(int(y), time.Month(m), int(d), 0, 0, 0, 0, time.UTC)
	if date.Year() != int(y) || date.Month() != time.Month(m) || date.Day() != int(d) {
		return invalid
	}
	return date
}

func (f *DatePartsField) FormData(state map[string]any) map[string]any {
	return f.Decompose(state[f.def.Name])
}

func (f *DatePartsField) StateValue(form map[string]any) any {
	return f.Recompose(form)
}

func (f *DatePartsField) DisplayString(state map[string]any, lang string) string {
	d, ok := schema.ToDate(state[f.def.Name])
	if !ok {
		return ""
	}
	return locale.FormatDate(d, lang)
}

// ViewModel renders the field as a fieldset of part inputs. Part labels lose
// the optional suffix and parts with errors get the error class.
func (f *DatePartsField) ViewModel(formData map[string]any, errors *ErrorSummary, lang string) ViewModel {
	m := f.fieldModel(formData, errors, lang)
	m.Name = ""
	m.Value = nil
	m.Fieldset = &Fieldset{Legend: *m.Label}

	for _, vm := range f.parts.ViewModel(formData, errors, lang) {
		part := vm.Model
		item := Item{
			ID:           part.ID,
			Name:         part.Name,
			Label:        strings.Replace(part.Label.Text, OptionalSuffix, "", 1),
			Value:        part.Value,
			Classes:      part.Classes,
			Type:         part.Type,
			Hint:         part.Hint,
			ErrorMessage: part.ErrorMessage,
			Attributes:   part.Attributes,
		}
		if part.ErrorMessage != nil {
			item.Classes += " govuk-input--error"
		}
		m.Items = append(m.Items, item)
	}

	return ViewModel{Type: f.def.Type, IsFormComponent: true, Model: m}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
