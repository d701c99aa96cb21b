package component

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/locale"
	"github.com/aretw0/formwork/pkg/schema"
)

// SimpleField maps one form input to one state key.
type SimpleField struct {
	base
	dataType string
	typ      schema.Type
	items    []domain.ListItem
	decorate func(m *FieldModel, formData map[string]any, lang string)
}

func (f *SimpleField) FormSchema() schema.Schema { return f.schemaField(f.typ) }

func (f *SimpleField) StateSchema() schema.Schema { return f.schemaField(f.typ) }

func (f *SimpleField) FormData(state map[string]any) map[string]any {
	return map[string]any{f.def.Name: state[f.def.Name]}
}

func (f *SimpleField) StateValue(form map[string]any) any {
	return form[f.def.Name]
}

func (f *SimpleField) DataType() string { return f.dataType }

func (f *SimpleField) DisplayString(state map[string]any, lang string) string {
	value := state[f.def.Name]
	if value == nil {
		return ""
	}
	if len(f.items) > 0 {
		for _, item := range f.items {
			if fmt.Sprint(item.Value) == fmt.Sprint(value) || sameNumber(item.Value, value) {
				return item.Text.In(lang)
			}
		}
	}
	switch v := value.(type) {
	case bool:
		return yesNoText(v, lang)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return fmt.Sprint(value)
}

func (f *SimpleField) ViewModel(formData map[string]any, errors *ErrorSummary, lang string) ViewModel {
	m := f.fieldModel(formData, errors, lang)
	if f.decorate != nil {
		f.decorate(&m, formData, lang)
	}
	return ViewModel{Type: f.def.Type, IsFormComponent: true, Model: m}
}

func sameNumber(a, b any) bool {
	fa, errA := schema.ToFloat(a)
	fb, errB := schema.ToFloat(b)
	return errA == nil && errB == nil && fa == fb
}

func yesNoText(v bool, lang string) string {
	cy := locale.Match(lang) == "cy"
	switch {
	case v && cy:
		return "Ie"
	case v:
		return "Yes"
	case cy:
		return "Na"
	}
	return "No"
}

func (b *base) stringType() (*schema.StringType, error) {
	t := schema.String()
	if b.bounds.Min != nil {
		t.Min = int(math.Ceil(*b.bounds.Min))
	}
	if b.bounds.Max != nil {
		t.Max = int(*b.bounds.Max)
	}
	if b.bounds.Length != nil {
		t.Length = *b.bounds.Length
	}
	if b.bounds.Regex != "" {
		re, err := regexp.Compile(b.bounds.Regex)
		if err != nil {
			return nil, fmt.Errorf("schema.regex: %w", err)
		}
		t.Pattern = re
	}
	return t, nil
}

func newTextField(def domain.ComponentDef, _ Env) (Component, error) {
	b, err := newBase(def)
	if err != nil {
		return nil, err
	}
	t, err := b.stringType()
	if err != nil {
		return nil, err
	}
	return &SimpleField{base: b, dataType: "text", typ: t}, nil
}

func newMultilineTextField(def domain.ComponentDef, _ Env) (Component, error) {
	b, err := newBase(def)
	if err != nil {
		return nil, err
	}
	t, err := b.stringType()
	if err != nil {
		return nil, err
	}
	rows := b.options.Rows
	if rows == 0 {
		rows = 5
	}
	return &SimpleField{base: b, dataType: "text", typ: t, decorate: func(m *FieldModel, _ map[string]any, _ string) {
		m.Rows = rows
	}}, nil
}

func newNumberField(def domain.ComponentDef, _ Env) (Component, error) {
	b, err := newBase(def)
	if err != nil {
		return nil, err
	}
	t := &schema.NumberType{Min: b.bounds.Min, Max: b.bounds.Max, Integer: b.bounds.Integer}
	integer := b.bounds.Integer
	return &SimpleField{base: b, dataType: "number", typ: t, decorate: func(m *FieldModel, _ map[string]any, _ string) {
		m.Type = "number"
		if integer {
			m.Attributes = map[string]any{"inputmode": "numeric"}
		}
	}}, nil
}

func newEmailAddressField(def domain.ComponentDef, _ Env) (Component, error) {
	b, err := newBase(def)
	if err != nil {
		return nil, err
	}
	return &SimpleField{base: b, dataType: "text", typ: schema.Email(), decorate: func(m *FieldModel, _ map[string]any, _ string) {
		m.Type = "email"
		m.Attributes = map[string]any{"autocomplete": "email", "spellcheck": false}
	}}, nil
}

// TelephonePattern is the input pattern offered to browsers for phone numbers.
const TelephonePattern = `[0-9\s\+\(\)]*`

func newTelephoneNumberField(def domain.ComponentDef, _ Env) (Component, error) {
	b, err := newBase(def)
	if err != nil {
		return nil, err
	}
	if b.options.Classes == "" {
		b.options.Classes = "govuk-input--width-10"
	}
	t, err := b.stringType()
	if err != nil {
		return nil, err
	}
	maxLength := b.bounds.Max
	return &SimpleField{base: b, dataType: "text", typ: t, decorate: func(m *FieldModel, _ map[string]any, _ string) {
		if maxLength != nil {
			m.Attributes = map[string]any{"maxlength": *maxLength}
		}
		m.Type = "tel"
		m.Pattern = TelephonePattern
	}}, nil
}

func newFileUploadField(def domain.ComponentDef, _ Env) (Component, error) {
	b, err := newBase(def)
	if err != nil {
		return nil, err
	}
	return &SimpleField{base: b, dataType: "file", typ: schema.String(), decorate: func(m *FieldModel, _ map[string]any, _ string) {
		m.Type = "file"
	}}, nil
}

func newYesNoField(def domain.ComponentDef, _ Env) (Component, error) {
	b, err := newBase(def)
	if err != nil {
		return nil, err
	}
	if b.options.Classes == "" {
		b.options.Classes = "govuk-radios--inline"
	}
	return &SimpleField{base: b, dataType: "boolean", typ: schema.Bool(), decorate: func(m *FieldModel, formData map[string]any, lang string) {
		m.Fieldset = &Fieldset{Legend: *m.Label}
		selected, set := toBool(formData[def.Name])
		m.Items = []Item{
			{Text: yesNoText(true, lang), Value: true, Checked: set && selected},
			{Text: yesNoText(false, lang), Value: false, Checked: set && !selected},
		}
	}}, nil
}

func toBool(v any) (bool, bool) {
	if v == nil {
		return false, false
	}
	b, err := schema.Bool().Coerce(v)
	if err != nil {
		return false, false
	}
	return b.(bool), true
}

// listField builds a field whose value must be one of a list's item values.
func listField(def domain.ComponentDef, env Env, dataType string, decorate func(*SimpleField) func(*FieldModel, map[string]any, string)) (Component, error) {
	b, err := newBase(def)
	if err != nil {
		return nil, err
	}
	list, ok := env.Lists[b.options.List]
	if !ok {
		return nil, fmt.Errorf("options.list %q: %w", b.options.List, ErrUnknownList)
	}
	values := make([]any, len(list.Items))
	for i, item := range list.Items {
		values[i] = item.Value
	}
	f := &SimpleField{
		base:     b,
		dataType: dataType,
		typ:      schema.Enum(list.Type == domain.ListTypeNumber, values...),
		items:    list.Items,
	}
	f.decorate = decorate(f)
	return f, nil
}

func (f *SimpleField) listItems(formData map[string]any, lang string, selectMode bool) []Item {
	current := formData[f.def.Name]
	items := make([]Item, len(f.items))
	for i, li := range f.items {
		match := current != nil && (fmt.Sprint(li.Value) == fmt.Sprint(current) || sameNumber(li.Value, current))
		item := Item{Text: li.Text.In(lang), Value: li.Value}
		if selectMode {
			item.Selected = match
		} else {
			item.Checked = match
		}
		if desc := li.Description.In(lang); desc != "" {
			item.Hint = &Message{HTML: SanitizeHTML(desc)}
		}
		items[i] = item
	}
	return items
}

func newRadiosField(def domain.ComponentDef, env Env) (Component, error) {
	return listField(def, env, "list", func(f *SimpleField) func(*FieldModel, map[string]any, string) {
		return func(m *FieldModel, formData map[string]any, lang string) {
			m.Fieldset = &Fieldset{Legend: *m.Label}
			m.Items = f.listItems(formData, lang, false)
		}
	})
}

func newSelectField(def domain.ComponentDef, env Env) (Component, error) {
	return listField(def, env, "list", func(f *SimpleField) func(*FieldModel, map[string]any, string) {
		return func(m *FieldModel, formData map[string]any, lang string) {
			m.Items = append([]Item{{Text: "", Value: ""}}, f.listItems(formData, lang, true)...)
		}
	})
}
