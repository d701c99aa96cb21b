package component_test

import (
	"testing"

	"github.com/aretw0/formwork/pkg/component"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, def domain.ComponentDef) component.Component {
	t.Helper()
	c, err := component.DefaultRegistry().Build(def, testEnv())
	require.NoError(t, err)
	return c
}

func TestTelephoneNumberField_ViewModel(t *testing.T) {
	c := build(t, domain.ComponentDef{
		Type:   "TelephoneNumberField",
		Name:   "phone",
		Title:  domain.Localised("Phone"),
		Hint:   domain.Localised("Include the <b>area code</b><script>alert(1)</script>"),
		Schema: map[string]any{"max": 20},
	})

	vm := c.ViewModel(map[string]any{"phone": "01234"}, nil, "en")

	want := component.FieldModel{
		ID:         "phone",
		Name:       "phone",
		Label:      &component.Label{Text: "Phone", Classes: "govuk-label--s"},
		Hint:       &component.Message{HTML: "Include the <b>area code</b>"},
		Value:      "01234",
		Classes:    "govuk-input--width-10",
		Type:       "tel",
		Pattern:    component.TelephonePattern,
		Attributes: map[string]any{"maxlength": 20.0},
	}
	if diff := cmp.Diff(want, vm.Model); diff != "" {
		t.Errorf("view model mismatch (-want +got):\n%s", diff)
	}
}

func TestRadiosField(t *testing.T) {
	c := build(t, domain.ComponentDef{
		Type:    "RadiosField",
		Name:    "colour",
		Title:   domain.Localised("Colour"),
		Options: map[string]any{"list": "colours"},
	})
	f := c.(component.Field)

	vm := c.ViewModel(map[string]any{"colour": "green"}, nil, "en")
	require.Len(t, vm.Model.Items, 2)
	assert.False(t, vm.Model.Items[0].Checked)
	assert.True(t, vm.Model.Items[1].Checked)
	assert.Equal(t, "Like grass", vm.Model.Items[1].Hint.HTML)
	assert.Equal(t, "Colour", vm.Model.Fieldset.Legend.Text)

	_, err := schema.Validate(f.FormSchema(), map[string]any{"colour": "blue"})
	assert.Error(t, err)

	assert.Equal(t, "Green", f.DisplayString(map[string]any{"colour": "green"}, "en"))
}

func TestSelectField_NumericList(t *testing.T) {
	f := build(t, domain.ComponentDef{
		Type:    "SelectField",
		Name:    "kids",
		Title:   domain.Localised("Children"),
		Options: map[string]any{"list": "children"},
	}).(component.Field)

	value, err := schema.Validate(f.StateSchema(), map[string]any{"kids": "1"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, value["kids"])
	assert.Equal(t, "One", f.DisplayString(value, "en"))

	vm := f.ViewModel(map[string]any{"kids": 1.0}, nil, "en")
	require.Len(t, vm.Model.Items, 4)
	assert.True(t, vm.Model.Items[2].Selected)
}

func TestYesNoField(t *testing.T) {
	f := build(t, domain.ComponentDef{Type: "YesNoField", Name: "ok", Title: domain.Localised("OK?")}).(component.Field)

	value, err := schema.Validate(f.FormSchema(), map[string]any{"ok": "false"})
	require.NoError(t, err)
	assert.Equal(t, false, value["ok"])
	assert.Equal(t, "No", f.DisplayString(value, "en"))
	assert.Equal(t, "Na", f.DisplayString(value, "cy"))

	vm := f.ViewModel(value, nil, "cy")
	assert.Equal(t, "Ie", vm.Model.Items[0].Text)
	assert.True(t, vm.Model.Items[1].Checked)
}

func TestTextField_Bounds(t *testing.T) {
	f := build(t, domain.ComponentDef{
		Type:   "TextField",
		Name:   "ref",
		Title:  domain.Localised("Reference"),
		Schema: map[string]any{"length": 6, "regex": "^[A-Z0-9]+$"},
	}).(component.Field)

	_, err := schema.Validate(f.FormSchema(), map[string]any{"ref": "AB12CD"})
	assert.NoError(t, err)

	_, err = schema.Validate(f.FormSchema(), map[string]any{"ref": "ab12cd"})
	require.Error(t, err)
	assert.Equal(t, "Reference is in the wrong format", schema.FieldErrors(err)[0].Message())
}

func TestOptionalTextCanBeHidden(t *testing.T) {
	c := build(t, domain.ComponentDef{
		Type:    "EmailAddressField",
		Name:    "email",
		Title:   domain.Localised("Email"),
		Options: map[string]any{"required": false, "optionalText": false},
	})

	assert.Equal(t, "Email", c.ViewModel(nil, nil, "en").Model.Label.Text)
}

func TestFlashcard(t *testing.T) {
	c := build(t, domain.ComponentDef{Type: "Flashcard", Options: map[string]any{"list": "colours"}})

	vm := c.ViewModel(nil, nil, "en")

	assert.Equal(t, []component.Card{{Title: "Red", Text: ""}, {Title: "Green", Text: "Like grass"}}, vm.Model.Content)
}
