package component_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aretw0/formwork/pkg/component"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv() component.Env {
	return component.Env{Lists: map[string]domain.ListDef{
		"colours": {Name: "colours", Type: domain.ListTypeString, Items: []domain.ListItem{
			{Text: domain.Localised("Red"), Value: "red"},
			{Text: domain.Localised("Green"), Value: "green", Description: domain.Localised("Like grass")},
		}},
		"children": {Name: "children", Type: domain.ListTypeNumber, Items: []domain.ListItem{
			{Text: domain.Localised("None"), Value: 0},
			{Text: domain.Localised("One"), Value: 1},
			{Text: domain.Localised("Two or more"), Value: 2},
		}},
	}}
}

func pageCollection(t *testing.T) *component.Collection {
	t.Helper()
	c, err := component.NewCollection([]domain.ComponentDef{
		{Type: "Para", Content: domain.Localised("Tell us about yourself.")},
		{Type: "TextField", Name: "name", Title: domain.Localised("Full name")},
		{Type: "DatePartsField", Name: "dob", Title: domain.Localised("Date of birth")},
		{Type: "RadiosField", Name: "children", Title: domain.Localised("Children"), Options: map[string]any{"list": "children"}},
		{Type: "YesNoField", Name: "married", Title: domain.Localised("Married"), Options: map[string]any{"required": false}},
	}, component.DefaultRegistry(), testEnv())
	require.NoError(t, err)
	return c
}

func TestCollection_SchemaKeys(t *testing.T) {
	c := pageCollection(t)

	assert.Equal(t,
		[]string{"name", "dob__day", "dob__month", "dob__year", "children", "married"},
		c.FormSchemaKeys())
	assert.Equal(t,
		[]string{"name", "dob", "children", "married"},
		c.StateSchemaKeys())
	assert.Len(t, c.Items(), 5)
	assert.Len(t, c.Fields(), 4)
}

func TestCollection_FormToStateAndBack(t *testing.T) {
	c := pageCollection(t)

	form, err := schema.Validate(c.FormSchema(), map[string]any{
		"name":       "Ada",
		"dob__day":   "10",
		"dob__month": "12",
		"dob__year":  "1815",
		"children":   "2",
		"unknown":    "dropped",
	})
	require.NoError(t, err)

	state := c.StateFromValidForm(form)
	assert.Equal(t, map[string]any{
		"name":     "Ada",
		"dob":      time.Date(1815, time.December, 10, 0, 0, 0, 0, time.UTC),
		"children": 2.0,
		"married":  nil,
	}, state)

	valid, err := schema.Validate(c.StateSchema(), state)
	require.NoError(t, err)

	back := c.FormDataFromState(valid)
	assert.Equal(t, 10, back["dob__day"])
	assert.Equal(t, 12, back["dob__month"])
	assert.Equal(t, 1815, back["dob__year"])
	assert.Equal(t, "Ada", back["name"])
	assert.NotContains(t, back, "dob")
}

func TestCollection_ViewModelOrderAndErrors(t *testing.T) {
	c := pageCollection(t)
	_, err := schema.Validate(c.FormSchema(), map[string]any{"children": "7"})
	summary := component.NewErrorSummary(err)
	require.NotNil(t, summary)

	names := make([]string, 0, summary.Len())
	for _, e := range summary.ErrorList {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"name", "dob__day", "dob__month", "dob__year", "children"}, names)

	vms := c.ViewModel(map[string]any{"children": "7"}, summary, "en")
	require.Len(t, vms, 5)
	assert.Equal(t, "Para", vms[0].Type)
	assert.False(t, vms[0].IsFormComponent)
	assert.Equal(t, "Full name is required", vms[1].Model.ErrorMessage.Text)
	assert.Equal(t, "Children must be one of the listed options", vms[3].Model.ErrorMessage.Text)
	assert.Nil(t, vms[4].Model.ErrorMessage)
	assert.Equal(t, "Married (optional)", vms[4].Model.Label.Text)
}

func TestNewCollection_ReportsEveryProblem(t *testing.T) {
	_, err := component.NewCollection([]domain.ComponentDef{
		{Type: "Marquee", Name: "x"},
		{Type: "TextField"},
		{Type: "TextField", Name: "a"},
		{Type: "NumberField", Name: "a"},
		{Type: "SelectField", Name: "s", Options: map[string]any{"list": "missing"}},
		{Type: "TextField", Name: "r", Schema: map[string]any{"regex": "("}},
	}, component.DefaultRegistry(), testEnv())

	require.Error(t, err)
	assert.True(t, errors.Is(err, component.ErrUnknownType))
	assert.True(t, errors.Is(err, component.ErrMissingName))
	assert.True(t, errors.Is(err, component.ErrDuplicateName))
	assert.True(t, errors.Is(err, component.ErrUnknownList))
	assert.Contains(t, err.Error(), "schema.regex")
	assert.Len(t, err.(interface{ Unwrap() []error }).Unwrap(), 5)
}

func TestRegistry_CustomType(t *testing.T) {
	reg := component.DefaultRegistry().Register("Marquee", func(def domain.ComponentDef, env component.Env) (component.Component, error) {
		return component.DefaultRegistry().Build(domain.ComponentDef{Type: "Para", Content: def.Content}, env)
	})

	assert.True(t, reg.Has("Marquee"))
	assert.Contains(t, reg.Types(), "DatePartsField")

	c, err := reg.Build(domain.ComponentDef{Type: "Marquee", Content: domain.Localised("hi")}, component.Env{})
	require.NoError(t, err)
	assert.Equal(t, "hi", c.ViewModel(nil, nil, "en").Model.Content)
}
