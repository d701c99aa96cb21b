package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const householdJSON = `{
  "name": {"en": "Household", "cy": "Aelwyd"},
  "startPage": "/applicant",
  "sections": [
    {"name": "partner", "title": "Your partner"}
  ],
  "conditions": [
    {"name": "hasPartner", "value": "hasPartner == true"},
    {"name": "isAdult", "value": "age >= 18"},
    {"name": "wantsExtras", "value": "extras"}
  ],
  "lists": [
    {"name": "extras", "title": "Extras", "type": "number", "items": [
      {"text": "None", "value": 0},
      {"text": "Some", "value": 1}
    ]}
  ],
  "fees": [
    {"description": "Partner fee", "amount": 25, "condition": "hasPartner"},
    {"description": "Adult fee", "amount": 10, "condition": "isAdult"}
  ],
  "pages": [
    {
      "path": "/applicant",
      "title": "About you",
      "components": [
        {"type": "TextField", "name": "name", "title": "Full name"},
        {"type": "NumberField", "name": "age", "title": "Age", "schema": {"min": 0, "integer": true}},
        {"type": "DatePartsField", "name": "dob", "title": "Date of birth", "options": {"required": false}}
      ],
      "next": [{"path": "/has-partner"}]
    },
    {
      "path": "/has-partner",
      "title": "Partner",
      "components": [
        {"type": "YesNoField", "name": "hasPartner", "title": "Do you have a partner?"}
      ],
      "next": [
        {"path": "/partner", "if": "hasPartner"},
        {"path": "/extras"}
      ]
    },
    {
      "path": "/partner",
      "title": "Partner details",
      "section": "partner",
      "components": [
        {"type": "TextField", "name": "partnerName", "title": "Partner's name"},
        {"type": "Para", "content": "We will not contact them."}
      ],
      "next": [{"path": "/extras"}]
    },
    {
      "path": "/extras",
      "title": "Extras",
      "components": [
        {"type": "RadiosField", "name": "extras", "title": "Extras", "options": {"list": "extras"}}
      ],
      "next": [
        {"path": "/extras-info", "if": "wantsExtras"},
        {"path": "/check"}
      ]
    },
    {
      "path": "/extras-info",
      "title": "About extras",
      "components": [{"type": "Para", "content": "Extras cost more."}],
      "next": [{"path": "/check"}]
    },
    {
      "path": "/check",
      "title": "Check",
      "components": [{"type": "Html", "content": "<p>Nearly done</p>"}]
    }
  ],
  "outputs": [
    {"name": "hook", "type": "webhook", "outputConfiguration": {"url": "https://example.com/hook"}}
  ]
}`

func household(t *testing.T) *model.Model {
	t.Helper()
	var def domain.FormDefinition
	require.NoError(t, json.Unmarshal([]byte(householdJSON), &def))
	m, err := model.New(def)
	require.NoError(t, err)
	return m
}

func page(t *testing.T, m *model.Model, path string) *model.Page {
	t.Helper()
	p, ok := m.Page(path)
	require.True(t, ok, "page %s", path)
	return p
}

func TestNew_BuildsPagesAndSchemas(t *testing.T) {
	m := household(t)

	assert.Len(t, m.Pages(), 6)
	assert.Equal(t, "/applicant", m.StartPage())
	assert.Equal(t, "Aelwyd", m.Name("cy"))
	assert.Equal(t, []string{"hasPartner", "isAdult", "wantsExtras"}, m.Conditions().Names())

	applicant := page(t, m, "applicant/")
	assert.Equal(t, []string{"name", "age", "dob__day", "dob__month", "dob__year"}, applicant.FormSchema().Keys())
	assert.Equal(t, []string{"name", "age", "dob"}, applicant.StateSchema().Keys())

	require.Len(t, m.Outputs(), 1)
	assert.Equal(t, &model.WebhookConfig{URL: "https://example.com/hook"}, m.Outputs()[0].Config)
}

func TestNew_ReportsEveryDefinitionProblem(t *testing.T) {
	def := domain.FormDefinition{
		StartPage: "/missing",
		Sections:  []domain.Section{{Name: "s"}, {Name: "s", Title: domain.Localised("S")}},
		Conditions: []domain.ConditionDef{
			{Name: "c", Value: "x =="},
		},
		Lists: []domain.ListDef{{Name: "l", Type: "colour"}},
		Fees:  []domain.FeeDef{{Amount: 1, Condition: "nope"}},
		Pages: []domain.PageDef{
			{Path: "/a", Section: "ghost", Next: []domain.NextDef{{Path: "/b"}, {Path: "/a", If: "undefined"}}},
			{Path: "/a"},
			{Path: "/c", Components: []domain.ComponentDef{{Type: "Marquee", Name: "m"}}},
		},
		Outputs: []domain.OutputDef{{Name: "o", Type: "fax"}},
	}

	_, err := model.New(def)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidDefinition))

	var defErr *domain.DefinitionError
	require.True(t, errors.As(err, &defErr))
	joined := err.Error()
	for _, want := range []string{
		`section "s": title is required`,
		`section "s": duplicate name`,
		`condition "c"`,
		`list "l": type must be`,
		`fees[0]: description is required`,
		`fees[0]: condition "nope" is not defined`,
		`page "/a": section "ghost" is not defined`,
		`page "/a": duplicate path`,
		`page "/c": component 0 (Marquee m): unknown component type "Marquee"`,
		`startPage "/missing": no such page`,
		`page "/a": next path "/b" does not exist`,
		`page "/a": next "/a": condition "undefined" is not defined`,
		`outputs[0] "o": unknown output type "fax"`,
	} {
		assert.Contains(t, joined, want)
	}
	assert.Len(t, defErr.Problems, 13)
}

func TestNew_ExternalStartPage(t *testing.T) {
	_, err := model.New(domain.FormDefinition{
		StartPage: "https://example.com/start",
		Pages:     []domain.PageDef{{Path: "/only"}},
	})
	assert.NoError(t, err)
}

func TestNew_RejectsBadOutputConfiguration(t *testing.T) {
	_, err := model.New(domain.FormDefinition{
		StartPage: "/only",
		Pages:     []domain.PageDef{{Path: "/only"}},
		Outputs: []domain.OutputDef{{
			Name: "mail", Type: domain.OutputEmail,
			OutputConfiguration: map[string]any{"emailAddress": "a@b.c", "cc": "x"},
		}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outputConfiguration")
}

func TestModel_Fees(t *testing.T) {
	m := household(t)

	fees := m.Fees(domain.State{"hasPartner": true, "age": 30})
	assert.Equal(t, []model.Fee{
		{Description: "Partner fee", Amount: 25},
		{Description: "Adult fee", Amount: 10},
	}, fees)
	assert.Empty(t, m.Fees(domain.State{"hasPartner": false, "age": 12}))
}

func TestModel_Summary(t *testing.T) {
	m := household(t)
	state := domain.State{
		"name":       "Ada",
		"age":        36,
		"dob":        time.Date(1815, time.December, 10, 0, 0, 0, 0, time.UTC),
		"hasPartner": true,
		"partner":    map[string]any{"partnerName": "William"},
		"extras":     0.0,
	}

	rows, err := m.Summary(state, "en")
	require.NoError(t, err)

	var got []string
	for _, r := range rows {
		got = append(got, r.Name+"="+r.Value)
	}
	assert.Equal(t, []string{
		"name=Ada",
		"age=36",
		"dob=10 December 1815",
		"hasPartner=Yes",
		"partnerName=William",
		"extras=None",
	}, got)
	assert.Equal(t, "partner", rows[4].Section)
}
