package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/formwork/internal/presentation/graph"
	"github.com/aretw0/formwork/internal/testutils"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func household(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.New(testutils.HouseholdDefinition(t))
	require.NoError(t, err)
	return m
}

func TestGenerateMermaid(t *testing.T) {
	got := graph.GenerateMermaid(household(t), nil)

	for _, want := range []string{
		"graph TD\n",
		`applicant(("/applicant <br/> About you"))`,
		`has_partner[/"/has-partner <br/> Partner"/]`,
		`check["/check <br/> Check your answers"]`,
		"applicant --> has_partner",
		`has_partner -- "hasPartner" --> partner`,
		"has_partner --> check",
		"check --> summary",
		`summary(["/summary"])`,
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "conditional")
	assert.NotContains(t, got, "Overlay")
}

func TestGenerateMermaid_ConditionalPages(t *testing.T) {
	m, err := model.New(domain.FormDefinition{
		StartPage:  "/start",
		Conditions: []domain.ConditionDef{{Name: "adult", Value: `age >= 18 and country == "wales"`}},
		Pages: []domain.PageDef{
			{Path: "/start", Next: []domain.NextDef{{Path: "/adult.info"}, {Path: "/finish", If: "adult"}}},
			{Path: "/adult.info", Condition: "adult", Next: []domain.NextDef{{Path: "/finish"}}},
			{Path: "/finish", Next: []domain.NextDef{{Path: "/start"}}},
		},
	})
	require.NoError(t, err)

	got := graph.GenerateMermaid(m, nil)
	assert.Contains(t, got, `start -- "adult" --> adult_info`, "the target condition labels an edge without if")
	assert.Contains(t, got, `start -- "adult" --> finish`)
	assert.Contains(t, got, "class adult_info conditional;")
	assert.NotContains(t, got, "summary")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	m := household(t)
	route := graph.Route(m, map[string]any{"hasPartner": true})
	assert.Equal(t, []string{"/applicant", "/has-partner", "/partner", "/check"}, route)

	got := graph.GenerateMermaid(m, &graph.GraphOverlay{VisitedPages: route[:3], CurrentPage: "/check"})
	assert.Contains(t, got, "class applicant visited;")
	assert.Contains(t, got, "class partner visited;")
	assert.Contains(t, got, "class check current;")
	assert.Equal(t, 1, strings.Count(got, "class applicant visited;"))
}
