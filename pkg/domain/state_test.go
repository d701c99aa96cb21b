package domain_test

import (
	"testing"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMergeState_SectionReplacesWholesale(t *testing.T) {
	state := domain.State{"section": map[string]any{"a": 1}, "top": "kept"}

	merged := domain.MergeState(state, map[string]any{"section": map[string]any{"b": 2}})

	assert.Equal(t, map[string]any{"b": 2}, merged["section"])
	assert.Equal(t, "kept", merged["top"])
	// The input is never mutated
	assert.Equal(t, map[string]any{"a": 1}, state["section"])
}

func TestMergeState_TopLevel(t *testing.T) {
	state := domain.State{"a": 1, "b": 2}

	merged := domain.MergeState(state, map[string]any{"b": 3, "c": 4})

	assert.Equal(t, domain.State{"a": 1, "b": 3, "c": 4}, merged)
}

func TestState_Scope(t *testing.T) {
	state := domain.State{"applicant": map[string]any{"name": "Ada"}, "flat": 1}

	assert.Equal(t, map[string]any{"name": "Ada"}, state.Scope("applicant"))
	assert.Empty(t, state.Scope("missing"))
	assert.Empty(t, state.Scope("flat"))
	assert.Equal(t, 1, state.Scope("")["flat"])
}

func TestState_CloneDoesNotAliasSections(t *testing.T) {
	state := domain.State{"s": map[string]any{"a": 1}}
	clone := state.Clone()

	clone["s"].(map[string]any)["a"] = 2

	assert.Equal(t, 1, state["s"].(map[string]any)["a"])
}
