package condition_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/formwork/pkg/condition"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, defs ...domain.ConditionDef) *condition.Registry {
	t.Helper()
	r, err := condition.Compile(defs)
	require.NoError(t, err)
	return r
}

func TestCondition_Expressions(t *testing.T) {
	state := map[string]any{
		"age":      21.0,
		"name":     "Ada",
		"married":  true,
		"children": "2",
		"empty":    "",
		"dob":      time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		"applicant": map[string]any{
			"country": "wales",
		},
	}

	tests := []struct {
		source string
		want   bool
	}{
		{`age >= 18`, true},
		{`age < 18`, false},
		{`name == "Ada"`, true},
		{`name == 'Ada'`, true},
		{`name != "Ada"`, false},
		{`married`, true},
		{`!married`, false},
		{`not married or age > 20`, true},
		{`married && age > 30`, false},
		{`married and (age > 30 or name == "Ada")`, true},
		{`children == 2`, true},
		{`empty`, false},
		{`missing == null`, true},
		{`missing > 3`, false},
		{`applicant.country == "wales"`, true},
		{`dob < "2000-01-01"`, true},
		{`dob == "1990-05-01"`, true},
		{`married == "true"`, true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			r := compile(t, domain.ConditionDef{Name: "c", Value: tt.source})
			c, ok := r.Get("c")
			require.True(t, ok)
			assert.Equal(t, tt.want, c.Fn(state))
		})
	}
}

func TestCondition_DatesReloadedFromJSON(t *testing.T) {
	raw, err := json.Marshal(map[string]any{"dob": time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	var state map[string]any
	require.NoError(t, json.Unmarshal(raw, &state))
	require.Equal(t, "2000-01-01T00:00:00Z", state["dob"])

	tests := []struct {
		source string
		want   bool
	}{
		{`dob == "2000-01-01"`, true},
		{`dob != "2000-01-01"`, false},
		{`dob <= "2000-01-01"`, true},
		{`dob >= "2000-01-01"`, true},
		{`dob > "2000-01-01"`, false},
		{`dob < "2000-01-02"`, true},
		{`dob == "2000-01-01T00:00:00Z"`, true},
		{`dob == "soon"`, false},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			r := compile(t, domain.ConditionDef{Name: "c", Value: tt.source})
			c, ok := r.Get("c")
			require.True(t, ok)
			assert.Equal(t, tt.want, c.Fn(state))
		})
	}
}

func TestCondition_ScopeBeforeRoot(t *testing.T) {
	r := compile(t, domain.ConditionDef{Name: "isWelsh", Value: `country == "wales"`})

	snap := condition.Snapshot{
		Scope: map[string]any{"country": "wales"},
		Root:  map[string]any{"country": "england"},
	}
	assert.True(t, r.Eval("isWelsh", snap))
	assert.False(t, r.Eval("isWelsh", condition.Snapshot{Root: snap.Root}))
}

func TestCondition_References(t *testing.T) {
	r := compile(t,
		domain.ConditionDef{Name: "adult", Value: "age >= 18"},
		domain.ConditionDef{Name: "adultInWales", Value: `adult and country == "wales"`},
	)

	c, _ := r.Get("adultInWales")
	assert.Equal(t, []string{"adult"}, c.References())
	assert.True(t, c.Fn(map[string]any{"age": 30, "country": "wales"}))
	assert.False(t, c.Fn(map[string]any{"age": 12, "country": "wales"}))
	assert.Equal(t, []string{"adult", "adultInWales"}, r.Names())
}

func TestCondition_OwnNameReadsAnswer(t *testing.T) {
	r := compile(t,
		domain.ConditionDef{Name: "hasPartner", Value: "hasPartner == true"},
		domain.ConditionDef{Name: "couple", Value: "hasPartner and married"},
	)

	assert.True(t, r.Eval("hasPartner", condition.Snapshot{Root: map[string]any{"hasPartner": true}}))
	assert.False(t, r.Eval("hasPartner", condition.Snapshot{Root: map[string]any{"hasPartner": "no"}}))
	assert.True(t, r.Eval("couple", condition.Snapshot{Root: map[string]any{"hasPartner": true, "married": true}}))
	assert.False(t, r.Eval("couple", condition.Snapshot{Root: map[string]any{"hasPartner": false, "married": true}}))
}

func TestCondition_EvaluationErrorIsFalse(t *testing.T) {
	r := compile(t, domain.ConditionDef{Name: "c", Value: "flag < 3"})
	c, _ := r.Get("c")

	_, err := c.Evaluate(condition.Snapshot{Root: map[string]any{"flag": true}})
	assert.Error(t, err)
	assert.False(t, c.Fn(map[string]any{"flag": true}))
}

func TestCompile_ReportsEveryProblem(t *testing.T) {
	r, err := condition.Compile([]domain.ConditionDef{
		{Name: "ok", Value: "a == 1"},
		{Name: "bad", Value: "a = 1"},
		{Name: "ok", Value: "b"},
		{Name: "", Value: "c"},
		{Name: "loopA", Value: "loopB"},
		{Name: "loopB", Value: "not loopA"},
	})
	require.Error(t, err)

	var compileErrs []*condition.CompileError
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var ce *condition.CompileError
		require.True(t, errors.As(e, &ce))
		compileErrs = append(compileErrs, ce)
	}
	assert.Len(t, compileErrs, 4)
	assert.Contains(t, err.Error(), "reference cycle loopA -> loopB -> loopA")

	assert.Equal(t, []string{"ok"}, r.Names())
	assert.False(t, r.Has("loopA"))
	assert.False(t, r.Eval("unknown", condition.Snapshot{}))
}

func TestCompile_SyntaxErrors(t *testing.T) {
	for _, src := range []string{"", "(a", "a ==", "a & b", `"open`, "a b"} {
		_, err := condition.Compile([]domain.ConditionDef{{Name: "c", Value: src}})
		assert.Error(t, err, "source %q", src)
	}
}
