package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		old  State
		new  State
		want map[string]any
	}{
		{
			name: "Initial Answers (Old is Nil)",
			old:  nil,
			new:  State{"a": 1},
			want: map[string]any{"a": 1},
		},
		{
			name: "No Changes",
			old:  State{"a": 1, "s": map[string]any{"b": 2}},
			new:  State{"a": 1, "s": map[string]any{"b": 2}},
			want: nil,
		},
		{
			name: "Added & Modified",
			old:  State{"a": 1, "b": "old"},
			new:  State{"a": 1, "b": "new", "c": true},
			want: map[string]any{"b": "new", "c": true},
		},
		{
			name: "Section Replaced",
			old:  State{"s": map[string]any{"a": 1}},
			new:  State{"s": map[string]any{"b": 2}},
			want: map[string]any{"s": map[string]any{"b": 2}},
		},
		{
			name: "Deletion",
			old:  State{"a": 1, "b": 2},
			new:  State{"a": 1},
			want: map[string]any{"b": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Diff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	t.Run("Deletions as Null", func(t *testing.T) {
		diff := Diff(State{"a": 1, "b": 2}, State{"a": 1})
		if diff == nil {
			t.Fatal("Expected diff, got nil")
		}

		bytes, _ := json.Marshal(diff)
		if !strings.Contains(string(bytes), `"b":null`) {
			t.Errorf("JSON should contain 'b':null for deletion, got: %s", string(bytes))
		}
	})
}
