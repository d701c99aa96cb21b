package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func testSchema() Schema {
	return Schema{
		{Key: "name", Label: "Full name", Type: String()},
		{Key: "age", Label: "Age", Type: IntRange(0, 150)},
		{Key: "nickname", Label: "Nickname", Type: String(), Optional: true},
	}
}

func TestValidate_Success(t *testing.T) {
	value, err := Validate(testSchema(), map[string]any{
		"name":  "Ada",
		"age":   "36",
		"extra": "dropped",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if value["name"] != "Ada" || value["age"] != 36 {
		t.Errorf("unexpected coerced value: %v", value)
	}
	if _, ok := value["extra"]; ok {
		t.Error("unknown keys must be stripped")
	}
	if v, ok := value["nickname"]; !ok || v != nil {
		t.Errorf("missing optional key should be present as nil, got %v (present=%v)", v, ok)
	}
}

func TestValidate_MissingField(t *testing.T) {
	_, err := Validate(testSchema(), map[string]any{"age": 3, "name": "   "})
	if err == nil {
		t.Fatal("expected validation error")
	}

	errs := FieldErrors(err)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(errs), err)
	}
	if errs[0].Key != "name" || errs[0].Reason != "is required" {
		t.Errorf("unexpected error: %+v", errs[0])
	}
	if errs[0].Message() != "Full name is required" {
		t.Errorf("Message() = %q", errs[0].Message())
	}
}

func TestValidate_MultipleErrorsInOrder(t *testing.T) {
	_, err := Validate(testSchema(), map[string]any{"age": "old"})

	errs := FieldErrors(err)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	if errs[0].Key != "name" || errs[1].Key != "age" {
		t.Errorf("errors out of declaration order: %s, %s", errs[0].Key, errs[1].Key)
	}
}

func TestValidate_AbortEarly(t *testing.T) {
	_, err := Validate(testSchema(), map[string]any{}, AbortEarly())

	if got := len(ValidationErrors(err)); got != 1 {
		t.Errorf("expected 1 error with AbortEarly, got %d", got)
	}
}

func TestValidate_InvalidPlaceholder(t *testing.T) {
	s := Schema{{Key: "dob", Label: "Date of birth", Type: Date(), Optional: true}}

	_, err := Validate(s, map[string]any{"dob": Invalid{Reason: "must be a real date"}})

	errs := FieldErrors(err)
	if len(errs) != 1 || errs[0].Message() != "Date of birth must be a real date" {
		t.Errorf("unexpected errors: %v", err)
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	value, err := Validate(nil, map[string]any{"a": 1})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if len(value) != 0 {
		t.Errorf("expected empty value, got %v", value)
	}
}

func TestValidationError_String(t *testing.T) {
	err := &ValidationError{Key: "dob__month", Reason: "must be 12 or less", Value: 13}

	if !strings.Contains(err.Error(), `"dob__month"`) {
		t.Errorf("Error() should name the key: %s", err.Error())
	}
	if err.Message() != "dob__month must be 12 or less" {
		t.Errorf("Message() without label should fall back to the key: %s", err.Message())
	}
}

func TestAggregateError_String(t *testing.T) {
	err := &AggregateError{Errors: []error{
		&ValidationError{Key: "a", Reason: "is required"},
		&ValidationError{Key: "b", Reason: "is required"},
	}}

	if !strings.HasPrefix(err.Error(), "2 validation errors") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestValidationErrors_NotAggregate(t *testing.T) {
	if ValidationErrors(nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestSchema_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(testSchema()[:2])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"key":"name","label":"Full name","type":"string","required":true},{"key":"age","label":"Age","type":"integer","required":true}]`
	if string(out) != want {
		t.Errorf("got %s\nwant %s", out, want)
	}
}
