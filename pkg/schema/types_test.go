package schema

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"
)

func TestStringType(t *testing.T) {
	typ := &StringType{Min: 2, Max: 5}

	if typ.Name() != "string" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "string")
	}

	tests := []struct {
		value   any
		want    any
		wantErr bool
	}{
		{"abc", "abc", false},
		{"  abc  ", "abc", false},
		{"a", nil, true},
		{"abcdef", nil, true},
		{42, nil, true},
		{true, nil, true},
	}

	for _, tt := range tests {
		got, err := typ.Coerce(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Coerce(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("Coerce(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestStringType_PatternAndLength(t *testing.T) {
	typ := &StringType{Length: 4, Pattern: regexp.MustCompile(`^[0-9]+$`)}

	if _, err := typ.Coerce("1234"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := typ.Coerce("12a4"); err == nil || err.Error() != "is in the wrong format" {
		t.Errorf("expected format error, got %v", err)
	}
	if _, err := typ.Coerce("123"); err == nil || err.Error() != "must be 4 characters" {
		t.Errorf("expected length error, got %v", err)
	}
}

func TestEmailType(t *testing.T) {
	typ := Email()

	valid := []string{"ada@example.com", "first.last+tag@sub.example.org"}
	invalid := []string{"ada", "ada@", "Ada <ada@example.com>", "ada@localhost"}

	for _, v := range valid {
		if _, err := typ.Coerce(v); err != nil {
			t.Errorf("Coerce(%q) unexpected error: %v", v, err)
		}
	}
	for _, v := range invalid {
		if _, err := typ.Coerce(v); err == nil {
			t.Errorf("Coerce(%q) expected error", v)
		}
	}
}

func TestNumberType(t *testing.T) {
	typ := IntRange(1, 31)

	if typ.Name() != "integer" {
		t.Errorf("Name() = %q, want %q", typ.Name(), "integer")
	}

	tests := []struct {
		value   any
		want    any
		wantErr string
	}{
		{"12", 12, ""},
		{12.0, 12, ""},
		{json.Number("7"), 7, ""},
		{int64(3), 3, ""},
		{"0", nil, "must be 1 or more"},
		{32, nil, "must be 31 or less"},
		{"1.5", nil, "must be a whole number"},
		{"abc", nil, "must be a number"},
		{true, nil, "must be a number"},
	}

	for _, tt := range tests {
		got, err := typ.Coerce(tt.value)
		if tt.wantErr != "" {
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Coerce(%v) error = %v, want %q", tt.value, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("Coerce(%v) unexpected error: %v", tt.value, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Coerce(%v) = %v (%T), want %v", tt.value, got, got, tt.want)
		}
	}
}

func TestNumberType_Float(t *testing.T) {
	got, err := Number().Coerce("2.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2.5 {
		t.Errorf("Coerce = %v, want 2.5", got)
	}
}

func TestBoolType(t *testing.T) {
	typ := Bool()

	tests := []struct {
		value   any
		want    bool
		wantErr bool
	}{
		{true, true, false},
		{"yes", true, false},
		{"TRUE", true, false},
		{"no", false, false},
		{"false", false, false},
		{"maybe", false, true},
		{1, false, true},
	}

	for _, tt := range tests {
		got, err := typ.Coerce(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Coerce(%v) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("Coerce(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestDateType(t *testing.T) {
	typ := Date()
	want := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)

	for _, v := range []any{"2024-02-29", "2024-02-29T15:04:05Z", want.Add(13 * time.Hour)} {
		got, err := typ.Coerce(v)
		if err != nil {
			t.Errorf("Coerce(%v) unexpected error: %v", v, err)
			continue
		}
		if !got.(time.Time).Equal(want) {
			t.Errorf("Coerce(%v) = %v, want %v", v, got, want)
		}
	}

	for _, v := range []any{"2023-02-29", "yesterday", 20240229, time.Time{}} {
		if _, err := typ.Coerce(v); err == nil {
			t.Errorf("Coerce(%v) expected error", v)
		}
	}
}

func TestEnumType(t *testing.T) {
	numeric := Enum(true, 1, 2.0, "3")
	if got, err := numeric.Coerce("2"); err != nil || got != 2.0 {
		t.Errorf("numeric Coerce(\"2\") = %v, %v", got, err)
	}
	if got, err := numeric.Coerce(3); err != nil || got != 3.0 {
		t.Errorf("numeric Coerce(3) = %v, %v", got, err)
	}
	if _, err := numeric.Coerce("4"); err == nil {
		t.Error("expected error for value outside the list")
	}

	text := Enum(false, "red", "green")
	if got, err := text.Coerce("green"); err != nil || got != "green" {
		t.Errorf("text Coerce(\"green\") = %v, %v", got, err)
	}
	if _, err := text.Coerce("blue"); err == nil {
		t.Error("expected error for value outside the list")
	}
}

func TestCustomType(t *testing.T) {
	upper := Custom("upper", func(v any) (any, error) {
		s, _ := v.(string)
		return s + "!", nil
	})

	if upper.Name() != "upper" {
		t.Errorf("Name() = %q", upper.Name())
	}
	got, err := upper.Coerce("hi")
	if err != nil || got != "hi!" {
		t.Errorf("Coerce = %v, %v", got, err)
	}
}
