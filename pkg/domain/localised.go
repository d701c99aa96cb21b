package domain

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// LocalisedString is either a plain string or a map of language to text.
// Both shapes are accepted when decoding JSON or YAML.
type LocalisedString struct {
	Text         string
	Translations map[string]string
}

// Localised creates a plain (untranslated) LocalisedString.
func Localised(text string) LocalisedString {
	return LocalisedString{Text: text}
}

// IsZero reports whether no text is set at all.
func (l LocalisedString) IsZero() bool {
	return l.Text == "" && len(l.Translations) == 0
}

// In resolves the text for lang, falling back to English, then to the plain
// text, then to any translation in a stable order.
func (l LocalisedString) In(lang string) string {
	if len(l.Translations) == 0 {
		return l.Text
	}
	if s, ok := l.Translations[lang]; ok {
		return s
	}
	if s, ok := l.Translations[DefaultLanguage]; ok {
		return s
	}
	if l.Text != "" {
		return l.Text
	}
	keys := make([]string, 0, len(l.Translations))
	for k := range l.Translations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return l.Translations[keys[0]]
}

// String returns the default-language text.
func (l LocalisedString) String() string {
	return l.In(DefaultLanguage)
}

func (l LocalisedString) MarshalJSON() ([]byte, error) {
	if len(l.Translations) == 0 {
		return json.Marshal(l.Text)
	}
	return json.Marshal(l.Translations)
}

func (l *LocalisedString) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = LocalisedString{Text: text}
		return nil
	}
	var translations map[string]string
	if err := json.Unmarshal(data, &translations); err != nil {
		return fmt.Errorf("localised string must be a string or a map of language to string: %w", err)
	}
	*l = LocalisedString{Translations: translations}
	return nil
}

func (l LocalisedString) MarshalYAML() (any, error) {
	if len(l.Translations) == 0 {
		return l.Text, nil
	}
	return l.Translations, nil
}

func (l *LocalisedString) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = LocalisedString{Text: node.Value}
		return nil
	case yaml.MappingNode:
		var translations map[string]string
		if err := node.Decode(&translations); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*l = LocalisedString{Translations: translations}
		return nil
	default:
		return fmt.Errorf("line %d: localised string must be a string or a map", node.Line)
	}
}
