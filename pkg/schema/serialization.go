package schema

import (
	"encoding/json"
	"fmt"
)

type fieldJSON struct {
	Key      string `json:"key"`
	Label    string `json:"label,omitempty"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// MarshalJSON serializes the schema as an ordered list of field descriptions.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	raw := make([]fieldJSON, 0, len(s))
	for _, f := range s {
		if f.Type == nil {
			return nil, fmt.Errorf("field %s: type is nil", f.Key)
		}
		raw = append(raw, fieldJSON{Key: f.Key, Label: f.Label, Type: f.Type.Name(), Required: !f.Optional})
	}

	return json.Marshal(raw)
}
