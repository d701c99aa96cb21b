package testutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/stretchr/testify/require"
)

// HouseholdJSON is a small form exercising sections, guarded edges, a
// composite date field and a content-only page.
const HouseholdJSON = `{
  "name": {"en": "Household", "cy": "Aelwyd"},
  "startPage": "/applicant",
  "sections": [{"name": "partner", "title": "Your partner"}],
  "conditions": [{"name": "hasPartner", "value": "hasPartner == true"}],
  "fees": [{"description": "Partner fee", "amount": 25, "condition": "hasPartner"}],
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
      "next": [{"path": "/partner", "if": "hasPartner"}, {"path": "/check"}]
    },
    {
      "path": "/partner",
      "title": "Partner details",
      "section": "partner",
      "components": [
        {"type": "TextField", "name": "partnerName", "title": "Partner's name"}
      ],
      "next": [{"path": "/check"}]
    },
    {
      "path": "/check",
      "title": "Check your answers",
      "components": [{"type": "Para", "content": "Nearly done."}]
    }
  ]
}`

// HouseholdDefinition decodes HouseholdJSON.
func HouseholdDefinition(t testing.TB) domain.FormDefinition {
	t.Helper()

	var def domain.FormDefinition
	require.NoError(t, json.Unmarshal([]byte(HouseholdJSON), &def), "Failed to decode household definition")
	return def
}

// WriteForms writes definition files into a temporary directory and returns
// its path. It fails the test immediately on error.
func WriteForms(t testing.TB, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err, "Failed to write %s", name)
	}
	return dir
}
