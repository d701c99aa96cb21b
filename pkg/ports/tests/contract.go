package tests

import (
	"errors"
	"testing"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
)

// DefinitionLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.DefinitionLoader.
// expected maps every identifier the loader must serve to the start page of its definition.
func DefinitionLoaderContractTest(t *testing.T, loader ports.DefinitionLoader, expected map[string]string) {
	t.Helper()

	t.Run("Get_Success", func(t *testing.T) {
		for id, startPage := range expected {
			def, err := loader.Get(id)
			if err != nil {
				t.Fatalf("unexpected error getting form %s: %v", id, err)
			}
			if def.StartPage != startPage {
				t.Errorf("start page mismatch for %s. got %q, want %q", id, def.StartPage, startPage)
			}
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := loader.Get("non-existent-form")
		if !errors.Is(err, domain.ErrFormNotFound) {
			t.Errorf("expected ErrFormNotFound for non-existent form, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := loader.List()
		if err != nil {
			t.Fatalf("unexpected error listing forms: %v", err)
		}

		if len(ids) != len(expected) {
			t.Errorf("expected %d forms, got %d", len(expected), len(ids))
		}

		for i := 1; i < len(ids); i++ {
			if ids[i-1] > ids[i] {
				t.Errorf("list is not sorted: %v", ids)
				break
			}
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}
		for id := range expected {
			if !lookup[id] {
				t.Errorf("form %s missing from list", id)
			}
		}
	})
}
