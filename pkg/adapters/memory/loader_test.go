package memory_test

import (
	"testing"

	"github.com/aretw0/formwork/pkg/adapters/memory"
	"github.com/aretw0/formwork/pkg/domain"
	contract "github.com/aretw0/formwork/pkg/ports/tests"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	loader := memory.NewLoader(map[string]domain.FormDefinition{
		"household": {StartPage: "/applicant"},
	})
	loader.Put("licence", domain.FormDefinition{StartPage: "/start"})

	contract.DefinitionLoaderContractTest(t, loader, map[string]string{
		"household": "/applicant",
		"licence":   "/start",
	})
}
