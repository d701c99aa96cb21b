package ports

import "github.com/aretw0/formwork/pkg/domain"

// DefinitionLoader retrieves form definitions from a source (directory, memory...).
type DefinitionLoader interface {
	// Get returns the definition registered under id.
	// Returns domain.ErrFormNotFound if there is none.
	Get(id string) (domain.FormDefinition, error)

	// List returns the identifiers of every available definition, sorted.
	List() ([]string, error)
}
