package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/formwork/pkg/domain"
)

// Loader implements ports.DefinitionLoader over definitions held in memory.
// Safe for concurrent use.
type Loader struct {
	mu    sync.RWMutex
	forms map[string]domain.FormDefinition
}

// NewLoader creates a Loader serving the given definitions keyed by form id.
func NewLoader(forms map[string]domain.FormDefinition) *Loader {
	l := &Loader{forms: make(map[string]domain.FormDefinition, len(forms))}
	for id, def := range forms {
		l.forms[id] = def
	}
	return l
}

// Put adds or replaces a definition.
func (l *Loader) Put(id string, def domain.FormDefinition) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.forms[id] = def
}

// Get returns the definition registered under id.
func (l *Loader) Get(id string) (domain.FormDefinition, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	def, ok := l.forms[id]
	if !ok {
		return domain.FormDefinition{}, fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
	}
	return def, nil
}

// List returns all form ids.
func (l *Loader) List() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, 0, len(l.forms))
	for id := range l.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids) // Deterministic order
	return ids, nil
}
