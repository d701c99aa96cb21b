package formwork

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
)

// Forms maps form identifiers to compiled models.
//
// Readers load the current map without locking. Writers build the new Model
// first and then swap in a copied map, so a request in flight keeps using the
// Model it started with and a failed publish leaves the old Model in place.
type Forms struct {
	mu     sync.Mutex // serialises writers
	models atomic.Pointer[map[string]*model.Model]
	opts   []model.Option
}

// NewForms creates an empty registry. opts are applied to every Model built.
func NewForms(opts ...model.Option) *Forms {
	f := &Forms{opts: opts}
	empty := make(map[string]*model.Model)
	f.models.Store(&empty)
	return f
}

// Get returns the Model published under id.
func (f *Forms) Get(id string) (*model.Model, error) {
	m, ok := (*f.models.Load())[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
	}
	return m, nil
}

// IDs returns the published identifiers, sorted.
func (f *Forms) IDs() []string {
	current := *f.models.Load()
	ids := make([]string, 0, len(current))
	for id := range current {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Publish builds def and registers it under id, replacing any previous Model.
func (f *Forms) Publish(id string, def domain.FormDefinition) (*model.Model, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: form id is required", domain.ErrInvalidDefinition)
	}
	m, err := model.New(def, f.opts...)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	current := *f.models.Load()
	next := make(map[string]*model.Model, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[id] = m
	f.models.Store(&next)
	return m, nil
}

// ReplaceAll builds every definition and, only if all succeed, replaces the
// whole registry with them. Every failure is reported.
func (f *Forms) ReplaceAll(defs map[string]domain.FormDefinition) (map[string]*model.Model, error) {
	ids := make([]string, 0, len(defs))
	for id := range defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	next := make(map[string]*model.Model, len(defs))
	var errs []error
	for _, id := range ids {
		m, err := model.New(defs[id], f.opts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("form %q: %w", id, err))
			continue
		}
		next[id] = m
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.models.Store(&next)
	return next, nil
}

// Remove unregisters id. It reports whether a Model was registered.
func (f *Forms) Remove(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	current := *f.models.Load()
	if _, ok := current[id]; !ok {
		return false
	}
	next := make(map[string]*model.Model, len(current))
	for k, v := range current {
		if k != id {
			next[k] = v
		}
	}
	f.models.Store(&next)
	return true
}
