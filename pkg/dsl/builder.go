package dsl

import (
	"fmt"

	"github.com/aretw0/formwork/pkg/adapters/memory"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
)

// Builder manages the definition construction.
type Builder struct {
	def   domain.FormDefinition
	pages []*PageBuilder
	index map[string]*PageBuilder
}

// New creates a new form builder.
func New(name string) *Builder {
	return &Builder{
		def:   domain.FormDefinition{Name: domain.Localised(name)},
		index: make(map[string]*PageBuilder),
	}
}

// Start names the start page.
func (b *Builder) Start(path string) *Builder {
	b.def.StartPage = path
	return b
}

// Section declares a section.
func (b *Builder) Section(name, title string) *Builder {
	b.def.Sections = append(b.def.Sections, domain.Section{Name: name, Title: domain.Localised(title)})
	return b
}

// Condition declares a named condition.
func (b *Builder) Condition(name, expr string) *Builder {
	b.def.Conditions = append(b.def.Conditions, domain.ConditionDef{Name: name, Value: expr})
	return b
}

// List declares a list of the given type ("string" or "number").
func (b *Builder) List(name, typ string, items ...domain.ListItem) *Builder {
	b.def.Lists = append(b.def.Lists, domain.ListDef{Name: name, Type: typ, Items: items})
	return b
}

// Fee declares an amount payable when condition holds.
func (b *Builder) Fee(description string, amount float64, condition string) *Builder {
	b.def.Fees = append(b.def.Fees, domain.FeeDef{Description: description, Amount: amount, Condition: condition})
	return b
}

// Page returns the builder of the page at path, adding the page if needed.
// Pages keep the order they were first added in.
func (b *Builder) Page(path string) *PageBuilder {
	if pb, ok := b.index[path]; ok {
		return pb
	}
	pb := &PageBuilder{page: domain.PageDef{Path: path}}
	b.index[path] = pb
	b.pages = append(b.pages, pb)
	return pb
}

// Definition returns the definition built so far without checking it.
func (b *Builder) Definition() domain.FormDefinition {
	def := b.def
	def.Pages = make([]domain.PageDef, len(b.pages))
	for i, pb := range b.pages {
		def.Pages[i] = pb.Build()
	}
	if def.StartPage == "" && len(def.Pages) > 0 {
		def.StartPage = def.Pages[0].Path
	}
	return def
}

// Build returns the definition once it passes the checks made on publish.
func (b *Builder) Build() (domain.FormDefinition, error) {
	def := b.Definition()
	if _, err := model.New(def); err != nil {
		return domain.FormDefinition{}, err
	}
	return def, nil
}

// Loader builds the definition and serves it under id.
func (b *Builder) Loader(id string) (*memory.Loader, error) {
	def, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("form %q: %w", id, err)
	}
	return memory.NewLoader(map[string]domain.FormDefinition{id: def}), nil
}
