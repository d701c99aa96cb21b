package dsl

import "github.com/aretw0/formwork/pkg/domain"

// PageBuilder provides a fluent API for configuring a page.
type PageBuilder struct {
	page domain.PageDef
}

// Title sets the page title.
func (p *PageBuilder) Title(title string) *PageBuilder {
	p.page.Title = domain.Localised(title)
	return p
}

// In puts the page in a section.
func (p *PageBuilder) In(section string) *PageBuilder {
	p.page.Section = section
	return p
}

// When shows the page only when the named condition holds.
func (p *PageBuilder) When(condition string) *PageBuilder {
	p.page.Condition = condition
	return p
}

// Field adds a form field.
func (p *PageBuilder) Field(typ, name, title string) *PageBuilder {
	p.page.Components = append(p.page.Components, domain.ComponentDef{
		Type:  typ,
		Name:  name,
		Title: domain.Localised(title),
	})
	return p
}

// Para adds a paragraph of content.
func (p *PageBuilder) Para(content string) *PageBuilder {
	p.page.Components = append(p.page.Components, domain.ComponentDef{
		Type:    "Para",
		Content: domain.Localised(content),
	})
	return p
}

// Hint sets the hint of the last component.
func (p *PageBuilder) Hint(text string) *PageBuilder {
	if c := p.last(); c != nil {
		c.Hint = domain.Localised(text)
	}
	return p
}

// Optional makes the last component optional.
func (p *PageBuilder) Optional() *PageBuilder {
	return p.Option("required", false)
}

// Option sets an option of the last component.
func (p *PageBuilder) Option(key string, value any) *PageBuilder {
	if c := p.last(); c != nil {
		if c.Options == nil {
			c.Options = make(map[string]any)
		}
		c.Options[key] = value
	}
	return p
}

// Schema sets a validation setting (min, max, length, regex...) of the last
// component.
func (p *PageBuilder) Schema(key string, value any) *PageBuilder {
	if c := p.last(); c != nil {
		if c.Schema == nil {
			c.Schema = make(map[string]any)
		}
		c.Schema[key] = value
	}
	return p
}

// Go adds an unconditional edge.
func (p *PageBuilder) Go(path string) *PageBuilder {
	p.page.Next = append(p.page.Next, domain.NextDef{Path: path})
	return p
}

// Branch adds an edge guarded by the named condition.
func (p *PageBuilder) Branch(condition, path string) *PageBuilder {
	p.page.Next = append(p.page.Next, domain.NextDef{Path: path, If: condition})
	return p
}

// Build returns the underlying page definition.
func (p *PageBuilder) Build() domain.PageDef {
	return p.page
}

func (p *PageBuilder) last() *domain.ComponentDef {
	if len(p.page.Components) == 0 {
		return nil
	}
	return &p.page.Components[len(p.page.Components)-1]
}
