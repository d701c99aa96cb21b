package cli

import (
	"fmt"
	"strings"

	"github.com/aretw0/formwork/pkg/model"
)

// Describe renders a markdown outline of a form: its pages with their fields
// and edges, followed by the sections, conditions, lists and fees it declares.
func Describe(m *model.Model, lang string) string {
	var b strings.Builder
	def := m.Definition()

	name := m.Name(lang)
	if name == "" {
		name = "Untitled form"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "Starts at `%s`.\n\n", m.StartPage())

	b.WriteString("## Pages\n\n")
	for _, p := range m.Pages() {
		title := p.Title.In(lang)
		if title == "" {
			title = p.Path
		}
		fmt.Fprintf(&b, "### %s `%s`\n\n", title, p.Path)
		if section, ok := p.Section(); ok {
			fmt.Fprintf(&b, "Section: %s\n\n", section.Title.In(lang))
		}
		if p.Condition != "" {
			fmt.Fprintf(&b, "Shown when `%s`.\n\n", p.Condition)
		}

		for _, f := range p.Components().Fields() {
			required := "optional"
			if f.Required() {
				required = "required"
			}
			fmt.Fprintf(&b, "- **%s** `%s` (%s, %s, %s)\n", f.Title(lang), f.Name(), f.Type(), f.DataType(), required)
		}

		edges := p.Edges()
		if len(edges) == 0 {
			fmt.Fprintf(&b, "\nThen `%s`.\n\n", m.DefaultNextPath())
			continue
		}
		b.WriteString("\nNext:\n\n")
		for _, e := range edges {
			if guard := p.Guard(e); guard != "" {
				fmt.Fprintf(&b, "- `%s` when `%s`\n", e.Path, guard)
			} else {
				fmt.Fprintf(&b, "- `%s`\n", e.Path)
			}
		}
		b.WriteString("\n")
	}

	if len(def.Sections) > 0 {
		b.WriteString("## Sections\n\n")
		for _, s := range def.Sections {
			fmt.Fprintf(&b, "- `%s`: %s\n", s.Name, s.Title.In(lang))
		}
		b.WriteString("\n")
	}

	if len(def.Conditions) > 0 {
		b.WriteString("## Conditions\n\n")
		for _, c := range def.Conditions {
			fmt.Fprintf(&b, "- `%s`: `%s`\n", c.Name, c.Value)
		}
		b.WriteString("\n")
	}

	if len(def.Lists) > 0 {
		b.WriteString("## Lists\n\n")
		for _, l := range def.Lists {
			fmt.Fprintf(&b, "- `%s` (%s, %d items)\n", l.Name, l.Type, len(l.Items))
		}
		b.WriteString("\n")
	}

	if len(def.Fees) > 0 {
		b.WriteString("## Fees\n\n")
		for _, f := range def.Fees {
			fmt.Fprintf(&b, "- %s: %.2f when `%s`\n", f.Description, f.Amount, f.Condition)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
