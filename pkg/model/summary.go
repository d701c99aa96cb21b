package model

import (
	"github.com/aretw0/formwork/pkg/condition"
	"github.com/aretw0/formwork/pkg/domain"
)

// Fee is a payable amount whose condition holds.
type Fee struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// Fees returns the fees that apply to state, in definition order.
func (m *Model) Fees(state domain.State) []Fee {
	var out []Fee
	for _, f := range m.def.Fees {
		if m.conditions.Eval(f.Condition, condition.Snapshot{Root: state}) {
			out = append(out, Fee{Description: f.Description, Amount: f.Amount})
		}
	}
	return out
}

// SummaryRow is one answered field on the path through the form.
type SummaryRow struct {
	Page    string `json:"page"`
	Section string `json:"section,omitempty"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Value   string `json:"value"`
	Raw     any    `json:"raw"`
}

// Summary walks the form from its start page along Route and lists every
// answered field. The walk stops at a path that is not a page (the default
// next path), on a revisited page, or on a navigation error, which is
// returned with the rows collected so far.
func (m *Model) Summary(state domain.State, lang string) ([]SummaryRow, error) {
	var rows []SummaryRow
	visited := make(map[*Page]bool)

	page, ok := m.Page(m.def.StartPage)
	for ok && !visited[page] {
		visited[page] = true

		slice := state.Scope(page.sectionName())
		for _, f := range page.components.Fields() {
			raw, present := slice[f.Name()]
			if !present || raw == nil {
				continue
			}
			rows = append(rows, SummaryRow{
				Page:    page.Path,
				Section: page.sectionName(),
				Name:    f.Name(),
				Title:   f.Title(lang),
				Value:   f.DisplayString(slice, lang),
				Raw:     raw,
			})
		}

		next, err := page.Route(state)
		if err != nil {
			return rows, err
		}
		page, ok = m.Page(next)
	}
	return rows, nil
}
