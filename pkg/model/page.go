package model

import (
	"fmt"
	"html"

	"github.com/aretw0/formwork/pkg/component"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/locale"
	"github.com/aretw0/formwork/pkg/schema"
)

// Page is one node of the form graph. Its schemas are computed once when
// the model is built.
type Page struct {
	Path       string
	Title      domain.LocalisedString
	Condition  string
	Controller string

	section       *domain.Section
	components    *component.Collection
	edges         []domain.NextDef
	formSchema    schema.Schema
	stateSchema   schema.Schema
	hasFormFields bool
	model         *Model
}

func newPage(m *Model, pd domain.PageDef, env component.Env) (*Page, []error) {
	p := &Page{
		Path:       pd.Path,
		Title:      pd.Title,
		Condition:  pd.Condition,
		Controller: pd.Controller,
		edges:      pd.Next,
		model:      m,
	}
	var errs []error

	if pd.Section != "" {
		s, ok := m.sections[pd.Section]
		if !ok {
			errs = append(errs, fmt.Errorf("section %q is not defined", pd.Section))
		} else {
			p.section = &s
		}
	}

	components, err := component.NewCollection(pd.Components, m.components, env)
	errs = append(errs, unwrapAll(err)...)
	p.components = components
	p.formSchema = components.FormSchema()
	p.stateSchema = components.StateSchema()
	p.hasFormFields = len(components.Fields()) > 0

	return p, errs
}

// Section returns the section the page belongs to.
func (p *Page) Section() (domain.Section, bool) {
	if p.section == nil {
		return domain.Section{}, false
	}
	return *p.section, true
}

func (p *Page) sectionName() string {
	if p.section == nil {
		return ""
	}
	return p.section.Name
}

// Components returns the page's component collection.
func (p *Page) Components() *component.Collection { return p.components }

// Edges returns the declared next edges in order.
func (p *Page) Edges() []domain.NextDef { return p.edges }

// HasFormFields reports whether the page collects any answer.
func (p *Page) HasFormFields() bool { return p.hasFormFields }

// FormSchema validates the raw submitted input of the page.
func (p *Page) FormSchema() schema.Schema { return p.formSchema }

// StateSchema validates the stored answers of the page.
func (p *Page) StateSchema() schema.Schema { return p.stateSchema }

// FormDataFromState converts the page's stored answers into form input values.
func (p *Page) FormDataFromState(state domain.State) map[string]any {
	return p.components.FormDataFromState(state.Scope(p.sectionName()))
}

// StateFromValidForm reshapes validated form input into stored answers.
func (p *Page) StateFromValidForm(form map[string]any) map[string]any {
	return p.components.StateFromValidForm(form)
}

// PartialMergeState returns the update to merge into the session state. A
// page in a section replaces that section's whole sub-state.
func (p *Page) PartialMergeState(value map[string]any) map[string]any {
	if p.section != nil {
		return map[string]any{p.section.Name: value}
	}
	return value
}

// ValidateForm validates raw input. All field errors are collected.
func (p *Page) ValidateForm(payload map[string]any) (map[string]any, *ErrorSummary) {
	return validate(p.formSchema, payload)
}

// ValidateState validates a reshaped state contribution.
func (p *Page) ValidateState(value map[string]any) (map[string]any, *ErrorSummary) {
	return validate(p.stateSchema, value)
}

func validate(s schema.Schema, data map[string]any) (map[string]any, *ErrorSummary) {
	value, err := schema.Validate(s, data)
	if err != nil {
		return value, component.NewErrorSummary(err)
	}
	return value, nil
}

// ViewModel is everything a renderer needs to display a page.
type ViewModel struct {
	Path         string                `json:"path"`
	Lang         string                `json:"lang"`
	PageTitle    string                `json:"pageTitle"`
	SectionTitle string                `json:"sectionTitle,omitempty"`
	ShowTitle    bool                  `json:"showTitle"`
	Components   []component.ViewModel `json:"components"`
	Errors       *ErrorSummary         `json:"errors,omitempty"`
}

// ViewModel renders the page for formData. The language comes from
// formData["lang"]. When the page's only form field is also its first
// component, that field's label becomes the page heading.
func (p *Page) ViewModel(formData map[string]any, errors *ErrorSummary) ViewModel {
	lang := locale.Match(fmt.Sprint(formData[domain.KeyLanguage]))
	if _, ok := formData[domain.KeyLanguage]; !ok {
		lang = domain.DefaultLanguage
	}

	vm := ViewModel{
		Path:       p.Path,
		Lang:       lang,
		PageTitle:  p.Title.In(lang),
		ShowTitle:  true,
		Components: p.components.ViewModel(formData, errors, lang),
		Errors:     errors,
	}
	if p.section != nil {
		vm.SectionTitle = p.section.Title.In(lang)
	}

	formIndex := -1
	formCount := 0
	for i, c := range vm.Components {
		if c.IsFormComponent {
			formCount++
			formIndex = i
		}
	}

	if formCount == 1 && formIndex == 0 {
		m := &vm.Components[0].Model
		label := m.Label
		if m.Fieldset != nil {
			label = &m.Fieldset.Legend
		}
		if label != nil {
			if p.section != nil {
				label.HTML = fmt.Sprintf(`<span class="govuk-caption-xl">%s</span> %s`,
					component.StripTags(vm.SectionTitle), html.EscapeString(label.Text))
			}
			label.IsPageHeading = true
			label.Classes = "govuk-label--xl"
			vm.PageTitle = label.Text
			vm.ShowTitle = false
		}
	}

	return vm
}
