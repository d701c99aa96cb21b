package model

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/aretw0/formwork/internal/logging"
	"github.com/aretw0/formwork/pkg/component"
	"github.com/aretw0/formwork/pkg/condition"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/schema"
)

// Model is the compiled form: pages, sections, conditions and lists.
// It is built once per definition and never changes afterwards, so it can be
// shared by concurrent requests.
type Model struct {
	def             domain.FormDefinition
	pages           []*Page
	byPath          map[string]*Page
	sections        map[string]domain.Section
	conditions      *condition.Registry
	outputs         []Output
	defaultNextPath string

	components *component.Registry
	logger     *slog.Logger
}

// New validates def and builds its Model. Every problem found is reported in
// a single *domain.DefinitionError.
func New(def domain.FormDefinition, opts ...Option) (*Model, error) {
	m := &Model{
		def:             def,
		byPath:          make(map[string]*Page, len(def.Pages)),
		sections:        make(map[string]domain.Section, len(def.Sections)),
		defaultNextPath: domain.DefaultNextPath,
		components:      component.DefaultRegistry(),
		logger:          logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	problems := &domain.DefinitionError{Form: def.Name.String()}

	if def.StartPage == "" {
		problems.Add("startPage is required")
	}

	for i, s := range def.Sections {
		switch {
		case s.Name == "":
			problems.Add("sections[%d]: name is required", i)
		case s.Title.IsZero():
			problems.Add("section %q: title is required", s.Name)
		}
		if _, dup := m.sections[s.Name]; dup && s.Name != "" {
			problems.Add("section %q: duplicate name", s.Name)
		}
		m.sections[s.Name] = s
	}

	conds, err := condition.Compile(def.Conditions)
	m.conditions = conds
	for _, e := range unwrapAll(err) {
		problems.Add("%v", e)
	}

	validateLists(def.Lists, problems)

	env := component.NewEnv(&def)
	for i, pd := range def.Pages {
		if pd.Path == "" {
			problems.Add("pages[%d]: path is required", i)
			continue
		}
		key := normalisePath(pd.Path)
		if _, dup := m.byPath[key]; dup {
			problems.Add("page %q: duplicate path", pd.Path)
			continue
		}
		page, errs := newPage(m, pd, env)
		for _, e := range errs {
			problems.Add("page %q: %v", pd.Path, e)
		}
		m.pages = append(m.pages, page)
		m.byPath[key] = page
	}

	m.validateGraph(problems)
	m.validateFees(problems)

	for i, od := range def.Outputs {
		out, err := DecodeOutput(od)
		if err != nil {
			problems.Add("outputs[%d] %q: %v", i, od.Name, err)
			continue
		}
		m.outputs = append(m.outputs, out)
	}

	if err := problems.OrNil(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) validateGraph(problems *domain.DefinitionError) {
	start := m.def.StartPage
	if start != "" && !isExternal(start) {
		if _, ok := m.Page(start); !ok {
			problems.Add("startPage %q: no such page", start)
		}
	}

	for _, p := range m.pages {
		if p.Condition != "" && !m.conditions.Has(p.Condition) {
			problems.Add("page %q: condition %q is not defined", p.Path, p.Condition)
		}
		hasFallback := len(p.edges) == 0
		for _, e := range p.edges {
			target, ok := m.byPath[normalisePath(e.Path)]
			if !ok {
				problems.Add("page %q: next path %q does not exist", p.Path, e.Path)
				continue
			}
			if e.If != "" && !m.conditions.Has(e.If) {
				problems.Add("page %q: next %q: condition %q is not defined", p.Path, e.Path, e.If)
			}
			if guardOf(e, target) == "" {
				hasFallback = true
			}
		}
		if !hasFallback {
			m.logger.Warn("Page has no unconditional next edge; navigation fails when no guard holds",
				"page", p.Path)
		}
	}
}

func (m *Model) validateFees(problems *domain.DefinitionError) {
	for i, f := range m.def.Fees {
		if f.Description == "" {
			problems.Add("fees[%d]: description is required", i)
		}
		switch {
		case f.Condition == "":
			problems.Add("fees[%d]: condition is required", i)
		case !m.conditions.Has(f.Condition):
			problems.Add("fees[%d]: condition %q is not defined", i, f.Condition)
		}
	}
}

func validateLists(lists []domain.ListDef, problems *domain.DefinitionError) {
	seen := make(map[string]bool, len(lists))
	for i, l := range lists {
		if l.Name == "" {
			problems.Add("lists[%d]: name is required", i)
			continue
		}
		if seen[l.Name] {
			problems.Add("list %q: duplicate name", l.Name)
		}
		seen[l.Name] = true

		switch l.Type {
		case domain.ListTypeString:
		case domain.ListTypeNumber:
			for _, item := range l.Items {
				if _, err := schema.ToFloat(item.Value); err != nil {
					problems.Add("list %q: item %q: value %v is not a number", l.Name, item.Text.String(), item.Value)
				}
			}
		default:
			problems.Add("list %q: type must be %q or %q", l.Name, domain.ListTypeString, domain.ListTypeNumber)
		}
	}
}

func unwrapAll(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func normalisePath(path string) string {
	return strings.Trim(path, "/")
}

func isExternal(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Definition returns the definition the model was built from.
func (m *Model) Definition() domain.FormDefinition { return m.def }

// Name returns the form name in lang.
func (m *Model) Name(lang string) string { return m.def.Name.In(lang) }

// Page looks a page up by path. Leading and trailing slashes are ignored.
func (m *Model) Page(path string) (*Page, bool) {
	p, ok := m.byPath[normalisePath(path)]
	return p, ok
}

// Pages returns every page in definition order.
func (m *Model) Pages() []*Page { return m.pages }

// StartPage returns the start page path or absolute URL as declared.
func (m *Model) StartPage() string { return m.def.StartPage }

// Conditions returns the compiled condition registry.
func (m *Model) Conditions() *condition.Registry { return m.conditions }

// Sections returns the section definitions.
func (m *Model) Sections() []domain.Section { return m.def.Sections }

// Lists returns the list definitions.
func (m *Model) Lists() []domain.ListDef { return m.def.Lists }

// Outputs returns the decoded output definitions.
func (m *Model) Outputs() []Output { return m.outputs }

// DefaultNextPath is where navigation goes from a page without edges.
func (m *Model) DefaultNextPath() string { return m.defaultNextPath }

// IsDefinitionError reports whether err was caused by the form definition.
func IsDefinitionError(err error) bool {
	return errors.Is(err, domain.ErrInvalidDefinition)
}
