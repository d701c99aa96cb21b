package domain

// FormDefinition is the declarative description of a multi-page form.
// It is created once when a form is loaded and replaced wholesale on
// republish; nothing mutates it in place.
type FormDefinition struct {
	Name        LocalisedString `json:"name" yaml:"name,omitempty"`
	StartPage   string          `json:"startPage" yaml:"startPage"`
	Pages       []PageDef       `json:"pages" yaml:"pages"`
	Sections    []Section       `json:"sections" yaml:"sections"`
	Conditions  []ConditionDef  `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Lists       []ListDef       `json:"lists,omitempty" yaml:"lists,omitempty"`
	Fees        []FeeDef        `json:"fees,omitempty" yaml:"fees,omitempty"`
	Metadata    map[string]any  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Declaration string          `json:"declaration,omitempty" yaml:"declaration,omitempty"`
	Outputs     []OutputDef     `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	PayAPIKey   string          `json:"payApiKey,omitempty" yaml:"payApiKey,omitempty"`
}

// PageDef is one node of the form graph.
type PageDef struct {
	Path       string          `json:"path" yaml:"path"`
	Title      LocalisedString `json:"title" yaml:"title,omitempty"`
	Condition  string          `json:"condition,omitempty" yaml:"condition,omitempty"`
	Section    string          `json:"section,omitempty" yaml:"section,omitempty"`
	Controller string          `json:"controller,omitempty" yaml:"controller,omitempty"`
	Components []ComponentDef  `json:"components,omitempty" yaml:"components,omitempty"`
	Next       []NextDef       `json:"next,omitempty" yaml:"next,omitempty"`
}

// NextDef is an outgoing edge. If names the guard condition, if any.
type NextDef struct {
	Path string `json:"path" yaml:"path"`
	If   string `json:"if,omitempty" yaml:"if,omitempty"`
}

// Section is a named sub-scope of the state.
type Section struct {
	Name  string          `json:"name" yaml:"name"`
	Title LocalisedString `json:"title" yaml:"title"`
}

// ComponentDef describes one field or content block on a page.
// Options and Schema are free-form here and decoded by the component that
// owns them.
type ComponentDef struct {
	Type    string          `json:"type" yaml:"type"`
	Name    string          `json:"name,omitempty" yaml:"name,omitempty"`
	Title   LocalisedString `json:"title" yaml:"title,omitempty"`
	Hint    LocalisedString `json:"hint" yaml:"hint,omitempty"`
	Content LocalisedString `json:"content" yaml:"content,omitempty"`
	Options map[string]any  `json:"options,omitempty" yaml:"options,omitempty"`
	Schema  map[string]any  `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ConditionDef names a predicate; Value holds its source expression.
type ConditionDef struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ListDef is a reusable, typed list of items referenced by components.
type ListDef struct {
	Name  string          `json:"name" yaml:"name"`
	Title LocalisedString `json:"title" yaml:"title,omitempty"`
	Type  string          `json:"type" yaml:"type"`
	Items []ListItem      `json:"items,omitempty" yaml:"items,omitempty"`
}

// ListItem is one selectable value of a list.
type ListItem struct {
	Text        LocalisedString `json:"text" yaml:"text"`
	Value       any             `json:"value" yaml:"value"`
	Description LocalisedString `json:"description" yaml:"description,omitempty"`
	Condition   string          `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// FeeDef is a payable amount that applies when its condition holds.
type FeeDef struct {
	Description string  `json:"description" yaml:"description"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Condition   string  `json:"condition" yaml:"condition"`
}

// OutputDef configures a post-submission output (email, webhook, ...).
// Delivery is handled outside the engine.
type OutputDef struct {
	Name                string         `json:"name" yaml:"name"`
	Type                string         `json:"type" yaml:"type"`
	OutputConfiguration map[string]any `json:"outputConfiguration,omitempty" yaml:"outputConfiguration,omitempty"`
}

// Page returns the page definition with the given path.
func (d *FormDefinition) Page(path string) (PageDef, bool) {
	for _, p := range d.Pages {
		if p.Path == path {
			return p, true
		}
	}
	return PageDef{}, false
}

// List returns the list with the given name.
func (d *FormDefinition) List(name string) (ListDef, bool) {
	for _, l := range d.Lists {
		if l.Name == name {
			return l, true
		}
	}
	return ListDef{}, false
}
