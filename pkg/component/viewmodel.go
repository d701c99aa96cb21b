package component

import (
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/schema"
)

// ViewModel is the display record of one component.
type ViewModel struct {
	Type            string     `json:"type"`
	IsFormComponent bool       `json:"isFormComponent"`
	Model           FieldModel `json:"model"`
}

// FieldModel carries what a renderer needs for one component. Content
// components only fill Content and sometimes Label.
type FieldModel struct {
	ID           string         `json:"id,omitempty"`
	Name         string         `json:"name,omitempty"`
	Label        *Label         `json:"label,omitempty"`
	Hint         *Message       `json:"hint,omitempty"`
	Value        any            `json:"value,omitempty"`
	Classes      string         `json:"classes,omitempty"`
	ErrorMessage *Message       `json:"errorMessage,omitempty"`
	Type         string         `json:"type,omitempty"`
	Pattern      string         `json:"pattern,omitempty"`
	Rows         int            `json:"rows,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	Fieldset     *Fieldset      `json:"fieldset,omitempty"`
	Items        []Item         `json:"items,omitempty"`
	Content      any            `json:"content,omitempty"`
}

// Label is a field label. HTML, when set, takes precedence over Text.
type Label struct {
	Text          string `json:"text"`
	HTML          string `json:"html,omitempty"`
	Classes       string `json:"classes,omitempty"`
	IsPageHeading bool   `json:"isPageHeading,omitempty"`
}

// Message is a hint or error text.
type Message struct {
	Text string `json:"text,omitempty"`
	HTML string `json:"html,omitempty"`
}

// Fieldset groups several inputs under one legend.
type Fieldset struct {
	Legend Label `json:"legend"`
}

// Item is one choice of a radios/select field or one part of a composite field.
type Item struct {
	ID           string         `json:"id,omitempty"`
	Name         string         `json:"name,omitempty"`
	Label        string         `json:"label,omitempty"`
	Text         string         `json:"text,omitempty"`
	Value        any            `json:"value,omitempty"`
	Classes      string         `json:"classes,omitempty"`
	Type         string         `json:"type,omitempty"`
	Hint         *Message       `json:"hint,omitempty"`
	ErrorMessage *Message       `json:"errorMessage,omitempty"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	Checked      bool           `json:"checked,omitempty"`
	Selected     bool           `json:"selected,omitempty"`
}

// Card is one entry of a flashcard list.
type Card struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// ErrorSummary lists every field error of a validation pass.
type ErrorSummary struct {
	TitleText string      `json:"titleText"`
	ErrorList []ErrorItem `json:"errorList"`
}

// ErrorItem is one field error. Name is the form key the error belongs to,
// compound for composite parts ("dob__month").
type ErrorItem struct {
	Path string `json:"path"`
	Href string `json:"href"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// NewErrorSummary converts a schema validation error into an ErrorSummary.
// It returns nil when err carries no field errors.
func NewErrorSummary(err error) *ErrorSummary {
	fieldErrs := schema.FieldErrors(err)
	if len(fieldErrs) == 0 {
		return nil
	}
	s := &ErrorSummary{TitleText: domain.ErrorSummaryTitle}
	for _, fe := range fieldErrs {
		s.ErrorList = append(s.ErrorList, ErrorItem{
			Path: fe.Key,
			Href: "#" + fe.Key,
			Name: fe.Key,
			Text: fe.Message(),
		})
	}
	return s
}

// For returns the first error recorded for name, or nil.
func (s *ErrorSummary) For(name string) *ErrorItem {
	if s == nil {
		return nil
	}
	for i := range s.ErrorList {
		if s.ErrorList[i].Name == name {
			return &s.ErrorList[i]
		}
	}
	return nil
}

// Len returns the number of errors.
func (s *ErrorSummary) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ErrorList)
}
