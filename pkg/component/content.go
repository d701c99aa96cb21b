package component

import (
	"fmt"
	"html"

	"github.com/aretw0/formwork/pkg/domain"
)

// ContentComponent displays text and collects nothing.
type ContentComponent struct {
	base
	render func(lang string) FieldModel
}

func (c *ContentComponent) ViewModel(_ map[string]any, _ *ErrorSummary, lang string) ViewModel {
	return ViewModel{Type: c.def.Type, Model: c.render(lang)}
}

func newContent(render func(b *base, lang string) FieldModel) Factory {
	return func(def domain.ComponentDef, _ Env) (Component, error) {
		b, err := newBase(def)
		if err != nil {
			return nil, err
		}
		c := &ContentComponent{base: b}
		c.render = func(lang string) FieldModel { return render(&c.base, lang) }
		return c, nil
	}
}

func renderPara(b *base, lang string) FieldModel {
	return FieldModel{Content: html.EscapeString(b.def.Content.In(lang)), Classes: b.options.Classes}
}

func renderHTML(b *base, lang string) FieldModel {
	return FieldModel{Content: SanitizeHTML(b.def.Content.In(lang)), Classes: b.options.Classes}
}

func renderDetails(b *base, lang string) FieldModel {
	return FieldModel{
		Label:   &Label{Text: b.def.Title.In(lang)},
		Content: SanitizeHTML(b.def.Content.In(lang)),
		Classes: b.options.Classes,
	}
}

// newFlashcard renders the items of the referenced list as cards.
func newFlashcard(def domain.ComponentDef, env Env) (Component, error) {
	b, err := newBase(def)
	if err != nil {
		return nil, err
	}
	list, ok := env.Lists[b.options.List]
	if !ok {
		return nil, fmt.Errorf("options.list %q: %w", b.options.List, ErrUnknownList)
	}
	c := &ContentComponent{base: b}
	c.render = func(lang string) FieldModel {
		cards := make([]Card, len(list.Items))
		for i, item := range list.Items {
			cards[i] = Card{Title: item.Text.In(lang), Text: item.Description.In(lang)}
		}
		return FieldModel{Content: cards}
	}
	return c, nil
}
