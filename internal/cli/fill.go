package cli

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/aretw0/formwork/pkg/component"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/ports"
)

// maxFillSteps stops a fill that keeps cycling through the same pages.
const maxFillSteps = 500

// FillOptions configures an interactive fill.
type FillOptions struct {
	FormID    string
	SessionID string
	Lang      string
	Driver    PromptDriver
}

// Fill walks a form from its start page, prompting for every input of each
// page and submitting it through the engine, until navigation leaves the
// pages of the form. Rejected pages are prompted again with their errors.
// It returns the summary of the answers.
func Fill(ctx context.Context, eng ports.FormEngine, opts FillOptions) ([]model.SummaryRow, error) {
	start, err := eng.StartPath(opts.FormID)
	if err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(start, "/"+opts.FormID)
	if strings.Contains(path, "://") {
		return nil, fmt.Errorf("form %q starts outside the engine at %s", opts.FormID, path)
	}

	for step := 0; ; step++ {
		if step == maxFillSteps {
			return nil, fmt.Errorf("form %q did not finish after %d pages", opts.FormID, maxFillSteps)
		}

		vm, err := eng.RenderPage(ctx, opts.FormID, path, opts.SessionID, opts.Lang)
		if errors.Is(err, domain.ErrPageNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}

		next, err := fillPage(ctx, eng, opts, path, vm)
		if err != nil {
			return nil, err
		}
		if next == "" || strings.Contains(next, "://") {
			break
		}
		path = next
	}

	return eng.Summary(ctx, opts.FormID, opts.SessionID, opts.Lang)
}

// fillPage prompts and submits one page until the engine accepts it.
func fillPage(ctx context.Context, eng ports.FormEngine, opts FillOptions, path string, vm model.ViewModel) (string, error) {
	if err := opts.Driver.Info(ctx, pageHeading(vm)); err != nil {
		return "", err
	}
	for {
		payload, err := promptPage(ctx, opts.Driver, vm)
		if err != nil {
			return "", err
		}
		res, err := eng.SubmitPage(ctx, opts.FormID, path, opts.SessionID, payload, "")
		if err != nil {
			return "", err
		}
		if res.View == nil {
			return res.Next, nil
		}

		vm = *res.View
		if vm.Errors == nil {
			continue
		}
		lines := []string{vm.Errors.TitleText + ":"}
		for _, item := range vm.Errors.ErrorList {
			lines = append(lines, "  - "+item.Text)
		}
		if err := opts.Driver.Info(ctx, strings.Join(lines, "\n")); err != nil {
			return "", err
		}
	}
}

func pageHeading(vm model.ViewModel) string {
	var parts []string
	if vm.SectionTitle != "" {
		parts = append(parts, component.StripTags(vm.SectionTitle))
	}
	if vm.PageTitle != "" {
		parts = append(parts, vm.PageTitle)
	}
	if len(parts) == 0 {
		return "== " + vm.Path
	}
	return "== " + strings.Join(parts, ": ")
}

// promptPage asks for every input of the page and returns the payload to
// submit. Date parts are asked one by one under their compound names.
func promptPage(ctx context.Context, driver PromptDriver, vm model.ViewModel) (map[string]any, error) {
	payload := make(map[string]any)

	for _, c := range vm.Components {
		m := c.Model
		if !c.IsFormComponent {
			if text := contentText(m.Content); text != "" {
				if err := driver.Info(ctx, text); err != nil {
					return nil, err
				}
			}
			continue
		}

		message, help := fieldLabel(m), fieldHelp(m)
		switch c.Type {
		case "DatePartsField":
			for _, part := range m.Items {
				v, err := driver.Input(ctx, InputConfig{
					Message: message + " (" + part.Label + ")",
					Default: valueString(part.Value),
					Help:    help,
				})
				if err != nil {
					return nil, err
				}
				payload[part.Name] = v
			}
		case "YesNoField", "RadiosField", "SelectField":
			var options []string
			var values []any
			defaultIndex := -1
			for _, item := range m.Items {
				if item.Text == "" {
					continue
				}
				if item.Checked || item.Selected {
					defaultIndex = len(options)
				}
				options = append(options, item.Text)
				values = append(values, item.Value)
			}
			idx, err := driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: defaultIndex, Help: help})
			if err != nil {
				return nil, err
			}
			if idx >= 0 && idx < len(values) {
				payload[m.Name] = values[idx]
			}
		case "MultilineTextField":
			v, err := driver.TextArea(ctx, InputConfig{Message: message, Default: valueString(m.Value), Help: help})
			if err != nil {
				return nil, err
			}
			payload[m.Name] = v
		default:
			v, err := driver.Input(ctx, InputConfig{Message: message, Default: valueString(m.Value), Help: help})
			if err != nil {
				return nil, err
			}
			payload[m.Name] = v
		}
	}
	return payload, nil
}

func fieldLabel(m component.FieldModel) string {
	if m.Fieldset != nil {
		return m.Fieldset.Legend.Text
	}
	if m.Label != nil {
		return m.Label.Text
	}
	return m.Name
}

func fieldHelp(m component.FieldModel) string {
	var help []string
	if m.ErrorMessage != nil {
		help = append(help, m.ErrorMessage.Text)
	}
	if m.Hint != nil {
		help = append(help, plainText(m.Hint.Text+m.Hint.HTML))
	}
	return strings.Join(help, " ")
}

func contentText(content any) string {
	switch c := content.(type) {
	case string:
		return plainText(c)
	case []component.Card:
		lines := make([]string, len(c))
		for i, card := range c {
			lines[i] = fmt.Sprintf("* %s: %s", card.Title, card.Text)
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(component.StripTags(s)))
}

func valueString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
