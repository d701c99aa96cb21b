package ports

import (
	"context"

	"github.com/aretw0/formwork/pkg/model"
)

// SubmitResult is the outcome of posting a page.
// When View is set the submission was rejected and the page must be shown
// again with its errors; otherwise Redirect holds the URL to go to next.
type SubmitResult struct {
	View     *model.ViewModel `json:"view,omitempty"`
	Next     string           `json:"next,omitempty"`
	Redirect string           `json:"redirect,omitempty"`
}

// FormEngine is the request flow the transport adapters (HTTP, MCP, CLI) drive.
type FormEngine interface {
	// Forms lists the identifiers of the registered forms.
	Forms() []string

	// StartPath returns where a new visit to the form begins.
	StartPath(formID string) (string, error)

	// RenderPage builds the view of a page from the stored answers.
	RenderPage(ctx context.Context, formID, path, sessionID, lang string) (model.ViewModel, error)

	// SubmitPage validates a page payload and, when valid, stores the answers.
	SubmitPage(ctx context.Context, formID, path, sessionID string, payload map[string]any, returnURL string) (SubmitResult, error)

	// Summary lists the answers given along the path through the form.
	Summary(ctx context.Context, formID, sessionID, lang string) ([]model.SummaryRow, error)
}
