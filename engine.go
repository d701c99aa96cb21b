package formwork

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/formwork/internal/logging"
	"github.com/aretw0/formwork/pkg/adapters/memory"
	"github.com/aretw0/formwork/pkg/component"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/locale"
	"github.com/aretw0/formwork/pkg/model"
	"github.com/aretw0/formwork/pkg/ports"
	"github.com/aretw0/formwork/pkg/session"
)

// Engine runs the page flow of every published form: it renders pages from
// stored answers, validates submissions, merges answers into the session and
// resolves where to go next. It is safe for concurrent use.
type Engine struct {
	forms    *Forms
	sessions *session.Manager

	store           ports.StateStore
	locker          ports.DistributedLocker
	lockTTL         time.Duration
	hooks           domain.LifecycleHooks
	logger          *slog.Logger
	defaultNextPath string
	components      *component.Registry
}

var _ ports.FormEngine = (*Engine)(nil)

// New creates an Engine with no forms published.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}

	modelOpts := []model.Option{model.WithLogger(e.logger)}
	if e.defaultNextPath != "" {
		modelOpts = append(modelOpts, model.WithDefaultNextPath(e.defaultNextPath))
	}
	if e.components != nil {
		modelOpts = append(modelOpts, model.WithComponentRegistry(e.components))
	}
	e.forms = NewForms(modelOpts...)

	sessionOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
		if e.lockTTL > 0 {
			sessionOpts = append(sessionOpts, session.WithLockTTL(e.lockTTL))
		}
	}
	e.sessions = session.NewManager(e.store, sessionOpts...)

	return e
}

// Registry returns the forms registry.
func (e *Engine) Registry() *Forms { return e.forms }

// Sessions returns the session manager.
func (e *Engine) Sessions() *session.Manager { return e.sessions }

// Forms lists the published form identifiers.
func (e *Engine) Forms() []string { return e.forms.IDs() }

// Model returns the compiled model of a form.
func (e *Engine) Model(formID string) (*model.Model, error) {
	return e.forms.Get(formID)
}

// Publish builds def and makes it the live version of formID.
func (e *Engine) Publish(ctx context.Context, formID string, def domain.FormDefinition) error {
	m, err := e.forms.Publish(formID, def)
	if err != nil {
		e.logger.Warn("Publish rejected", "form_id", formID, "err", err)
		return err
	}
	e.published(ctx, formID, m)
	return nil
}

// LoadAll reads every definition from loader and replaces all published
// forms with them. Nothing is replaced when any definition fails.
func (e *Engine) LoadAll(ctx context.Context, loader ports.DefinitionLoader) error {
	ids, err := loader.List()
	if err != nil {
		return err
	}

	defs := make(map[string]domain.FormDefinition, len(ids))
	var errs []error
	for _, id := range ids {
		def, err := loader.Get(id)
		if err != nil {
			errs = append(errs, fmt.Errorf("form %q: %w", id, err))
			continue
		}
		defs[id] = def
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	models, err := e.forms.ReplaceAll(defs)
	if err != nil {
		return err
	}
	for _, id := range ids {
		e.published(ctx, id, models[id])
	}
	return nil
}

func (e *Engine) published(ctx context.Context, formID string, m *model.Model) {
	e.logger.Info("Form published", "form_id", formID, "pages", len(m.Pages()))
	if e.hooks.OnPublish != nil {
		e.hooks.OnPublish(ctx, &domain.PublishEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPublish, FormID: formID},
			Pages:     len(m.Pages()),
		})
	}
}

// StartPath returns where a new visit to the form begins: "/{formID}/{start}",
// or the start page unchanged when it is an absolute http(s) URL.
func (e *Engine) StartPath(formID string) (string, error) {
	m, err := e.forms.Get(formID)
	if err != nil {
		return "", err
	}
	start := strings.Trim(m.StartPage(), "/")
	if strings.HasPrefix(start, "http://") || strings.HasPrefix(start, "https://") {
		return start, nil
	}
	return "/" + formID + "/" + start, nil
}

func (e *Engine) page(formID, path string) (*model.Model, *model.Page, error) {
	m, err := e.forms.Get(formID)
	if err != nil {
		return nil, nil, err
	}
	p, ok := m.Page(path)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s/%s", domain.ErrPageNotFound, formID, strings.Trim(path, "/"))
	}
	return m, p, nil
}

// RenderPage builds the view of a page pre-filled with the stored answers.
func (e *Engine) RenderPage(ctx context.Context, formID, path, sessionID, lang string) (model.ViewModel, error) {
	_, p, err := e.page(formID, path)
	if err != nil {
		return model.ViewModel{}, err
	}
	state, err := e.sessions.Load(ctx, formID, sessionID)
	if err != nil {
		return model.ViewModel{}, err
	}

	formData := p.FormDataFromState(state)
	formData[domain.KeyLanguage] = locale.Match(lang)
	return p.ViewModel(formData, nil), nil
}

// SubmitPage validates payload against the page. Invalid input is answered
// with the page view and its errors, built from the submitted payload. Valid
// input is merged into the session and the result names the next page.
func (e *Engine) SubmitPage(ctx context.Context, formID, path, sessionID string, payload map[string]any, returnURL string) (ports.SubmitResult, error) {
	_, p, err := e.page(formID, path)
	if err != nil {
		return ports.SubmitResult{}, err
	}
	event := &domain.SubmitEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSubmit, FormID: formID},
		SessionID: sessionID,
		Page:      p.Path,
	}
	if payload == nil {
		payload = map[string]any{}
	}

	form, errs := p.ValidateForm(payload)
	if errs != nil {
		return e.rejected(ctx, p, payload, errs, event, domain.OutcomeFormInvalid), nil
	}

	value, errs := p.ValidateState(p.StateFromValidForm(form))
	if errs != nil {
		return e.rejected(ctx, p, payload, errs, event, domain.OutcomeStateInvalid), nil
	}

	update := p.PartialMergeState(value)
	state, err := e.sessions.Merge(ctx, formID, sessionID, update)
	if err != nil {
		e.failed(ctx, event, err)
		return ports.SubmitResult{}, err
	}

	next, err := p.Next(state)
	if err != nil {
		e.failed(ctx, event, err)
		return ports.SubmitResult{}, err
	}

	event.Outcome = domain.OutcomeAccepted
	event.Next = next
	event.Changes = update
	e.emit(ctx, event)

	return ports.SubmitResult{
		Next:     next,
		Redirect: ProceedURL(formID, next, returnURL, false),
	}, nil
}

func (e *Engine) rejected(ctx context.Context, p *model.Page, payload map[string]any, errs *model.ErrorSummary, event *domain.SubmitEvent, outcome domain.SubmitOutcome) ports.SubmitResult {
	event.Outcome = outcome
	event.Errors = errs.Len()
	e.emit(ctx, event)

	vm := p.ViewModel(payload, errs)
	return ports.SubmitResult{View: &vm}
}

func (e *Engine) failed(ctx context.Context, event *domain.SubmitEvent, err error) {
	event.Outcome = domain.OutcomeFailed
	e.logger.Error("Page submission failed",
		"form_id", event.FormID,
		"page", event.Page,
		"session_id", event.SessionID,
		"err", err,
	)
	e.emit(ctx, event)
}

func (e *Engine) emit(ctx context.Context, event *domain.SubmitEvent) {
	e.logger.Debug("Page submitted",
		"form_id", event.FormID,
		"page", event.Page,
		"session_id", event.SessionID,
		"outcome", event.Outcome,
		"next", event.Next,
	)
	if e.hooks.OnSubmit != nil {
		e.hooks.OnSubmit(ctx, event)
	}
}

// State returns the stored answers of a session.
func (e *Engine) State(ctx context.Context, formID, sessionID string) (domain.State, error) {
	if _, err := e.forms.Get(formID); err != nil {
		return nil, err
	}
	return e.sessions.Load(ctx, formID, sessionID)
}

// Summary lists the answers given along the path through the form.
func (e *Engine) Summary(ctx context.Context, formID, sessionID, lang string) ([]model.SummaryRow, error) {
	m, err := e.forms.Get(formID)
	if err != nil {
		return nil, err
	}
	state, err := e.sessions.Load(ctx, formID, sessionID)
	if err != nil {
		return nil, err
	}
	return m.Summary(state, locale.Match(lang))
}

// Fees lists the fees that apply to a session.
func (e *Engine) Fees(ctx context.Context, formID, sessionID string) ([]model.Fee, error) {
	m, err := e.forms.Get(formID)
	if err != nil {
		return nil, err
	}
	state, err := e.sessions.Load(ctx, formID, sessionID)
	if err != nil {
		return nil, err
	}
	return m.Fees(state), nil
}
