package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/formwork/internal/metrics"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := metrics.New()
	var forwarded int
	hooks := m.Hooks(domain.LifecycleHooks{
		OnSubmit: func(context.Context, *domain.SubmitEvent) { forwarded++ },
	})
	ctx := context.Background()

	hooks.OnPublish(ctx, &domain.PublishEvent{EventBase: domain.EventBase{FormID: "household"}, Pages: 6})
	hooks.OnSubmit(ctx, &domain.SubmitEvent{
		EventBase: domain.EventBase{FormID: "household"},
		Page:      "/applicant",
		Outcome:   domain.OutcomeFormInvalid,
		Errors:    2,
	})
	hooks.OnSubmit(ctx, &domain.SubmitEvent{
		EventBase: domain.EventBase{FormID: "household"},
		Page:      "/applicant",
		Outcome:   domain.OutcomeAccepted,
	})

	assert.Equal(t, 2, forwarded)

	body := scrape(t, m)
	for _, want := range []string{
		`formwork_page_submissions_total{form_id="household",outcome="accepted",page="/applicant"} 1`,
		`formwork_page_submissions_total{form_id="household",outcome="form_invalid",page="/applicant"} 1`,
		`formwork_field_errors_total{form_id="household",page="/applicant"} 2`,
		`formwork_form_pages{form_id="household"} 6`,
		`formwork_publishes_total{form_id="household"} 1`,
	} {
		assert.Contains(t, body, want)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.Hooks(domain.LifecycleHooks{}).OnPublish(context.Background(),
		&domain.PublishEvent{EventBase: domain.EventBase{FormID: "f"}, Pages: 1})

	body := scrape(t, m)
	assert.Contains(t, body, `formwork_publishes_total{form_id="f"} 1`)
	assert.Contains(t, body, "go_goroutines")
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
