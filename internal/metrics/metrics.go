// Package metrics exposes engine activity as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by the engine lifecycle hooks.
type Metrics struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
	publishes   *prometheus.CounterVec
	pages       *prometheus.GaugeVec
}

// New creates the collectors on a dedicated registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formwork_page_submissions_total",
				Help: "Total number of page submissions by outcome",
			},
			[]string{"form_id", "page", "outcome"},
		),
		fieldErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formwork_field_errors_total",
				Help: "Total number of field errors returned to users",
			},
			[]string{"form_id", "page"},
		),
		publishes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formwork_publishes_total",
				Help: "Total number of form definitions published",
			},
			[]string{"form_id"},
		),
		pages: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "formwork_form_pages",
				Help: "Number of pages of each published form",
			},
			[]string{"form_id"},
		),
	}
	m.registry.MustRegister(
		m.submissions, m.fieldErrors, m.publishes, m.pages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks recording into m. When next is set its
// callbacks run too, after the metric is recorded.
func (m *Metrics) Hooks(next domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPublish: func(ctx context.Context, e *domain.PublishEvent) {
			m.publishes.WithLabelValues(e.FormID).Inc()
			m.pages.WithLabelValues(e.FormID).Set(float64(e.Pages))
			if next.OnPublish != nil {
				next.OnPublish(ctx, e)
			}
		},
		OnSubmit: func(ctx context.Context, e *domain.SubmitEvent) {
			m.submissions.WithLabelValues(e.FormID, e.Page, string(e.Outcome)).Inc()
			if e.Errors > 0 {
				m.fieldErrors.WithLabelValues(e.FormID, e.Page).Add(float64(e.Errors))
			}
			if next.OnSubmit != nil {
				next.OnSubmit(ctx, e)
			}
		},
	}
}
