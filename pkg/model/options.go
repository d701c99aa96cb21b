package model

import (
	"log/slog"

	"github.com/aretw0/formwork/pkg/component"
)

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used for load-time warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithComponentRegistry replaces the built-in component types.
func WithComponentRegistry(reg *component.Registry) Option {
	return func(m *Model) {
		m.components = reg
	}
}

// WithDefaultNextPath sets where navigation goes from a page without edges
// (default: "/summary").
func WithDefaultNextPath(path string) Option {
	return func(m *Model) {
		m.defaultNextPath = path
	}
}
