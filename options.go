package formwork

import (
	"log/slog"
	"time"

	"github.com/aretw0/formwork/pkg/component"
	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore sets where session answers are kept (default: in memory).
func WithStore(store ports.StateStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker adds a distributed lock around every session merge, for
// replicas sharing one store.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = locker
		e.lockTTL = ttl
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithDefaultNextPath sets where navigation goes from a page without edges
// (default: "/summary").
func WithDefaultNextPath(path string) Option {
	return func(e *Engine) {
		e.defaultNextPath = path
	}
}

// WithComponentRegistry replaces the built-in component types, e.g. to add
// custom fields.
func WithComponentRegistry(reg *component.Registry) Option {
	return func(e *Engine) {
		e.components = reg
	}
}
