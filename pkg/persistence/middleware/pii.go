package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/formwork/pkg/domain"
	"github.com/aretw0/formwork/pkg/ports"
)

// Mask replaces masked answers.
const Mask = "***"

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks, on Load, the answers
// whose field name matches any of the patterns, at any depth. Saving is
// passed through untouched, so the wrapped store is meant for reading
// sessions out (inspection, exports), never for the engine itself.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, key string, state domain.State) error {
	return m.next.Save(ctx, key, state)
}

func (m *piiMiddleware) Load(ctx context.Context, key string) (domain.State, error) {
	state, err := m.next.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	masked := state.Clone()
	maskMap(masked, m.patterns)
	return masked, nil
}

func (m *piiMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
			continue
		}
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = Mask
				break
			}
		}
	}
}
