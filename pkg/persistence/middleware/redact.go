package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks the values of keys
// matching any of the patterns before they reach the store. Nested maps and
// lists are searched too. Load returns what was stored, masks included.
func NewRedactMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &redactMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactMiddleware) Save(ctx context.Context, key string, state domain.State) error {
	// Mask a copy; the caller's state is live layout state.
	masked := state.Clone()
	m.mask(masked)
	return m.next.Save(ctx, key, masked)
}

func (m *redactMiddleware) Load(ctx context.Context, key string) (domain.State, error) {
	return m.next.Load(ctx, key)
}

func (m *redactMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *redactMiddleware) mask(v map[string]any) {
	for k, val := range v {
		if m.matches(k) {
			v[k] = Mask
			continue
		}
		m.maskValue(val)
	}
}

func (m *redactMiddleware) maskValue(v any) {
	switch x := v.(type) {
	case map[string]any:
		m.mask(x)
	case domain.State:
		m.mask(x)
	case []any:
		for _, item := range x {
			m.maskValue(item)
		}
	}
}
