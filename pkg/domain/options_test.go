package domain_test

import (
	"testing"

	"github.com/aretw0/layout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID int
}

func TestShallowMerge_CandidateWins(t *testing.T) {
	defaults := domain.Options[row]{Values: domain.Values{"a": 1, "b": 2}}
	candidate := domain.Options[row]{Values: domain.Values{"b": 3}}

	got := domain.ShallowMerge(defaults, candidate)

	assert.Equal(t, domain.Values{"a": 1, "b": 3}, got.Values)
	assert.Equal(t, domain.Values{"a": 1, "b": 2}, defaults.Values, "defaults must not be modified")
}

func TestShallowMerge_CoreFields(t *testing.T) {
	var calls int
	defaults := domain.Options[row]{
		Data:                []row{{ID: 1}},
		State:               domain.State{"from": "defaults"},
		OnStateChange:       func(domain.Updater[domain.State]) { calls++ },
		RenderFallbackValue: "fallback",
	}
	candidate := domain.Options[row]{
		Data:     []row{{ID: 2}},
		DebugAll: true,
	}

	got := domain.ShallowMerge(defaults, candidate)

	assert.Equal(t, []row{{ID: 2}}, got.Data)
	assert.Equal(t, domain.State{"from": "defaults"}, got.State)
	assert.True(t, got.DebugAll)
	assert.False(t, got.DebugLayout)
	assert.Equal(t, "fallback", got.RenderFallbackValue)
	require.NotNil(t, got.OnStateChange)
	got.OnStateChange(domain.Set(domain.State{}))
	assert.Equal(t, 1, calls)
}

func TestShallowMerge_EmptySliceIsSet(t *testing.T) {
	defaults := domain.Options[row]{Data: []row{{ID: 1}}}
	got := domain.ShallowMerge(defaults, domain.Options[row]{Data: []row{}})

	assert.Empty(t, got.Data)
	assert.NotNil(t, got.Data)
}

func TestShallowMerge_UnsetFieldsNeverClear(t *testing.T) {
	defaults := domain.Options[row]{
		Data:     []row{{ID: 1}},
		State:    domain.State{"a": 1},
		DebugAll: true,
	}

	got := domain.ShallowMerge(defaults, domain.Options[row]{Data: nil, State: nil, DebugAll: false})

	assert.Equal(t, []row{{ID: 1}}, got.Data)
	assert.Equal(t, domain.State{"a": 1}, got.State)
	assert.True(t, got.DebugAll)

	cleared := domain.ShallowMerge(defaults, domain.Options[row]{Data: []row{}, State: domain.State{}})
	assert.Empty(t, cleared.Data)
	assert.Empty(t, cleared.State)
}

func TestOptions_Value(t *testing.T) {
	opts := domain.Options[row]{Values: domain.Values{"pageSize": 10}}

	v, ok := opts.Value("pageSize")
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	_, ok = opts.Value("missing")
	assert.False(t, ok)
}
