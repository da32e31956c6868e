package feature_test

import (
	"testing"

	"github.com/aretw0/layout"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/aretw0/layout/pkg/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Capabilities(t *testing.T) {
	f := feature.New[string]("sorting").
		DefaultValues(domain.Values{"enableSorting": true}).
		InitialValues(domain.State{"sorting": []any{}}).
		Augment(func(l *layout.Layout[string]) layout.Extensions {
			return layout.Extensions{"sortingID": l.ID()}
		}).
		Build()

	_, ok := f.(layout.DefaultOptionsProvider[string])
	assert.True(t, ok)
	_, ok = f.(layout.InitialStateProvider)
	assert.True(t, ok)
	_, ok = f.(layout.Augmenter[string])
	assert.True(t, ok)

	l := layout.New(domain.Options[string]{}, layout.WithFeatures(f), layout.WithID[string]("tbl"))

	assert.Equal(t, true, l.Options().Values["enableSorting"])
	assert.Equal(t, domain.State{"sorting": []any{}}, l.InitialState())
	id, ok := layout.ExtensionOf[string](l, "sortingID")
	require.True(t, ok)
	assert.Equal(t, "tbl", id)
}

func TestBuilder_UnsetCapabilitiesPassThrough(t *testing.T) {
	f := feature.New[int]("empty").Build().(*feature.Func[int])

	assert.Equal(t, "empty", f.String())
	assert.Equal(t, domain.Options[int]{}, f.DefaultOptions(nil))
	assert.Equal(t, domain.State{"a": 1}, f.InitialState(domain.State{"a": 1}))
	assert.Nil(t, f.Augment(nil))
	assert.NotPanics(t, func() { f.Attach(nil) })
}

func TestBuilder_OnAttachSeesStub(t *testing.T) {
	var attachedID string
	attached := 0
	f := feature.New[string]("tracker").
		OnAttach(func(l *layout.Layout[string]) {
			attached++
			attachedID = l.ID()
		}).
		Build()

	reg := layout.NewRegistry(f)
	layout.New(domain.Options[string]{}, layout.WithRegistry(reg), layout.WithID[string]("a"))
	layout.New(domain.Options[string]{}, layout.WithRegistry(reg), layout.WithID[string]("b"))

	assert.Equal(t, 2, attached, "once per layout")
	assert.Equal(t, "b", attachedID)
}

func TestBuilder_InitialValuesKeepSeed(t *testing.T) {
	f := feature.New[int]("pagination").
		InitialValues(domain.State{"pageIndex": 0, "pageSize": 10}).
		Build().(*feature.Func[int])

	got := f.InitialState(domain.State{"pageSize": 25})

	assert.Equal(t, domain.State{"pageIndex": 0, "pageSize": 25}, got)
}

func TestBuilder_BuildReturnsIndependentCopies(t *testing.T) {
	b := feature.New[int]("f").DefaultValues(domain.Values{"v": 1})
	first := b.Build()

	b.DefaultValues(domain.Values{"v": 2})
	second := b.Build()

	d1 := first.(layout.DefaultOptionsProvider[int]).DefaultOptions(nil)
	d2 := second.(layout.DefaultOptionsProvider[int]).DefaultOptions(nil)
	assert.Equal(t, 1, d1.Values["v"])
	assert.Equal(t, 2, d2.Values["v"])
}
