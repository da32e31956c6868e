package codec_test

import (
	"testing"

	"github.com/aretw0/layout/pkg/codec"
	"github.com/aretw0/layout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecs_DecodeNestedMaps(t *testing.T) {
	state := domain.State{
		"sorting":    []any{map[string]any{"id": "name", "desc": true}},
		"pagination": map[string]any{"pageIndex": 2},
	}

	for _, name := range []string{"json", "yaml", "cbor"} {
		t.Run(name, func(t *testing.T) {
			c, err := codec.ByName(name)
			require.NoError(t, err)

			data, err := c.Marshal(state)
			require.NoError(t, err)

			var got domain.State
			require.NoError(t, c.Unmarshal(data, &got))

			pagination, ok := got["pagination"].(map[string]any)
			require.True(t, ok, "got %T", got["pagination"])
			assert.EqualValues(t, 2, pagination["pageIndex"])

			sorting, ok := got["sorting"].([]any)
			require.True(t, ok)
			first, ok := sorting[0].(map[string]any)
			require.True(t, ok, "got %T", sorting[0])
			assert.Equal(t, "name", first["id"])
		})
	}
}

func TestByName(t *testing.T) {
	c, err := codec.ByName("")
	require.NoError(t, err)
	assert.Equal(t, ".json", c.Extension())

	c, err = codec.ByName("yml")
	require.NoError(t, err)
	assert.Equal(t, "application/x-yaml", c.ContentType())

	c, err = codec.ByName("cbor")
	require.NoError(t, err)
	assert.Equal(t, ".cbor", c.Extension())

	_, err = codec.ByName("toml")
	assert.Error(t, err)
}

func TestCBORCodec_Deterministic(t *testing.T) {
	c := codec.CBORCodec{}
	a, err := c.Marshal(domain.State{"b": 1, "a": 2, "c": 3})
	require.NoError(t, err)
	b, err := c.Marshal(domain.State{"c": 3, "a": 2, "b": 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
