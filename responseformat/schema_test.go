package responseformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ScoreType(t *testing.T) {
	doc, name, strict, err := Resolve(Score{})
	require.NoError(t, err)
	assert.Equal(t, "Score", name)
	assert.True(t, strict)
	assert.Equal(t, "object", doc.Type)
	assert.Contains(t, doc.Properties, "score")
	assert.Contains(t, doc.Properties, "reason")
	assert.ElementsMatch(t, []string{"score", "reason"}, doc.Required)
	assert.Equal(t, "integer", doc.Properties["score"].Type)
	assert.Equal(t, "string", doc.Properties["reason"].Type)
}

func TestResolve_OmitemptyFieldIsNotRequiredAndDowngradesStrict(t *testing.T) {
	type Loose struct {
		Required string `json:"required"`
		Optional string `json:"optional,omitempty"`
	}
	doc, _, strict, err := Resolve(Loose{})
	require.NoError(t, err)
	assert.False(t, strict)
	assert.Contains(t, doc.Required, "required")
	assert.NotContains(t, doc.Required, "optional")
}

func TestResolve_MapFieldDowngradesStrict(t *testing.T) {
	type WithMap struct {
		Data map[string]string `json:"data"`
	}
	_, _, strict, err := Resolve(WithMap{})
	require.NoError(t, err)
	assert.False(t, strict)
}

func TestResolve_NestedStructAndSlice(t *testing.T) {
	type Item struct {
		Name string `json:"name"`
	}
	type Basket struct {
		Items []Item `json:"items"`
	}
	doc, _, strict, err := Resolve(Basket{})
	require.NoError(t, err)
	assert.True(t, strict)
	assert.Equal(t, "array", doc.Properties["items"].Type)
	assert.Equal(t, "object", doc.Properties["items"].Items.Type)
}

func TestResolve_RejectsNonStruct(t *testing.T) {
	_, _, _, err := Resolve(42)
	assert.Error(t, err)
}

func TestResolve_IsCachedBySameType(t *testing.T) {
	doc1, _, _, err := Resolve(Score{})
	require.NoError(t, err)
	doc2, _, _, err := Resolve(Score{})
	require.NoError(t, err)
	assert.Same(t, doc1, doc2, "repeated Resolve calls for the same type must return the cached document")
}

func TestMemoryCache_GetSetClear(t *testing.T) {
	c := NewMemoryCache(10, 0)
	ctx := t.Context()

	_, _, _, found, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	doc := &Document{Type: "object"}
	require.NoError(t, c.Set(ctx, "k", doc, "K", true, 0))

	got, name, strict, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "K", name)
	assert.True(t, strict)
	assert.Same(t, doc, got)

	require.NoError(t, c.Clear(ctx))
	_, _, _, found, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolver_UsesCache(t *testing.T) {
	cache := NewMemoryCache(10, 0)
	r := NewResolver(cache)
	ctx := t.Context()

	_, _, _, err := r.Resolve(ctx, Score{})
	require.NoError(t, err)
	stats := cache.Stats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, 1, stats.Size)

	_, _, _, err = r.Resolve(ctx, Score{})
	require.NoError(t, err)
	stats = cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
}
