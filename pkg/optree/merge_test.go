package optree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTree(t *testing.T, in map[string]any) *Tree {
	t.Helper()
	tr, err := FromMap(in)
	require.NoError(t, err)
	return tr
}

func TestMergeDefaultsAnnotation(t *testing.T) {
	defaults := New()
	require.NoError(t, defaults.Set("strokeDashArray", 3))
	require.NoError(t, defaults.Set("label.style.background", "#775DD0"))
	require.NoError(t, defaults.Set("label.text", "T"))
	overrides := mustTree(t, map[string]any{"label": map[string]any{"text": "Override"}})

	got := MergeDefaults(defaults, overrides)
	assert.Equal(t, `{"strokeDashArray":3,"label":{"style":{"background":"#775DD0"},"text":"Override"}}`, got.String())
}

func TestMergeDefaultsRules(t *testing.T) {
	tests := []struct {
		name      string
		defaults  map[string]any
		overrides map[string]any
		want      string
	}{
		{
			name:      "list replaced outright",
			defaults:  map[string]any{"colors": []any{"a", "b", "c"}},
			overrides: map[string]any{"colors": []any{"z"}},
			want:      `{"colors":["z"]}`,
		},
		{
			name:      "leaf replaces map",
			defaults:  map[string]any{"label": map[string]any{"text": "x"}},
			overrides: map[string]any{"label": false},
			want:      `{"label":false}`,
		},
		{
			name:      "map replaces leaf",
			defaults:  map[string]any{"label": "x"},
			overrides: map[string]any{"label": map[string]any{"text": "y"}},
			want:      `{"label":{"text":"y"}}`,
		},
		{
			name:      "null override wins",
			defaults:  map[string]any{"max": 10},
			overrides: map[string]any{"max": nil},
			want:      `{"max":null}`,
		},
		{
			name:      "override only keys kept",
			defaults:  map[string]any{"a": 1},
			overrides: map[string]any{"b": 2},
			want:      `{"a":1,"b":2}`,
		},
		{
			name:      "empty override",
			defaults:  map[string]any{"a": map[string]any{"b": 1}},
			overrides: map[string]any{},
			want:      `{"a":{"b":1}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeDefaults(mustTree(t, tt.defaults), mustTree(t, tt.overrides))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestMergeDefaultsDoesNotMutateInputs(t *testing.T) {
	defaults := mustTree(t, map[string]any{"label": map[string]any{"style": map[string]any{"color": "#fff"}}, "points": []any{1}})
	overrides := mustTree(t, map[string]any{"label": map[string]any{"text": "x"}, "extra": map[string]any{"k": 1}})
	defBefore, overBefore := defaults.String(), overrides.String()

	got := MergeDefaults(defaults, overrides)
	require.NoError(t, got.Set("label.style.color", "#000"))
	require.NoError(t, got.Append("points", 2))
	require.NoError(t, got.Set("extra.k", 2))

	assert.Equal(t, defBefore, defaults.String())
	assert.Equal(t, overBefore, overrides.String())
}

func TestMergeDefaultsReusedAcrossEntities(t *testing.T) {
	defaults := mustTree(t, map[string]any{"marker": map[string]any{"size": 4}})

	a := MergeDefaults(defaults, mustTree(t, map[string]any{"x": 1}))
	b := MergeDefaults(defaults, mustTree(t, map[string]any{"x": 2}))
	require.NoError(t, a.Set("marker.size", 8))

	assert.Equal(t, int64(8), a.Get("marker.size", Null()).ToInt())
	assert.Equal(t, int64(4), b.Get("marker.size", Null()).ToInt())
}

func TestMergeDefaultsNil(t *testing.T) {
	d := mustTree(t, map[string]any{"a": 1})
	assert.Equal(t, `{"a":1}`, MergeDefaults(d, nil).String())
	assert.Equal(t, `{"a":1}`, MergeDefaults(nil, d).String())
	assert.Equal(t, `{}`, MergeDefaults(nil, nil).String())
}

func TestTreeMerge(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Set("chart.type", "line"))
	require.NoError(t, tr.Set("chart.height", 300))
	require.NoError(t, tr.Append("colors", "#fff"))

	over := mustTree(t, map[string]any{
		"chart":  map[string]any{"height": 500, "zoom": map[string]any{"enabled": true}},
		"colors": []any{"#000"},
	})
	tr.Merge(over)
	assert.Equal(t, `{"chart":{"type":"line","height":500,"zoom":{"enabled":true}},"colors":["#000"]}`, tr.String())

	require.NoError(t, tr.Set("chart.zoom.enabled", false))
	assert.True(t, over.Get("chart.zoom.enabled", Null()).ToBool())

	tr.Merge(nil)
	assert.Equal(t, 4, tr.Len())
}
