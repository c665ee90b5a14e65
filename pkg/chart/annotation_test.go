package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/chartkit/pkg/errors"
	"github.com/matzehuels/chartkit/pkg/optree"
)

func TestAddYAxisAnnotation(t *testing.T) {
	c := New("line", WithID("a"))
	c.AddYAxisAnnotation(50, "Target", map[string]any{"strokeDashArray": 3})
	require.NoError(t, c.Err())

	list := c.Tree().Get("annotations.yaxis", optree.Null()).ToList()
	require.NotNil(t, list)
	require.Equal(t, 1, list.Len())

	entity, err := optree.FromValue(list.At(0))
	require.NoError(t, err)
	assert.Equal(t, int64(3), entity.Get("strokeDashArray", optree.Null()).ToInt())
	assert.Equal(t, "#775DD0", entity.Get("label.style.background", optree.Null()).ToString())
	assert.Equal(t, "#fff", entity.Get("label.style.color", optree.Null()).ToString())
	assert.Equal(t, "Target", entity.Get("label.text", optree.Null()).ToString())
	assert.Equal(t, "horizontal", entity.Get("label.orientation", optree.Null()).ToString())
	assert.Equal(t, int64(50), entity.Get("y", optree.Null()).ToInt())
}

func TestAnnotationOverridesNestedMap(t *testing.T) {
	c := New("line", WithID("a"))
	c.AddXAxisAnnotation("Feb", "", map[string]any{
		"label": map[string]any{"style": map[string]any{"background": "#000"}, "text": "T"},
	})
	require.NoError(t, c.Err())

	entity, err := optree.FromValue(c.Tree().Get("annotations.xaxis", optree.Null()).ToList().At(0))
	require.NoError(t, err)
	assert.Equal(t, "#000", entity.Get("label.style.background", optree.Null()).ToString())
	assert.Equal(t, "#fff", entity.Get("label.style.color", optree.Null()).ToString())
	assert.Equal(t, "T", entity.Get("label.text", optree.Null()).ToString())
	assert.Equal(t, "vertical", entity.Get("label.orientation", optree.Null()).ToString())
}

func TestAnnotationsKeepOrderAndDoNotShare(t *testing.T) {
	c := New("line", WithID("a"))
	c.AddPointAnnotation(1, 10, "first", nil)
	c.AddPointAnnotation(2, 20, "second", nil)
	require.NoError(t, c.Err())

	list := c.Tree().Get("annotations.points", optree.Null()).ToList()
	require.Equal(t, 2, list.Len())

	first, _ := optree.FromValue(list.At(0))
	second, _ := optree.FromValue(list.At(1))
	assert.Equal(t, "first", first.Get("label.text", optree.Null()).ToString())
	assert.Equal(t, "second", second.Get("label.text", optree.Null()).ToString())
	assert.Equal(t, int64(4), first.Get("marker.size", optree.Null()).ToInt())

	require.NoError(t, first.Set("marker.size", 9))
	assert.Equal(t, int64(4), second.Get("marker.size", optree.Null()).ToInt())
}

func TestAnnotationDoesNotModifyOptions(t *testing.T) {
	opts := map[string]any{"borderColor": "#f00"}
	New("line").AddYAxisAnnotation(1, "x", opts)
	assert.Equal(t, map[string]any{"borderColor": "#f00"}, opts)
}

func TestAnnotationErrors(t *testing.T) {
	c := New("line").AddAnnotation("circle", nil)
	assert.True(t, errs.Is(c.Err(), errs.ErrCodeInvalidInput))

	c = New("line").AddPointAnnotation(1, 1, "x", map[string]any{"label": "plain"})
	assert.True(t, errs.Is(c.Err(), errs.ErrCodePathConflict))

	_, err := ParseAnnotationKind("circle")
	assert.Error(t, err)
	k, err := ParseAnnotationKind("xaxis")
	require.NoError(t, err)
	assert.Equal(t, AnnotationXAxis, k)
}
