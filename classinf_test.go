package geochip

import (
	"testing"

	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassMap(t *testing.T) {
	m := ClassMap{2: "water", 1: "building"}
	assert.Equal(t, []int{1, 2}, m.IDs())
	assert.Equal(t, "water", m.Name(2))
	assert.Equal(t, "7", m.Name(7))
	id, ok := m.ID("building")
	assert.True(t, ok)
	assert.Equal(t, 1, id)
	_, ok = m.ID("road")
	assert.False(t, ok)
}

func TestClassInferenceOrder(t *testing.T) {
	ci := NewClassInference(ClassInferenceOptions{
		Rules: []ClassRule{
			{Property: "type", Value: "road", ClassID: 4},
			{Property: "level", Value: "2", ClassID: 5},
		},
		ClassMap: ClassMap{1: "building"},
	})
	cases := []struct {
		props geojson.Properties
		want  int
	}{
		{geojson.Properties{"class_id": 3.0, "type": "road"}, 3},
		{geojson.Properties{"class_id": "6"}, 6},
		{geojson.Properties{"type": "road", "level": 2.0}, 4},
		{geojson.Properties{"level": 2.0}, 5},
		{geojson.Properties{"class_name": "building"}, 1},
	}
	for _, c := range cases {
		got, err := ci.Infer(c.props)
		require.NoError(t, err, c.props)
		assert.Equal(t, c.want, got, c.props)
	}

	_, err := ci.Infer(geojson.Properties{"class_name": "tree"})
	assert.ErrorIs(t, err, ErrUnresolvedClass)
}

func TestClassInferenceDefault(t *testing.T) {
	def := 9
	ci := NewClassInference(ClassInferenceOptions{DefaultClassID: &def})
	got, err := ci.Infer(geojson.Properties{})
	require.NoError(t, err)
	assert.Equal(t, 9, got)

	ci = NewClassInference(ClassInferenceOptions{ClassMap: ClassMap{2: "field"}, InferDefault: true})
	got, err = ci.Infer(nil)
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	ci = NewClassInference(ClassInferenceOptions{ClassMap: ClassMap{1: "a", 2: "b"}, InferDefault: true})
	_, err = ci.Infer(nil)
	assert.ErrorIs(t, err, ErrUnresolvedClass)
}

func TestClassInferenceNonIntegerID(t *testing.T) {
	def := 9
	ci := NewClassInference(ClassInferenceOptions{
		Rules:          []ClassRule{{Property: "type", Value: "road", ClassID: 4}},
		DefaultClassID: &def,
	})
	for _, v := range []interface{}{1.5, "abc", true} {
		_, err := ci.Infer(geojson.Properties{"class_id": v, "type": "road"})
		assert.ErrorIs(t, err, ErrUnresolvedClass, v)
	}
	got, err := ci.Infer(geojson.Properties{"class_id": nil, "type": "road"})
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}
