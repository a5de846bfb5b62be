package geochip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsTransformer(t *testing.T) {
	chip := NewChip(1, 5, 1, DTypeFloat32)
	copy(chip.Data, []float64{0, 70, 100, 130, 200})
	out, err := StatsTransformer{Means: []float64{100}, Stds: []float64{10}}.Transform(chip, nil)
	require.NoError(t, err)
	assert.Equal(t, DTypeUint8, out.DType)
	assert.Equal(t, []float64{0, 0, 127, 255, 255}, out.Data)
}

func TestStatsTransformerChannelOrder(t *testing.T) {
	chip := NewChip(1, 1, 1, DTypeUint16)
	chip.Data[0] = 100
	st := StatsTransformer{Means: []float64{0, 100}, Stds: []float64{1, 10}}
	out, err := st.Transform(chip, []int{1})
	require.NoError(t, err)
	assert.Equal(t, 127.0, out.Data[0])

	_, err = st.Transform(chip, []int{2})
	assert.ErrorIs(t, err, ErrInvalidChannelOrder)
}

func TestNoopTransformer(t *testing.T) {
	chip := NewChip(1, 1, 1, DTypeInt16)
	out, err := NoopTransformer{}.Transform(chip, nil)
	require.NoError(t, err)
	assert.Same(t, chip, out)
}
