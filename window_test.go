package geochip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWindowBoundless(t *testing.T) {
	ds := newFakeDataset(4, 4, 2)
	chip, err := LoadWindow(ds, NewBox(-2, -2, 2, 2), []int{0, 1}, true)
	require.NoError(t, err)
	assert.Equal(t, [3]int{4, 4, 2}, chip.Shape())
	assert.Equal(t, DTypeFloat32, chip.DType)
	for r := 0; r < 2; r++ {
		for c := 0; c < 4; c++ {
			assert.Zero(t, chip.At(r, c, 0))
			assert.Zero(t, chip.At(c, r, 1))
		}
	}
	assert.Equal(t, ds.value(0, 0, 0), chip.At(2, 2, 0))
	assert.Equal(t, ds.value(1, 1, 1), chip.At(3, 3, 1))
}

func TestLoadWindowOutside(t *testing.T) {
	ds := newFakeDataset(4, 4, 1)
	chip, err := LoadWindow(ds, NewBox(10, 10, 13, 15), []int{0}, true)
	require.NoError(t, err)
	assert.Equal(t, [3]int{3, 5, 1}, chip.Shape())
	for _, v := range chip.Data {
		assert.Zero(t, v)
	}
}

func TestLoadWindowClipped(t *testing.T) {
	ds := newFakeDataset(4, 4, 1)
	chip, err := LoadWindow(ds, NewBox(2, 2, 6, 6), []int{0}, false)
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, 2, 1}, chip.Shape())
	assert.Equal(t, ds.value(0, 3, 3), chip.At(1, 1, 0))

	chip, err = LoadWindow(ds, NewBox(8, 8, 9, 9), []int{0}, false)
	require.NoError(t, err)
	assert.Equal(t, [3]int{0, 0, 1}, chip.Shape())
}

func TestLoadWindowNoData(t *testing.T) {
	ds := newFakeDataset(2, 2, 2)
	ds.bands[0][0] = 255
	ds.bands[1][0] = 255
	ds.nodata[0] = 255
	chip, err := LoadWindow(ds, NewBox(0, 0, 2, 2), []int{0, 1}, true)
	require.NoError(t, err)
	assert.Zero(t, chip.At(0, 0, 0))
	assert.Equal(t, 255.0, chip.At(0, 0, 1))
	assert.Equal(t, ds.value(0, 1, 1), chip.At(1, 1, 0))
}

func TestChipSelectChannels(t *testing.T) {
	chip := NewChip(1, 2, 3, DTypeUint8)
	copy(chip.Data, []float64{1, 2, 3, 4, 5, 6})
	out, err := chip.SelectChannels([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 6, 4}, out.Data)
	assert.Equal(t, DTypeUint8, out.DType)

	_, err = chip.SelectChannels([]int{3})
	assert.ErrorIs(t, err, ErrInvalidChannelOrder)
}
