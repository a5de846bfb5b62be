package geochip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 3个波段，最后一个为alpha
func newTestRaster(t *testing.T, opts RasterSourceOptions) (*RasterSource, *fakeDataset, *fakeProvider) {
	ds := newFakeDataset(4, 4, 3)
	ds.alpha[2] = true
	provider := &fakeProvider{}
	opts.TmpDir = t.TempDir()
	opts.Opener = &fakeOpener{ds: ds}
	rs, err := NewRasterSource(provider, opts)
	require.NoError(t, err)
	return rs, ds, provider
}

func TestRasterSourceProbe(t *testing.T) {
	rs, ds, provider := newTestRaster(t, RasterSourceOptions{})
	assert.Equal(t, 2, rs.NumChannels())
	assert.Equal(t, []int{0, 1}, rs.ChannelOrder())
	assert.Equal(t, NewBox(0, 0, 4, 4), rs.Extent())
	assert.Equal(t, DTypeFloat32, rs.DType())
	assert.Equal(t, IdentityTransformer{}, rs.CRSTransformer())
	assert.False(t, rs.IsActive())
	assert.Equal(t, 1, ds.closed)
	require.Len(t, provider.probeDirs, 1)
	assert.NoDirExists(t, provider.probeDirs[0])
}

func TestRasterSourceRequiresActivation(t *testing.T) {
	rs, ds, provider := newTestRaster(t, RasterSourceOptions{})
	_, err := rs.Chip(NewBox(0, 0, 2, 2))
	assert.ErrorIs(t, err, ErrNotActivated)

	require.NoError(t, rs.Activate())
	assert.True(t, rs.IsActive())
	require.Len(t, provider.activeDirs, 1)
	assert.DirExists(t, provider.activeDirs[0])

	chip, err := rs.Chip(NewBox(-1, -1, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, [3]int{3, 3, 2}, chip.Shape())
	assert.Zero(t, chip.At(0, 0, 0))
	assert.Equal(t, ds.value(1, 0, 0), chip.At(1, 1, 1))

	require.NoError(t, rs.Deactivate())
	assert.False(t, rs.IsActive())
	assert.NoDirExists(t, provider.activeDirs[0])
	assert.Equal(t, 2, ds.closed)
	_, err = rs.RawChip(NewBox(0, 0, 2, 2))
	assert.ErrorIs(t, err, ErrNotActivated)

	// 重复调用为空操作
	assert.NoError(t, rs.Deactivate())
	assert.Equal(t, 2, ds.closed)
}

func TestRasterSourceFailedActivation(t *testing.T) {
	rs, _, provider := newTestRaster(t, RasterSourceOptions{})
	provider.failDownload = true
	err := rs.Activate()
	assert.ErrorIs(t, err, errDownload)
	assert.False(t, rs.IsActive())
	require.Len(t, provider.activeDirs, 1)
	assert.NoDirExists(t, provider.activeDirs[0])
}

func TestRasterSourceActivated(t *testing.T) {
	rs, _, provider := newTestRaster(t, RasterSourceOptions{})
	boom := errors.New("boom")
	err := rs.Activated(func() error {
		img, err := rs.ImageArray()
		require.NoError(t, err)
		assert.Equal(t, [3]int{4, 4, 2}, img.Shape())
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, rs.IsActive())
	assert.NoDirExists(t, provider.activeDirs[0])
}

func TestRasterSourceChannelOrder(t *testing.T) {
	rs, ds, _ := newTestRaster(t, RasterSourceOptions{ChannelOrder: []int{1, 0}})
	assert.Equal(t, []int{1, 0}, rs.ChannelOrder())
	err := rs.Activated(func() error {
		chip, err := rs.Chip(NewBox(0, 0, 1, 1))
		if err != nil {
			return err
		}
		assert.Equal(t, ds.value(1, 0, 0), chip.At(0, 0, 0))
		assert.Equal(t, ds.value(0, 0, 0), chip.At(0, 0, 1))

		raw, err := rs.RawChip(NewBox(0, 0, 1, 1))
		if err != nil {
			return err
		}
		assert.Equal(t, ds.value(0, 0, 0), raw.At(0, 0, 0))
		return nil
	})
	require.NoError(t, err)

	for _, order := range [][]int{{2}, {0, 0}, {-1}} {
		ds := newFakeDataset(4, 4, 3)
		ds.alpha[2] = true
		_, err := NewRasterSource(&fakeProvider{}, RasterSourceOptions{
			TmpDir: t.TempDir(), ChannelOrder: order, Opener: &fakeOpener{ds: ds},
		})
		assert.ErrorIs(t, err, ErrInvalidChannelOrder, order)
	}
}

func TestRasterSourceTransformDType(t *testing.T) {
	rs, _, _ := newTestRaster(t, RasterSourceOptions{
		Transformers: []RasterTransformer{NoopTransformer{}, StatsTransformer{Means: []float64{8, 108}, Stds: []float64{2, 2}}},
	})
	assert.Equal(t, DTypeUint8, rs.DType())
	err := rs.Activated(func() error {
		chip, err := rs.Chip(NewBox(0, 0, 4, 4))
		if err != nil {
			return err
		}
		assert.Equal(t, DTypeUint8, chip.DType)
		for _, v := range chip.Data {
			assert.True(t, v >= 0 && v <= 255)
		}
		return nil
	})
	require.NoError(t, err)
}

// alpha波段不决定数据类型
func TestRasterSourceDTypeSkipsAlpha(t *testing.T) {
	ds := newFakeDataset(2, 2, 2)
	ds.alpha[0] = true
	ds.dtypes[0] = DTypeUint8
	rs, err := NewRasterSource(&fakeProvider{}, RasterSourceOptions{TmpDir: t.TempDir(), Opener: &fakeOpener{ds: ds}})
	require.NoError(t, err)
	assert.Equal(t, DTypeFloat32, rs.DType())
	assert.Equal(t, 1, rs.NumChannels())
}

func TestRasterSourceAllAlpha(t *testing.T) {
	ds := newFakeDataset(2, 2, 1)
	ds.alpha[0] = true
	_, err := NewRasterSource(&fakeProvider{}, RasterSourceOptions{TmpDir: t.TempDir(), Opener: &fakeOpener{ds: ds}})
	assert.ErrorIs(t, err, ErrEmptyRaster)
}

func TestRasterSourceShift(t *testing.T) {
	ds := newFakeDataset(4, 4, 1)
	ds.gt = testGeoTransform
	provider := &fakeProvider{}
	rs, err := NewRasterSource(provider, RasterSourceOptions{
		TmpDir: t.TempDir(),
		Opener: &fakeOpener{ds: ds},
		Shift:  GeoShift{YShiftMeters: METERS_PER_DEGREE * 0.001},
	})
	require.NoError(t, err)
	err = rs.Activated(func() error {
		chip, err := rs.Chip(NewBox(1, 1, 3, 3))
		if err != nil {
			return err
		}
		// 向北偏移一行
		assert.Equal(t, ds.value(0, 0, 1), chip.At(0, 0, 0))
		return nil
	})
	require.NoError(t, err)
}
