package geochip

import (
	"fmt"

	"github.com/wgdzlh/geochip/log"

	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

// Dataset is an open raster handle. Bands are 0-based here.
type Dataset interface {
	Width() int
	Height() int
	BandCount() int
	IsAlpha(band int) bool
	NoData(band int) (value float64, ok bool)
	DataType(band int) DType
	// 读取band在(x, y)起、w*h大小的窗口（须位于影像范围内），按行写入buf
	ReadBand(band, x, y, w, h int, buf []float64) error
	GeoTransform() GeoTransform
	Projection() string
	Close() error
}

// Opener opens a local (or GDAL virtual) raster path.
type Opener interface {
	Open(path string) (Dataset, error)
}

// 基于GDAL的栅格读取
type GdalOpener struct{}

func (GdalOpener) Open(path string) (Dataset, error) {
	ds, err := gdal.Open(path, gdal.ReadOnly)
	if err != nil {
		log.Error("GdalOpener:open raster failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrRasterOpen, path, err)
	}
	if ds.RasterCount() == 0 {
		ds.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmptyRaster, path)
	}
	return &gdalDataset{ds: ds, path: path}, nil
}

type gdalDataset struct {
	ds   gdal.Dataset
	path string
}

func (d *gdalDataset) Width() int {
	return d.ds.RasterXSize()
}

func (d *gdalDataset) Height() int {
	return d.ds.RasterYSize()
}

func (d *gdalDataset) BandCount() int {
	return d.ds.RasterCount()
}

func (d *gdalDataset) band(i int) gdal.RasterBand {
	return d.ds.RasterBand(i + 1)
}

func (d *gdalDataset) IsAlpha(band int) bool {
	return d.band(band).ColorInterp() == gdal.CI_AlphaBand
}

func (d *gdalDataset) NoData(band int) (float64, bool) {
	return d.band(band).NoDataValue()
}

func (d *gdalDataset) DataType(band int) DType {
	return dtypeOf(d.band(band).RasterDataType())
}

func (d *gdalDataset) ReadBand(band, x, y, w, h int, buf []float64) error {
	if len(buf) < w*h {
		return fmt.Errorf("%w: buffer %d < %d*%d", ErrRasterRead, len(buf), w, h)
	}
	if err := d.band(band).IO(gdal.Read, x, y, w, h, buf, w, h, 0, 0); err != nil {
		log.Error("GdalOpener:read band failed", zap.String("path", d.path), zap.Int("band", band), zap.Error(err))
		return fmt.Errorf("%w: band %d: %v", ErrRasterRead, band, err)
	}
	return nil
}

func (d *gdalDataset) GeoTransform() GeoTransform {
	return GeoTransform(d.ds.GeoTransform())
}

func (d *gdalDataset) Projection() string {
	return d.ds.Projection()
}

func (d *gdalDataset) Close() error {
	d.ds.Close()
	return nil
}

func dtypeOf(dt gdal.DataType) DType {
	switch dt {
	case gdal.Byte:
		return DTypeUint8
	case gdal.UInt16:
		return DTypeUint16
	case gdal.Int16:
		return DTypeInt16
	case gdal.UInt32:
		return DTypeUint32
	case gdal.Int32:
		return DTypeInt32
	case gdal.Float32:
		return DTypeFloat32
	case gdal.Float64:
		return DTypeFloat64
	}
	return DTypeUnknown
}
