package geochip

import (
	"errors"
	"path/filepath"
)

// 内存栅格，bands[b]按行存储
type fakeDataset struct {
	w, h   int
	bands  [][]float64
	alpha  map[int]bool
	nodata map[int]float64
	dtype  DType
	dtypes map[int]DType
	gt     GeoTransform
	wkt    string
	closed int
}

// 像素值为 1 + band*100 + row*w + col
func newFakeDataset(w, h, nBands int) *fakeDataset {
	ds := &fakeDataset{
		w: w, h: h,
		alpha:  map[int]bool{},
		nodata: map[int]float64{},
		dtype:  DTypeFloat32,
		dtypes: map[int]DType{},
		gt:     GeoTransform{0, 1, 0, 0, 0, 1},
	}
	for b := 0; b < nBands; b++ {
		data := make([]float64, w*h)
		for i := range data {
			data[i] = float64(1 + b*100 + i)
		}
		ds.bands = append(ds.bands, data)
	}
	return ds
}

func (d *fakeDataset) value(band, row, col int) float64 {
	return d.bands[band][row*d.w+col]
}

func (d *fakeDataset) Width() int { return d.w }
func (d *fakeDataset) Height() int { return d.h }
func (d *fakeDataset) BandCount() int { return len(d.bands) }
func (d *fakeDataset) IsAlpha(band int) bool { return d.alpha[band] }
func (d *fakeDataset) DataType(band int) DType {
	if dt, ok := d.dtypes[band]; ok {
		return dt
	}
	return d.dtype
}
func (d *fakeDataset) GeoTransform() GeoTransform { return d.gt }
func (d *fakeDataset) Projection() string { return d.wkt }
func (d *fakeDataset) Close() error { d.closed++; return nil }
func (d *fakeDataset) NoData(band int) (float64, bool) {
	v, ok := d.nodata[band]
	return v, ok
}

func (d *fakeDataset) ReadBand(band, x, y, w, h int, buf []float64) error {
	if x < 0 || y < 0 || x+w > d.w || y+h > d.h {
		return ErrRasterRead
	}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			buf[r*w+c] = d.value(band, y+r, x+c)
		}
	}
	return nil
}

type fakeOpener struct {
	ds     *fakeDataset
	opened []string
}

func (o *fakeOpener) Open(path string) (Dataset, error) {
	o.opened = append(o.opened, path)
	return o.ds, nil
}

var errDownload = errors.New("download failed")

// 记录每次请求的临时目录
type fakeProvider struct {
	crs          CRSTransformer
	failDownload bool
	probeDirs    []string
	activeDirs   []string
}

func (p *fakeProvider) ImagePath(tmpDir string, download bool) (string, error) {
	if !download {
		p.probeDirs = append(p.probeDirs, tmpDir)
		return "probe.tif", nil
	}
	p.activeDirs = append(p.activeDirs, tmpDir)
	if p.failDownload {
		return "", errDownload
	}
	return filepath.Join(tmpDir, "image.tif"), nil
}

func (p *fakeProvider) CRSTransformer(Dataset) (CRSTransformer, error) {
	if p.crs == nil {
		return IdentityTransformer{}, nil
	}
	return p.crs, nil
}

type countingReader struct {
	data  []byte
	calls int
}

func (r *countingReader) ReadGeoJSON() ([]byte, error) {
	r.calls++
	return r.data, nil
}

// 经纬度格网：左上角(100, 30)，分辨率0.001度
var testGeoTransform = GeoTransform{100, 0.001, 0, 30, 0, -0.001}
