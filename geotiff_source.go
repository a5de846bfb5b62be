package geochip

import (
	"github.com/wgdzlh/geochip/log"
	"github.com/wgdzlh/geochip/utils"

	"go.uber.org/zap"
)

// 一景或多景地理参考影像，多景时拼接为VRT
type GeoTiffSource struct {
	URIs    []string
	Fetcher BlobFetcher
	Mosaic  MosaicBuilder
}

func NewGeoTiffSource(uris []string, opts RasterSourceOptions) (*RasterSource, error) {
	return NewRasterSource(GeoTiffSource{URIs: uris, Fetcher: opts.Fetcher, Mosaic: opts.Mosaic}, opts)
}

func (s GeoTiffSource) ImagePath(tmpDir string, download bool) (path string, err error) {
	if len(s.URIs) == 0 {
		err = ErrEmptyImageURIs
		return
	}
	fetcher := s.Fetcher
	if fetcher == nil {
		fetcher = LocalFetcher{}
	}
	paths := make([]string, len(s.URIs))
	for i, uri := range s.URIs {
		if !download {
			paths[i] = utils.GdalPath(uri)
			continue
		}
		if paths[i], err = fetcher.Fetch(uri, tmpDir); err != nil {
			log.Error("GeoTiffSource:fetch image failed", zap.String("uri", uri), zap.Error(err))
			return
		}
	}
	if len(paths) == 1 {
		path = paths[0]
		return
	}
	mosaic := s.Mosaic
	if mosaic == nil {
		mosaic = GdalBuildVRT{}
	}
	return mosaic.BuildMosaic(paths, tmpDir)
}

func (GeoTiffSource) CRSTransformer(ds Dataset) (CRSTransformer, error) {
	tf, err := NewAffineTransformer(ds.GeoTransform(), ds.Projection())
	if err != nil {
		return nil, err
	}
	return tf, nil
}
