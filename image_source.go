package geochip

import (
	"github.com/wgdzlh/geochip/utils"
)

// 单景非地理参考影像，像素坐标即地图坐标
type ImageSource struct {
	URI     string
	Fetcher BlobFetcher
}

func NewImageSource(uri string, opts RasterSourceOptions) (*RasterSource, error) {
	return NewRasterSource(ImageSource{URI: uri, Fetcher: opts.Fetcher}, opts)
}

func (s ImageSource) ImagePath(tmpDir string, download bool) (string, error) {
	if !download {
		return utils.GdalPath(s.URI), nil
	}
	fetcher := s.Fetcher
	if fetcher == nil {
		fetcher = LocalFetcher{}
	}
	return fetcher.Fetch(s.URI, tmpDir)
}

func (ImageSource) CRSTransformer(Dataset) (CRSTransformer, error) {
	return IdentityTransformer{}, nil
}
