package geochip

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotActivated        = errors.New("raster source must be activated before use")
	ErrInvalidChannelOrder = errors.New("invalid channel order")
	ErrUnsupportedCRS      = errors.New("unsupported CRS")
	ErrUnresolvedClass     = errors.New("unresolved class id")
	ErrMosaicBuildFailed   = errors.New("mosaic build failed")
	ErrMalformedGeometry   = errors.New("malformed geometry")

	ErrDTypeMismatch   = errors.New("chip dtype differs from probed dtype")
	ErrUnsupportedURI  = errors.New("unsupported uri")
	ErrEmptyImageURIs  = errors.New("no image uris")
	ErrRasterOpen      = errors.New("raster open err")
	ErrRasterRead      = errors.New("raster read err")
	ErrEmptyRaster     = errors.New("raster has no usable bands")
	ErrWrongGeoJSON    = errors.New("wrong GeoJSON")
	ErrLabelLength     = errors.New("label slices differ in length")
	ErrUnsupportedGeom = errors.New("unsupported geometry type")
)

// 单个要素的处理错误
type FeatureError struct {
	Index int
	Err   error
}

func (e FeatureError) Error() string {
	return fmt.Sprintf("feature %d: %v", e.Index, e.Err)
}

func (e FeatureError) Unwrap() error {
	return e.Err
}

// 逐要素错误集合，由调用方决定跳过或中止
type FeatureErrors []FeatureError

func (es FeatureErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d feature(s) failed: %s", len(es), strings.Join(msgs, "; "))
}

func (es FeatureErrors) Unwrap() []error {
	errs := make([]error, len(es))
	for i, e := range es {
		errs[i] = e
	}
	return errs
}
