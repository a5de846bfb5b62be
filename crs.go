package geochip

import (
	"fmt"
	"math"
	"strings"

	"github.com/wgdzlh/geochip/log"

	"github.com/lukeroth/gdal"
	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// CRSTransformer maps between pixel (col, row) and map (x, y) coordinates.
// Both directions are total and have no shared mutable state.
type CRSTransformer interface {
	MapToPixel(p orb.Point) orb.Point
	PixelToMap(p orb.Point) orb.Point
}

// 像素坐标即地图坐标
type IdentityTransformer struct{}

func (IdentityTransformer) MapToPixel(p orb.Point) orb.Point { return p }
func (IdentityTransformer) PixelToMap(p orb.Point) orb.Point { return p }

// GDAL geotransform: X = gt[0] + col*gt[1] + row*gt[2], Y = gt[3] + col*gt[4] + row*gt[5]
type GeoTransform [6]float64

func (gt GeoTransform) Apply(x, y float64) (float64, float64) {
	return gt[0] + x*gt[1] + y*gt[2], gt[3] + x*gt[4] + y*gt[5]
}

func (gt GeoTransform) Invert() (inv GeoTransform, ok bool) {
	det := gt[1]*gt[5] - gt[2]*gt[4]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return
	}
	invDet := 1 / det
	inv[1] = gt[5] * invDet
	inv[4] = -gt[4] * invDet
	inv[2] = -gt[2] * invDet
	inv[5] = gt[1] * invDet
	inv[0] = (gt[2]*gt[3] - gt[0]*gt[5]) * invDet
	inv[3] = (-gt[1]*gt[3] + gt[0]*gt[4]) * invDet
	ok = true
	return
}

// 仿射（投影）坐标转换器
type AffineTransformer struct {
	gt        GeoTransform
	inv       GeoTransform
	wkt       string
	projector Projector
}

// 由geotransform和投影WKT构造转换器；WKT为空表示无投影信息（视为WGS84经纬度）
func NewAffineTransformer(gt GeoTransform, wkt string) (t *AffineTransformer, err error) {
	inv, ok := gt.Invert()
	if !ok {
		err = fmt.Errorf("%w: geotransform %v is not invertible", ErrUnsupportedCRS, gt)
		return
	}
	t = &AffineTransformer{gt: gt, inv: inv, wkt: wkt}
	if strings.TrimSpace(wkt) == "" {
		return
	}
	isWgs84, err := checkProjection(wkt)
	if err != nil {
		t = nil
		return
	}
	if !isWgs84 {
		t.projector = gdalProjector{wkt: wkt}
	}
	return
}

func (t *AffineTransformer) MapToPixel(p orb.Point) orb.Point {
	x, y := t.inv.Apply(p[0], p[1])
	return orb.Point{x, y}
}

func (t *AffineTransformer) PixelToMap(p orb.Point) orb.Point {
	x, y := t.gt.Apply(p[0], p[1])
	return orb.Point{x, y}
}

func (t *AffineTransformer) GeoTransform() GeoTransform {
	return t.gt
}

func (t *AffineTransformer) WKT() string {
	return t.wkt
}

// 源坐标系与WGS84间的转换器，源坐标系即WGS84（或未知）时为nil
func (t *AffineTransformer) Projector() Projector {
	return t.projector
}

// Projector converts between a source CRS and WGS84 lon/lat.
type Projector interface {
	ToWGS84(x, y float64) (lon, lat float64, err error)
	FromWGS84(lon, lat float64) (x, y float64, err error)
}

func newSpatialRef(wkt string) (ref gdal.SpatialReference, err error) {
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromWKT(wkt); err != nil {
		ref.Destroy()
		log.Error("CRS:parse projection wkt failed", zap.String("wkt", wkt), zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrUnsupportedCRS, err)
		return
	}
	// 固定为(经度,纬度)/(东,北)的传统GIS轴序，避免新标准下按CRS定义的轴序导致坐标倒置
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	return
}

func newWgs84Ref() (ref gdal.SpatialReference, err error) {
	ref = gdal.CreateSpatialReference("")
	if err = ref.FromEPSG(WGS84_SRID); err != nil {
		ref.Destroy()
		log.Error("CRS:set wgs84 srid failed", zap.Error(err))
		err = fmt.Errorf("%w: %v", ErrUnsupportedCRS, err)
		return
	}
	ref.SetAxisMappingStrategy(gdal.OAMS_TraditionalGisOrder)
	return
}

// 校验投影可解析，并判断是否为WGS84
func checkProjection(wkt string) (isWgs84 bool, err error) {
	ref, err := newSpatialRef(wkt)
	if err != nil {
		return
	}
	defer ref.Destroy()
	wgs84, err := newWgs84Ref()
	if err != nil {
		return
	}
	defer wgs84.Destroy()
	isWgs84 = ref.IsSame(wgs84)
	return
}

// 基于OSR的投影转换，每次调用创建并回收坐标转换对象
type gdalProjector struct {
	wkt string
}

func (p gdalProjector) transform(x, y float64, toWgs84 bool) (ox, oy float64, err error) {
	src, err := newSpatialRef(p.wkt)
	if err != nil {
		return
	}
	defer src.Destroy()
	dst, err := newWgs84Ref()
	if err != nil {
		return
	}
	defer dst.Destroy()
	if !toWgs84 {
		src, dst = dst, src
	}
	ct := gdal.CreateCoordinateTransform(src, dst)
	defer ct.Destroy()
	xs, ys, zs := []float64{x}, []float64{y}, []float64{0}
	if !ct.Transform(1, xs, ys, zs) {
		err = fmt.Errorf("%w: transform (%f, %f) failed", ErrUnsupportedCRS, x, y)
		return
	}
	ox, oy = xs[0], ys[0]
	return
}

func (p gdalProjector) ToWGS84(x, y float64) (lon, lat float64, err error) {
	return p.transform(x, y, true)
}

func (p gdalProjector) FromWGS84(lon, lat float64) (x, y float64, err error) {
	return p.transform(lon, lat, false)
}

// 将几何的每个顶点做坐标转换，返回新几何
func TransformGeometry(g orb.Geometry, f func(orb.Point) orb.Point) orb.Geometry {
	switch g := g.(type) {
	case orb.Point:
		return f(g)
	case orb.MultiPoint:
		out := make(orb.MultiPoint, len(g))
		for i, p := range g {
			out[i] = f(p)
		}
		return out
	case orb.LineString:
		return orb.LineString(transformPoints(g, f))
	case orb.Ring:
		return orb.Ring(transformPoints(g, f))
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(g))
		for i, ls := range g {
			out[i] = orb.LineString(transformPoints(ls, f))
		}
		return out
	case orb.Polygon:
		return transformPolygon(g, f)
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, pg := range g {
			out[i] = transformPolygon(pg, f)
		}
		return out
	case orb.Collection:
		out := make(orb.Collection, len(g))
		for i, sub := range g {
			out[i] = TransformGeometry(sub, f)
		}
		return out
	}
	return g
}

func transformPoints(ps []orb.Point, f func(orb.Point) orb.Point) []orb.Point {
	out := make([]orb.Point, len(ps))
	for i, p := range ps {
		out[i] = f(p)
	}
	return out
}

func transformPolygon(pg orb.Polygon, f func(orb.Point) orb.Point) orb.Polygon {
	out := make(orb.Polygon, len(pg))
	for i, r := range pg {
		out[i] = orb.Ring(transformPoints(r, f))
	}
	return out
}
