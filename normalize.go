package geochip

import (
	"fmt"

	"github.com/paulmach/orb"
)

// 点/线缓冲半径（像素单位，若未提供坐标转换器则为地图单位），<=0时保留原始点/线
type NormalizeOptions struct {
	LineBufferPx  float64
	PointBufferPx float64
}

func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		LineBufferPx:  DEFAULT_LINE_BUFFER_PX,
		PointBufferPx: DEFAULT_POINT_BUFFER_PX,
	}
}

// NormalizeGeometry turns one raw geometry into a flat list of simple parts.
//
// Empty geometries yield nothing and no error. Multi-part geometries are
// exploded, vertices are mapped to pixel space when tf is non-nil, points and
// lines are buffered into polygons and polygons are repaired into valid parts.
// The output order only depends on the input.
func NormalizeGeometry(g orb.Geometry, tf CRSTransformer, opts NormalizeOptions) (out []orb.Geometry, err error) {
	if isEmptyGeometry(g) {
		return
	}
	var polys []orb.Polygon
	for _, part := range explodeGeometry(g) {
		if tf != nil {
			part = TransformGeometry(part, tf.MapToPixel)
		}
		switch p := part.(type) {
		case orb.Point:
			if opts.PointBufferPx <= 0 {
				out = append(out, p)
				continue
			}
			polys, err = bufferAndRepair(p, opts.PointBufferPx)
		case orb.LineString:
			if len(p) < 2 {
				err = fmt.Errorf("%w: line with %d point(s)", ErrMalformedGeometry, len(p))
				return
			}
			if opts.LineBufferPx <= 0 {
				out = append(out, p)
				continue
			}
			polys, err = bufferAndRepair(p, opts.LineBufferPx)
		case orb.Polygon:
			polys, err = repairPolygon(p)
		default:
			err = fmt.Errorf("%w: %s", ErrUnsupportedGeom, part.GeoJSONType())
		}
		if err != nil {
			out = nil
			return
		}
		for _, pg := range polys {
			out = append(out, pg)
		}
	}
	return
}

func bufferAndRepair(g orb.Geometry, radius float64) (ret []orb.Polygon, err error) {
	buffed, err := bufferGeometry(g, radius)
	if err != nil {
		return
	}
	var polys []orb.Polygon
	for _, part := range explodeGeometry(buffed) {
		pg, ok := part.(orb.Polygon)
		if !ok {
			continue
		}
		if polys, err = repairPolygon(pg); err != nil {
			return
		}
		ret = append(ret, polys...)
	}
	if len(ret) == 0 {
		err = fmt.Errorf("%w: buffer of %s has no polygon", ErrMalformedGeometry, g.GeoJSONType())
	}
	return
}

// 多部件几何拆为单部件，空部件被丢弃
func explodeGeometry(g orb.Geometry) (parts []orb.Geometry) {
	switch g := g.(type) {
	case orb.MultiPoint:
		for _, p := range g {
			parts = append(parts, p)
		}
	case orb.MultiLineString:
		for _, ls := range g {
			if len(ls) > 0 {
				parts = append(parts, ls)
			}
		}
	case orb.MultiPolygon:
		for _, pg := range g {
			if len(pg) > 0 && len(pg[0]) > 0 {
				parts = append(parts, pg)
			}
		}
	case orb.Collection:
		for _, sub := range g {
			if !isEmptyGeometry(sub) {
				parts = append(parts, explodeGeometry(sub)...)
			}
		}
	case orb.Ring:
		parts = append(parts, orb.Polygon{g})
	case nil:
	default:
		parts = append(parts, g)
	}
	return
}

func isEmptyGeometry(g orb.Geometry) bool {
	switch g := g.(type) {
	case nil:
		return true
	case orb.Point:
		return false
	case orb.MultiPoint:
		return len(g) == 0
	case orb.LineString:
		return len(g) == 0
	case orb.Ring:
		return len(g) == 0
	case orb.MultiLineString:
		for _, ls := range g {
			if len(ls) > 0 {
				return false
			}
		}
		return true
	case orb.Polygon:
		return len(g) == 0 || len(g[0]) == 0
	case orb.MultiPolygon:
		for _, pg := range g {
			if len(pg) > 0 && len(pg[0]) > 0 {
				return false
			}
		}
		return true
	case orb.Collection:
		for _, sub := range g {
			if !isEmptyGeometry(sub) {
				return false
			}
		}
		return true
	}
	return false
}
