package geochip

/*
#cgo linux pkg-config: gdal
#cgo darwin pkg-config: gdal
#cgo windows LDFLAGS: -lgdal
#include "ogr_api.h"
#include "cpl_string.h"

// 已有效的几何直接克隆；否则按STRUCTURE方式修复（自相交环的各瓣合并保留，内环从外环扣除）
static OGRGeometryH makeValidStructure(OGRGeometryH geom) {
	if (OGR_G_IsValid(geom)) {
		return OGR_G_Clone(geom);
	}
	char **opts = CSLSetNameValue(NULL, "METHOD", "STRUCTURE");
	OGRGeometryH ret = OGR_G_MakeValidEx(geom, opts);
	CSLDestroy(opts);
	return ret;
}
*/
import "C"

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/wgdzlh/geochip/log"

	"github.com/lukeroth/gdal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/planar"
	"go.uber.org/zap"
)

// 由GDAL库C语言创建的内存对象，需要手动调用Destroy回收
type destroyable interface {
	Destroy()
}

func orbToGdal(g orb.Geometry) (ret gdal.Geometry, err error) {
	data, err := wkb.Marshal(g)
	if err != nil {
		return
	}
	ret, err = gdal.CreateFromWKB(data, gdal.SpatialReference{}, len(data))
	if err != nil {
		log.Error("Buffer:parse wkb failed", zap.Error(err))
	}
	return
}

func gdalToOrb(g gdal.Geometry) (ret orb.Geometry, err error) {
	data, err := g.ToWKB()
	if err != nil {
		return
	}
	ret, err = wkb.Unmarshal(data)
	return
}

// 点/线按半径缓冲为面（圆盘/胶囊形并集）
func bufferGeometry(g orb.Geometry, radius float64) (ret orb.Geometry, err error) {
	geo, err := orbToGdal(g)
	if err != nil {
		return
	}
	buffed := geo.Buffer(radius, BUFFER_QUAD_SEGS)
	gc := []destroyable{geo, buffed}
	defer func() {
		for _, v := range gc {
			v.Destroy()
		}
	}()
	if buffed.IsEmpty() {
		err = fmt.Errorf("%w: empty buffer of %s", ErrMalformedGeometry, g.GeoJSONType())
		return
	}
	ret, err = gdalToOrb(buffed)
	return
}

// OGR几何修复，修复结果为空时返回nil
func makeValid(g orb.Geometry) (ret orb.Geometry, err error) {
	data, err := wkb.Marshal(g)
	if err != nil {
		return
	}
	var geom C.OGRGeometryH
	if C.OGR_G_CreateFromWkb(unsafe.Pointer(&data[0]), nil, &geom, C.int(len(data))) != C.OGRERR_NONE {
		err = fmt.Errorf("%w: parse wkb of %s failed", ErrMalformedGeometry, g.GeoJSONType())
		return
	}
	defer C.OGR_G_DestroyGeometry(geom)
	valid := C.makeValidStructure(geom)
	if valid == nil {
		err = fmt.Errorf("%w: make valid of %s failed", ErrMalformedGeometry, g.GeoJSONType())
		return
	}
	defer C.OGR_G_DestroyGeometry(valid)
	if C.OGR_G_IsEmpty(valid) != 0 {
		return
	}
	out := make([]byte, int(C.OGR_G_WkbSize(valid)))
	if C.OGR_G_ExportToWkb(valid, C.wkbNDR, (*C.uchar)(unsafe.Pointer(&out[0]))) != C.OGRERR_NONE {
		err = fmt.Errorf("%w: export wkb failed", ErrMalformedGeometry)
		return
	}
	return wkb.Unmarshal(out)
}

// 把多边形修复为若干互不重叠的简单多边形，外环逆时针、内环顺时针
func repairPolygon(pg orb.Polygon) (ret []orb.Polygon, err error) {
	if len(pg) == 0 || len(pg[0]) == 0 {
		err = fmt.Errorf("%w: polygon without rings", ErrMalformedGeometry)
		return
	}
	fixed, err := makeValid(pg)
	if err != nil {
		return
	}
	for _, part := range explodeGeometry(fixed) {
		p, ok := part.(orb.Polygon)
		if !ok || math.Abs(planar.Area(p)) < MIN_RING_AREA {
			continue
		}
		ret = append(ret, orientPolygon(p))
	}
	if len(ret) == 0 {
		err = fmt.Errorf("%w: polygon has no area", ErrMalformedGeometry)
	}
	return
}

func orientPolygon(pg orb.Polygon) orb.Polygon {
	for i, r := range pg {
		o := r.Orientation()
		if o != 0 && (o == orb.CCW) != (i == 0) {
			r.Reverse()
		}
	}
	return pg
}
