package geochip

const (
	WGS84_SRID = 4326

	// 纬度方向每度对应的米数（经度方向需乘以cos(lat)）
	METERS_PER_DEGREE = 111319.5

	DEFAULT_LINE_BUFFER_PX  = 1.0
	DEFAULT_POINT_BUFFER_PX = 1.0
	BUFFER_QUAD_SEGS        = 8

	// 面积小于该值的环视为退化
	MIN_RING_AREA = 1e-12

	PROP_CLASS_ID   = "class_id"
	PROP_CLASS_NAME = "class_name"
	PROP_SCORE      = "score"
	PROP_SCORES     = "scores"

	VRT_FILE_NAME     = "index.vrt"
	GDAL_BUILDVRT_BIN = "gdalbuildvrt"

	GEOJSON_FEATURE_COLLECTION = "FeatureCollection"
)
