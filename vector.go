package geochip

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/wgdzlh/geochip/log"
	"github.com/wgdzlh/geochip/utils"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// GeoJSONReader supplies the raw bytes of a GeoJSON document.
type GeoJSONReader interface {
	ReadGeoJSON() ([]byte, error)
}

// 内存中的GeoJSON
type GeoJSONBytes []byte

func (b GeoJSONBytes) ReadGeoJSON() ([]byte, error) {
	return b, nil
}

// 文件GeoJSON，Encoding为UTF-8以外的非空值时按GBK解码
type GeoJSONFile struct {
	URI      string
	Fetcher  BlobFetcher
	TmpDir   string
	Encoding string
}

func (f GeoJSONFile) ReadGeoJSON() (data []byte, err error) {
	fetcher := f.Fetcher
	if fetcher == nil {
		fetcher = LocalFetcher{}
	}
	path, err := fetcher.Fetch(f.URI, f.TmpDir)
	if err != nil {
		return
	}
	if data, err = os.ReadFile(path); err != nil {
		return
	}
	if !utils.IsUtf8Encoding(f.Encoding) {
		data, err = utils.GbkToUtf8(data)
	}
	return
}

type RawFeature struct {
	Type       string             `json:"type"`
	Geometry   json.RawMessage    `json:"geometry"`
	Properties geojson.Properties `json:"properties"`
}

// 原始（未修复）GeoJSON要素集合
type RawDocument struct {
	Type     string       `json:"type"`
	Features []RawFeature `json:"features"`
}

var jsonNull = []byte("null")

func isNullJSON(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, jsonNull)
}

func ParseRawGeoJSON(data []byte) (doc *RawDocument, err error) {
	doc = &RawDocument{}
	if err = json.Unmarshal(data, doc); err != nil {
		doc = nil
		err = fmt.Errorf("%w: %v", ErrWrongGeoJSON, err)
		return
	}
	if doc.Type != GEOJSON_FEATURE_COLLECTION {
		err = fmt.Errorf("%w: type %q", ErrWrongGeoJSON, doc.Type)
		doc = nil
	}
	return
}

// 解析要素几何；无坐标（null/缺失/空集合）时返回nil且无错误
func (f RawFeature) DecodeGeometry() (g orb.Geometry, err error) {
	if isNullJSON(f.Geometry) {
		return
	}
	var head struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
		Geometries  json.RawMessage `json:"geometries"`
	}
	if err = json.Unmarshal(f.Geometry, &head); err != nil {
		err = fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
		return
	}
	switch head.Type {
	case "GeometryCollection":
		if isNullJSON(head.Geometries) {
			return
		}
	case "Point", "MultiPoint":
		if isNullJSON(head.Coordinates) {
			return
		}
		return decodePoints(head.Type, head.Coordinates)
	default:
		if isNullJSON(head.Coordinates) {
			return
		}
	}
	gj := &geojson.Geometry{}
	if err = json.Unmarshal(f.Geometry, gj); err != nil {
		err = fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
		return
	}
	g = gj.Geometry()
	if isEmptyGeometry(g) {
		g = nil
	}
	return
}

// 点坐标按位置数组解析，少于两个分量的位置视为空
func decodePoints(typ string, coords json.RawMessage) (g orb.Geometry, err error) {
	if typ == "Point" {
		var pos []float64
		if err = json.Unmarshal(coords, &pos); err != nil {
			err = fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
			return
		}
		if len(pos) >= 2 {
			g = orb.Point{pos[0], pos[1]}
		}
		return
	}
	var positions [][]float64
	if err = json.Unmarshal(coords, &positions); err != nil {
		err = fmt.Errorf("%w: %v", ErrMalformedGeometry, err)
		return
	}
	var mp orb.MultiPoint
	for _, pos := range positions {
		if len(pos) >= 2 {
			mp = append(mp, orb.Point{pos[0], pos[1]})
		}
	}
	if len(mp) > 0 {
		g = mp
	}
	return
}

type VectorSourceOptions struct {
	ClassInference ClassInferenceOptions
	Normalize      *NormalizeOptions // 为nil时使用默认缓冲半径
}

// VectorSource is a read-only view over one GeoJSON document. The raw
// document is fetched once and cached; normalised views are derived from the
// cache on every call without mutating it.
type VectorSource struct {
	reader  GeoJSONReader
	crs     CRSTransformer
	classes *ClassInference
	opts    NormalizeOptions
	logTag  string

	mu  sync.Mutex
	sf  singleflight.Group
	raw *RawDocument
}

func NewVectorSource(reader GeoJSONReader, crs CRSTransformer, opts VectorSourceOptions) *VectorSource {
	if crs == nil {
		crs = IdentityTransformer{}
	}
	v := &VectorSource{
		reader:  reader,
		crs:     crs,
		classes: NewClassInference(opts.ClassInference),
		opts:    DefaultNormalizeOptions(),
		logTag:  "VectorSource:",
	}
	if opts.Normalize != nil {
		v.opts = *opts.Normalize
	}
	return v
}

func (v *VectorSource) CRSTransformer() CRSTransformer {
	return v.crs
}

// 获取原始GeoJSON，首次调用时读取并缓存，并发调用只读取一次
func (v *VectorSource) RawGeoJSON() (doc *RawDocument, err error) {
	v.mu.Lock()
	doc = v.raw
	v.mu.Unlock()
	if doc != nil {
		return
	}
	ret, err, _ := v.sf.Do("raw", func() (interface{}, error) {
		v.mu.Lock()
		cached := v.raw
		v.mu.Unlock()
		if cached != nil {
			return cached, nil
		}
		data, e := v.reader.ReadGeoJSON()
		if e != nil {
			log.Error(v.logTag+"read geojson failed", zap.Error(e))
			return nil, e
		}
		parsed, e := ParseRawGeoJSON(data)
		if e != nil {
			log.Error(v.logTag+"parse geojson failed", zap.Error(e))
			return nil, e
		}
		log.Info(v.logTag+"fetched geojson", zap.Int("features", len(parsed.Features)))
		v.mu.Lock()
		v.raw = parsed
		v.mu.Unlock()
		return parsed, nil
	})
	if err != nil {
		return
	}
	doc = ret.(*RawDocument)
	return
}

// 丢弃缓存，下次访问时重新读取
func (v *VectorSource) Refetch() {
	v.mu.Lock()
	v.raw = nil
	v.mu.Unlock()
}

// 像素坐标下的简单几何及类别；逐要素错误以FeatureErrors返回，其余要素照常输出
func (v *VectorSource) Geoms() ([]Geom, error) {
	return v.geoms(true)
}

// GeoJSON returns the normalised document in pixel (toPixel) or map space.
// Buffering always happens in pixel space; map output is mapped back.
// A FeatureErrors error comes with a usable collection of the features
// that did normalise.
func (v *VectorSource) GeoJSON(toPixel bool) (fc *geojson.FeatureCollection, err error) {
	geoms, err := v.geoms(toPixel)
	if geoms == nil && err != nil {
		return
	}
	fc = geojson.NewFeatureCollection()
	for _, g := range geoms {
		f := geojson.NewFeature(g.Geometry)
		f.Properties = g.Properties
		fc.Append(f)
	}
	return
}

func (v *VectorSource) geoms(toPixel bool) (ret []Geom, err error) {
	doc, err := v.RawGeoJSON()
	if err != nil {
		return
	}
	var (
		ferrs   FeatureErrors
		skipped int
		g       orb.Geometry
		parts   []orb.Geometry
		classID int
		e       error
	)
	ret = make([]Geom, 0, len(doc.Features))
	for i, f := range doc.Features {
		if g, e = f.DecodeGeometry(); e != nil {
			ferrs = append(ferrs, FeatureError{Index: i, Err: e})
			continue
		}
		if g == nil {
			log.Debug(v.logTag+"feature without coordinates", zap.Int("index", i))
			skipped++
			continue
		}
		if classID, e = v.classes.Infer(f.Properties); e != nil {
			log.Debug(v.logTag+"unresolved class", zap.Int("index", i), zap.Error(e))
			ferrs = append(ferrs, FeatureError{Index: i, Err: e})
			continue
		}
		if parts, e = NormalizeGeometry(g, v.crs, v.opts); e != nil {
			ferrs = append(ferrs, FeatureError{Index: i, Err: e})
			continue
		}
		for _, p := range parts {
			if !toPixel {
				p = TransformGeometry(p, v.crs.PixelToMap)
				if pg, ok := p.(orb.Polygon); ok {
					p = orientPolygon(pg)
				}
			}
			props := make(geojson.Properties, len(f.Properties)+1)
			for k, val := range f.Properties {
				props[k] = val
			}
			props[PROP_CLASS_ID] = classID
			ret = append(ret, Geom{Geometry: p, ClassID: classID, Properties: props})
		}
	}
	if skipped > 0 {
		log.Info(v.logTag+"skipped features without coordinates", zap.Int("skipped", skipped))
	}
	if len(ferrs) > 0 {
		log.Warn(v.logTag+"some features failed to normalize", zap.Int("failed", len(ferrs)), zap.Error(ferrs))
		err = ferrs
	}
	return
}
