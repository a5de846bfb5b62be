package geochip

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// BoxesToGeoJSON writes pixel boxes as map-space polygons. scores may be nil;
// a nil entry means no score for that box.
func BoxesToGeoJSON(boxes []Box, classIDs []int, tf CRSTransformer, classMap ClassMap, scores []*Score) (fc *geojson.FeatureCollection, err error) {
	if len(classIDs) != len(boxes) || (scores != nil && len(scores) != len(boxes)) {
		err = fmt.Errorf("%w: %d boxes, %d class ids, %d scores", ErrLabelLength, len(boxes), len(classIDs), len(scores))
		return
	}
	if tf == nil {
		tf = IdentityTransformer{}
	}
	fc = geojson.NewFeatureCollection()
	for i, box := range boxes {
		ring := orb.Ring(transformPoints(box.GeoJSONCoordinates(), tf.PixelToMap))
		f := geojson.NewFeature(orb.Polygon{ring})
		f.Properties[PROP_CLASS_ID] = classIDs[i]
		f.Properties[PROP_CLASS_NAME] = classMap.Name(classIDs[i])
		if scores != nil && scores[i] != nil {
			if scores[i].IsVector() {
				f.Properties[PROP_SCORES] = scores[i].Values
			} else {
				f.Properties[PROP_SCORE] = scores[i].Value
			}
		}
		fc.Append(f)
	}
	return
}

func ClassificationLabelsToGeoJSON(labels *ChipClassificationLabels, tf CRSTransformer, classMap ClassMap) (*geojson.FeatureCollection, error) {
	cells := labels.Cells()
	classIDs := make([]int, len(cells))
	scores := make([]*Score, len(cells))
	for i, c := range cells {
		cs, _ := labels.Get(c)
		classIDs[i] = cs.ClassID
		if cs.Scores != nil {
			scores[i] = ScoreVector(cs.Scores)
		}
	}
	return BoxesToGeoJSON(cells, classIDs, tf, classMap, scores)
}

func DetectionLabelsToGeoJSON(labels *DetectionLabels, tf CRSTransformer, classMap ClassMap) (*geojson.FeatureCollection, error) {
	return BoxesToGeoJSON(labels.Boxes, labels.ClassIDs, tf, classMap, labels.Scores)
}

// GeoJSON转像素坐标下的简单几何及类别
func GeoJSONToShapes(data []byte, tf CRSTransformer) ([]Geom, error) {
	return NewVectorSource(GeoJSONBytes(data), tf, VectorSourceOptions{}).Geoms()
}

func GeoJSONToClassificationLabels(data []byte, tf CRSTransformer) (*ChipClassificationLabels, error) {
	return ReadClassificationLabels(GeoJSONBytes(data), tf, ClassInferenceOptions{})
}

func GeoJSONToDetectionLabels(data []byte, tf CRSTransformer) (*DetectionLabels, error) {
	return ReadDetectionLabels(GeoJSONBytes(data), tf, ClassInferenceOptions{})
}

// 以每个几何的像素外包框为单元
func GeomsToClassificationLabels(geoms []Geom) *ChipClassificationLabels {
	labels := NewChipClassificationLabels()
	for _, g := range geoms {
		score := scoreFromProperties(g.Properties)
		var scores []float64
		if score.IsVector() {
			scores = score.Values
		}
		labels.Set(BoxFromBound(g.Geometry.Bound()), g.ClassID, scores)
	}
	return labels
}

func GeomsToDetectionLabels(geoms []Geom) *DetectionLabels {
	labels := &DetectionLabels{}
	for _, g := range geoms {
		labels.Append(BoxFromBound(g.Geometry.Bound()), g.ClassID, scoreFromProperties(g.Properties))
	}
	return labels
}

// 读取分类标签；逐要素错误会使整体失败
func ReadClassificationLabels(reader GeoJSONReader, tf CRSTransformer, opts ClassInferenceOptions) (*ChipClassificationLabels, error) {
	geoms, err := NewVectorSource(reader, tf, VectorSourceOptions{ClassInference: opts}).Geoms()
	if err != nil {
		return nil, err
	}
	return GeomsToClassificationLabels(geoms), nil
}

func ReadDetectionLabels(reader GeoJSONReader, tf CRSTransformer, opts ClassInferenceOptions) (*DetectionLabels, error) {
	geoms, err := NewVectorSource(reader, tf, VectorSourceOptions{ClassInference: opts}).Geoms()
	if err != nil {
		return nil, err
	}
	return GeomsToDetectionLabels(geoms), nil
}

// "scores"（数组）优先于"score"（数值）
func scoreFromProperties(props geojson.Properties) *Score {
	if raw, ok := props[PROP_SCORES]; ok {
		switch vs := raw.(type) {
		case []float64:
			return ScoreVector(vs)
		case []interface{}:
			values := make([]float64, 0, len(vs))
			for _, v := range vs {
				if f, ok := v.(float64); ok {
					values = append(values, f)
				}
			}
			return &Score{Values: values}
		}
	}
	if v, ok := props[PROP_SCORE].(float64); ok {
		return SingleScore(v)
	}
	return nil
}
