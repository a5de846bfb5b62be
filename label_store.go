package geochip

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wgdzlh/geochip/log"
	"github.com/wgdzlh/geochip/utils"

	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"
)

// 基于GeoJSON文件的分类标签存储；保存时仅写出网格单元
type ChipClassificationGeoJSONStore struct {
	URI      string
	CRS      CRSTransformer
	ClassMap ClassMap
	Fetcher  BlobFetcher
}

func (s ChipClassificationGeoJSONStore) Save(labels *ChipClassificationLabels) error {
	fc, err := ClassificationLabelsToGeoJSON(labels, s.CRS, s.ClassMap)
	if err != nil {
		return err
	}
	return writeGeoJSON(s.URI, fc)
}

func (s ChipClassificationGeoJSONStore) Labels() (*ChipClassificationLabels, error) {
	reader := GeoJSONFile{URI: s.URI, Fetcher: s.Fetcher, Encoding: utils.UTF_8}
	return ReadClassificationLabels(reader, s.CRS, ClassInferenceOptions{ClassMap: s.ClassMap})
}

func (ChipClassificationGeoJSONStore) EmptyLabels() *ChipClassificationLabels {
	return NewChipClassificationLabels()
}

// 基于GeoJSON文件的目标检测标签存储
type DetectionGeoJSONStore struct {
	URI      string
	CRS      CRSTransformer
	ClassMap ClassMap
	Fetcher  BlobFetcher
}

func (s DetectionGeoJSONStore) Save(labels *DetectionLabels) error {
	fc, err := DetectionLabelsToGeoJSON(labels, s.CRS, s.ClassMap)
	if err != nil {
		return err
	}
	return writeGeoJSON(s.URI, fc)
}

func (s DetectionGeoJSONStore) Labels() (*DetectionLabels, error) {
	reader := GeoJSONFile{URI: s.URI, Fetcher: s.Fetcher, Encoding: utils.UTF_8}
	return ReadDetectionLabels(reader, s.CRS, ClassInferenceOptions{ClassMap: s.ClassMap})
}

func (DetectionGeoJSONStore) EmptyLabels() *DetectionLabels {
	return &DetectionLabels{}
}

func writeGeoJSON(uri string, fc *geojson.FeatureCollection) (err error) {
	if !utils.IsLocalURI(uri) {
		return fmt.Errorf("%w: %s", ErrUnsupportedURI, uri)
	}
	path := utils.LocalPath(uri)
	data, err := fc.MarshalJSON()
	if err != nil {
		return
	}
	if err = os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		log.Error("LabelStore:write geojson failed", zap.String("path", path), zap.Error(err))
		return
	}
	log.Info("LabelStore:saved labels", zap.String("path", path), zap.Int("features", len(fc.Features)))
	return
}
