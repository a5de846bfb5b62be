package geochip

import (
	"fmt"
	"os"

	"github.com/wgdzlh/geochip/log"
	"github.com/wgdzlh/geochip/utils"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ImageProvider is what distinguishes raster source variants: where the
// image comes from and how its pixels relate to map coordinates.
type ImageProvider interface {
	// 返回可被Opener打开的影像路径；download为false时不下载（用于元数据探测）
	ImagePath(tmpDir string, download bool) (string, error)
	CRSTransformer(ds Dataset) (CRSTransformer, error)
}

type RasterSourceOptions struct {
	TmpDir       string // 临时目录的父目录，为空时使用系统临时目录
	ChannelOrder []int  // 非alpha通道的下标子集/排列，为空时保持原顺序
	Transformers []RasterTransformer
	Shift        GeoShift
	Opener       Opener        // 为nil时使用GdalOpener
	Fetcher      BlobFetcher   // 供NewImageSource/NewGeoTiffSource使用，为nil时使用LocalFetcher
	Mosaic       MosaicBuilder // 供NewGeoTiffSource使用，为nil时使用GdalBuildVRT
}

// RasterSource gives windowed access to one image.
//
// It is inactive until Activate opens the dataset inside a fresh temporary
// directory; Deactivate closes it and removes the directory. Metadata is
// probed once at construction. A RasterSource must not be used from several
// goroutines at once; distinct instances are independent.
type RasterSource struct {
	provider     ImageProvider
	opener       Opener
	tmpRoot      string
	transformers []RasterTransformer
	shift        GeoShift
	logTag       string

	bands        []int
	channelOrder []int
	extent       Box
	dtype        DType
	crs          CRSTransformer
	geoTf        *AffineTransformer

	ds     Dataset
	tmpDir string
}

func NewRasterSource(provider ImageProvider, opts RasterSourceOptions) (rs *RasterSource, err error) {
	rs = &RasterSource{
		provider:     provider,
		opener:       opts.Opener,
		tmpRoot:      opts.TmpDir,
		transformers: opts.Transformers,
		shift:        opts.Shift,
		logTag:       "RasterSource:",
	}
	if rs.opener == nil {
		rs.opener = GdalOpener{}
	}
	if err = rs.probe(opts.ChannelOrder); err != nil {
		rs = nil
	}
	return
}

// 短暂打开影像（不下载）获取范围、通道、数据类型和坐标转换器
func (rs *RasterSource) probe(channelOrder []int) (err error) {
	dir, err := utils.GetUniqSubDir(rs.tmpRoot)
	if err != nil {
		return
	}
	defer os.RemoveAll(dir)
	path, err := rs.provider.ImagePath(dir, false)
	if err != nil {
		return
	}
	ds, err := rs.opener.Open(path)
	if err != nil {
		return
	}
	defer ds.Close()

	for b := 0; b < ds.BandCount(); b++ {
		if !ds.IsAlpha(b) {
			rs.bands = append(rs.bands, b)
		}
	}
	if len(rs.bands) == 0 {
		err = fmt.Errorf("%w: %s", ErrEmptyRaster, path)
		return
	}
	rs.extent = Box{RowMax: ds.Height(), ColMax: ds.Width()}

	chip, err := LoadWindow(ds, MakeSquare(0, 0, 1), rs.bands, false)
	if err != nil {
		return
	}
	if rs.channelOrder, err = checkChannelOrder(channelOrder, chip.Channels); err != nil {
		return
	}
	if chip, err = chip.SelectChannels(rs.channelOrder); err != nil {
		return
	}
	for _, t := range rs.transformers {
		if chip, err = t.Transform(chip, rs.channelOrder); err != nil {
			return
		}
	}
	rs.dtype = chip.DType

	if rs.crs, err = rs.provider.CRSTransformer(ds); err != nil {
		return
	}
	if !rs.shift.IsZero() {
		if tf, ok := rs.crs.(*AffineTransformer); ok {
			rs.geoTf = tf
		} else if rs.geoTf, err = NewAffineTransformer(ds.GeoTransform(), ds.Projection()); err != nil {
			return
		}
	}
	log.Info(rs.logTag+"probed raster", zap.String("path", path), zap.Stringer("extent", rs.extent),
		zap.Ints("bands", rs.bands), zap.Ints("channelOrder", rs.channelOrder), zap.String("dtype", string(rs.dtype)))
	return
}

func checkChannelOrder(order []int, n int) ([]int, error) {
	if len(order) == 0 {
		order = make([]int, n)
		for i := range order {
			order[i] = i
		}
		return order, nil
	}
	seen := make(map[int]bool, len(order))
	for _, ch := range order {
		if ch < 0 || ch >= n || seen[ch] {
			return nil, fmt.Errorf("%w: %v over %d channels", ErrInvalidChannelOrder, order, n)
		}
		seen[ch] = true
	}
	return append([]int(nil), order...), nil
}

// 在新建临时目录中获取影像并打开数据集；调用前须处于未激活状态
func (rs *RasterSource) Activate() (err error) {
	dir, err := utils.GetUniqSubDir(rs.tmpRoot)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dir)
		}
	}()
	path, err := rs.provider.ImagePath(dir, true)
	if err != nil {
		log.Error(rs.logTag+"get image path failed", zap.Error(err))
		return
	}
	ds, err := rs.opener.Open(path)
	if err != nil {
		return
	}
	rs.ds, rs.tmpDir = ds, dir
	log.Info(rs.logTag+"activated", zap.String("path", path), zap.String("tmpDir", dir))
	return
}

// 关闭数据集并删除临时目录；未激活时为空操作
func (rs *RasterSource) Deactivate() (err error) {
	if rs.ds == nil {
		return
	}
	err = multierr.Combine(rs.ds.Close(), os.RemoveAll(rs.tmpDir))
	log.Info(rs.logTag+"deactivated", zap.String("tmpDir", rs.tmpDir), zap.Error(err))
	rs.ds, rs.tmpDir = nil, ""
	return
}

// Activated runs fn with the source active and always deactivates
// afterwards, including when fn fails or panics.
func (rs *RasterSource) Activated(fn func() error) (err error) {
	if err = rs.Activate(); err != nil {
		return
	}
	defer func() {
		err = multierr.Append(err, rs.Deactivate())
	}()
	err = fn()
	return
}

func (rs *RasterSource) IsActive() bool {
	return rs.ds != nil
}

func (rs *RasterSource) Extent() Box {
	return rs.extent
}

func (rs *RasterSource) DType() DType {
	return rs.dtype
}

func (rs *RasterSource) CRSTransformer() CRSTransformer {
	return rs.crs
}

func (rs *RasterSource) ChannelOrder() []int {
	return append([]int(nil), rs.channelOrder...)
}

// 原始（非alpha）通道数
func (rs *RasterSource) NumChannels() int {
	return len(rs.bands)
}

// 读取窗口（可超出影像范围，超出部分为0），不做通道重排和变换
func (rs *RasterSource) RawChip(window Box) (chip *Chip, err error) {
	if rs.ds == nil {
		err = ErrNotActivated
		return
	}
	if !rs.shift.IsZero() {
		if window, err = rs.shift.Apply(window, rs.geoTf); err != nil {
			return
		}
	}
	return LoadWindow(rs.ds, window, rs.bands, true)
}

// 读取窗口并按通道顺序重排、依次应用栅格变换
func (rs *RasterSource) Chip(window Box) (chip *Chip, err error) {
	if chip, err = rs.RawChip(window); err != nil {
		return
	}
	if chip, err = chip.SelectChannels(rs.channelOrder); err != nil {
		return
	}
	for _, t := range rs.transformers {
		if chip, err = t.Transform(chip, rs.channelOrder); err != nil {
			return
		}
	}
	if chip.DType != rs.dtype {
		err = fmt.Errorf("%w: got %s, want %s", ErrDTypeMismatch, chip.DType, rs.dtype)
		chip = nil
	}
	return
}

// 整幅影像
func (rs *RasterSource) ImageArray() (*Chip, error) {
	return rs.Chip(rs.extent)
}
