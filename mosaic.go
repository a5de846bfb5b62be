package geochip

import (
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/wgdzlh/geochip/log"

	"go.uber.org/zap"
)

// MosaicBuilder combines several local images into one readable mosaic.
type MosaicBuilder interface {
	BuildMosaic(paths []string, outDir string) (string, error)
}

// 调用gdalbuildvrt将多景影像拼接为VRT
type GdalBuildVRT struct {
	Bin  string   // 默认 gdalbuildvrt
	Env  []string // 额外环境变量（如对象存储凭证），追加到当前环境
	Opts []string // 额外命令行参数
}

func (b GdalBuildVRT) BuildMosaic(paths []string, outDir string) (vrt string, err error) {
	if len(paths) == 0 {
		err = ErrEmptyImageURIs
		return
	}
	bin := b.Bin
	if bin == "" {
		bin = GDAL_BUILDVRT_BIN
	}
	vrt = filepath.Join(outDir, VRT_FILE_NAME)
	args := append([]string{"-overwrite"}, b.Opts...)
	args = append(args, vrt)
	args = append(args, paths...)
	cmd := exec.Command(bin, args...)
	if len(b.Env) > 0 {
		cmd.Env = append(cmd.Environ(), b.Env...)
	}
	log.Info("Mosaic:build vrt", zap.String("cmd", cmd.String()), zap.Int("images", len(paths)))
	out, e := cmd.CombinedOutput()
	if e != nil {
		log.Error("Mosaic:build vrt failed", zap.ByteString("output", out), zap.Error(e))
		err = fmt.Errorf("%w: %v: %s", ErrMosaicBuildFailed, e, out)
		vrt = ""
	}
	return
}
