package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	SCHEME_FILE  = "file://"
	SCHEME_S3    = "s3://"
	SCHEME_HTTP  = "http://"
	SCHEME_HTTPS = "https://"

	VSI_S3   = "/vsis3/"
	VSI_CURL = "/vsicurl/"
)

// 在parentPath下创建唯一子目录（parentPath为空时使用系统临时目录）
func GetUniqSubDir(parentPath string) (path string, err error) {
	if parentPath == "" {
		parentPath = os.TempDir()
	}
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

// 是否为本地文件URI（无scheme或file://）
func IsLocalURI(uri string) bool {
	return !strings.Contains(uri, "://") || strings.HasPrefix(uri, SCHEME_FILE)
}

func LocalPath(uri string) string {
	return strings.TrimPrefix(uri, SCHEME_FILE)
}

// 将URI转为GDAL可直接读取的路径（虚拟文件系统前缀）
func GdalPath(uri string) string {
	switch {
	case strings.HasPrefix(uri, SCHEME_S3):
		return VSI_S3 + strings.TrimPrefix(uri, SCHEME_S3)
	case strings.HasPrefix(uri, SCHEME_HTTP), strings.HasPrefix(uri, SCHEME_HTTPS):
		return VSI_CURL + uri
	case strings.HasPrefix(uri, SCHEME_FILE):
		return LocalPath(uri)
	}
	return uri
}
