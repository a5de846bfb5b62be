package geochip

import (
	"fmt"
	"os"

	"github.com/wgdzlh/geochip/utils"
)

// BlobFetcher makes the object behind uri available as a local file and
// returns its path. localDir is where a copy may be written.
type BlobFetcher interface {
	Fetch(uri, localDir string) (string, error)
}

// 仅支持本地路径及file:// URI，直接返回原路径
type LocalFetcher struct{}

func (LocalFetcher) Fetch(uri, localDir string) (path string, err error) {
	if !utils.IsLocalURI(uri) {
		err = fmt.Errorf("%w: %s", ErrUnsupportedURI, uri)
		return
	}
	path = utils.LocalPath(uri)
	if _, err = os.Stat(path); err != nil {
		path = ""
	}
	return
}
