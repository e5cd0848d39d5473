// Package loaders reads raw export files below a data root. Every failure is reported as
// a *models.LoadError and no partial result is returned.
package loaders

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"lifestats/internal/models"
)

// CompressedExt marks an export archived with zstd. A missing "x.json" is looked up as
// "x.json.zst" before giving up.
const CompressedExt = ".zst"

type Root struct {
	dir        string
	compressor CompressorInterface
}

// NewRoot binds loaders to dir. compressor may be nil, which disables .zst lookups.
func NewRoot(dir string, compressor CompressorInterface) *Root {
	return &Root{dir: dir, compressor: compressor}
}

func (r *Root) Dir() string {
	return r.dir
}

func (r *Root) Resolve(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return relativePath
	}
	return filepath.Join(r.dir, relativePath)
}

func (r *Root) ReadFile(relativePath string) ([]byte, error) {
	path := r.Resolve(relativePath)
	if strings.HasSuffix(path, CompressedExt) {
		return r.readCompressed(path)
	}

	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if errors.Is(err, fs.ErrNotExist) && r.compressor != nil {
		if _, statErr := os.Stat(path + CompressedExt); statErr == nil {
			return r.readCompressed(path + CompressedExt)
		}
	}
	return nil, &models.LoadError{Path: path, Err: err}
}

func (r *Root) readCompressed(path string) ([]byte, error) {
	if r.compressor == nil {
		return nil, &models.LoadError{Path: path, Err: errors.New("compressed exports are not enabled")}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.LoadError{Path: path, Err: err}
	}
	out, err := r.compressor.Decompress(data)
	if err != nil {
		return nil, &models.LoadError{Path: path, Err: err}
	}
	return out, nil
}
