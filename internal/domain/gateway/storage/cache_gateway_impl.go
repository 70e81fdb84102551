package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"snowbird/internal/domain/model"
	"strings"

	"github.com/spf13/afero"
)

const (
	tempSuffix = ".part"

	// cached images are read by viewers running as other users
	fileMode = 0o644
)

// aferoCacheGateway implements CacheGateway on top of an afero filesystem
type aferoCacheGateway struct {
	fs  afero.Fs
	dir string
}

// NewCacheGateway creates a cache gateway rooted at dir on fs
func NewCacheGateway(fs afero.Fs, dir string) CacheGateway {
	return &aferoCacheGateway{fs: fs, dir: filepath.Clean(dir)}
}

func (g *aferoCacheGateway) Dir() string {
	return g.dir
}

func (g *aferoCacheGateway) Path(name string) string {
	return filepath.Join(g.dir, filepath.Base(name))
}

func (g *aferoCacheGateway) EnsureDir() error {
	if err := g.fs.MkdirAll(g.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create cache dir %s: %w", model.ErrFilesystem, g.dir, err)
	}
	return nil
}

func (g *aferoCacheGateway) Stat(name string) (CachedFile, bool, error) {
	path := g.Path(name)
	info, err := g.fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return CachedFile{Name: filepath.Base(name), Path: path}, false, nil
	}
	if err != nil {
		return CachedFile{}, false, fmt.Errorf("%w: stat %s: %w", model.ErrFilesystem, path, err)
	}
	return toCachedFile(path, info), true, nil
}

func (g *aferoCacheGateway) Write(name string, fill func(w io.Writer) error) (CachedFile, error) {
	if err := g.EnsureDir(); err != nil {
		return CachedFile{}, err
	}

	path := g.Path(name)
	tmp, err := afero.TempFile(g.fs, g.dir, "."+filepath.Base(name)+".*"+tempSuffix)
	if err != nil {
		return CachedFile{}, fmt.Errorf("%w: create temp file for %s: %w", model.ErrFilesystem, path, err)
	}
	tmpName := tmp.Name()

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		_ = g.fs.Remove(tmpName)
		return CachedFile{}, err
	}
	if err := tmp.Close(); err != nil {
		_ = g.fs.Remove(tmpName)
		return CachedFile{}, fmt.Errorf("%w: close %s: %w", model.ErrFilesystem, tmpName, err)
	}
	if err := g.fs.Chmod(tmpName, fileMode); err != nil {
		_ = g.fs.Remove(tmpName)
		return CachedFile{}, fmt.Errorf("%w: chmod %s: %w", model.ErrFilesystem, tmpName, err)
	}
	if err := g.fs.Rename(tmpName, path); err != nil {
		_ = g.fs.Remove(tmpName)
		return CachedFile{}, fmt.Errorf("%w: rename into %s: %w", model.ErrFilesystem, path, err)
	}

	info, err := g.fs.Stat(path)
	if err != nil {
		return CachedFile{}, fmt.Errorf("%w: stat %s: %w", model.ErrFilesystem, path, err)
	}
	return toCachedFile(path, info), nil
}

func (g *aferoCacheGateway) List() ([]CachedFile, error) {
	infos, err := afero.ReadDir(g.fs, g.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []CachedFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", model.ErrFilesystem, g.dir, err)
	}

	files := make([]CachedFile, 0, len(infos))
	for _, info := range infos {
		if !info.Mode().IsRegular() || strings.HasPrefix(info.Name(), ".") {
			continue
		}
		files = append(files, toCachedFile(filepath.Join(g.dir, info.Name()), info))
	}
	return files, nil
}

func (g *aferoCacheGateway) Open(name string) (io.ReadSeekCloser, CachedFile, error) {
	path := g.Path(name)
	file, err := g.fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, CachedFile{}, err
		}
		return nil, CachedFile{}, fmt.Errorf("%w: open %s: %w", model.ErrFilesystem, path, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, CachedFile{}, fmt.Errorf("%w: stat %s: %w", model.ErrFilesystem, path, err)
	}
	return file, toCachedFile(path, info), nil
}

func toCachedFile(path string, info os.FileInfo) CachedFile {
	return CachedFile{
		Name:    info.Name(),
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}
