package storage

import (
	"io"
	"time"
)

// CachedFile describes one file in a cache directory
type CachedFile struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// CacheGateway defines access to one image cache directory
type CacheGateway interface {
	// Dir returns the directory the gateway manages.
	Dir() string

	// Path returns the full path of name inside the cache directory.
	Path(name string) string

	// EnsureDir creates the cache directory if it does not exist.
	EnsureDir() error

	// Stat returns the cached file and whether it exists.
	Stat(name string) (CachedFile, bool, error)

	// Write creates or replaces name with the content produced by fill. The
	// content lands in a temporary file first and is renamed into place, so a
	// failed fill never leaves a truncated file behind. Errors from fill are
	// returned unchanged; filesystem errors wrap model.ErrFilesystem.
	Write(name string, fill func(w io.Writer) error) (CachedFile, error)

	// List enumerates the regular, non-hidden files of the cache directory.
	List() ([]CachedFile, error)

	// Open opens name for reading.
	Open(name string) (io.ReadSeekCloser, CachedFile, error)
}
