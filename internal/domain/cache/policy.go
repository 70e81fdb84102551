// Package cache holds the pure parts of the image cache: file naming and the
// fetch-or-reuse decision.
package cache

import (
	"path"
	"strings"
	"time"
)

// DefaultCamTimeout is how long a cached webcam image stays fresh.
const DefaultCamTimeout = 1000 * time.Second

// CamExtension is appended to sanitized camera names.
const CamExtension = ".jpg"

// Decision is the outcome of the freshness check for one cached resource.
type Decision int

const (
	// Fresh means the cached copy is reused and no fetch happens.
	Fresh Decision = iota
	// FetchMissing means there is no cached copy yet.
	FetchMissing
	// FetchStale means the cached copy is older than the freshness window.
	FetchStale
)

// ShouldFetch reports whether the decision requires a download.
func (d Decision) ShouldFetch() bool {
	return d != Fresh
}

func (d Decision) String() string {
	switch d {
	case Fresh:
		return "fresh"
	case FetchMissing:
		return "missing"
	case FetchStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Decide applies the webcam freshness rule: fetch when the file is missing or
// its age exceeds window.
func Decide(exists bool, age, window time.Duration) Decision {
	if !exists {
		return FetchMissing
	}
	if age > window {
		return FetchStale
	}
	return Fresh
}

// DecideIcon applies the icon rule: any existing copy is reused regardless of age.
func DecideIcon(exists bool) Decision {
	if !exists {
		return FetchMissing
	}
	return Fresh
}

// IconFileName is the basename of the icon URL path, ignoring query and fragment.
// It returns "" when the URL has no usable basename.
func IconFileName(iconURL string) string {
	p := iconURL
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	base := path.Base(p)
	if base == "." || base == "/" || base == ".." || strings.HasSuffix(p, "/") {
		return ""
	}
	return base
}

// CamFileName derives the cache file name for a camera: spaces become
// underscores and ".jpg" is appended. Path separators are replaced as well so
// a name can never escape the cache directory.
func CamFileName(name string) string {
	sanitized := strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
	if sanitized == "." || sanitized == ".." {
		sanitized = strings.Repeat("_", len(sanitized))
	}
	return sanitized + CamExtension
}

// CamLabel reverses CamFileName for display: underscores become spaces and the
// extension is dropped.
func CamLabel(fileName string) string {
	return strings.ReplaceAll(strings.TrimSuffix(fileName, CamExtension), "_", " ")
}
