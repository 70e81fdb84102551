package model

import "errors"

// Error kinds raised by the acquisition pipeline. Producers wrap them with
// context using %w; consumers classify with errors.Is.
var (
	// ErrTransport covers network, DNS, timeout and non-2xx failures of any fetch.
	ErrTransport = errors.New("transport error")
	// ErrParse marks a structural region of the report that could not be found.
	ErrParse = errors.New("parse error")
	// ErrResourceIncomplete marks a camera entry lacking its name or image URL.
	ErrResourceIncomplete = errors.New("resource incomplete")
	// ErrFilesystem covers cache directory creation and write failures.
	ErrFilesystem = errors.New("filesystem error")
	// ErrNotReady is returned when a dependent operation has no report to work from.
	ErrNotReady = errors.New("weather report not ready")
)
