package report

import (
	"context"
	"io"
	"snowbird/internal/domain/entity"
	"snowbird/internal/domain/gateway/storage"
)

type UseCase interface {
	// FetchAndParse fetches the report page and extracts a record. A transport
	// failure returns a nil record. A partial parse returns the record together
	// with an error joining every missing region.
	FetchAndParse(ctx context.Context) (*entity.WeatherRecord, error)

	// RefreshIcon downloads the record's condition icon unless a copy already exists.
	RefreshIcon(ctx context.Context, record *entity.WeatherRecord) (entity.ResourceOutcome, error)

	// RefreshWebcams downloads every camera of the record that is missing or
	// older than the freshness window. It returns model.ErrNotReady when record
	// is nil or has no cams. One outcome is returned per camera; individual
	// failures never stop the others.
	RefreshWebcams(ctx context.Context, record *entity.WeatherRecord) ([]entity.ResourceOutcome, error)

	// ListCachedCams enumerates the cached webcam images. Order is not significant.
	ListCachedCams() ([]storage.CachedFile, error)

	// OpenCachedCam opens a cached webcam image by file name.
	OpenCachedCam(name string) (io.ReadSeekCloser, storage.CachedFile, error)

	// OpenIcon opens the cached icon of record, or returns model.ErrNotReady.
	OpenIcon(record *entity.WeatherRecord) (io.ReadSeekCloser, storage.CachedFile, error)
}
