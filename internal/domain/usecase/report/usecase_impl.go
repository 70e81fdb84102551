package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"snowbird/internal/domain/cache"
	"snowbird/internal/domain/entity"
	"snowbird/internal/domain/extractor"
	"snowbird/internal/domain/gateway/api"
	"snowbird/internal/domain/gateway/storage"
	"snowbird/internal/domain/model"
	"snowbird/pkg/dom"
	"snowbird/pkg/log"
	"snowbird/pkg/msg"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPagePath = "/mountain-report/"
	DefaultWorkers  = 4
)

// Config holds the tunables of the report use case
type Config struct {
	PagePath   string
	CamTimeout time.Duration
	Workers    int
	Now        func() time.Time
}

type reportUseCase struct {
	config    Config
	gateway   api.ReportGateway
	iconCache storage.CacheGateway
	camCache  storage.CacheGateway
}

func NewReportUseCase(config Config, gateway api.ReportGateway, iconCache storage.CacheGateway, camCache storage.CacheGateway) UseCase {
	if config.PagePath == "" {
		config.PagePath = DefaultPagePath
	}
	if config.CamTimeout <= 0 {
		config.CamTimeout = cache.DefaultCamTimeout
	}
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &reportUseCase{
		config:    config,
		gateway:   gateway,
		iconCache: iconCache,
		camCache:  camCache,
	}
}

// FetchAndParse fetches the mountain report page and extracts a record
func (uc *reportUseCase) FetchAndParse(ctx context.Context) (*entity.WeatherRecord, error) {
	log.Info(msg.GetMessage("report.fetch.start", uc.config.PagePath), CycleField(ctx))

	page, err := uc.gateway.FetchPage(ctx, uc.config.PagePath)
	if err != nil {
		log.Error(msg.GetMessage("report.fetch.failed", uc.config.PagePath, err), CycleField(ctx), zap.Error(err))
		return nil, err
	}

	doc, err := dom.Parse(strings.NewReader(page))
	if err != nil {
		err = fmt.Errorf("%w: %w", model.ErrParse, err)
		log.Error(msg.GetMessage("report.fetch.failed", uc.config.PagePath, err), CycleField(ctx), zap.Error(err))
		return nil, err
	}

	record, parseErr := extractor.Extract(doc, uc.config.Now())
	if parseErr != nil {
		log.Warn(msg.GetMessage("report.fetch.partial", parseErr), CycleField(ctx), zap.Strings("keys", record.Keys()))
	}

	log.Info(msg.GetMessage("report.fetch.parsed", record), CycleField(ctx), zap.Strings("keys", record.Keys()))
	return record, parseErr
}

// RefreshIcon downloads the condition icon only when no copy exists yet
func (uc *reportUseCase) RefreshIcon(ctx context.Context, record *entity.WeatherRecord) (entity.ResourceOutcome, error) {
	iconURL, ok := record.IconURL()
	if !ok {
		log.Warn(msg.GetMessage("report.icon.unavailable"), CycleField(ctx))
		return entity.ResourceOutcome{Kind: entity.ResourceIcon}, fmt.Errorf("%w: record has no %s", model.ErrNotReady, entity.KeyIconURL)
	}

	name := cache.IconFileName(iconURL)
	outcome := entity.ResourceOutcome{Kind: entity.ResourceIcon, Name: name, URL: iconURL, Path: uc.iconCache.Path(name)}
	if name == "" {
		err := fmt.Errorf("%w: icon url %q has no file name", model.ErrResourceIncomplete, iconURL)
		outcome.Status, outcome.Err = entity.StatusFailed, err
		return outcome, err
	}

	_, exists, err := uc.iconCache.Stat(name)
	if err != nil {
		outcome.Status, outcome.Err = entity.StatusFailed, err
		log.Error(msg.GetMessage("report.icon.failed", name, err), CycleField(ctx), zap.Error(err))
		return outcome, err
	}

	decision := cache.DecideIcon(exists)
	outcome.Decision = decision.String()
	if !decision.ShouldFetch() {
		outcome.Status = entity.StatusUpToDate
		log.Debug(msg.GetMessage("report.icon.present", name), CycleField(ctx))
		return outcome, nil
	}

	outcome = uc.download(ctx, name, outcome, uc.iconCache)
	if outcome.Failed() {
		log.Error(msg.GetMessage("report.icon.failed", name, outcome.Err), CycleField(ctx), zap.Error(outcome.Err))
		return outcome, outcome.Err
	}

	log.Info(msg.GetMessage("report.icon.downloaded", name), CycleField(ctx), zap.Int64("bytes", outcome.Bytes))
	return outcome, nil
}

// RefreshWebcams refreshes the stale or missing webcam images of record in parallel
func (uc *reportUseCase) RefreshWebcams(ctx context.Context, record *entity.WeatherRecord) ([]entity.ResourceOutcome, error) {
	cams, ok := record.Cams()
	if !ok {
		log.Warn(msg.GetMessage("webcam.not-ready"), CycleField(ctx))
		return nil, model.ErrNotReady
	}

	if err := uc.camCache.EnsureDir(); err != nil {
		log.Error(msg.GetMessage("webcam.cache-failed", err), CycleField(ctx), zap.Error(err))
		return nil, err
	}

	outcomes := make([]entity.ResourceOutcome, len(cams))
	seen := make(map[string]int, len(cams))

	group := errgroup.Group{}
	group.SetLimit(uc.config.Workers)

	for i, cam := range cams {
		name := cache.CamFileName(cam.Name)
		outcomes[i] = entity.ResourceOutcome{Kind: entity.ResourceWebcam, Name: cam.Name, URL: cam.URL, Path: uc.camCache.Path(name)}

		if first, dup := seen[name]; dup {
			outcomes[i].Decision = "duplicate"
			outcomes[i].Status = entity.StatusUpToDate
			log.Warn(msg.GetMessage("webcam.duplicate", cam.Name, cams[first].Name), CycleField(ctx))
			continue
		}
		seen[name] = i

		group.Go(func() error {
			outcomes[i] = uc.refreshWebcam(ctx, name, outcomes[i])
			return nil
		})
	}
	_ = group.Wait()

	downloaded, upToDate, failed := summarize(outcomes)
	log.Info(msg.GetMessage("webcam.summary", downloaded, upToDate, failed), CycleField(ctx),
		zap.Int("downloaded", downloaded), zap.Int("up_to_date", upToDate), zap.Int("failed", failed))

	return outcomes, nil
}

func (uc *reportUseCase) refreshWebcam(ctx context.Context, name string, outcome entity.ResourceOutcome) entity.ResourceOutcome {
	file, exists, err := uc.camCache.Stat(name)
	if err != nil {
		outcome.Status, outcome.Err = entity.StatusFailed, err
		log.Error(msg.GetMessage("webcam.failed", outcome.Name, err), CycleField(ctx), zap.Error(err))
		return outcome
	}

	var age time.Duration
	if exists {
		age = uc.config.Now().Sub(file.ModTime)
	}

	decision := cache.Decide(exists, age, uc.config.CamTimeout)
	outcome.Decision = decision.String()
	if !decision.ShouldFetch() {
		outcome.Status = entity.StatusUpToDate
		log.Info(msg.GetMessage("webcam.up-to-date", outcome.Name), CycleField(ctx))
		return outcome
	}

	log.Info(msg.GetMessage("webcam.downloading", outcome.Name), CycleField(ctx), zap.String("decision", outcome.Decision))
	outcome = uc.download(ctx, name, outcome, uc.camCache)
	if outcome.Failed() {
		log.Error(msg.GetMessage("webcam.failed", outcome.Name, outcome.Err), CycleField(ctx), zap.Error(outcome.Err))
	}
	return outcome
}

// download streams outcome.URL into the cache file name
func (uc *reportUseCase) download(ctx context.Context, name string, outcome entity.ResourceOutcome, target storage.CacheGateway) entity.ResourceOutcome {
	var written int64
	file, err := target.Write(name, func(w io.Writer) error {
		n, err := uc.gateway.FetchResource(ctx, outcome.URL, w)
		written = n
		return err
	})
	if err != nil {
		outcome.Status, outcome.Err = entity.StatusFailed, err
		return outcome
	}

	outcome.Status = entity.StatusDownloaded
	outcome.Bytes = written
	outcome.Path = file.Path
	return outcome
}

// ListCachedCams lists the webcam cache directory
func (uc *reportUseCase) ListCachedCams() ([]storage.CachedFile, error) {
	return uc.camCache.List()
}

// OpenCachedCam opens one cached webcam image
func (uc *reportUseCase) OpenCachedCam(name string) (io.ReadSeekCloser, storage.CachedFile, error) {
	return uc.camCache.Open(name)
}

// OpenIcon opens the cached icon for record
func (uc *reportUseCase) OpenIcon(record *entity.WeatherRecord) (io.ReadSeekCloser, storage.CachedFile, error) {
	iconURL, ok := record.IconURL()
	if !ok {
		return nil, storage.CachedFile{}, model.ErrNotReady
	}
	name := cache.IconFileName(iconURL)
	if name == "" {
		return nil, storage.CachedFile{}, model.ErrNotReady
	}

	reader, file, err := uc.iconCache.Open(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, storage.CachedFile{}, fmt.Errorf("%w: icon %s not downloaded yet", model.ErrNotReady, name)
	}
	return reader, file, err
}

func summarize(outcomes []entity.ResourceOutcome) (downloaded, upToDate, failed int) {
	for _, outcome := range outcomes {
		switch outcome.Status {
		case entity.StatusDownloaded:
			downloaded++
		case entity.StatusUpToDate:
			upToDate++
		case entity.StatusFailed:
			failed++
		}
	}
	return downloaded, upToDate, failed
}
