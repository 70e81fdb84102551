package schedule

import (
	"context"
	"errors"
	"io"
	"snowbird/internal/domain/entity"
	"snowbird/internal/domain/gateway/storage"
	"snowbird/internal/domain/model"
	"snowbird/internal/infra/memory"
	"sync"
	"testing"
	"time"
)

type fakeUseCase struct {
	mu          sync.Mutex
	record      *entity.WeatherRecord
	fetchErr    error
	fetched     chan struct{}
	started     chan struct{}
	release     chan struct{}
	fetchCalls  int
	iconCalls   int
	webcamCalls []*entity.WeatherRecord
	cycleIDs    []string
}

func (f *fakeUseCase) FetchAndParse(ctx context.Context) (*entity.WeatherRecord, error) {
	f.mu.Lock()
	f.fetchCalls++
	f.mu.Unlock()

	defer func() {
		if f.fetched != nil {
			f.fetched <- struct{}{}
		}
	}()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.record, f.fetchErr
}

func (f *fakeUseCase) fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func (f *fakeUseCase) RefreshIcon(ctx context.Context, record *entity.WeatherRecord) (entity.ResourceOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.iconCalls++
	return entity.ResourceOutcome{Kind: entity.ResourceIcon, Status: entity.StatusUpToDate}, nil
}

func (f *fakeUseCase) RefreshWebcams(ctx context.Context, record *entity.WeatherRecord) ([]entity.ResourceOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webcamCalls = append(f.webcamCalls, record)
	if record == nil {
		return nil, model.ErrNotReady
	}
	return []entity.ResourceOutcome{}, nil
}

func (f *fakeUseCase) ListCachedCams() ([]storage.CachedFile, error) {
	return nil, nil
}

func (f *fakeUseCase) OpenCachedCam(string) (io.ReadSeekCloser, storage.CachedFile, error) {
	return nil, storage.CachedFile{}, model.ErrNotReady
}

func (f *fakeUseCase) OpenIcon(*entity.WeatherRecord) (io.ReadSeekCloser, storage.CachedFile, error) {
	return nil, storage.CachedFile{}, model.ErrNotReady
}

var at = time.Date(2026, 1, 10, 6, 15, 0, 0, time.UTC)

func TestReportCycleStoresRecordAndRefreshesIcon(t *testing.T) {
	record := entity.NewWeatherRecordBuilder(at).Set(entity.KeyIconURL, "/icons/sun.png").Build()
	useCase := &fakeUseCase{record: record}
	store := memory.NewRecordStore()
	scheduler := NewReportScheduler(useCase, store, ReportSchedulerConfig{})

	scheduler.ExecuteReportCycle()

	if store.Latest() != record {
		t.Fatalf("record was not stored")
	}
	if useCase.iconCalls != 1 {
		t.Fatalf("icon refresh calls = %d, want 1", useCase.iconCalls)
	}
}

func TestReportCycleFailureKeepsPreviousRecord(t *testing.T) {
	previous := entity.NewWeatherRecordBuilder(at).Build()
	store := memory.NewRecordStore()
	store.Save(previous, at)

	useCase := &fakeUseCase{fetchErr: model.ErrTransport}
	scheduler := NewReportScheduler(useCase, store, ReportSchedulerConfig{})

	scheduler.ExecuteReportCycle()

	if store.Latest() != previous {
		t.Fatalf("failed cycle replaced the latest record")
	}
	if useCase.iconCalls != 0 {
		t.Fatalf("icon must not be refreshed without a record")
	}
	if stats := store.Stats(); stats.Failures != 1 || !errors.Is(stats.LastError, model.ErrTransport) {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestWebcamCyclePassesLatestRecord(t *testing.T) {
	useCase := &fakeUseCase{}
	store := memory.NewRecordStore()
	scheduler := NewReportScheduler(useCase, store, ReportSchedulerConfig{})

	scheduler.ExecuteWebcamCycle()

	record := entity.NewWeatherRecordBuilder(at).SetCams([]entity.CamEntry{{Name: "Summit", URL: "/cams/s.jpg"}}).Build()
	store.Save(record, at)
	scheduler.ExecuteWebcamCycle()

	if len(useCase.webcamCalls) != 2 {
		t.Fatalf("webcam calls = %d, want 2", len(useCase.webcamCalls))
	}
	if useCase.webcamCalls[0] != nil || useCase.webcamCalls[1] != record {
		t.Fatalf("webcam cycle must pass the latest stored record explicitly")
	}
}

func TestInitRunsReportCycleImmediately(t *testing.T) {
	record := entity.NewWeatherRecordBuilder(at).Build()
	useCase := &fakeUseCase{record: record, fetched: make(chan struct{}, 1)}
	store := memory.NewRecordStore()
	scheduler := NewReportScheduler(useCase, store, ReportSchedulerConfig{
		ReportInterval:   time.Hour,
		WebcamInterval:   time.Hour,
		WebcamStartDelay: time.Hour,
	})

	scheduler.InitReportScheduleTasks(context.Background())

	select {
	case <-useCase.fetched:
	case <-time.After(2 * time.Second):
		t.Fatalf("report cycle did not run at start")
	}

	scheduler.Stop()
	if store.Latest() != record {
		t.Fatalf("record was not stored by the first cycle")
	}
}

func TestReportCycleSkipsWhileStillRunning(t *testing.T) {
	useCase := &fakeUseCase{started: make(chan struct{}, 2), release: make(chan struct{})}
	store := memory.NewRecordStore()
	scheduler := NewReportScheduler(useCase, store, ReportSchedulerConfig{
		ReportInterval:   time.Hour,
		WebcamInterval:   time.Hour,
		WebcamStartDelay: time.Hour,
	})

	scheduler.InitReportScheduleTasks(context.Background())

	select {
	case <-useCase.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("report cycle did not run at start")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scheduler.cron.Entry(scheduler.reportJob).WrappedJob.Run()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("overlapping report cycle was not skipped")
	}
	if got := useCase.fetches(); got != 1 {
		t.Fatalf("FetchAndParse calls = %d, want 1", got)
	}

	close(useCase.release)
	scheduler.Stop()

	if got := useCase.fetches(); got != 1 {
		t.Fatalf("FetchAndParse calls after stop = %d, want 1", got)
	}
}

func TestOffsetSchedule(t *testing.T) {
	start := time.Date(2026, 1, 10, 6, 0, 0, 0, time.UTC)
	schedule := newOffsetSchedule(start.Add(5*time.Second), 300*time.Second)

	if got := schedule.Next(start); !got.Equal(start.Add(5 * time.Second)) {
		t.Fatalf("first run = %v, want start+5s", got)
	}

	firstRun := start.Add(5 * time.Second)
	if got := schedule.Next(firstRun); !got.Equal(firstRun.Add(300 * time.Second)) {
		t.Fatalf("second run = %v, want first+300s", got)
	}
}
