package schedule

import (
	"context"
	"errors"
	"snowbird/internal/domain/model"
	"snowbird/internal/domain/usecase/report"
	"snowbird/internal/infra/memory"
	"snowbird/pkg/log"
	"snowbird/pkg/msg"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	DefaultReportInterval   = 300 * time.Second
	DefaultWebcamInterval   = 300 * time.Second
	DefaultWebcamStartDelay = 5 * time.Second
)

// ReportSchedulerConfig holds the cadence of the report and webcam jobs
type ReportSchedulerConfig struct {
	ReportInterval   time.Duration
	WebcamInterval   time.Duration
	WebcamStartDelay time.Duration
}

// ReportScheduler drives the page cycle and the webcam cycle. Each job skips a
// tick while its previous run is still in progress.
type ReportScheduler struct {
	cron    *cron.Cron
	useCase report.UseCase
	store   *memory.RecordStore
	config  ReportSchedulerConfig
	now     func() time.Time
	ctx     context.Context
	initial sync.WaitGroup

	reportJob cron.EntryID
	webcamJob cron.EntryID
}

func NewReportScheduler(useCase report.UseCase, store *memory.RecordStore, config ReportSchedulerConfig) *ReportScheduler {
	if config.ReportInterval <= 0 {
		config.ReportInterval = DefaultReportInterval
	}
	if config.WebcamInterval <= 0 {
		config.WebcamInterval = DefaultWebcamInterval
	}
	if config.WebcamStartDelay <= 0 {
		config.WebcamStartDelay = DefaultWebcamStartDelay
	}

	logger := cronLogger{}
	return &ReportScheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		useCase: useCase,
		store:   store,
		config:  config,
		now:     time.Now,
		ctx:     context.Background(),
	}
}

// InitReportScheduleTasks registers both jobs, starts the cron and triggers the
// first page cycle right away. ctx bounds every network call made by the jobs.
func (s *ReportScheduler) InitReportScheduleTasks(ctx context.Context) {
	s.ctx = ctx
	start := s.now()

	s.reportJob = s.cron.Schedule(cron.Every(s.config.ReportInterval), cron.FuncJob(s.ExecuteReportCycle))
	s.webcamJob = s.cron.Schedule(
		newOffsetSchedule(start.Add(s.config.WebcamStartDelay), s.config.WebcamInterval),
		cron.FuncJob(s.ExecuteWebcamCycle),
	)

	s.cron.Start()

	// the wrapped job shares the skip-if-running guard with the cron ticks
	first := s.cron.Entry(s.reportJob).WrappedJob
	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		first.Run()
	}()

	log.Info(msg.GetMessage("schedule.started", s.config.ReportInterval, s.config.WebcamInterval, s.config.WebcamStartDelay))
}

// ExecuteReportCycle fetches the report, stores the record and refreshes the icon
func (s *ReportScheduler) ExecuteReportCycle() {
	ctx := report.WithCycle(s.ctx)
	log.Info(msg.GetMessage("schedule.report.start"), report.CycleField(ctx))

	record, err := s.useCase.FetchAndParse(ctx)
	if record == nil {
		s.store.RecordFailure(err)
		log.Warn(msg.GetMessage("schedule.report.no-record"), report.CycleField(ctx), zap.Error(err))
		return
	}
	s.store.Save(record, s.now())

	// icon failures are logged by the use case and never fail the cycle
	_, _ = s.useCase.RefreshIcon(ctx, record)

	log.Info(msg.GetMessage("schedule.report.end"), report.CycleField(ctx))
}

// ExecuteWebcamCycle refreshes the webcams of the latest stored record
func (s *ReportScheduler) ExecuteWebcamCycle() {
	ctx := report.WithCycle(s.ctx)
	log.Info(msg.GetMessage("schedule.webcam.start"), report.CycleField(ctx))

	outcomes, err := s.useCase.RefreshWebcams(ctx, s.store.Latest())
	if err != nil {
		// not-ready is already reported by the use case
		if !errors.Is(err, model.ErrNotReady) {
			log.Error(msg.GetMessage("webcam.cache-failed", err), report.CycleField(ctx), zap.Error(err))
		}
		return
	}

	log.Info(msg.GetMessage("schedule.webcam.end", len(outcomes)), report.CycleField(ctx))
}

// Stop stops the cron and waits for running jobs to finish
func (s *ReportScheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	s.initial.Wait()
	log.Info(msg.GetMessage("schedule.stopped"))
}
