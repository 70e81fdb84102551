package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"snowbird/configs"
	"snowbird/internal/application/controller"
	"snowbird/internal/application/middleware"
	"snowbird/internal/application/schedule"
	"snowbird/internal/domain/gateway/api"
	"snowbird/internal/domain/gateway/storage"
	"snowbird/internal/domain/usecase/health"
	"snowbird/internal/domain/usecase/report"
	"snowbird/internal/infra/memory"
	httpclient "snowbird/pkg/http"
	"snowbird/pkg/log"
	"snowbird/pkg/msg"
	"snowbird/pkg/resource"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	defer log.Sync()

	// Init config
	if err := configs.LoadEnv(); err != nil {
		log.Fatal("Unable to load .env", zap.Error(err))
	}
	if err := resource.Init(configs.PropertiesFile(configs.Env.ConfigDir)); err != nil {
		log.Fatal("Unable to load properties", zap.Error(err))
	}
	if err := msg.Init(configs.MessagesFile(configs.Env.ConfigDir)); err != nil {
		log.Fatal("Unable to load messages", zap.Error(err))
	}
	config, err := configs.LoadAppConfig()
	if err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info(msg.GetMessage("app.start"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init gateways
	reportGateway := api.NewReportGateway(config.BaseURL, httpclient.ClientOptions{
		DefaultHeaders:     map[string]string{"User-Agent": config.UserAgent},
		ConnectionTimeout:  config.ConnectionTimeout,
		ReadTimeout:        config.ReadTimeout,
		FollowRedirect:     true,
		BreakerMaxFailures: uint32(config.BreakerMaxFailures),
		BreakerOpenTimeout: config.BreakerOpenTimeout,
		Logger:             httpclient.ZapLogger{},
	})
	fs := afero.NewOsFs()
	iconCache := storage.NewCacheGateway(fs, config.IconDir)
	camCache := storage.NewCacheGateway(fs, config.CamDir)

	// Init UseCase
	reportUseCase := report.NewReportUseCase(report.Config{
		PagePath:   config.PagePath,
		CamTimeout: config.CamTimeout,
		Workers:    config.Workers,
	}, reportGateway, iconCache, camCache)
	store := memory.NewRecordStore()
	healthUseCase := health.NewHealthUseCase(camCache, store, 3*config.ReportInterval)

	// Init Schedule
	scheduler := schedule.NewReportScheduler(reportUseCase, store, schedule.ReportSchedulerConfig{
		ReportInterval:   config.ReportInterval,
		WebcamInterval:   config.WebcamInterval,
		WebcamStartDelay: config.WebcamStartDelay,
	})
	scheduler.InitReportScheduleTasks(ctx)

	if !config.ServerEnabled {
		<-ctx.Done()
		log.Info(msg.GetMessage("app.stopping"))
		scheduler.Stop()
		log.Info(msg.GetMessage("app.stopped"))
		return
	}

	// Init Routes
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.SetupRequestLogger(e)
	routes := e.Group(config.ContextPath)

	controller.NewHealthController(routes, healthUseCase).InitHealthRoutes()
	controller.NewReportController(routes, reportUseCase, store, config.FallbackIcon).InitReportRoutes()

	go func() {
		log.Info(msg.GetMessage("app.started", config.Port))
		if err := e.Start(":" + config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(msg.GetMessage("app.stopping"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	scheduler.Stop()

	log.Info(msg.GetMessage("app.stopped"))
}
