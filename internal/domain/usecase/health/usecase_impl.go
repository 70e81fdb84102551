package health

import (
	"snowbird/internal/domain/gateway/storage"
	"snowbird/internal/domain/model"
	"strconv"
	"time"
)

type healthUseCase struct {
	camCache storage.CacheGateway
	report   ReportStatsProvider
	maxAge   time.Duration
	now      func() time.Time
}

// NewHealthUseCase reports the report as DOWN once the latest record is older than maxAge
func NewHealthUseCase(camCache storage.CacheGateway, report ReportStatsProvider, maxAge time.Duration) UseCase {
	return &healthUseCase{
		camCache: camCache,
		report:   report,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

func (useCase *healthUseCase) CheckHealth() model.HealthResponse {
	cacheHealth := useCase.cacheHealth()
	reportHealth := useCase.reportHealth()

	overallStatus := model.StatusUp
	switch {
	case cacheHealth.Status == model.StatusDown || reportHealth.Status == model.StatusDown:
		overallStatus = model.StatusDown
	case cacheHealth.Status != model.StatusUp || reportHealth.Status != model.StatusUp:
		overallStatus = model.StatusUnknown
	}

	return model.HealthResponse{
		Status: overallStatus,
		Cache:  cacheHealth,
		Report: reportHealth,
	}
}

func (useCase *healthUseCase) cacheHealth() model.ComponentHealthStatus {
	files, err := useCase.camCache.List()
	if err != nil {
		return model.ComponentHealthStatus{
			Status: model.StatusDown,
			Details: map[string]string{
				"dir":   useCase.camCache.Dir(),
				"error": err.Error(),
			},
		}
	}

	return model.ComponentHealthStatus{
		Status: model.StatusUp,
		Details: map[string]string{
			"dir":   useCase.camCache.Dir(),
			"files": strconv.Itoa(len(files)),
		},
	}
}

func (useCase *healthUseCase) reportHealth() model.ComponentHealthStatus {
	stats := useCase.report.Stats()
	details := map[string]string{
		"attempts": strconv.Itoa(stats.Attempts),
		"failures": strconv.Itoa(stats.Failures),
	}
	if stats.LastError != nil {
		details["last_error"] = stats.LastError.Error()
	}

	if !stats.Ready {
		status := model.StatusUnknown
		if stats.Failures > 0 {
			status = model.StatusDown
		}
		details["message"] = "No report downloaded yet"
		return model.ComponentHealthStatus{Status: status, Details: details}
	}

	details["updated_at"] = stats.UpdatedAt.Format(time.RFC3339)
	if useCase.maxAge > 0 && useCase.now().Sub(stats.UpdatedAt) > useCase.maxAge {
		details["message"] = "Latest report is older than " + useCase.maxAge.String()
		return model.ComponentHealthStatus{Status: model.StatusDown, Details: details}
	}
	return model.ComponentHealthStatus{Status: model.StatusUp, Details: details}
}
