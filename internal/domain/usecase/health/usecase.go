package health

import "snowbird/internal/domain/model"

type UseCase interface {
	CheckHealth() model.HealthResponse
}

// ReportStatsProvider exposes the state of the page cycle
type ReportStatsProvider interface {
	Stats() model.ReportStats
}
