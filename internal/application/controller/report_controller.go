package controller

import (
	"errors"
	"net/http"
	"os"
	"snowbird/internal/domain/cache"
	"snowbird/internal/domain/entity"
	"snowbird/internal/domain/model"
	"snowbird/internal/domain/usecase/report"
	"snowbird/pkg/log"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LatestRecord gives read access to the last downloaded record
type LatestRecord interface {
	Latest() *entity.WeatherRecord
}

// CamView is one cached webcam image as listed by GET /cams
type CamView struct {
	File      string    `json:"file"`
	Label     string    `json:"label"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReportController struct {
	api          *echo.Group
	useCase      report.UseCase
	records      LatestRecord
	fallbackIcon string
}

func NewReportController(api *echo.Group, useCase report.UseCase, records LatestRecord, fallbackIcon string) *ReportController {
	return &ReportController{api: api, useCase: useCase, records: records, fallbackIcon: fallbackIcon}
}

// InitReportRoutes initializes report and image routes
func (controller *ReportController) InitReportRoutes() {
	controller.api.GET("/report", controller.GetReport)
	controller.api.GET("/cams", controller.ListCams)
	controller.api.GET("/cams/:file", controller.GetCam)
	controller.api.GET("/icon", controller.GetIcon)
}

// GetReport returns the latest weather record as a flat JSON object
func (controller *ReportController) GetReport(c echo.Context) error {
	record := controller.records.Latest()
	if record == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "not ready"})
	}
	return c.JSON(http.StatusOK, record)
}

// ListCams lists the cached webcam images with their display labels
func (controller *ReportController) ListCams(c echo.Context) error {
	files, err := controller.useCase.ListCachedCams()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	cams := make([]CamView, 0, len(files))
	for _, file := range files {
		cams = append(cams, CamView{
			File:      file.Name,
			Label:     cache.CamLabel(file.Name),
			Size:      file.Size,
			UpdatedAt: file.ModTime,
		})
	}
	return c.JSON(http.StatusOK, cams)
}

// GetCam serves one cached webcam image
func (controller *ReportController) GetCam(c echo.Context) error {
	name := c.Param("file")
	if name == "" || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "cam not found"})
	}

	reader, file, err := controller.useCase.OpenCachedCam(name)
	if errors.Is(err, os.ErrNotExist) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "cam not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	defer reader.Close()

	http.ServeContent(c.Response(), c.Request(), file.Name, file.ModTime, reader)
	return nil
}

// GetIcon serves the cached condition icon, or the fallback icon while none is available
func (controller *ReportController) GetIcon(c echo.Context) error {
	reader, file, err := controller.useCase.OpenIcon(controller.records.Latest())
	if errors.Is(err, model.ErrNotReady) {
		if controller.fallbackIcon == "" {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "icon not ready"})
		}
		return c.File(controller.fallbackIcon)
	}
	if err != nil {
		log.Error("Unable to open cached icon", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	defer reader.Close()

	http.ServeContent(c.Response(), c.Request(), file.Name, file.ModTime, reader)
	return nil
}
