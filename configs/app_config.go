package configs

import (
	"fmt"
	"path/filepath"
	"snowbird/pkg/resource"
	"time"
)

// AppConfig is the typed view over application.yml
type AppConfig struct {
	Name string

	ServerEnabled bool
	Port          string
	ContextPath   string

	BaseURL        string
	PagePath       string
	ReportInterval time.Duration

	WebcamInterval   time.Duration
	WebcamStartDelay time.Duration
	Workers          int

	CamDir       string
	IconDir      string
	CamTimeout   time.Duration
	FallbackIcon string

	ConnectionTimeout time.Duration
	ReadTimeout       time.Duration
	UserAgent         string

	BreakerMaxFailures int
	BreakerOpenTimeout time.Duration
}

// PropertiesFile is the path of application.yml inside dir
func PropertiesFile(dir string) string {
	return filepath.Join(dir, "application.yml")
}

// MessagesFile is the path of messages.yml inside dir
func MessagesFile(dir string) string {
	return filepath.Join(dir, "messages.yml")
}

// LoadAppConfig builds the typed configuration from the loaded properties
func LoadAppConfig() (*AppConfig, error) {
	config := &AppConfig{
		Name: resource.GetStringOrDefault("app.name", "snowbird"),

		ServerEnabled: !resource.IsSet("app.server.enabled") || resource.GetBool("app.server.enabled"),
		Port:          resource.GetStringOrDefault("app.server.port", "8080"),
		ContextPath:   resource.GetStringOrDefault("app.server.context-path", "/snowbird"),

		BaseURL:        resource.GetStringOrDefault("app.report.base-url", "http://www.snowbird.com"),
		PagePath:       resource.GetStringOrDefault("app.report.page-path", "/mountain-report/"),
		ReportInterval: resource.GetDurationOrDefault("app.report.update-interval", 300*time.Second),

		WebcamInterval:   resource.GetDurationOrDefault("app.webcams.update-interval", 300*time.Second),
		WebcamStartDelay: resource.GetDurationOrDefault("app.webcams.start-delay", 5*time.Second),
		Workers:          resource.GetIntOrDefault("app.webcams.workers", 4),

		CamDir:       resource.GetStringOrDefault("app.cache.cam-dir", "/tmp/cams"),
		IconDir:      resource.GetStringOrDefault("app.cache.icon-dir", "/tmp"),
		CamTimeout:   resource.GetDurationOrDefault("app.cache.cam-timeout", 1000*time.Second),
		FallbackIcon: resource.GetString("app.cache.fallback-icon"),

		ConnectionTimeout: resource.GetDurationOrDefault("app.http.connection-timeout", 10*time.Second),
		ReadTimeout:       resource.GetDurationOrDefault("app.http.read-timeout", 60*time.Second),
		UserAgent:         resource.GetStringOrDefault("app.http.user-agent", "snowbird-report/1.0"),

		BreakerMaxFailures: resource.GetIntOrDefault("app.breaker.max-failures", 5),
		BreakerOpenTimeout: resource.GetDurationOrDefault("app.breaker.open-timeout", time.Minute),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *AppConfig) validate() error {
	switch {
	case c.ReportInterval < time.Second:
		return fmt.Errorf("app.report.update-interval must be at least 1s, got %s", c.ReportInterval)
	case c.WebcamInterval < time.Second:
		return fmt.Errorf("app.webcams.update-interval must be at least 1s, got %s", c.WebcamInterval)
	case c.Workers <= 0:
		return fmt.Errorf("app.webcams.workers must be positive, got %d", c.Workers)
	case c.CamTimeout <= 0:
		return fmt.Errorf("app.cache.cam-timeout must be positive, got %s", c.CamTimeout)
	case c.CamDir == c.IconDir:
		return fmt.Errorf("app.cache.cam-dir and app.cache.icon-dir must differ, both are %s", c.CamDir)
	}
	return nil
}
