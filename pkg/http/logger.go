package http

import (
	"snowbird/pkg/log"

	"go.uber.org/zap"
)

// HTTPLogger interface defines methods for logging HTTP requests and responses
type HTTPLogger interface {
	// LogRequest is called before the request is sent
	LogRequest(method, url string)

	// LogResponseSuccess is called after receiving a 2xx response
	LogResponseSuccess(method, url string, httpStatus int, latency int64)

	// LogResponseError is called after a transport failure or non-2xx response
	LogResponseError(method, url string, httpStatus int, latency int64, err error)
}

type noopLogger struct{}

func (noopLogger) LogRequest(string, string) {}
func (noopLogger) LogResponseSuccess(string, string, int, int64) {}
func (noopLogger) LogResponseError(string, string, int, int64, error) {}

// ZapLogger writes request traces to the application logger at debug level
// and failures at warn level.
type ZapLogger struct{}

func (ZapLogger) LogRequest(method, url string) {
	log.Debug("http request", zap.String("method", method), zap.String("url", url))
}

func (ZapLogger) LogResponseSuccess(method, url string, httpStatus int, latency int64) {
	log.Debug("http response",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency))
}

func (ZapLogger) LogResponseError(method, url string, httpStatus int, latency int64, err error) {
	log.Warn("http request failed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latency_ms", latency),
		zap.Error(err))
}
