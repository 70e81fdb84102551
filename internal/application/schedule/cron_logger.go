package schedule

import (
	"snowbird/pkg/log"

	"github.com/robfig/cron/v3"
)

// cronLogger routes robfig/cron internals into the zap logger. Wake-ups and
// runs are debug noise; skipped runs and panics are not.
type cronLogger struct{}

var _ cron.Logger = cronLogger{}

func (cronLogger) Info(message string, keysAndValues ...interface{}) {
	if message == "skip" {
		log.Warnw("cron job still running, skipping this run", keysAndValues...)
		return
	}
	log.Debugw("cron "+message, keysAndValues...)
}

func (cronLogger) Error(err error, message string, keysAndValues ...interface{}) {
	log.Errorw("cron "+message, append(keysAndValues, "error", err)...)
}
