package schedule

import (
	"time"

	"github.com/robfig/cron/v3"
)

// offsetSchedule fires once at first and then every interval after each run.
type offsetSchedule struct {
	first time.Time
	every cron.ConstantDelaySchedule
}

func newOffsetSchedule(first time.Time, interval time.Duration) offsetSchedule {
	return offsetSchedule{first: first, every: cron.Every(interval)}
}

func (s offsetSchedule) Next(t time.Time) time.Time {
	if t.Before(s.first) {
		return s.first
	}
	return s.every.Next(t)
}
