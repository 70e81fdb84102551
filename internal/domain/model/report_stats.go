package model

import "time"

// ReportStats summarizes the page cycles seen so far
type ReportStats struct {
	Ready     bool
	UpdatedAt time.Time
	Attempts  int
	Failures  int
	LastError error
}
