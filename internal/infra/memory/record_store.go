package memory

import (
	"snowbird/internal/domain/entity"
	"snowbird/internal/domain/model"
	"sync"
	"time"
)

// RecordStore is a concurrency-safe holder for the latest weather record.
type RecordStore struct {
	mu sync.RWMutex

	latest    *entity.WeatherRecord
	updatedAt time.Time
	attempts  int
	failures  int
	lastError error
}

func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Save replaces the latest record. A nil record is ignored so a failed cycle
// never discards the previous value.
func (s *RecordStore) Save(record *entity.WeatherRecord, at time.Time) {
	if record == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = record
	s.updatedAt = at
	s.attempts++
	s.lastError = nil
}

// RecordFailure counts a cycle that produced no record.
func (s *RecordStore) RecordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts++
	s.failures++
	s.lastError = err
}

// Latest returns the last saved record, or nil when no cycle has succeeded yet.
func (s *RecordStore) Latest() *entity.WeatherRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Stats describes the store for health reporting.
func (s *RecordStore) Stats() model.ReportStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return model.ReportStats{
		Ready:     s.latest != nil,
		UpdatedAt: s.updatedAt,
		Attempts:  s.attempts,
		Failures:  s.failures,
		LastError: s.lastError,
	}
}
