package memory

import (
	"errors"
	"snowbird/internal/domain/entity"
	"sync"
	"testing"
	"time"
)

func TestRecordStoreStartsEmpty(t *testing.T) {
	store := NewRecordStore()

	if store.Latest() != nil {
		t.Fatalf("expected no record")
	}
	if store.Stats().Ready {
		t.Fatalf("empty store must not be ready")
	}
}

func TestRecordStoreKeepsPreviousOnFailure(t *testing.T) {
	store := NewRecordStore()
	at := time.Date(2026, 1, 10, 6, 15, 0, 0, time.UTC)
	record := entity.NewWeatherRecordBuilder(at).Set("current-depth", "112").Build()

	store.Save(record, at)
	store.Save(nil, at.Add(time.Minute))
	store.RecordFailure(errors.New("connection refused"))

	if store.Latest() != record {
		t.Fatalf("failed cycle must not replace the latest record")
	}

	stats := store.Stats()
	if !stats.Ready || !stats.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Attempts != 2 || stats.Failures != 1 || stats.LastError == nil {
		t.Fatalf("unexpected counters %+v", stats)
	}

	store.Save(record, at.Add(5*time.Minute))
	if store.Stats().LastError != nil {
		t.Fatalf("successful save must clear the last error")
	}
}

func TestRecordStoreConcurrentAccess(t *testing.T) {
	store := NewRecordStore()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Save(entity.NewWeatherRecordBuilder(now).Build(), now)
		}()
		go func() {
			defer wg.Done()
			_ = store.Latest()
			_ = store.Stats()
		}()
	}
	wg.Wait()

	if store.Stats().Attempts != 20 {
		t.Fatalf("attempts = %d, want 20", store.Stats().Attempts)
	}
}
