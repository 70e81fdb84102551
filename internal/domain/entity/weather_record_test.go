package entity

import (
	"encoding/json"
	"slices"
	"testing"
	"time"
)

var parsedAt = time.Date(2026, 1, 10, 6, 15, 0, 0, time.UTC)

func TestWeatherRecordIsImmutable(t *testing.T) {
	cams := []CamEntry{{Name: "Summit", URL: "/cams/summit.jpg"}}
	builder := NewWeatherRecordBuilder(parsedAt).Set("current-depth", "112").SetCams(cams)
	record := builder.Build()

	cams[0].Name = "changed"
	builder.Set("current-depth", "0")
	got, _ := record.Cams()
	got[0].URL = "changed"

	again, _ := record.Cams()
	if again[0] != (CamEntry{Name: "Summit", URL: "/cams/summit.jpg"}) {
		t.Fatalf("cams leaked mutation: %+v", again)
	}
	if depth, _ := record.Get("current-depth"); depth != "112" {
		t.Fatalf("builder changes leaked into record: %q", depth)
	}
}

func TestWeatherRecordAbsentKeys(t *testing.T) {
	record := NewWeatherRecordBuilder(parsedAt).Set("twelve-hour", "4").Build()

	if _, ok := record.Timestamp(); ok {
		t.Fatalf("timestamp must be absent")
	}
	if _, ok := record.Cams(); ok || record.Has(KeyCams) {
		t.Fatalf("cams must be absent")
	}
	if !slices.Equal(record.Keys(), []string{"twelve-hour"}) {
		t.Fatalf("keys = %v", record.Keys())
	}

	var missing *WeatherRecord
	if _, ok := missing.IconURL(); ok || missing.Keys() != nil || len(missing.Conditions()) != 0 {
		t.Fatalf("nil record must behave as empty")
	}
}

func TestWeatherRecordConditions(t *testing.T) {
	record := NewWeatherRecordBuilder(parsedAt).
		Set("twelve-hour", "4").
		Set(KeyTimestamp, "Updated 6:15 AM").
		Set(KeyIconURL, "/icons/sun.png").
		Build()

	conditions := record.Conditions()
	if len(conditions) != 1 || conditions["twelve-hour"] != "4" {
		t.Fatalf("unexpected conditions %v", conditions)
	}
}

func TestWeatherRecordJSON(t *testing.T) {
	record := NewWeatherRecordBuilder(parsedAt).
		Set("twelve-hour", "4").
		Set(KeyIconURL, "/icons/sun.png").
		SetCams([]CamEntry{{Name: "Mid Gad", URL: "/cams/midgad.jpg"}}).
		Build()

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"cams":[{"name":"Mid Gad","url":"/cams/midgad.jpg"}],"icon_url":"/icons/sun.png","twelve-hour":"4"}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}

	empty, _ := json.Marshal(NewWeatherRecordBuilder(parsedAt).SetCams(nil).Build())
	if string(empty) != `{"cams":[]}` {
		t.Fatalf("empty cams must render as a list, got %s", empty)
	}
}
