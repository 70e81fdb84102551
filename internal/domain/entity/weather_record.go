package entity

import (
	"encoding/json"
	"maps"
	"slices"
	"time"
)

// Well-known record keys. Condition fields use the id of their markup parent
// (e.g. "twelve-hour", "current-depth") and have no constant.
const (
	KeyTimestamp = "timestamp"
	KeyIconURL   = "icon_url"
	KeyCams      = "cams"
)

// WeatherRecord is the immutable result of one parse of the mountain report.
// A missing key means the region was not found; there are no empty placeholders.
type WeatherRecord struct {
	fields   map[string]string
	cams     []CamEntry
	hasCams  bool
	parsedAt time.Time
}

// WeatherRecordBuilder accumulates values for a WeatherRecord.
type WeatherRecordBuilder struct {
	fields   map[string]string
	cams     []CamEntry
	hasCams  bool
	parsedAt time.Time
}

// NewWeatherRecordBuilder starts a record parsed at parsedAt.
func NewWeatherRecordBuilder(parsedAt time.Time) *WeatherRecordBuilder {
	return &WeatherRecordBuilder{fields: make(map[string]string), parsedAt: parsedAt}
}

// Set records a string field. A later Set of the same key wins.
func (b *WeatherRecordBuilder) Set(key, value string) *WeatherRecordBuilder {
	b.fields[key] = value
	return b
}

// SetCams records the camera list, marking the cams key as present even when empty.
func (b *WeatherRecordBuilder) SetCams(cams []CamEntry) *WeatherRecordBuilder {
	b.cams = slices.Clone(cams)
	b.hasCams = true
	return b
}

// Build returns an immutable record holding copies of the builder state.
func (b *WeatherRecordBuilder) Build() *WeatherRecord {
	return &WeatherRecord{
		fields:   maps.Clone(b.fields),
		cams:     slices.Clone(b.cams),
		hasCams:  b.hasCams,
		parsedAt: b.parsedAt,
	}
}

// Get returns a string field of the record.
func (r *WeatherRecord) Get(key string) (string, bool) {
	if r == nil {
		return "", false
	}
	value, ok := r.fields[key]
	return value, ok
}

// Has reports whether key is present, including the cams key.
func (r *WeatherRecord) Has(key string) bool {
	if r == nil {
		return false
	}
	if key == KeyCams {
		return r.hasCams
	}
	_, ok := r.fields[key]
	return ok
}

func (r *WeatherRecord) Timestamp() (string, bool) {
	return r.Get(KeyTimestamp)
}

func (r *WeatherRecord) IconURL() (string, bool) {
	return r.Get(KeyIconURL)
}

// Cams returns a copy of the camera list.
func (r *WeatherRecord) Cams() ([]CamEntry, bool) {
	if r == nil || !r.hasCams {
		return nil, false
	}
	return slices.Clone(r.cams), true
}

// Conditions returns the condition fields, i.e. every string field except
// timestamp and icon_url.
func (r *WeatherRecord) Conditions() map[string]string {
	conditions := make(map[string]string)
	if r == nil {
		return conditions
	}
	for key, value := range r.fields {
		if key == KeyTimestamp || key == KeyIconURL {
			continue
		}
		conditions[key] = value
	}
	return conditions
}

// Keys returns every present key in sorted order.
func (r *WeatherRecord) Keys() []string {
	if r == nil {
		return nil
	}
	keys := slices.Collect(maps.Keys(r.fields))
	if r.hasCams {
		keys = append(keys, KeyCams)
	}
	slices.Sort(keys)
	return keys
}

func (r *WeatherRecord) ParsedAt() time.Time {
	if r == nil {
		return time.Time{}
	}
	return r.parsedAt
}

// MarshalJSON renders the record as one flat object, cams included as a list.
func (r *WeatherRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.fields)+1)
	for key, value := range r.fields {
		out[key] = value
	}
	if r.hasCams {
		cams := r.cams
		if cams == nil {
			cams = []CamEntry{}
		}
		out[KeyCams] = cams
	}
	return json.Marshal(out)
}
