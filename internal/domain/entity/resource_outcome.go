package entity

// ResourceKind identifies the kind of cached image.
type ResourceKind string

const (
	ResourceIcon   ResourceKind = "icon"
	ResourceWebcam ResourceKind = "webcam"
)

// OutcomeStatus is the result of one resource refresh attempt.
type OutcomeStatus string

const (
	StatusDownloaded OutcomeStatus = "downloaded"
	StatusUpToDate   OutcomeStatus = "up-to-date"
	StatusFailed     OutcomeStatus = "failed"
)

// ResourceOutcome reports what a refresh did for a single resource.
type ResourceOutcome struct {
	Kind     ResourceKind  `json:"kind"`
	Name     string        `json:"name"`
	URL      string        `json:"url"`
	Path     string        `json:"path"`
	Decision string        `json:"decision"`
	Status   OutcomeStatus `json:"status"`
	Bytes    int64         `json:"bytes,omitempty"`
	Err      error         `json:"-"`
}

// Failed reports whether the refresh attempt failed.
func (o ResourceOutcome) Failed() bool {
	return o.Status == StatusFailed
}
