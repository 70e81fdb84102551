package entity

// CamEntry is one webcam listed in the mountain report slideshow.
type CamEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
