package cache

import (
	"testing"
	"time"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name   string
		exists bool
		age    time.Duration
		want   Decision
	}{
		{"missing", false, 0, FetchMissing},
		{"missing ignores age", false, time.Hour, FetchMissing},
		{"stale", true, 2000 * time.Second, FetchStale},
		{"fresh", true, 500 * time.Second, Fresh},
		{"exactly at window is fresh", true, DefaultCamTimeout, Fresh},
		{"just past window", true, DefaultCamTimeout + time.Second, FetchStale},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.exists, tc.age, DefaultCamTimeout)
			if got != tc.want {
				t.Fatalf("Decide(%v, %v) = %v, want %v", tc.exists, tc.age, got, tc.want)
			}
			if got.ShouldFetch() != (tc.want != Fresh) {
				t.Fatalf("ShouldFetch mismatch for %v", got)
			}
		})
	}
}

func TestDecideIconIgnoresAge(t *testing.T) {
	if DecideIcon(true) != Fresh {
		t.Fatalf("existing icon must be reused")
	}
	if DecideIcon(false) != FetchMissing {
		t.Fatalf("missing icon must be fetched")
	}
}

func TestIconFileName(t *testing.T) {
	cases := map[string]string{
		"/icons/sun.png":                "sun.png",
		"sun.png":                       "sun.png",
		"http://cdn.example/i/snow.png": "snow.png",
		"/icons/cloud.png?v=3":          "cloud.png",
		"/icons/":                       "",
		"":                              "",
	}
	for input, want := range cases {
		if got := IconFileName(input); got != want {
			t.Errorf("IconFileName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCamFileNameIsDeterministic(t *testing.T) {
	if got := CamFileName("Summit"); got != "Summit.jpg" {
		t.Fatalf("got %q", got)
	}
	if got := CamFileName("Mid Gad"); got != "Mid_Gad.jpg" {
		t.Fatalf("got %q", got)
	}
	if CamFileName("Mid Gad") != CamFileName("Mid Gad") {
		t.Fatalf("same identity must map to the same file")
	}
	if got := CamFileName("../etc/passwd"); got != ".._etc_passwd.jpg" {
		t.Fatalf("separators must be replaced, got %q", got)
	}
}

func TestCamLabel(t *testing.T) {
	if got := CamLabel("Mid_Gad.jpg"); got != "Mid Gad" {
		t.Fatalf("got %q", got)
	}
	if got := CamLabel(CamFileName("Hidden Peak")); got != "Hidden Peak" {
		t.Fatalf("round trip failed: %q", got)
	}
}
