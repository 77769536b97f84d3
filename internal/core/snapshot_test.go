package core

import (
	"testing"
	"time"
)

func TestNormalizeClampsProgress(t *testing.T) {
	tests := []struct {
		name     string
		progress time.Duration
		duration time.Duration
		want     time.Duration
	}{
		{"within bounds", 30 * time.Second, 3 * time.Minute, 30 * time.Second},
		{"exceeds duration", 4 * time.Minute, 3 * time.Minute, 3 * time.Minute},
		{"negative", -5 * time.Second, 3 * time.Minute, 0},
		{"exactly at duration", 3 * time.Minute, 3 * time.Minute, 3 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{
				Status:   StatusActive,
				Track:    &Track{URI: "spotify:track:x", Duration: tt.duration},
				Progress: tt.progress,
			}
			got := s.Normalize()
			if got.Progress != tt.want {
				t.Errorf("Normalize() progress = %v, want %v", got.Progress, tt.want)
			}
		})
	}
}

func TestNormalizeNoTrack(t *testing.T) {
	s := Snapshot{Status: StatusNoDevice, Progress: time.Minute}
	got := s.Normalize()
	if got.Progress != time.Minute {
		t.Errorf("Normalize() without track changed progress to %v", got.Progress)
	}
}

func TestProgressPercent(t *testing.T) {
	s := Snapshot{
		Status:   StatusActive,
		Track:    &Track{Duration: 4 * time.Minute},
		Progress: time.Minute,
	}
	if got := s.ProgressPercent(); got != 25 {
		t.Errorf("ProgressPercent() = %v, want 25", got)
	}

	if got := Unknown().ProgressPercent(); got != 0 {
		t.Errorf("ProgressPercent() on Unknown = %v, want 0", got)
	}
}

func TestExplicitVariants(t *testing.T) {
	u := Unknown()
	if u.Status != StatusUnknown || u.Track != nil {
		t.Errorf("Unknown() = %+v, want empty StatusUnknown snapshot", u)
	}
	if u.FetchedAt.IsZero() {
		t.Error("Unknown() should stamp FetchedAt")
	}

	n := NoActivePlayback()
	if n.Status != StatusNoDevice || n.HasTrack() {
		t.Errorf("NoActivePlayback() = %+v", n)
	}
}

func TestTrackChanged(t *testing.T) {
	a := Snapshot{Track: &Track{URI: "spotify:track:a"}}
	b := Snapshot{Track: &Track{URI: "spotify:track:b"}}
	none := Snapshot{}

	if TrackChanged(a, a) {
		t.Error("TrackChanged(a, a) = true")
	}
	if !TrackChanged(a, b) {
		t.Error("TrackChanged(a, b) = false")
	}
	if !TrackChanged(none, a) {
		t.Error("TrackChanged(none, a) = false")
	}
	if TrackChanged(none, none) {
		t.Error("TrackChanged(none, none) = true")
	}
}

func TestQueueUpcoming(t *testing.T) {
	q := &Queue{Tracks: []Track{
		{URI: "spotify:track:now"},
		{URI: "spotify:track:next"},
		{URI: "spotify:track:later"},
	}}

	up := q.Upcoming()
	if len(up) != 2 || up[0].URI != "spotify:track:next" {
		t.Errorf("Upcoming() = %v", up)
	}

	var nilQ *Queue
	if nilQ.Upcoming() != nil || nilQ.Len() != 0 || !nilQ.IsEmpty() {
		t.Error("nil queue accessors misbehave")
	}
}
