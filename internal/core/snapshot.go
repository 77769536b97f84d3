package core

import "time"

// SnapshotStatus classifies a playback snapshot.
type SnapshotStatus int

const (
	// StatusUnknown means the last poll failed; nothing is known about remote
	// playback. Replaces stale data rather than coexisting with it.
	StatusUnknown SnapshotStatus = iota

	// StatusNoDevice means the remote reported no active playback device.
	StatusNoDevice

	// StatusActive means the remote reported an active playback session.
	StatusActive
)

// Snapshot is a point-in-time view of remote playback. It is produced by the
// polling loop and only ever replaced wholesale; input handling never mutates
// it directly.
type Snapshot struct {
	Status    SnapshotStatus `json:"status"`
	Track     *Track         `json:"track"`
	Device    *Device        `json:"device"`
	IsPlaying bool           `json:"is_playing"`
	Progress  time.Duration  `json:"progress"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Unknown returns the explicit "nothing known" snapshot for a failed poll.
func Unknown() Snapshot {
	return Snapshot{Status: StatusUnknown, FetchedAt: time.Now()}
}

// NoActivePlayback returns the explicit "no active device" snapshot.
func NoActivePlayback() Snapshot {
	return Snapshot{Status: StatusNoDevice, FetchedAt: time.Now()}
}

// HasTrack returns true if there is an active track.
func (s Snapshot) HasTrack() bool {
	return s.Status == StatusActive && s.Track != nil
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (s Snapshot) ProgressPercent() float64 {
	if !s.HasTrack() || s.Track.Duration == 0 {
		return 0
	}
	return float64(s.Progress) / float64(s.Track.Duration) * 100
}

// Normalize clamps impossible provider data. Progress never exceeds the track
// duration, and negative progress becomes zero.
func (s Snapshot) Normalize() Snapshot {
	if s.Progress < 0 {
		s.Progress = 0
	}
	if s.Track != nil && s.Track.Duration > 0 && s.Progress > s.Track.Duration {
		s.Progress = s.Track.Duration
	}
	return s
}

// TrackChanged reports whether the playing track differs between two
// snapshots.
func TrackChanged(prev, curr Snapshot) bool {
	if prev.Track == nil && curr.Track == nil {
		return false
	}
	if prev.Track == nil || curr.Track == nil {
		return true
	}
	return prev.Track.URI != curr.Track.URI
}
