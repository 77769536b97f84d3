package core

// Queue is a read-only view of the remote playback queue, refreshed alongside
// the playback snapshot. Enqueue requests go to the remote; this view only
// changes when a later poll reflects them.
type Queue struct {
	Tracks []Track `json:"tracks"`
}

// Upcoming returns tracks after the currently playing one.
func (q *Queue) Upcoming() []Track {
	if q == nil || len(q.Tracks) <= 1 {
		return nil
	}
	return q.Tracks[1:]
}

// Len returns the total number of tracks in the queue view.
func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Tracks)
}

// IsEmpty returns true if the queue view has no tracks.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}
