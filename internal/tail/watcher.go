// Package tail turns the playback snapshot stream into discrete events for
// the `strum tail` command.
package tail

import (
	"context"
	"time"

	"strum/internal/core"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventTrackChange EventType = iota
	EventTrackComplete
	EventTrackSkip
	EventPause
	EventResume
	EventDeviceChange
	EventPlaybackStopped
)

// Event represents a playback state change between two snapshots.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Previous  core.Snapshot
	Current   core.Snapshot
}

// Watcher polls a player for snapshots and emits events for the differences.
type Watcher struct {
	player   core.Player
	interval time.Duration
	events   chan Event
	done     chan struct{}
}

// NewWatcher creates a new snapshot watcher.
func NewWatcher(player core.Player, interval time.Duration) *Watcher {
	if interval == 0 {
		interval = time.Second
	}
	return &Watcher{
		player:   player,
		interval: interval,
		events:   make(chan Event, 16),
		done:     make(chan struct{}),
	}
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins polling for snapshot changes. A failed poll produces no
// events; the previous snapshot is kept only as a diff baseline and never
// presented as current.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer close(w.events)

	prev := core.Unknown()
	if snap, err := w.player.Snapshot(ctx); err == nil {
		prev = snap
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case <-ticker.C:
			curr, err := w.player.Snapshot(ctx)
			if err != nil {
				continue
			}

			for _, e := range DiffSnapshots(prev, curr) {
				select {
				case w.events <- e:
				default:
					// Drop when the consumer falls behind.
				}
			}

			prev = curr
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.done)
}

// DiffSnapshots compares two snapshots and returns the detected events.
func DiffSnapshots(prev, curr core.Snapshot) []Event {
	now := time.Now()
	var events []Event

	// Nothing was known before: report what is playing now, if anything.
	if prev.Status == core.StatusUnknown {
		if curr.HasTrack() {
			events = append(events, Event{
				Type:      EventTrackChange,
				Timestamp: now,
				Previous:  prev,
				Current:   curr,
			})
		}
		return events
	}

	if prev.Status == core.StatusActive && curr.Status == core.StatusNoDevice {
		return append(events, Event{
			Type:      EventPlaybackStopped,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if core.TrackChanged(prev, curr) {
		eventType := EventTrackChange
		if prev.HasTrack() && wasCompleted(prev) {
			eventType = EventTrackComplete
		} else if prev.HasTrack() {
			eventType = EventTrackSkip
		}
		events = append(events, Event{
			Type:      eventType,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if prev.IsPlaying && !curr.IsPlaying && curr.Status == core.StatusActive {
		events = append(events, Event{
			Type:      EventPause,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	} else if !prev.IsPlaying && curr.IsPlaying {
		events = append(events, Event{
			Type:      EventResume,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	if deviceChanged(prev, curr) {
		events = append(events, Event{
			Type:      EventDeviceChange,
			Timestamp: now,
			Previous:  prev,
			Current:   curr,
		})
	}

	return events
}

// wasCompleted returns true if the track likely finished naturally: progress
// within 95% of the duration at the last sighting.
func wasCompleted(snap core.Snapshot) bool {
	if snap.Track == nil || snap.Track.Duration == 0 {
		return false
	}
	threshold := float64(snap.Track.Duration) * 0.95
	return float64(snap.Progress) >= threshold
}

func deviceChanged(prev, curr core.Snapshot) bool {
	if prev.Device == nil && curr.Device == nil {
		return false
	}
	if prev.Device == nil || curr.Device == nil {
		return true
	}
	return prev.Device.ID != curr.Device.ID
}
