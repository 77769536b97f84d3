// Package player adapts the Spotify client to the core.Player interface and
// the snapshot model the TUI and CLI consume.
package player

import (
	"context"
	"errors"
	"time"

	"strum/internal/core"
	strumerrors "strum/internal/errors"
	"strum/internal/spotify/client"
)

// Player implements core.Player for Spotify.
type Player struct {
	client   *client.Client
	deviceID string // optional target device
}

// New creates a new Spotify player.
func New(c *client.Client) *Player {
	return &Player{client: c}
}

// SetDevice sets the target device for playback commands.
func (p *Player) SetDevice(deviceID string) {
	p.deviceID = deviceID
}

// Play starts or resumes playback.
func (p *Player) Play(ctx context.Context) error {
	return p.client.Play(ctx, p.deviceID, nil)
}

// PlayURI starts playback of a specific track URI.
func (p *Player) PlayURI(ctx context.Context, uri string) error {
	return p.client.Play(ctx, p.deviceID, &client.PlayOptions{
		URIs: []string{uri},
	})
}

// PlayContext starts playback of a context (album, playlist) at a position.
func (p *Player) PlayContext(ctx context.Context, contextURI string, offset int) error {
	return p.client.Play(ctx, p.deviceID, &client.PlayOptions{
		ContextURI: contextURI,
		Offset:     &client.PlayOffset{Position: offset},
	})
}

// PlayTracks starts playback of an explicit track list at a position. Used
// for the liked-songs view, which has no context URI to hand the API.
func (p *Player) PlayTracks(ctx context.Context, uris []string, offset int) error {
	return p.client.Play(ctx, p.deviceID, &client.PlayOptions{
		URIs:   uris,
		Offset: &client.PlayOffset{Position: offset},
	})
}

// Pause pauses playback.
func (p *Player) Pause(ctx context.Context) error {
	return p.client.Pause(ctx, p.deviceID)
}

// Next skips to the next track.
func (p *Player) Next(ctx context.Context) error {
	return p.client.Next(ctx, p.deviceID)
}

// Prev skips to the previous track.
func (p *Player) Prev(ctx context.Context) error {
	return p.client.Previous(ctx, p.deviceID)
}

// Snapshot fetches and normalizes the current playback state. A remote with
// no active device yields the explicit no-device snapshot; errors yield no
// snapshot at all, never a stale or partial one.
func (p *Player) Snapshot(ctx context.Context) (core.Snapshot, error) {
	state, err := p.client.GetPlaybackState(ctx)
	if err != nil {
		if errors.Is(err, strumerrors.ErrNoActiveDevice) {
			return core.NoActivePlayback(), nil
		}
		return core.Unknown(), err
	}

	if state == nil || state.Device.ID == "" {
		return core.NoActivePlayback(), nil
	}

	snap := core.Snapshot{
		Status:    core.StatusActive,
		Track:     convertTrack(state.Item),
		Device:    convertDevice(&state.Device),
		IsPlaying: state.IsPlaying,
		Progress:  time.Duration(state.ProgressMS) * time.Millisecond,
		FetchedAt: time.Now(),
	}
	return snap.Normalize(), nil
}

// GetQueue returns the current playback queue, currently playing track
// first.
func (p *Player) GetQueue(ctx context.Context) (*core.Queue, error) {
	queue, err := p.client.GetQueue(ctx)
	if err != nil {
		return nil, err
	}

	coreQueue := &core.Queue{
		Tracks: make([]core.Track, 0, len(queue.Queue)+1),
	}
	if queue.CurrentlyPlaying != nil {
		coreQueue.Tracks = append(coreQueue.Tracks, *convertTrack(queue.CurrentlyPlaying))
	}
	for i := range queue.Queue {
		coreQueue.Tracks = append(coreQueue.Tracks, *convertTrack(&queue.Queue[i]))
	}
	return coreQueue, nil
}

// AddToQueue adds a track to the playback queue.
func (p *Player) AddToQueue(ctx context.Context, trackURI string) error {
	return p.client.AddToQueue(ctx, trackURI, p.deviceID)
}

// TransferPlayback transfers playback to a different device.
func (p *Player) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	return p.client.TransferPlayback(ctx, deviceID, play)
}

// GetDevices returns the user's available playback devices.
func (p *Player) GetDevices(ctx context.Context) ([]core.Device, error) {
	devices, err := p.client.GetDevices(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]core.Device, len(devices))
	for i := range devices {
		result[i] = *convertDevice(&devices[i])
	}
	return result, nil
}

func convertTrack(t *client.Track) *core.Track {
	if t == nil {
		return nil
	}

	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}
	artist := ""
	if len(artists) > 0 {
		artist = artists[0]
	}

	return &core.Track{
		ID:       t.ID,
		URI:      t.URI,
		Title:    t.Name,
		Artist:   artist,
		Artists:  artists,
		Album:    t.Album.Name,
		Duration: time.Duration(t.DurationMS) * time.Millisecond,
	}
}

func convertDevice(d *client.Device) *core.Device {
	if d == nil {
		return nil
	}

	deviceType := core.DeviceType(d.Type)
	switch d.Type {
	case "Computer":
		deviceType = core.DeviceTypeComputer
	case "Smartphone":
		deviceType = core.DeviceTypePhone
	case "Speaker":
		deviceType = core.DeviceTypeSpeaker
	case "TV":
		deviceType = core.DeviceTypeTV
	}

	return &core.Device{
		ID:       d.ID,
		Name:     d.Name,
		Type:     deviceType,
		IsActive: d.IsActive,
	}
}

var _ core.Player = (*Player)(nil)
